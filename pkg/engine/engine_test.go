package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/topsteelcad/dstv-engine/internal/diag"
	"github.com/topsteelcad/dstv-engine/internal/pipeline"
	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// fakePlugin is a configurable synthetic plugin for engine tests.
type fakePlugin struct {
	id         string
	extensions []string
	confidence float64
	stageDelay time.Duration
	exportable bool
}

func (f *fakePlugin) Info() Info {
	return Info{ID: f.id, Name: "fake " + f.id, Version: "1.0.0", Extensions: f.extensions}
}

func (f *fakePlugin) Capabilities() Capabilities {
	caps := Capabilities{Import: Capability{Geometry: true}}
	if f.exportable {
		caps.Export = &Capability{Geometry: true}
	}
	return caps
}

func (f *fakePlugin) Validate(data []byte) ValidationReport {
	return ValidationReport{IsValid: f.confidence > 0.5, Confidence: f.confidence}
}

func (f *fakePlugin) ImportPipeline(opts map[string]any) (*pipeline.Pipeline, error) {
	pipe := pipeline.New(pipeline.DefaultOptions())
	pipe.AddStage(pipeline.Stage{
		Name: "work",
		Run: func(ctx *pipeline.Context, input any) (any, error) {
			if f.stageDelay > 0 {
				time.Sleep(f.stageDelay)
			}
			return &pivot.Scene{Parts: []*pivot.Part{{ID: "p1", Length: 1}}}, nil
		},
	})
	pipe.AddStage(pipeline.Stage{
		Name: "finish",
		Run: func(ctx *pipeline.Context, input any) (any, error) {
			return input, nil
		},
	})
	return pipe, nil
}

func (f *fakePlugin) ExportPipeline(opts map[string]any) (*pipeline.Pipeline, error) {
	pipe := pipeline.New(pipeline.DefaultOptions())
	pipe.AddStage(pipeline.Stage{
		Name: "emit",
		Run: func(ctx *pipeline.Context, input any) (any, error) {
			return []byte("exported"), nil
		},
	})
	return pipe, nil
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(DefaultOptions())
	t.Cleanup(e.Close)
	return e
}

func TestRegisterRejectsBadSchema(t *testing.T) {
	e := newTestEngine(t)

	err := e.RegisterFormat(&fakePlugin{id: "nonsense", extensions: []string{".x"}})
	pv, ok := err.(*diag.PluginValidationError)
	if !ok {
		t.Fatalf("err = %v, want PluginValidationError", err)
	}
	if len(pv.Fields) == 0 || pv.Fields[0] != "id" {
		t.Fatalf("fields = %v", pv.Fields)
	}

	err = e.RegisterFormat(&fakePlugin{id: "obj", extensions: []string{"obj"}})
	if _, ok := err.(*diag.PluginValidationError); !ok {
		t.Fatalf("extension without dot: err = %v", err)
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	e := newTestEngine(t)
	if err := e.RegisterFormat(&fakePlugin{id: "obj", extensions: []string{".obj"}}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	err := e.RegisterFormat(&fakePlugin{id: "obj", extensions: []string{".obj"}})
	if _, ok := err.(*diag.DuplicatePluginError); !ok {
		t.Fatalf("err = %v, want DuplicatePluginError", err)
	}
}

func TestUnregisterUnknown(t *testing.T) {
	e := newTestEngine(t)
	if _, ok := e.UnregisterFormat("gltf").(*diag.UnknownFormatError); !ok {
		t.Fatal("want UnknownFormatError")
	}
}

func TestDetectFormatPicksHighestConfidence(t *testing.T) {
	e := newTestEngine(t)
	e.RegisterFormat(&fakePlugin{id: "obj", extensions: []string{".dat"}, confidence: 0.85})
	e.RegisterFormat(&fakePlugin{id: "gltf", extensions: []string{".dat"}, confidence: 0.95})

	id, err := e.DetectFormat([]byte("payload"), "part.dat")
	if err != nil {
		t.Fatalf("DetectFormat: %v", err)
	}
	if id != "gltf" {
		t.Fatalf("id = %q, want gltf", id)
	}
}

func TestDetectFormatTieBreaksByRegistrationOrder(t *testing.T) {
	e := newTestEngine(t)
	e.RegisterFormat(&fakePlugin{id: "obj", extensions: []string{".dat"}, confidence: 0.9})
	e.RegisterFormat(&fakePlugin{id: "gltf", extensions: []string{".dat"}, confidence: 0.9})

	id, err := e.DetectFormat([]byte("payload"), "part.dat")
	if err != nil {
		t.Fatalf("DetectFormat: %v", err)
	}
	if id != "obj" {
		t.Fatalf("id = %q, want first-registered obj", id)
	}
}

func TestDetectFormatBelowThreshold(t *testing.T) {
	e := newTestEngine(t)
	e.RegisterFormat(&fakePlugin{id: "obj", extensions: []string{".obj"}, confidence: 0.4})

	_, err := e.DetectFormat([]byte("payload"), "part.obj")
	cd, ok := err.(*diag.CannotDetectFormatError)
	if !ok {
		t.Fatalf("err = %v, want CannotDetectFormatError", err)
	}
	if len(cd.Candidates) != 1 || cd.Candidates[0].FormatID != "obj" {
		t.Fatalf("candidates = %+v", cd.Candidates)
	}
}

func TestImportUnknownFormat(t *testing.T) {
	e := newTestEngine(t)
	res := e.Import(context.Background(), []byte("x"), ImportOptions{Format: "step"})
	if res.Success {
		t.Fatal("expected failure")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %v", res.Errors)
	}
	if _, ok := res.Errors[0].(*diag.UnknownFormatError); !ok {
		t.Fatalf("error type = %T", res.Errors[0])
	}
}

func TestImportTimeout(t *testing.T) {
	e := newTestEngine(t)
	e.RegisterFormat(&fakePlugin{id: "obj", extensions: []string{".obj"}, confidence: 0.9, stageDelay: 100 * time.Millisecond})

	res := e.Import(context.Background(), []byte("x"), ImportOptions{Format: "obj", TimeoutMS: 50})
	if res.Success {
		t.Fatal("expected timeout failure")
	}
	if res.Scene != nil {
		t.Fatal("timed-out import must not return a scene")
	}
	found := false
	for _, err := range res.Errors {
		if de, ok := err.(*diag.Error); ok && de.Kind == diag.KindResource && strings.Contains(de.Message, "timed out") {
			found = true
		}
	}
	if !found {
		t.Fatalf("errors = %v, want a Resource 'timed out' error", res.Errors)
	}
}

func TestImportCancellation(t *testing.T) {
	e := newTestEngine(t)
	e.RegisterFormat(&fakePlugin{id: "obj", extensions: []string{".obj"}, confidence: 0.9, stageDelay: 100 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	res := e.Import(ctx, []byte("x"), ImportOptions{Format: "obj"})
	if res.Success {
		t.Fatal("expected cancellation failure")
	}
	found := false
	for _, err := range res.Errors {
		if err == diag.ErrCancelled {
			found = true
		}
	}
	if !found {
		t.Fatalf("errors = %v, want ErrCancelled", res.Errors)
	}
}

func TestImportSuccessUpdatesMetrics(t *testing.T) {
	e := newTestEngine(t)
	e.RegisterFormat(&fakePlugin{id: "obj", extensions: []string{".obj"}, confidence: 0.9})

	res := e.Import(context.Background(), []byte("x"), ImportOptions{Format: "obj"})
	if !res.Success {
		t.Fatalf("import failed: %v", res.Errors)
	}
	if res.Stats.TotalElements != 1 || res.Stats.ImportedElements != 0 {
		t.Fatalf("stats = %+v", res.Stats)
	}
	snap := e.Metrics()
	if snap.TotalImports != 1 || snap.ImportsByFormat["obj"] != 1 {
		t.Fatalf("metrics = %+v", snap)
	}
}

func TestExportCapabilityGate(t *testing.T) {
	e := newTestEngine(t)
	e.RegisterFormat(&fakePlugin{id: "obj", extensions: []string{".obj"}, confidence: 0.9})

	scene := &pivot.Scene{Parts: []*pivot.Part{{ID: "p1"}}}
	res := e.Export(context.Background(), scene, "obj", ExportOptions{})
	if res.Success {
		t.Fatal("expected capability failure")
	}
	de, ok := res.Errors[0].(*diag.Error)
	if !ok || de.Kind != diag.KindCapability {
		t.Fatalf("error = %v", res.Errors[0])
	}
}

func TestExport(t *testing.T) {
	e := newTestEngine(t)
	e.RegisterFormat(&fakePlugin{id: "obj", extensions: []string{".obj"}, confidence: 0.9, exportable: true})

	scene := &pivot.Scene{Parts: []*pivot.Part{{ID: "p1", Designation: "IPE300"}}}
	res := e.Export(context.Background(), scene, "obj", ExportOptions{})
	if !res.Success {
		t.Fatalf("export failed: %v", res.Errors)
	}
	if string(res.Data) != "exported" {
		t.Fatalf("data = %q", res.Data)
	}
	if res.Filename != "IPE300.obj" {
		t.Fatalf("filename = %q", res.Filename)
	}
}

func TestMemoryLimit(t *testing.T) {
	opts := DefaultOptions()
	opts.MemoryLimitMB = 1
	e := New(opts)
	t.Cleanup(e.Close)
	e.RegisterFormat(&fakePlugin{id: "obj", extensions: []string{".obj"}, confidence: 0.9})

	res := e.Import(context.Background(), make([]byte, 2*1024*1024), ImportOptions{Format: "obj"})
	if res.Success {
		t.Fatal("expected memory-limit failure")
	}
	de, ok := res.Errors[0].(*diag.Error)
	if !ok || de.Kind != diag.KindResource {
		t.Fatalf("error = %v", res.Errors[0])
	}
}

func TestConcurrentImportsAreIsolated(t *testing.T) {
	e := newTestEngine(t)
	e.RegisterFormat(&fakePlugin{id: "obj", extensions: []string{".obj"}, confidence: 0.9})
	e.RegisterFormat(&fakePlugin{id: "gltf", extensions: []string{".gltf"}, confidence: 0.9, stageDelay: 20 * time.Millisecond})

	results := make(chan *ImportResult, 8)
	for i := 0; i < 8; i++ {
		format := "obj"
		if i%2 == 1 {
			format = "gltf"
		}
		go func(f string) {
			results <- e.Import(context.Background(), []byte("x"), ImportOptions{Format: f})
		}(format)
	}
	for i := 0; i < 8; i++ {
		res := <-results
		if !res.Success {
			t.Fatalf("concurrent import failed: %v", res.Errors)
		}
		if len(res.Errors) != 0 {
			t.Fatalf("errors leaked across jobs: %v", res.Errors)
		}
	}
}
