package dstv

import (
	"context"
	"testing"

	"github.com/topsteelcad/dstv-engine/internal/stubformats"
	"github.com/topsteelcad/dstv-engine/pkg/engine"
	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

const sample = `** minimal square tube with two web holes
ST
  1001 - - - S355 1 HSS51X51X4.8 M 2259.98 50.8 50.8 4.78 4.78 0 0
BO
  89.01s 25.40 17.50
  174.93s 25.40 17.50
EN
`

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e := engine.New(engine.DefaultOptions())
	t.Cleanup(e.Close)
	if err := Register(e, DefaultOptions()); err != nil {
		t.Fatalf("register dstv: %v", err)
	}
	if err := stubformats.RegisterAll(e); err != nil {
		t.Fatalf("register stubs: %v", err)
	}
	return e
}

func TestAutoDetection(t *testing.T) {
	e := newEngine(t)

	// Unknown extension forces pure content probing across all plugins.
	id, err := e.DetectFormat([]byte(sample), "foo.unknown")
	if err != nil {
		t.Fatalf("DetectFormat: %v", err)
	}
	if id != "dstv" {
		t.Fatalf("detected %q, want dstv", id)
	}

	res := e.Import(context.Background(), []byte(sample), engine.ImportOptions{})
	if !res.Success {
		t.Fatalf("auto-detected import failed: %v", res.Errors)
	}
	if res.Metadata.Format != "dstv" {
		t.Fatalf("metadata format = %q", res.Metadata.Format)
	}
}

func TestImportThroughEngine(t *testing.T) {
	e := newEngine(t)
	res := e.Import(context.Background(), []byte(sample), engine.ImportOptions{Format: "dstv"})
	if !res.Success {
		t.Fatalf("import failed: %v", res.Errors)
	}
	if res.Scene == nil || len(res.Scene.Parts) != 1 {
		t.Fatal("expected one part")
	}
	part := res.Scene.Parts[0]
	if part.Category != pivot.CategoryHollowSquare || len(part.Features) != 2 {
		t.Fatalf("part = %+v", part)
	}
	if res.Stats.ImportedElements != 1 || res.Stats.FailedElements != 0 {
		t.Fatalf("stats = %+v", res.Stats)
	}
}

func TestEngineRoundTrip(t *testing.T) {
	e := newEngine(t)
	first := e.Import(context.Background(), []byte(sample), engine.ImportOptions{Format: "dstv"})
	if !first.Success {
		t.Fatalf("import failed: %v", first.Errors)
	}

	exported := e.Export(context.Background(), first.Scene, "dstv", engine.ExportOptions{})
	if !exported.Success {
		t.Fatalf("export failed: %v", exported.Errors)
	}

	second := e.Import(context.Background(), exported.Data, engine.ImportOptions{Format: "dstv"})
	if !second.Success {
		t.Fatalf("re-import failed: %v\n%s", second.Errors, exported.Data)
	}
	a, b := first.Scene.Parts[0], second.Scene.Parts[0]
	if a.Designation != b.Designation || a.Length != b.Length || len(a.Features) != len(b.Features) {
		t.Fatalf("round trip drifted: %+v vs %+v", a, b)
	}
}

func TestStubImportFailsWithCapabilityError(t *testing.T) {
	e := newEngine(t)
	res := e.Import(context.Background(), []byte("not a real file"), engine.ImportOptions{Format: "ifc"})
	if res.Success {
		t.Fatal("stub import must fail")
	}
	if len(res.Errors) == 0 {
		t.Fatal("expected a capability error")
	}
}

func TestCapabilitiesSurface(t *testing.T) {
	e := newEngine(t)
	caps, err := e.Capabilities("dstv")
	if err != nil {
		t.Fatalf("Capabilities: %v", err)
	}
	if !caps.Import.Geometry || !caps.Import.Features || caps.Export == nil {
		t.Fatalf("caps = %+v", caps)
	}
	if len(e.SupportedFormats()) != 7 {
		t.Fatalf("formats = %d, want 7", len(e.SupportedFormats()))
	}
}
