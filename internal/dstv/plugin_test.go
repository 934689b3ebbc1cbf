package dstv

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/topsteelcad/dstv-engine/internal/diag"
	"github.com/topsteelcad/dstv-engine/internal/pipeline"
	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

const minimalTube = `ST
  1001 - - - S355 1 HSS51X51X4.8 M 2259.98 50.8 50.8 4.78 4.78 0 0
BO
  89.01s 25.40 17.50
  174.93s 25.40 17.50
EN
`

const ibeamWithMarking = `ST
  2002 - - - S355 1 IPE300 I 2700 300 150 7.1 10.7 0 0
SI
  v 200 150 10 0 PART-001
EN
`

func runImport(t *testing.T, src string) (*pivot.Scene, *pipeline.Context, error) {
	t.Helper()
	pipe, err := New(DefaultOptions()).ImportPipeline(nil)
	if err != nil {
		t.Fatalf("ImportPipeline: %v", err)
	}
	ctx := pipeline.NewContext(diag.LevelDebug)
	out, execErr := pipe.Execute(ctx, []byte(src))
	scene, _ := out.(*pivot.Scene)
	return scene, ctx, execErr
}

func TestImportMinimalTube(t *testing.T) {
	scene, ctx, err := runImport(t, minimalTube)
	if err != nil {
		t.Fatalf("Execute: %v (errors: %v)", err, ctx.Errors())
	}
	if len(scene.Parts) != 1 {
		t.Fatalf("parts = %d, want 1", len(scene.Parts))
	}
	part := scene.Parts[0]
	if part.Category != pivot.CategoryHollowSquare {
		t.Fatalf("category = %v, want HOLLOW_SQUARE", part.Category)
	}
	if part.Designation != "HSS51X51X4.8" || part.Grade != "S355" {
		t.Fatalf("designation/grade = %q/%q", part.Designation, part.Grade)
	}
	if len(part.Features) != 2 {
		t.Fatalf("features = %d, want 2", len(part.Features))
	}
	wantPos := []pivot.Point2D{{X: 89.01, Y: 25.40}, {X: 174.93, Y: 25.40}}
	for i, f := range part.Features {
		if f.Kind != pivot.KindHole {
			t.Fatalf("feature %d kind = %v, want HOLE", i, f.Kind)
		}
		if f.Face != pivot.FaceWeb {
			t.Fatalf("feature %d face = %v, want WEB", i, f.Face)
		}
		if f.Position != wantPos[i] {
			t.Fatalf("feature %d position = %v, want %v", i, f.Position, wantPos[i])
		}
		if hp := f.Params.(*pivot.ParamsHole); hp.Diameter != 17.50 {
			t.Fatalf("feature %d diameter = %v, want 17.50", i, hp.Diameter)
		}
	}
	if part.Solid.VertexCount() <= 3 {
		t.Fatalf("vertex count = %d, want > 3", part.Solid.VertexCount())
	}
	min, max, _ := part.Solid.Bounds()
	if span := max.Z - min.Z; math.Abs(span-2259.98) > 1e-6 {
		t.Fatalf("length span = %v, want 2259.98", span)
	}
}

func TestImportIBeamWithMarking(t *testing.T) {
	scene, ctx, err := runImport(t, ibeamWithMarking)
	if err != nil {
		t.Fatalf("Execute: %v (errors: %v)", err, ctx.Errors())
	}
	part := scene.Parts[0]
	if part.Category != pivot.CategoryIBeam {
		t.Fatalf("category = %v, want I_BEAM", part.Category)
	}
	if len(part.Features) != 1 {
		t.Fatalf("features = %d, want 1", len(part.Features))
	}
	f := part.Features[0]
	if f.Kind != pivot.KindMarking || f.Face != pivot.FaceWeb {
		t.Fatalf("feature = kind %v face %v", f.Kind, f.Face)
	}
	if f.Position.X != 200 || f.Position.Y != 150 {
		t.Fatalf("position = %v", f.Position)
	}
	mp := f.Params.(*pivot.ParamsMarking)
	if mp.Text != "PART-001" || mp.Height != 10 || mp.Rotation != 0 {
		t.Fatalf("marking params = %+v", mp)
	}
}

func TestImportOuterContourLeavesBaseUnchanged(t *testing.T) {
	src := `ST
  3003 - - - S355 1 HSS60X60X4 M 2260 60 60 4 4 0 0
AK
  0v 0
  2260 0
  2260 60
  0 60
  0 0
EN
`
	scene, ctx, err := runImport(t, src)
	if err != nil {
		t.Fatalf("Execute: %v (errors: %v)", err, ctx.Errors())
	}
	part := scene.Parts[0]
	if len(part.Features) != 1 || part.Features[0].Kind != pivot.KindOuterContour {
		t.Fatalf("features = %+v", part.Features)
	}
	cp := part.Features[0].Params.(*pivot.ParamsContour)
	if len(cp.Vertices) != 5 {
		t.Fatalf("contour vertices = %d, want 5 (closed)", len(cp.Vertices))
	}
	min, max, _ := part.Solid.Bounds()
	if math.Abs((max.Z-min.Z)-2260) > 1e-6 {
		t.Fatalf("outer contour changed the base solid: span %v", max.Z-min.Z)
	}
	if math.Abs((max.X-min.X)-60) > 1e-6 || math.Abs((max.Y-min.Y)-60) > 1e-6 {
		t.Fatalf("outer contour changed the cross-section: %v x %v", max.X-min.X, max.Y-min.Y)
	}
}

func TestImportMissingST(t *testing.T) {
	src := `BO
  89.01 25.40 17.50
EN
`
	scene, ctx, err := runImport(t, src)
	if err == nil {
		t.Fatal("expected pipeline failure")
	}
	if scene != nil {
		t.Fatal("expected no scene")
	}
	errs := ctx.Errors()
	if len(errs) != 1 {
		t.Fatalf("errors = %v, want exactly 1", errs)
	}
	var derr *diag.Error
	if !errors.As(errs[0], &derr) {
		t.Fatalf("error type = %T", errs[0])
	}
	if derr.Kind != diag.KindValidation || !strings.Contains(derr.Message, "before ST") {
		t.Fatalf("error = %+v", derr)
	}
	if derr.Location == nil || derr.Location.FileLine != 1 {
		t.Fatalf("location = %+v", derr.Location)
	}
}

func TestLexStageCachedAcrossImports(t *testing.T) {
	p := New(DefaultOptions())

	pipe1, err := p.ImportPipeline(nil)
	if err != nil {
		t.Fatalf("ImportPipeline: %v", err)
	}
	ctx1 := pipeline.NewContext(diag.LevelDebug)
	if _, err := pipe1.Execute(ctx1, []byte(minimalTube)); err != nil {
		t.Fatalf("first import: %v", err)
	}
	if _, ok := ctx1.Metrics()["tokens"]; !ok {
		t.Fatal("first import should run the lex stage")
	}

	pipe2, err := p.ImportPipeline(nil)
	if err != nil {
		t.Fatalf("ImportPipeline: %v", err)
	}
	ctx2 := pipeline.NewContext(diag.LevelDebug)
	out, err := pipe2.Execute(ctx2, []byte(minimalTube))
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	// The plugin shares one lex cache across its pipelines; the second
	// import of the same bytes skips the lex stage entirely.
	if _, ok := ctx2.Metrics()["tokens"]; ok {
		t.Fatal("second import of identical bytes should hit the lex cache")
	}
	scene := out.(*pivot.Scene)
	if len(scene.Parts) != 1 || len(scene.Parts[0].Features) != 2 {
		t.Fatalf("cached lex produced a different scene: %+v", scene.Parts)
	}
}

func TestValidateProbe(t *testing.T) {
	p := New(DefaultOptions())

	report := p.Validate([]byte(minimalTube))
	if !report.IsValid || report.Confidence < 0.9 {
		t.Fatalf("report = %+v, want valid with confidence >= 0.9", report)
	}

	report = p.Validate([]byte("solid cube\n  facet normal 0 0 1\n"))
	if report.Confidence > 0.1 {
		t.Fatalf("non-NC1 bytes scored %v", report.Confidence)
	}
}

func TestRoundTrip(t *testing.T) {
	src := `ST
  4004 - - - S235 1 HSS51X51X4.8 M 1800 50.8 50.8 4.78 4.78 0 0
BO
  100v 25.4 14
SI
  200v 25.4 8 0 RT-01
TO
  100 25.4 14 2 6 right
EN
`
	first, ctx, err := runImport(t, src)
	if err != nil {
		t.Fatalf("first import: %v (errors: %v)", err, ctx.Errors())
	}

	emitted, err := Emit(pipeline.NewContext(diag.LevelInfo), first)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}

	second, ctx2, err := runImport(t, string(emitted))
	if err != nil {
		t.Fatalf("second import: %v (errors: %v)\nemitted:\n%s", err, ctx2.Errors(), emitted)
	}

	a, b := first.Parts[0], second.Parts[0]
	if a.Designation != b.Designation || a.Grade != b.Grade || a.Category != b.Category || a.Length != b.Length {
		t.Fatalf("part header mismatch: %+v vs %+v", a, b)
	}
	if len(a.Features) != len(b.Features) {
		t.Fatalf("feature counts differ: %d vs %d", len(a.Features), len(b.Features))
	}
	for i := range a.Features {
		fa, fb := a.Features[i], b.Features[i]
		if fa.Kind != fb.Kind || fa.Face != fb.Face || fa.Position != fb.Position {
			t.Fatalf("feature %d envelope mismatch: %+v vs %+v", i, fa, fb)
		}
		pa, pb := fa.Params, fb.Params
		// Thread host ids renumber with their holes; mask before comparing.
		if ta, ok := pa.(*pivot.ParamsThread); ok {
			ca, cb := *ta, *pb.(*pivot.ParamsThread)
			ca.HostHoleID, cb.HostHoleID = "", ""
			if ca != cb {
				t.Fatalf("feature %d thread params mismatch: %+v vs %+v", i, ca, cb)
			}
			continue
		}
		if !reflect.DeepEqual(pa, pb) {
			t.Fatalf("feature %d params mismatch: %#v vs %#v", i, pa, pb)
		}
	}
}
