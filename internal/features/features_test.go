package features

import (
	"math"
	"testing"

	"github.com/topsteelcad/dstv-engine/internal/diag"
	"github.com/topsteelcad/dstv-engine/internal/geometry/profiles"
	"github.com/topsteelcad/dstv-engine/internal/pipeline"
	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

func squareTubePart(t *testing.T) (*pivot.Part, *pivot.Solid) {
	t.Helper()
	p := &pivot.Part{
		Category: pivot.CategoryHollowSquare,
		Length:   2259.98,
		Dimensions: pivot.Dimensions{
			pivot.DimHeight:        50.8,
			pivot.DimWidth:         50.8,
			pivot.DimWallThickness: 4.78,
			pivot.DimOuterRadius:   4.78,
		},
	}
	s, err := profiles.Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return p, s
}

func hole(id string, x, y, dia float64) *pivot.Feature {
	return &pivot.Feature{
		ID:       id,
		Kind:     pivot.KindHole,
		Face:     pivot.FaceWeb,
		Position: pivot.Point2D{X: x, Y: y},
		Params:   &pivot.ParamsHole{Diameter: dia, Through: true},
	}
}

func TestApplyHolesKeepsBounds(t *testing.T) {
	part, solid := squareTubePart(t)
	part.Features = []*pivot.Feature{
		hole("BO_2_1", 89.01, 25.40, 17.50),
		hole("BO_2_2", 174.93, 25.40, 17.50),
	}
	before := solid.VertexCount()
	min0, max0, _ := solid.Bounds()

	ctx := pipeline.NewContext(diag.LevelInfo)
	res, err := NewRegistry().Apply(ctx, part, solid)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(ctx.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Errors())
	}
	if res.Solid.VertexCount() <= before {
		t.Fatal("drilling added no geometry")
	}
	min1, max1, _ := res.Solid.Bounds()
	if math.Abs(min0.Z-min1.Z) > 1e-9 || math.Abs(max0.Z-max1.Z) > 1e-9 {
		t.Fatal("drilling changed the solid's extent")
	}
}

func TestApplyRecordsInvalidFeatureAndContinues(t *testing.T) {
	part, solid := squareTubePart(t)
	part.Features = []*pivot.Feature{
		hole("BO_2_1", 100, 25.40, 500), // larger than the face
		hole("BO_2_2", 174.93, 25.40, 17.50),
	}

	ctx := pipeline.NewContext(diag.LevelInfo)
	res, err := NewRegistry().Apply(ctx, part, solid)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	errs := ctx.Errors()
	if len(errs) != 1 {
		t.Fatalf("errors = %d, want 1", len(errs))
	}
	if _, ok := errs[0].(*diag.FeatureValidationError); !ok {
		t.Fatalf("error type = %T, want FeatureValidationError", errs[0])
	}
	if res.Solid.VertexCount() < 4 {
		t.Fatal("post-condition violated")
	}
}

func TestApplySkipsUnsupportedKind(t *testing.T) {
	part, solid := squareTubePart(t)
	part.Features = []*pivot.Feature{
		{ID: "XX_1_1", Kind: pivot.KindUnknown, Face: pivot.FaceWeb},
	}

	ctx := pipeline.NewContext(diag.LevelInfo)
	res, err := NewRegistry().Apply(ctx, part, solid)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Skipped) != 1 {
		t.Fatalf("skipped = %d, want 1", len(res.Skipped))
	}
	if len(ctx.Warnings()) != 1 {
		t.Fatalf("warnings = %d, want 1", len(ctx.Warnings()))
	}
}

func TestMarkingPlacement(t *testing.T) {
	part := &pivot.Part{
		Category: pivot.CategoryIBeam,
		Length:   2700,
		Dimensions: pivot.Dimensions{
			pivot.DimHeight:          300,
			pivot.DimWidth:           150,
			pivot.DimWebThickness:    7.1,
			pivot.DimFlangeThickness: 10.7,
			pivot.DimRootRadius:      7,
			pivot.DimToeRadius:       3.5,
		},
	}
	solid, err := profiles.Generate(part)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	part.Features = []*pivot.Feature{{
		ID:       "SI_3_1",
		Kind:     pivot.KindMarking,
		Face:     pivot.FaceWeb,
		Position: pivot.Point2D{X: 200, Y: 150},
		Params:   &pivot.ParamsMarking{Text: "PART-001", Height: 10},
	}}

	res, err := NewRegistry().Apply(pipeline.NewContext(diag.LevelInfo), part, solid)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Placements) != 1 {
		t.Fatalf("placements = %d, want 1", len(res.Placements))
	}
	pl := res.Placements[0]
	if pl.Text != "PART-001" || pl.Height != 10 {
		t.Fatalf("placement = %+v", pl)
	}
	// x=200 along a 2700 part maps to Z = 200 - 1350.
	if math.Abs(pl.Position.Z-(-1150)) > 1e-9 {
		t.Fatalf("placement Z = %v, want -1150", pl.Position.Z)
	}
}

func TestEndCutShortensOneEnd(t *testing.T) {
	part, solid := squareTubePart(t)
	part.Features = []*pivot.Feature{{
		ID:     "SC_4_1",
		Kind:   pivot.KindEndCut,
		Face:   pivot.FaceFront,
		Params: &pivot.ParamsEndCut{Reference: pivot.EndCutEnd, AngleX: 30},
	}}

	atEnd := func(s *pivot.Solid) int {
		n := 0
		for _, v := range s.Vertices {
			if math.Abs(v.Z-part.Length/2) < 1e-9 {
				n++
			}
		}
		return n
	}
	before := atEnd(solid)

	min0, _, _ := solid.Bounds()
	res, err := NewRegistry().Apply(pipeline.NewContext(diag.LevelInfo), part, solid)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	min1, _, _ := res.Solid.Bounds()
	if math.Abs(min0.Z-min1.Z) > 1e-9 {
		t.Fatal("start end moved")
	}
	// The cutting plane passes through the end's centre, so the half of the
	// end ring below it re-seats inward while the other half stays put.
	if after := atEnd(res.Solid); after >= before {
		t.Fatalf("end cut removed no material: %d end vertices before, %d after", before, after)
	}
}

func TestThreadAnnotatesHostHole(t *testing.T) {
	part, solid := squareTubePart(t)
	part.Features = []*pivot.Feature{
		hole("BO_2_1", 100, 25.40, 16),
		{
			ID:       "TO_5_1",
			Kind:     pivot.KindThread,
			Face:     pivot.FaceWeb,
			Position: pivot.Point2D{X: 100, Y: 25.40},
			Params: &pivot.ParamsThread{
				HostHoleID: "BO_2_1",
				Diameter:   16,
				Pitch:      2,
				Depth:      6,
			},
		},
	}

	res, err := NewRegistry().Apply(pipeline.NewContext(diag.LevelInfo), part, solid)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Placements) != 1 || res.Placements[0].Kind != pivot.KindThread {
		t.Fatalf("placements = %+v", res.Placements)
	}
}

func TestApplyCancellation(t *testing.T) {
	part, solid := squareTubePart(t)
	part.Features = []*pivot.Feature{hole("BO_2_1", 89.01, 25.40, 17.50)}

	ctx := pipeline.NewContext(diag.LevelInfo)
	ctx.Abort()
	if _, err := NewRegistry().Apply(ctx, part, solid); err != diag.ErrCancelled {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
}
