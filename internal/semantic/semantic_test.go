package semantic

import (
	"math"
	"testing"

	"github.com/topsteelcad/dstv-engine/internal/blocks"
	"github.com/topsteelcad/dstv-engine/internal/lexer"
	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

const minimalTube = `ST
12345 D001 1 1 S355 1 HSS51X51X4.8 M 2259.98 50.8 50.8 4.78 4.78 10.1 0.2
BO
89.01s 25.40 17.50
174.93s 25.40 17.50
EN
`

func TestRunMinimalTube(t *testing.T) {
	tokens, errs := lexer.Lex([]byte(minimalTube))
	if len(errs) != 0 {
		t.Fatalf("lex errors: %v", errs)
	}
	factory := blocks.NewFactory(blocks.DefaultConfig())
	res, err := Run(tokens, factory, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Part.Category != pivot.CategoryHollowSquare {
		t.Fatalf("category = %v, want HOLLOW_SQUARE", res.Part.Category)
	}
	if len(res.Part.Features) != 2 {
		t.Fatalf("features = %d, want 2", len(res.Part.Features))
	}
	for _, f := range res.Part.Features {
		if f.Kind != pivot.KindHole {
			t.Errorf("feature %s kind = %v, want HOLE", f.ID, f.Kind)
		}
		if f.Face != pivot.FaceWeb {
			t.Errorf("feature %s face = %v, want WEB", f.ID, f.Face)
		}
	}
	if res.BlockCounts["BO"] != 1 {
		t.Fatalf("BO block count = %d, want 1", res.BlockCounts["BO"])
	}
}

func TestRunMissingSTIsFatal(t *testing.T) {
	tokens, _ := lexer.Lex([]byte("BO\n1 1 10\nEN\n"))
	factory := blocks.NewFactory(blocks.DefaultConfig())
	if _, err := Run(tokens, factory, false); err == nil {
		t.Fatal("expected error for feature block before ST")
	}
}

func TestRunMissingENLenientIsWarningOnly(t *testing.T) {
	src := "ST\n12345 D001 1 1 S355 1 IPE300 I 6000 300 150 7.1 10.7 42.2 1.3\n"
	tokens, _ := lexer.Lex([]byte(src))
	factory := blocks.NewFactory(blocks.DefaultConfig())
	res, err := Run(tokens, factory, false)
	if err != nil {
		t.Fatalf("lenient run should not fail on missing EN: %v", err)
	}
	if res.Part.Designation != "IPE300" {
		t.Fatalf("designation = %q, want IPE300", res.Part.Designation)
	}
}

func TestRunMissingENStrictIsFatal(t *testing.T) {
	src := "ST\n12345 D001 1 1 S355 1 IPE300 I 6000 300 150 7.1 10.7 42.2 1.3\n"
	tokens, _ := lexer.Lex([]byte(src))
	factory := blocks.NewFactory(blocks.DefaultConfig())
	if _, err := Run(tokens, factory, true); err == nil {
		t.Fatal("expected fatal error for missing EN in strict mode")
	}
}

func TestKACentreFormCarriesArc(t *testing.T) {
	src := `ST
12345 D001 1 1 S355 1 HSS60X60X4 M 2260 60 60 4 4 0 0
KA
0v 0 50 25 90
100 0
EN
`
	tokens, errs := lexer.Lex([]byte(src))
	if len(errs) != 0 {
		t.Fatalf("lex errors: %v", errs)
	}
	factory := blocks.NewFactory(blocks.DefaultConfig())
	res, err := Run(tokens, factory, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Part.Features) != 1 || res.Part.Features[0].Kind != pivot.KindOuterContour {
		t.Fatalf("features = %+v, want one OUTER_CONTOUR", res.Part.Features)
	}
	cp := res.Part.Features[0].Params.(*pivot.ParamsContour)
	if len(cp.Vertices) != 2 {
		t.Fatalf("contour vertices = %d, want 2", len(cp.Vertices))
	}
	// A 90-degree sweep collapses to bulge tan(22.5 degrees).
	want := math.Tan(90 * math.Pi / 180 / 4)
	if got := cp.Vertices[0].Bulge; math.Abs(got-want) > 1e-12 {
		t.Fatalf("bulge = %v, want %v (centre+sweep arc must not degenerate to a straight segment)", got, want)
	}
	if cp.Vertices[1].Bulge != 0 {
		t.Fatalf("straight segment acquired bulge %v", cp.Vertices[1].Bulge)
	}
}

func TestFeatureIDsAreDeterministic(t *testing.T) {
	tokens, _ := lexer.Lex([]byte(minimalTube))
	factory := blocks.NewFactory(blocks.DefaultConfig())
	res, err := Run(tokens, factory, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Part.Features[0].ID == res.Part.Features[1].ID {
		t.Fatalf("feature ids should differ: %s", res.Part.Features[0].ID)
	}
	for _, f := range res.Part.Features {
		if f.ID == "" {
			t.Fatal("feature id should not be empty")
		}
	}
}
