package profiles

import (
	"math"
	"math/rand"
	"testing"

	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

func TestGenerateSquareTube(t *testing.T) {
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
	s, err := Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if s.VertexCount() <= 3 {
		t.Fatalf("vertex count = %d, want > 3", s.VertexCount())
	}
	min, max, ok := s.Bounds()
	if !ok {
		t.Fatal("empty solid")
	}
	if span := max.Z - min.Z; math.Abs(span-2259.98) > 1e-6 {
		t.Fatalf("Z span = %v, want 2259.98", span)
	}
	// Centred along the extrusion axis to within 1 µm.
	if math.Abs(min.Z+max.Z) > 1e-3 {
		t.Fatalf("solid not centred: min.Z=%v max.Z=%v", min.Z, max.Z)
	}
}

func TestGenerateBoundingBoxes(t *testing.T) {
	cases := []struct {
		name     string
		part     *pivot.Part
		wantX    float64
		wantY    float64
	}{
		{
			name: "ibeam",
			part: &pivot.Part{
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
			},
			wantX: 150,
			wantY: 300,
		},
		{
			name: "flat",
			part: &pivot.Part{
				Category: pivot.CategoryFlat,
				Length:   1000,
				Dimensions: pivot.Dimensions{
					pivot.DimWidth:     100,
					pivot.DimThickness: 12,
				},
			},
			wantX: 100,
			wantY: 12,
		},
		{
			name: "chs",
			part: &pivot.Part{
				Category: pivot.CategoryHollowCircular,
				Length:   1500,
				Dimensions: pivot.Dimensions{
					pivot.DimOuterDiameter: 114.3,
					pivot.DimWallThickness: 6.3,
				},
			},
			wantX: 114.3,
			wantY: 114.3,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Generate(tc.part)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			min, max, _ := s.Bounds()
			// Width/height within 0.5% (tessellated circles land just
			// inside the nominal envelope).
			if got := max.X - min.X; math.Abs(got-tc.wantX)/tc.wantX > 0.005 {
				t.Errorf("X span = %v, want %v", got, tc.wantX)
			}
			if got := max.Y - min.Y; math.Abs(got-tc.wantY)/tc.wantY > 0.005 {
				t.Errorf("Y span = %v, want %v", got, tc.wantY)
			}
			if got := max.Z - min.Z; math.Abs(got-tc.part.Length) > 1e-6 {
				t.Errorf("Z span = %v, want %v", got, tc.part.Length)
			}
		})
	}
}

func TestGenerateBoundsMatchDeclaredDimensions(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		h := 80 + rng.Float64()*400
		w := 50 + rng.Float64()*250
		tw := 4 + rng.Float64()*8
		tf := tw + rng.Float64()*8
		length := 500 + rng.Float64()*10000
		p := &pivot.Part{
			Category: pivot.CategoryIBeam,
			Length:   length,
			Dimensions: pivot.Dimensions{
				pivot.DimHeight:          h,
				pivot.DimWidth:           w,
				pivot.DimWebThickness:    tw,
				pivot.DimFlangeThickness: tf,
				pivot.DimRootRadius:      tf / 3,
				pivot.DimToeRadius:       tf / 3,
			},
		}
		s, err := Generate(p)
		if err != nil {
			t.Fatalf("case %d: Generate: %v", i, err)
		}
		min, max, _ := s.Bounds()
		if got := max.Y - min.Y; math.Abs(got-h)/h > 0.005 {
			t.Fatalf("case %d: height span %v, want %v", i, got, h)
		}
		if got := max.X - min.X; math.Abs(got-w)/w > 0.005 {
			t.Fatalf("case %d: width span %v, want %v", i, got, w)
		}
		if got := max.Z - min.Z; math.Abs(got-length) > 1e-6 {
			t.Fatalf("case %d: length span %v, want %v", i, got, length)
		}
	}
}

func TestCircularTubeInnerInsideOuter(t *testing.T) {
	d := pivot.Dimensions{
		pivot.DimOuterDiameter: 100,
		pivot.DimWallThickness: 8,
	}
	s, err := CircularTube(d, 500)
	if err != nil {
		t.Fatalf("CircularTube: %v", err)
	}
	outerR, innerR := 50.0, 42.0
	sawInner := false
	for _, v := range s.Vertices {
		r := math.Hypot(v.X, v.Y)
		if r > outerR+1e-6 {
			t.Fatalf("vertex outside outer surface: r=%v", r)
		}
		if math.Abs(r-innerR) < 1e-6 {
			sawInner = true
		}
	}
	if !sawInner {
		t.Fatal("no inner-surface vertices found")
	}
}

func TestGenerateRejectsBadDimensions(t *testing.T) {
	cases := []*pivot.Part{
		{Category: pivot.CategoryHollowSquare, Length: 100, Dimensions: pivot.Dimensions{
			pivot.DimHeight: 50, pivot.DimWidth: 50, pivot.DimWallThickness: 30, pivot.DimOuterRadius: 1,
		}},
		{Category: pivot.CategoryHollowCircular, Length: 100, Dimensions: pivot.Dimensions{
			pivot.DimOuterDiameter: 50, pivot.DimWallThickness: 25,
		}},
		{Category: pivot.CategoryIBeam, Length: 0, Dimensions: pivot.Dimensions{
			pivot.DimHeight: 300, pivot.DimWidth: 150, pivot.DimWebThickness: 7, pivot.DimFlangeThickness: 10,
			pivot.DimRootRadius: 5, pivot.DimToeRadius: 2,
		}},
		{Category: pivot.CategoryRoundBar, Length: 100, Dimensions: pivot.Dimensions{}},
	}
	for i, p := range cases {
		if _, err := Generate(p); err == nil {
			t.Errorf("case %d: expected error, got nil", i)
		}
	}
}

func TestGenerateFaceBands(t *testing.T) {
	p := &pivot.Part{
		Category: pivot.CategoryHollowRect,
		Length:   1000,
		Dimensions: pivot.Dimensions{
			pivot.DimHeight:        100,
			pivot.DimWidth:         60,
			pivot.DimWallThickness: 5,
			pivot.DimOuterRadius:   5,
		},
	}
	s, err := Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, face := range []pivot.Face{pivot.FaceWeb, pivot.FaceTopFlange, pivot.FaceBottomFlange} {
		b, ok := s.Band(face)
		if !ok {
			t.Fatalf("missing band for %v", face)
		}
		if b.Width != 1000 {
			t.Errorf("%v band width = %v, want 1000", face, b.Width)
		}
	}
}
