package pivot

import "testing"

func TestCategoryFromDSTVCode(t *testing.T) {
	tests := []struct {
		code string
		want Category
	}{
		{"I", CategoryIBeam},
		{"U", CategoryChannelU},
		{"L", CategoryAngle},
		{"T", CategoryTee},
		{"M", CategoryHollowRect},
		{"RO", CategoryHollowCircular},
		{"R", CategoryRoundBar},
		{"B", CategoryFlat},
		{"P", CategoryPlate},
		{"?", CategoryUnknown},
	}
	for _, tt := range tests {
		if got := CategoryFromDSTVCode(tt.code); got != tt.want {
			t.Errorf("CategoryFromDSTVCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestFaceFromDSTVCode(t *testing.T) {
	tests := []struct {
		code string
		want Face
	}{
		{"v", FaceWeb},
		{"o", FaceTopFlange},
		{"u", FaceBottomFlange},
		{"h", FaceFront},
		{"", FaceWeb},
		{"x", FaceWeb},
	}
	for _, tt := range tests {
		if got := FaceFromDSTVCode(tt.code); got != tt.want {
			t.Errorf("FaceFromDSTVCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestValidateDimensionsHollowSquare(t *testing.T) {
	p := &Part{
		Category: CategoryHollowSquare,
		Length:   2259.98,
		Dimensions: Dimensions{
			DimHeight:        50.8,
			DimWidth:         50.8,
			DimWallThickness: 4.78,
			DimOuterRadius:   6,
		},
	}
	if err := ValidateDimensions(p); err != nil {
		t.Fatalf("ValidateDimensions: %v", err)
	}
}

func TestValidateDimensionsRejectsThickWall(t *testing.T) {
	p := &Part{
		Category: CategoryHollowSquare,
		Length:   1000,
		Dimensions: Dimensions{
			DimHeight:        50.8,
			DimWidth:         50.8,
			DimWallThickness: 30, // 2*30 >= 50.8
			DimOuterRadius:   6,
		},
	}
	if err := ValidateDimensions(p); err == nil {
		t.Fatal("expected DimensionError for oversized wall thickness")
	}
}

func TestValidateDimensionsRejectsMissingField(t *testing.T) {
	p := &Part{
		Category:   CategoryIBeam,
		Length:     6000,
		Dimensions: Dimensions{DimHeight: 300, DimWidth: 150},
	}
	if err := ValidateDimensions(p); err == nil {
		t.Fatal("expected DimensionError for missing web_thickness")
	}
}

func TestSceneRelease(t *testing.T) {
	s := &Scene{Parts: []*Part{{Solid: &Solid{Vertices: []Vertex{{}}}}}}
	s.Release()
	if s.Parts != nil {
		t.Fatal("Release should nil out Parts")
	}
}

func TestSolidVertexCountNilSafe(t *testing.T) {
	var s *Solid
	if s.VertexCount() != 0 {
		t.Fatal("VertexCount on nil solid should be 0")
	}
}

func TestFeatureIndexQuery(t *testing.T) {
	p := &Part{
		Features: []*Feature{
			{ID: "bo_1_1", Kind: KindHole, Face: FaceWeb, Position: Point2D{X: 89.01, Y: 25.40}},
			{ID: "bo_1_2", Kind: KindHole, Face: FaceWeb, Position: Point2D{X: 174.93, Y: 25.40}},
		},
	}
	idx := BuildFeatureIndex(p)
	got := idx.Query(Rect2D{MinX: 0, MinY: 0, MaxX: 100, MaxY: 50}, FaceWeb)
	if len(got) != 1 || got[0].ID != "bo_1_1" {
		t.Fatalf("Query returned %v, want exactly bo_1_1", got)
	}
}
