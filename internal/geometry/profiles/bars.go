package profiles

import (
	"github.com/topsteelcad/dstv-engine/internal/geometry"
	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// Flat builds the flat-bar solid: a width x thickness box extruded to
// length.
func Flat(d pivot.Dimensions, length float64) (*pivot.Solid, error) {
	w, err := requireDim(d, pivot.DimWidth)
	if err != nil {
		return nil, err
	}
	t, err := requireDim(d, pivot.DimThickness)
	if err != nil {
		return nil, err
	}
	return box(w, t, length), nil
}

// SquareBar builds the square solid bar. DSTV carries it with the same
// {width, thickness} pair as a flat; the generator does not force the two
// equal because suppliers round them independently.
func SquareBar(d pivot.Dimensions, length float64) (*pivot.Solid, error) {
	return Flat(d, length)
}

// RoundBar builds the solid round bar: a full circle cross-section at CHS
// tessellation, extruded to length.
func RoundBar(d pivot.Dimensions, length float64) (*pivot.Solid, error) {
	dia, err := requireDim(d, pivot.DimDiameter)
	if err != nil {
		return nil, err
	}
	outline := tag(circle(dia/2, chsSegments), pivot.FaceWeb)
	s := geometry.Extrude(outline, length)
	s.FaceBands = []pivot.FaceBand{
		band(pivot.FaceWeb, pivot.Vertex{X: dia / 2, Y: 0, Z: 0}, pivot.Vertex{Z: 1}, pivot.Vertex{Y: -1}, length, dia),
	}
	return s, nil
}

// Plate builds the plate solid: a width × thickness cross-section whose
// length along the extrusion axis comes from the part like any other
// profile. The height dimension is not read.
func Plate(d pivot.Dimensions, length float64) (*pivot.Solid, error) {
	w, err := requireDim(d, pivot.DimWidth)
	if err != nil {
		return nil, err
	}
	t, err := requireDim(d, pivot.DimThickness)
	if err != nil {
		return nil, err
	}
	return box(w, t, length), nil
}

// box is the shared rectangle-cross-section extrusion for flats, square
// bars and plates: width across X, thickness across Y, length along Z.
func box(w, t, length float64) *pivot.Solid {
	halfW, halfT := w/2, t/2
	outline := []geometry.OutlinePoint{
		{Point2D: pivot.Point2D{X: halfW, Y: -halfT}, Face: pivot.FaceBottomFlange},
		{Point2D: pivot.Point2D{X: halfW, Y: halfT}, Face: pivot.FaceWeb},
		{Point2D: pivot.Point2D{X: -halfW, Y: halfT}, Face: pivot.FaceTopFlange},
		{Point2D: pivot.Point2D{X: -halfW, Y: -halfT}, Face: pivot.FaceWeb},
	}
	s := geometry.Extrude(outline, length)
	s.FaceBands = []pivot.FaceBand{
		band(pivot.FaceWeb, pivot.Vertex{X: 0, Y: halfT, Z: 0}, pivot.Vertex{Z: 1}, pivot.Vertex{X: 1}, length, w),
		band(pivot.FaceTopFlange, pivot.Vertex{X: 0, Y: halfT, Z: 0}, pivot.Vertex{Z: 1}, pivot.Vertex{X: 1}, length, w),
		band(pivot.FaceBottomFlange, pivot.Vertex{X: 0, Y: -halfT, Z: 0}, pivot.Vertex{Z: 1}, pivot.Vertex{X: -1}, length, w),
	}
	return s
}
