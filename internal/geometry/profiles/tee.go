package profiles

import (
	"math"

	"github.com/topsteelcad/dstv-engine/internal/geometry"
	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// Tee builds the T-section outline: a web and a single flange, with root
// fillets at the two web/flange junctions.
func Tee(d pivot.Dimensions, length float64) (*pivot.Solid, error) {
	h, err := requireDim(d, pivot.DimHeight)
	if err != nil {
		return nil, err
	}
	w, err := requireDim(d, pivot.DimWidth)
	if err != nil {
		return nil, err
	}
	tw, err := requireDim(d, pivot.DimWebThickness)
	if err != nil {
		return nil, err
	}
	tf, err := requireDim(d, pivot.DimFlangeThickness)
	if err != nil {
		return nil, err
	}
	r1 := d[pivot.DimRootRadius]
	halfW, halfTw := w/2, tw/2
	flangeTopY := h

	pi := math.Pi
	outline := concatPts(
		[]pivot.Point2D{{X: -halfTw, Y: 0}, {X: halfTw, Y: 0}, {X: halfTw, Y: flangeTopY - tf - r1}},
		root(halfTw+r1, flangeTopY-tf-r1, r1, pi, pi/2),
		[]pivot.Point2D{{X: halfW, Y: flangeTopY - tf}, {X: halfW, Y: flangeTopY}, {X: -halfW, Y: flangeTopY}, {X: -halfW, Y: flangeTopY - tf}, {X: -halfTw - r1, Y: flangeTopY - tf}},
		root(-halfTw-r1, flangeTopY-tf-r1, r1, pi/2, 0),
		[]pivot.Point2D{{X: -halfTw, Y: flangeTopY - tf - r1}},
	)
	tagged := make([]geometry.OutlinePoint, len(outline))
	for i, p := range outline {
		face := pivot.FaceWeb
		if p.Y >= flangeTopY-tf-1e-6 {
			face = pivot.FaceTopFlange
		}
		tagged[i] = geometry.OutlinePoint{Point2D: p, Face: face}
	}
	s := geometry.Extrude(tagged, length)
	s.FaceBands = []pivot.FaceBand{
		band(pivot.FaceWeb, pivot.Vertex{X: 0, Y: h / 2, Z: 0}, pivot.Vertex{Z: 1}, pivot.Vertex{Y: 1}, length, h),
		band(pivot.FaceTopFlange, pivot.Vertex{X: 0, Y: h, Z: 0}, pivot.Vertex{Z: 1}, pivot.Vertex{X: 1}, length, w),
	}
	return s, nil
}
