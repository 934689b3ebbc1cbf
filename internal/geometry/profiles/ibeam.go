package profiles

import (
	"math"

	"github.com/topsteelcad/dstv-engine/internal/geometry"
	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// IBeam builds the I/H-section outline (flange-web-flange with root and toe
// fillets) and extrudes it to length. The outline runs
// counter-clockwise from the bottom edge; each convex flange tip is cut by
// the toe radius, each concave web junction filled by the root radius.
func IBeam(d pivot.Dimensions, length float64) (*pivot.Solid, error) {
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
	r2 := d[pivot.DimToeRadius]

	halfH, halfW, halfTw := h/2, w/2, tw/2
	fi := halfH - tf // flange inner surface |y|

	pi := math.Pi
	outline := concatPts(
		[]pivot.Point2D{{X: -halfW + r2, Y: -halfH}, {X: halfW - r2, Y: -halfH}},
		toe(halfW-r2, -halfH+r2, r2, -pi/2, 0),
		[]pivot.Point2D{{X: halfW, Y: -fi}, {X: halfTw + r1, Y: -fi}},
		root(halfTw+r1, -fi+r1, r1, -pi/2, -pi),
		[]pivot.Point2D{{X: halfTw, Y: fi - r1}},
		root(halfTw+r1, fi-r1, r1, pi, pi/2),
		[]pivot.Point2D{{X: halfW, Y: fi}, {X: halfW, Y: halfH - r2}},
		toe(halfW-r2, halfH-r2, r2, 0, pi/2),
		[]pivot.Point2D{{X: -halfW + r2, Y: halfH}},
		toe(-halfW+r2, halfH-r2, r2, pi/2, pi),
		[]pivot.Point2D{{X: -halfW, Y: fi}, {X: -halfTw - r1, Y: fi}},
		root(-halfTw-r1, fi-r1, r1, pi/2, 0),
		[]pivot.Point2D{{X: -halfTw, Y: -fi + r1}},
		root(-halfTw-r1, -fi+r1, r1, 0, -pi/2),
		[]pivot.Point2D{{X: -halfW, Y: -fi}, {X: -halfW, Y: -halfH + r2}},
		toe(-halfW+r2, -halfH+r2, r2, pi, 1.5*pi),
	)
	tagged := tagIBeamFaces(outline, halfTw, halfW)

	s := geometry.Extrude(tagged, length)
	s.FaceBands = []pivot.FaceBand{
		band(pivot.FaceWeb, pivot.Vertex{X: 0, Y: 0, Z: 0}, pivot.Vertex{Z: 1}, pivot.Vertex{Y: 1}, length, h-2*tf),
		band(pivot.FaceTopFlange, pivot.Vertex{X: 0, Y: halfH, Z: 0}, pivot.Vertex{Z: 1}, pivot.Vertex{X: 1}, length, w),
		band(pivot.FaceBottomFlange, pivot.Vertex{X: 0, Y: -halfH, Z: 0}, pivot.Vertex{Z: 1}, pivot.Vertex{X: -1}, length, w),
	}
	return s, nil
}

// toe cuts a convex corner: the arc is traversed counter-clockwise, the
// same sense as the outline.
func toe(cx, cy, r, from, to float64) []pivot.Point2D {
	if r <= 0 {
		return nil
	}
	return filletArc(pivot.Point2D{X: cx, Y: cy}, r, from, to, hotRolledSegments)
}

// root fills a concave junction: the arc centre sits in the void, so the
// outline traverses it clockwise (from > to).
func root(cx, cy, r, from, to float64) []pivot.Point2D {
	if r <= 0 {
		return nil
	}
	return filletArc(pivot.Point2D{X: cx, Y: cy}, r, from, to, hotRolledSegments)
}

func tagIBeamFaces(pts []pivot.Point2D, halfTw, halfW float64) []geometry.OutlinePoint {
	out := make([]geometry.OutlinePoint, len(pts))
	for i, p := range pts {
		face := pivot.FaceTopFlange
		switch {
		case math.Abs(p.X) <= halfTw+1e-6:
			face = pivot.FaceWeb
		case p.Y < 0:
			face = pivot.FaceBottomFlange
		}
		out[i] = geometry.OutlinePoint{Point2D: p, Face: face}
	}
	return out
}
