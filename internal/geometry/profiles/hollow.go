package profiles

import (
	"math"

	"github.com/topsteelcad/dstv-engine/internal/diag"
	"github.com/topsteelcad/dstv-engine/internal/geometry"
	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// RectTube builds the RHS solid: an outer rectangle with optional corner
// radius and a concentric inner rectangle offset by the wall thickness,
// extruded as an annulus so the bore is open end to end.
func RectTube(d pivot.Dimensions, length float64) (*pivot.Solid, error) {
	h, err := requireDim(d, pivot.DimHeight)
	if err != nil {
		return nil, err
	}
	w, err := requireDim(d, pivot.DimWidth)
	if err != nil {
		return nil, err
	}
	t, err := requireDim(d, pivot.DimWallThickness)
	if err != nil {
		return nil, err
	}
	if 2*t >= math.Min(h, w) {
		return nil, &diag.DimensionError{Category: "HOLLOW_RECT", Reason: "wall thickness too large for section"}
	}
	ro := d[pivot.DimOuterRadius]
	ri := math.Max(0, ro-t)

	outer := roundedRect(w, h, ro)
	inner := roundedRect(w-2*t, h-2*t, ri)

	s := geometry.ExtrudeAnnulus(tagTubeFaces(outer, h), tagTubeFaces(inner, h-2*t), length)
	s.FaceBands = tubeBands(w, h, length)
	return s, nil
}

// SquareTube is the SHS variant: RectTube with the height = width
// constraint enforced.
func SquareTube(d pivot.Dimensions, length float64) (*pivot.Solid, error) {
	h := d[pivot.DimHeight]
	w := d[pivot.DimWidth]
	if h != w {
		return nil, &diag.DimensionError{Category: "HOLLOW_SQUARE", Reason: "height and width must be equal"}
	}
	return RectTube(d, length)
}

// CircularTube builds the CHS solid: concentric outer and inner circles at
// a 32-segment tessellation, extruded along Z.
func CircularTube(d pivot.Dimensions, length float64) (*pivot.Solid, error) {
	od, err := requireDim(d, pivot.DimOuterDiameter)
	if err != nil {
		return nil, err
	}
	t, err := requireDim(d, pivot.DimWallThickness)
	if err != nil {
		return nil, err
	}
	if 2*t >= od {
		return nil, &diag.DimensionError{Category: "HOLLOW_CIRCULAR", Reason: "wall thickness too large for diameter"}
	}

	outer := circle(od/2, chsSegments)
	inner := circle(od/2-t, chsSegments)

	s := geometry.ExtrudeAnnulus(tag(outer, pivot.FaceWeb), tag(inner, pivot.FaceWeb), length)
	// A CHS has no flanges; everything drillable is "web" by convention.
	s.FaceBands = []pivot.FaceBand{
		band(pivot.FaceWeb, pivot.Vertex{X: od / 2, Y: 0, Z: 0}, pivot.Vertex{Z: 1}, pivot.Vertex{Y: -1}, length, od),
	}
	return s, nil
}

// roundedRect builds a counter-clockwise rectangle of the given outer size
// centred on the origin, with corners rounded by r (degenerate sharp
// corners when r = 0, keeping the vertex count stable so outer and inner
// outlines can be banded by ExtrudeAnnulus).
func roundedRect(w, h, r float64) []pivot.Point2D {
	halfW, halfH := w/2, h/2
	if r > math.Min(halfW, halfH) {
		r = math.Min(halfW, halfH)
	}
	// Built without the ring dedupe: ExtrudeAnnulus bands outer and inner
	// outlines index-by-index, so a zero-radius inner ring must keep the
	// same (degenerate) vertex count as its rounded outer counterpart.
	pi := math.Pi
	var pts []pivot.Point2D
	pts = append(pts, filletArc(pivot.Point2D{X: halfW - r, Y: -halfH + r}, r, -pi/2, 0, hotRolledSegments)...)
	pts = append(pts, filletArc(pivot.Point2D{X: halfW - r, Y: halfH - r}, r, 0, pi/2, hotRolledSegments)...)
	pts = append(pts, filletArc(pivot.Point2D{X: -halfW + r, Y: halfH - r}, r, pi/2, pi, hotRolledSegments)...)
	pts = append(pts, filletArc(pivot.Point2D{X: -halfW + r, Y: -halfH + r}, r, pi, 1.5*pi, hotRolledSegments)...)
	return pts
}

// circle builds a counter-clockwise circle of the given radius centred on
// the origin, tessellated into n segments.
func circle(r float64, n int) []pivot.Point2D {
	pts := make([]pivot.Point2D, 0, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts = append(pts, pivot.Point2D{X: r * math.Cos(a), Y: r * math.Sin(a)})
	}
	return pts
}

func tagTubeFaces(pts []pivot.Point2D, h float64) []geometry.OutlinePoint {
	out := make([]geometry.OutlinePoint, len(pts))
	for i, p := range pts {
		face := pivot.FaceWeb
		switch {
		case p.Y >= h/2-1e-6:
			face = pivot.FaceTopFlange
		case p.Y <= -h/2+1e-6:
			face = pivot.FaceBottomFlange
		}
		out[i] = geometry.OutlinePoint{Point2D: p, Face: face}
	}
	return out
}

// tubeBands orients every band so U x V is the outward surface normal;
// feature processors cut along the inward -normal direction.
func tubeBands(w, h, length float64) []pivot.FaceBand {
	return []pivot.FaceBand{
		band(pivot.FaceWeb, pivot.Vertex{X: w / 2, Y: 0, Z: 0}, pivot.Vertex{Z: 1}, pivot.Vertex{Y: -1}, length, h),
		band(pivot.FaceTopFlange, pivot.Vertex{X: 0, Y: h / 2, Z: 0}, pivot.Vertex{Z: 1}, pivot.Vertex{X: 1}, length, w),
		band(pivot.FaceBottomFlange, pivot.Vertex{X: 0, Y: -h / 2, Z: 0}, pivot.Vertex{Z: 1}, pivot.Vertex{X: -1}, length, w),
	}
}
