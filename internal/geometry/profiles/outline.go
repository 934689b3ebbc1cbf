// Package profiles dispatches a pivot.Part's {category, dimensions,
// length} to a per-category cross-section generator, returning a centred
// 3D solid. Each generator builds a 2D outline as a flat coordinate array
// and hands it to internal/geometry.Extrude/ExtrudeAnnulus.
package profiles

import (
	"math"

	"github.com/topsteelcad/dstv-engine/internal/diag"
	"github.com/topsteelcad/dstv-engine/internal/geometry"
	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// Curve tessellation densities: 8 segments for hot-rolled fillets, 32 for
// circular hollow sections.
const (
	hotRolledSegments = 8
	chsSegments       = 32
)

// filletArc returns the points of a circular arc of radius r centred at c,
// sweeping from startAngle to endAngle (radians), tessellated into n
// segments, endpoints included.
func filletArc(c pivot.Point2D, r, startAngle, endAngle float64, n int) []pivot.Point2D {
	if n < 1 {
		n = 1
	}
	pts := make([]pivot.Point2D, 0, n+1)
	for i := 0; i <= n; i++ {
		t := startAngle + (endAngle-startAngle)*float64(i)/float64(n)
		pts = append(pts, pivot.Point2D{X: c.X + r*math.Cos(t), Y: c.Y + r*math.Sin(t)})
	}
	return pts
}

func tag(pts []pivot.Point2D, face pivot.Face) []geometry.OutlinePoint {
	out := make([]geometry.OutlinePoint, len(pts))
	for i, p := range pts {
		out[i] = geometry.OutlinePoint{Point2D: p, Face: face}
	}
	return out
}

func concat(lists ...[]geometry.OutlinePoint) []geometry.OutlinePoint {
	var out []geometry.OutlinePoint
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func concatPts(lists ...[]pivot.Point2D) []pivot.Point2D {
	var out []pivot.Point2D
	for _, l := range lists {
		out = append(out, l...)
	}
	return dedupeRing(out)
}

// dedupeRing drops consecutive duplicate points, including the wrap-around
// pair, so arc endpoints that coincide with explicit anchors (or with
// zero-radius degenerate arcs) never produce zero-length outline edges.
func dedupeRing(pts []pivot.Point2D) []pivot.Point2D {
	const tol = 1e-9
	same := func(a, b pivot.Point2D) bool {
		return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol
	}
	var out []pivot.Point2D
	for _, p := range pts {
		if len(out) > 0 && same(out[len(out)-1], p) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && same(out[0], out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

func requireDim(d pivot.Dimensions, key string) (float64, error) {
	v, ok := d[key]
	if !ok || v <= 0 {
		return 0, diag.New(diag.KindValidation, "missing or non-positive dimension "+key)
	}
	return v, nil
}

// band builds a pivot.FaceBand: a width × height rectangle centred on
// origin, spanned by the unit axes U (along width) and V (along height).
func band(face pivot.Face, origin pivot.Vertex, u, v pivot.Vertex, width, height float64) pivot.FaceBand {
	return pivot.FaceBand{Face: face, Origin: origin, U: u, V: v, Width: width, Height: height}
}
