package features

import (
	"fmt"
	"math"

	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// contourProcessor handles AK (outer) and IK (inner) contours. An inner
// contour is always a through cut. An outer contour that restates the
// face's own rectangle is a no-op (the common case: beam-line controllers
// emit the stock outline in every file); one that trims the part along its
// length clips the solid to the contour's extent.
type contourProcessor struct {
	outer bool
}

func (p *contourProcessor) Kind() pivot.Kind {
	if p.outer {
		return pivot.KindOuterContour
	}
	return pivot.KindInnerContour
}

func (p *contourProcessor) Validate(part *pivot.Part, solid *pivot.Solid, f *pivot.Feature) error {
	cp, ok := f.Params.(*pivot.ParamsContour)
	if !ok {
		return fmt.Errorf("contour feature carries %T params", f.Params)
	}
	if len(cp.Vertices) < 3 {
		return fmt.Errorf("contour needs at least 3 vertices, has %d", len(cp.Vertices))
	}
	if _, err := requireBand(solid, f); err != nil {
		return err
	}
	return nil
}

func (p *contourProcessor) Apply(part *pivot.Part, solid *pivot.Solid, f *pivot.Feature, res *Result) (*pivot.Solid, error) {
	cp := f.Params.(*pivot.ParamsContour)
	b, _ := solid.Band(f.Face)
	pts := dropClosingPoint(resolveBulges(cp.Vertices))

	if !p.outer {
		cutPrism(solid, b, ccw(pts), faceThickness(part, f.Face), true)
		return solid, nil
	}

	minX, maxX := pts[0].X, pts[0].X
	for _, pt := range pts[1:] {
		minX = math.Min(minX, pt.X)
		maxX = math.Max(maxX, pt.X)
	}

	// Contour X runs along the part from its start; the solid is centred,
	// so trim in the centred frame. Covering the full length is the
	// restated-stock no-op.
	const tol = 1e-6
	if minX <= tol && maxX >= part.Length-tol {
		return solid, nil
	}
	clipSolidZ(solid, minX-part.Length/2, maxX-part.Length/2)
	return solid, nil
}

// dropClosingPoint removes a duplicated final vertex (contours arrive
// closed; footprint cutting wants an open ring).
func dropClosingPoint(pts []pivot.Point2D) []pivot.Point2D {
	n := len(pts)
	if n > 1 && math.Abs(pts[0].X-pts[n-1].X) < 1e-9 && math.Abs(pts[0].Y-pts[n-1].Y) < 1e-9 {
		return pts[:n-1]
	}
	return pts
}

// ccw reverses the ring if its signed area is negative.
func ccw(pts []pivot.Point2D) []pivot.Point2D {
	var area float64
	for i := range pts {
		j := (i + 1) % len(pts)
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	if area >= 0 {
		return pts
	}
	out := make([]pivot.Point2D, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}
