package profiles

import (
	"math"

	"github.com/topsteelcad/dstv-engine/internal/geometry"
	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// Angle builds the L-section outline: two legs meeting at a root-filleted
// inside corner, with a toe radius at each leg tip; the outer corner is
// square.
func Angle(d pivot.Dimensions, length float64) (*pivot.Solid, error) {
	leg1, err := requireDim(d, pivot.DimLeg1)
	if err != nil {
		return nil, err
	}
	leg2, err := requireDim(d, pivot.DimLeg2)
	if err != nil {
		return nil, err
	}
	t, err := requireDim(d, pivot.DimThickness)
	if err != nil {
		return nil, err
	}
	r1 := d[pivot.DimRootRadius]
	r2 := d[pivot.DimToeRadius]
	pi := math.Pi

	outline := concatPts(
		[]pivot.Point2D{{X: 0, Y: 0}, {X: leg2, Y: 0}, {X: leg2, Y: t - r2}},
		toe(leg2-r2, t-r2, r2, 0, pi/2),
		[]pivot.Point2D{{X: t + r1, Y: t}},
		root(t+r1, t+r1, r1, -pi/2, -pi),
		[]pivot.Point2D{{X: t, Y: leg1}, {X: r2, Y: leg1}},
		toe(r2, leg1-r2, r2, pi/2, pi),
		[]pivot.Point2D{{X: 0, Y: leg1 - r2}},
	)
	tagged := tag(outline, pivot.FaceWeb)
	s := geometry.Extrude(tagged, length)
	s.FaceBands = []pivot.FaceBand{
		band(pivot.FaceWeb, pivot.Vertex{X: t / 2, Y: 0, Z: 0}, pivot.Vertex{Z: 1}, pivot.Vertex{Y: 1}, length, leg1),
		band(pivot.FaceTopFlange, pivot.Vertex{X: 0, Y: t / 2, Z: 0}, pivot.Vertex{Z: 1}, pivot.Vertex{X: 1}, length, leg2),
	}
	return s, nil
}
