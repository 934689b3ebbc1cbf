package features

import (
	"fmt"
	"math"

	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// endCutProcessor intersects the solid with a half-space at the referenced
// part end. Profile solids are prisms whose side walls run
// straight along Z, so the intersection reduces exactly to re-seating each
// end-cap vertex onto the inclined plane.
type endCutProcessor struct{}

func (*endCutProcessor) Kind() pivot.Kind { return pivot.KindEndCut }

func (*endCutProcessor) Validate(part *pivot.Part, solid *pivot.Solid, f *pivot.Feature) error {
	p, ok := f.Params.(*pivot.ParamsEndCut)
	if !ok {
		return fmt.Errorf("end cut feature carries %T params", f.Params)
	}
	for _, a := range []float64{p.AngleX, p.AngleY} {
		if math.Abs(a) >= 89 {
			return fmt.Errorf("cut angle %v out of range (-89, 89)", a)
		}
	}
	return nil
}

func (*endCutProcessor) Apply(part *pivot.Part, solid *pivot.Solid, f *pivot.Feature, res *Result) (*pivot.Solid, error) {
	p := f.Params.(*pivot.ParamsEndCut)
	half := part.Length / 2

	zEnd := half
	inward := -1.0
	if p.Reference == pivot.EndCutStart {
		zEnd = -half
		inward = 1.0
	}

	tanX := math.Tan(p.AngleX * math.Pi / 180)
	tanY := math.Tan(p.AngleY * math.Pi / 180)

	const tol = 1e-6
	for i := range solid.Vertices {
		v := &solid.Vertices[i]
		if math.Abs(v.Z-zEnd) > tol {
			continue
		}
		// Plane through the end's centre, tilted by the declared angles;
		// material only ever moves inward so the cut removes, never adds.
		planeZ := zEnd + v.Y*tanX + v.X*tanY
		if inward*(planeZ-v.Z) > 0 {
			v.Z = planeZ
		}
	}
	return solid, nil
}
