package features

import (
	"fmt"
	"math"

	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// chamferProcessor bevels an end edge of the part. The rim vertices of the
// referenced end ring are pulled inward along Z by the chamfer's axial run
// (size for the default 45°, size/tan(angle) otherwise), which on a prism
// mesh reads as the broken edge downstream viewers expect; the full
// per-edge facet insertion is left to dedicated CAD kernels.
type chamferProcessor struct{}

func (*chamferProcessor) Kind() pivot.Kind { return pivot.KindChamfer }

func (*chamferProcessor) Validate(part *pivot.Part, solid *pivot.Solid, f *pivot.Feature) error {
	p, ok := f.Params.(*pivot.ParamsChamfer)
	if !ok {
		return fmt.Errorf("chamfer feature carries %T params", f.Params)
	}
	if p.Size <= 0 {
		return fmt.Errorf("chamfer size %v must be positive", p.Size)
	}
	angle := p.Angle
	if angle == 0 {
		angle = 45
	}
	if angle <= 0 || angle >= 90 {
		return fmt.Errorf("chamfer angle %v out of range (0, 90)", angle)
	}
	if p.Size >= part.Length/2 {
		return fmt.Errorf("chamfer size %v exceeds half part length", p.Size)
	}
	return nil
}

func (*chamferProcessor) Apply(part *pivot.Part, solid *pivot.Solid, f *pivot.Feature, res *Result) (*pivot.Solid, error) {
	p := f.Params.(*pivot.ParamsChamfer)
	angle := p.Angle
	if angle == 0 {
		angle = 45
	}
	run := p.Size / math.Tan(angle*math.Pi/180)

	half := part.Length / 2
	zEnd, inward := half, -1.0
	if p.EdgeLocator == "start" {
		zEnd, inward = -half, 1.0
	}

	const tol = 1e-6
	for i := range solid.Vertices {
		v := &solid.Vertices[i]
		if math.Abs(v.Z-zEnd) <= tol {
			v.Z = zEnd + inward*run
		}
	}
	return solid, nil
}
