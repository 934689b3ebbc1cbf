package features

import (
	"fmt"

	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// notchProcessor subtracts a rectangular or V-shaped prism at an edge of
// the declared face.
type notchProcessor struct{}

func (*notchProcessor) Kind() pivot.Kind { return pivot.KindNotch }

func (*notchProcessor) Validate(part *pivot.Part, solid *pivot.Solid, f *pivot.Feature) error {
	p, ok := f.Params.(*pivot.ParamsNotch)
	if !ok {
		return fmt.Errorf("notch feature carries %T params", f.Params)
	}
	if p.Width <= 0 || p.Depth <= 0 {
		return fmt.Errorf("notch size %vx%v must be positive", p.Width, p.Depth)
	}
	b, err := requireBand(solid, f)
	if err != nil {
		return err
	}
	if p.Width > b.Width || p.Depth > b.Height {
		return fmt.Errorf("notch %vx%v exceeds %s face", p.Width, p.Depth, f.Face)
	}
	return nil
}

func (*notchProcessor) Apply(part *pivot.Part, solid *pivot.Solid, f *pivot.Feature, res *Result) (*pivot.Solid, error) {
	p := f.Params.(*pivot.ParamsNotch)
	b, _ := solid.Band(f.Face)

	x, y := f.Position.X, f.Position.Y
	var footprint []pivot.Point2D
	if p.VShaped {
		footprint = []pivot.Point2D{
			{X: x - p.Width/2, Y: y},
			{X: x + p.Width/2, Y: y},
			{X: x, Y: y - p.Depth},
		}
	} else {
		footprint = []pivot.Point2D{
			{X: x - p.Width/2, Y: y - p.Depth},
			{X: x + p.Width/2, Y: y - p.Depth},
			{X: x + p.Width/2, Y: y},
			{X: x - p.Width/2, Y: y},
		}
	}
	cutPrism(solid, b, ccw(footprint), faceThickness(part, f.Face), true)
	return solid, nil
}
