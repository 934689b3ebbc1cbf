package features

import (
	"fmt"
	"math"

	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// holeProcessor drills a cylindrical bore normal to the feature's face:
// through holes run the full face thickness, blind holes stop at the
// declared depth and keep a bottom cap.
type holeProcessor struct{}

func (*holeProcessor) Kind() pivot.Kind { return pivot.KindHole }

func (*holeProcessor) Validate(part *pivot.Part, solid *pivot.Solid, f *pivot.Feature) error {
	p, ok := f.Params.(*pivot.ParamsHole)
	if !ok {
		return fmt.Errorf("hole feature carries %T params", f.Params)
	}
	if p.Diameter <= 0 {
		return fmt.Errorf("diameter %v must be positive", p.Diameter)
	}
	b, err := requireBand(solid, f)
	if err != nil {
		return err
	}
	if p.Diameter >= math.Min(b.Width, b.Height) {
		return fmt.Errorf("diameter %v exceeds %s face extent", p.Diameter, f.Face)
	}
	if !inBand(b, f.Position) {
		return fmt.Errorf("position (%v, %v) outside %s face", f.Position.X, f.Position.Y, f.Face)
	}
	if !p.Through && p.Depth <= 0 {
		return fmt.Errorf("blind hole needs a positive depth")
	}
	return nil
}

func (*holeProcessor) Apply(part *pivot.Part, solid *pivot.Solid, f *pivot.Feature, res *Result) (*pivot.Solid, error) {
	p := f.Params.(*pivot.ParamsHole)
	b, _ := solid.Band(f.Face)

	depth := p.Depth
	if p.Through {
		depth = faceThickness(part, f.Face)
	}
	cutPrism(solid, b, circleFootprint(f.Position, p.Diameter/2, holeSegments), depth, p.Through)
	return solid, nil
}

// slottedHoleProcessor subtracts the stadium-shaped prism of a slotted
// hole.
type slottedHoleProcessor struct{}

func (*slottedHoleProcessor) Kind() pivot.Kind { return pivot.KindSlottedHole }

func (*slottedHoleProcessor) Validate(part *pivot.Part, solid *pivot.Solid, f *pivot.Feature) error {
	p, ok := f.Params.(*pivot.ParamsSlottedHole)
	if !ok {
		return fmt.Errorf("slotted hole feature carries %T params", f.Params)
	}
	if p.Diameter <= 0 {
		return fmt.Errorf("diameter %v must be positive", p.Diameter)
	}
	if p.SlotLen <= 0 {
		return fmt.Errorf("slot length %v must be positive", p.SlotLen)
	}
	b, err := requireBand(solid, f)
	if err != nil {
		return err
	}
	if !inBand(b, f.Position) {
		return fmt.Errorf("position (%v, %v) outside %s face", f.Position.X, f.Position.Y, f.Face)
	}
	return nil
}

func (*slottedHoleProcessor) Apply(part *pivot.Part, solid *pivot.Solid, f *pivot.Feature, res *Result) (*pivot.Solid, error) {
	p := f.Params.(*pivot.ParamsSlottedHole)
	b, _ := solid.Band(f.Face)

	depth := faceThickness(part, f.Face)
	cutPrism(solid, b, stadiumFootprint(f.Position, p.Diameter/2, p.SlotLen, p.SlotAngle, holeSegments), depth, true)
	return solid, nil
}
