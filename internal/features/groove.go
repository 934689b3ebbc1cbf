package features

import (
	"fmt"
	"math"

	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// grooveProcessor subtracts a swept prism between the groove's start and
// end points: a blind stadium-footprint channel of the declared width and
// depth.
type grooveProcessor struct{}

func (*grooveProcessor) Kind() pivot.Kind { return pivot.KindGroove }

func (*grooveProcessor) Validate(part *pivot.Part, solid *pivot.Solid, f *pivot.Feature) error {
	p, ok := f.Params.(*pivot.ParamsGroove)
	if !ok {
		return fmt.Errorf("groove feature carries %T params", f.Params)
	}
	if p.Width <= 0 || p.Depth <= 0 {
		return fmt.Errorf("groove width %v and depth %v must be positive", p.Width, p.Depth)
	}
	b, err := requireBand(solid, f)
	if err != nil {
		return err
	}
	if p.Depth >= faceThickness(part, f.Face) {
		return fmt.Errorf("groove depth %v reaches through the %s face", p.Depth, f.Face)
	}
	if !inBand(b, p.Start) || !inBand(b, p.End) {
		return fmt.Errorf("groove endpoints outside %s face", f.Face)
	}
	return nil
}

func (*grooveProcessor) Apply(part *pivot.Part, solid *pivot.Solid, f *pivot.Feature, res *Result) (*pivot.Solid, error) {
	p := f.Params.(*pivot.ParamsGroove)
	b, _ := solid.Band(f.Face)

	mid := pivot.Point2D{X: (p.Start.X + p.End.X) / 2, Y: (p.Start.Y + p.End.Y) / 2}
	runLen := math.Hypot(p.End.X-p.Start.X, p.End.Y-p.Start.Y)
	angle := math.Atan2(p.End.Y-p.Start.Y, p.End.X-p.Start.X) * 180 / math.Pi

	cutPrism(solid, b, stadiumFootprint(mid, p.Width/2, runLen, angle, holeSegments), p.Depth, false)
	return solid, nil
}
