package features

import (
	"fmt"

	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// markingProcessor resolves an SI marking into a 3D glyph placement. No
// boolean is performed: the mark is an annotation for the
// marker head, not removed material.
type markingProcessor struct{}

func (*markingProcessor) Kind() pivot.Kind { return pivot.KindMarking }

func (*markingProcessor) Validate(part *pivot.Part, solid *pivot.Solid, f *pivot.Feature) error {
	p, ok := f.Params.(*pivot.ParamsMarking)
	if !ok {
		return fmt.Errorf("marking feature carries %T params", f.Params)
	}
	// Empty text is legal: KO contour markings scribe a polyline, not
	// glyphs.
	if p.Height < 0 {
		return fmt.Errorf("text height %v must not be negative", p.Height)
	}
	if _, err := requireBand(solid, f); err != nil {
		return err
	}
	return nil
}

func (*markingProcessor) Apply(part *pivot.Part, solid *pivot.Solid, f *pivot.Feature, res *Result) (*pivot.Solid, error) {
	p := f.Params.(*pivot.ParamsMarking)
	b, _ := solid.Band(f.Face)

	res.Placements = append(res.Placements, Placement{
		FeatureID: f.ID,
		Kind:      pivot.KindMarking,
		Position:  bandPoint(b, f.Position),
		Normal:    bandNormal(b),
		Text:      p.Text,
		Height:    p.Height,
		Rotation:  p.Rotation,
		Depth:     p.Depth,
		Method:    p.Method.String(),
	})
	return solid, nil
}

// punchProcessor resolves a PU punch mark into a 3D placement, annotative
// like marking.
type punchProcessor struct{}

func (*punchProcessor) Kind() pivot.Kind { return pivot.KindPunch }

func (*punchProcessor) Validate(part *pivot.Part, solid *pivot.Solid, f *pivot.Feature) error {
	if _, ok := f.Params.(*pivot.ParamsPunch); !ok {
		return fmt.Errorf("punch feature carries %T params", f.Params)
	}
	if _, err := requireBand(solid, f); err != nil {
		return err
	}
	return nil
}

func (*punchProcessor) Apply(part *pivot.Part, solid *pivot.Solid, f *pivot.Feature, res *Result) (*pivot.Solid, error) {
	p := f.Params.(*pivot.ParamsPunch)
	b, _ := solid.Band(f.Face)

	res.Placements = append(res.Placements, Placement{
		FeatureID: f.ID,
		Kind:      pivot.KindPunch,
		Position:  bandPoint(b, f.Position),
		Normal:    bandNormal(b),
		Depth:     p.Depth,
	})
	return solid, nil
}

// heatTreatProcessor records a heat-treatment area as an annotation: the
// polygon's centroid is placed in 3D, the polygon itself stays on the
// feature for tools that need the full region.
type heatTreatProcessor struct{}

func (*heatTreatProcessor) Kind() pivot.Kind { return pivot.KindHeatTreatArea }

func (*heatTreatProcessor) Validate(part *pivot.Part, solid *pivot.Solid, f *pivot.Feature) error {
	p, ok := f.Params.(*pivot.ParamsHeatTreatArea)
	if !ok {
		return fmt.Errorf("heat treat feature carries %T params", f.Params)
	}
	if len(p.Polygon) < 3 {
		return fmt.Errorf("heat treat area needs at least 3 polygon points")
	}
	if _, err := requireBand(solid, f); err != nil {
		return err
	}
	return nil
}

func (*heatTreatProcessor) Apply(part *pivot.Part, solid *pivot.Solid, f *pivot.Feature, res *Result) (*pivot.Solid, error) {
	p := f.Params.(*pivot.ParamsHeatTreatArea)
	b, _ := solid.Band(f.Face)

	var cx, cy float64
	for _, pt := range p.Polygon {
		cx += pt.X
		cy += pt.Y
	}
	n := float64(len(p.Polygon))

	res.Placements = append(res.Placements, Placement{
		FeatureID: f.ID,
		Kind:      pivot.KindHeatTreatArea,
		Position:  bandPoint(b, pivot.Point2D{X: cx / n, Y: cy / n}),
		Normal:    bandNormal(b),
		Method:    p.Method,
		Depth:     p.Intensity,
	})
	return solid, nil
}
