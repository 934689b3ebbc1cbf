package features

import (
	"fmt"

	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// threadProcessor annotates a previously drilled hole with its thread
// parameters. No helical boolean is performed: the thread
// stays metadata on the hole, resolved here to a 3D placement so CAM
// post-processors can find it without re-deriving face frames.
type threadProcessor struct{}

func (*threadProcessor) Kind() pivot.Kind { return pivot.KindThread }

func (*threadProcessor) Validate(part *pivot.Part, solid *pivot.Solid, f *pivot.Feature) error {
	p, ok := f.Params.(*pivot.ParamsThread)
	if !ok {
		return fmt.Errorf("thread feature carries %T params", f.Params)
	}
	if p.Diameter <= 0 {
		return fmt.Errorf("nominal diameter %v must be positive", p.Diameter)
	}
	if p.HostHoleID == "" {
		return fmt.Errorf("thread has no hosting hole")
	}
	host := findFeature(part, p.HostHoleID)
	if host == nil {
		return fmt.Errorf("hosting hole %s not found", p.HostHoleID)
	}
	if hp, ok := host.Params.(*pivot.ParamsHole); ok && p.Diameter > hp.Diameter {
		return fmt.Errorf("thread diameter %v exceeds hosting bore %v", p.Diameter, hp.Diameter)
	}
	if _, err := requireBand(solid, f); err != nil {
		return err
	}
	return nil
}

func (*threadProcessor) Apply(part *pivot.Part, solid *pivot.Solid, f *pivot.Feature, res *Result) (*pivot.Solid, error) {
	p := f.Params.(*pivot.ParamsThread)
	b, _ := solid.Band(f.Face)

	res.Placements = append(res.Placements, Placement{
		FeatureID: f.ID,
		Kind:      pivot.KindThread,
		Position:  bandPoint(b, f.Position),
		Normal:    bandNormal(b),
		Text:      fmt.Sprintf("M%g x %g %s", p.Diameter, p.Pitch, p.Handedness),
		Depth:     p.Depth,
		Method:    p.Class,
	})
	return solid, nil
}

func findFeature(part *pivot.Part, id string) *pivot.Feature {
	for _, f := range part.Features {
		if f.ID == id {
			return f
		}
	}
	return nil
}
