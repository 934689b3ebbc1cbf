package blocks

import "fmt"

// standardMetricPitch is a built-in table of coarse-thread pitch by nominal
// diameter (mm), used when a TO block omits pitch.
var standardMetricPitch = map[float64]float64{
	3: 0.5, 4: 0.7, 5: 0.8, 6: 1.0, 8: 1.25, 10: 1.5,
	12: 1.75, 14: 2.0, 16: 2.0, 18: 2.5, 20: 2.5, 22: 2.5, 24: 3.0,
}

// lookupStandardPitch returns the coarse-thread pitch for the nearest
// tabulated diameter in the metric coarse-thread table. That is the only
// table; the family argument is not consulted.
func lookupStandardPitch(diameter float64, family string) float64 {
	table := standardMetricPitch
	best, bestDelta := 0.0, -1.0
	for d, pitch := range table {
		delta := d - diameter
		if delta < 0 {
			delta = -delta
		}
		if bestDelta < 0 || delta < bestDelta {
			best, bestDelta = pitch, delta
		}
	}
	return best
}

// TOPayload is the parsed Threading block.
type TOPayload struct {
	X, Y         float64
	Diameter     float64
	Pitch        float64
	Depth        float64
	Handedness   string
	Class        string
	Standard     string
	WorkPlane    string
	ToolNumber   string
	Line         int
}

type toParser struct{ cfg Config }

func newTOParser(cfg Config) Parser { return &toParser{cfg: cfg} }

func (p *toParser) BlockType() string { return "TO" }
func (p *toParser) Name() string { return "Threading" }
func (p *toParser) Description() string {
	return "position, nominal diameter, optional pitch/depth/handedness/class/standard/work-plane/tool"
}

func (p *toParser) Parse(raw RawBlock) (any, error) {
	line := firstLine(raw)
	nums := numericTokens(line)
	strs := stringTokens(line)
	if len(nums) < 3 {
		return nil, fmt.Errorf("TO block: need at least x, y, nominal diameter")
	}
	x, err := floatOf(nums[0])
	if err != nil {
		return nil, err
	}
	y, err := floatOf(nums[1])
	if err != nil {
		return nil, err
	}
	diameter, err := floatOf(nums[2])
	if err != nil {
		return nil, err
	}
	payload := &TOPayload{X: x, Y: y, Diameter: diameter, Line: nums[0].Line, Handedness: "right"}
	if len(nums) >= 4 {
		payload.Pitch, _ = floatOf(nums[3])
	}
	if len(nums) >= 5 {
		payload.Depth, _ = floatOf(nums[4])
	}
	idx := 0
	if len(strs) > idx {
		if strs[idx].Value == "left" || strs[idx].Value == "right" {
			payload.Handedness = strs[idx].Value
			idx++
		}
	}
	if len(strs) > idx {
		payload.Class = strs[idx].Value
		idx++
	}
	if len(strs) > idx {
		payload.Standard = strs[idx].Value
		idx++
	}
	if len(strs) > idx {
		payload.WorkPlane = strs[idx].Value
		idx++
	}
	if len(strs) > idx {
		payload.ToolNumber = strs[idx].Value
	}

	if payload.Pitch <= 0 {
		payload.Pitch = lookupStandardPitch(payload.Diameter, payload.Standard)
	}
	if payload.Depth <= 0 && payload.Pitch > 0 {
		payload.Depth = 3 * payload.Pitch
	}
	return payload, nil
}

func (p *toParser) Validate(raw RawBlock) ValidationResult {
	nums := numericTokens(firstLine(raw))
	if len(nums) < 3 {
		return invalid("TO block: need at least x, y, nominal diameter")
	}
	var warns []string
	if len(nums) >= 4 {
		pitch, _ := floatOf(nums[3])
		diameter, _ := floatOf(nums[2])
		if pitch > diameter {
			warns = append(warns, "thread pitch is larger than nominal diameter")
		}
	}
	return ValidationResult{IsValid: true, Warnings: warns}
}

// StandardFeatures implements FeatureSource: a TO block becomes one THREAD
// feature. HostHoleID is left for the semantic stage to resolve against the
// nearest preceding HOLE at the same position.
func (p *toParser) StandardFeatures(payload any) ([]StandardFeature, error) {
	to, ok := payload.(*TOPayload)
	if !ok {
		return nil, fmt.Errorf("TO.StandardFeatures: unexpected payload type %T", payload)
	}
	return []StandardFeature{{
		FeatureKind: "THREAD",
		X:           to.X,
		Y:           to.Y,
		Params:      to,
		Line:        to.Line,
	}}, nil
}
