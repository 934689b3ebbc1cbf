package blocks

import "fmt"

// PUPayload is the parsed Punch-mark block.
type PUPayload struct {
	Face  string
	X, Y  float64
	Force float64
	Depth float64
	Line  int
}

type puParser struct{ cfg Config }

func newPUParser(cfg Config) Parser { return &puParser{cfg: cfg} }

func (p *puParser) BlockType() string { return "PU" }
func (p *puParser) Name() string { return "Punch mark" }
func (p *puParser) Description() string { return "face, position, optional force/depth" }

func (p *puParser) Parse(raw RawBlock) (any, error) {
	line := firstLine(raw)
	nums := numericTokens(line)
	if len(nums) < 2 {
		return nil, fmt.Errorf("PU block: need at least x, y")
	}
	x, err := floatOf(nums[0])
	if err != nil {
		return nil, err
	}
	y, err := floatOf(nums[1])
	if err != nil {
		return nil, err
	}
	payload := &PUPayload{Face: faceOf(line), X: x, Y: y, Line: nums[0].Line}
	if len(nums) >= 3 {
		payload.Force, _ = floatOf(nums[2])
	}
	if len(nums) >= 4 {
		payload.Depth, _ = floatOf(nums[3])
	}
	return payload, nil
}

func (p *puParser) Validate(raw RawBlock) ValidationResult {
	if len(numericTokens(firstLine(raw))) < 2 {
		return invalid("PU block: need at least x, y")
	}
	return ok()
}

// StandardFeatures implements FeatureSource: one PU block becomes one
// PUNCH feature.
func (p *puParser) StandardFeatures(payload any) ([]StandardFeature, error) {
	pu, ok := payload.(*PUPayload)
	if !ok {
		return nil, fmt.Errorf("PU.StandardFeatures: unexpected payload type %T", payload)
	}
	return []StandardFeature{{
		FeatureKind: "PUNCH",
		Face:        pu.Face,
		X:           pu.X,
		Y:           pu.Y,
		Params:      pu,
		Line:        pu.Line,
	}}, nil
}
