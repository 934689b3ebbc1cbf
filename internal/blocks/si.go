package blocks

import "fmt"

// SIPayload is the parsed Marking block.
type SIPayload struct {
	Face      string
	X, Y      float64
	Text      string
	Height    float64
	Angle     float64
	Depth     float64
	WorkPlane string
	Method    string
	Line      int
}

type siParser struct{ cfg Config }

func newSIParser(cfg Config) Parser { return &siParser{cfg: cfg} }

func (p *siParser) BlockType() string { return "SI" }
func (p *siParser) Name() string { return "Marking" }
func (p *siParser) Description() string {
	return "text marking: face, position, text, optional height/angle/depth/work-plane/method"
}

func (p *siParser) Parse(raw RawBlock) (any, error) {
	full := firstLine(raw)
	line := stripFaceToken(full)
	nums := numericTokens(line)
	strs := stringTokens(line)
	if len(nums) < 2 {
		return nil, fmt.Errorf("SI block: need at least x, y")
	}
	x, err := floatOf(nums[0])
	if err != nil {
		return nil, err
	}
	y, err := floatOf(nums[1])
	if err != nil {
		return nil, err
	}
	payload := &SIPayload{Face: faceOf(full), X: x, Y: y, Line: nums[0].Line}
	if len(strs) > 0 {
		payload.Text = strs[0].Value
	}
	if len(nums) >= 3 {
		payload.Height, _ = floatOf(nums[2])
	}
	if len(nums) >= 4 {
		payload.Angle, _ = floatOf(nums[3])
	}
	if len(nums) >= 5 {
		payload.Depth, _ = floatOf(nums[4])
	}
	if len(strs) > 1 {
		payload.WorkPlane = strs[1].Value
	}
	if len(strs) > 2 {
		payload.Method = strs[2].Value
	}
	return payload, nil
}

func (p *siParser) Validate(raw RawBlock) ValidationResult {
	line := firstLine(raw)
	if len(numericTokens(line)) < 2 {
		return invalid("SI block: need at least x, y")
	}
	var warns []string
	nums := numericTokens(line)
	if len(nums) >= 3 {
		if h, err := floatOf(nums[2]); err == nil && h > 0 && h < 1 {
			warns = append(warns, "marking text height unusually small")
		}
	}
	return ValidationResult{IsValid: true, Warnings: warns}
}

// StandardFeatures implements FeatureSource: one SI block becomes one
// MARKING feature.
func (p *siParser) StandardFeatures(payload any) ([]StandardFeature, error) {
	si, ok := payload.(*SIPayload)
	if !ok {
		return nil, fmt.Errorf("SI.StandardFeatures: unexpected payload type %T", payload)
	}
	return []StandardFeature{{
		FeatureKind: "MARKING",
		Face:        si.Face,
		X:           si.X,
		Y:           si.Y,
		Params:      si,
		Line:        si.Line,
	}}, nil
}
