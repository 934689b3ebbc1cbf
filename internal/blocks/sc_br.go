package blocks

import "fmt"

// SCPayload is the parsed Special-cut block. SC payload schemas vary
// between emitting systems, so it is parsed independently of BR through
// this dedicated numeric reader rather than the generic lenient parser,
// letting it carry a typed StandardFeatures mapping.
type SCPayload struct {
	Numbers []float64
	Line    int
}

type scParser struct{ cfg Config }

func newSCParser(cfg Config) Parser { return &scParser{cfg: cfg} }

func (p *scParser) BlockType() string { return "SC" }
func (p *scParser) Name() string { return "Special cut" }
func (p *scParser) Description() string { return "feature-specific numeric payload; maps to END_CUT or NOTCH by field count" }

func (p *scParser) Parse(raw RawBlock) (any, error) {
	line := firstLine(raw)
	nums := numericTokens(line)
	payload := &SCPayload{}
	for _, n := range nums {
		v, err := floatOf(n)
		if err != nil {
			return nil, err
		}
		payload.Numbers = append(payload.Numbers, v)
	}
	if len(nums) > 0 {
		payload.Line = nums[0].Line
	}
	return payload, nil
}

func (p *scParser) Validate(raw RawBlock) ValidationResult {
	if len(numericTokens(firstLine(raw))) == 0 {
		return invalid("SC block: no numeric fields")
	}
	return ok()
}

// StandardFeatures implements FeatureSource. 2 fields -> END_CUT (angle,
// reference-end-as-0/1); otherwise -> NOTCH (width, depth, ...).
func (p *scParser) StandardFeatures(payload any) ([]StandardFeature, error) {
	sc, ok := payload.(*SCPayload)
	if !ok {
		return nil, fmt.Errorf("SC.StandardFeatures: unexpected payload type %T", payload)
	}
	kind := "NOTCH"
	if len(sc.Numbers) == 2 {
		kind = "END_CUT"
	}
	return []StandardFeature{{
		FeatureKind: kind,
		Params:      sc,
		Line:        sc.Line,
	}}, nil
}

// BRPayload is the parsed Bevel/radius block.
type BRPayload struct {
	Numbers []float64
	Line    int
}

type brParser struct{ cfg Config }

func newBRParser(cfg Config) Parser { return &brParser{cfg: cfg} }

func (p *brParser) BlockType() string { return "BR" }
func (p *brParser) Name() string { return "Bevel/radius" }
func (p *brParser) Description() string { return "feature-specific numeric payload; maps to CHAMFER" }

func (p *brParser) Parse(raw RawBlock) (any, error) {
	line := firstLine(raw)
	nums := numericTokens(line)
	payload := &BRPayload{}
	for _, n := range nums {
		v, err := floatOf(n)
		if err != nil {
			return nil, err
		}
		payload.Numbers = append(payload.Numbers, v)
	}
	if len(nums) > 0 {
		payload.Line = nums[0].Line
	}
	return payload, nil
}

func (p *brParser) Validate(raw RawBlock) ValidationResult {
	if len(numericTokens(firstLine(raw))) == 0 {
		return invalid("BR block: no numeric fields")
	}
	return ok()
}

// StandardFeatures implements FeatureSource: a BR block always maps to
// CHAMFER.
func (p *brParser) StandardFeatures(payload any) ([]StandardFeature, error) {
	br, ok := payload.(*BRPayload)
	if !ok {
		return nil, fmt.Errorf("BR.StandardFeatures: unexpected payload type %T", payload)
	}
	return []StandardFeature{{
		FeatureKind: "CHAMFER",
		Params:      br,
		Line:        br.Line,
	}}, nil
}
