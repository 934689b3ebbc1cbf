package blocks

import "fmt"

// LPPayload is the parsed Line-of-cut block: a straight groove/cut line
// described by its endpoints and width/depth.
type LPPayload struct {
	Numbers []float64
	Line    int
}

type lpParser struct{ cfg Config }

func newLPParser(cfg Config) Parser { return &lpParser{cfg: cfg} }

func (p *lpParser) BlockType() string { return "LP" }
func (p *lpParser) Name() string { return "Line of cut" }
func (p *lpParser) Description() string { return "straight cut line: endpoints plus width/depth; maps to GROOVE" }

func (p *lpParser) Parse(raw RawBlock) (any, error) {
	nums := numericTokens(firstLine(raw))
	payload := &LPPayload{}
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

func (p *lpParser) Validate(raw RawBlock) ValidationResult {
	if len(numericTokens(firstLine(raw))) < 4 {
		return invalid("LP block: need at least start x/y and end x/y")
	}
	return ok()
}

// StandardFeatures implements FeatureSource: an LP block maps to GROOVE.
func (p *lpParser) StandardFeatures(payload any) ([]StandardFeature, error) {
	lp, ok := payload.(*LPPayload)
	if !ok {
		return nil, fmt.Errorf("LP.StandardFeatures: unexpected payload type %T", payload)
	}
	return []StandardFeature{{FeatureKind: "GROOVE", Params: lp, Line: lp.Line}}, nil
}

// RTPayload is the parsed Rotation block: the three work-plane rotation
// angles as read. It produces no pivot feature, and the coordinates of
// later blocks are not rotated by it.
type RTPayload struct {
	AngleX, AngleY, AngleZ float64
	Line                   int
}

type rtParser struct{ cfg Config }

func newRTParser(cfg Config) Parser { return &rtParser{cfg: cfg} }

func (p *rtParser) BlockType() string { return "RT" }
func (p *rtParser) Name() string { return "Rotation" }
func (p *rtParser) Description() string { return "work-plane rotation affecting subsequent blocks; not itself a feature" }

func (p *rtParser) Parse(raw RawBlock) (any, error) {
	nums := numericTokens(firstLine(raw))
	payload := &RTPayload{}
	if len(nums) > 0 {
		payload.AngleX, _ = floatOf(nums[0])
		payload.Line = nums[0].Line
	}
	if len(nums) > 1 {
		payload.AngleY, _ = floatOf(nums[1])
	}
	if len(nums) > 2 {
		payload.AngleZ, _ = floatOf(nums[2])
	}
	return payload, nil
}

func (p *rtParser) Validate(raw RawBlock) ValidationResult {
	if len(numericTokens(firstLine(raw))) == 0 {
		return invalid("RT block: no rotation angles given")
	}
	return ok()
}
