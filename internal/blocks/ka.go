package blocks

import "fmt"

// KASegment is one vertex of a KA arc-contour polyline. When HasArc is
// true the segment to the next vertex is an arc; CentreX/CentreY are
// populated when the centre+sweep form was used (preferred when both forms
// are present), otherwise Radius+Bulge carry the radius+sweep form.
type KASegment struct {
	X, Y      float64
	HasArc    bool
	CentreX   float64
	CentreY   float64
	Radius    float64
	Sweep     float64
	Bulge     float64
	Line      int
}

// KAPayload is the parsed Arc contour block.
type KAPayload struct {
	Face     string
	Segments []KASegment
}

type kaParser struct{ cfg Config }

func newKAParser(cfg Config) Parser { return &kaParser{cfg: cfg} }

func (p *kaParser) BlockType() string { return "KA" }
func (p *kaParser) Name() string { return "Arc contour" }
func (p *kaParser) Description() string { return "polyline where each segment explicitly declares its arc via centre+sweep or radius+sweep" }

// Parse reads each line as x, y, then an optional arc descriptor: either
// {centreX, centreY, sweep} (5 numeric fields total) or {radius, bulge}
// (4 numeric fields total). A line with only x, y is a straight segment.
func (p *kaParser) Parse(raw RawBlock) (any, error) {
	payload := &KAPayload{Face: faceOf(firstLine(raw))}
	for _, line := range raw.Lines() {
		nums := numericTokens(line)
		if len(nums) < 2 {
			continue
		}
		x, err := floatOf(nums[0])
		if err != nil {
			return nil, err
		}
		y, err := floatOf(nums[1])
		if err != nil {
			return nil, err
		}
		seg := KASegment{X: x, Y: y, Line: nums[0].Line}
		switch {
		case len(nums) >= 5:
			seg.HasArc = true
			seg.CentreX, _ = floatOf(nums[2])
			seg.CentreY, _ = floatOf(nums[3])
			seg.Sweep, _ = floatOf(nums[4])
		case len(nums) == 4:
			seg.HasArc = true
			seg.Radius, _ = floatOf(nums[2])
			seg.Bulge, _ = floatOf(nums[3])
		}
		payload.Segments = append(payload.Segments, seg)
	}
	return payload, nil
}

func (p *kaParser) Validate(raw RawBlock) ValidationResult {
	var errs []string
	for i, line := range raw.Lines() {
		if len(numericTokens(line)) < 2 {
			errs = append(errs, fmt.Sprintf("KA segment %d: need at least x, y", i+1))
		}
	}
	if len(errs) > 0 {
		return ValidationResult{IsValid: false, Errors: errs}
	}
	return ok()
}

// StandardFeatures implements FeatureSource: a KA block is itself a
// contour cut, emitted as OUTER_CONTOUR with its arc segments carried in
// Params for the geometry stage to tessellate.
func (p *kaParser) StandardFeatures(payload any) ([]StandardFeature, error) {
	ka, ok := payload.(*KAPayload)
	if !ok {
		return nil, fmt.Errorf("KA.StandardFeatures: unexpected payload type %T", payload)
	}
	line := 0
	if len(ka.Segments) > 0 {
		line = ka.Segments[0].Line
	}
	return []StandardFeature{{
		FeatureKind: "OUTER_CONTOUR",
		Face:        ka.Face,
		Params:      ka,
		Line:        line,
	}}, nil
}
