package blocks

import "fmt"

// ContourVertex is one {x, y} pair of an AK/IK polyline, with an optional
// bulge factor (tan(Δangle/4)) marking an arc to the next vertex.
type ContourVertex struct {
	X, Y, Bulge float64
	Line        int
}

// ContourPayload is the parsed AK (outer) or IK (inner) contour block.
type ContourPayload struct {
	Kind        string // "AK" or "IK"
	Face        string
	Vertices    []ContourVertex
	AutoClosed  bool
}

type contourParser struct {
	kind string
	cfg  Config
}

func newContourParser(kind string) Constructor {
	return func(cfg Config) Parser { return &contourParser{kind: kind, cfg: cfg} }
}

func (p *contourParser) BlockType() string { return p.kind }
func (p *contourParser) Name() string {
	if p.kind == "AK" {
		return "Outer contour"
	}
	return "Inner contour"
}
func (p *contourParser) Description() string {
	return "closed polyline in face-local coordinates, with optional per-edge bulge for arcs"
}

func (p *contourParser) Parse(raw RawBlock) (any, error) {
	payload := &ContourPayload{Kind: p.kind, Face: faceOf(firstLine(raw))}
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
		v := ContourVertex{X: x, Y: y, Line: nums[0].Line}
		if len(nums) >= 3 {
			v.Bulge, _ = floatOf(nums[2])
		}
		payload.Vertices = append(payload.Vertices, v)
	}

	if n := len(payload.Vertices); n > 1 {
		first, last := payload.Vertices[0], payload.Vertices[n-1]
		if first.X != last.X || first.Y != last.Y {
			payload.Vertices = append(payload.Vertices, ContourVertex{X: first.X, Y: first.Y, Line: last.Line})
			payload.AutoClosed = true
		}
	}
	return payload, nil
}

func (p *contourParser) Validate(raw RawBlock) ValidationResult {
	var errs, warns []string
	lines := raw.Lines()
	if len(lines) < 3 {
		errs = append(errs, fmt.Sprintf("%s block requires at least 3 vertices to form a closed polyline, got %d", p.kind, len(lines)))
	}
	for i, line := range lines {
		if len(numericTokens(line)) < 2 {
			errs = append(errs, fmt.Sprintf("%s vertex %d: need at least x, y", p.kind, i+1))
		}
	}
	if len(errs) > 0 {
		return ValidationResult{IsValid: false, Errors: errs, Warnings: warns}
	}
	return ValidationResult{IsValid: true, Warnings: warns}
}

// StandardFeatures implements FeatureSource: an AK contour becomes one
// OUTER_CONTOUR feature, an IK contour one INNER_CONTOUR feature (always a
// through cut).
func (p *contourParser) StandardFeatures(payload any) ([]StandardFeature, error) {
	c, ok := payload.(*ContourPayload)
	if !ok {
		return nil, fmt.Errorf("%s.StandardFeatures: unexpected payload type %T", p.kind, payload)
	}
	kind := "OUTER_CONTOUR"
	if p.kind == "IK" {
		kind = "INNER_CONTOUR"
	}
	line := 0
	if len(c.Vertices) > 0 {
		line = c.Vertices[0].Line
	}
	return []StandardFeature{{
		FeatureKind: kind,
		Face:        c.Face,
		X:           0,
		Y:           0,
		Params:      c,
		Line:        line,
	}}, nil
}
