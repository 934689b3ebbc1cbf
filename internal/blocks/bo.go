package blocks

import "fmt"

// BOEntry is one hole record of a BO block.
type BOEntry struct {
	Face      string
	X, Y      float64
	Diameter  float64
	Depth     float64 // 0 when unspecified; through inferred against part thickness
	SlotLen   float64
	SlotAngle float64
	Slotted   bool
	Line      int
}

// BOPayload is the parsed Hole block: one or more hole records.
type BOPayload struct {
	Entries []BOEntry
}

type boParser struct{ cfg Config }

func newBOParser(cfg Config) Parser { return &boParser{cfg: cfg} }

func (p *boParser) BlockType() string { return "BO" }
func (p *boParser) Name() string { return "Hole" }
func (p *boParser) Description() string {
	return "one or more hole records: face, position, diameter, optional depth or slot geometry"
}

func (p *boParser) Parse(raw RawBlock) (any, error) {
	payload := &BOPayload{}
	for _, line := range raw.Lines() {
		nums := numericTokens(line)
		if len(nums) < 3 {
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
		diameter, err := floatOf(nums[2])
		if err != nil {
			return nil, err
		}
		entry := BOEntry{
			Face:     faceOf(line),
			X:        x,
			Y:        y,
			Diameter: diameter,
			Line:     nums[0].Line,
		}
		if len(nums) >= 5 {
			entry.Slotted = true
			entry.SlotLen, _ = floatOf(nums[3])
			entry.SlotAngle, _ = floatOf(nums[4])
		} else if len(nums) == 4 {
			entry.Depth, _ = floatOf(nums[3])
		}
		payload.Entries = append(payload.Entries, entry)
	}
	return payload, nil
}

func (p *boParser) Validate(raw RawBlock) ValidationResult {
	var errs, warns []string
	for i, line := range raw.Lines() {
		nums := numericTokens(line)
		if len(nums) < 3 {
			errs = append(errs, fmt.Sprintf("BO record %d: need at least x, y, diameter (got %d numeric fields)", i+1, len(nums)))
			continue
		}
		if d, err := floatOf(nums[2]); err == nil && d <= 0 {
			errs = append(errs, fmt.Sprintf("BO record %d: diameter must be > 0", i+1))
		}
	}
	if len(errs) > 0 {
		return ValidationResult{IsValid: false, Errors: errs, Warnings: warns}
	}
	return ValidationResult{IsValid: true, Warnings: warns}
}

// StandardFeatures implements FeatureSource: each BOEntry becomes one HOLE
// or SLOTTED_HOLE standard feature. Through-vs-blind is resolved by the
// caller (the semantic stage), which knows the part's governing thickness;
// here Depth is passed through as-is and Through defaults true when no
// depth was given.
func (p *boParser) StandardFeatures(payload any) ([]StandardFeature, error) {
	bo, ok := payload.(*BOPayload)
	if !ok {
		return nil, fmt.Errorf("BO.StandardFeatures: unexpected payload type %T", payload)
	}
	var out []StandardFeature
	for _, e := range bo.Entries {
		if e.Slotted {
			out = append(out, StandardFeature{
				FeatureKind: "SLOTTED_HOLE",
				Face:        e.Face,
				X:           e.X,
				Y:           e.Y,
				Params:      e,
				Line:        e.Line,
			})
			continue
		}
		out = append(out, StandardFeature{
			FeatureKind: "HOLE",
			Face:        e.Face,
			X:           e.X,
			Y:           e.Y,
			Params:      e,
			Line:        e.Line,
		})
	}
	return out, nil
}
