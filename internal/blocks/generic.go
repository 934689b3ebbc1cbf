package blocks

import "github.com/topsteelcad/dstv-engine/internal/lexer"

// GenericPayload is the lenient {numbers, strings, metadata} fallback for
// block kinds with no dedicated parser (UE, NU, FP, VO,
// WA, GR, RO, KL, KN, FB, BF, VB, EB, PR), so unknown or unspecified blocks
// never fail the import.
type GenericPayload struct {
	Kind     string
	Numbers  []float64
	Strings  []string
	Metadata map[string]string
}

type genericParser struct {
	cfg Config
}

// newGenericParser is both the Constructor used by the factory's fallback
// path for any unregistered block kind and the dedicated constructor
// registered for the fourteen explicitly-lenient kinds. One
// instance is cached per block kind by the factory, so BlockType is not
// meaningful on the shared instance; the kind actually parsed is recovered
// from RawBlock.Kind and carried on GenericPayload.Kind instead.
func newGenericParser(cfg Config) Parser { return &genericParser{cfg: cfg} }

func (p *genericParser) BlockType() string { return "GENERIC" }
func (p *genericParser) Name() string { return "Generic lenient" }
func (p *genericParser) Description() string {
	return "recognised but unspecified block kind, parsed leniently into {numbers[], strings[], metadata}"
}

func (p *genericParser) Parse(raw RawBlock) (any, error) {
	payload := &GenericPayload{Kind: raw.Kind, Metadata: map[string]string{}}
	for _, t := range raw.Tokens {
		switch t.Kind {
		case lexer.KindInteger, lexer.KindFloat, lexer.KindCoordinate:
			if v, err := floatOf(t); err == nil {
				payload.Numbers = append(payload.Numbers, v)
			}
		case lexer.KindIdentifier, lexer.KindString:
			payload.Strings = append(payload.Strings, t.Value)
		}
	}
	return payload, nil
}

// Validate never fails: unrecognised-shape content demotes to a warning
// even in strict mode, since no specific parser exists to hold these
// kinds to a schema.
func (p *genericParser) Validate(raw RawBlock) ValidationResult {
	if len(raw.Tokens) == 0 {
		return ValidationResult{IsValid: true, Warnings: []string{"empty " + raw.Kind + " block"}}
	}
	return ok()
}
