// Package blocks implements the DSTV block parser factory and the
// per-block-kind parsers: a dispatch table mapping a two-letter DSTV block
// kind to a typed parser.
package blocks

import "github.com/topsteelcad/dstv-engine/internal/lexer"

// RawBlock is the token sequence between one BLOCK_HEADER and the next,
// with the header and any COMMENT tokens already stripped.
type RawBlock struct {
	Kind   string
	Tokens []lexer.Token
	Line   int // line of the BLOCK_HEADER itself
}

// Lines groups Tokens into per-source-line runs, splitting on NEWLINE
// tokens and dropping empty runs. Most multi-record block kinds (BO, SI,
// PU, ...) carry one record per source line.
func (b RawBlock) Lines() [][]lexer.Token {
	var lines [][]lexer.Token
	var current []lexer.Token
	for _, tok := range b.Tokens {
		if tok.Kind == lexer.KindNewline {
			if len(current) > 0 {
				lines = append(lines, current)
				current = nil
			}
			continue
		}
		current = append(current, tok)
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}
	return lines
}

// ValidationResult is the {is_valid, errors, warnings} envelope every
// parser's Validate returns.
type ValidationResult struct {
	IsValid  bool
	Errors   []string
	Warnings []string
}

func ok() ValidationResult { return ValidationResult{IsValid: true} }

func invalid(msgs ...string) ValidationResult {
	return ValidationResult{IsValid: false, Errors: msgs}
}

// Parser is implemented by every block-kind-specific parser.
type Parser interface {
	BlockType() string
	Name() string
	Description() string
	Parse(raw RawBlock) (any, error)
	Validate(raw RawBlock) ValidationResult
}

// FeatureSource is the optional extension a Parser implements when its
// payload maps onto one or more pivot features.
// StandardFeatures returns the raw ingredients; the
// semantic stage (internal/semantic) turns them into pivot.Feature values
// with ids and source positions attached.
type FeatureSource interface {
	StandardFeatures(payload any) ([]StandardFeature, error)
}

// StandardFeature is the neutral shape a block parser emits for the
// semantic stage to turn into a pivot.Feature.
type StandardFeature struct {
	FeatureKind string
	Face        string // DSTV face code, resolved by the parser
	X, Y        float64
	Params      any
	Line        int
	Column      int
}
