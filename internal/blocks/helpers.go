package blocks

import (
	"fmt"
	"strconv"

	"github.com/topsteelcad/dstv-engine/internal/lexer"
)

// numericTokens returns every INTEGER/FLOAT/COORDINATE token in line, in
// order, skipping DELIMITER/STRING/EMPTY tokens.
func numericTokens(line []lexer.Token) []lexer.Token {
	var out []lexer.Token
	for _, t := range line {
		switch t.Kind {
		case lexer.KindInteger, lexer.KindFloat, lexer.KindCoordinate:
			out = append(out, t)
		}
	}
	return out
}

func floatOf(t lexer.Token) (float64, error) {
	v, err := strconv.ParseFloat(t.Value, 64)
	if err != nil {
		return 0, fmt.Errorf("field %q at %d:%d is not numeric: %w", t.Raw, t.Line, t.Column, err)
	}
	return v, nil
}

// stringTokens returns every IDENTIFIER/STRING token in line, in order.
func stringTokens(line []lexer.Token) []lexer.Token {
	var out []lexer.Token
	for _, t := range line {
		switch t.Kind {
		case lexer.KindIdentifier, lexer.KindString:
			out = append(out, t)
		}
	}
	return out
}

// faceOf returns the line's face code: a leading single-letter token
// (SI and PU may carry the face that way) or the face suffix of the first
// COORDINATE token, whichever comes first; "" when neither is present.
// A bare face letter has no digits, so the lexer hands it over as a STRING
// rather than an IDENTIFIER.
func faceOf(line []lexer.Token) string {
	if len(line) > 0 && (line[0].Kind == lexer.KindIdentifier || line[0].Kind == lexer.KindString) {
		switch line[0].Value {
		case "v", "o", "u", "h":
			return line[0].Value
		}
	}
	for _, t := range line {
		if t.Kind == lexer.KindCoordinate {
			switch t.Suffix {
			case "v", "o", "u", "h":
				return t.Suffix
			}
		}
	}
	return ""
}

// stripFaceToken returns line without its leading face-code identifier, so
// string-field parsers do not mistake the face letter for payload text.
func stripFaceToken(line []lexer.Token) []lexer.Token {
	if len(line) > 0 && (line[0].Kind == lexer.KindIdentifier || line[0].Kind == lexer.KindString) {
		switch line[0].Value {
		case "v", "o", "u", "h":
			return line[1:]
		}
	}
	return line
}

// allFields returns every value-bearing token on the line (INTEGER, FLOAT,
// COORDINATE, IDENTIFIER, STRING, EMPTY) in source order, for parsers that
// must read fields positionally regardless of how the lexer classified
// each one (e.g. a purely-numeric order number vs. an alphanumeric one).
func allFields(line []lexer.Token) []lexer.Token {
	var out []lexer.Token
	for _, t := range line {
		switch t.Kind {
		case lexer.KindInteger, lexer.KindFloat, lexer.KindCoordinate,
			lexer.KindIdentifier, lexer.KindString, lexer.KindEmpty:
			out = append(out, t)
		}
	}
	return out
}

// firstLine returns the first non-empty line of tokens, or nil.
func firstLine(raw RawBlock) []lexer.Token {
	lines := raw.Lines()
	if len(lines) == 0 {
		return nil
	}
	return lines[0]
}
