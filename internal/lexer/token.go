// Package lexer tokenises the UTF-8 bytes of a DSTV NC1 file, turning the
// raw byte stream into a sequence of typed, positioned tokens before any
// domain interpretation happens.
package lexer

import "fmt"

// Kind is the closed set of token kinds the lexer emits.
type Kind int

const (
	KindBlockHeader Kind = iota
	KindIdentifier
	KindInteger
	KindFloat
	KindString
	KindDelimiter
	KindCoordinate
	KindComment
	KindNewline
	KindEOF
	KindEmpty
)

func (k Kind) String() string {
	switch k {
	case KindBlockHeader:
		return "BLOCK_HEADER"
	case KindIdentifier:
		return "IDENTIFIER"
	case KindInteger:
		return "INTEGER"
	case KindFloat:
		return "FLOAT"
	case KindString:
		return "STRING"
	case KindDelimiter:
		return "DELIMITER"
	case KindCoordinate:
		return "COORDINATE"
	case KindComment:
		return "COMMENT"
	case KindNewline:
		return "NEWLINE"
	case KindEOF:
		return "EOF"
	case KindEmpty:
		return "EMPTY"
	default:
		return "UNKNOWN"
	}
}

// Token is one lexical unit emitted by the lexer.
type Token struct {
	Kind   Kind
	Value  string
	// Suffix is the trailing face/side letter for a COORDINATE token
	// (u/o/v/h/s/r), empty otherwise.
	Suffix string
	Line   int
	Column int
	Length int
	Raw    string
}

// Error is raised for invalid bytes; the lexer recovers to the next newline
// and continues.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Line, e.Column, e.Message)
}
