package lexer

import "testing"

func tokensOfKind(tokens []Token, k Kind) []Token {
	var out []Token
	for _, t := range tokens {
		if t.Kind == k {
			out = append(out, t)
		}
	}
	return out
}

func TestLexBlockHeader(t *testing.T) {
	tokens, errs := Lex([]byte("ST\n"))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	headers := tokensOfKind(tokens, KindBlockHeader)
	if len(headers) != 1 || headers[0].Value != "ST" {
		t.Fatalf("headers = %v, want one ST", headers)
	}
}

func TestLexCoordinateSuffix(t *testing.T) {
	tokens, _ := Lex([]byte("89.01s 25.40 17.50\n"))
	coords := tokensOfKind(tokens, KindCoordinate)
	if len(coords) != 1 || coords[0].Value != "89.01" || coords[0].Suffix != "s" {
		t.Fatalf("coords = %+v", coords)
	}
	floats := tokensOfKind(tokens, KindFloat)
	if len(floats) != 2 {
		t.Fatalf("want 2 plain floats, got %d: %+v", len(floats), floats)
	}
}

func TestLexCompoundR(t *testing.T) {
	tokens, _ := Lex([]byte("10rF1001\n"))
	var kinds []Kind
	for _, tok := range tokens {
		if tok.Kind != KindNewline && tok.Kind != KindEOF {
			kinds = append(kinds, tok.Kind)
		}
	}
	want := []Kind{KindFloat, KindDelimiter, KindString}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", kinds, want)
		}
	}
}

func TestLexComment(t *testing.T) {
	tokens, _ := Lex([]byte("** this is a comment\n"))
	comments := tokensOfKind(tokens, KindComment)
	if len(comments) != 1 {
		t.Fatalf("want 1 comment token, got %d", len(comments))
	}
}

func TestLexEndsWithEOF(t *testing.T) {
	tokens, _ := Lex([]byte("ST\nEN\n"))
	if tokens[len(tokens)-1].Kind != KindEOF {
		t.Fatalf("last token = %v, want EOF", tokens[len(tokens)-1].Kind)
	}
}

func TestLexInvalidUTF8Recovers(t *testing.T) {
	src := append([]byte("ST\n"), 0xff, 0xfe, '\n')
	src = append(src, []byte("EN\n")...)
	tokens, errs := Lex(src)
	if len(errs) != 1 {
		t.Fatalf("want 1 lex error, got %d: %v", len(errs), errs)
	}
	headers := tokensOfKind(tokens, KindBlockHeader)
	if len(headers) != 2 {
		t.Fatalf("want lexing to recover and still see ST and EN, got %d headers", len(headers))
	}
}

func TestIsIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"IPE300", true},
		{"HSS51X51X4.8", true},
		{"12.5", false},
		{"WEB", false},
	}
	for _, tt := range tests {
		if got := isIdentifier(tt.in); got != tt.want {
			t.Errorf("isIdentifier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
