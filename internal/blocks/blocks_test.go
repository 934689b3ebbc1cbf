package blocks

import (
	"testing"

	"github.com/topsteelcad/dstv-engine/internal/lexer"
)

func tokensFor(t *testing.T, src string) []lexer.Token {
	t.Helper()
	tokens, errs := lexer.Lex([]byte(src))
	if len(errs) != 0 {
		t.Fatalf("lex errors: %v", errs)
	}
	var out []lexer.Token
	for _, tok := range tokens {
		switch tok.Kind {
		case lexer.KindBlockHeader, lexer.KindComment, lexer.KindEOF:
			continue
		}
		out = append(out, tok)
	}
	return out
}

func TestBOParserThroughHoles(t *testing.T) {
	raw := RawBlock{Kind: "BO", Tokens: tokensFor(t, "89.01s 25.40 17.50\n174.93s 25.40 17.50\n")}
	f := NewFactory(DefaultConfig())
	payload, err := f.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	bo := payload.(*BOPayload)
	if len(bo.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(bo.Entries))
	}
	if bo.Entries[0].X != 89.01 || bo.Entries[0].Diameter != 17.50 {
		t.Fatalf("entry[0] = %+v", bo.Entries[0])
	}

	features, err := f.GetParser("BO").(FeatureSource).StandardFeatures(bo)
	if err != nil {
		t.Fatalf("StandardFeatures: %v", err)
	}
	if len(features) != 2 || features[0].FeatureKind != "HOLE" {
		t.Fatalf("features = %+v", features)
	}
}

func TestSTParserCategory(t *testing.T) {
	raw := RawBlock{Kind: "ST", Tokens: tokensFor(t, "12345 D001 1 1 S355 1 HSS51X51X4.8 M 2259.98 50.8 50.8 4.78 4.78 10.1 0.2\n")}
	f := NewFactory(DefaultConfig())
	payload, err := f.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	st := payload.(*STPayload)
	if st.Category.String() != "HOLLOW_RECT" {
		t.Fatalf("category = %v, want HOLLOW_RECT", st.Category)
	}
	if st.Length != 2259.98 {
		t.Fatalf("length = %v, want 2259.98", st.Length)
	}
}

func TestENParserRejectsTrailingContent(t *testing.T) {
	f := NewFactory(DefaultConfig())
	res := f.ValidateBlock(RawBlock{Kind: "EN", Tokens: tokensFor(t, "stray\n")})
	if res.IsValid {
		t.Fatal("EN block with trailing content should fail validation")
	}
}

func TestGenericParserNeverFails(t *testing.T) {
	f := NewFactory(DefaultConfig())
	res := f.ValidateBlock(RawBlock{Kind: "WA", Tokens: tokensFor(t, "1 2 3 garbage\n")})
	if !res.IsValid {
		t.Fatalf("generic parser should never hard-fail, got errors %v", res.Errors)
	}
}

func TestSCStandardFeatureMapping(t *testing.T) {
	f := NewFactory(DefaultConfig())
	payload, err := f.Parse(RawBlock{Kind: "SC", Tokens: tokensFor(t, "45.0 1\n")})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	features, err := f.GetParser("SC").(FeatureSource).StandardFeatures(payload)
	if err != nil {
		t.Fatalf("StandardFeatures: %v", err)
	}
	if len(features) != 1 || features[0].FeatureKind != "END_CUT" {
		t.Fatalf("features = %+v, want one END_CUT", features)
	}
}

func TestSupportedBlockTypesIncludesDedicatedKinds(t *testing.T) {
	f := NewFactory(DefaultConfig())
	types := f.SupportedBlockTypes()
	want := []string{"AK", "BO", "BR", "EN", "IK", "KA", "KO", "LP", "PU", "RT", "SC", "SI", "ST", "TO"}
	for _, k := range want {
		found := false
		for _, t2 := range types {
			if t2 == k {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("SupportedBlockTypes missing %q", k)
		}
	}
}

func TestFactoryStatistics(t *testing.T) {
	f := NewFactory(DefaultConfig())
	f.Parse(RawBlock{Kind: "EN", Tokens: nil})
	f.Parse(RawBlock{Kind: "EN", Tokens: nil})
	stats := f.Statistics()
	if stats["EN"] != 2 {
		t.Fatalf("EN stat = %d, want 2", stats["EN"])
	}
}
