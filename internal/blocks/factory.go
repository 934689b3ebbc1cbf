package blocks

import (
	"fmt"
	"sort"
	"sync"
)

// Config is injected into every parser constructor; it carries the
// parsing modes (strict validation, validation on/off, debug logs).
type Config struct {
	Strict          bool
	ValidationOn    bool
	Debug           bool
}

// DefaultConfig returns lenient, validating, non-debug defaults.
func DefaultConfig() Config {
	return Config{Strict: false, ValidationOn: true, Debug: false}
}

// Constructor builds a Parser for one block kind given the factory's config.
type Constructor func(cfg Config) Parser

// Factory maps a block kind to its lazily-constructed parser instance,
// with an injected Config.
type Factory struct {
	cfg Config

	mu          sync.Mutex
	ctors       map[string]Constructor
	instances   map[string]Parser
	stats       map[string]int
}

// NewFactory returns a Factory pre-registered with every built-in parser
// constructor (ST, EN, BO, AK, IK, KA, SI, SC, BR, LP, RT, PU, TO, KO, plus
// the generic lenient parser for the remaining recognised-but-unspecified
// kinds).
func NewFactory(cfg Config) *Factory {
	f := &Factory{
		cfg:       cfg,
		ctors:     make(map[string]Constructor),
		instances: make(map[string]Parser),
		stats:     make(map[string]int),
	}
	registerBuiltins(f)
	return f
}

// RegisterParser adds or replaces the constructor for a block kind.
// Registering a kind that already has a cached instance clears the cache so
// the next GetParser call re-constructs with the new constructor.
func (f *Factory) RegisterParser(kind string, ctor Constructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctors[kind] = ctor
	delete(f.instances, kind)
}

// GetParser returns the parser for kind, constructing and caching it on
// first use. Unregistered kinds fall back to the generic lenient parser so
// unknown blocks do not fail the import.
func (f *Factory) GetParser(kind string) Parser {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.instances[kind]; ok {
		return p
	}
	ctor, ok := f.ctors[kind]
	if !ok {
		ctor = newGenericParser
	}
	p := ctor(f.cfg)
	f.instances[kind] = p
	return p
}

// Parse constructs the parser for raw.Kind and runs it, recording a usage
// statistic regardless of outcome.
func (f *Factory) Parse(raw RawBlock) (any, error) {
	p := f.GetParser(raw.Kind)
	f.mu.Lock()
	f.stats[raw.Kind]++
	f.mu.Unlock()
	payload, err := p.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %s block: %w", raw.Kind, err)
	}
	return payload, nil
}

// ValidateBlock runs the kind's validator. When the factory is not strict,
// an invalid result for a kind with no registered constructor is demoted to
// a warnings-only pass; registered kinds, the generic ones included, keep
// their errors.
func (f *Factory) ValidateBlock(raw RawBlock) ValidationResult {
	p := f.GetParser(raw.Kind)
	res := p.Validate(raw)
	if !f.cfg.Strict {
		if _, hasDedicated := f.ctors[raw.Kind]; !hasDedicated && !res.IsValid {
			res.Warnings = append(res.Warnings, res.Errors...)
			res.Errors = nil
			res.IsValid = true
		}
	}
	return res
}

// SupportedBlockTypes returns every block kind with a registered
// constructor, sorted for deterministic output.
func (f *Factory) SupportedBlockTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	kinds := make([]string, 0, len(f.ctors))
	for k := range f.ctors {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Statistics returns a copy of the per-kind Parse call counters.
func (f *Factory) Statistics() map[string]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]int, len(f.stats))
	for k, v := range f.stats {
		out[k] = v
	}
	return out
}

func registerBuiltins(f *Factory) {
	f.ctors["ST"] = newSTParser
	f.ctors["EN"] = newENParser
	f.ctors["BO"] = newBOParser
	f.ctors["AK"] = newContourParser("AK")
	f.ctors["IK"] = newContourParser("IK")
	f.ctors["KA"] = newKAParser
	f.ctors["SI"] = newSIParser
	f.ctors["SC"] = newSCParser
	f.ctors["BR"] = newBRParser
	f.ctors["LP"] = newLPParser
	f.ctors["RT"] = newRTParser
	f.ctors["PU"] = newPUParser
	f.ctors["TO"] = newTOParser
	f.ctors["KO"] = newKOParser

	for _, kind := range []string{"UE", "NU", "FP", "VO", "WA", "GR", "RO", "KL", "KN", "FB", "BF", "VB", "EB", "PR"} {
		f.ctors[kind] = newGenericParser
	}
}
