package dstv

// Options are the DSTV plugin's knobs.
type Options struct {
	Strict           bool
	ValidateGeometry bool
	OptimizeGeometry bool
}

// DefaultOptions returns lenient defaults: geometry validation
// on, optimisation off.
func DefaultOptions() Options {
	return Options{Strict: false, ValidateGeometry: true, OptimizeGeometry: false}
}

// optionsFrom reads the plugin option bag handed down by the engine,
// falling back to defaults for absent keys.
func optionsFrom(bag map[string]any) Options {
	opts := DefaultOptions()
	if v, ok := bag["strict"].(bool); ok {
		opts.Strict = v
	}
	if v, ok := bag["validate_geometry"].(bool); ok {
		opts.ValidateGeometry = v
	}
	if v, ok := bag["optimize_geometry"].(bool); ok {
		opts.OptimizeGeometry = v
	}
	return opts
}
