// Package dstv is the public face of the DSTV NC1 plugin: constructors and
// registration helpers over the internal implementation.
package dstv

import (
	idstv "github.com/topsteelcad/dstv-engine/internal/dstv"
	"github.com/topsteelcad/dstv-engine/pkg/engine"
)

// Options are the DSTV plugin knobs (strict mode, geometry validation,
// geometry optimisation).
type Options = idstv.Options

// DefaultOptions returns lenient defaults: geometry validation
// on, optimisation off.
func DefaultOptions() Options {
	return idstv.DefaultOptions()
}

// NewPlugin builds the DSTV plugin for registration with an engine.
func NewPlugin(opts Options) engine.Plugin {
	return idstv.New(opts)
}

// Register builds and registers the DSTV plugin in one step.
func Register(e *engine.Engine, opts Options) error {
	return e.RegisterFormat(idstv.New(opts))
}
