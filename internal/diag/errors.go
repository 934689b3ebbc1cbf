// Package diag carries the structured error taxonomy, processing log, and
// metrics counters shared by the pipeline framework and the format engine.
package diag

import "fmt"

// Kind is the top-level error taxonomy from which every error returned
// through a public result envelope is built.
type Kind int

const (
	// KindUsage is caller misuse: unknown format id, invalid options.
	KindUsage Kind = iota
	// KindValidation is an input that failed structural or semantic checks.
	KindValidation
	// KindCapability is a plugin lacking a required capability.
	KindCapability
	// KindResource is a timeout, cancellation, or memory-limit violation.
	KindResource
	// KindInternal is an invariant violation. Always fatal.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindValidation:
		return "validation"
	case KindCapability:
		return "capability"
	case KindResource:
		return "resource"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Location pinpoints where an error originated in the source file or the
// feature pipeline.
type Location struct {
	FileLine   int
	FileColumn int
	BlockKind  string
	FeatureID  string
}

// Error is the structured shape every error surfaced through a result
// envelope takes: {kind, message, location?, cause?}.
type Error struct {
	Kind     Kind
	Message  string
	Location *Location
	Cause    error
}

func (e *Error) Error() string {
	if e.Location != nil && e.Location.FileLine > 0 {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s (line %d): %v", e.Kind, e.Message, e.Location.FileLine, e.Cause)
		}
		return fmt.Sprintf("%s: %s (line %d)", e.Kind, e.Message, e.Location.FileLine)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error with no location or cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an *Error that carries an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// At attaches a source location to an existing error, returning a new one.
func (e *Error) At(loc Location) *Error {
	cp := *e
	cp.Location = &loc
	return &cp
}

// ErrCancelled is returned when a pipeline unwinds because its context's
// abort signal fired.
var ErrCancelled = &Error{Kind: KindResource, Message: "cancelled"}

// ErrTimedOut is returned when a job's timeout elapses before completion.
var ErrTimedOut = &Error{Kind: KindResource, Message: "import timed out"}

// PluginValidationError carries the offending fields found while validating
// a plugin's registration schema.
type PluginValidationError struct {
	PluginID string
	Fields   []string
}

func (e *PluginValidationError) Error() string {
	return fmt.Sprintf("plugin %q failed validation: fields %v", e.PluginID, e.Fields)
}

// DuplicatePluginError is returned by RegisterFormat when the plugin id is
// already registered.
type DuplicatePluginError struct {
	PluginID string
}

func (e *DuplicatePluginError) Error() string {
	return fmt.Sprintf("plugin %q is already registered", e.PluginID)
}

// UnknownFormatError is returned by UnregisterFormat/Capabilities for an
// unrecognised format id.
type UnknownFormatError struct {
	FormatID string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown format %q", e.FormatID)
}

// CannotDetectFormatError lists the scored candidates that all fell below
// the detection confidence threshold.
type CannotDetectFormatError struct {
	Candidates []ScoredCandidate
}

// ScoredCandidate is one plugin's content-probe result during detection.
type ScoredCandidate struct {
	FormatID   string
	Confidence float64
	Errors     []string
}

func (e *CannotDetectFormatError) Error() string {
	return fmt.Sprintf("cannot detect format: %d candidates scored below threshold", len(e.Candidates))
}

// DimensionError is returned by the geometry library when a part's
// dimensions fail the category's required-fields contract.
type DimensionError struct {
	Category string
	Reason   string
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("invalid dimensions for %s: %s", e.Category, e.Reason)
}

// FeatureValidationError is added to a processing context when a feature
// fails validation against the solid it targets; it does not abort the
// pipeline.
type FeatureValidationError struct {
	FeatureID string
	Reason    string
}

func (e *FeatureValidationError) Error() string {
	return fmt.Sprintf("feature %s invalid: %s", e.FeatureID, e.Reason)
}
