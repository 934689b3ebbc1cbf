package pipeline

import (
	"fmt"
	"sort"

	"github.com/topsteelcad/dstv-engine/internal/diag"
)

// Stage is one pure step of a pipeline: a named function from input to
// output, with context side effects (errors, warnings, logs, metrics).
type Stage struct {
	Name        string
	Description string
	// EstimatedDuration is advisory; stages do not enforce it.
	EstimatedDuration string

	Run func(ctx *Context, input any) (any, error)

	// PreValidate runs before Run; returning an error skips Run.
	PreValidate func(ctx *Context, input any) error
	// PostComplete runs after a successful Run.
	PostComplete func(ctx *Context, output any) error
}

// Middleware wraps pipeline and stage execution. Priority is descending:
// higher values run first in Before/OnStageStart and last in
// After/OnStageComplete.
type Middleware interface {
	Name() string
	Priority() int
	Before(ctx *Context) error
	After(ctx *Context, err error)
}

// StageAwareMiddleware is the optional extension a Middleware can implement
// to observe individual stages rather than only the whole pipeline.
type StageAwareMiddleware interface {
	Middleware
	OnStageStart(ctx *Context, stage Stage)
	OnStageComplete(ctx *Context, stage Stage, output any)
	OnError(ctx *Context, stage Stage, err error)
}

// StageCache is the optional extension a Middleware implements to memoise
// stage outputs. Execute consults every registered StageCache before
// running a stage and skips the stage's Run entirely on a hit; after a
// successful run it offers the output back for storage. Only safe for
// stages that are deterministic in their input alone.
type StageCache interface {
	Middleware
	Lookup(stageName string, input any) (any, bool)
	Store(stageName string, input, output any)
}

// Options configures a Pipeline's failure policy.
type Options struct {
	// AbortOnError stops the pipeline on the first stage error. Default true.
	AbortOnError bool
}

// DefaultOptions aborts on the first stage error.
func DefaultOptions() Options {
	return Options{AbortOnError: true}
}

// Pipeline is an ordered list of stages plus registered middleware.
type Pipeline struct {
	Options    Options
	stages     []Stage
	middleware []Middleware
}

// New returns an empty pipeline with the given options.
func New(opts Options) *Pipeline {
	return &Pipeline{Options: opts}
}

// AddStage appends a stage to the pipeline.
func (p *Pipeline) AddStage(s Stage) {
	p.stages = append(p.stages, s)
}

// Use registers a middleware, keeping the list sorted by descending
// priority.
func (p *Pipeline) Use(m Middleware) {
	p.middleware = append(p.middleware, m)
	sort.SliceStable(p.middleware, func(i, j int) bool {
		return p.middleware[i].Priority() > p.middleware[j].Priority()
	})
}

// Error is returned by Execute when a stage fails and AbortOnError is set.
type Error struct {
	Stage string
	Cause error
}

func (e *Error) Error() string { return fmt.Sprintf("pipeline stage %q failed: %v", e.Stage, e.Cause) }
func (e *Error) Unwrap() error { return e.Cause }

// Execute runs every stage in order, threading output into the next
// stage's input, honouring middleware hooks, cancellation, and the
// abort-on-error policy.
func (p *Pipeline) Execute(ctx *Context, input any) (any, error) {
	for _, m := range p.middleware {
		if err := m.Before(ctx); err != nil {
			return nil, err
		}
	}

	var runErr error
	output := input

	for i, stage := range p.stages {
		if ctx.Cancelled() {
			runErr = diag.ErrCancelled
			break
		}

		ctx.SetCurrentStage(i, len(p.stages), stage.Name)
		for _, m := range p.middleware {
			if saw, ok := m.(StageAwareMiddleware); ok {
				saw.OnStageStart(ctx, stage)
			}
		}

		if cached, hit := p.lookupCached(stage.Name, output); hit {
			output = cached
			ctx.CompleteCurrentStage()
			for j := len(p.middleware) - 1; j >= 0; j-- {
				if saw, ok := p.middleware[j].(StageAwareMiddleware); ok {
					saw.OnStageComplete(ctx, stage, output)
				}
			}
			continue
		}
		stageInput := output
		errsBefore, warnsBefore := len(ctx.Errors()), len(ctx.Warnings())

		if stage.PreValidate != nil {
			if err := stage.PreValidate(ctx, output); err != nil {
				if runErr = p.failStage(ctx, stage, err); runErr != nil {
					break
				}
				continue
			}
		}

		next, err := stage.Run(ctx, output)
		if err != nil {
			if runErr = p.failStage(ctx, stage, err); runErr != nil {
				break
			}
			continue
		}

		if stage.PostComplete != nil {
			if err := stage.PostComplete(ctx, next); err != nil {
				if runErr = p.failStage(ctx, stage, err); runErr != nil {
					break
				}
				continue
			}
		}

		output = next
		// Only clean runs are memoised: a run that recorded errors or
		// warnings has diagnostic side effects a later cache hit could not
		// replay.
		if len(ctx.Errors()) == errsBefore && len(ctx.Warnings()) == warnsBefore {
			p.storeCached(stage.Name, stageInput, output)
		}
		ctx.CompleteCurrentStage()
		for j := len(p.middleware) - 1; j >= 0; j-- {
			if saw, ok := p.middleware[j].(StageAwareMiddleware); ok {
				saw.OnStageComplete(ctx, stage, output)
			}
		}
	}

	for i := len(p.middleware) - 1; i >= 0; i-- {
		p.middleware[i].After(ctx, runErr)
	}

	if runErr != nil {
		return output, runErr
	}
	return output, nil
}

func (p *Pipeline) lookupCached(stageName string, input any) (any, bool) {
	for _, m := range p.middleware {
		if c, ok := m.(StageCache); ok {
			if out, hit := c.Lookup(stageName, input); hit {
				return out, true
			}
		}
	}
	return nil, false
}

func (p *Pipeline) storeCached(stageName string, input, output any) {
	for _, m := range p.middleware {
		if c, ok := m.(StageCache); ok {
			c.Store(stageName, input, output)
		}
	}
}

func (p *Pipeline) failStage(ctx *Context, stage Stage, err error) error {
	ctx.AddError(err)
	for _, m := range p.middleware {
		if saw, ok := m.(StageAwareMiddleware); ok {
			saw.OnError(ctx, stage, err)
		}
	}
	if !p.Options.AbortOnError {
		return nil
	}
	return &Error{Stage: stage.Name, Cause: err}
}

// Stages returns the registered stages in execution order.
func (p *Pipeline) Stages() []Stage { return p.stages }
