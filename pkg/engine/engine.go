// Package engine is the multi-format ingestion engine: a plugin registry
// with content-based format detection, and import/export orchestration over
// the staged pipeline framework: a read-mostly registry consulted per job,
// a bounded worker pool capping concurrent jobs, and results that carry
// their errors instead of throwing them.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alitto/pond"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/topsteelcad/dstv-engine/internal/diag"
	"github.com/topsteelcad/dstv-engine/internal/pipeline"
	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// Options are the engine-wide configuration knobs.
type Options struct {
	AutoDetect                   bool
	DetectionConfidenceThreshold float64
	MaxConcurrentJobs            int
	DefaultTimeoutMS             int
	MemoryLimitMB                int
	LogLevel                     string
	EnableMetrics                bool
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		AutoDetect:                   true,
		DetectionConfidenceThreshold: 0.8,
		MaxConcurrentJobs:            4,
		DefaultTimeoutMS:             30000,
		MemoryLimitMB:                500,
		LogLevel:                     "info",
		EnableMetrics:                true,
	}
}

// ImportOptions configure one import job.
type ImportOptions struct {
	// Format skips auto-detection when set; validation still runs, but a
	// failed probe is downgraded to a warning unless Strict.
	Format    string
	// Filename is an optional hint for the detection extension filter.
	Filename  string
	Strict    bool
	TimeoutMS int
	Options   map[string]any
}

// ExportOptions configure one export job.
type ExportOptions struct {
	TimeoutMS int
	Options   map[string]any
}

// Engine orchestrates format plugins.
type Engine struct {
	opts    Options
	reg     *registry
	metrics *diag.Metrics
	pool    *pond.WorkerPool
}

// New builds an engine with the given options; zero-valued knobs fall back
// to their defaults.
func New(opts Options) *Engine {
	def := DefaultOptions()
	if opts.DetectionConfidenceThreshold <= 0 {
		opts.DetectionConfidenceThreshold = def.DetectionConfidenceThreshold
	}
	if opts.MaxConcurrentJobs <= 0 {
		opts.MaxConcurrentJobs = def.MaxConcurrentJobs
	}
	if opts.DefaultTimeoutMS <= 0 {
		opts.DefaultTimeoutMS = def.DefaultTimeoutMS
	}
	if opts.MemoryLimitMB <= 0 {
		opts.MemoryLimitMB = def.MemoryLimitMB
	}
	if opts.LogLevel == "" {
		opts.LogLevel = def.LogLevel
	}
	return &Engine{
		opts:    opts,
		reg:     &registry{},
		metrics: diag.NewMetrics(),
		pool:    pond.New(opts.MaxConcurrentJobs, opts.MaxConcurrentJobs*4),
	}
}

// Close drains the job pool. The engine must not be used afterwards.
func (e *Engine) Close() {
	e.pool.StopAndWait()
}

// RegisterFormat registers a plugin after schema validation.
func (e *Engine) RegisterFormat(p Plugin) error {
	return e.reg.register(p)
}

// UnregisterFormat removes a plugin by format id.
func (e *Engine) UnregisterFormat(id string) error {
	return e.reg.unregister(id)
}

// SupportedFormats lists registered plugins in registration order.
func (e *Engine) SupportedFormats() []Info {
	return lo.Map(e.reg.all(), func(p Plugin, _ int) Info { return p.Info() })
}

// Capabilities returns the capability matrix for a format id.
func (e *Engine) Capabilities(id string) (Capabilities, error) {
	p, ok := e.reg.get(id)
	if !ok {
		return Capabilities{}, &diag.UnknownFormatError{FormatID: id}
	}
	return p.Capabilities(), nil
}

// Metrics returns a snapshot of the engine's counters.
func (e *Engine) Metrics() diag.Snapshot {
	return e.metrics.Snapshot()
}

// DetectFormat runs two-phase detection: extension filter,
// then content probing; the winner is the highest-confidence candidate at
// or above the threshold, with registration order breaking ties.
func (e *Engine) DetectFormat(data []byte, filename string) (string, error) {
	candidates := e.reg.candidatesFor(filename)
	if len(candidates) == 0 {
		return "", &diag.CannotDetectFormatError{}
	}

	scored := lo.Map(candidates, func(p Plugin, _ int) diag.ScoredCandidate {
		report := p.Validate(data)
		return diag.ScoredCandidate{
			FormatID:   p.Info().ID,
			Confidence: report.Confidence,
			Errors:     report.Errors,
		}
	})

	best := scored[0]
	for _, c := range scored[1:] {
		if c.Confidence > best.Confidence {
			best = c
		}
	}
	if best.Confidence < e.opts.DetectionConfidenceThreshold {
		return "", &diag.CannotDetectFormatError{Candidates: scored}
	}
	return best.FormatID, nil
}

// Import parses raw bytes into a pivot scene. It never returns an error:
// every failure is folded into the result envelope.
func (e *Engine) Import(ctx context.Context, data []byte, opts ImportOptions) *ImportResult {
	started := time.Now()
	res := &ImportResult{
		Stats:    Stats{FileSize: len(data)},
		Metadata: Metadata{JobID: uuid.NewString()},
	}

	if len(data) > e.opts.MemoryLimitMB*1024*1024 {
		res.Errors = append(res.Errors, diag.New(diag.KindResource,
			fmt.Sprintf("input of %d bytes exceeds memory limit of %d MB", len(data), e.opts.MemoryLimitMB)))
		return res
	}

	plug, err := e.selectPlugin(data, opts, res)
	if err != nil {
		res.Errors = append(res.Errors, err)
		return res
	}
	info := plug.Info()
	res.Metadata.Format = info.ID
	res.Metadata.Plugin = PluginRef{ID: info.ID, Name: info.Name, Version: info.Version}

	pipe, err := plug.ImportPipeline(e.pipelineOptions(opts.Strict, opts.Options))
	if err != nil {
		if de, ok := err.(*diag.Error); ok {
			res.Errors = append(res.Errors, de)
		} else {
			res.Errors = append(res.Errors, diag.Wrap(diag.KindInternal, "building import pipeline", err))
		}
		return res
	}

	pctx := pipeline.NewContext(diag.ParseLevel(e.opts.LogLevel))
	for k, v := range opts.Options {
		pctx.Options[k] = v
	}
	pctx.Options["strict"] = opts.Strict

	output, execErr := e.run(ctx, pctx, pipe, data, opts.TimeoutMS)

	res.Errors = append(res.Errors, pctx.Errors()...)
	res.Warnings = append(res.Warnings, pctx.Warnings()...)
	if execErr != nil && !lo.Contains(res.Errors, execErr) {
		res.Errors = append(res.Errors, execErr)
	}
	res.Metadata.Log = pctx.LogEntries()
	res.Metadata.Metrics = pctx.Metrics()

	if scene, ok := output.(*pivot.Scene); ok {
		res.Scene = scene
		res.Stats.TotalElements = len(scene.Parts)
		res.Stats.ImportedElements = lo.CountBy(scene.Parts, func(p *pivot.Part) bool { return p.Solid != nil })
		res.Stats.FailedElements = res.Stats.TotalElements - res.Stats.ImportedElements
	}
	res.Stats.ProcessingTimeMS = float64(time.Since(started).Microseconds()) / 1000
	for k, v := range pctx.Metrics() {
		if strings.HasSuffix(k, ".heap_delta_bytes") {
			res.Stats.MemoryUsed += int64(v)
		}
	}
	res.Success = execErr == nil

	// Fatal failures still surface whatever parsed before the error --
	// except a timeout, where a partial scene would be indistinguishable
	// from a complete one.
	if execErr == diag.ErrTimedOut {
		res.Scene = nil
	}

	if e.opts.EnableMetrics {
		e.metrics.RecordImport(res.Metadata.Format, time.Since(started))
	}
	return res
}

// Export serialises a scene through a plugin's export pipeline.
func (e *Engine) Export(ctx context.Context, scene *pivot.Scene, formatID string, opts ExportOptions) *ExportResult {
	started := time.Now()
	res := &ExportResult{Metadata: Metadata{JobID: uuid.NewString(), Format: formatID}}

	plug, ok := e.reg.get(formatID)
	if !ok {
		res.Errors = append(res.Errors, &diag.UnknownFormatError{FormatID: formatID})
		return res
	}
	info := plug.Info()
	res.Metadata.Plugin = PluginRef{ID: info.ID, Name: info.Name, Version: info.Version}

	if plug.Capabilities().Export == nil {
		res.Errors = append(res.Errors, diag.New(diag.KindCapability,
			fmt.Sprintf("plugin %q does not support export", formatID)))
		return res
	}

	pipe, err := plug.ExportPipeline(opts.Options)
	if err != nil {
		res.Errors = append(res.Errors, diag.Wrap(diag.KindCapability, "building export pipeline", err))
		return res
	}

	pctx := pipeline.NewContext(diag.ParseLevel(e.opts.LogLevel))
	for k, v := range opts.Options {
		pctx.Options[k] = v
	}

	output, execErr := e.run(ctx, pctx, pipe, scene, opts.TimeoutMS)

	res.Errors = append(res.Errors, pctx.Errors()...)
	res.Warnings = append(res.Warnings, pctx.Warnings()...)
	if execErr != nil && !lo.Contains(res.Errors, execErr) {
		res.Errors = append(res.Errors, execErr)
	}
	res.Metadata.Log = pctx.LogEntries()
	res.Metadata.Metrics = pctx.Metrics()

	if data, ok := output.([]byte); ok {
		res.Data = data
		res.Stats.FileSize = len(data)
	}
	if len(scene.Parts) > 0 && scene.Parts[0].Designation != "" && len(info.Extensions) > 0 {
		res.Filename = scene.Parts[0].Designation + info.Extensions[0]
	}
	res.Stats.TotalElements = len(scene.Parts)
	res.Stats.ProcessingTimeMS = float64(time.Since(started).Microseconds()) / 1000
	res.Success = execErr == nil

	if e.opts.EnableMetrics {
		e.metrics.RecordExport(formatID, time.Since(started))
	}
	return res
}

// selectPlugin resolves the plugin for an import: the explicit format when
// given (validation still runs, downgraded to a warning unless strict),
// else two-phase detection.
func (e *Engine) selectPlugin(data []byte, opts ImportOptions, res *ImportResult) (Plugin, error) {
	if opts.Format != "" {
		plug, ok := e.reg.get(opts.Format)
		if !ok {
			return nil, &diag.UnknownFormatError{FormatID: opts.Format}
		}
		report := plug.Validate(data)
		if !report.IsValid {
			msg := fmt.Sprintf("content does not validate as %s: %v", opts.Format, report.Errors)
			if opts.Strict {
				return nil, diag.New(diag.KindValidation, msg)
			}
			res.Warnings = append(res.Warnings, diag.New(diag.KindValidation, msg))
		}
		return plug, nil
	}

	if !e.opts.AutoDetect {
		return nil, diag.New(diag.KindUsage, "no format given and auto-detection is disabled")
	}
	id, err := e.DetectFormat(data, opts.Filename)
	if err != nil {
		return nil, err
	}
	plug, _ := e.reg.get(id)
	return plug, nil
}

// run executes a pipeline under the job's timeout and the caller's
// context, translating cancellation into the dedicated Resource errors.
func (e *Engine) run(ctx context.Context, pctx *pipeline.Context, pipe *pipeline.Pipeline, input any, timeoutMS int) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeoutMS <= 0 {
		timeoutMS = e.opts.DefaultTimeoutMS
	}
	jobCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMS)*time.Millisecond)
	defer cancel()

	watchdogDone := make(chan struct{})
	go func() {
		select {
		case <-jobCtx.Done():
			pctx.Abort()
		case <-watchdogDone:
		}
	}()

	var output any
	var execErr error
	e.pool.SubmitAndWait(func() {
		output, execErr = pipe.Execute(pctx, input)
	})
	close(watchdogDone)

	if execErr != nil {
		if pipeErr, ok := execErr.(*pipeline.Error); ok && pipeErr.Cause == diag.ErrCancelled {
			execErr = diag.ErrCancelled
		}
		if execErr == diag.ErrCancelled && jobCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			execErr = diag.ErrTimedOut
		}
	}
	return output, execErr
}

// pipelineOptions folds engine-level knobs into the option bag handed to
// plugin pipeline factories.
func (e *Engine) pipelineOptions(strict bool, extra map[string]any) map[string]any {
	out := map[string]any{"strict": strict}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
