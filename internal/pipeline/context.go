// Package pipeline implements the staged processing pipeline framework
// shared by every format plugin's import and export paths. The Context
// accumulates errors, warnings, logs, metrics and shared data across
// stages, and carries the job's abort signal.
package pipeline

import (
	"sync"
	"time"

	"github.com/topsteelcad/dstv-engine/internal/diag"
)

// StageInfo describes the stage currently executing.
type StageInfo struct {
	Index      int
	Name       string
	Total      int
	StartedAt  time.Time
}

// Context is the mutable state threaded through every stage of a pipeline
// run: errors, warnings, structured log, metrics, shared data, progress and
// timing.
type Context struct {
	mu sync.Mutex

	Options map[string]any

	startedAt time.Time
	current   StageInfo
	progress  int

	errors   []error
	warnings []error
	log      diag.Log
	metrics  map[string]float64
	shared   map[string]any

	abort chan struct{}
}

// NewContext returns a Context with its clock started and its abort signal
// armed. minLevel sets the structured log's verbosity floor.
func NewContext(minLevel diag.Level) *Context {
	return &Context{
		Options:   make(map[string]any),
		startedAt: time.Now(),
		metrics:   make(map[string]float64),
		shared:    make(map[string]any),
		log:       diag.Log{MinLevel: minLevel},
		abort:     make(chan struct{}),
	}
}

// AddError records a fatal stage error.
func (c *Context) AddError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, err)
}

// AddWarning records a non-fatal issue.
func (c *Context) AddWarning(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, err)
}

// Errors returns the accumulated fatal errors in occurrence order.
func (c *Context) Errors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]error(nil), c.errors...)
}

// Warnings returns the accumulated warnings in occurrence order.
func (c *Context) Warnings() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]error(nil), c.warnings...)
}

// AddLog appends a structured log entry tagged with the current stage.
func (c *Context) AddLog(level diag.Level, msg string, data map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log.Add(level, c.current.Name, msg, data)
}

// LogEntries returns the structured log accumulated so far.
func (c *Context) LogEntries() []diag.LogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log.Entries()
}

// AddMetric records or overwrites one named metric.
func (c *Context) AddMetric(key string, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics[key] = value
}

// Metrics returns a copy of the accumulated metric map.
func (c *Context) Metrics() map[string]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]float64, len(c.metrics))
	for k, v := range c.metrics {
		out[k] = v
	}
	return out
}

// SetProgress sets the 0-100 progress value.
func (c *Context) SetProgress(p int) {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	c.mu.Lock()
	c.progress = p
	c.mu.Unlock()
}

// Progress returns the current 0-100 progress value.
func (c *Context) Progress() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress
}

// GetElapsedTime returns time elapsed since the context was created.
func (c *Context) GetElapsedTime() time.Duration {
	return time.Since(c.startedAt)
}

// SetCurrentStage records which stage is now executing, for log tagging and
// progress reporting.
func (c *Context) SetCurrentStage(index, total int, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = StageInfo{Index: index, Name: name, Total: total, StartedAt: time.Now()}
	if total > 0 {
		c.progress = index * 100 / total
	}
}

// CompleteCurrentStage advances progress to reflect the just-finished stage.
func (c *Context) CompleteCurrentStage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current.Total > 0 {
		c.progress = (c.current.Index + 1) * 100 / c.current.Total
	}
}

// CurrentStage returns a copy of the current stage info.
func (c *Context) CurrentStage() StageInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// SetSharedData publishes a value for later stages to consume (e.g. the ST
// block publishing dimensions for the geometry stage).
func (c *Context) SetSharedData(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shared[key] = value
}

// GetSharedData retrieves a value published by an earlier stage.
func (c *Context) GetSharedData(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.shared[key]
	return v, ok
}

// Abort signals cancellation to every subsequent stage boundary check.
func (c *Context) Abort() {
	select {
	case <-c.abort:
	default:
		close(c.abort)
	}
}

// Cancelled reports whether Abort has been called.
func (c *Context) Cancelled() bool {
	select {
	case <-c.abort:
		return true
	default:
		return false
	}
}

// Done returns the channel closed by Abort, for use in select statements
// inside long-running stages.
func (c *Context) Done() <-chan struct{} {
	return c.abort
}
