package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/topsteelcad/dstv-engine/internal/diag"
)

// LoggingMiddleware writes a log entry at the configured level around the
// whole pipeline and around each stage.
type LoggingMiddleware struct {
	Level diag.Level
}

func (m *LoggingMiddleware) Name() string { return "logging" }
func (m *LoggingMiddleware) Priority() int { return 100 }
func (m *LoggingMiddleware) Before(ctx *Context) error {
	ctx.AddLog(m.Level, "pipeline started", nil)
	return nil
}
func (m *LoggingMiddleware) After(ctx *Context, err error) {
	if err != nil {
		ctx.AddLog(diag.LevelError, "pipeline failed", map[string]any{"error": err.Error()})
		return
	}
	ctx.AddLog(m.Level, "pipeline completed", map[string]any{"elapsed_ms": ctx.GetElapsedTime().Milliseconds()})
}
func (m *LoggingMiddleware) OnStageStart(ctx *Context, stage Stage) {
	ctx.AddLog(m.Level, "stage started", map[string]any{"stage": stage.Name})
}
func (m *LoggingMiddleware) OnStageComplete(ctx *Context, stage Stage, output any) {
	ctx.AddLog(m.Level, "stage completed", map[string]any{"stage": stage.Name})
}
func (m *LoggingMiddleware) OnError(ctx *Context, stage Stage, err error) {
	ctx.AddLog(diag.LevelError, "stage failed", map[string]any{"stage": stage.Name, "error": err.Error()})
}

// MetricsMiddleware records per-stage duration and before/after heap usage.
type MetricsMiddleware struct {
	stageStart    map[string]time.Time
	stageStartMem map[string]uint64
	mu            sync.Mutex
}

func NewMetricsMiddleware() *MetricsMiddleware {
	return &MetricsMiddleware{stageStart: make(map[string]time.Time), stageStartMem: make(map[string]uint64)}
}

func (m *MetricsMiddleware) Name() string { return "metrics" }
func (m *MetricsMiddleware) Priority() int { return 90 }
func (m *MetricsMiddleware) Before(ctx *Context) error { return nil }
func (m *MetricsMiddleware) After(ctx *Context, err error) {
	ctx.AddMetric("total_elapsed_ms", float64(ctx.GetElapsedTime().Milliseconds()))
}
func (m *MetricsMiddleware) OnStageStart(ctx *Context, stage Stage) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	m.mu.Lock()
	m.stageStart[stage.Name] = time.Now()
	m.stageStartMem[stage.Name] = memStats.HeapAlloc
	m.mu.Unlock()
}
func (m *MetricsMiddleware) OnStageComplete(ctx *Context, stage Stage, output any) {
	m.mu.Lock()
	start, ok := m.stageStart[stage.Name]
	startMem := m.stageStartMem[stage.Name]
	m.mu.Unlock()
	if !ok {
		return
	}
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	ctx.AddMetric(fmt.Sprintf("stage.%s.duration_ms", stage.Name), float64(time.Since(start).Milliseconds()))
	ctx.AddMetric(fmt.Sprintf("stage.%s.heap_delta_bytes", stage.Name), float64(int64(memStats.HeapAlloc)-int64(startMem)))
}
func (m *MetricsMiddleware) OnError(ctx *Context, stage Stage, err error) {}

// Validator checks a stage output and returns a (possibly empty) list of
// validation errors.
type Validator func(value any) []error

// ValidationMiddleware runs an optional validator over each completed
// stage's output, adding any returned errors to the context as warnings.
// A stage's input is the previous stage's output, so an output validator
// covers both sides of every boundary.
type ValidationMiddleware struct {
	OutputValidator Validator
}

func (m *ValidationMiddleware) Name() string { return "validation" }
func (m *ValidationMiddleware) Priority() int { return 80 }
func (m *ValidationMiddleware) Before(ctx *Context) error { return nil }
func (m *ValidationMiddleware) After(ctx *Context, err error) {}
func (m *ValidationMiddleware) OnStageStart(ctx *Context, stage Stage) {}
func (m *ValidationMiddleware) OnStageComplete(ctx *Context, stage Stage, output any) {
	if m.OutputValidator == nil {
		return
	}
	for _, verr := range m.OutputValidator(output) {
		ctx.AddWarning(verr)
	}
}
func (m *ValidationMiddleware) OnError(ctx *Context, stage Stage, err error) {}

// CacheMiddleware memoises stage outputs keyed by a hash of their input,
// implementing the StageCache extension: Execute skips a stage's Run on a
// hit, so a plugin sharing one instance across its pipelines never
// recomputes a deterministic stage for bytes it has already seen.
// Memoising a stage whose output depends on anything besides its input
// (options, shared data) serves stale results, so callers name only the
// deterministic stages; with no names every stage is cached.
type CacheMiddleware struct {
	stages []string
	mu     sync.Mutex
	cache  map[string]any
}

// NewCacheMiddleware caches the named stages, or every stage when none are
// named.
func NewCacheMiddleware(stages ...string) *CacheMiddleware {
	return &CacheMiddleware{stages: stages, cache: make(map[string]any)}
}

func (m *CacheMiddleware) Name() string { return "cache" }
func (m *CacheMiddleware) Priority() int { return 70 }
func (m *CacheMiddleware) Before(ctx *Context) error { return nil }
func (m *CacheMiddleware) After(ctx *Context, err error) {}

func (m *CacheMiddleware) covers(stageName string) bool {
	if len(m.stages) == 0 {
		return true
	}
	for _, s := range m.stages {
		if s == stageName {
			return true
		}
	}
	return false
}

// Lookup implements StageCache: a memoised output for (stage, input), if
// present.
func (m *CacheMiddleware) Lookup(stageName string, input any) (any, bool) {
	if !m.covers(stageName) {
		return nil, false
	}
	key := cacheKey(stageName, input)
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.cache[key]
	return v, ok
}

// Store implements StageCache: memoise a stage output for (stage, input).
func (m *CacheMiddleware) Store(stageName string, input, output any) {
	if !m.covers(stageName) {
		return
	}
	key := cacheKey(stageName, input)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[key] = output
}

func cacheKey(stageName string, input any) string {
	h := sha256.New()
	h.Write([]byte(stageName))
	h.Write([]byte{0})
	switch v := input.(type) {
	case []byte:
		h.Write(v)
	case string:
		h.Write([]byte(v))
	default:
		fmt.Fprintf(h, "%#v", v)
	}
	return hex.EncodeToString(h.Sum(nil))
}
