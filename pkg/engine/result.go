package engine

import (
	"github.com/topsteelcad/dstv-engine/internal/diag"
	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// Stats summarises one import or export job.
type Stats struct {
	TotalElements    int
	ImportedElements int
	FailedElements   int
	ProcessingTimeMS float64
	FileSize         int
	MemoryUsed       int64
}

// PluginRef identifies the plugin that handled a job.
type PluginRef struct {
	ID      string
	Name    string
	Version string
}

// Metadata carries job provenance plus the processing context's structured
// log and metrics, so callers can render what happened without re-running
// the job.
type Metadata struct {
	Format  string
	Plugin  PluginRef
	JobID   string
	Log     []diag.LogEntry
	Metrics map[string]float64
}

// ImportResult is the envelope Import always returns; the public API never
// propagates raw errors.
type ImportResult struct {
	Success  bool
	Scene    *pivot.Scene
	Errors   []error
	Warnings []error
	Stats    Stats
	Metadata Metadata
}

// ExportResult is the envelope Export always returns.
type ExportResult struct {
	Success  bool
	Data     []byte
	Filename string
	Errors   []error
	Warnings []error
	Stats    Stats
	Metadata Metadata
}
