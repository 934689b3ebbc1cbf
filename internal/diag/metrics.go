package diag

import (
	"sync"
	"time"
)

// Metrics accumulates engine-wide counters under a mutex; readers take a
// snapshot rather than observing live state.
type Metrics struct {
	mu                sync.Mutex
	totalImports      int64
	totalExports      int64
	importsByFormat   map[string]int64
	exportsByFormat   map[string]int64
	totalImportNanos  int64
	totalExportNanos  int64
}

// NewMetrics returns an empty counter set.
func NewMetrics() *Metrics {
	return &Metrics{
		importsByFormat: make(map[string]int64),
		exportsByFormat: make(map[string]int64),
	}
}

// RecordImport updates the import counters for one completed job.
func (m *Metrics) RecordImport(formatID string, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalImports++
	m.importsByFormat[formatID]++
	m.totalImportNanos += elapsed.Nanoseconds()
}

// RecordExport updates the export counters for one completed job.
func (m *Metrics) RecordExport(formatID string, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalExports++
	m.exportsByFormat[formatID]++
	m.totalExportNanos += elapsed.Nanoseconds()
}

// Snapshot is an immutable point-in-time copy of the counters.
type Snapshot struct {
	TotalImports        int64
	TotalExports         int64
	ImportsByFormat      map[string]int64
	ExportsByFormat      map[string]int64
	AverageImportMillis  float64
	AverageExportMillis  float64
}

// Snapshot copies the current counter values out from under the mutex.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Snapshot{
		TotalImports:    m.totalImports,
		TotalExports:    m.totalExports,
		ImportsByFormat: make(map[string]int64, len(m.importsByFormat)),
		ExportsByFormat: make(map[string]int64, len(m.exportsByFormat)),
	}
	for k, v := range m.importsByFormat {
		s.ImportsByFormat[k] = v
	}
	for k, v := range m.exportsByFormat {
		s.ExportsByFormat[k] = v
	}
	if m.totalImports > 0 {
		s.AverageImportMillis = float64(m.totalImportNanos) / float64(m.totalImports) / 1e6
	}
	if m.totalExports > 0 {
		s.AverageExportMillis = float64(m.totalExportNanos) / float64(m.totalExports) / 1e6
	}
	return s
}
