package engine

import "github.com/topsteelcad/dstv-engine/internal/pipeline"

// knownFormatIDs is the closed set of format identifiers a plugin may
// register under.
var knownFormatIDs = map[string]bool{
	"dstv": true, "ifc": true, "dxf": true, "step": true,
	"obj": true, "gltf": true, "json": true,
}

// Info is a plugin's registration card: stable id, human name, semver
// version, and the file extensions it claims.
type Info struct {
	ID         string
	Name       string
	Version    string
	Extensions []string
}

// Capability is one direction's capability matrix.
type Capability struct {
	Geometry   bool
	Features   bool
	Materials  bool
	Properties bool
	Hierarchy  bool
	Assemblies bool
}

// Capabilities pairs the import matrix with an optional export matrix; a
// nil Export marks an import-only plugin.
type Capabilities struct {
	Import Capability
	Export *Capability
}

// ValidationReport is a plugin's content-probe verdict during detection:
// confidence in [0, 1] plus any structural findings.
type ValidationReport struct {
	IsValid    bool
	Errors     []string
	Warnings   []string
	Confidence float64
}

// Plugin is the contract every format plugin implements. ImportPipeline
// and ExportPipeline are factories: each call builds a fresh pipeline so
// concurrent jobs never share stage state.
type Plugin interface {
	Info() Info
	Capabilities() Capabilities
	// Validate probes raw bytes for this plugin's format without parsing
	// them fully.
	Validate(data []byte) ValidationReport
	// ImportPipeline builds a pipeline whose input is []byte and whose
	// output is *pivot.Scene.
	ImportPipeline(opts map[string]any) (*pipeline.Pipeline, error)
	// ExportPipeline builds a pipeline whose input is *pivot.Scene and
	// whose output is []byte. Import-only plugins return a Capability
	// error.
	ExportPipeline(opts map[string]any) (*pipeline.Pipeline, error)
}
