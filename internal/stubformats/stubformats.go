// Package stubformats registers placeholder plugins for the formats the
// toolkit recognises but does not parse. They exist so the registry's
// extension-overlap ordering, supported_formats() and capabilities() have
// real entries to report, and so an import routed at one fails with a
// Capability error instead of an unknown-format error.
package stubformats

import (
	"fmt"

	"github.com/topsteelcad/dstv-engine/internal/diag"
	"github.com/topsteelcad/dstv-engine/internal/pipeline"
	"github.com/topsteelcad/dstv-engine/pkg/engine"
)

type stub struct {
	id   string
	name string
	exts []string
}

func (s *stub) Info() engine.Info {
	return engine.Info{ID: s.id, Name: s.name, Version: "0.1.0", Extensions: s.exts}
}

func (s *stub) Capabilities() engine.Capabilities {
	return engine.Capabilities{Import: engine.Capability{}}
}

// Validate never claims the content: stubs only ever win detection when
// nothing real is registered, and the confidence floor keeps them below
// any sane threshold.
func (s *stub) Validate(data []byte) engine.ValidationReport {
	return engine.ValidationReport{
		IsValid:    false,
		Confidence: 0,
		Errors:     []string{fmt.Sprintf("%s parsing is not implemented", s.id)},
	}
}

func (s *stub) ImportPipeline(opts map[string]any) (*pipeline.Pipeline, error) {
	return nil, diag.New(diag.KindCapability, fmt.Sprintf("%s import is not implemented", s.id))
}

func (s *stub) ExportPipeline(opts map[string]any) (*pipeline.Pipeline, error) {
	return nil, diag.New(diag.KindCapability, fmt.Sprintf("%s export is not implemented", s.id))
}

// All returns one stub per recognised-but-unimplemented format id.
func All() []engine.Plugin {
	return []engine.Plugin{
		&stub{id: "ifc", name: "Industry Foundation Classes", exts: []string{".ifc"}},
		&stub{id: "dxf", name: "AutoCAD DXF", exts: []string{".dxf"}},
		&stub{id: "step", name: "STEP AP214", exts: []string{".stp", ".step"}},
		&stub{id: "obj", name: "Wavefront OBJ", exts: []string{".obj"}},
		&stub{id: "gltf", name: "glTF 2.0", exts: []string{".gltf", ".glb"}},
		&stub{id: "json", name: "JSON scene dump", exts: []string{".json"}},
	}
}

// RegisterAll registers every stub with the engine.
func RegisterAll(e *engine.Engine) error {
	for _, p := range All() {
		if err := e.RegisterFormat(p); err != nil {
			return err
		}
	}
	return nil
}
