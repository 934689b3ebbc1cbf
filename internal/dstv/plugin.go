// Package dstv assembles the lexer, block parsers, semantic stage,
// geometry generators and feature processors into the engine's flagship
// import/export plugin. Each phase is a named pipeline stage so middleware,
// cancellation and progress all observe the same boundaries.
package dstv

import (
	"fmt"
	"strings"

	"github.com/topsteelcad/dstv-engine/internal/blocks"
	"github.com/topsteelcad/dstv-engine/internal/diag"
	"github.com/topsteelcad/dstv-engine/internal/features"
	"github.com/topsteelcad/dstv-engine/internal/geometry"
	"github.com/topsteelcad/dstv-engine/internal/geometry/profiles"
	"github.com/topsteelcad/dstv-engine/internal/lexer"
	"github.com/topsteelcad/dstv-engine/internal/pipeline"
	"github.com/topsteelcad/dstv-engine/internal/semantic"
	"github.com/topsteelcad/dstv-engine/pkg/engine"
	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// Version is the plugin's semver, bumped with the NC1 grammar coverage.
const Version = "1.2.0"

// Plugin is the DSTV NC1 import/export plugin.
type Plugin struct {
	opts Options
	// lexCache memoises the lex stage across this plugin's pipelines.
	// Tokenisation is deterministic in the raw bytes alone and the
	// pipeline stores only clean runs, so strict and lenient imports can
	// share one cache.
	lexCache *pipeline.CacheMiddleware
}

// New returns a DSTV plugin with the given options.
func New(opts Options) *Plugin {
	return &Plugin{opts: opts, lexCache: pipeline.NewCacheMiddleware("lex")}
}

func (p *Plugin) Info() engine.Info {
	return engine.Info{
		ID:         "dstv",
		Name:       "DSTV NC1 (7th edition)",
		Version:    Version,
		Extensions: []string{".nc", ".nc1"},
	}
}

func (p *Plugin) Capabilities() engine.Capabilities {
	return engine.Capabilities{
		Import: engine.Capability{Geometry: true, Features: true, Materials: true, Properties: true},
		Export: &engine.Capability{Geometry: false, Features: true, Materials: true, Properties: true},
	}
}

// Validate probes the bytes for the NC1 envelope: a line reading ST and a
// line reading EN, anywhere in the data. Both present scores 0.95, ST
// alone 0.85 (truncated files still import partially), neither disqualifies.
func (p *Plugin) Validate(data []byte) engine.ValidationReport {
	report := engine.ValidationReport{}
	sawST, sawEN := false, false
	for _, line := range strings.Split(string(data), "\n") {
		switch strings.TrimSpace(strings.TrimSuffix(line, "\r")) {
		case "ST":
			sawST = true
		case "EN":
			sawEN = true
		}
	}
	switch {
	case sawST && sawEN:
		report.IsValid = true
		report.Confidence = 0.95
	case sawST:
		report.IsValid = true
		report.Confidence = 0.85
		report.Warnings = append(report.Warnings, "no EN terminator found")
	default:
		report.Confidence = 0.05
		report.Errors = append(report.Errors, "no ST header found")
	}
	return report
}

// ImportPipeline builds the four-stage import: lex, parse, geometry,
// features.
func (p *Plugin) ImportPipeline(bag map[string]any) (*pipeline.Pipeline, error) {
	opts := p.opts
	if bag != nil {
		opts = optionsFrom(bag)
	}
	factory := blocks.NewFactory(blocks.Config{Strict: opts.Strict, ValidationOn: true})
	registry := features.NewRegistry()

	pipe := pipeline.New(pipeline.DefaultOptions())
	pipe.Use(&pipeline.LoggingMiddleware{})
	pipe.Use(pipeline.NewMetricsMiddleware())
	pipe.Use(p.lexCache)
	if opts.ValidateGeometry {
		pipe.Use(&pipeline.ValidationMiddleware{OutputValidator: sceneSanity})
	}

	pipe.AddStage(pipeline.Stage{
		Name:        "lex",
		Description: "tokenise NC1 bytes",
		Run: func(ctx *pipeline.Context, input any) (any, error) {
			data, ok := input.([]byte)
			if !ok {
				return nil, diag.New(diag.KindInternal, fmt.Sprintf("lex stage expects []byte, got %T", input))
			}
			tokens, lexErrs := lexer.Lex(data)
			for _, e := range lexErrs {
				if opts.Strict {
					return nil, diag.Wrap(diag.KindValidation, "lexing NC1 source", e)
				}
				ctx.AddWarning(e)
			}
			ctx.AddMetric("tokens", float64(len(tokens)))
			return tokens, nil
		},
	})

	pipe.AddStage(pipeline.Stage{
		Name:        "parse",
		Description: "parse blocks and assemble the part",
		Run: func(ctx *pipeline.Context, input any) (any, error) {
			tokens := input.([]lexer.Token)
			result, err := semantic.Run(tokens, factory, opts.Strict)
			if err != nil {
				return nil, err
			}
			for _, w := range result.Warnings {
				ctx.AddWarning(w)
			}
			// Later stages and middleware read the header facts the ST
			// block published.
			ctx.SetSharedData("dimensions", result.Part.Dimensions)
			ctx.SetSharedData("designation", result.Part.Designation)
			ctx.SetSharedData("category", result.Part.Category)
			for kind, n := range result.BlockCounts {
				ctx.AddMetric("blocks_"+kind, float64(n))
			}
			return result, nil
		},
	})

	pipe.AddStage(pipeline.Stage{
		Name:        "geometry",
		Description: "materialise the base profile solid",
		Run: func(ctx *pipeline.Context, input any) (any, error) {
			result := input.(*semantic.Result)
			part := result.Part

			scene := &pivot.Scene{Parts: []*pivot.Part{part}, Metadata: map[string]any{}}
			for kind, n := range result.BlockCounts {
				scene.Metadata["blocks_"+kind] = n
			}

			geometry.ApplyCatalogue(part)
			if opts.ValidateGeometry {
				if err := geometry.Validate(part); err != nil {
					if opts.Strict {
						return nil, diag.Wrap(diag.KindValidation, "validating part dimensions", err)
					}
					ctx.AddError(diag.Wrap(diag.KindValidation, "validating part dimensions", err))
					return scene, nil
				}
			}
			solid, err := profiles.Generate(part)
			if err != nil {
				if opts.Strict {
					return nil, diag.Wrap(diag.KindValidation, "generating profile solid", err)
				}
				ctx.AddError(diag.Wrap(diag.KindValidation, "generating profile solid", err))
				return scene, nil
			}
			part.Solid = solid
			return scene, nil
		},
	})

	pipe.AddStage(pipeline.Stage{
		Name:        "features",
		Description: "apply features to the solid in declared order",
		Run: func(ctx *pipeline.Context, input any) (any, error) {
			scene := input.(*pivot.Scene)
			for _, part := range scene.Parts {
				if part.Solid == nil {
					continue
				}
				res, err := registry.Apply(ctx, part, part.Solid)
				if err != nil {
					return nil, err
				}
				part.Solid = res.Solid
				if opts.OptimizeGeometry {
					geometry.Weld(part.Solid)
				}
				if len(res.Placements) > 0 {
					scene.Metadata["placements"] = res.Placements
				}
				if len(res.Skipped) > 0 {
					scene.Metadata["skipped_features"] = res.Skipped
				}
			}
			return scene, nil
		},
	})

	return pipe, nil
}

// sceneSanity is the validation middleware's output hook: it warns on
// scene-shaped stage outputs that break the basic part contract, leaving
// hard failures to the stages themselves.
func sceneSanity(output any) []error {
	scene, ok := output.(*pivot.Scene)
	if !ok {
		return nil
	}
	var errs []error
	for _, part := range scene.Parts {
		if part.Length <= 0 {
			errs = append(errs, diag.New(diag.KindValidation,
				fmt.Sprintf("part %s has non-positive length", part.ID)))
		}
		if part.Solid != nil && part.Solid.VertexCount() < 4 {
			errs = append(errs, diag.New(diag.KindValidation,
				fmt.Sprintf("part %s solid is degenerate", part.ID)))
		}
	}
	return errs
}

// ExportPipeline builds the single-stage NC1 re-emission.
func (p *Plugin) ExportPipeline(bag map[string]any) (*pipeline.Pipeline, error) {
	pipe := pipeline.New(pipeline.DefaultOptions())
	pipe.AddStage(pipeline.Stage{
		Name:        "emit",
		Description: "re-emit the scene as NC1 text",
		Run: func(ctx *pipeline.Context, input any) (any, error) {
			scene, ok := input.(*pivot.Scene)
			if !ok {
				return nil, diag.New(diag.KindInternal, fmt.Sprintf("emit stage expects *pivot.Scene, got %T", input))
			}
			return Emit(ctx, scene)
		},
	})
	return pipe, nil
}
