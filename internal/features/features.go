// Package features applies a part's parsed features to its base solid in
// declared order. Each feature kind has a processor keyed in
// a dispatch registry, mirroring the block parser factory's kind-to-parser
// table (internal/blocks/factory.go) on the geometry side: validate the
// feature against the solid, transform face-local coordinates into the
// part's 3D frame through the solid's face bands, and fold the result into
// the mesh.
package features

import (
	"fmt"

	"github.com/topsteelcad/dstv-engine/internal/diag"
	"github.com/topsteelcad/dstv-engine/internal/pipeline"
	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// Placement is a non-geometric feature (marking, punch, heat-treat area)
// resolved into the part's 3D frame: position on the face, outward normal,
// and the annotation payload downstream tooling renders or drives a marker
// head with.
type Placement struct {
	FeatureID string
	Kind      pivot.Kind
	Position  pivot.Vertex
	Normal    pivot.Vertex
	Text      string
	Height    float64
	Rotation  float64
	Depth     float64
	Method    string
}

// Result is the feature stage's output: the transformed solid, the resolved
// annotation placements, and any features that were skipped because no
// processor supports their kind (they stay attached to the part so
// downstream tools can retry).
type Result struct {
	Solid      *pivot.Solid
	Placements []Placement
	Skipped    []*pivot.Feature
}

// Processor applies one feature kind to a solid.
type Processor interface {
	Kind() pivot.Kind
	// Validate checks the feature against the part and solid; a non-nil
	// error is recorded as a FeatureValidationError and the feature is
	// skipped without aborting the run.
	Validate(part *pivot.Part, solid *pivot.Solid, f *pivot.Feature) error
	// Apply folds the feature into the solid, appending placements to res
	// for annotative kinds. It may mutate and return the same solid.
	Apply(part *pivot.Part, solid *pivot.Solid, f *pivot.Feature, res *Result) (*pivot.Solid, error)
}

// Registry maps feature kinds to processors.
type Registry struct {
	processors map[pivot.Kind]Processor
}

// NewRegistry returns a registry pre-loaded with every built-in processor.
func NewRegistry() *Registry {
	r := &Registry{processors: make(map[pivot.Kind]Processor)}
	for _, p := range []Processor{
		&holeProcessor{},
		&slottedHoleProcessor{},
		&threadProcessor{},
		&contourProcessor{outer: true},
		&contourProcessor{outer: false},
		&endCutProcessor{},
		&notchProcessor{},
		&markingProcessor{},
		&punchProcessor{},
		&chamferProcessor{},
		&grooveProcessor{},
		&heatTreatProcessor{},
	} {
		r.processors[p.Kind()] = p
	}
	return r
}

// Register adds or replaces the processor for a kind.
func (r *Registry) Register(p Processor) {
	r.processors[p.Kind()] = p
}

// Get returns the processor for a kind, or nil when unsupported.
func (r *Registry) Get(kind pivot.Kind) Processor {
	return r.processors[kind]
}

// Apply runs every feature of part against solid in declared order,
// checking for cancellation between features. Feature validation failures
// are recorded on the context and skip the feature; only the post-condition
// violation (vertex count < 4) is fatal.
func (r *Registry) Apply(ctx *pipeline.Context, part *pivot.Part, solid *pivot.Solid) (*Result, error) {
	res := &Result{Solid: solid}
	warnOverlappingHoles(ctx, part)

	for _, f := range part.Features {
		if ctx != nil && ctx.Cancelled() {
			return res, diag.ErrCancelled
		}

		p := r.Get(f.Kind)
		if p == nil {
			res.Skipped = append(res.Skipped, f)
			if ctx != nil {
				ctx.AddWarning(diag.New(diag.KindValidation, fmt.Sprintf("no processor for feature kind %s", f.Kind)).At(diag.Location{FeatureID: f.ID}))
			}
			continue
		}

		if err := p.Validate(part, res.Solid, f); err != nil {
			if ctx != nil {
				ctx.AddError(&diag.FeatureValidationError{FeatureID: f.ID, Reason: err.Error()})
			}
			continue
		}

		next, err := p.Apply(part, res.Solid, f, res)
		if err != nil {
			if ctx != nil {
				ctx.AddError(&diag.FeatureValidationError{FeatureID: f.ID, Reason: err.Error()})
			}
			continue
		}
		res.Solid = next
	}

	if res.Solid.VertexCount() < 4 {
		return res, diag.New(diag.KindInternal, fmt.Sprintf("degenerate solid after features: %d vertices", res.Solid.VertexCount()))
	}
	return res, nil
}

// warnOverlappingHoles flags holes whose bores intersect another hole on
// the same face. Subtracting overlapping bores is legal geometry but
// almost always a programming error on the beam line, so it surfaces as a
// warning, not a rejection. The spatial query runs over the part's feature
// index rather than the quadratic pair scan: hole-heavy plate programs
// carry thousands of BO records.
func warnOverlappingHoles(ctx *pipeline.Context, part *pivot.Part) {
	if ctx == nil {
		return
	}
	idx := pivot.BuildFeatureIndex(part)
	for _, f := range part.Features {
		hp, ok := f.Params.(*pivot.ParamsHole)
		if f.Kind != pivot.KindHole || !ok {
			continue
		}
		r := hp.Diameter / 2
		near := idx.Query(pivot.Rect2D{
			MinX: f.Position.X - hp.Diameter, MinY: f.Position.Y - hp.Diameter,
			MaxX: f.Position.X + hp.Diameter, MaxY: f.Position.Y + hp.Diameter,
		}, f.Face)
		for _, other := range near {
			op, ok := other.Params.(*pivot.ParamsHole)
			if !ok || other.Kind != pivot.KindHole || other.ID <= f.ID {
				continue
			}
			dx := other.Position.X - f.Position.X
			dy := other.Position.Y - f.Position.Y
			if dx*dx+dy*dy < (r+op.Diameter/2)*(r+op.Diameter/2) {
				ctx.AddWarning(diag.New(diag.KindValidation,
					fmt.Sprintf("holes %s and %s overlap", f.ID, other.ID)).
					At(diag.Location{FeatureID: f.ID}))
			}
		}
	}
}
