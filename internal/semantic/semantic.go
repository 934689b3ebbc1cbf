// Package semantic turns the ordered sequence of parsed DSTV blocks into a
// pivot scene: a single walk in file order that assembles a Part's
// dimensions and feature list from ST/BO/AK/IK/... blocks, enforcing the
// ST-first and EN-last ordering rules as it goes.
package semantic

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/topsteelcad/dstv-engine/internal/blocks"
	"github.com/topsteelcad/dstv-engine/internal/diag"
	"github.com/topsteelcad/dstv-engine/internal/lexer"
	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// Result is the semantic stage's output: the assembled part plus the
// per-block-kind occurrence counts attached to scene metadata.
type Result struct {
	Part        *pivot.Part
	BlockCounts map[string]int
	// Warnings are lenient-mode findings (e.g. missing EN) the caller
	// forwards to its processing context.
	Warnings []error
}

// Run assembles raw lexer tokens into RawBlocks by BLOCK_HEADER boundary,
// parses each with factory, and folds the result into a pivot.Part. Strict
// controls whether a missing EN is fatal; lenient mode demotes it to a
// warning.
func Run(tokens []lexer.Token, factory *blocks.Factory, strict bool) (*Result, error) {
	raws := groupBlocks(tokens)

	result := &Result{Part: &pivot.Part{ID: uuid.NewString()}, BlockCounts: map[string]int{}}

	sawST := false
	sawEN := false
	seq := map[string]int{}

	for _, raw := range raws {
		result.BlockCounts[raw.Kind]++

		if raw.Kind != "ST" && !sawST {
			return nil, diag.New(diag.KindValidation, "feature block encountered before ST").At(diag.Location{FileLine: raw.Line, BlockKind: raw.Kind})
		}
		if sawEN {
			return nil, diag.New(diag.KindValidation, "content found after EN").At(diag.Location{FileLine: raw.Line, BlockKind: raw.Kind})
		}

		payload, err := factory.Parse(raw)
		if err != nil {
			return nil, diag.Wrap(diag.KindValidation, fmt.Sprintf("parsing %s block", raw.Kind), err).At(diag.Location{FileLine: raw.Line, BlockKind: raw.Kind})
		}

		switch raw.Kind {
		case "ST":
			if sawST {
				return nil, diag.New(diag.KindValidation, "duplicate ST block").At(diag.Location{FileLine: raw.Line, BlockKind: "ST"})
			}
			sawST = true
			applyST(result.Part, payload.(*blocks.STPayload))
		case "EN":
			sawEN = true
		default:
			parser := factory.GetParser(raw.Kind)
			src, ok := parser.(blocks.FeatureSource)
			if !ok {
				// Recognised block kind with no feature mapping (e.g. RT):
				// counted in BlockCounts already, produces no feature.
				continue
			}
			stdFeatures, err := src.StandardFeatures(payload)
			if err != nil {
				return nil, diag.Wrap(diag.KindInternal, fmt.Sprintf("mapping %s block to features", raw.Kind), err)
			}
			for _, sf := range stdFeatures {
				seq[raw.Kind]++
				feature := toFeature(raw.Kind, sf, seq[raw.Kind])
				result.Part.Features = append(result.Part.Features, feature)
			}
		}
	}

	if !sawEN {
		err := diag.New(diag.KindValidation, "missing EN terminator")
		if strict {
			return nil, err
		}
		result.Warnings = append(result.Warnings, err)
	}

	resolveThreadHosts(result.Part)
	return result, nil
}

// groupBlocks splits the lexer's flat token stream into RawBlocks at each
// BLOCK_HEADER, stripping the header and comments and
// leaving the remaining tokens (including NEWLINE, used by RawBlock.Lines)
// for the block's parser.
func groupBlocks(tokens []lexer.Token) []blocks.RawBlock {
	var raws []blocks.RawBlock
	var current *blocks.RawBlock

	for _, t := range tokens {
		switch t.Kind {
		case lexer.KindBlockHeader:
			if current != nil {
				raws = append(raws, *current)
			}
			current = &blocks.RawBlock{Kind: t.Value, Line: t.Line}
		case lexer.KindComment:
			// stripped
		case lexer.KindEOF:
			if current != nil {
				raws = append(raws, *current)
				current = nil
			}
		default:
			if current != nil {
				current.Tokens = append(current.Tokens, t)
			}
		}
	}
	if current != nil {
		raws = append(raws, *current)
	}
	return raws
}

func applyST(p *pivot.Part, st *blocks.STPayload) {
	p.Designation = st.Designation
	p.Grade = st.SteelGrade
	p.Category = st.Category
	if p.Category == pivot.CategoryHollowRect && st.Height == st.Width {
		p.Category = pivot.CategoryHollowSquare
	}
	p.Length = st.Length
	p.Dimensions = st.DimensionsOf()
	p.Origin.OrderNumber = st.OrderNumber
}

// toFeature builds a deterministic-id pivot.Feature from a block's
// StandardFeature `<blockkind>_<lineno>_<seq>` scheme.
// The block-specific raw payload in sf.Params is converted to the matching
// pivot.Params* type (see convert.go) so every downstream consumer of
// pivot.Feature sees the same uniform envelope regardless of which block
// kind produced it.
func toFeature(blockKind string, sf blocks.StandardFeature, seq int) *pivot.Feature {
	kind := kindFromString(sf.FeatureKind)
	return &pivot.Feature{
		ID:       fmt.Sprintf("%s_%d_%d", blockKind, sf.Line, seq),
		Kind:     kind,
		Face:     pivot.FaceFromDSTVCode(sf.Face),
		Position: pivot.Point2D{X: sf.X, Y: sf.Y},
		Params:   toParams(kind, sf.Params),
		Source:   pivot.Source{Line: sf.Line, Column: sf.Column},
	}
}

func kindFromString(s string) pivot.Kind {
	switch s {
	case "HOLE":
		return pivot.KindHole
	case "SLOTTED_HOLE":
		return pivot.KindSlottedHole
	case "THREAD":
		return pivot.KindThread
	case "OUTER_CONTOUR":
		return pivot.KindOuterContour
	case "INNER_CONTOUR":
		return pivot.KindInnerContour
	case "END_CUT":
		return pivot.KindEndCut
	case "NOTCH":
		return pivot.KindNotch
	case "MARKING":
		return pivot.KindMarking
	case "PUNCH":
		return pivot.KindPunch
	case "CHAMFER":
		return pivot.KindChamfer
	case "GROOVE":
		return pivot.KindGroove
	case "HEAT_TREAT_AREA":
		return pivot.KindHeatTreatArea
	default:
		return pivot.KindUnknown
	}
}

// resolveThreadHosts links each THREAD feature to the nearest preceding
// HOLE feature at the same position.
func resolveThreadHosts(p *pivot.Part) {
	for i, f := range p.Features {
		if f.Kind != pivot.KindThread {
			continue
		}
		tp, ok := f.Params.(*pivot.ParamsThread)
		if !ok {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			if h := p.Features[j]; h.Kind == pivot.KindHole && h.Position == f.Position {
				tp.HostHoleID = h.ID
				break
			}
		}
	}
}
