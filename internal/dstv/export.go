package dstv

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/topsteelcad/dstv-engine/internal/diag"
	"github.com/topsteelcad/dstv-engine/internal/pipeline"
	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// Emit re-serialises a pivot scene as NC1 text. Emission walks the part's
// features in declared order, one block per feature, so a re-import sees
// the same sequence; kinds with no NC1
// block (HEAT_TREAT_AREA) are skipped with a warning.
func Emit(ctx *pipeline.Context, scene *pivot.Scene) ([]byte, error) {
	if scene == nil || len(scene.Parts) == 0 {
		return nil, diag.New(diag.KindValidation, "nothing to export: scene has no parts")
	}
	if len(scene.Parts) > 1 && ctx != nil {
		ctx.AddWarning(diag.New(diag.KindValidation,
			fmt.Sprintf("NC1 carries one part per file; exporting the first of %d", len(scene.Parts))))
	}
	part := scene.Parts[0]

	var b strings.Builder
	b.WriteString("ST\n")
	b.WriteString("  " + stLine(part) + "\n")

	for _, f := range part.Features {
		switch f.Kind {
		case pivot.KindHole:
			p := f.Params.(*pivot.ParamsHole)
			fields := []string{coord(f.Position.X, f.Face), num(f.Position.Y), num(p.Diameter)}
			if !p.Through {
				fields = append(fields, num(p.Depth))
			}
			writeBlock(&b, "BO", strings.Join(fields, " "))

		case pivot.KindSlottedHole:
			p := f.Params.(*pivot.ParamsSlottedHole)
			writeBlock(&b, "BO", strings.Join([]string{
				coord(f.Position.X, f.Face), num(f.Position.Y),
				num(p.Diameter), num(p.SlotLen), num(p.SlotAngle),
			}, " "))

		case pivot.KindMarking:
			p := f.Params.(*pivot.ParamsMarking)
			if p.Text == "" {
				// KO-sourced contour markings have no text form; skip.
				continue
			}
			writeBlock(&b, "SI", strings.Join([]string{
				coord(f.Position.X, f.Face), num(f.Position.Y),
				num(p.Height), num(p.Rotation), num(p.Depth),
				p.Text, "E0", p.Method.String(),
			}, " "))

		case pivot.KindOuterContour, pivot.KindInnerContour:
			p := f.Params.(*pivot.ParamsContour)
			kind := "AK"
			if f.Kind == pivot.KindInnerContour {
				kind = "IK"
			}
			var lines []string
			for i, v := range p.Vertices {
				x := num(v.X)
				if i == 0 {
					x = coord(v.X, f.Face)
				}
				if v.Bulge != 0 {
					lines = append(lines, x+" "+num(v.Y)+" "+num(v.Bulge))
				} else {
					lines = append(lines, x+" "+num(v.Y))
				}
			}
			writeBlock(&b, kind, lines...)

		case pivot.KindThread:
			p := f.Params.(*pivot.ParamsThread)
			fields := []string{
				num(f.Position.X), num(f.Position.Y),
				num(p.Diameter), num(p.Pitch), num(p.Depth), p.Handedness.String(),
			}
			if p.Class != "" {
				fields = append(fields, p.Class)
				if p.Standard != "" {
					fields = append(fields, p.Standard)
				}
			}
			writeBlock(&b, "TO", strings.Join(fields, " "))

		case pivot.KindPunch:
			p := f.Params.(*pivot.ParamsPunch)
			writeBlock(&b, "PU", strings.Join([]string{
				coord(f.Position.X, f.Face), num(f.Position.Y), num(p.Force), num(p.Depth),
			}, " "))

		case pivot.KindEndCut:
			p := f.Params.(*pivot.ParamsEndCut)
			ref := 0.0
			if p.Reference == pivot.EndCutEnd {
				ref = 1
			}
			writeBlock(&b, "SC", num(p.AngleX)+" "+num(ref))

		case pivot.KindNotch:
			p := f.Params.(*pivot.ParamsNotch)
			v := 0.0
			if p.VShaped {
				v = 1
			}
			writeBlock(&b, "SC", num(p.Width)+" "+num(p.Depth)+" "+num(v))

		case pivot.KindChamfer:
			p := f.Params.(*pivot.ParamsChamfer)
			writeBlock(&b, "BR", num(p.Size)+" "+num(p.Angle))

		case pivot.KindGroove:
			p := f.Params.(*pivot.ParamsGroove)
			writeBlock(&b, "LP", strings.Join([]string{
				num(p.Start.X), num(p.Start.Y), num(p.End.X), num(p.End.Y),
				num(p.Width), num(p.Depth),
			}, " "))

		default:
			if ctx != nil {
				ctx.AddWarning(diag.New(diag.KindCapability,
					fmt.Sprintf("feature kind %s has no NC1 block; skipped on export", f.Kind)).
					At(diag.Location{FeatureID: f.ID}))
			}
		}
	}

	b.WriteString("EN\n")
	return []byte(b.String()), nil
}

// stLine lays out the fifteen positional header fields the ST parser
// reads back, with "-" marking the fields a pivot part does not retain.
func stLine(p *pivot.Part) string {
	order := p.Origin.OrderNumber
	if order == "" {
		order = "-"
	}
	grade := p.Grade
	if grade == "" {
		grade = "-"
	}
	designation := p.Designation
	if designation == "" {
		designation = "-"
	}
	h, w, tw, tf := stDims(p)
	return strings.Join([]string{
		order, "-", "-", "-", grade, "1", designation, dstvCode(p.Category),
		num(p.Length), num(h), num(w), num(tw), num(tf), "0", "0",
	}, " ")
}

// stDims inverts the category-specific dimension mapping the ST parser
// applies on import.
func stDims(p *pivot.Part) (h, w, tw, tf float64) {
	d := p.Dimensions
	switch p.Category {
	case pivot.CategoryHollowCircular:
		od := d[pivot.DimOuterDiameter]
		t := d[pivot.DimWallThickness]
		return od, od, t, t
	case pivot.CategoryRoundBar:
		dia := d[pivot.DimDiameter]
		return dia, dia, 0, 0
	case pivot.CategoryAngle:
		return d[pivot.DimLeg1], d[pivot.DimLeg2], d[pivot.DimThickness], d[pivot.DimThickness]
	case pivot.CategoryFlat, pivot.CategorySquareBar, pivot.CategoryPlate:
		return d[pivot.DimHeight], d[pivot.DimWidth], d[pivot.DimThickness], d[pivot.DimThickness]
	default:
		return d[pivot.DimHeight], d[pivot.DimWidth], d[pivot.DimWebThickness], d[pivot.DimFlangeThickness]
	}
}

// dstvCode inverts pivot.CategoryFromDSTVCode.
func dstvCode(c pivot.Category) string {
	switch c {
	case pivot.CategoryIBeam:
		return "I"
	case pivot.CategoryChannelU:
		return "U"
	case pivot.CategoryAngle:
		return "L"
	case pivot.CategoryTee:
		return "T"
	case pivot.CategoryHollowRect, pivot.CategoryHollowSquare:
		return "M"
	case pivot.CategoryHollowCircular:
		return "RO"
	case pivot.CategoryRoundBar:
		return "R"
	case pivot.CategoryFlat:
		return "B"
	case pivot.CategoryColdFormedC:
		return "C"
	case pivot.CategoryColdFormedZ:
		return "Z"
	case pivot.CategoryColdFormedSigma:
		return "SO"
	case pivot.CategoryColdFormedOmega:
		return "OM"
	case pivot.CategoryPlate:
		return "P"
	default:
		return "B"
	}
}

func writeBlock(b *strings.Builder, kind string, lines ...string) {
	b.WriteString(kind + "\n")
	for _, l := range lines {
		b.WriteString("  " + l + "\n")
	}
}

// num formats a value with the shortest decimal that parses back exactly.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// coord appends the DSTV face suffix to a coordinate value.
func coord(v float64, face pivot.Face) string {
	return num(v) + faceCode(face)
}

func faceCode(f pivot.Face) string {
	switch f {
	case pivot.FaceTopFlange:
		return "o"
	case pivot.FaceBottomFlange:
		return "u"
	case pivot.FaceFront:
		return "h"
	default:
		return "v"
	}
}
