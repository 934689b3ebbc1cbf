package semantic

import (
	"math"

	"github.com/topsteelcad/dstv-engine/internal/blocks"
	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// toParams converts a block parser's raw StandardFeature.Params payload
// into the pivot.Params* type matching kind, so every pivot.Feature carries
// the same uniform envelope regardless of which block kind produced it.
func toParams(kind pivot.Kind, raw any) any {
	switch kind {
	case pivot.KindHole:
		e, ok := raw.(blocks.BOEntry)
		if !ok {
			return raw
		}
		through := e.Depth <= 0
		return &pivot.ParamsHole{Diameter: e.Diameter, Through: through, Depth: e.Depth}

	case pivot.KindSlottedHole:
		e, ok := raw.(blocks.BOEntry)
		if !ok {
			return raw
		}
		return &pivot.ParamsSlottedHole{Diameter: e.Diameter, SlotLen: e.SlotLen, SlotAngle: e.SlotAngle}

	case pivot.KindThread:
		to, ok := raw.(*blocks.TOPayload)
		if !ok {
			return raw
		}
		handedness := pivot.HandednessRight
		if to.Handedness == "left" {
			handedness = pivot.HandednessLeft
		}
		return &pivot.ParamsThread{
			Diameter:   to.Diameter,
			Pitch:      to.Pitch,
			Depth:      to.Depth,
			Handedness: handedness,
			Class:      to.Class,
			Standard:   to.Standard,
		}

	case pivot.KindOuterContour, pivot.KindInnerContour:
		switch c := raw.(type) {
		case *blocks.ContourPayload:
			return &pivot.ParamsContour{Vertices: contourVertices(c.Vertices)}
		case *blocks.KAPayload:
			return &pivot.ParamsContour{Vertices: kaVertices(c.Segments)}
		}
		return raw

	case pivot.KindEndCut:
		sc, ok := raw.(*blocks.SCPayload)
		if !ok || len(sc.Numbers) < 2 {
			return raw
		}
		ref := pivot.EndCutStart
		if sc.Numbers[1] != 0 {
			ref = pivot.EndCutEnd
		}
		return &pivot.ParamsEndCut{Reference: ref, AngleX: sc.Numbers[0]}

	case pivot.KindNotch:
		sc, ok := raw.(*blocks.SCPayload)
		if !ok || len(sc.Numbers) < 2 {
			return raw
		}
		p := &pivot.ParamsNotch{Width: sc.Numbers[0], Depth: sc.Numbers[1]}
		if len(sc.Numbers) >= 3 {
			p.VShaped = sc.Numbers[2] != 0
		}
		return p

	case pivot.KindChamfer:
		br, ok := raw.(*blocks.BRPayload)
		if !ok || len(br.Numbers) < 1 {
			return raw
		}
		p := &pivot.ParamsChamfer{Angle: 45, Size: br.Numbers[0]}
		if len(br.Numbers) >= 2 {
			p.Angle = br.Numbers[1]
		}
		return p

	case pivot.KindMarking:
		switch m := raw.(type) {
		case *blocks.SIPayload:
			return &pivot.ParamsMarking{
				Text: m.Text, Height: m.Height, Rotation: m.Angle, Depth: m.Depth,
				Method: markingMethodOf(m.Method),
			}
		case *blocks.KOPayload:
			return &pivot.ParamsMarking{Method: pivot.MarkingEngrave}
		}
		return raw

	case pivot.KindPunch:
		p, ok := raw.(*blocks.PUPayload)
		if !ok {
			return raw
		}
		return &pivot.ParamsPunch{Force: p.Force, Depth: p.Depth}

	case pivot.KindGroove:
		lp, ok := raw.(*blocks.LPPayload)
		if !ok || len(lp.Numbers) < 4 {
			return raw
		}
		p := &pivot.ParamsGroove{
			Start: pivot.Point2D{X: lp.Numbers[0], Y: lp.Numbers[1]},
			End:   pivot.Point2D{X: lp.Numbers[2], Y: lp.Numbers[3]},
		}
		if len(lp.Numbers) >= 5 {
			p.Width = lp.Numbers[4]
		}
		if len(lp.Numbers) >= 6 {
			p.Depth = lp.Numbers[5]
		}
		return p
	}
	return raw
}

func contourVertices(in []blocks.ContourVertex) []pivot.ContourVertex {
	out := make([]pivot.ContourVertex, len(in))
	for i, v := range in {
		out[i] = pivot.ContourVertex{Point2D: pivot.Point2D{X: v.X, Y: v.Y}, Bulge: v.Bulge}
	}
	return out
}

// kaVertices flattens KA arc segments onto the shared bulge-factor contour
// representation. The centre+sweep form is preferred when both forms are
// present: the declared sweep (degrees) collapses to the equivalent bulge,
// tan of a quarter of the included angle, which is exactly what the
// radius+bulge form already carries.
func kaVertices(in []blocks.KASegment) []pivot.ContourVertex {
	out := make([]pivot.ContourVertex, len(in))
	for i, v := range in {
		bulge := v.Bulge
		if v.HasArc && v.Sweep != 0 {
			bulge = math.Tan(v.Sweep * math.Pi / 180 / 4)
		}
		out[i] = pivot.ContourVertex{Point2D: pivot.Point2D{X: v.X, Y: v.Y}, Bulge: bulge}
	}
	return out
}

func markingMethodOf(s string) pivot.MarkingMethod {
	switch s {
	case "stamp":
		return pivot.MarkingStamp
	case "laser":
		return pivot.MarkingLaser
	case "paint":
		return pivot.MarkingPaint
	default:
		return pivot.MarkingEngrave
	}
}
