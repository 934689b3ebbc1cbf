package blocks

import (
	"fmt"

	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// STPayload is the parsed Start block: order/drawing/phase/piece numbers,
// steel grade, quantity, profile designation and category, length, main
// cross-section dimensions, weight/area, and the closed enum category
// resolved from the single-letter DSTV code.
type STPayload struct {
	OrderNumber      string
	DrawingNumber    string
	PhaseNumber      string
	PieceNumber      string
	SteelGrade       string
	Quantity         int
	Designation      string
	CategoryCode     string
	Category         pivot.Category
	Length           float64
	Height           float64
	Width            float64
	WebThickness     float64
	FlangeThickness  float64
	WeightPerMetre   float64
	SurfaceArea      float64
}

type stParser struct{ cfg Config }

func newSTParser(cfg Config) Parser { return &stParser{cfg: cfg} }

func (p *stParser) BlockType() string { return "ST" }
func (p *stParser) Name() string { return "Start" }
func (p *stParser) Description() string {
	return "mandatory header block: order info, steel grade, profile, and principal dimensions"
}

// Parse reads the ST fields positionally in their DSTV order:
// order number, drawing number, phase number, piece number, steel
// grade, quantity, profile designation, profile category code, length,
// height, width, web thickness, flange thickness, weight/m, surface area.
// Fields are read by their position in the line rather than partitioned by
// token kind first, because several of the leading text fields (order,
// drawing, phase, piece number) are frequently pure digit strings and would
// otherwise be misclassified as numeric tokens and thrown out of order.
func (p *stParser) Parse(raw RawBlock) (any, error) {
	fields := allFields(firstLine(raw))

	get := func(i int) string {
		if i < len(fields) {
			return fields[i].Value
		}
		return ""
	}
	getNum := func(i int) float64 {
		if i < len(fields) {
			v, _ := floatOf(fields[i])
			return v
		}
		return 0
	}

	payload := &STPayload{
		OrderNumber:   get(0),
		DrawingNumber: get(1),
		PhaseNumber:   get(2),
		PieceNumber:   get(3),
		SteelGrade:    get(4),
		Quantity:      int(getNum(5)),
		Designation:   get(6),
		CategoryCode:  get(7),
	}
	payload.Category = pivot.CategoryFromDSTVCode(payload.CategoryCode)
	payload.Length = getNum(8)
	payload.Height = getNum(9)
	payload.Width = getNum(10)
	payload.WebThickness = getNum(11)
	payload.FlangeThickness = getNum(12)
	payload.WeightPerMetre = getNum(13)
	payload.SurfaceArea = getNum(14)

	if payload.Quantity < 1 {
		payload.Quantity = 1
	}
	return payload, nil
}

func (p *stParser) Validate(raw RawBlock) ValidationResult {
	fields := allFields(firstLine(raw))
	var errs, warns []string

	if len(fields) < 9 {
		errs = append(errs, fmt.Sprintf("ST block requires at least 9 fields (order number .. length), got %d", len(fields)))
	} else {
		if v, err := floatOf(fields[8]); err == nil && v <= 0 {
			errs = append(errs, "length must be > 0")
		}
		code := fields[7].Value
		if pivot.CategoryFromDSTVCode(code) == pivot.CategoryUnknown {
			warns = append(warns, fmt.Sprintf("unrecognised profile category code %q", code))
		}
	}
	if len(errs) > 0 {
		return ValidationResult{IsValid: false, Errors: errs, Warnings: warns}
	}
	return ValidationResult{IsValid: true, Warnings: warns}
}

// DimensionsOf converts an STPayload's scalar fields into a pivot.Dimensions
// bag keyed by the well-known dimension names, for shared-data publication.
func (s *STPayload) DimensionsOf() pivot.Dimensions {
	d := pivot.Dimensions{}
	switch s.Category {
	case pivot.CategoryHollowCircular:
		d[pivot.DimOuterDiameter] = s.Height
		d[pivot.DimWallThickness] = s.WebThickness
	case pivot.CategoryRoundBar:
		d[pivot.DimDiameter] = s.Height
	default:
		d[pivot.DimHeight] = s.Height
		d[pivot.DimWidth] = s.Width
		d[pivot.DimWebThickness] = s.WebThickness
		d[pivot.DimFlangeThickness] = s.FlangeThickness
		d[pivot.DimThickness] = s.WebThickness
		d[pivot.DimWallThickness] = s.WebThickness
		d[pivot.DimLeg1] = s.Height
		d[pivot.DimLeg2] = s.Width
		d[pivot.DimLipLength] = s.FlangeThickness
		// default fillet radii: hot-rolled tables are not embedded here;
		// the catalogue loader (internal/geometry) overrides these from
		// internal/geometry/data when the designation matches a known entry.
		d[pivot.DimRootRadius] = defaultFilletRadius(s.WebThickness)
		d[pivot.DimToeRadius] = defaultFilletRadius(s.FlangeThickness) / 2
		d[pivot.DimOuterRadius] = defaultFilletRadius(s.WebThickness)
		clampFilletRadii(d)
	}
	return d
}

// clampFilletRadii scales root and toe radii down so their sum stays
// within the flange thickness, keeping the dimensions bag valid for
// hot-rolled categories regardless of where the radii came from.
func clampFilletRadii(d pivot.Dimensions) {
	tf := d[pivot.DimFlangeThickness]
	sum := d[pivot.DimRootRadius] + d[pivot.DimToeRadius]
	if tf <= 0 || sum <= tf {
		return
	}
	scale := tf / sum
	d[pivot.DimRootRadius] *= scale
	d[pivot.DimToeRadius] *= scale
}

func defaultFilletRadius(thickness float64) float64 {
	if thickness <= 0 {
		return 0
	}
	return thickness * 1.5
}
