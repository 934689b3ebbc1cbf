package pivot

import (
	"fmt"

	"github.com/topsteelcad/dstv-engine/internal/diag"
)

// ValidateDimensions checks a part's dimensions against its category's
// required-fields contract: every required key present and
// strictly positive, plus the cross-category invariants (hollow-section wall
// thickness, hot-rolled fillet sum, length).
func ValidateDimensions(p *Part) error {
	required := RequiredDimensions(p.Category)
	if required == nil && p.Category != CategoryUnknown {
		return nil
	}
	for _, key := range required {
		v, ok := p.Dimensions[key]
		if !ok || v <= 0 {
			return &diag.DimensionError{
				Category: p.Category.String(),
				Reason:   fmt.Sprintf("missing or non-positive %q", key),
			}
		}
	}

	switch p.Category {
	case CategoryHollowRect, CategoryHollowSquare:
		h, w, t := p.Dimensions[DimHeight], p.Dimensions[DimWidth], p.Dimensions[DimWallThickness]
		minSide := h
		if w < minSide {
			minSide = w
		}
		if 2*t >= minSide {
			return &diag.DimensionError{Category: p.Category.String(), Reason: "2*wall_thickness must be < min(height, width)"}
		}
	case CategoryHollowCircular:
		d, t := p.Dimensions[DimOuterDiameter], p.Dimensions[DimWallThickness]
		if 2*t >= d {
			return &diag.DimensionError{Category: p.Category.String(), Reason: "2*wall_thickness must be < outer_diameter"}
		}
	case CategoryIBeam, CategoryChannelU, CategoryTee:
		root, toe := p.Dimensions[DimRootRadius], p.Dimensions[DimToeRadius]
		flange := p.Dimensions[DimFlangeThickness]
		// Radii clamped to sum to exactly the flange thickness must pass.
		if root+toe > flange+1e-9 {
			return &diag.DimensionError{Category: p.Category.String(), Reason: "root_radius + toe_radius must be <= flange_thickness"}
		}
	}

	if p.Length <= 0 {
		return &diag.DimensionError{Category: p.Category.String(), Reason: "length must be > 0"}
	}
	return nil
}
