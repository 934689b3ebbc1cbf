package profiles

import (
	"github.com/topsteelcad/dstv-engine/internal/diag"
	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// Generate dispatches a part's {category, dimensions, length} to the
// matching cross-section generator and returns a solid centred on the
// origin with its length along Z. Dimensions are validated
// against the category's required-fields contract first; a part whose
// category is unknown cannot be materialised.
func Generate(p *pivot.Part) (*pivot.Solid, error) {
	if p.Length <= 0 {
		return nil, &diag.DimensionError{Category: p.Category.String(), Reason: "length must be positive"}
	}
	if err := pivot.ValidateDimensions(p); err != nil {
		return nil, err
	}

	switch p.Category {
	case pivot.CategoryIBeam:
		return IBeam(p.Dimensions, p.Length)
	case pivot.CategoryChannelU:
		return ChannelU(p.Dimensions, p.Length)
	case pivot.CategoryAngle:
		return Angle(p.Dimensions, p.Length)
	case pivot.CategoryTee:
		return Tee(p.Dimensions, p.Length)
	case pivot.CategoryHollowRect:
		return RectTube(p.Dimensions, p.Length)
	case pivot.CategoryHollowSquare:
		return SquareTube(p.Dimensions, p.Length)
	case pivot.CategoryHollowCircular:
		return CircularTube(p.Dimensions, p.Length)
	case pivot.CategoryColdFormedC:
		return ColdFormedC(p.Dimensions, p.Length)
	case pivot.CategoryColdFormedZ:
		return ColdFormedZ(p.Dimensions, p.Length)
	case pivot.CategoryColdFormedSigma:
		return ColdFormedSigma(p.Dimensions, p.Length)
	case pivot.CategoryColdFormedOmega:
		return ColdFormedOmega(p.Dimensions, p.Length)
	case pivot.CategoryFlat:
		return Flat(p.Dimensions, p.Length)
	case pivot.CategoryRoundBar:
		return RoundBar(p.Dimensions, p.Length)
	case pivot.CategorySquareBar:
		return SquareBar(p.Dimensions, p.Length)
	case pivot.CategoryPlate:
		return Plate(p.Dimensions, p.Length)
	default:
		return nil, &diag.DimensionError{Category: p.Category.String(), Reason: "no generator for category"}
	}
}
