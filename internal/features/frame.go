package features

import (
	"fmt"

	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// bandPoint maps a face-local DSTV coordinate (x along the part from its
// start, y across the face) into the part's 3D frame through the band: the
// band origin sits at the centre of the face, so both axes are re-centred
// before projection.
func bandPoint(b pivot.FaceBand, p pivot.Point2D) pivot.Vertex {
	du := p.X - b.Width/2
	dv := p.Y - b.Height/2
	return pivot.Vertex{
		X: b.Origin.X + b.U.X*du + b.V.X*dv,
		Y: b.Origin.Y + b.U.Y*du + b.V.Y*dv,
		Z: b.Origin.Z + b.U.Z*du + b.V.Z*dv,
	}
}

// bandNormal is the band's outward unit normal, U x V.
func bandNormal(b pivot.FaceBand) pivot.Vertex {
	return pivot.Vertex{
		X: b.U.Y*b.V.Z - b.U.Z*b.V.Y,
		Y: b.U.Z*b.V.X - b.U.X*b.V.Z,
		Z: b.U.X*b.V.Y - b.U.Y*b.V.X,
	}
}

// requireBand resolves the feature's face to a band on the solid.
func requireBand(solid *pivot.Solid, f *pivot.Feature) (pivot.FaceBand, error) {
	b, ok := solid.Band(f.Face)
	if !ok {
		return pivot.FaceBand{}, fmt.Errorf("solid has no %s face", f.Face)
	}
	return b, nil
}

// inBand reports whether a face-local point lies on the band's rectangle,
// with a small tolerance for boundary features.
func inBand(b pivot.FaceBand, p pivot.Point2D) bool {
	const tol = 1e-6
	return p.X >= -tol && p.X <= b.Width+tol && p.Y >= -tol && p.Y <= b.Height+tol
}

// faceThickness is the material depth behind a face, used to size through
// cuts: the web's own thickness for WEB, the flange's for the flanges, and
// the full length for FRONT (an end cut runs the part's whole body).
func faceThickness(part *pivot.Part, face pivot.Face) float64 {
	d := part.Dimensions
	pick := func(keys ...string) float64 {
		for _, k := range keys {
			if v := d[k]; v > 0 {
				return v
			}
		}
		return 0
	}
	switch face {
	case pivot.FaceTopFlange, pivot.FaceBottomFlange:
		return pick(pivot.DimFlangeThickness, pivot.DimWallThickness, pivot.DimThickness)
	case pivot.FaceFront:
		return part.Length
	default:
		return pick(pivot.DimWebThickness, pivot.DimWallThickness, pivot.DimThickness, pivot.DimDiameter)
	}
}
