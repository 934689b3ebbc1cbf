package profiles

import (
	"math"

	"github.com/topsteelcad/dstv-engine/internal/geometry"
	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// ChannelU builds the U-section outline: open on one side (+X), with root
// fillets at the two web/flange junctions.
func ChannelU(d pivot.Dimensions, length float64) (*pivot.Solid, error) {
	outline, halfH, w, err := channelOutline(d)
	if err != nil {
		return nil, err
	}
	s := geometry.Extrude(outline, length)
	s.FaceBands = []pivot.FaceBand{
		band(pivot.FaceWeb, pivot.Vertex{X: 0, Y: 0, Z: 0}, pivot.Vertex{Z: 1}, pivot.Vertex{Y: 1}, length, 2*halfH),
		band(pivot.FaceTopFlange, pivot.Vertex{X: w / 2, Y: halfH, Z: 0}, pivot.Vertex{Z: 1}, pivot.Vertex{X: 1}, length, w),
		band(pivot.FaceBottomFlange, pivot.Vertex{X: w / 2, Y: -halfH, Z: 0}, pivot.Vertex{Z: 1}, pivot.Vertex{X: -1}, length, w),
	}
	return s, nil
}

// channelOutline builds the U-shaped outline: x in [0,tw] is the web
// backbone (full height), x in [tw,w] is flange material only near y =
// ±halfH, leaving the mouth between the flanges open.
func channelOutline(d pivot.Dimensions) ([]geometry.OutlinePoint, float64, float64, error) {
	h, err := requireDim(d, pivot.DimHeight)
	if err != nil {
		return nil, 0, 0, err
	}
	w, err := requireDim(d, pivot.DimWidth)
	if err != nil {
		return nil, 0, 0, err
	}
	tw, err := requireDim(d, pivot.DimWebThickness)
	if err != nil {
		return nil, 0, 0, err
	}
	tf, err := requireDim(d, pivot.DimFlangeThickness)
	if err != nil {
		return nil, 0, 0, err
	}
	r1 := d[pivot.DimRootRadius]
	halfH := h / 2

	pi := math.Pi
	outline := concatPts(
		[]pivot.Point2D{{X: 0, Y: -halfH}, {X: w, Y: -halfH}, {X: w, Y: -halfH + tf}, {X: tw + r1, Y: -halfH + tf}},
		root(tw+r1, -halfH+tf+r1, r1, -pi/2, -pi),
		[]pivot.Point2D{{X: tw, Y: halfH - tf - r1}},
		root(tw+r1, halfH-tf-r1, r1, pi, pi/2),
		[]pivot.Point2D{{X: w, Y: halfH - tf}, {X: w, Y: halfH}, {X: 0, Y: halfH}},
	)
	tagged := make([]geometry.OutlinePoint, len(outline))
	for i, p := range outline {
		face := pivot.FaceWeb
		if p.X > tw+1e-6 {
			if p.Y > 0 {
				face = pivot.FaceTopFlange
			} else {
				face = pivot.FaceBottomFlange
			}
		}
		tagged[i] = geometry.OutlinePoint{Point2D: p, Face: face}
	}
	return tagged, halfH, w, nil
}

// ColdFormedC, ColdFormedZ, ColdFormedSigma and ColdFormedOmega are the
// lipped cold-formed variants. At this fidelity they
// share the hot-rolled channel's solid-web-and-flange outline rather than
// the thin-sheet double-wall profile a real cold-formed section has, and
// the lip polyline itself is not yet added; both are recorded as
// known simplifications rather than silently dropped.
func ColdFormedC(d pivot.Dimensions, length float64) (*pivot.Solid, error) {
	return ChannelU(d, length)
}

func ColdFormedZ(d pivot.Dimensions, length float64) (*pivot.Solid, error) {
	return ChannelU(d, length)
}

func ColdFormedSigma(d pivot.Dimensions, length float64) (*pivot.Solid, error) {
	return ChannelU(d, length)
}

func ColdFormedOmega(d pivot.Dimensions, length float64) (*pivot.Solid, error) {
	return ChannelU(d, length)
}
