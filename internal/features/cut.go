package features

import (
	"math"

	"github.com/topsteelcad/dstv-engine/internal/geometry"
	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

// holeSegments tessellates drilled bores. Coarser than the CHS outline (a
// bore is a feature, not a primary surface) but fine enough that a bolt
// circle reads as round in downstream viewers.
const holeSegments = 16

// cutPrism sinks a prismatic cavity into the solid at a face band: the
// footprint (face-local coordinates) is swept from the face surface to
// depth along the inward normal. Side walls face into the cavity; blind
// cuts get a bottom cap, through cuts stay open so the bore connects both
// surfaces. The footprint must be counter-clockwise.
func cutPrism(s *pivot.Solid, b pivot.FaceBand, footprint []pivot.Point2D, depth float64, through bool) {
	n := len(footprint)
	if n < 3 || depth <= 0 {
		return
	}
	normal := bandNormal(b)

	top := make([]int, n)
	bot := make([]int, n)
	for i, p := range footprint {
		at := bandPoint(b, p)
		top[i] = pushVertex(s, at)
		bot[i] = pushVertex(s, pivot.Vertex{
			X: at.X - normal.X*depth,
			Y: at.Y - normal.Y*depth,
			Z: at.Z - normal.Z*depth,
		})
	}

	// Bore walls, wound to face into the cavity.
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		s.Triangles = append(s.Triangles,
			pivot.Triangle{A: top[j], B: top[i], C: bot[i], Face: b.Face},
			pivot.Triangle{A: top[j], B: bot[i], C: bot[j], Face: b.Face},
		)
	}

	if !through {
		for _, tri := range geometry.EarClip(footprint) {
			s.Triangles = append(s.Triangles,
				pivot.Triangle{A: bot[tri[0]], B: bot[tri[1]], C: bot[tri[2]], Face: b.Face},
			)
		}
	}
}

func pushVertex(s *pivot.Solid, v pivot.Vertex) int {
	s.Vertices = append(s.Vertices, v)
	return len(s.Vertices) - 1
}

// circleFootprint is a counter-clockwise circle around a face-local centre.
func circleFootprint(c pivot.Point2D, r float64, n int) []pivot.Point2D {
	pts := make([]pivot.Point2D, 0, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts = append(pts, pivot.Point2D{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)})
	}
	return pts
}

// stadiumFootprint is the slotted-hole outline: two semicircle caps of
// radius r joined by straight sides, the slot running length slotLen at
// angleDeg from the face's first axis, centred on c.
func stadiumFootprint(c pivot.Point2D, r, slotLen, angleDeg float64, n int) []pivot.Point2D {
	a := angleDeg * math.Pi / 180
	dx, dy := math.Cos(a), math.Sin(a)
	half := slotLen / 2
	c1 := pivot.Point2D{X: c.X - dx*half, Y: c.Y - dy*half}
	c2 := pivot.Point2D{X: c.X + dx*half, Y: c.Y + dy*half}

	half1, half2 := n/2, n-n/2
	var pts []pivot.Point2D
	for i := 0; i <= half1; i++ {
		t := a + math.Pi/2 + math.Pi*float64(i)/float64(half1)
		pts = append(pts, pivot.Point2D{X: c1.X + r*math.Cos(t), Y: c1.Y + r*math.Sin(t)})
	}
	for i := 0; i <= half2; i++ {
		t := a - math.Pi/2 + math.Pi*float64(i)/float64(half2)
		pts = append(pts, pivot.Point2D{X: c2.X + r*math.Cos(t), Y: c2.Y + r*math.Sin(t)})
	}
	return pts
}

// resolveBulges expands a contour polyline into a plain point list,
// tessellating each bulged segment into an arc. A vertex's bulge is
// tan(sweep/4) for the arc from it to the next vertex, the sign giving the
// arc's side.
func resolveBulges(vs []pivot.ContourVertex) []pivot.Point2D {
	const arcSegments = 8
	var pts []pivot.Point2D
	n := len(vs)
	for i, v := range vs {
		pts = append(pts, v.Point2D)
		if v.Bulge == 0 || i == n-1 {
			continue
		}
		next := vs[(i+1)%n].Point2D
		pts = append(pts, bulgeArc(v.Point2D, next, v.Bulge, arcSegments)...)
	}
	return pts
}

// bulgeArc returns the interior points of the arc from a to b with the
// given bulge factor (endpoints excluded).
func bulgeArc(a, b pivot.Point2D, bulge float64, segments int) []pivot.Point2D {
	sweep := 4 * math.Atan(bulge)
	chordX, chordY := b.X-a.X, b.Y-a.Y
	chord := math.Hypot(chordX, chordY)
	if chord == 0 || sweep == 0 {
		return nil
	}
	radius := chord / (2 * math.Sin(sweep/2))

	// Centre sits perpendicular to the chord midpoint.
	mx, my := (a.X+b.X)/2, (a.Y+b.Y)/2
	h := radius * math.Cos(sweep/2)
	ux, uy := -chordY/chord, chordX/chord
	cx, cy := mx+ux*h, my+uy*h

	start := math.Atan2(a.Y-cy, a.X-cx)
	var pts []pivot.Point2D
	for i := 1; i < segments; i++ {
		t := start + sweep*float64(i)/float64(segments)
		pts = append(pts, pivot.Point2D{X: cx + math.Abs(radius)*math.Cos(t), Y: cy + math.Abs(radius)*math.Sin(t)})
	}
	return pts
}

// clipSolidZ clamps every vertex outside [zmin, zmax] onto the nearer
// bound. Profile solids are prisms with side walls straight along Z, so
// clamping end-cap vertices is an exact trim for axis-aligned cuts.
func clipSolidZ(s *pivot.Solid, zmin, zmax float64) {
	for i := range s.Vertices {
		if s.Vertices[i].Z < zmin {
			s.Vertices[i].Z = zmin
		}
		if s.Vertices[i].Z > zmax {
			s.Vertices[i].Z = zmax
		}
	}
}
