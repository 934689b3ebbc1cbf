package geometry

import "github.com/topsteelcad/dstv-engine/pkg/pivot"

// OutlinePoint is a 2D cross-section vertex tagged with the face the wall
// edge starting at it belongs to, so Extrude can carry that tag onto the
// triangles it generates.
type OutlinePoint struct {
	pivot.Point2D
	Face pivot.Face
}

func points(out []OutlinePoint) []pivot.Point2D {
	p := make([]pivot.Point2D, len(out))
	for i, o := range out {
		p[i] = o.Point2D
	}
	return p
}

// Extrude builds a solid prism from a closed, counter-clockwise 2D outline,
// centred on the extrusion axis so its bounding box spans [-length/2,
// length/2] on Z. Caps are triangulated with EarClip; side
// walls are one quad (two triangles) per outline edge, tagged with that
// edge's Face.
func Extrude(outline []OutlinePoint, length float64) *pivot.Solid {
	n := len(outline)
	if n < 3 {
		return &pivot.Solid{}
	}
	half := length / 2
	s := &pivot.Solid{}

	back := make([]int, n)
	front := make([]int, n)
	for i, o := range outline {
		back[i] = addVertex(s, o.X, o.Y, -half)
		front[i] = addVertex(s, o.X, o.Y, half)
	}

	caps := EarClip(points(outline))
	for _, tri := range caps {
		s.Triangles = append(s.Triangles,
			pivot.Triangle{A: back[tri[2]], B: back[tri[1]], C: back[tri[0]], Face: pivot.FaceFront},
			pivot.Triangle{A: front[tri[0]], B: front[tri[1]], C: front[tri[2]], Face: pivot.FaceFront},
		)
	}

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		face := outline[i].Face
		s.Triangles = append(s.Triangles,
			pivot.Triangle{A: back[i], B: back[j], C: front[j], Face: face},
			pivot.Triangle{A: back[i], B: front[j], C: front[i], Face: face},
		)
	}
	return s
}

// ExtrudeAnnulus builds a hollow prism from matching-length outer and inner
// outlines:
// outer and inner side walls, plus annular end caps banding corresponding
// outer/inner vertices.
func ExtrudeAnnulus(outer, inner []OutlinePoint, length float64) *pivot.Solid {
	n := len(outer)
	if n < 3 || len(inner) != n {
		return &pivot.Solid{}
	}
	half := length / 2
	s := &pivot.Solid{}

	obBack := make([]int, n)
	obFront := make([]int, n)
	ibBack := make([]int, n)
	ibFront := make([]int, n)
	for i := 0; i < n; i++ {
		obBack[i] = addVertex(s, outer[i].X, outer[i].Y, -half)
		obFront[i] = addVertex(s, outer[i].X, outer[i].Y, half)
		ibBack[i] = addVertex(s, inner[i].X, inner[i].Y, -half)
		ibFront[i] = addVertex(s, inner[i].X, inner[i].Y, half)
	}

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		face := outer[i].Face
		// outer wall
		s.Triangles = append(s.Triangles,
			pivot.Triangle{A: obBack[i], B: obBack[j], C: obFront[j], Face: face},
			pivot.Triangle{A: obBack[i], B: obFront[j], C: obFront[i], Face: face},
		)
		// inner wall, reversed winding (faces inward)
		s.Triangles = append(s.Triangles,
			pivot.Triangle{A: ibBack[j], B: ibBack[i], C: ibFront[i], Face: face},
			pivot.Triangle{A: ibBack[j], B: ibFront[i], C: ibFront[j], Face: face},
		)
		// annular caps
		s.Triangles = append(s.Triangles,
			pivot.Triangle{A: obBack[j], B: obBack[i], C: ibBack[i], Face: pivot.FaceFront},
			pivot.Triangle{A: obBack[j], B: ibBack[i], C: ibBack[j], Face: pivot.FaceFront},
			pivot.Triangle{A: obFront[i], B: obFront[j], C: ibFront[j], Face: pivot.FaceFront},
			pivot.Triangle{A: obFront[i], B: ibFront[j], C: ibFront[i], Face: pivot.FaceFront},
		)
	}
	return s
}

func addVertex(s *pivot.Solid, x, y, z float64) int {
	s.Vertices = append(s.Vertices, pivot.Vertex{X: x, Y: y, Z: z})
	return len(s.Vertices) - 1
}

// Weld merges exactly-coincident vertices and drops triangles left
// degenerate by the merge. Extrusion and feature cutting freely duplicate
// vertices at shared corners; welding is the optimize_geometry pass, off
// by default because downstream viewers accept the duplicated form.
func Weld(s *pivot.Solid) {
	seen := make(map[pivot.Vertex]int, len(s.Vertices))
	remap := make([]int, len(s.Vertices))
	var kept []pivot.Vertex
	for i, v := range s.Vertices {
		if j, ok := seen[v]; ok {
			remap[i] = j
			continue
		}
		seen[v] = len(kept)
		remap[i] = len(kept)
		kept = append(kept, v)
	}

	var tris []pivot.Triangle
	for _, t := range s.Triangles {
		t.A, t.B, t.C = remap[t.A], remap[t.B], remap[t.C]
		if t.A == t.B || t.B == t.C || t.A == t.C {
			continue
		}
		tris = append(tris, t)
	}
	s.Vertices = kept
	s.Triangles = tris
}
