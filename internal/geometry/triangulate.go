package geometry

import "github.com/topsteelcad/dstv-engine/pkg/pivot"

// EarClip triangulates a simple (non-self-intersecting), counter-clockwise
// 2D polygon and returns triangles as index triples into poly. It is the
// shared triangulator for profile cross-section caps (internal/geometry/
// profiles) and for feature footprint cuts (internal/features).
func EarClip(poly []pivot.Point2D) [][3]int {
	n := len(poly)
	if n < 3 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	var tris [][3]int
	for len(idx) > 3 {
		earFound := false
		for i := 0; i < len(idx); i++ {
			prev := idx[(i-1+len(idx))%len(idx)]
			cur := idx[i]
			next := idx[(i+1)%len(idx)]
			if !isConvex(poly[prev], poly[cur], poly[next]) {
				continue
			}
			if triangleContainsAny(poly, prev, cur, next, idx) {
				continue
			}
			tris = append(tris, [3]int{prev, cur, next})
			idx = append(idx[:i], idx[i+1:]...)
			earFound = true
			break
		}
		if !earFound {
			// degenerate/self-intersecting input: fan-triangulate the rest
			// rather than looping forever.
			for i := 1; i+1 < len(idx); i++ {
				tris = append(tris, [3]int{idx[0], idx[i], idx[i+1]})
			}
			return tris
		}
	}
	if len(idx) == 3 {
		tris = append(tris, [3]int{idx[0], idx[1], idx[2]})
	}
	return tris
}

func isConvex(a, b, c pivot.Point2D) bool {
	return cross(a, b, c) > 0
}

func cross(a, b, c pivot.Point2D) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func triangleContainsAny(poly []pivot.Point2D, a, b, c int, idx []int) bool {
	for _, p := range idx {
		if p == a || p == b || p == c {
			continue
		}
		// BridgeHole duplicates the two bridge endpoints; a copy of a
		// corner does not block the ear.
		if poly[p] == poly[a] || poly[p] == poly[b] || poly[p] == poly[c] {
			continue
		}
		if pointInTriangle(poly[p], poly[a], poly[b], poly[c]) {
			return true
		}
	}
	return false
}

func pointInTriangle(p, a, b, c pivot.Point2D) bool {
	d1 := cross(a, b, p)
	d2 := cross(b, c, p)
	d3 := cross(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// BridgeHole splices hole into outer via a single duplicated bridge edge,
// turning a polygon-with-one-hole into an equivalent simple polygon that
// EarClip can triangulate directly. outer is assumed counter-clockwise and
// hole clockwise (the standard orientation convention for an inner
// boundary).
func BridgeHole(outer, hole []pivot.Point2D) []pivot.Point2D {
	if len(hole) == 0 {
		return outer
	}
	oi, hi := nearestPair(outer, hole)

	out := make([]pivot.Point2D, 0, len(outer)+len(hole)+2)
	out = append(out, outer[:oi+1]...)
	for i := 0; i <= len(hole); i++ {
		out = append(out, hole[(hi+i)%len(hole)])
	}
	out = append(out, outer[oi:]...)
	return out
}

func nearestPair(outer, hole []pivot.Point2D) (oi, hi int) {
	best := -1.0
	for i, o := range outer {
		for j, h := range hole {
			d := (o.X-h.X)*(o.X-h.X) + (o.Y-h.Y)*(o.Y-h.Y)
			if best < 0 || d < best {
				best, oi, hi = d, i, j
			}
		}
	}
	return oi, hi
}
