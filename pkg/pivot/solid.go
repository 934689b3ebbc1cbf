package pivot

// Vertex is one point of a materialised solid's triangle mesh.
type Vertex struct {
	X, Y, Z float64
}

// Triangle indexes three vertices of a Solid's Vertices slice, plus the tag
// of the face it belongs to.
type Triangle struct {
	A, B, C int
	Face    Face
}

// FaceBand is a planar rectangular region of a Solid's surface that feature
// processors can cut into:
// Origin is the band's 2D-feature-space (0,0), U and V are its unit axes in
// the part's 3D frame, and Width/Height bound the rectangle they span. The
// profile generator that materialises a Solid also populates its bands for
// every face a DSTV feature can target; END_CUT and CHAMFER act on the
// whole mesh directly instead, since they are edge/end operations rather
// than single-face cuts.
type FaceBand struct {
	Face          Face
	Origin        Vertex
	U, V          Vertex
	Width, Height float64
}

// Solid is the neutral renderer-independent mesh a Part's geometry
// materialises to: a flat vertex buffer plus an index buffer of triangles,
// each tagged with the face it was generated from.
type Solid struct {
	Vertices  []Vertex
	Triangles []Triangle
	FaceBands []FaceBand
}

// Band returns the first FaceBand tagged with face, or ok=false if the
// solid has none (e.g. a circular tube has no TOP_FLANGE band).
func (s *Solid) Band(face Face) (FaceBand, bool) {
	if s == nil {
		return FaceBand{}, false
	}
	for _, b := range s.FaceBands {
		if b.Face == face {
			return b, true
		}
	}
	return FaceBand{}, false
}

// VertexCount reports len(Vertices), used by the feature pipeline's ≥4
// post-condition check.
func (s *Solid) VertexCount() int {
	if s == nil {
		return 0
	}
	return len(s.Vertices)
}

// Bounds returns the axis-aligned bounding box of the solid's vertices.
// ok is false for an empty solid.
func (s *Solid) Bounds() (min, max Vertex, ok bool) {
	if s == nil || len(s.Vertices) == 0 {
		return Vertex{}, Vertex{}, false
	}
	min, max = s.Vertices[0], s.Vertices[0]
	for _, v := range s.Vertices[1:] {
		if v.X < min.X {
			min.X = v.X
		}
		if v.Y < min.Y {
			min.Y = v.Y
		}
		if v.Z < min.Z {
			min.Z = v.Z
		}
		if v.X > max.X {
			max.X = v.X
		}
		if v.Y > max.Y {
			max.Y = v.Y
		}
		if v.Z > max.Z {
			max.Z = v.Z
		}
	}
	return min, max, true
}
