package pivot

import (
	"github.com/dhconnelly/rtreego"
)

// FeatureIndex provides fast spatial queries over a part's features,
// keyed by their face-local 2D position.
type FeatureIndex struct {
	entries []FeatureEntry
	rtree   *rtreego.Rtree
}

// FeatureEntry is one indexed feature, holding the feature itself; Bounds
// gives it a tiny square at its position, since most features are points
// rather than areas.
type FeatureEntry struct {
	Feature *Feature
}

// Bounds implements rtreego.Spatial. Point features get an epsilon-sized
// rectangle since rtreego rejects zero-length sides.
func (e FeatureEntry) Bounds() rtreego.Rect {
	const eps = 1e-6
	point := rtreego.Point{e.Feature.Position.X - eps, e.Feature.Position.Y - eps}
	lengths := []float64{2 * eps, 2 * eps}
	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}

// BuildFeatureIndex indexes every feature on a part for spatial queries,
// e.g. "which features lie within this contour cut's bounding box".
func BuildFeatureIndex(p *Part) *FeatureIndex {
	rtree := rtreego.NewTree(2, 25, 50)
	entries := make([]FeatureEntry, 0, len(p.Features))
	for _, f := range p.Features {
		e := FeatureEntry{Feature: f}
		entries = append(entries, e)
		rtree.Insert(e)
	}
	return &FeatureIndex{entries: entries, rtree: rtree}
}

// Rect2D is an axis-aligned face-local query rectangle.
type Rect2D struct {
	MinX, MinY, MaxX, MaxY float64
}

// Query returns every feature whose position falls within r, on the given
// face. Pass FaceUnknown to match any face.
func (idx *FeatureIndex) Query(r Rect2D, face Face) []*Feature {
	point := rtreego.Point{r.MinX, r.MinY}
	lengths := []float64{r.MaxX - r.MinX, r.MaxY - r.MinY}
	queryRect, err := rtreego.NewRect(point, lengths)
	if err != nil {
		return nil
	}
	var result []*Feature
	for _, spatial := range idx.rtree.SearchIntersect(queryRect) {
		entry := spatial.(FeatureEntry)
		if face != FaceUnknown && entry.Feature.Face != face {
			continue
		}
		result = append(result, entry.Feature)
	}
	return result
}

// PartIndex provides fast spatial queries over the parts of a scene,
// keyed by their solid's 3D bounding box projected onto the XY plane.
type PartIndex struct {
	rtree *rtreego.Rtree
}

// partEntry is one indexed part.
type partEntry struct {
	part *Part
	rect rtreego.Rect
}

func (e partEntry) Bounds() rtreego.Rect { return e.rect }

// BuildPartIndex indexes every part in a scene that has a materialised
// solid with a non-empty bounding box.
func BuildPartIndex(s *Scene) *PartIndex {
	rtree := rtreego.NewTree(2, 25, 50)
	for _, p := range s.Parts {
		if p.Solid == nil {
			continue
		}
		min, max, ok := p.Solid.Bounds()
		if !ok {
			continue
		}
		dx, dy := max.X-min.X, max.Y-min.Y
		if dx <= 0 {
			dx = 1e-6
		}
		if dy <= 0 {
			dy = 1e-6
		}
		rect, err := rtreego.NewRect(rtreego.Point{min.X, min.Y}, []float64{dx, dy})
		if err != nil {
			continue
		}
		rtree.Insert(partEntry{part: p, rect: rect})
	}
	return &PartIndex{rtree: rtree}
}

// Query returns every part whose XY bounding box intersects r.
func (idx *PartIndex) Query(r Rect2D) []*Part {
	point := rtreego.Point{r.MinX, r.MinY}
	lengths := []float64{r.MaxX - r.MinX, r.MaxY - r.MinY}
	queryRect, err := rtreego.NewRect(point, lengths)
	if err != nil {
		return nil
	}
	var result []*Part
	for _, spatial := range idx.rtree.SearchIntersect(queryRect) {
		result = append(result, spatial.(partEntry).part)
	}
	return result
}
