package geometry

import (
	"testing"

	"github.com/topsteelcad/dstv-engine/pkg/pivot"
)

func square(x0, y0, x1, y1 float64) []pivot.Point2D {
	return []pivot.Point2D{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func TestEarClipSquare(t *testing.T) {
	tris := EarClip(square(0, 0, 10, 10))
	if len(tris) != 2 {
		t.Fatalf("triangles = %d, want 2", len(tris))
	}
}

func TestEarClipLShape(t *testing.T) {
	poly := []pivot.Point2D{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5},
		{X: 5, Y: 5}, {X: 5, Y: 10}, {X: 0, Y: 10},
	}
	tris := EarClip(poly)
	if len(tris) != len(poly)-2 {
		t.Fatalf("triangles = %d, want %d", len(tris), len(poly)-2)
	}
}

func TestBridgeHoleProducesSimplePolygon(t *testing.T) {
	outer := square(0, 0, 20, 20)
	hole := []pivot.Point2D{{X: 8, Y: 8}, {X: 8, Y: 12}, {X: 12, Y: 12}, {X: 12, Y: 8}}
	bridged := BridgeHole(outer, hole)
	if len(bridged) != len(outer)+len(hole)+2 {
		t.Fatalf("bridged len = %d, want %d", len(bridged), len(outer)+len(hole)+2)
	}
	tris := EarClip(bridged)
	if len(tris) == 0 {
		t.Fatal("expected triangles from bridged polygon")
	}
}
