package mosaic

import (
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func approxRect(a, b Rect) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y) && approx(a.Width, b.Width) && approx(a.Height, b.Height)
}

// geometryLayout is a (25%) | (b / c).
func geometryLayout() *Layout {
	l := New("a")
	l.SplitTile("a", Horizontal, "b", 25)
	l.SplitTile("b", Vertical, "c", 50)
	return l
}

func TestTileRects(t *testing.T) {
	area := Rect{Width: 100, Height: 50}
	got := geometryLayout().TileRects(area)
	want := []struct {
		tile TileID
		rect Rect
	}{
		{"a", Rect{0, 0, 25, 50}},
		{"b", Rect{25, 0, 75, 25}},
		{"c", Rect{25, 25, 75, 25}},
	}
	if len(got) != len(want) {
		t.Fatalf("TileRects() returned %d rects, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Tile != w.tile || !approxRect(got[i].Rect, w.rect) {
			t.Errorf("TileRects()[%d] = %s %+v, want %s %+v", i, got[i].Tile, got[i].Rect, w.tile, w.rect)
		}
	}

	if rects := Empty().TileRects(area); rects != nil {
		t.Errorf("TileRects() on empty layout = %v", rects)
	}
}

func TestSplitRects(t *testing.T) {
	got := geometryLayout().SplitRects(Rect{Width: 100, Height: 50})
	if len(got) != 2 {
		t.Fatalf("SplitRects() returned %d, want 2", len(got))
	}
	if got[0].Direction != Horizontal || !approx(got[0].Divider, 25) {
		t.Errorf("outer split = %+v, want horizontal divider at x=25", got[0])
	}
	if got[1].Direction != Vertical || !approx(got[1].Divider, 25) || !approxRect(got[1].Rect, Rect{25, 0, 75, 50}) {
		t.Errorf("inner split = %+v, want vertical divider at y=25", got[1])
	}
}

func TestTileAt(t *testing.T) {
	l := geometryLayout()
	area := Rect{Width: 100, Height: 50}
	tests := []struct {
		p    Point
		want TileID
		ok   bool
	}{
		{Point{0, 0}, "a", true},
		{Point{24.9, 49}, "a", true},
		{Point{25, 0}, "b", true},
		{Point{30, 30}, "c", true},
		{Point{100, 10}, "", false},
		{Point{-1, 10}, "", false},
	}
	for _, tt := range tests {
		got, ok := l.TileAt(area, tt.p)
		if ok != tt.ok || got.Tile != tt.want {
			t.Errorf("TileAt(%v) = %q, %v, want %q, %v", tt.p, got.Tile, ok, tt.want, tt.ok)
		}
	}
}

func TestPercentageAt(t *testing.T) {
	r := Rect{X: 100, Y: 0, Width: 200, Height: 40}
	tests := []struct {
		name string
		dir  Direction
		p    Point
		r    Rect
		want float64
	}{
		{"horizontal", Horizontal, Point{150, 0}, r, 25},
		{"vertical", Vertical, Point{0, 30}, r, 75},
		{"clamped low", Horizontal, Point{101, 0}, r, 20},
		{"clamped high", Horizontal, Point{1000, 0}, r, 80},
		{"degenerate", Vertical, Point{0, 30}, Rect{Width: 10}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentageAt(tt.dir, tt.p, tt.r, SplitMinPercentage, SplitMaxPercentage)
			if !approx(got, tt.want) {
				t.Errorf("PercentageAt() = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestDropZoneRect(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 200}
	tests := []struct {
		zone DropZone
		want Rect
	}{
		{Top, Rect{10, 20, 100, 60}},
		{Bottom, Rect{10, 160, 100, 60}},
		{Left, Rect{10, 20, 30, 200}},
		{Right, Rect{80, 20, 30, 200}},
	}
	for _, tt := range tests {
		if got := DropZoneRect(tt.zone, r); !approxRect(got, tt.want) {
			t.Errorf("DropZoneRect(%v) = %+v, want %+v", tt.zone, got, tt.want)
		}
		// Points inside a band must classify into that band's zone.
		band := DropZoneRect(tt.zone, r)
		p := Point{X: band.X + band.Width/2, Y: band.Y + band.Height/2}
		if tt.zone == Left || tt.zone == Right {
			p.Y = r.Y + r.Height/2
		}
		if z, ok := CalculateDropZone(p, r); !ok || z != tt.zone {
			t.Errorf("CalculateDropZone(center of %v band) = %v, %v", tt.zone, z, ok)
		}
	}
}
