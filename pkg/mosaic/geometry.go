package mosaic

// Point is a pointer position in host coordinates.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive so adjacent rectangles never both contain a point.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// divide cuts r along dir, giving the first part pct percent of the space.
func (r Rect) divide(dir Direction, pct float64) (first, second Rect) {
	first, second = r, r
	if dir == Horizontal {
		w := r.Width * pct / 100
		first.Width = w
		second.X = r.X + w
		second.Width = r.Width - w
		return first, second
	}
	h := r.Height * pct / 100
	first.Height = h
	second.Y = r.Y + h
	second.Height = r.Height - h
	return first, second
}

// TileRect is the area assigned to one tile.
type TileRect struct {
	Node NodeID
	Tile TileID
	Rect Rect
}

// SplitRect describes a split's area and the position of its divider: an x
// coordinate for horizontal splits, a y coordinate for vertical ones.
type SplitRect struct {
	Node      NodeID
	Direction Direction
	Rect      Rect
	Divider   float64
}

// TileRects lays the tree out inside area and returns one rectangle per tile
// in pre-order. An empty layout yields nil.
func (l *Layout) TileRects(area Rect) []TileRect {
	var out []TileRect
	l.layoutRects(area, func(n *Node, r Rect) {
		if n.Kind == KindTile {
			out = append(out, TileRect{Node: n.ID, Tile: n.TileID, Rect: r})
		}
	})
	return out
}

// SplitRects lays the tree out inside area and returns the geometry of every
// split in pre-order.
func (l *Layout) SplitRects(area Rect) []SplitRect {
	var out []SplitRect
	l.layoutRects(area, func(n *Node, r Rect) {
		if n.Kind != KindSplit {
			return
		}
		first, _ := r.divide(n.Direction, n.SplitPercentage)
		div := first.X + first.Width
		if n.Direction == Vertical {
			div = first.Y + first.Height
		}
		out = append(out, SplitRect{Node: n.ID, Direction: n.Direction, Rect: r, Divider: div})
	})
	return out
}

// TileAt returns the tile whose rectangle inside area contains p.
func (l *Layout) TileAt(area Rect, p Point) (TileRect, bool) {
	for _, tr := range l.TileRects(area) {
		if tr.Rect.Contains(p) {
			return tr, true
		}
	}
	return TileRect{}, false
}

func (l *Layout) layoutRects(area Rect, visit func(*Node, Rect)) {
	if l.root == "" {
		return
	}
	var rec func(id NodeID, r Rect)
	rec = func(id NodeID, r Rect) {
		n := l.mustNode(id)
		visit(n, r)
		if n.Kind == KindSplit {
			first, second := r.divide(n.Direction, n.SplitPercentage)
			rec(n.First, first)
			rec(n.Second, second)
		}
	}
	rec(l.root, area)
}

// PercentageAt converts a divider drag position into a split percentage for a
// split of direction dir occupying r, clamped to [lo, hi]. A degenerate
// rectangle yields the default percentage, clamped.
func PercentageAt(dir Direction, p Point, r Rect, lo, hi float64) float64 {
	var pos, size float64
	if dir == Horizontal {
		pos, size = p.X-r.X, r.Width
	} else {
		pos, size = p.Y-r.Y, r.Height
	}
	if size <= 0 {
		return clamp(DefaultSplitPercentage, lo, hi)
	}
	return clamp(pos/size*100, lo, hi)
}

// DropZoneRect returns the overlay band of r that zone covers.
func DropZoneRect(zone DropZone, r Rect) Rect {
	band := r
	switch zone {
	case Top:
		band.Height = r.Height * DropZoneMargin
	case Bottom:
		band.Height = r.Height * DropZoneMargin
		band.Y = r.Y + r.Height - band.Height
	case Left:
		band.Width = r.Width * DropZoneMargin
	case Right:
		band.Width = r.Width * DropZoneMargin
		band.X = r.X + r.Width - band.Width
	}
	return band
}
