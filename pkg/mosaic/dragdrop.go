package mosaic

import (
	"fmt"
	"strings"
)

// DropZoneMargin is the fraction of a tile's size, measured from each edge,
// that counts as a drop zone. The remaining centre accepts no drop.
const DropZoneMargin = 0.3

// DropZone is one of the four edge regions of a target tile. It decides how a
// relocated tile is spliced next to the target. The zero value is not a zone.
type DropZone int

const (
	Top DropZone = iota + 1
	Bottom
	Left
	Right
)

var dropZoneNames = map[DropZone]string{
	Top:    "Top",
	Bottom: "Bottom",
	Left:   "Left",
	Right:  "Right",
}

func (z DropZone) valid() bool { return z >= Top && z <= Right }

// String returns the zone name.
func (z DropZone) String() string {
	if name, ok := dropZoneNames[z]; ok {
		return name
	}
	return fmt.Sprintf("DropZone(%d)", int(z))
}

// SplitDirection returns Vertical for Top/Bottom and Horizontal for Left/Right.
func (z DropZone) SplitDirection() Direction {
	if z == Top || z == Bottom {
		return Vertical
	}
	return Horizontal
}

// DraggedIsFirst reports whether the dragged tile becomes the first child of
// the new split (Top, Left) or the second (Bottom, Right).
func (z DropZone) DraggedIsFirst() bool { return z == Top || z == Left }

// MarshalText encodes the zone by name.
func (z DropZone) MarshalText() ([]byte, error) {
	if !z.valid() {
		return nil, fmt.Errorf("invalid drop zone %d", int(z))
	}
	return []byte(z.String()), nil
}

// UnmarshalText decodes a zone name, see [ParseDropZone].
func (z *DropZone) UnmarshalText(text []byte) error {
	parsed, err := ParseDropZone(string(text))
	if err != nil {
		return err
	}
	*z = parsed
	return nil
}

// ParseDropZone accepts zone names in any case.
func ParseDropZone(s string) (DropZone, error) {
	want := strings.TrimSpace(s)
	for z, name := range dropZoneNames {
		if strings.EqualFold(name, want) {
			return z, nil
		}
	}
	return 0, fmt.Errorf("unknown drop zone %q", s)
}

// CalculateDropZone classifies pointer p relative to target rectangle r.
//
// The pointer is normalised into r's unit square (each axis clamped to
// [0, 1]) and tested against a 30% margin from each edge in strict priority
// order: top, bottom, left, right. Comparisons are strict, so a pointer lying
// exactly on a margin boundary falls through to the next test, and the centre
// yields no zone. Vertical zones win at corners. A degenerate rectangle
// yields no zone.
func CalculateDropZone(p Point, r Rect) (DropZone, bool) {
	if r.Width <= 0 || r.Height <= 0 {
		return 0, false
	}
	relX := clamp((p.X-r.X)/r.Width, 0, 1)
	relY := clamp((p.Y-r.Y)/r.Height, 0, 1)

	switch {
	case relY < DropZoneMargin:
		return Top, true
	case relY > 1-DropZoneMargin:
		return Bottom, true
	case relX < DropZoneMargin:
		return Left, true
	case relX > 1-DropZoneMargin:
		return Right, true
	}
	return 0, false
}

// HoverTarget is the tile and zone currently under the pointer during a drag.
type HoverTarget struct {
	Tile TileID
	Zone DropZone
}

// DragState tracks one in-progress tile relocation. It is ephemeral session
// state: it is never part of a [Layout] or its snapshot, and hovering has no
// effect on the layout until [DragState.Drop] commits.
//
// The machine has two states. [DragState.StartDrag] enters Dragging,
// [DragState.EndDrag] returns to Idle unconditionally. While dragging, the
// hover target may be set and cleared any number of times.
//
// The zero value is an idle session.
type DragState struct {
	tile     TileID
	dragging bool
	position Point
	hover    *HoverTarget
}

// NewDragState returns an idle drag session.
func NewDragState() *DragState { return &DragState{} }

// IsDragging reports whether a tile is currently grabbed.
func (s *DragState) IsDragging() bool { return s.dragging }

// DraggingTile returns the grabbed tile, or false when idle.
func (s *DragState) DraggingTile() (TileID, bool) { return s.tile, s.dragging }

// Position returns the last pointer position seen during the drag.
func (s *DragState) Position() Point { return s.position }

// HoverTarget returns the hovered tile and zone, if any.
func (s *DragState) HoverTarget() (HoverTarget, bool) {
	if s.hover == nil {
		return HoverTarget{}, false
	}
	return *s.hover, true
}

// StartDrag grabs tile at pointer position (x, y) and clears any hover.
func (s *DragState) StartDrag(tile TileID, x, y float64) {
	s.tile = tile
	s.dragging = true
	s.position = Point{X: x, Y: y}
	s.hover = nil
}

// UpdatePosition records the live pointer position.
func (s *DragState) UpdatePosition(x, y float64) {
	s.position = Point{X: x, Y: y}
}

// UpdateHover records the tile and zone under the pointer.
func (s *DragState) UpdateHover(tile TileID, zone DropZone) {
	s.hover = &HoverTarget{Tile: tile, Zone: zone}
}

// ClearHover forgets the hover target, e.g. when the pointer is over the
// centre of a tile or over the dragged tile itself.
func (s *DragState) ClearHover() { s.hover = nil }

// EndDrag returns to Idle, discarding the grabbed tile, position and hover.
func (s *DragState) EndDrag() { *s = DragState{} }

// Drop commits the hovered relocation into l with
// [Layout.InsertTileWithSplit] and ends the drag whatever the outcome.
// It returns false when idle, when nothing is hovered, when the hover target
// is the dragged tile, or when the layout refuses the move.
func (s *DragState) Drop(l *Layout) bool {
	defer s.EndDrag()
	if !s.dragging || s.hover == nil || s.hover.Tile == s.tile {
		return false
	}
	return l.InsertTileWithSplit(s.tile, s.hover.Tile, s.hover.Zone)
}
