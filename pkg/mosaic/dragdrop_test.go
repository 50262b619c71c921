package mosaic

import (
	"encoding/json"
	"testing"
)

func TestCalculateDropZone(t *testing.T) {
	square := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	offset := Rect{X: 100, Y: 50, Width: 200, Height: 100}

	tests := []struct {
		name string
		p    Point
		r    Rect
		want DropZone
		ok   bool
	}{
		{"center", Point{50, 50}, square, 0, false},
		{"top 10%", Point{50, 10}, square, Top, true},
		{"bottom", Point{50, 90}, square, Bottom, true},
		{"left 10%", Point{10, 50}, square, Left, true},
		{"right", Point{90, 50}, square, Right, true},
		{"boundary 30/30", Point{30, 30}, square, 0, false},
		{"boundary 70/70", Point{70, 70}, square, 0, false},
		{"boundary top edge", Point{50, 30}, square, 0, false},
		{"top-left corner", Point{5, 5}, square, Top, true},
		{"bottom-right corner", Point{95, 95}, square, Bottom, true},
		{"outside left clamps", Point{-50, 50}, square, Left, true},
		{"outside below clamps", Point{50, 500}, square, Bottom, true},
		{"offset rect left", Point{110, 100}, offset, Left, true},
		{"offset rect center", Point{200, 100}, offset, 0, false},
		{"degenerate", Point{0, 0}, Rect{Width: 0, Height: 10}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CalculateDropZone(tt.p, tt.r)
			if got != tt.want || ok != tt.ok {
				t.Errorf("CalculateDropZone(%v) = %v, %v, want %v, %v", tt.p, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDropZone_Properties(t *testing.T) {
	tests := []struct {
		zone  DropZone
		dir   Direction
		first bool
	}{
		{Top, Vertical, true},
		{Bottom, Vertical, false},
		{Left, Horizontal, true},
		{Right, Horizontal, false},
	}
	for _, tt := range tests {
		if got := tt.zone.SplitDirection(); got != tt.dir {
			t.Errorf("%v.SplitDirection() = %v, want %v", tt.zone, got, tt.dir)
		}
		if got := tt.zone.DraggedIsFirst(); got != tt.first {
			t.Errorf("%v.DraggedIsFirst() = %v, want %v", tt.zone, got, tt.first)
		}
		parsed, err := ParseDropZone(tt.zone.String())
		if err != nil || parsed != tt.zone {
			t.Errorf("ParseDropZone(%q) = %v, %v", tt.zone.String(), parsed, err)
		}
	}
}

func TestParseDropZone(t *testing.T) {
	if z, err := ParseDropZone(" left "); err != nil || z != Left {
		t.Errorf("ParseDropZone(left) = %v, %v", z, err)
	}
	if _, err := ParseDropZone("middle"); err == nil {
		t.Error("ParseDropZone(middle) succeeded")
	}
	if _, err := DropZone(0).MarshalText(); err == nil {
		t.Error("MarshalText() of zero zone succeeded")
	}

	var body struct {
		Zone DropZone `json:"zone"`
	}
	if err := json.Unmarshal([]byte(`{"zone":"bottom"}`), &body); err != nil || body.Zone != Bottom {
		t.Errorf("Unmarshal zone = %v, %v", body.Zone, err)
	}
}

func TestDragState(t *testing.T) {
	s := NewDragState()
	if s.IsDragging() {
		t.Fatal("new state is dragging")
	}
	if _, ok := s.DraggingTile(); ok {
		t.Error("DraggingTile() ok on idle state")
	}

	s.StartDrag("a", 3, 4)
	if tile, ok := s.DraggingTile(); !ok || tile != "a" {
		t.Errorf("DraggingTile() = %q, %v", tile, ok)
	}
	if s.Position() != (Point{3, 4}) {
		t.Errorf("Position() = %v", s.Position())
	}
	if _, ok := s.HoverTarget(); ok {
		t.Error("hover set after StartDrag")
	}

	s.UpdatePosition(10, 20)
	s.UpdateHover("b", Left)
	if h, ok := s.HoverTarget(); !ok || h != (HoverTarget{Tile: "b", Zone: Left}) {
		t.Errorf("HoverTarget() = %+v, %v", h, ok)
	}
	s.ClearHover()
	if _, ok := s.HoverTarget(); ok {
		t.Error("hover still set after ClearHover")
	}
	s.UpdateHover("c", Top)
	if !s.IsDragging() {
		t.Error("hover changes ended the drag")
	}

	s.EndDrag()
	if s.IsDragging() || s.Position() != (Point{}) {
		t.Errorf("EndDrag() left %+v", s)
	}
	if _, ok := s.HoverTarget(); ok {
		t.Error("hover survived EndDrag")
	}
}

func TestDragState_DoesNotTouchLayout(t *testing.T) {
	l := editorLayout()
	before := snapshot(t, l)
	s := NewDragState()
	s.StartDrag("editor", 0, 0)
	s.UpdateHover("sidebar", Left)
	s.UpdatePosition(5, 5)
	s.EndDrag()
	if got := snapshot(t, l); got != before {
		t.Error("abandoned drag changed the layout")
	}
}

func TestDragState_Drop(t *testing.T) {
	l := FromTree(HorizontalTree(Leaf("a"), Leaf("b"), 50))
	s := NewDragState()
	s.StartDrag("a", 0, 0)
	s.UpdateHover("b", Bottom)
	if !s.Drop(l) {
		t.Fatal("Drop() = false")
	}
	if s.IsDragging() {
		t.Error("still dragging after Drop")
	}
	assertTiles(t, l, "b", "a")
	rootID, _ := l.Root()
	if root, _ := l.Node(rootID); root.Direction != Vertical {
		t.Errorf("root direction = %v, want Vertical", root.Direction)
	}
	mustValidate(t, l)
}

func TestDragState_DropRefused(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*DragState)
	}{
		{"idle", func(*DragState) {}},
		{"no hover", func(s *DragState) { s.StartDrag("a", 0, 0) }},
		{"onto itself", func(s *DragState) {
			s.StartDrag("a", 0, 0)
			s.UpdateHover("a", Left)
		}},
		{"missing target", func(s *DragState) {
			s.StartDrag("a", 0, 0)
			s.UpdateHover("zzz", Left)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := FromTree(HorizontalTree(Leaf("a"), Leaf("b"), 50))
			before := snapshot(t, l)
			s := NewDragState()
			tt.setup(s)
			if s.Drop(l) {
				t.Error("Drop() = true")
			}
			if s.IsDragging() {
				t.Error("Drop() left the state dragging")
			}
			if got := snapshot(t, l); got != before {
				t.Error("refused drop changed the layout")
			}
		})
	}
}
