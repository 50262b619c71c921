package mosaic

import (
	"encoding/json"
	"fmt"
)

// Tree is the declarative, recursive form of a layout. A Tree with neither
// child set is a leaf holding TileID; otherwise it is a split and Direction,
// First, Second and SplitPercentage apply.
//
// Trees carry no node identity. Converting a Tree into a [Layout] generates
// fresh node IDs every time.
type Tree struct {
	TileID          TileID
	Direction       Direction
	First           *Tree
	Second          *Tree
	SplitPercentage float64
}

// Leaf returns a tree consisting of a single tile.
func Leaf(tile TileID) *Tree { return &Tree{TileID: tile} }

// Tile is an alias of [Leaf] that reads well inside builder chains.
func Tile(tile TileID) *Tree { return Leaf(tile) }

// HorizontalTree returns a left | right split.
func HorizontalTree(left, right *Tree, percentage float64) *Tree {
	return &Tree{Direction: Horizontal, First: left, Second: right, SplitPercentage: percentage}
}

// VerticalTree returns a top / bottom split.
func VerticalTree(top, bottom *Tree, percentage float64) *Tree {
	return &Tree{Direction: Vertical, First: top, Second: bottom, SplitPercentage: percentage}
}

// IsLeaf reports whether t has no children.
func (t *Tree) IsLeaf() bool { return t.First == nil && t.Second == nil }

// Tiles returns the tile IDs of t in pre-order.
func (t *Tree) Tiles() []TileID {
	tiles := []TileID{}
	var rec func(*Tree)
	rec = func(n *Tree) {
		if n == nil {
			return
		}
		if n.IsLeaf() {
			tiles = append(tiles, n.TileID)
			return
		}
		rec(n.First)
		rec(n.Second)
	}
	rec(t)
	return tiles
}

// FromTree materializes t into a new arena. A nil tree yields an empty
// layout. Split percentages are clamped into [SplitMinPercentage,
// SplitMaxPercentage]. A split with only one child set collapses into that
// child.
//
// Node IDs are assigned depth-first: a split's ID is generated before its
// children, so every child knows its parent when it is created.
func FromTree(t *Tree) *Layout {
	l := Empty()
	if t == nil {
		return l
	}
	l.root = l.insertTree(t, "")
	return l
}

func (l *Layout) insertTree(t *Tree, parent NodeID) NodeID {
	for !t.IsLeaf() && (t.First == nil || t.Second == nil) {
		if t.First != nil {
			t = t.First
		} else {
			t = t.Second
		}
	}
	id := l.genID()
	if t.IsLeaf() {
		l.nodes[id] = newTile(id, t.TileID, parent)
		return id
	}
	n := newSplit(id, t.Direction, "", "", t.SplitPercentage, parent)
	l.nodes[id] = n
	n.First = l.insertTree(t.First, id)
	n.Second = l.insertTree(t.Second, id)
	return id
}

// ToTree converts the arena back into its declarative form. It returns false
// for an empty layout. Lock flags and node IDs are not part of a Tree.
func (l *Layout) ToTree() (*Tree, bool) {
	if l.root == "" {
		return nil, false
	}
	return l.toTree(l.root), true
}

func (l *Layout) toTree(id NodeID) *Tree {
	n := l.mustNode(id)
	if n.Kind == KindTile {
		return Leaf(n.TileID)
	}
	return &Tree{
		Direction:       n.Direction,
		First:           l.toTree(n.First),
		Second:          l.toTree(n.Second),
		SplitPercentage: n.SplitPercentage,
	}
}

type treeJSON struct {
	Leaf  *TileID        `json:"Leaf,omitempty"`
	Split *splitTreeJSON `json:"Split,omitempty"`
}

type splitTreeJSON struct {
	Direction       Direction `json:"direction"`
	First           *Tree     `json:"first"`
	Second          *Tree     `json:"second"`
	SplitPercentage float64   `json:"split_percentage"`
}

// MarshalJSON encodes a leaf as {"Leaf":"id"} and a split as
// {"Split":{"direction":..,"first":..,"second":..,"split_percentage":..}}.
func (t *Tree) MarshalJSON() ([]byte, error) {
	if t.IsLeaf() {
		tile := t.TileID
		return json.Marshal(treeJSON{Leaf: &tile})
	}
	if t.First == nil || t.Second == nil {
		return nil, ErrIncompleteSplit
	}
	return json.Marshal(treeJSON{Split: &splitTreeJSON{
		Direction:       t.Direction,
		First:           t.First,
		Second:          t.Second,
		SplitPercentage: t.SplitPercentage,
	}})
}

// UnmarshalJSON decodes the form written by [Tree.MarshalJSON].
func (t *Tree) UnmarshalJSON(data []byte) error {
	var raw treeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Leaf != nil && raw.Split != nil:
		return fmt.Errorf("tree node has both Leaf and Split")
	case raw.Leaf != nil:
		*t = Tree{TileID: *raw.Leaf}
	case raw.Split != nil:
		s := raw.Split
		if s.First == nil || s.Second == nil {
			return ErrIncompleteSplit
		}
		*t = Tree{
			Direction:       s.Direction,
			First:           s.First,
			Second:          s.Second,
			SplitPercentage: s.SplitPercentage,
		}
	default:
		return fmt.Errorf("tree node must be Leaf or Split")
	}
	return nil
}
