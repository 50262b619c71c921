package mosaic

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const nodeIDPrefix = "node_"

// Layout is the arena holding a binary tree of splits and tiles.
//
// Nodes live in a map keyed by [NodeID]; the tree structure is expressed
// through child IDs on splits and parent IDs on every node. All mutations are
// O(1) graph surgery once the affected tile has been located (locating a tile
// by [TileID] is an O(n) scan).
//
// The zero value is not usable - use [New], [Empty], [FromTree] or [Load].
// Layout is not safe for concurrent use; hosts sharing one layout must
// serialize access themselves.
type Layout struct {
	nodes  map[NodeID]*Node
	root   NodeID
	nextID int
}

// New creates a layout consisting of a single tile, which becomes the root.
func New(tile TileID) *Layout {
	l := Empty()
	id := l.genID()
	l.nodes[id] = newTile(id, tile, "")
	l.root = id
	return l
}

// Empty creates a layout with no nodes and no root.
func Empty() *Layout {
	return &Layout{nodes: make(map[NodeID]*Node)}
}

// IsEmpty reports whether the layout has no root (and therefore no nodes).
func (l *Layout) IsEmpty() bool { return l.root == "" }

// Root returns the root node ID, or false for an empty layout.
func (l *Layout) Root() (NodeID, bool) { return l.root, l.root != "" }

// NodeCount returns the number of nodes (splits and tiles) in the arena.
func (l *Layout) NodeCount() int { return len(l.nodes) }

// Node returns a copy of the node with the given ID.
func (l *Layout) Node(id NodeID) (Node, bool) {
	n, ok := l.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// NodeMut returns the stored node so callers can adjust its flags in place.
// Editing structural fields (Parent, First, Second, Kind) through the returned
// pointer breaks the layout's invariants; use the arena operations instead.
func (l *Layout) NodeMut(id NodeID) (*Node, bool) {
	n, ok := l.nodes[id]
	return n, ok
}

// Nodes returns copies of all nodes ordered by creation.
func (l *Layout) Nodes() []Node {
	out := make([]Node, 0, len(l.nodes))
	for _, n := range l.nodes {
		out = append(out, *n)
	}
	slices.SortFunc(out, func(a, b Node) int { return compareIDs(a.ID, b.ID) })
	return out
}

// FindTile returns the ID of the tile node holding tile. Duplicate tile IDs
// resolve to the oldest matching node (lowest sequence number).
// This is an O(n) scan.
func (l *Layout) FindTile(tile TileID) (NodeID, bool) {
	var best NodeID
	for id, n := range l.nodes {
		if n.Kind != KindTile || n.TileID != tile {
			continue
		}
		if best == "" || compareIDs(id, best) < 0 {
			best = id
		}
	}
	return best, best != ""
}

// UpdateSplit sets the percentage of split id, clamped into the split's own
// [MinPercentage, MaxPercentage] range. It returns false if the node does not
// exist, is not a split, or is locked.
func (l *Layout) UpdateSplit(id NodeID, percentage float64) bool {
	n, ok := l.nodes[id]
	if !ok || n.Kind != KindSplit || n.Locked {
		return false
	}
	n.SplitPercentage = clamp(percentage, n.MinPercentage, n.MaxPercentage)
	return true
}

// SplitTile replaces tile with a new split holding the original tile (first)
// and a new tile newTileID (second). The split's bounds are always [20, 80] and
// percentage is clamped into them. The original tile keeps its node identity.
// It returns false only when tile cannot be found.
func (l *Layout) SplitTile(tile TileID, dir Direction, newTileID TileID, percentage float64) bool {
	targetID, ok := l.FindTile(tile)
	if !ok {
		return false
	}
	target := l.mustNode(targetID)
	parent := target.Parent

	leafID := l.genID()
	splitID := l.genID()
	l.nodes[leafID] = newTile(leafID, newTileID, splitID)
	l.nodes[splitID] = newSplit(splitID, dir, targetID, leafID, percentage, parent)

	target.Parent = splitID
	l.attach(parent, targetID, splitID)
	return true
}

// CloseTile removes tile from the layout. Its sibling takes the place of the
// parent split, which is deleted along with the tile. Closing the last tile
// leaves the layout empty. It returns false if the tile is missing or locked.
func (l *Layout) CloseTile(tile TileID) bool {
	id, ok := l.FindTile(tile)
	if !ok {
		return false
	}
	n := l.mustNode(id)
	if n.Locked {
		return false
	}
	if n.Parent == "" {
		delete(l.nodes, id)
		l.root = ""
		return true
	}
	l.detach(n)
	delete(l.nodes, id)
	return true
}

// InsertTileWithSplit moves dragged next to target. The dragged tile is
// detached exactly like [Layout.CloseTile] detaches a tile, but its node
// (identity, tile ID and lock flag) survives. target is then replaced by a new
// 50/50 split whose direction and child order come from zone.
//
// It returns false without touching the layout when dragged == target, when
// either tile is missing, when target is locked, or when zone is invalid.
func (l *Layout) InsertTileWithSplit(dragged, target TileID, zone DropZone) bool {
	if dragged == target || !zone.valid() {
		return false
	}
	draggedID, ok := l.FindTile(dragged)
	if !ok {
		return false
	}
	targetID, ok := l.FindTile(target)
	if !ok {
		return false
	}
	targetNode := l.mustNode(targetID)
	if targetNode.Locked {
		return false
	}
	draggedNode := l.mustNode(draggedID)
	if draggedNode.Parent == "" {
		// A root tile is the only node, so target cannot be elsewhere.
		l.invariant("tile %q is root but %q exists", dragged, target)
	}

	l.detach(draggedNode)

	// target may have been promoted by the detach, read its parent afterwards.
	parent := targetNode.Parent
	first, second := targetID, draggedID
	if zone.DraggedIsFirst() {
		first, second = draggedID, targetID
	}
	splitID := l.genID()
	l.nodes[splitID] = newSplit(splitID, zone.SplitDirection(), first, second, DefaultSplitPercentage, parent)

	draggedNode.Parent = splitID
	targetNode.Parent = splitID
	l.attach(parent, targetID, splitID)
	return true
}

// SetLocked sets the lock flag of node id. It returns false if the node does
// not exist.
func (l *Layout) SetLocked(id NodeID, locked bool) bool {
	n, ok := l.nodes[id]
	if !ok {
		return false
	}
	n.Locked = locked
	return true
}

// AllTiles returns every tile ID in pre-order (first child before second).
// An empty layout yields an empty slice.
func (l *Layout) AllTiles() []TileID {
	tiles := []TileID{}
	l.Walk(func(n Node, _ int) {
		if n.Kind == KindTile {
			tiles = append(tiles, n.TileID)
		}
	})
	return tiles
}

// Walk visits every node reachable from the root in pre-order, passing the
// node and its depth (root = 0).
func (l *Layout) Walk(visit func(n Node, depth int)) {
	if l.root == "" {
		return
	}
	l.walk(l.root, 0, visit)
}

func (l *Layout) walk(id NodeID, depth int, visit func(Node, int)) {
	n := l.mustNode(id)
	visit(*n, depth)
	if n.Kind == KindSplit {
		l.walk(n.First, depth+1, visit)
		l.walk(n.Second, depth+1, visit)
	}
}

// Clone returns a deep copy of the layout, including its ID counter.
func (l *Layout) Clone() *Layout {
	c := &Layout{
		nodes:  make(map[NodeID]*Node, len(l.nodes)),
		root:   l.root,
		nextID: l.nextID,
	}
	for id, n := range l.nodes {
		cp := *n
		c.nodes[id] = &cp
	}
	return c
}

// detach unlinks n from its parent split and promotes the sibling into the
// parent's position. The parent split is deleted; n stays in the arena with
// an empty Parent.
func (l *Layout) detach(n *Node) {
	parent := l.mustNode(n.Parent)
	if parent.Kind != KindSplit {
		l.invariant("parent %q of %q is not a split", parent.ID, n.ID)
	}
	siblingID := parent.sibling(n.ID)
	sibling := l.mustNode(siblingID)
	grand := parent.Parent

	sibling.Parent = grand
	l.attach(grand, parent.ID, siblingID)

	delete(l.nodes, parent.ID)
	n.Parent = ""
}

// attach points parent's child slot (or the root, if parent is empty) that
// referenced oldChild at newChild.
func (l *Layout) attach(parent, oldChild, newChild NodeID) {
	if parent == "" {
		l.root = newChild
		return
	}
	l.mustNode(parent).replaceChild(oldChild, newChild)
}

func (l *Layout) genID() NodeID {
	id := NodeID(nodeIDPrefix + strconv.Itoa(l.nextID))
	l.nextID++
	return id
}

func (l *Layout) mustNode(id NodeID) *Node {
	n, ok := l.nodes[id]
	if !ok {
		l.invariant("node %q referenced but missing", id)
	}
	return n
}

// invariant aborts on structural corruption. These are programming errors in
// the arena, not conditions callers can recover from.
func (l *Layout) invariant(format string, args ...any) {
	panic(fmt.Sprintf("mosaic: invariant violation: "+format, args...))
}

// idSeq extracts the counter value from a generated node ID.
func idSeq(id NodeID) (int, bool) {
	rest, ok := strings.CutPrefix(string(id), nodeIDPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// compareIDs orders generated IDs by sequence number and anything else
// lexically after them.
func compareIDs(a, b NodeID) int {
	sa, okA := idSeq(a)
	sb, okB := idSeq(b)
	switch {
	case okA && okB:
		return sa - sb
	case okA:
		return -1
	case okB:
		return 1
	}
	return strings.Compare(string(a), string(b))
}
