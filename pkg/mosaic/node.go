package mosaic

// NodeKind distinguishes the two variants of [Node].
type NodeKind int

const (
	// KindTile is a leaf holding one unit of content.
	KindTile NodeKind = iota
	// KindSplit is an internal node dividing its space between two children.
	KindSplit
)

// String returns "Tile" or "Split".
func (k NodeKind) String() string {
	if k == KindSplit {
		return "Split"
	}
	return "Tile"
}

// Node is a record in the layout arena. It is a tagged union: Kind selects
// which of the variant fields are meaningful.
//
// Every node carries its own ID, the ID of its parent split (empty for the
// root) and a Locked flag. Tile nodes additionally carry TileID. Split nodes
// carry Direction, the First and Second child IDs and the split percentage
// together with its bounds.
//
// Children are referenced by ID, never by pointer, so the arena stays acyclic
// even though every node points back at its parent.
type Node struct {
	ID     NodeID
	Parent NodeID // empty for the root
	Locked bool   // tiles: refuse close and drop-target; splits: refuse resize
	Kind   NodeKind

	// Tile variant.
	TileID TileID

	// Split variant.
	Direction       Direction
	First           NodeID
	Second          NodeID
	SplitPercentage float64 // share of the first child, in percent
	MinPercentage   float64
	MaxPercentage   float64
}

// IsTile reports whether the node is a leaf.
func (n Node) IsTile() bool { return n.Kind == KindTile }

// IsSplit reports whether the node is a split.
func (n Node) IsSplit() bool { return n.Kind == KindSplit }

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool { return n.Parent == "" }

// HasParent is the negation of IsRoot.
func (n Node) HasParent() bool { return n.Parent != "" }

// Children returns the first and second child IDs of a split.
// The boolean is false for tiles.
func (n Node) Children() (first, second NodeID, ok bool) {
	if n.Kind != KindSplit {
		return "", "", false
	}
	return n.First, n.Second, true
}

// sibling returns the child of split n that is not child.
func (n *Node) sibling(child NodeID) NodeID {
	if n.First == child {
		return n.Second
	}
	return n.First
}

// replaceChild rewires whichever child pointer references oldChild.
func (n *Node) replaceChild(oldChild, newChild NodeID) {
	switch oldChild {
	case n.First:
		n.First = newChild
	case n.Second:
		n.Second = newChild
	}
}

func newTile(id NodeID, tile TileID, parent NodeID) *Node {
	return &Node{ID: id, Kind: KindTile, TileID: tile, Parent: parent}
}

func newSplit(id NodeID, dir Direction, first, second NodeID, pct float64, parent NodeID) *Node {
	return &Node{
		ID:              id,
		Kind:            KindSplit,
		Parent:          parent,
		Direction:       dir,
		First:           first,
		Second:          second,
		SplitPercentage: clamp(pct, SplitMinPercentage, SplitMaxPercentage),
		MinPercentage:   SplitMinPercentage,
		MaxPercentage:   SplitMaxPercentage,
	}
}
