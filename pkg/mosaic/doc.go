// Package mosaic provides a tiling layout engine: a binary tree of splits and
// tiles that divides a rectangular area into resizable, rearrangeable panes.
//
// # Overview
//
// A [Layout] is an arena of [Node] records keyed by [NodeID]. Every node is
// either a tile (a leaf naming one unit of content by [TileID]) or a split
// (an internal node dividing its area between a first and second child along
// a [Direction], at a percentage). Children are referenced by ID and every
// node records its parent's ID, so the structure can be walked in both
// directions without pointer cycles.
//
// # Basic Usage
//
// Start from a single tile with [New] and grow it with [Layout.SplitTile]:
//
//	l := mosaic.New("editor")
//	l.SplitTile("editor", mosaic.Horizontal, "terminal", 70)
//	l.CloseTile("terminal")
//
// Or describe the whole layout declaratively with a [Tree] or [Builder] and
// materialize it with [FromTree]. [Layout.ToTree] converts back.
//
// Operations that can fail for expected reasons (missing tile, locked node,
// self-referential move) return false and leave the layout untouched. They
// never panic for such conditions; a panic signals a corrupted arena.
//
// # Splits
//
// Splits created by the arena always carry the bounds [SplitMinPercentage,
// SplitMaxPercentage]; any requested percentage is clamped into them.
// [Layout.UpdateSplit] clamps into the split's own stored bounds and refuses
// locked splits.
//
// # Drag and Drop
//
// [CalculateDropZone] classifies a pointer position against a target tile's
// rectangle into one of four edge [DropZone] values. [DragState] tracks an
// in-progress drag; it is session state and never part of a snapshot. Moving
// a tile is committed with [Layout.InsertTileWithSplit] or [DragState.Drop].
//
// [Layout.TileRects] and [Layout.SplitRects] compute concrete geometry for a
// host area, and [Layout.TileAt] hit-tests a pointer.
//
// # Persistence
//
// A Layout marshals to a JSON snapshot holding its nodes, root and ID counter.
// [Save], [Load] and [Clear] move snapshots through any [Storage]. Decoding
// validates the arena with [Layout.Validate] and rejects corrupt payloads.
//
// # Rendering
//
// The engine does not render. Hosts resolve tile IDs into content and titles
// with a [ContentResolver] and [TitleResolver] of their own.
//
// # Concurrency
//
// A Layout is not safe for concurrent use. Hosts that share one layout between
// goroutines must serialize access.
package mosaic

// ContentResolver maps a tile to its rendered content. It returns false for
// unknown tiles, which hosts render as blank. It must not mutate the layout.
type ContentResolver func(TileID) (string, bool)

// TitleResolver maps a tile to its title.
type TitleResolver func(TileID) string
