// Package workspace binds a layout to a snapshot store.
//
// A Workspace owns one layout and the key it is persisted under. Every
// mutation runs against a copy of the layout, is saved, and only then
// replaces the current layout, so a failed write never leaves the in-memory
// state ahead of the store. Where the layout engine answers a refused
// operation with a bare false, the workspace works out why and returns a
// coded error (NOT_FOUND, LOCKED, INVALID_OPERATION) from pkg/errors.
//
// Workspaces are safe for concurrent use; the CLI, the HTTP host and the
// interactive view all go through one.
package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	mosaicerrors "github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/mosaic"
	"github.com/matzehuels/mosaic/pkg/observability"
	"github.com/matzehuels/mosaic/pkg/store"
)

// Workspace is a persisted layout.
type Workspace struct {
	mu     sync.Mutex
	layout *mosaic.Layout
	store  mosaic.Storage
	key    string

	Logger  *log.Logger
	Backoff store.Backoff
}

// Open loads the layout stored under key, starting empty when there is none.
// A nil logger uses log.Default().
func Open(ctx context.Context, s mosaic.Storage, key string, logger *log.Logger) (*Workspace, error) {
	if err := mosaicerrors.ValidateKey(key); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	w := &Workspace{
		layout:  mosaic.Empty(),
		store:   s,
		key:     key,
		Logger:  logger,
		Backoff: store.DefaultBackoff,
	}
	if err := w.Reload(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

// Reload replaces the in-memory layout with the stored snapshot.
func (w *Workspace) Reload(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var (
		l     *mosaic.Layout
		found bool
	)
	err := store.RetryWithBackoff(ctx, w.Backoff, func() error {
		var err error
		l, found, err = mosaic.LoadErr(ctx, w.store, w.key)
		return err
	})
	observability.Layout().OnLoad(ctx, w.key, found, err)

	switch {
	case errors.Is(err, mosaic.ErrInvalidSnapshot):
		return mosaicerrors.Wrap(mosaicerrors.ErrCodeStorage, err, "snapshot %q is unreadable", w.key).
			WithSuggestions([]string{"mosaic clear", "mosaic import <file>"})
	case err != nil:
		return mosaicerrors.Wrap(mosaicerrors.ErrCodeStorage, err, "load snapshot %q", w.key)
	case !found:
		w.Logger.Debug("no snapshot stored", "key", w.key)
		w.layout = mosaic.Empty()
	default:
		w.Logger.Debug("loaded snapshot", "key", w.key, "nodes", l.NodeCount())
		w.layout = l
	}
	return nil
}

// Key returns the snapshot key.
func (w *Workspace) Key() string { return w.key }

// Layout returns a copy of the current layout.
func (w *Workspace) Layout() *mosaic.Layout {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.layout.Clone()
}

// Tiles returns the tile IDs in pre-order.
func (w *Workspace) Tiles() []mosaic.TileID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.layout.AllTiles()
}

// Tree returns the current layout as a tree, or false when it is empty.
func (w *Workspace) Tree() (*mosaic.Tree, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.layout.ToTree()
}

// Snapshot returns the JSON snapshot of the current layout.
func (w *Workspace) Snapshot() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return json.Marshal(w.layout)
}

// =============================================================================
// Mutations
// =============================================================================

// Replace swaps the layout for one built from t. A nil tree empties the
// layout.
func (w *Workspace) Replace(ctx context.Context, t *mosaic.Tree) error {
	for _, tile := range treeTiles(t) {
		if err := mosaicerrors.ValidateTileID(string(tile)); err != nil {
			return err
		}
	}
	return w.mutate(ctx, "replace", func(*mosaic.Layout) (*mosaic.Layout, error) {
		return mosaic.FromTree(t), nil
	})
}

// Restore swaps the layout for a decoded snapshot.
func (w *Workspace) Restore(ctx context.Context, snapshot []byte) error {
	l := mosaic.Empty()
	if err := json.Unmarshal(snapshot, l); err != nil {
		return mosaicerrors.Wrap(mosaicerrors.ErrCodeInvalidInput, err, "decode snapshot")
	}
	return w.mutate(ctx, "restore", func(*mosaic.Layout) (*mosaic.Layout, error) {
		return l, nil
	})
}

// Init replaces the layout with a single tile.
func (w *Workspace) Init(ctx context.Context, tile mosaic.TileID) error {
	if tile == "" {
		tile = NewTileID()
	}
	return w.Replace(ctx, mosaic.Leaf(tile))
}

// Split splits tile, placing newTile second. An empty newTile gets a
// generated ID. The ID of the new tile is returned.
func (w *Workspace) Split(ctx context.Context, tile mosaic.TileID, dir mosaic.Direction, newTile mosaic.TileID, percentage float64) (mosaic.TileID, error) {
	if err := mosaicerrors.ValidatePercentage(percentage); err != nil {
		return "", err
	}
	if newTile == "" {
		newTile = NewTileID()
	}
	if err := mosaicerrors.ValidateTileID(string(newTile)); err != nil {
		return "", err
	}

	err := w.mutate(ctx, "split", func(l *mosaic.Layout) (*mosaic.Layout, error) {
		if _, err := requireTile(l, tile); err != nil {
			return nil, err
		}
		if _, exists := l.FindTile(newTile); exists {
			return nil, mosaicerrors.New(mosaicerrors.ErrCodeInvalidInput, "tile %q already exists", newTile)
		}
		if !l.SplitTile(tile, dir, newTile, percentage) {
			return nil, refused("split", tile)
		}
		return l, nil
	})
	if err != nil {
		return "", err
	}
	w.Logger.Debug("split tile", "tile", tile, "new", newTile, "direction", dir, "percentage", percentage)
	return newTile, nil
}

// Close removes tile from the layout.
func (w *Workspace) Close(ctx context.Context, tile mosaic.TileID) error {
	err := w.mutate(ctx, "close", func(l *mosaic.Layout) (*mosaic.Layout, error) {
		n, err := requireTile(l, tile)
		if err != nil {
			return nil, err
		}
		if n.Locked {
			return nil, mosaicerrors.New(mosaicerrors.ErrCodeLocked, "tile %q is locked", tile).
				WithSuggestions([]string{"mosaic unlock " + string(tile)})
		}
		if !l.CloseTile(tile) {
			return nil, refused("close", tile)
		}
		return l, nil
	})
	if err == nil {
		w.Logger.Debug("closed tile", "tile", tile)
	}
	return err
}

// Resize sets the percentage of a split. ref names either a split node or
// a tile, in which case the tile's parent split is resized. It returns the
// split's resulting (clamped) percentage.
func (w *Workspace) Resize(ctx context.Context, ref string, percentage float64) (float64, error) {
	if err := mosaicerrors.ValidatePercentage(percentage); err != nil {
		return 0, err
	}

	var applied float64
	err := w.mutate(ctx, "resize", func(l *mosaic.Layout) (*mosaic.Layout, error) {
		n, err := resolveSplit(l, ref)
		if err != nil {
			return nil, err
		}
		if n.Locked {
			return nil, mosaicerrors.New(mosaicerrors.ErrCodeLocked, "split %q is locked", n.ID).
				WithSuggestions([]string{"mosaic unlock " + string(n.ID)})
		}
		if !l.UpdateSplit(n.ID, percentage) {
			return nil, refused("resize", mosaic.TileID(ref))
		}
		updated, _ := l.Node(n.ID)
		applied = updated.SplitPercentage
		return l, nil
	})
	if err != nil {
		return 0, err
	}
	w.Logger.Debug("resized split", "ref", ref, "requested", percentage, "applied", applied)
	return applied, nil
}

// Move detaches dragged and re-inserts it beside target on the side named
// by zone.
func (w *Workspace) Move(ctx context.Context, dragged, target mosaic.TileID, zone mosaic.DropZone) error {
	if dragged == target {
		return mosaicerrors.New(mosaicerrors.ErrCodeInvalidOperation, "cannot move tile %q onto itself", dragged)
	}
	if _, err := zone.MarshalText(); err != nil {
		return mosaicerrors.Wrap(mosaicerrors.ErrCodeInvalidInput, err, "drop zone")
	}

	err := w.mutate(ctx, "move", func(l *mosaic.Layout) (*mosaic.Layout, error) {
		if _, err := requireTile(l, dragged); err != nil {
			return nil, err
		}
		t, err := requireTile(l, target)
		if err != nil {
			return nil, err
		}
		if t.Locked {
			return nil, mosaicerrors.New(mosaicerrors.ErrCodeLocked, "tile %q is locked and cannot take drops", target)
		}
		if !l.InsertTileWithSplit(dragged, target, zone) {
			return nil, refused("move", dragged)
		}
		return l, nil
	})
	if err == nil {
		w.Logger.Debug("moved tile", "tile", dragged, "target", target, "zone", zone)
	}
	return err
}

// Drop commits an interactive drag with [mosaic.DragState.Drop]. The drag
// always ends. A drag without a hover target, or hovering the dragged tile
// itself, is not an error and reports false.
func (w *Workspace) Drop(ctx context.Context, s *mosaic.DragState) (bool, error) {
	defer s.EndDrag()
	tile, dragging := s.DraggingTile()
	hover, hovering := s.HoverTarget()
	if !dragging || !hovering || hover.Tile == tile {
		return false, nil
	}

	err := w.mutate(ctx, "drop", func(l *mosaic.Layout) (*mosaic.Layout, error) {
		if _, err := requireTile(l, tile); err != nil {
			return nil, err
		}
		t, err := requireTile(l, hover.Tile)
		if err != nil {
			return nil, err
		}
		if t.Locked {
			return nil, mosaicerrors.New(mosaicerrors.ErrCodeLocked, "tile %q is locked and cannot take drops", hover.Tile)
		}
		if !s.Drop(l) {
			return nil, refused("drop", tile)
		}
		return l, nil
	})
	if err != nil {
		return false, err
	}
	w.Logger.Debug("dropped tile", "tile", tile, "target", hover.Tile, "zone", hover.Zone)
	return true, nil
}

// SetLocked sets the lock flag of the node named by ref, which may be a
// node ID or a tile ID. It returns the ID of the node that was changed.
func (w *Workspace) SetLocked(ctx context.Context, ref string, locked bool) (mosaic.NodeID, error) {
	var id mosaic.NodeID
	err := w.mutate(ctx, "lock", func(l *mosaic.Layout) (*mosaic.Layout, error) {
		n, err := resolveNode(l, ref)
		if err != nil {
			return nil, err
		}
		id = n.ID
		if !l.SetLocked(id, locked) {
			return nil, refused("lock", mosaic.TileID(ref))
		}
		return l, nil
	})
	if err != nil {
		return "", err
	}
	w.Logger.Debug("set lock", "node", id, "locked", locked)
	return id, nil
}

// Clear deletes the stored snapshot and empties the layout.
func (w *Workspace) Clear(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()
	err := store.RetryWithBackoff(ctx, w.Backoff, func() error {
		return mosaic.Clear(ctx, w.store, w.key)
	})
	observability.Layout().OnMutation(ctx, "clear", err == nil, time.Since(start))
	if err != nil {
		return mosaicerrors.Wrap(mosaicerrors.ErrCodeStorage, err, "clear snapshot %q", w.key)
	}
	w.layout = mosaic.Empty()
	w.Logger.Debug("cleared snapshot", "key", w.key)
	return nil
}

// mutate applies fn to a copy of the layout, persists the result and makes
// it current. fn may return a different layout than the one it was given.
func (w *Workspace) mutate(ctx context.Context, op string, fn func(*mosaic.Layout) (*mosaic.Layout, error)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()
	next, err := fn(w.layout.Clone())
	observability.Layout().OnMutation(ctx, op, err == nil, time.Since(start))
	if err != nil {
		return err
	}
	if err := w.persist(ctx, next); err != nil {
		return err
	}
	w.layout = next
	return nil
}

func (w *Workspace) persist(ctx context.Context, l *mosaic.Layout) error {
	data, err := json.Marshal(l)
	if err != nil {
		return mosaicerrors.Wrap(mosaicerrors.ErrCodeInternal, err, "encode layout")
	}
	err = store.RetryWithBackoff(ctx, w.Backoff, func() error {
		return w.store.Set(ctx, w.key, data)
	})
	observability.Layout().OnSave(ctx, w.key, len(data), err)
	if err != nil {
		return mosaicerrors.Wrap(mosaicerrors.ErrCodeStorage, err, "save snapshot %q", w.key)
	}
	return nil
}

func treeTiles(t *mosaic.Tree) []mosaic.TileID {
	if t == nil {
		return nil
	}
	return t.Tiles()
}
