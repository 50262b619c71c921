package mosaic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Storage is a keyed blob store that holds layout snapshots.
// Get reports a missing key with ok == false and a nil error.
type Storage interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Save writes the snapshot of l to s under key.
func Save(ctx context.Context, s Storage, key string, l *Layout) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if err := s.Set(ctx, key, data); err != nil {
		return fmt.Errorf("save layout %q: %w", key, err)
	}
	return nil
}

// Load reads the layout stored under key. It returns false when the key is
// absent, the store fails, or the payload is not a valid snapshot; use
// [LoadErr] to tell these apart.
func Load(ctx context.Context, s Storage, key string) (*Layout, bool) {
	l, found, err := LoadErr(ctx, s, key)
	if err != nil || !found {
		return nil, false
	}
	return l, true
}

// LoadErr is Load with the failure reason. A missing key is (nil, false, nil).
// Corrupt payloads wrap [ErrInvalidSnapshot].
func LoadErr(ctx context.Context, s Storage, key string) (*Layout, bool, error) {
	data, ok, err := s.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("load layout %q: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	l := Empty()
	if err := json.Unmarshal(data, l); err != nil {
		if !errors.Is(err, ErrInvalidSnapshot) {
			// Syntax errors are reported before UnmarshalJSON runs.
			err = fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}
		return nil, false, err
	}
	return l, true, nil
}

// Clear removes the snapshot stored under key.
func Clear(ctx context.Context, s Storage, key string) error {
	if err := s.Delete(ctx, key); err != nil {
		return fmt.Errorf("clear layout %q: %w", key, err)
	}
	return nil
}

type snapshotJSON struct {
	Nodes  map[NodeID]nodeJSON `json:"nodes"`
	Root   *NodeID             `json:"root"`
	NextID int                 `json:"next_id"`
}

type nodeJSON struct {
	Split *splitNodeJSON `json:"Split,omitempty"`
	Tile  *tileNodeJSON  `json:"Tile,omitempty"`
}

type splitNodeJSON struct {
	ID              NodeID    `json:"id"`
	Direction       Direction `json:"direction"`
	First           NodeID    `json:"first"`
	Second          NodeID    `json:"second"`
	SplitPercentage float64   `json:"split_percentage"`
	Parent          *NodeID   `json:"parent"`
	Locked          bool      `json:"locked"`
	MinPercentage   float64   `json:"min_percentage"`
	MaxPercentage   float64   `json:"max_percentage"`
}

type tileNodeJSON struct {
	ID     NodeID  `json:"id"`
	TileID TileID  `json:"tile_id"`
	Parent *NodeID `json:"parent"`
	Locked bool    `json:"locked"`
}

func optionalID(id NodeID) *NodeID {
	if id == "" {
		return nil
	}
	return &id
}

func derefID(id *NodeID) NodeID {
	if id == nil {
		return ""
	}
	return *id
}

// MarshalJSON encodes the arena as a snapshot:
//
//	{"nodes":{"node_0":{"Tile":{...}}},"root":"node_0","next_id":1}
//
// An empty layout has a null root. Drag state is never part of a snapshot.
func (l *Layout) MarshalJSON() ([]byte, error) {
	snap := snapshotJSON{
		Nodes:  make(map[NodeID]nodeJSON, len(l.nodes)),
		Root:   optionalID(l.root),
		NextID: l.nextID,
	}
	for id, n := range l.nodes {
		if n.Kind == KindSplit {
			snap.Nodes[id] = nodeJSON{Split: &splitNodeJSON{
				ID:              n.ID,
				Direction:       n.Direction,
				First:           n.First,
				Second:          n.Second,
				SplitPercentage: n.SplitPercentage,
				Parent:          optionalID(n.Parent),
				Locked:          n.Locked,
				MinPercentage:   n.MinPercentage,
				MaxPercentage:   n.MaxPercentage,
			}}
			continue
		}
		snap.Nodes[id] = nodeJSON{Tile: &tileNodeJSON{
			ID:     n.ID,
			TileID: n.TileID,
			Parent: optionalID(n.Parent),
			Locked: n.Locked,
		}}
	}
	return json.Marshal(snap)
}

// UnmarshalJSON decodes a snapshot written by [Layout.MarshalJSON] and
// replaces l's contents only if the result passes [Layout.Validate].
// Errors wrap [ErrInvalidSnapshot].
func (l *Layout) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "nodes", "next_id"); err != nil {
		return err
	}
	var snap snapshotJSON
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if snap.NextID < 0 {
		return fmt.Errorf("%w: negative next_id %d", ErrInvalidSnapshot, snap.NextID)
	}
	decoded := &Layout{
		nodes:  make(map[NodeID]*Node, len(snap.Nodes)),
		root:   derefID(snap.Root),
		nextID: snap.NextID,
	}
	for key, raw := range snap.Nodes {
		switch {
		case raw.Split != nil && raw.Tile == nil:
			s := raw.Split
			decoded.nodes[key] = &Node{
				ID:              s.ID,
				Kind:            KindSplit,
				Parent:          derefID(s.Parent),
				Locked:          s.Locked,
				Direction:       s.Direction,
				First:           s.First,
				Second:          s.Second,
				SplitPercentage: s.SplitPercentage,
				MinPercentage:   s.MinPercentage,
				MaxPercentage:   s.MaxPercentage,
			}
		case raw.Tile != nil && raw.Split == nil:
			t := raw.Tile
			decoded.nodes[key] = &Node{
				ID:     t.ID,
				Kind:   KindTile,
				Parent: derefID(t.Parent),
				Locked: t.Locked,
				TileID: t.TileID,
			}
		default:
			return fmt.Errorf("%w: node %q must be exactly one of Split or Tile", ErrInvalidSnapshot, key)
		}
	}
	if err := decoded.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	*l = *decoded
	return nil
}

// requireFields checks that data is a JSON object carrying each named field
// with a non-null value.
func requireFields(data []byte, names ...string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if fields == nil {
		return fmt.Errorf("%w: not an object", ErrInvalidSnapshot)
	}
	for _, name := range names {
		raw, ok := fields[name]
		if !ok || string(raw) == "null" {
			return fmt.Errorf("%w: missing %s", ErrInvalidSnapshot, name)
		}
	}
	return nil
}
