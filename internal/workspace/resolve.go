package workspace

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	mosaicerrors "github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/mosaic"
)

// maxSuggestions caps the "did you mean" list.
const maxSuggestions = 3

// NewTileID returns a short random tile ID.
func NewTileID() mosaic.TileID {
	return mosaic.TileID("tile-" + uuid.NewString()[:8])
}

func requireTile(l *mosaic.Layout, tile mosaic.TileID) (mosaic.Node, error) {
	id, ok := l.FindTile(tile)
	if !ok {
		return mosaic.Node{}, notFound("tile", string(tile), tileCandidates(l))
	}
	n, _ := l.Node(id)
	return n, nil
}

// resolveNode looks ref up as a node ID first and as a tile ID second.
func resolveNode(l *mosaic.Layout, ref string) (mosaic.Node, error) {
	if n, ok := l.Node(mosaic.NodeID(ref)); ok {
		return n, nil
	}
	if id, ok := l.FindTile(mosaic.TileID(ref)); ok {
		n, _ := l.Node(id)
		return n, nil
	}
	candidates := tileCandidates(l)
	for _, n := range l.Nodes() {
		candidates = append(candidates, string(n.ID))
	}
	return mosaic.Node{}, notFound("node or tile", ref, candidates)
}

// resolveSplit resolves ref to a split. A tile resolves to its parent.
func resolveSplit(l *mosaic.Layout, ref string) (mosaic.Node, error) {
	n, err := resolveNode(l, ref)
	if err != nil {
		return mosaic.Node{}, err
	}
	if n.IsSplit() {
		return n, nil
	}
	if !n.HasParent() {
		return mosaic.Node{}, mosaicerrors.New(mosaicerrors.ErrCodeInvalidOperation,
			"tile %q is the only tile and has no split to resize", n.TileID)
	}
	parent, _ := l.Node(n.Parent)
	return parent, nil
}

func tileCandidates(l *mosaic.Layout) []string {
	tiles := l.AllTiles()
	out := make([]string, len(tiles))
	for i, t := range tiles {
		out[i] = string(t)
	}
	return out
}

func notFound(kind, ref string, candidates []string) error {
	err := mosaicerrors.New(mosaicerrors.ErrCodeNotFound, "%s %q not found", kind, ref)
	if s := suggest(ref, candidates); len(s) > 0 {
		err = err.WithSuggestions(s)
	}
	return err
}

// refused reports an engine refusal the diagnosis above did not predict.
func refused(op string, ref mosaic.TileID) error {
	return mosaicerrors.New(mosaicerrors.ErrCodeInternal, "%s %q refused by layout", op, ref)
}

// suggest returns up to maxSuggestions candidates within edit distance
// max(2, len(ref)/3) of ref, closest first.
func suggest(ref string, candidates []string) []string {
	limit := max(2, len(ref)/3)

	type match struct {
		name string
		dist int
	}
	var matches []match
	seen := make(map[string]bool)
	for _, c := range candidates {
		if seen[c] || c == ref {
			continue
		}
		seen[c] = true
		if d := levenshtein.ComputeDistance(ref, c); d <= limit {
			matches = append(matches, match{c, d})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].dist != matches[j].dist {
			return matches[i].dist < matches[j].dist
		}
		return matches[i].name < matches[j].name
	})

	var out []string
	for i := 0; i < len(matches) && i < maxSuggestions; i++ {
		out = append(out, matches[i].name)
	}
	return out
}

// FormatSuggestions renders suggestions as a "did you mean" hint, or "".
func FormatSuggestions(s []string) string {
	switch len(s) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("did you mean %q?", s[0])
	}
	return fmt.Sprintf("did you mean one of %q?", s)
}
