package mosaic

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvariant is returned by [Layout.Validate] when the arena's structure
	// is inconsistent. Wrapped errors describe the offending node.
	ErrInvariant = errors.New("layout invariant violated")

	// ErrIncompleteSplit is returned by [Builder.BuildTree] and [Builder.Build]
	// when either child of the split has not been set.
	ErrIncompleteSplit = errors.New("split requires both children")

	// ErrInvalidSnapshot is returned when a persisted layout cannot be decoded
	// or decodes into a structurally invalid arena.
	ErrInvalidSnapshot = errors.New("invalid layout snapshot")
)

// Validate checks the structural invariants of the arena:
//
//  1. the root is set exactly when the arena is non-empty, and names a node;
//  2. the nodes reachable from the root are exactly the stored nodes;
//  3. every non-root node's Parent names the split that references it;
//  4. every split percentage lies in [min, max] ⊆ [0, 100];
//  5. every generated ID is below the ID counter.
//
// Public operations maintain these invariants; Validate exists for tests and
// for checking layouts decoded from untrusted snapshots. Validate runs in O(n).
func (l *Layout) Validate() error {
	if l.root == "" {
		if len(l.nodes) != 0 {
			return fmt.Errorf("%w: %d nodes without a root", ErrInvariant, len(l.nodes))
		}
		return nil
	}
	root, ok := l.nodes[l.root]
	if !ok {
		return fmt.Errorf("%w: root %q missing", ErrInvariant, l.root)
	}
	if root.Parent != "" {
		return fmt.Errorf("%w: root %q has parent %q", ErrInvariant, l.root, root.Parent)
	}

	seen := make(map[NodeID]bool, len(l.nodes))
	stack := []NodeID{l.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			return fmt.Errorf("%w: node %q reachable twice", ErrInvariant, id)
		}
		seen[id] = true

		n := l.nodes[id]
		if n.ID != id {
			return fmt.Errorf("%w: node stored under %q has ID %q", ErrInvariant, id, n.ID)
		}
		if err := l.checkCounter(id); err != nil {
			return err
		}
		if n.Kind != KindSplit {
			continue
		}
		if err := checkPercentages(n); err != nil {
			return err
		}
		for _, child := range []NodeID{n.Second, n.First} {
			c, ok := l.nodes[child]
			if !ok {
				return fmt.Errorf("%w: split %q references missing child %q", ErrInvariant, id, child)
			}
			if c.Parent != id {
				return fmt.Errorf("%w: child %q of %q records parent %q", ErrInvariant, child, id, c.Parent)
			}
			stack = append(stack, child)
		}
	}

	if len(seen) != len(l.nodes) {
		for id := range l.nodes {
			if !seen[id] {
				return fmt.Errorf("%w: node %q is unreachable from root", ErrInvariant, id)
			}
		}
	}
	return nil
}

func (l *Layout) checkCounter(id NodeID) error {
	if seq, ok := idSeq(id); ok && seq >= l.nextID {
		return fmt.Errorf("%w: node %q not below counter %d", ErrInvariant, id, l.nextID)
	}
	return nil
}

func checkPercentages(n *Node) error {
	if n.MinPercentage < 0 || n.MaxPercentage > 100 || n.MinPercentage > n.MaxPercentage {
		return fmt.Errorf("%w: split %q has bounds [%g, %g]", ErrInvariant, n.ID, n.MinPercentage, n.MaxPercentage)
	}
	if math.IsNaN(n.SplitPercentage) || n.SplitPercentage < n.MinPercentage || n.SplitPercentage > n.MaxPercentage {
		return fmt.Errorf("%w: split %q percentage %g outside [%g, %g]",
			ErrInvariant, n.ID, n.SplitPercentage, n.MinPercentage, n.MaxPercentage)
	}
	return nil
}
