package mosaic

import (
	"fmt"
	"math"
	"strings"
)

// NodeID identifies a node inside a [Layout]. Node IDs are generated by the
// layout's monotonic counter ("node_0", "node_1", ...) and are never reused,
// even after the node they named has been deleted.
type NodeID string

// TileID is a caller-supplied content key. The engine does not enforce
// uniqueness; callers are expected to keep tile IDs distinct.
type TileID string

// Bounds applied to every split created by the arena.
const (
	SplitMinPercentage     = 20.0
	SplitMaxPercentage     = 80.0
	DefaultSplitPercentage = 50.0
)

// Direction is the axis along which a split divides its space.
type Direction int

const (
	// Horizontal places the children side by side (left | right).
	Horizontal Direction = iota
	// Vertical stacks the children (top / bottom).
	Vertical
)

// String returns "Horizontal" or "Vertical".
func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "Horizontal"
	case Vertical:
		return "Vertical"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Opposite returns the other axis.
func (d Direction) Opposite() Direction {
	if d == Horizontal {
		return Vertical
	}
	return Horizontal
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	if d != Horizontal && d != Vertical {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name, see [ParseDirection].
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection accepts "Horizontal"/"Vertical" in any case as well as the
// short forms "h" and "v".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// clamp limits v to [lo, hi]. NaN maps to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
