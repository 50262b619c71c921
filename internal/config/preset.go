package config

import (
	"fmt"

	"github.com/matzehuels/mosaic/pkg/mosaic"
)

// Preset is a layout description in the config file. A preset is either a
// leaf (Tile set) or a split with a direction, an optional percentage and
// two child presets.
type Preset struct {
	Tile      string  `toml:"tile"`
	Direction string  `toml:"direction"`
	Split     float64 `toml:"split"`
	First     *Preset `toml:"first"`
	Second    *Preset `toml:"second"`
}

// Tree converts p to a layout tree. Split defaults to 50 when omitted.
func (p *Preset) Tree() (*mosaic.Tree, error) {
	return p.tree("preset")
}

func (p *Preset) tree(path string) (*mosaic.Tree, error) {
	if p == nil {
		return nil, fmt.Errorf("%s: missing table", path)
	}
	if p.Tile != "" {
		if p.Direction != "" || p.First != nil || p.Second != nil {
			return nil, fmt.Errorf("%s: tile %q cannot also be a split", path, p.Tile)
		}
		return mosaic.Leaf(mosaic.TileID(p.Tile)), nil
	}

	dir, err := mosaic.ParseDirection(p.Direction)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	first, err := p.First.tree(path + ".first")
	if err != nil {
		return nil, err
	}
	second, err := p.Second.tree(path + ".second")
	if err != nil {
		return nil, err
	}

	pct := p.Split
	if pct == 0 {
		pct = mosaic.DefaultSplitPercentage
	}
	return &mosaic.Tree{Direction: dir, First: first, Second: second, SplitPercentage: pct}, nil
}

// PresetTree resolves a named preset to a tree.
func (c *Config) PresetTree(name string) (*mosaic.Tree, error) {
	p, ok := c.Presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (available: %v)", name, c.PresetNames())
	}
	return p.tree("presets." + name)
}

func leaf(tile string) *Preset { return &Preset{Tile: tile} }

func split(dir string, pct float64, first, second *Preset) *Preset {
	return &Preset{Direction: dir, Split: pct, First: first, Second: second}
}

func builtinPresets() map[string]*Preset {
	return map[string]*Preset{
		"single":  leaf("main"),
		"columns": split("horizontal", 50, leaf("left"), leaf("right")),
		"rows":    split("vertical", 50, leaf("top"), leaf("bottom")),
		"ide": split("horizontal", 25,
			leaf("files"),
			split("vertical", 70, leaf("editor"), leaf("terminal"))),
	}
}
