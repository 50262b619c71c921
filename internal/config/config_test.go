package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mosaic/pkg/mosaic"
	"github.com/matzehuels/mosaic/pkg/store"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "/data")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Key != DefaultKey {
		t.Errorf("Key = %q, want %q", cfg.Key, DefaultKey)
	}
	if cfg.Storage.Backend != store.BackendFile {
		t.Errorf("Backend = %q", cfg.Storage.Backend)
	}
	if want := filepath.Join("/data", "mosaic", "layouts"); cfg.Storage.Dir != want {
		t.Errorf("Dir = %q, want %q", cfg.Storage.Dir, want)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load() of a missing explicit path should fail")
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
key = "work"
log_level = "debug"

[storage]
backend = "redis"
redis_addr = "localhost:6379"
redis_db = 2
prefix = "team"

[presets.pair]
direction = "vertical"
split = 30
first = { tile = "a" }
second = { tile = "b" }
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Key != "work" {
		t.Errorf("Key = %q", cfg.Key)
	}
	if lvl, err := cfg.Level(); err != nil || lvl != log.DebugLevel {
		t.Errorf("Level() = %v, %v", lvl, err)
	}

	sc := cfg.StoreConfig()
	if sc.Backend != "redis" || sc.RedisAddr != "localhost:6379" || sc.RedisDB != 2 || sc.Prefix != "team" {
		t.Errorf("StoreConfig() = %+v", sc)
	}

	if !slices.Contains(cfg.PresetNames(), "pair") || !slices.Contains(cfg.PresetNames(), "ide") {
		t.Errorf("PresetNames() = %v, want file and built-in presets", cfg.PresetNames())
	}
	tree, err := cfg.PresetTree("pair")
	if err != nil {
		t.Fatalf("PresetTree() error: %v", err)
	}
	if tree.Direction != mosaic.Vertical || tree.SplitPercentage != 30 {
		t.Errorf("tree = %+v", tree)
	}
	if got := tree.Tiles(); !slices.Equal(got, []mosaic.TileID{"a", "b"}) {
		t.Errorf("Tiles() = %v", got)
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeConfig(t, `
[storage]
backnd = "redis"
`)
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "storage.backnd") {
		t.Errorf("Load() error = %v, want unknown key storage.backnd", err)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	if _, err := Load(writeConfig(t, "key = ")); err == nil {
		t.Error("Load() should fail on invalid TOML")
	}
}

func TestLevel_Invalid(t *testing.T) {
	cfg := &Config{LogLevel: "loud"}
	if _, err := cfg.Level(); err == nil {
		t.Error("Level() should reject unknown level")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/layouts"); got != filepath.Join(home, "layouts") {
		t.Errorf("expandHome() = %q", got)
	}
	if got := expandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("expandHome() = %q", got)
	}
}

func TestPresetTree(t *testing.T) {
	tests := []struct {
		name    string
		preset  *Preset
		want    []mosaic.TileID
		wantErr bool
	}{
		{"leaf", leaf("x"), []mosaic.TileID{"x"}, false},
		{"nested", builtinPresets()["ide"], []mosaic.TileID{"files", "editor", "terminal"}, false},
		{"default split", &Preset{Direction: "h", First: leaf("a"), Second: leaf("b")}, []mosaic.TileID{"a", "b"}, false},
		{"bad direction", &Preset{Direction: "diagonal", First: leaf("a"), Second: leaf("b")}, nil, true},
		{"missing child", &Preset{Direction: "v", First: leaf("a")}, nil, true},
		{"tile and split", &Preset{Tile: "a", Direction: "v"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Presets: map[string]*Preset{tt.name: tt.preset}}
			tree, err := cfg.PresetTree(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PresetTree() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got := tree.Tiles(); !slices.Equal(got, tt.want) {
				t.Errorf("Tiles() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("default percentage", func(t *testing.T) {
		tree, err := (&Preset{Direction: "h", First: leaf("a"), Second: leaf("b")}).Tree()
		if err != nil {
			t.Fatal(err)
		}
		if tree.SplitPercentage != mosaic.DefaultSplitPercentage {
			t.Errorf("SplitPercentage = %g", tree.SplitPercentage)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := Default().PresetTree("nope"); err == nil {
			t.Error("PresetTree() should fail for unknown preset")
		}
	})
}
