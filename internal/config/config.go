// Package config loads the mosaic configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/mosaic/config.toml, falling
// back to ~/.config/mosaic/config.toml. A missing file is not an error: every
// field has a default, and the default storage is a file store under the XDG
// data directory.
//
//	key = "work"
//	log_level = "debug"
//
//	[storage]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[presets.ide]
//	direction = "horizontal"
//	split = 25
//	first = { tile = "files" }
//	second = { direction = "vertical", split = 70, first = { tile = "editor" }, second = { tile = "terminal" } }
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/mosaic/pkg/store"
)

const appName = "mosaic"

// DefaultKey is the snapshot key used when none is configured.
const DefaultKey = "mosaic-layout"

// Config is the decoded configuration file.
type Config struct {
	Key      string             `toml:"key"`
	LogLevel string             `toml:"log_level"`
	Storage  Storage            `toml:"storage"`
	Presets  map[string]*Preset `toml:"presets"`
}

// Storage selects the snapshot backend.
type Storage struct {
	Backend         string `toml:"backend"`
	Dir             string `toml:"dir"`
	RedisAddr       string `toml:"redis_addr"`
	RedisPassword   string `toml:"redis_password"`
	RedisDB         int    `toml:"redis_db"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
	SQLitePath      string `toml:"sqlite_path"`
	Prefix          string `toml:"prefix"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	data := DataDir()
	return &Config{
		Key:      DefaultKey,
		LogLevel: "info",
		Storage: Storage{
			Backend:    store.BackendFile,
			Dir:        filepath.Join(data, "layouts"),
			SQLitePath: filepath.Join(data, "mosaic.db"),
		},
		Presets: builtinPresets(),
	}
}

// Load reads the file at path, or DefaultPath when path is empty. Values in
// the file override the defaults; a missing file yields Default. Unknown keys
// are rejected so typos do not silently fall back to defaults.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	// Decoding merges into the existing preset map, so file presets
	// override built-ins of the same name.
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}
	return cfg, nil
}

// Level parses LogLevel, defaulting to info.
func (c *Config) Level() (log.Level, error) {
	if c.LogLevel == "" {
		return log.InfoLevel, nil
	}
	return log.ParseLevel(c.LogLevel)
}

// StoreConfig converts the storage section for store.Open.
func (c *Config) StoreConfig() store.Config {
	s := c.Storage
	return store.Config{
		Backend:         s.Backend,
		Dir:             expandHome(s.Dir),
		RedisAddr:       s.RedisAddr,
		RedisPassword:   s.RedisPassword,
		RedisDB:         s.RedisDB,
		MongoURI:        s.MongoURI,
		MongoDatabase:   s.MongoDatabase,
		MongoCollection: s.MongoCollection,
		SQLitePath:      expandHome(s.SQLitePath),
		Prefix:          s.Prefix,
	}
}

// PresetNames returns the configured preset names in sorted order.
func (c *Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns the XDG config file location.
func DefaultPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "config.toml")
}

// DataDir returns the XDG data directory (~/.local/share/mosaic/).
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, fallback, appName)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
