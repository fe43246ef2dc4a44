// Package prefs holds the viewer's configuration file and the small
// amount of state written back between runs.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	// Catalogue overrides the built-in visualization list. Names without
	// an embedded shader need a dir or http source to resolve.
	Catalogue []string `toml:"catalogue"`

	// Initial picks the starting entry on a fresh profile:
	// "fixed" starts at the first entry, "random" somewhere different
	// each run.
	Initial string `toml:"initial"`

	// MaxRenderScale caps how many device pixels are rendered per
	// logical pixel. High-density displays are expensive to fill.
	MaxRenderScale float64 `toml:"max_render_scale"`

	// Animate false skips the GL backdrop entirely: no shader loading,
	// no shortcuts, just the static window background.
	Animate bool `toml:"animate"`

	Source    SourceConfig    `toml:"source"`
	Indicator IndicatorConfig `toml:"indicator"`
}

type SourceConfig struct {
	// Mode is where shader source comes from: "embed", "dir" or "http".
	Mode string `toml:"mode"`
	Dir  string `toml:"dir"`
	Base string `toml:"base"`
}

type IndicatorConfig struct {
	// HoldMillis is how long the overlay stays up after a switch.
	// Negative keeps it up until the next switch.
	HoldMillis int `toml:"hold_ms"`
}

func DefaultConfig() Config {
	return Config{
		Initial:        "fixed",
		MaxRenderScale: 2,
		Animate:        true,
		Source:         SourceConfig{Mode: "embed"},
		Indicator:      IndicatorConfig{HoldMillis: 1500},
	}
}

// LoadConfig reads path over the defaults. A missing file is not an
// error. On any other failure the defaults come back along with the
// error, so the caller can log it and keep going.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(b, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse %v: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("%v: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Source.Mode {
	case "embed", "dir", "http":
	default:
		return fmt.Errorf("unknown source mode %q", c.Source.Mode)
	}
	switch c.Initial {
	case "fixed", "random":
	default:
		return fmt.Errorf("unknown initial policy %q", c.Initial)
	}
	if c.MaxRenderScale <= 0 {
		return fmt.Errorf("max_render_scale %v is not positive", c.MaxRenderScale)
	}
	return nil
}

// DefaultDir is where config.toml and state.toml live.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "glbackdrop"), nil
}

type state struct {
	// The position is stored in decimal string form; anything that does
	// not parse back is treated as absent.
	ActiveIndex string `toml:"active_index"`
}

// Store persists the chosen catalogue position. Safe for concurrent use.
type Store struct {
	path string

	mu    sync.Mutex
	state state
}

// NewStore opens the state file at path. A missing or unreadable file
// starts empty.
func NewStore(path string) *Store {
	s := &Store{path: path}

	b, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	// a corrupt state file is as good as no state file
	_ = toml.Unmarshal(b, &s.state)
	return s
}

func (s *Store) ActiveIndex() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := strconv.Atoi(s.state.ActiveIndex)
	if err != nil {
		return 0, false
	}
	return i, true
}

func (s *Store) SetActiveIndex(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.ActiveIndex = strconv.Itoa(i)

	b, err := toml.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}
