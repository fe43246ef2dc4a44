package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
catalogue = ["pulse", "drift"]
initial = "random"
max_render_scale = 1.5

[source]
mode = "http"
base = "https://example.net"

[indicator]
hold_ms = 800
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"pulse", "drift"}, cfg.Catalogue)
	assert.Equal(t, "random", cfg.Initial)
	assert.Equal(t, 1.5, cfg.MaxRenderScale)
	assert.Equal(t, "http", cfg.Source.Mode)
	assert.Equal(t, "https://example.net", cfg.Source.Base)
	assert.Equal(t, 800, cfg.Indicator.HoldMillis)
	assert.True(t, cfg.Animate, "defaults survive a partial file")
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := []struct{ name, body string }{
		{"bad mode", `[source]` + "\n" + `mode = "ftp"`},
		{"bad policy", `initial = "sometimes"`},
		{"bad scale", `max_render_scale = -1.0`},
		{"not toml", `{"json": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))

			cfg, err := LoadConfig(path)
			assert.Error(t, err)
			assert.Equal(t, DefaultConfig(), cfg, "broken config falls back to defaults")
		})
	}
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")

	s := NewStore(path)
	_, ok := s.ActiveIndex()
	assert.False(t, ok, "fresh store has no position")

	require.NoError(t, s.SetActiveIndex(4))

	i, ok := s.ActiveIndex()
	assert.True(t, ok)
	assert.Equal(t, 4, i)

	// a new store sees what the old one wrote
	reopened := NewStore(path)
	i, ok = reopened.ActiveIndex()
	assert.True(t, ok)
	assert.Equal(t, 4, i)
}

func TestStoreStoresDecimalString(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	require.NoError(t, NewStore(path).SetActiveIndex(12))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Regexp(t, `active_index = ['"]12['"]`, string(b))
}

func TestStoreToleratesCorruptState(t *testing.T) {
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.toml")
	require.NoError(t, os.WriteFile(garbage, []byte("not = [valid"), 0o644))
	_, ok := NewStore(garbage).ActiveIndex()
	assert.False(t, ok)

	// parseable file, unparseable position
	nonsense := filepath.Join(dir, "nonsense.toml")
	require.NoError(t, os.WriteFile(nonsense, []byte(`active_index = "twelve"`), 0o644))
	_, ok = NewStore(nonsense).ActiveIndex()
	assert.False(t, ok)

	// the store still recovers by writing
	s := NewStore(nonsense)
	require.NoError(t, s.SetActiveIndex(2))
	i, ok := s.ActiveIndex()
	assert.True(t, ok)
	assert.Equal(t, 2, i)
}
