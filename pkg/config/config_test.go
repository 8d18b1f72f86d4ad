package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yolcu/mindmap/pkg/errors"
	"github.com/yolcu/mindmap/pkg/mindmap/interact"
	"github.com/yolcu/mindmap/pkg/mindmap/layout"
	"github.com/yolcu/mindmap/pkg/mindmap/viewport"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, interact.ModeNavigate, cfg.Mode())
	assert.Equal(t, CacheFile, cfg.Cache.Backend)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, layout.DefaultOptions(), cfg.LayoutOptions())

	vp := cfg.ViewportOptions(800, 600)
	assert.Equal(t, viewport.DefaultOptions(800, 600), vp)
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Server, cfg.Server)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "got %v", err)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[layout]
compact = true
palette = ["#111111", "#222222"]
max_lines = 2

[viewport]
max_scale = 3.0

[navigation]
mode = "summary"
initial_selection = "stage-2"

[server]
addr = "127.0.0.1:9000"
view_ttl = "5m"

[cache]
backend = "none"

[mongo]
uri = "mongodb://localhost:27017"
database = "roadmaps"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, interact.ModeSummary, cfg.Mode())
	assert.Equal(t, "stage-2", cfg.Navigation.InitialSelection)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Server.ViewTTL)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout, "unset keys keep defaults")

	lo := cfg.LayoutOptions()
	assert.True(t, lo.Compact)
	assert.Equal(t, []string{"#111111", "#222222"}, lo.Palette)
	assert.Equal(t, 2, lo.Wrap.MaxLines)

	vp := cfg.ViewportOptions(0, 0)
	assert.Equal(t, 3.0, vp.MaxScale)
	assert.Equal(t, viewport.DefaultMinScale, vp.MinScale)

	ms := cfg.MongoStore()
	assert.Equal(t, "mongodb://localhost:27017", ms.URI)
	assert.Equal(t, "roadmaps", ms.Database)
	assert.Equal(t, cfg.Mongo.Collection, ms.Collection)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":7000"
`)
	t.Setenv("MINDMAP_SERVER_ADDR", ":9090")
	t.Setenv("MINDMAP_LAYOUT_PALETTE", "#AAAAAA,#BBBBBB")
	t.Setenv("MINDMAP_CACHE_BACKEND", "redis")
	t.Setenv("MINDMAP_CACHE_REDIS_URL", "redis://localhost:6379/1")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"#AAAAAA", "#BBBBBB"}, cfg.Layout.Palette)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Cache.RedisURL)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[layout\ncompact = true"},
		{"unknown key", "[layout]\ncompactt = true"},
		{"bad mode", "[navigation]\nmode = \"browse\""},
		{"bad selection", "[navigation]\ninitial_selection = \"../stage\""},
		{"scale range", "[viewport]\nmin_scale = 4.0\nmax_scale = 2.0"},
		{"zoom step", "[viewport]\nzoom_step = 0.5"},
		{"backend", "[cache]\nbackend = \"memcached\""},
		{"redis without url", "[cache]\nbackend = \"redis\""},
		{"negative views", "[server]\nmax_views = -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
		})
	}
}

func TestLoadInvalidEnv(t *testing.T) {
	t.Setenv("MINDMAP_SERVER_MAX_VIEWS", "many")
	_, err := Load(writeConfig(t, ""))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
}

func TestLayoutOptionsUncapped(t *testing.T) {
	cfg := Default()
	cfg.Layout.MaxLines = -1
	cfg.Layout.CharWidth = 8
	lo := cfg.LayoutOptions()
	assert.Equal(t, 0, lo.Wrap.MaxLines)
	assert.Equal(t, 8.0, lo.Wrap.CharWidth)
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "mindmap"), Dir())
	assert.Equal(t, filepath.Join(dir, "mindmap", "config.toml"), DefaultPath())
}
