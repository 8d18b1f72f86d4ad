package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yolcu/mindmap/pkg/config"
)

func TestCacheCommands(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	if err := os.MkdirAll(filepath.Join(dir, "ab"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ab", "entry.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newTestCLI(t)
	c.cfg.Cache.Dir = dir

	var out bytes.Buffer
	path := c.cachePathCommand()
	path.SetOut(&out)
	if err := path.RunE(path, nil); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out.String()) != dir {
		t.Errorf("cache path = %q, want %q", out.String(), dir)
	}

	clearCmd := c.cacheClearCommand()
	if err := clearCmd.RunE(clearCmd, nil); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("cache clear left %d entries", len(entries))
	}
}

func TestCacheClearMissingDir(t *testing.T) {
	c := newTestCLI(t)
	c.cfg.Cache.Dir = filepath.Join(t.TempDir(), "never-created")

	clearCmd := c.cacheClearCommand()
	if err := clearCmd.RunE(clearCmd, nil); err != nil {
		t.Fatalf("cache clear on missing dir: %v", err)
	}
	if _, err := os.Stat(c.cfg.Cache.Dir); !os.IsNotExist(err) {
		t.Error("cache clear should not create the directory")
	}
}

func TestCacheCommandsNeedFileBackend(t *testing.T) {
	c := newTestCLI(t)
	c.cfg.Cache.Backend = config.CacheRedis

	path := c.cachePathCommand()
	if err := path.RunE(path, nil); err == nil {
		t.Error("cache path should fail for the redis backend")
	}
}
