package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/yolcu/mindmap/pkg/cache"
	"github.com/yolcu/mindmap/pkg/config"
	"github.com/yolcu/mindmap/pkg/errors"
	"github.com/yolcu/mindmap/pkg/mindmap/layout"
	"github.com/yolcu/mindmap/pkg/observability"
	"github.com/yolcu/mindmap/pkg/pipeline"
	"github.com/yolcu/mindmap/pkg/roadmap"
)

const sampleRoadmap = `{
  "diagramTitle": "DevOps",
  "mainStages": [
    {
      "stageName": "Linux",
      "subNodes": [
        {
          "centralNodeTitle": "Shell",
          "leftItems": [{"id": "bash", "name": "Bash"}],
          "rightItems": [{"id": "ssh", "name": "SSH"}]
        }
      ]
    },
    {
      "stageName": "Containers",
      "subNodes": [
        {
          "centralNodeTitle": "Images",
          "leftItems": [{"id": "docker", "name": "Docker"}]
        }
      ]
    }
  ]
}`

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func containsPlain(s, sub string) bool {
	return strings.Contains(ansiPattern.ReplaceAllString(s, ""), sub)
}

func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Cleanup(observability.Reset)
	return New(&bytes.Buffer{}, LogInfo)
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devops.json")
	if err := os.WriteFile(path, []byte(sampleRoadmap), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.ExecuteContext(context.Background())
}

func TestRootCommandTree(t *testing.T) {
	c := newTestCLI(t)
	root := c.RootCommand()

	want := []string{"layout", "render", "visualize", "view", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("missing subcommand %q", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("root should have a persistent --config flag")
	}
	for _, name := range []string{"layout", "render", "view"} {
		cmd, _, _ := root.Find([]string{name})
		for _, flag := range []string{"select", "collapsed", "compact", "roadmap-id", "no-cache"} {
			if cmd.Flags().Lookup(flag) == nil {
				t.Errorf("%s is missing --%s", name, flag)
			}
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	c := newTestCLI(t)
	c.SetLogLevel(LogDebug)
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}

func TestConfigFlagLoadsFile(t *testing.T) {
	c := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[navigation]\nmode = \"summary\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := run(t, c, "--config", path, "cache", "path"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if c.Config().Navigation.Mode != "summary" {
		t.Errorf("mode = %q, want summary", c.Config().Navigation.Mode)
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("[navigation]\nmode = \"teleport\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := run(t, newTestCLI(t), "--config", bad, "cache", "path"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("invalid config error = %v", err)
	}
}

func TestNewCacheBackends(t *testing.T) {
	ctx := context.Background()
	c := newTestCLI(t)

	c.cfg.Cache.Backend = config.CacheNone
	cc, err := c.newCache(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cc.(cache.NullCache); !ok {
		t.Errorf("none backend = %T", cc)
	}

	c.cfg.Cache.Backend = config.CacheFile
	c.cfg.Cache.Dir = t.TempDir()
	cc, err = c.newCache(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if fc, ok := cc.(*cache.FileCache); !ok || fc.Dir() != c.cfg.Cache.Dir {
		t.Errorf("file backend = %T", cc)
	}

	cc, err = c.newCache(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cc.(cache.NullCache); !ok {
		t.Errorf("--no-cache = %T", cc)
	}
}

func TestPipelineOptions(t *testing.T) {
	c := newTestCLI(t)

	opts := c.pipelineOptions(sceneFlags{})
	if opts.Selected != "" || opts.Collapsed || opts.Compact {
		t.Errorf("defaults = %+v", opts)
	}

	opts = c.pipelineOptions(sceneFlags{compact: true, selected: "stage-1"})
	if !opts.Compact || !opts.Layout.Compact || opts.Selected != "stage-1" {
		t.Errorf("compact = %+v", opts)
	}

	c.cfg.Navigation.InitialSelection = "stage-1"
	if got := c.pipelineOptions(sceneFlags{}).Selected; got != "stage-1" {
		t.Errorf("configured selection = %q", got)
	}

	c.cfg.Navigation.Collapsed = true
	if !c.pipelineOptions(sceneFlags{}).Collapsed {
		t.Error("configured collapse ignored")
	}
	if c.pipelineOptions(sceneFlags{selected: "stage-0"}).Collapsed {
		t.Error("an explicit --select should override the configured collapse")
	}
}

func TestLoadRoadmapArgs(t *testing.T) {
	ctx := context.Background()
	c := newTestCLI(t)
	runner := pipeline.NewRunner(nil, nil, nil)
	path := writeSample(t)

	r, name, err := c.loadRoadmap(ctx, runner, []string{path}, sceneFlags{})
	if err != nil {
		t.Fatalf("loadRoadmap: %v", err)
	}
	if r.Content.Title != "DevOps" || name != strings.TrimSuffix(path, ".json") {
		t.Errorf("loaded %q as %q", r.Content.Title, name)
	}

	if _, _, err := c.loadRoadmap(ctx, runner, nil, sceneFlags{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("no input error = %v", err)
	}
	if _, _, err := c.loadRoadmap(ctx, runner, []string{path}, sceneFlags{roadmapID: 3}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("file and id error = %v", err)
	}
	if _, _, err := c.loadRoadmap(ctx, runner, []string{path + ".missing"}, sceneFlags{}); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestLayoutRenderVisualize(t *testing.T) {
	c := newTestCLI(t)
	input := writeSample(t)
	dir := filepath.Dir(input)

	if err := run(t, c, "layout", input, "--no-cache", "--select", "stage-1"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	scenePath := filepath.Join(dir, "devops.scene.json")
	data, err := os.ReadFile(scenePath)
	if err != nil {
		t.Fatalf("read scene: %v", err)
	}
	var s layout.Scene
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("decode scene: %v", err)
	}
	if s.Selected != "stage-1" || len(s.Stages()) != 2 {
		t.Errorf("scene selected %q with %d stages", s.Selected, len(s.Stages()))
	}
	if _, ok := s.Node("docker"); !ok {
		t.Error("stage-1 children missing from scene")
	}

	if err := run(t, newTestCLI(t), "visualize", scenePath, "-f", "svg,txt", "--no-cache"); err != nil {
		t.Fatalf("visualize: %v", err)
	}
	svg, err := os.ReadFile(filepath.Join(dir, "devops.svg"))
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !strings.Contains(string(svg), `data-node-id="docker"`) {
		t.Error("visualized SVG missing the expanded stage's children")
	}
	if _, err := os.Stat(filepath.Join(dir, "devops.txt")); err != nil {
		t.Errorf("missing txt output: %v", err)
	}

	out := filepath.Join(dir, "rendered.json")
	if err := run(t, newTestCLI(t), "render", input, "-f", "json", "-o", out, "--collapsed", "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err = os.ReadFile(out)
	if err != nil {
		t.Fatalf("read render output: %v", err)
	}
	var collapsed layout.Scene
	if err := json.Unmarshal(data, &collapsed); err != nil {
		t.Fatalf("decode rendered scene: %v", err)
	}
	if collapsed.Selected != "" || len(collapsed.Children()) != 0 {
		t.Errorf("collapsed render expanded %q", collapsed.Selected)
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	input := writeSample(t)

	if err := run(t, newTestCLI(t), "render", input, "-f", "gif", "--no-cache"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format error = %v", err)
	}
	if err := run(t, newTestCLI(t), "render", input, "--zoom", "9", "--no-cache"); err == nil {
		t.Error("zoom beyond the maximum scale should fail")
	}
	if err := run(t, newTestCLI(t), "visualize", input+".missing"); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing scene error = %v", err)
	}
}

func TestLoadRoadmapDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.json": sampleRoadmap,
		"b.json": `{"id": 42, "content": ` + sampleRoadmap + `}`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	src, err := loadRoadmapDir(dir)
	if err != nil {
		t.Fatalf("loadRoadmapDir: %v", err)
	}
	for _, id := range []int64{1, 42} {
		r, err := src.Roadmap(context.Background(), id)
		if err != nil {
			t.Errorf("roadmap %d: %v", id, err)
			continue
		}
		if r.Content.Title != "DevOps" {
			t.Errorf("roadmap %d title = %q", id, r.Content.Title)
		}
	}
	if _, err := src.Roadmap(context.Background(), 2); !errors.Is(err, errors.ErrCodeRoadmapNotFound) {
		t.Errorf("unknown id error = %v", err)
	}

	var _ roadmap.Source = src
}
