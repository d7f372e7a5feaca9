package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/arbor/pkg/config"
)

func newTestCLI() *CLI {
	return New(io.Discard, log.InfoLevel)
}

func TestRootCommandSubcommands(t *testing.T) {
	root := newTestCLI().RootCommand()
	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	sort.Strings(got)
	want := []string{"cache", "completion", "config", "grow", "layout", "render", "serve"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("subcommands mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arbor.toml")
	if err := os.WriteFile(path, []byte("[render]\nscheme = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	root := newTestCLI().RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "config", "show"})
	if err := root.Execute(); err != nil {
		t.Fatalf("config show: %v", err)
	}

	var cfg config.Config
	if err := config.Decode(out.Bytes(), &cfg); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	if cfg.Render.Scheme != 7 {
		t.Errorf("render.scheme = %d, want 7", cfg.Render.Scheme)
	}
	if cfg.Layout.Seed != config.Default().Layout.Seed {
		t.Errorf("layout.seed = %d, want the default", cfg.Layout.Seed)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arbor.toml")

	run := func(args ...string) error {
		root := newTestCLI().RootCommand()
		root.SetOut(io.Discard)
		root.SetErr(io.Discard)
		root.SetArgs(args)
		return root.Execute()
	}

	if err := run("config", "init", path); err != nil {
		t.Fatalf("config init: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if diff := cmp.Diff(config.Default(), cfg); diff != "" {
		t.Errorf("written config differs from defaults (-want +got):\n%s", diff)
	}

	err = run("config", "init", path)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second init error = %v, want already exists", err)
	}
	if err := run("config", "init", "--force", path); err != nil {
		t.Errorf("init --force: %v", err)
	}
}

func TestCachePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(t.TempDir(), "arbor.toml")
	if err := os.WriteFile(path, []byte("[cache]\ndir = \""+filepath.ToSlash(dir)+"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	root := newTestCLI().RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "cache", "path"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != filepath.ToSlash(dir) {
		t.Errorf("cache path = %q, want %q", got, dir)
	}
}

func TestLayoutCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "org.edges")
	if err := os.WriteFile(input, []byte("ceo cto\nceo cfo\ncto dev\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	root := newTestCLI().RootCommand()
	root.SetArgs([]string{"layout", input, "-f", "svg,json", "--no-cache"})
	if err := root.Execute(); err != nil {
		t.Fatalf("layout: %v", err)
	}
	for _, name := range []string{"org.svg", "org.layout.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	root = newTestCLI().RootCommand()
	out := filepath.Join(dir, "again.svg")
	root.SetArgs([]string{"render", filepath.Join(dir, "org.layout.json"), "-o", out, "--no-cache"})
	if err := root.Execute(); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Errorf("render output is not svg: %.60s", data)
	}
}

func TestGrowHeadless(t *testing.T) {
	out := filepath.Join(t.TempDir(), "tree.json")
	root := newTestCLI().RootCommand()
	root.SetArgs([]string{"grow", "--mode", "instant", "--seed", "3", "-o", out})
	if err := root.Execute(); err != nil {
		t.Fatalf("grow: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"complete": true`)) {
		t.Errorf("forest is not complete: %.200s", data)
	}
}
