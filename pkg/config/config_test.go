package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/arbor/pkg/core/growth"
	"github.com/matzehuels/arbor/pkg/core/layout"
	"github.com/matzehuels/arbor/pkg/errors"
)

func TestDefaultMatchesCore(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	lo := cfg.LayoutOptions()
	want := layout.DefaultOptions()
	if math.Abs(lo.BranchAngle-want.BranchAngle) > 1e-12 {
		t.Errorf("BranchAngle = %v, want %v", lo.BranchAngle, want.BranchAngle)
	}
	if lo.MaxDepth != want.MaxDepth || lo.MinBranchLength != want.MinBranchLength {
		t.Errorf("layout options = %+v", lo)
	}

	g := cfg.GrowthRules()
	wantG := growth.DefaultConfig()
	if math.Abs(g.BranchAngle-wantG.BranchAngle) > 1e-12 {
		t.Errorf("growth BranchAngle = %v, want %v", g.BranchAngle, wantG.BranchAngle)
	}
	g.BranchAngle = wantG.BranchAngle
	if diff := cmp.Diff(wantG, g); diff != "" {
		t.Errorf("growth rules mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(growth.DefaultSeed(), cfg.GrowthSeed()); diff != "" {
		t.Errorf("seed mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.Origin(); got != (layout.Position{X: 600, Y: 650}) {
		t.Errorf("Origin = %+v", got)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  bool
		wantCode errors.Code
		check    func(t *testing.T, cfg Config)
	}{
		{
			name:  "Empty",
			input: "",
			check: func(t *testing.T, cfg Config) {
				if diff := cmp.Diff(Default(), cfg); diff != "" {
					t.Errorf("empty file changed defaults (-want +got):\n%s", diff)
				}
			},
		},
		{
			name: "Overrides",
			input: `
[layout]
branch_angle_deg = 90
max_depth = 3

[[layout.bands]]
min = 0
max = -1
base_length = 50
base_spacing = 10

[growth]
fast_cadence = 3
tick_interval = "40ms"
`,
			check: func(t *testing.T, cfg Config) {
				lo := cfg.LayoutOptions()
				if math.Abs(lo.BranchAngle-math.Pi/2) > 1e-12 {
					t.Errorf("BranchAngle = %v, want π/2", lo.BranchAngle)
				}
				if lo.MaxDepth != 3 {
					t.Errorf("MaxDepth = %d, want 3", lo.MaxDepth)
				}
				if lo.BranchFactor != layout.DefaultBranchFactor {
					t.Errorf("BranchFactor = %v, want default", lo.BranchFactor)
				}
				if l, _ := lo.Bands.Select(1000); l != 50 {
					t.Errorf("band length = %v, want 50", l)
				}
				if cfg.Growth.FastCadence != 3 {
					t.Errorf("FastCadence = %d, want 3", cfg.Growth.FastCadence)
				}
				if d, _ := cfg.Growth.Interval(); d != 40*time.Millisecond {
					t.Errorf("Interval = %v, want 40ms", d)
				}
			},
		},
		{name: "Malformed", input: "[layout\n", wantErr: true, wantCode: errors.ErrCodeInvalidConfig},
		{name: "UnknownKey", input: "[layout]\nbogus = 1\n", wantErr: true, wantCode: errors.ErrCodeInvalidConfig},
		{name: "ZeroMaxDepth", input: "[layout]\nmax_depth = 0\n", wantErr: true, wantCode: errors.ErrCodeInvalidConfig},
		{name: "ZeroCadence", input: "[growth]\ngrowth_cadence = 0\n", wantErr: true, wantCode: errors.ErrCodeInvalidConfig},
		{name: "BadInterval", input: "[growth]\ntick_interval = \"soon\"\n", wantErr: true, wantCode: errors.ErrCodeInvalidConfig},
		{name: "BadBackend", input: "[cache]\nbackend = \"memcached\"\n", wantErr: true, wantCode: errors.ErrCodeInvalidConfig},
		{name: "RedisNeedsURL", input: "[cache]\nbackend = \"redis\"\n", wantErr: true, wantCode: errors.ErrCodeInvalidConfig},
		{name: "BadBackground", input: "[render]\nbackground = \"navy\"\n", wantErr: true, wantCode: errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			err := Decode([]byte(tt.input), &cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if code := errors.GetCode(err); code != tt.wantCode {
					t.Errorf("code = %s, want %s", code, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Render.Scheme = 7
	cfg.Cache.Backend = "none"

	path := filepath.Join(t.TempDir(), "custom.toml")
	if err := Write(cfg, path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissing(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("missing default file should not fail: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}

	if _, err := Load(filepath.Join(dir, "other.toml")); err == nil {
		t.Error("expected error for explicit missing file")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("[growth]\ngrowth_speed = -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load = %v, want INVALID_CONFIG", err)
	}
}

func TestCacheDuration(t *testing.T) {
	if d, err := (CacheConfig{}).Duration(); err != nil || d != 24*time.Hour {
		t.Errorf("Duration() = %v, %v", d, err)
	}
	if _, err := (CacheConfig{TTL: "-1h"}).Duration(); err == nil {
		t.Error("expected error for negative ttl")
	}
}
