package cli

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/matzehuels/arbor/pkg/cache"
	"github.com/matzehuels/arbor/pkg/config"
)

func TestCacheDirConfigured(t *testing.T) {
	dir, err := cacheDir(config.CacheConfig{Dir: "/srv/arbor-cache"})
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != "/srv/arbor-cache" {
		t.Errorf("cacheDir() = %q, want the configured dir", dir)
	}
}

func TestCacheDirXDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CACHE_HOME is only honoured on linux")
	}
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := cacheDir(config.CacheConfig{})
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestNewCacheBackends(t *testing.T) {
	ctx := t.Context()
	tests := []struct {
		name     string
		cc       config.CacheConfig
		noCache  bool
		wantNull bool
		wantErr  bool
	}{
		{"Disabled", config.CacheConfig{Backend: "file", Dir: t.TempDir()}, true, true, false},
		{"None", config.CacheConfig{Backend: "none"}, false, true, false},
		{"File", config.CacheConfig{Backend: "file", Dir: t.TempDir()}, false, false, false},
		{"BadRedisURL", config.CacheConfig{Backend: "redis", RedisURL: "::not a url"}, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := newCache(ctx, tt.cc, tt.noCache)
			if (err != nil) != tt.wantErr {
				t.Fatalf("newCache() error = %v, wantErr %v", err, tt.wantErr)
			}
			if c == nil {
				return
			}
			defer c.Close()
			if _, isNull := c.(cache.NullCache); isNull != tt.wantNull {
				t.Errorf("null cache = %v, want %v", isNull, tt.wantNull)
			}
		})
	}
}
