package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/blocksets/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := filepath.Join(t.TempDir(), "custom-cache")
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestConfigDirXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")

	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-config", appName); dir != want {
		t.Errorf("configDir() = %q, want %q", dir, want)
	}
}

func TestCLICacheDirFromConfig(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.config = defaultConfig()
	c.config.Cache.Dir = "/srv/blocksets-cache"

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != "/srv/blocksets-cache" {
		t.Errorf("cacheDir() = %q, want configured dir", dir)
	}
}

func TestNewCacheBackends(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	ctx := context.Background()

	c := New(io.Discard, LogInfo)
	ch, err := c.newCache(ctx, false)
	if err != nil {
		t.Fatalf("newCache() error: %v", err)
	}
	if _, ok := ch.(*cache.FileCache); !ok {
		t.Errorf("newCache() = %T, want *cache.FileCache", ch)
	}

	ch, _ = c.newCache(ctx, true)
	if _, ok := ch.(*cache.NullCache); !ok {
		t.Errorf("newCache(noCache) = %T, want *cache.NullCache", ch)
	}

	c.config.Cache.Backend = backendNone
	ch, _ = c.newCache(ctx, false)
	if _, ok := ch.(*cache.NullCache); !ok {
		t.Errorf("newCache(backend none) = %T, want *cache.NullCache", ch)
	}
}

func TestNewKeyer(t *testing.T) {
	c := New(io.Discard, LogInfo)
	if k := c.newKeyer(); k != nil {
		t.Errorf("newKeyer() without prefix = %T, want nil", k)
	}

	c.config.Cache.Prefix = "team:"
	k := c.newKeyer()
	if k == nil {
		t.Fatal("newKeyer() with prefix = nil")
	}
	if key := k.SplitKey("abc", cache.SplitKeyOpts{}); !strings.HasPrefix(key, "team:") {
		t.Errorf("SplitKey() = %q, want team: prefix", key)
	}

	c.config.Cache.Backend = backendRedis
	if k := c.newKeyer(); k != nil {
		t.Errorf("newKeyer() on redis = %T, want nil", k)
	}
}

func TestCacheCommands(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", home)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	fc, err := cache.NewFileCache(filepath.Join(home, appName))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	_ = fc.Set(ctx, "live", []byte("x"), time.Hour)
	_ = fc.Set(ctx, "stale", []byte("y"), time.Nanosecond)
	time.Sleep(time.Millisecond)

	for _, args := range [][]string{
		{"cache", "path"},
		{"cache", "info"},
		{"cache", "prune"},
	} {
		if err := execute(t, args...); err != nil {
			t.Fatalf("%s: %v", strings.Join(args, " "), err)
		}
	}
	if st, _ := fc.Stats(); st.Entries != 1 || st.Expired != 0 {
		t.Errorf("after prune Stats() = %+v, want 1 live entry", st)
	}

	if err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if st, _ := fc.Stats(); st.Entries != 0 {
		t.Errorf("after clear Entries = %d, want 0", st.Entries)
	}
}

func TestCacheCommandsEmpty(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", filepath.Join(t.TempDir(), "missing"))
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	for _, sub := range []string{"info", "prune", "clear"} {
		if err := execute(t, "cache", sub); err != nil {
			t.Errorf("cache %s on missing dir: %v", sub, err)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
