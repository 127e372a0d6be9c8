package cli

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/orakul/orakul/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	tests := []struct {
		name string
		xdg  string
		home string
		want string
	}{
		{"xdg", "/tmp/xdg-cache", "/home/u", filepath.Join("/tmp/xdg-cache", appName)},
		{"home", "", "/home/u", filepath.Join("/home/u", ".cache", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			t.Setenv("HOME", tt.home)

			got, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewCacheBackends(t *testing.T) {
	ctx := context.Background()
	c := New(io.Discard, log.ErrorLevel)

	c.Config.Cache.Backend = "none"
	cc, err := c.newCache(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cc.(cache.NullCache); !ok {
		t.Errorf("backend none = %T, want NullCache", cc)
	}

	dir := t.TempDir()
	c.Config.Cache.Backend = "file"
	c.Config.Cache.Dir = dir
	cc, err = c.newCache(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cc.(cache.NullCache); !ok {
		t.Errorf("--no-cache = %T, want NullCache", cc)
	}

	cc, err = c.newCache(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	defer cc.Close()
	if err := cc.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, ok := cc.(cache.Clearer); !ok {
		t.Error("file cache should support Clear")
	}
}
