package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/needful/pkg/config"
)

func TestCacheDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}

	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	dir, err = cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(xdg, appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestFileCacheDir(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	t.Setenv("NEEDFUL_CACHE_DIR", "")

	cfgDir := t.TempDir()
	withDir := filepath.Join(cfgDir, "with-dir.toml")
	withoutDir := filepath.Join(cfgDir, "without-dir.toml")
	if err := os.WriteFile(withDir, []byte("[cache]\nbackend = \"file\"\ndir = \"fingerprints\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(withoutDir, []byte("[cache]\nbackend = \"file\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		config string
		want   string
	}{
		{withDir, filepath.Join(cfgDir, "fingerprints")},
		{withoutDir, filepath.Join(xdg, appName)},
	}
	for _, tt := range tests {
		c := New(io.Discard, log.InfoLevel)
		c.configPath = tt.config
		got, err := c.fileCacheDir()
		if err != nil {
			t.Fatalf("fileCacheDir(%s): %v", tt.config, err)
		}
		if got != tt.want {
			t.Errorf("fileCacheDir(%s) = %q, want %q", filepath.Base(tt.config), got, tt.want)
		}
	}
}

func TestNewCacheWithoutCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", "")

	if _, err := newCache(context.Background(), config.Cache{Backend: config.CacheFile}); err == nil {
		t.Error("newCache(file) with no cache dir should fail, not fall back")
	}
}
