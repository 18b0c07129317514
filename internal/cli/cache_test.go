package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
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
	tmp := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", tmp)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(tmp, appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}
	if !strings.HasSuffix(dir, filepath.Join(".config", appName)) {
		t.Errorf("configDir() = %q, should end with .config/%s", dir, appName)
	}
}

func TestCacheCommands(t *testing.T) {
	env := newTestEnv(t)
	graph := env.writeGraph(t, threeThreads)

	if _, _, err := env.run(t, "", "infer", graph); err != nil {
		t.Fatalf("infer: %v", err)
	}

	out, _, err := env.run(t, "", "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if want := filepath.Join(env.cacheHome, appName) + "\n"; out != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}

	out, _, err = env.run(t, "", "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 1 cached results") {
		t.Errorf("cache clear output = %q", out)
	}

	out, _, err = env.run(t, "", "cache", "clear")
	if err != nil {
		t.Fatalf("second cache clear: %v", err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("second cache clear output = %q", out)
	}
}

func TestCachePathFromConfig(t *testing.T) {
	env := newTestEnv(t)
	dir := filepath.Join(t.TempDir(), "results")
	cfg := env.writeFile(t, "poatree.toml", "[cache]\ndir = \""+filepath.ToSlash(dir)+"\"\n")

	out, _, err := env.run(t, "", "--config", cfg, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if out != dir+"\n" {
		t.Errorf("cache path = %q, want %q", out, dir)
	}
}
