package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewWithExplicitDir(t *testing.T) {
	cfg, err := New("/tmp/aitodo-test")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if cfg.Dir != "/tmp/aitodo-test" {
		t.Errorf("Dir = %q, want /tmp/aitodo-test", cfg.Dir)
	}
}

func TestDefaultConfigDirXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	got := DefaultConfigDir()
	want := filepath.Join("/custom/config", AppName)
	if got != want {
		t.Errorf("DefaultConfigDir = %q, want %q", got, want)
	}
}

func TestPaths(t *testing.T) {
	cfg := &Config{Dir: "/cfg"}
	if got := cfg.TokenPath(); got != filepath.Join("/cfg", TokenFile) {
		t.Errorf("TokenPath = %q", got)
	}
	if got := cfg.SettingsPath(); got != filepath.Join("/cfg", SettingsFile) {
		t.Errorf("SettingsPath = %q", got)
	}
	if got := cfg.NotifiedDBPath(); got != filepath.Join("/cfg", NotifiedDBFile) {
		t.Errorf("NotifiedDBPath = %q", got)
	}
}

func TestHasTokenAndRemove(t *testing.T) {
	cfg := &Config{Dir: t.TempDir()}

	if cfg.HasToken() {
		t.Error("HasToken = true before any token written")
	}
	if err := os.WriteFile(cfg.TokenPath(), []byte(`{}`), 0600); err != nil {
		t.Fatal(err)
	}
	if !cfg.HasToken() {
		t.Error("HasToken = false after writing token")
	}
	if err := cfg.RemoveToken(); err != nil {
		t.Fatalf("RemoveToken failed: %v", err)
	}
	if cfg.HasToken() {
		t.Error("HasToken = true after RemoveToken")
	}
}
