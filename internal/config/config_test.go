package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	if !cfg.Viewer.AutoRotate {
		t.Error("expected auto_rotate to be true by default")
	}

	if cfg.Service.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("expected service base URL http://127.0.0.1:8000, got %s", cfg.Service.BaseURL)
	}
	if cfg.Service.RequestTimeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", cfg.Service.RequestTimeout)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yamlData := `
graphics:
  width: 1920
  height: 1080
  vsync: false
viewer:
  auto_rotate: false
service:
  base_url: http://example.com:9000
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yamlData), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync false after file override")
	}
	if cfg.Viewer.AutoRotate {
		t.Error("expected auto_rotate false after file override")
	}
	if cfg.Service.BaseURL != "http://example.com:9000" {
		t.Errorf("unexpected service base URL %s", cfg.Service.BaseURL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("unexpected log level %s", cfg.Logging.Level)
	}

	// Fields absent from the file keep their defaults.
	if cfg.Service.RequestTimeout != 30*time.Second {
		t.Errorf("expected default timeout preserved, got %v", cfg.Service.RequestTimeout)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")

	cfg := Default()
	cfg.Graphics.Width = 800
	cfg.Service.BaseURL = "http://localhost:1234"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.Graphics.Width != 800 {
		t.Errorf("expected width 800 after round trip, got %d", loaded.Graphics.Width)
	}
	if loaded.Service.BaseURL != "http://localhost:1234" {
		t.Errorf("unexpected base URL after round trip: %s", loaded.Service.BaseURL)
	}
}
