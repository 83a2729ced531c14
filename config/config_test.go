package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil || cfg != Default() {
		t.Errorf("Load(\"\") = %+v, %v", cfg, err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
window:
  title: gbuffer test
renderer:
  present_mode: uncapped
  debug_overlay: false
engine:
  frame_limit: 144
  profiling: true
log:
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Window.Title != "gbuffer test" || cfg.Window.Width != 512 || cfg.Window.Height != 512 {
		t.Errorf("window = %+v, want title override and default size", cfg.Window)
	}
	if cfg.Renderer.PresentMode != "uncapped" || cfg.Renderer.DebugOverlay {
		t.Errorf("renderer = %+v", cfg.Renderer)
	}
	if cfg.Engine.FrameLimit != 144 || !cfg.Engine.Profiling {
		t.Errorf("engine = %+v", cfg.Engine)
	}
	if lvl, _ := cfg.Log.SlogLevel(); lvl != slog.LevelDebug {
		t.Errorf("level = %v, want debug", lvl)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil || cfg != Default() {
		t.Errorf("empty file: %+v, %v", cfg, err)
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed yaml", "window: [512"},
		{"unknown key", "window:\n  depth: 3\n"},
		{"wrong type", "window:\n  width: wide\n"},
		{"zero size", "window:\n  width: 0\n"},
		{"bad present mode", "renderer:\n  present_mode: mailbox\n"},
		{"negative frame limit", "engine:\n  frame_limit: -1\n"},
		{"bad log level", "log:\n  level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Errorf("Load accepted %q", tt.body)
			}
		})
	}
}
