// Package config loads the optional YAML settings file for the deferred renderer executable.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the settings file read when no -config flag is given.
const DefaultPath = "oxy-deferred.yml"

// Config holds the executable settings. Fields absent from the file keep their defaults.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Renderer RendererConfig `yaml:"renderer"`
	Engine   EngineConfig   `yaml:"engine"`
	Log      LogConfig      `yaml:"log"`
}

// WindowConfig describes the fixed-size host window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// RendererConfig selects GPU behaviour.
type RendererConfig struct {
	// PresentMode is "vsync" or "uncapped".
	PresentMode string `yaml:"present_mode"`
	// SoftwareAdapter requests the fallback (CPU) adapter.
	SoftwareAdapter bool `yaml:"software_adapter"`
	// DebugOverlay draws the GBuffer attachments over the lit image.
	DebugOverlay bool `yaml:"debug_overlay"`
}

// EngineConfig controls the frame loop.
type EngineConfig struct {
	// FrameLimit caps frames per second; 0 means uncapped.
	FrameLimit int `yaml:"frame_limit"`
	// Profiling logs FPS and heap statistics once per second.
	Profiling bool `yaml:"profiling"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level"`
}

// Default returns the settings used when no file exists.
//
// Returns:
//   - Config: a 512x512 vsync window with the debug overlay on and info logging
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-deferred",
			Width:  512,
			Height: 512,
		},
		Renderer: RendererConfig{
			PresentMode:  "vsync",
			DebugOverlay: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
//
// Parameters:
//   - path: the YAML file to read, or "" for defaults only
//
// Returns:
//   - Config: the merged settings
//   - error: a read, parse or validation error
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
//
// Returns:
//   - error: nil if every setting is usable
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	switch c.Renderer.PresentMode {
	case "vsync", "uncapped":
	default:
		return fmt.Errorf("unknown present_mode %q", c.Renderer.PresentMode)
	}
	if c.Engine.FrameLimit < 0 {
		return fmt.Errorf("frame_limit %d must not be negative", c.Engine.FrameLimit)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses Level.
//
// Returns:
//   - slog.Level: the parsed level
//   - error: if the name is not a slog level
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}
