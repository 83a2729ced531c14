// Command deferred renders two rotating boxes over a floor with deferred shading,
// overlaying the GBuffer albedo and normal attachments along the bottom edge.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-deferred/common"
	"github.com/Carmen-Shannon/oxy-deferred/config"
	"github.com/Carmen-Shannon/oxy-deferred/engine"
	"github.com/Carmen-Shannon/oxy-deferred/engine/camera"
	"github.com/Carmen-Shannon/oxy-deferred/engine/deferred"
	"github.com/Carmen-Shannon/oxy-deferred/engine/renderer"
	"github.com/Carmen-Shannon/oxy-deferred/engine/window"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML settings file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatal(err)
	}
}

// run builds the renderer and blocks until the window closes. Deferred releases
// run before main exits on error.
func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	level, _ := cfg.Log.SlogLevel()
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// ── Window + Engine ─────────────────────────────────────────────────
	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
	)
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithProfiling(cfg.Engine.Profiling),
		engine.WithRenderFrameLimit(float64(cfg.Engine.FrameLimit)),
		engine.WithQuitKey(common.KeyEsc),
	)

	// ── Renderer ────────────────────────────────────────────────────────
	r := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		win,
		renderer.WithPresentMode(renderer.ParsePresentMode(cfg.Renderer.PresentMode)),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.SoftwareAdapter),
	)
	defer r.Release()

	// ── Deferred pipeline ───────────────────────────────────────────────
	orch, err := deferred.NewOrchestrator(r, win.Width(), win.Height(),
		deferred.WithCamera(camera.NewCamera(
			camera.WithAspect(float32(win.Width())/float32(win.Height())),
		)),
		deferred.WithDebugOverlay(cfg.Renderer.DebugOverlay),
	)
	if err != nil {
		return fmt.Errorf("create deferred pipeline: %w", err)
	}
	defer orch.Release()

	var state deferred.FrameState
	eng.SetFrameCallback(func(timestampMillis float64) error {
		next, err := orch.Frame(state, timestampMillis)
		state = next
		return err
	})

	eng.Run()
	return nil
}
