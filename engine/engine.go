package engine

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-deferred/common"
	"github.com/Carmen-Shannon/oxy-deferred/engine/profiler"
	"github.com/Carmen-Shannon/oxy-deferred/engine/window"
)

// FrameCallback renders one frame. timestampMillis is the host's monotonic clock.
// A returned error drops that frame; the loop keeps running.
type FrameCallback func(timestampMillis float64) error

// engine implements the Engine interface.
// Frames run on the window's message loop thread, one per refresh.
type engine struct {
	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once
	closeOnce   sync.Once

	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled bool

	frameCallback FrameCallback
	frameCount    uint64
	droppedFrames uint64

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	quitKey    uint32
	hasQuitKey bool
}

// Engine drives the frame callback from the window's refresh loop.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetFrameCallback registers the function called once per window refresh.
	//
	// Parameters:
	//   - callback: the per-frame function (or nil to render nothing)
	SetFrameCallback(callback FrameCallback)

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// FrameCount returns how many frames the callback completed without error.
	//
	// Returns:
	//   - uint64: the number of rendered frames
	FrameCount() uint64

	// DroppedFrames returns how many frames the callback failed.
	//
	// Returns:
	//   - uint64: the number of dropped frames
	DroppedFrames() uint64

	// Run starts the window message loop (blocks until the window closes or Quit is called).
	Run()

	// Quit stops the loop and closes the window at the next refresh.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration (window, profiling, frame callback, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		quitChannel:      make(chan struct{}),
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetRefreshCallback(e.refresh)
		if e.hasQuitKey {
			e.window.SetKeyDownCallback(e.keyDown)
		}
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() {
	if e.window == nil {
		common.Logger().Warn("engine has no window; nothing to run")
		return
	}
	common.Logger().Info("engine loop starting", "frame_limit", e.renderFrameLimit)
	e.window.ProcessMessages()
	e.closeWindow()
	common.Logger().Info("engine loop stopped", "frames", e.frameCount, "dropped", e.droppedFrames)
}

// Quit signals the loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) quitting() bool {
	select {
	case <-e.quitChannel:
		return true
	default:
		return false
	}
}

// closeWindow releases the window once, including a window the user already closed.
func (e *engine) closeWindow() {
	e.closeOnce.Do(func() {
		if e.window == nil {
			return
		}
		if err := e.window.Close(); err != nil {
			common.Logger().Warn("close window", "error", err)
		}
	})
}

func (e *engine) keyDown(keyCode uint32) {
	if keyCode == e.quitKey {
		e.Quit()
	}
}

// refresh runs one frame. It is the window's refresh callback.
// Recovers from panics in the frame callback and quits instead of crashing the process.
func (e *engine) refresh(timestampMillis float64) {
	if e.quitting() {
		e.closeWindow()
		return
	}

	defer func() {
		if r := recover(); r != nil {
			common.Logger().Error("frame callback panicked", "panic", r)
			e.Quit()
		}
	}()

	start := time.Now()

	if e.frameCallback != nil {
		if err := e.frameCallback(timestampMillis); err != nil {
			e.droppedFrames++
			common.Logger().Warn("dropped frame", "timestamp_ms", timestampMillis, "error", err)
		} else {
			e.frameCount++
		}
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick(time.Now())
	}

	// Frame rate limiting
	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - time.Since(start); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetFrameCallback(callback FrameCallback) {
	e.frameCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func (e *engine) FrameCount() uint64 {
	return e.frameCount
}

func (e *engine) DroppedFrames() uint64 {
	return e.droppedFrames
}

// frameDuration converts a frame cap to the minimum frame time; fps <= 0 means uncapped.
func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
