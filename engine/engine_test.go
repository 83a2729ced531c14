package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-deferred/common"
	"github.com/Carmen-Shannon/oxy-deferred/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// fakeWindow refreshes up to maxRefreshes times at 16ms steps, or until closed.
type fakeWindow struct {
	maxRefreshes int
	refreshes    int
	closed       int
	userClosed   bool
	onRefresh    func(timestampMillis float64)
	onKeyDown    func(keyCode uint32)
}

var _ window.Window = &fakeWindow{}

func (w *fakeWindow) SetRefreshCallback(cb func(timestampMillis float64)) { w.onRefresh = cb }
func (w *fakeWindow) SetKeyDownCallback(cb func(keyCode uint32))          { w.onKeyDown = cb }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor          { return nil }
func (w *fakeWindow) IsRunning() bool                                     { return w.closed == 0 && !w.userClosed }
func (w *fakeWindow) Width() int                                          { return 512 }
func (w *fakeWindow) Height() int                                         { return 512 }

func (w *fakeWindow) Close() error {
	w.closed++
	return nil
}

func (w *fakeWindow) ProcessMessages() {
	for w.IsRunning() && w.refreshes < w.maxRefreshes {
		w.refreshes++
		if w.onRefresh != nil {
			w.onRefresh(float64(w.refreshes) * 16)
		}
	}
}

func TestRunCallsFramePerRefresh(t *testing.T) {
	win := &fakeWindow{maxRefreshes: 4}
	var stamps []float64
	e := NewEngine(WithWindow(win), WithFrameCallback(func(ts float64) error {
		stamps = append(stamps, ts)
		return nil
	}))

	e.Run()

	want := []float64{16, 32, 48, 64}
	if len(stamps) != len(want) {
		t.Fatalf("got %d frames, want %d", len(stamps), len(want))
	}
	for i := range want {
		if stamps[i] != want[i] {
			t.Errorf("frame %d timestamp = %v, want %v", i, stamps[i], want[i])
		}
	}
	if e.FrameCount() != 4 || e.DroppedFrames() != 0 {
		t.Errorf("FrameCount=%d DroppedFrames=%d", e.FrameCount(), e.DroppedFrames())
	}
	if win.closed != 1 {
		t.Errorf("window closed %d times, want 1", win.closed)
	}
}

func TestFrameErrorsAreDroppedNotFatal(t *testing.T) {
	win := &fakeWindow{maxRefreshes: 5}
	n := 0
	e := NewEngine(WithWindow(win), WithFrameCallback(func(float64) error {
		n++
		if n%2 == 0 {
			return errors.New("surface lost")
		}
		return nil
	}))

	e.Run()

	if n != 5 {
		t.Errorf("callback ran %d times, want 5", n)
	}
	if e.FrameCount() != 3 || e.DroppedFrames() != 2 {
		t.Errorf("FrameCount=%d DroppedFrames=%d, want 3 and 2", e.FrameCount(), e.DroppedFrames())
	}
}

func TestQuitStopsAtNextRefresh(t *testing.T) {
	win := &fakeWindow{maxRefreshes: 100}
	var e Engine
	n := 0
	e = NewEngine(WithWindow(win), WithFrameCallback(func(float64) error {
		n++
		if n == 3 {
			e.Quit()
			e.Quit()
		}
		return nil
	}))

	e.Run()

	if n != 3 {
		t.Errorf("callback ran %d times after Quit, want 3", n)
	}
	if win.refreshes != 4 {
		t.Errorf("window refreshed %d times, want 4", win.refreshes)
	}
	if win.closed != 1 {
		t.Errorf("window closed %d times, want 1", win.closed)
	}
}

func TestPanickingFrameQuits(t *testing.T) {
	win := &fakeWindow{maxRefreshes: 10}
	n := 0
	e := NewEngine(WithWindow(win), WithFrameCallback(func(float64) error {
		n++
		panic("boom")
	}))

	e.Run()

	if n != 1 {
		t.Errorf("callback ran %d times, want 1", n)
	}
	if win.closed != 1 {
		t.Errorf("window closed %d times, want 1", win.closed)
	}
}

func TestFrameDuration(t *testing.T) {
	tests := []struct {
		fps  float64
		want time.Duration
	}{
		{0, 0},
		{-30, 0},
		{50, 20 * time.Millisecond},
		{1, time.Second},
	}
	for _, tt := range tests {
		if got := frameDuration(tt.fps); got != tt.want {
			t.Errorf("frameDuration(%v) = %v, want %v", tt.fps, got, tt.want)
		}
	}
}

func TestRunWithoutWindow(t *testing.T) {
	e := NewEngine()
	e.Run()
	if e.Window() != nil || e.FrameCount() != 0 {
		t.Errorf("engine without a window rendered frames")
	}
}

func TestQuitKey(t *testing.T) {
	tests := []struct {
		name       string
		key        uint32
		wantFrames int
	}{
		{"escape quits", common.KeyEsc, 2},
		{"other keys ignored", 'A', 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win := &fakeWindow{maxRefreshes: 6}
			n := 0
			e := NewEngine(WithWindow(win), WithQuitKey(common.KeyEsc), WithFrameCallback(func(float64) error {
				n++
				if n == 2 {
					win.onKeyDown(tt.key)
				}
				return nil
			}))
			if win.onKeyDown == nil {
				t.Fatalf("quit key did not install a key-down callback")
			}

			e.Run()

			if n != tt.wantFrames {
				t.Errorf("callback ran %d times, want %d", n, tt.wantFrames)
			}
			if win.closed != 1 {
				t.Errorf("window closed %d times, want 1", win.closed)
			}
		})
	}
}

func TestWindowClosedByUserIsReleased(t *testing.T) {
	win := &fakeWindow{maxRefreshes: 10}
	n := 0
	e := NewEngine(WithWindow(win), WithFrameCallback(func(float64) error {
		n++
		if n == 3 {
			win.userClosed = true
		}
		return nil
	}))

	e.Run()

	if n != 3 {
		t.Errorf("callback ran %d times, want 3", n)
	}
	if win.closed != 1 {
		t.Errorf("window closed %d times, want 1", win.closed)
	}
}
