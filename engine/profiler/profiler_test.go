package profiler

import (
	"testing"
	"time"
)

func TestTickReportsOncePerInterval(t *testing.T) {
	p := NewProfilerWithInterval(time.Second)
	start := p.lastTime

	if p.Tick(start.Add(500 * time.Millisecond)) {
		t.Errorf("reported before the interval elapsed")
	}
	if !p.Tick(start.Add(time.Second)) {
		t.Errorf("did not report once the interval elapsed")
	}
	if p.frameCount != 0 || p.worstFrame != 0 {
		t.Errorf("counters not reset after a report: frames=%d worst=%v", p.frameCount, p.worstFrame)
	}
	if p.Tick(start.Add(1500 * time.Millisecond)) {
		t.Errorf("reported twice in one interval")
	}
}

func TestTickTracksWorstFrame(t *testing.T) {
	p := NewProfilerWithInterval(time.Hour)
	start := p.lastFrame

	p.Tick(start.Add(10 * time.Millisecond))
	p.Tick(start.Add(40 * time.Millisecond))
	p.Tick(start.Add(45 * time.Millisecond))

	if p.worstFrame != 30*time.Millisecond {
		t.Errorf("worstFrame = %v, want 30ms", p.worstFrame)
	}
	if p.frameCount != 3 {
		t.Errorf("frameCount = %d, want 3", p.frameCount)
	}
}
