package profiler

import (
	"log"
	"runtime"
	"time"
)

// Profiler tracks frame rate, frame time and memory statistics for performance monitoring.
// Outputs stats to the log at a fixed interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	lastFrame      time.Time
	worstFrame     time.Duration
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a new Profiler that reports once per second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return NewProfilerWithInterval(time.Second)
}

// NewProfilerWithInterval creates a new Profiler with a custom reporting interval.
//
// Parameters:
//   - interval: time between log lines (values <= 0 report every frame)
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfilerWithInterval(interval time.Duration) *Profiler {
	now := time.Now()
	return &Profiler{
		lastTime:       now,
		lastFrame:      now,
		updateInterval: interval,
	}
}

// Tick should be called once per frame with the frame's end time.
// Logs FPS, worst frame time, heap usage, allocation rate and GC pauses when the interval has elapsed.
//
// Parameters:
//   - now: the time the frame finished
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(now time.Time) bool {
	p.frameCount++
	if d := now.Sub(p.lastFrame); d > p.worstFrame {
		p.worstFrame = d
	}
	p.lastFrame = now

	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024
	allocRateMB := float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses.
	gcCount := p.memStats.NumGC
	var maxPauseUs uint64
	startIdx := p.lastGCCount
	if gcCount-startIdx > 256 {
		startIdx = gcCount - 256
	}
	for i := startIdx; i < gcCount; i++ {
		if pause := p.memStats.PauseNs[i%256] / 1000; pause > maxPauseUs {
			maxPauseUs = pause
		}
	}

	log.Printf("[Profiler] FPS: %.2f | Worst frame: %.2f ms | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (max: %d µs) | Sys: %.2f MB",
		fps, float64(p.worstFrame.Microseconds())/1000, allocMB, allocRateMB, gcCount, maxPauseUs, sysMB)

	p.frameCount = 0
	p.worstFrame = 0
	p.lastTime = now
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
