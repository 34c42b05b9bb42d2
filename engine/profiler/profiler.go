// Package profiler periodically logs frame rate, frame phase timings and memory statistics.
package profiler

import (
	"fmt"
	"log"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/Carmen-Shannon/voidstar-go/engine/timer"
)

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	clock          timer.Timer
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a new Profiler reporting once per second.
//
// Parameters:
//   - clock: the frame timer whose smoothed delta and phases are reported; may be nil
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(clock timer.Timer) *Profiler {
	return &Profiler{
		clock:          clock,
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
}

// SetInterval changes how often stats are logged. Non-positive values are ignored.
func (p *Profiler) SetInterval(d time.Duration) {
	if d > 0 {
		p.updateInterval = d
	}
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, smoothed frame time, per-phase times, heap usage, allocation rate and GC count.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	line, ok := p.tick(time.Now())
	if ok {
		log.Print(line)
	}
	return ok
}

func (p *Profiler) tick(now time.Time) (string, bool) {
	p.frameCount++
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return "", false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	allocRateMB := float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()
	gcCount := p.memStats.NumGC

	var frameMs float32
	var phases map[string]float32
	if p.clock != nil {
		frameMs = p.clock.SmoothedDelta() * 1000
		phases = p.clock.Phases()
	}

	line := fmt.Sprintf("[Profiler] FPS: %.2f | Frame: %.2f ms%s | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d",
		fps, frameMs, formatPhases(phases), allocMB, allocRateMB, gcCount-p.lastGCCount)

	p.frameCount = 0
	p.lastTime = now
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return line, true
}

// formatPhases renders phase averages in milliseconds, sorted by name.
func formatPhases(phases map[string]float32) string {
	if len(phases) == 0 {
		return ""
	}
	names := make([]string, 0, len(phases))
	for name := range phases {
		names = append(names, name)
	}
	slices.Sort(names)

	var sb strings.Builder
	sb.WriteString(" (")
	for i, name := range names {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s %.2f ms", name, phases[name]*1000)
	}
	sb.WriteString(")")
	return sb.String()
}
