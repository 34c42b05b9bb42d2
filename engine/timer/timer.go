// Package timer tracks frame timing for the main loop.
package timer

import (
	"time"
)

// DefaultSmoothing is the weight given to the newest sample in the moving averages.
const DefaultSmoothing = 0.1

// Timer measures frame deltas, total elapsed time and smoothed per-phase durations.
// All values are in seconds.
type Timer interface {
	// OnUpdate advances the timer to now.
	// The first call only records the start time and yields a zero delta.
	//
	// Parameters:
	//   - now: monotonic time in seconds
	OnUpdate(now float64)

	// Delta returns the duration of the last frame in seconds.
	Delta() float32

	// Elapsed returns the sum of all frame deltas in seconds.
	Elapsed() float32

	// SmoothedDelta returns the exponential moving average of the frame delta.
	SmoothedDelta() float32

	// MeasurePhase runs fn and folds its duration into the moving average for name.
	//
	// Parameters:
	//   - name: phase label, e.g. "update" or "render"
	//   - fn: the work to time
	MeasurePhase(name string, fn func())

	// RecordPhase folds an externally measured duration into the moving average for name.
	//
	// Parameters:
	//   - name: phase label
	//   - d: measured duration
	RecordPhase(name string, d time.Duration)

	// Phases returns a copy of the smoothed phase durations in seconds.
	Phases() map[string]float32

	// Reset clears all accumulated state.
	Reset()
}

type frameTimer struct {
	smoothing float32

	started  bool
	current  float64
	delta    float32
	elapsed  float32
	smoothed float32

	phases map[string]float32
}

var _ Timer = &frameTimer{}

// NewTimer creates a Timer using DefaultSmoothing.
func NewTimer() Timer {
	return NewTimerWithSmoothing(DefaultSmoothing)
}

// NewTimerWithSmoothing creates a Timer whose moving averages weight the newest sample by alpha.
// Values outside (0, 1] fall back to DefaultSmoothing.
func NewTimerWithSmoothing(alpha float32) Timer {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultSmoothing
	}
	return &frameTimer{
		smoothing: alpha,
		phases:    make(map[string]float32),
	}
}

func (t *frameTimer) OnUpdate(now float64) {
	if !t.started {
		t.started = true
		t.current = now
		return
	}
	previous := t.current
	t.current = now
	t.delta = float32(now - previous)
	if t.delta < 0 {
		t.delta = 0
	}
	t.elapsed += t.delta
	t.smoothed = t.ema(t.smoothed, t.delta)
}

func (t *frameTimer) Delta() float32 {
	return t.delta
}

func (t *frameTimer) Elapsed() float32 {
	return t.elapsed
}

func (t *frameTimer) SmoothedDelta() float32 {
	return t.smoothed
}

func (t *frameTimer) MeasurePhase(name string, fn func()) {
	start := time.Now()
	fn()
	t.RecordPhase(name, time.Since(start))
}

func (t *frameTimer) RecordPhase(name string, d time.Duration) {
	t.phases[name] = t.ema(t.phases[name], float32(d.Seconds()))
}

func (t *frameTimer) Phases() map[string]float32 {
	out := make(map[string]float32, len(t.phases))
	for k, v := range t.phases {
		out[k] = v
	}
	return out
}

func (t *frameTimer) Reset() {
	t.started = false
	t.current = 0
	t.delta = 0
	t.elapsed = 0
	t.smoothed = 0
	t.phases = make(map[string]float32)
}

// ema seeds with the first sample so the average does not ramp up from zero.
func (t *frameTimer) ema(avg, sample float32) float32 {
	if avg == 0 {
		return sample
	}
	return avg + t.smoothing*(sample-avg)
}
