package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFirstUpdateHasNoDelta(t *testing.T) {
	tm := NewTimer()
	tm.OnUpdate(5.0)
	assert.Zero(t, tm.Delta())
	assert.Zero(t, tm.Elapsed())
}

func TestDeltaAndElapsed(t *testing.T) {
	tm := NewTimer()
	tm.OnUpdate(1.0)
	tm.OnUpdate(1.5)
	tm.OnUpdate(2.25)
	assert.InDelta(t, 0.75, tm.Delta(), 1e-6)
	assert.InDelta(t, 1.25, tm.Elapsed(), 1e-6)
}

func TestBackwardsClockClampsToZero(t *testing.T) {
	tm := NewTimer()
	tm.OnUpdate(2.0)
	tm.OnUpdate(1.0)
	assert.Zero(t, tm.Delta())
}

func TestSmoothedDeltaConverges(t *testing.T) {
	tm := NewTimerWithSmoothing(0.5)
	now := 0.0
	tm.OnUpdate(now)
	now += 0.1
	tm.OnUpdate(now)
	assert.InDelta(t, 0.1, tm.SmoothedDelta(), 1e-6, "first sample seeds the average")

	now += 0.2
	tm.OnUpdate(now)
	assert.InDelta(t, 0.15, tm.SmoothedDelta(), 1e-6)
}

func TestPhases(t *testing.T) {
	tm := NewTimerWithSmoothing(0.5)
	tm.RecordPhase("render", 10*time.Millisecond)
	tm.RecordPhase("render", 20*time.Millisecond)
	phases := tm.Phases()
	assert.InDelta(t, 0.015, phases["render"], 1e-6)

	phases["render"] = 99
	assert.InDelta(t, 0.015, tm.Phases()["render"], 1e-6, "Phases returns a copy")

	ran := false
	tm.MeasurePhase("update", func() { ran = true })
	assert.True(t, ran)
	assert.Contains(t, tm.Phases(), "update")

	tm.Reset()
	assert.Empty(t, tm.Phases())
}

func TestInvalidSmoothingFallsBack(t *testing.T) {
	tm := NewTimerWithSmoothing(2).(*frameTimer)
	assert.Equal(t, float32(DefaultSmoothing), tm.smoothing)
}
