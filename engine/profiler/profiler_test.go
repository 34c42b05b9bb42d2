package profiler

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/voidstar-go/engine/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickReportsOncePerInterval(t *testing.T) {
	p := NewProfiler(nil)
	start := p.lastTime

	for i := 1; i < 10; i++ {
		_, ok := p.tick(start.Add(time.Duration(i) * 100 * time.Millisecond))
		assert.False(t, ok)
	}
	line, ok := p.tick(start.Add(time.Second))
	require.True(t, ok)
	assert.Contains(t, line, "FPS: 10.00")
	assert.Equal(t, 0, p.frameCount)

	_, ok = p.tick(start.Add(time.Second + time.Millisecond))
	assert.False(t, ok, "the window restarts after a report")
}

func TestTickIncludesTimerPhases(t *testing.T) {
	clock := timer.NewTimer()
	clock.RecordPhase("render", 4*time.Millisecond)
	clock.RecordPhase("update", time.Millisecond)

	p := NewProfiler(clock)
	p.SetInterval(time.Millisecond)
	line, ok := p.tick(p.lastTime.Add(time.Millisecond))
	require.True(t, ok)
	assert.Contains(t, line, "(render 4.00 ms, update 1.00 ms)")
}

func TestSetIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(nil)
	p.SetInterval(0)
	assert.Equal(t, time.Second, p.updateInterval)
	p.SetInterval(-time.Second)
	assert.Equal(t, time.Second, p.updateInterval)
}

func TestFormatPhasesEmpty(t *testing.T) {
	assert.Empty(t, formatPhases(nil))
}
