package postprocess

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlurScheduleParity(t *testing.T) {
	steps := BlurSchedule(DefaultBlurPasses, true)
	require.Len(t, steps, 10)

	for i, s := range steps {
		assert.Equal(t, i, s.Index)
		assert.Equal(t, i%2 == 0, s.Horizontal, "step %d", i)
		if i == 0 {
			assert.Equal(t, AttachmentBright, s.Source)
		} else {
			assert.Equal(t, steps[i-1].Target, s.Source, "step %d reads the previous target", i)
		}
		if s.Horizontal {
			assert.Equal(t, AttachmentPing, s.Target)
		} else {
			assert.Equal(t, AttachmentPong, s.Target)
		}
		assert.NotEqual(t, s.Source, s.Target, "step %d never samples its own target", i)
	}
	assert.Equal(t, AttachmentPong, FinalTarget(steps))
}

func TestBlurScheduleOddAndVerticalFirst(t *testing.T) {
	odd := BlurSchedule(3, true)
	assert.Equal(t, AttachmentPing, FinalTarget(odd))

	vertical := BlurSchedule(2, false)
	require.Len(t, vertical, 2)
	assert.False(t, vertical[0].Horizontal)
	assert.Equal(t, AttachmentPong, vertical[0].Target)
	assert.Equal(t, AttachmentPong, vertical[1].Source)
	assert.Equal(t, AttachmentPing, FinalTarget(vertical))
}

func TestBlurScheduleEmpty(t *testing.T) {
	assert.Empty(t, BlurSchedule(0, true))
	assert.Empty(t, BlurSchedule(-4, true))
	assert.Equal(t, AttachmentBright, FinalTarget(nil))
}

func TestBlurDirection(t *testing.T) {
	assert.Equal(t, [2]float32{0.5, 0}, BlurDirection(true, 2, 8))
	assert.Equal(t, [2]float32{0, 0.125}, BlurDirection(false, 2, 8))
	assert.Equal(t, [2]float32{}, BlurDirection(true, 0, 8))
	assert.Equal(t, "pong", AttachmentPong.String())
}

func TestParamsMarshal(t *testing.T) {
	blur := NewBlurParams(BlurStep{Horizontal: true}, 4, 4)
	assert.Equal(t, 16, blur.Size())
	buf := blur.Marshal()
	require.Len(t, buf, 16)
	assert.Equal(t, float32(0.25), math.Float32frombits(binary.LittleEndian.Uint32(buf[0:])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[8:])))

	comp := GPUCompositeParams{Exposure: 1.5, Gamma: 2.2, BloomStrength: 0.6, BloomEnabled: 1}
	assert.Equal(t, 16, comp.Size())
	buf = comp.Marshal()
	require.Len(t, buf, 16)
	assert.Equal(t, float32(2.2), math.Float32frombits(binary.LittleEndian.Uint32(buf[4:])))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[12:]))

	assert.Contains(t, GPUBlurParamsSource, "struct BlurParams")
	assert.Contains(t, GPUCompositeParamsSource, "struct CompositeParams")
}

func TestQuadData(t *testing.T) {
	assert.Len(t, QuadVertexData(), 4*16)
	idx := QuadIndexData()
	require.Len(t, idx, QuadIndexCount*4)
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(idx[20:]))
	assert.Contains(t, GPUQuadVertexSource, "@location(1) uv")
}
