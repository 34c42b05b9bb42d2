package renderer

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/voidstar-go/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferredSurfaceFormat(t *testing.T) {
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm,
		preferredSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatBGRA8UnormSrgb, wgpu.TextureFormatBGRA8Unorm}))
	assert.Equal(t, wgpu.TextureFormatRGBA8Unorm,
		preferredSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatRGBA8Unorm}))
	assert.Equal(t, wgpu.TextureFormatRGBA8UnormSrgb,
		preferredSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatRGBA8UnormSrgb}))
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, preferredSurfaceFormat(nil))
}

func TestClampExtent(t *testing.T) {
	w, h := clampExtent(0, -4)
	assert.Equal(t, uint32(1), w)
	assert.Equal(t, uint32(1), h)

	w, h = clampExtent(1280, 720)
	assert.Equal(t, uint32(1280), w)
	assert.Equal(t, uint32(720), h)
}

func TestRenderTargetAccessors(t *testing.T) {
	rt := &renderTarget{label: "main", width: 640, height: 480, views: make([]*wgpu.TextureView, 2), textures: make([]*wgpu.Texture, 2)}

	assert.Equal(t, "main", rt.Label())
	assert.Equal(t, 640, rt.Width())
	assert.Equal(t, 480, rt.Height())
	assert.Equal(t, 2, rt.AttachmentCount())
	assert.Equal(t, RenderTargetFormat, rt.Format())
	assert.Nil(t, rt.View(5))
	assert.Nil(t, rt.View(-1))

	rt.Release()
	assert.Equal(t, 0, rt.AttachmentCount())
	assert.NotPanics(t, rt.Release)
}

func TestMergeBindGroupLayouts(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{{Binding: 0, Visibility: wgpu.ShaderStageVertex}}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 1, Visibility: wgpu.ShaderStageFragment},
			{Binding: 0, Visibility: wgpu.ShaderStageFragment},
		}},
		2: {Entries: []wgpu.BindGroupLayoutEntry{{Binding: 0, Visibility: wgpu.ShaderStageFragment}}},
	}

	merged := mergeBindGroupLayouts(vertex, fragment)
	require.Len(t, merged, 2)

	group0 := merged[0].Entries
	require.Len(t, group0, 2)
	assert.Equal(t, uint32(0), group0[0].Binding)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, group0[0].Visibility)
	assert.Equal(t, uint32(1), group0[1].Binding)
	assert.Equal(t, wgpu.ShaderStageFragment, group0[1].Visibility)

	assert.Len(t, merged[2].Entries, 1)
}

func TestRendererPipelineCacheWithoutBackend(t *testing.T) {
	p := pipeline.NewPipeline("flat")
	r := &renderer{pipelineCache: map[string]pipeline.Pipeline{"flat": p}}
	r.mu = new(sync.Mutex)

	assert.Same(t, p, r.Pipeline("flat"))
	snapshot := r.Pipelines()
	delete(snapshot, "flat")
	assert.NotNil(t, r.Pipeline("flat"))

	assert.True(t, r.ReleasePipeline("flat"))
	assert.False(t, r.ReleasePipeline("flat"))
	assert.Nil(t, r.Pipeline("flat"))

	err := r.DrawCall("missing", nil, 1, nil)
	assert.Error(t, err)
}
