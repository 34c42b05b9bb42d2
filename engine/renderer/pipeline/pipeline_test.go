package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/voidstar-go/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVertexSource = `
struct VertexOutput {
    @builtin(position) position: vec4<f32>,
}

@vertex
fn vs_main(@builtin(vertex_index) i: u32) -> VertexOutput {
    var out: VertexOutput;
    out.position = vec4<f32>(0.0, 0.0, 0.0, 1.0);
    return out;
}
`

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("flat")

	assert.Equal(t, "flat", p.PipelineKey())
	assert.False(t, p.BlendEnabled())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())
	assert.NotNil(t, p.BlendState())
	assert.Nil(t, p.RenderPipeline())
	assert.Empty(t, p.Sources())
}

func TestColorTargetsFallBackToSurface(t *testing.T) {
	p := NewPipeline("composite")
	assert.Equal(t, []wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm}, p.ColorTargets(wgpu.TextureFormatBGRA8Unorm))

	hdr := NewPipeline("lensing", WithColorTargets(wgpu.TextureFormatRGBA16Float, wgpu.TextureFormatRGBA16Float))
	assert.Equal(t,
		[]wgpu.TextureFormat{wgpu.TextureFormatRGBA16Float, wgpu.TextureFormatRGBA16Float},
		hdr.ColorTargets(wgpu.TextureFormatBGRA8Unorm))
}

func TestPipelineOptions(t *testing.T) {
	blend := &wgpu.BlendState{}
	p := NewPipeline("blur",
		WithBlendEnabled(true),
		WithBlendState(blend),
		WithCullMode(wgpu.CullModeBack),
		WithWriteMask(wgpu.ColorWriteMaskRed),
	)

	assert.True(t, p.BlendEnabled())
	assert.Same(t, blend, p.BlendState())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, wgpu.ColorWriteMaskRed, p.WriteMask())
}

func TestShadersAndSources(t *testing.T) {
	vs, err := shader.NewShaderFromSource("fullscreen", shader.ShaderTypeVertex, testVertexSource)
	require.NoError(t, err)

	p := NewPipeline("flat", WithVertexShader(vs))
	assert.Same(t, vs, p.Shader(shader.ShaderTypeVertex))
	assert.Nil(t, p.Shader(shader.ShaderTypeFragment))
	// in-memory sources have no path to watch
	assert.Empty(t, p.Sources())

	p.Release()
	assert.Nil(t, p.RenderPipeline())
}
