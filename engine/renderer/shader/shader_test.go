package shader

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lensingSource = `//@oxy:include camera
//@oxy:group 0 0 storage_uniform camera camera
//@oxy:include blackhole_params
//@oxy:group 1 0 storage_uniform params blackhole_params
//@oxy:provider 2 0 environment skybox_texture
@group(2) @binding(0) var skybox: texture_cube<f32>;
//@oxy:provider 2 1 environment disk_texture
@group(2) @binding(1) var disk: texture_2d<f32>;
//@oxy:provider 2 2 environment linear_sampler
@group(2) @binding(2) var linear_sampler: sampler;
//@oxy:include quad_vertex

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = vec4<f32>(in.position, 0.0, 1.0);
    out.uv = in.uv;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(disk, linear_sampler, in.uv) * params.mass;
}
`

func TestProcessIncludesAndGroups(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process(lensingSource)
	require.NoError(t, err)

	assert.Contains(t, out, "struct CameraUniform")
	assert.Contains(t, out, "struct BlackHoleParams")
	assert.Contains(t, out, "struct VertexInput")
	assert.Contains(t, out, "@group(0) @binding(0) var<uniform> camera: CameraUniform;")
	assert.Contains(t, out, "@group(1) @binding(0) var<uniform> params: BlackHoleParams;")

	decls := pp.Declarations()
	require.Len(t, decls, 5)
	assert.Equal(t, AnnotationArgCamera, decls[0].StructType())
	assert.Equal(t, AnnotationArgEnvironment, decls[2].Provider())
	assert.Equal(t, AnnotationArgSkyboxTexture, decls[2].Role())

	g, b, ok := FindRole(decls, AnnotationArgDiskTexture)
	require.True(t, ok)
	assert.Equal(t, 2, g)
	assert.Equal(t, 1, b)

	g, b, ok = FindStruct(decls, AnnotationArgBlackHoleParams)
	require.True(t, ok)
	assert.Equal(t, 1, g)
	assert.Equal(t, 0, b)

	_, _, ok = FindRole(decls, AnnotationArgBloomTexture)
	assert.False(t, ok)
}

func TestProcessConditionals(t *testing.T) {
	src := strings.Join([]string{
		"//@oxy:ifdef SOLVER_RK4",
		"fn rk4() {}",
		"//@oxy:else",
		"fn euler() {}",
		"//@oxy:endif",
		"//@oxy:ifndef INSIDE_HORIZON",
		"fn outside() {}",
		"//@oxy:ifdef METRIC_KERR",
		"fn kerr() {}",
		"//@oxy:endif",
		"//@oxy:endif",
		"fn always() {}",
	}, "\n")

	pp := NewPreProcessor()

	out, err := pp.Process(src, "SOLVER_RK4", "METRIC_KERR")
	require.NoError(t, err)
	assert.Contains(t, out, "fn rk4()")
	assert.NotContains(t, out, "fn euler()")
	assert.Contains(t, out, "fn outside()")
	assert.Contains(t, out, "fn kerr()")
	assert.Contains(t, out, "fn always()")
	assert.Len(t, strings.Split(out, "\n"), 12, "inactive and directive lines are blanked, not removed")

	out, err = pp.Process(src, "INSIDE_HORIZON", "METRIC_KERR")
	require.NoError(t, err)
	assert.NotContains(t, out, "fn rk4()")
	assert.Contains(t, out, "fn euler()")
	assert.NotContains(t, out, "fn outside()")
	assert.NotContains(t, out, "fn kerr()", "nested block inside an inactive branch stays inactive")
	assert.Contains(t, out, "fn always()")
}

func TestProcessSkipsDeclarationsInInactiveBranches(t *testing.T) {
	src := strings.Join([]string{
		"//@oxy:ifdef BLOOM",
		"//@oxy:group 0 1 storage_uniform blur blur_params",
		"//@oxy:endif",
		"//@oxy:provider 0 0 bloom_source source_texture",
	}, "\n")

	pp := NewPreProcessor()
	out, err := pp.Process(src)
	require.NoError(t, err)
	assert.NotContains(t, out, "BlurParams")
	require.Len(t, pp.Declarations(), 1)
	assert.Equal(t, AnnotationArgBloomSource, pp.Declarations()[0].Provider())

	_, err = pp.Process(src, "BLOOM")
	require.NoError(t, err)
	assert.Len(t, pp.Declarations(), 2, "declarations are reset per call")
}

func TestProcessValueDefines(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("fn f() {}", "BLUR_TAPS=5", " ", "BLUR_TAPS=5")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "const BLUR_TAPS = 5;"))
	assert.True(t, strings.HasPrefix(out, "fn f() {}"), "constants follow the source")

	out, err = pp.Process("//@oxy:ifdef BLUR_TAPS\nfn taps() {}\n//@oxy:endif", "BLUR_TAPS=5")
	require.NoError(t, err)
	assert.Contains(t, out, "fn taps()")
}

func TestProcessConditionalErrors(t *testing.T) {
	cases := map[string]string{
		"else without ifdef":  "//@oxy:else",
		"endif without ifdef": "//@oxy:endif",
		"duplicate else":      "//@oxy:ifdef A\n//@oxy:else\n//@oxy:else\n//@oxy:endif",
		"unterminated":        "//@oxy:ifdef A\nfn a() {}",
		"ifdef without name":  "//@oxy:ifdef",
		"endif with argument": "//@oxy:ifdef A\n//@oxy:endif A",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewPreProcessor().Process(src)
			assert.Error(t, err)
		})
	}
}

func TestParseAnnotation(t *testing.T) {
	a, err := parseAnnotation("fn main() {}", 1)
	assert.NoError(t, err)
	assert.Nil(t, a)

	a, err = parseAnnotation("let x = 1; // mentions @oxy:include camera", 1)
	assert.NoError(t, err, "annotations must start the line")
	assert.Nil(t, a)

	a, err = parseAnnotation("  //@oxy:provider 0 2 composite linear_sampler", 7)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, 7, a.Line)
	assert.Equal(t, 0, *a.Group)
	assert.Equal(t, 2, *a.Binding)
	assert.Equal(t, AnnotationArgLinearSampler, a.Role())

	bad := []string{
		"//@oxy:",
		"//@oxy:bogus 1",
		"//@oxy:include light",
		"//@oxy:group x 0 storage_uniform c camera",
		"//@oxy:group 0 0 storage_write c camera",
		"//@oxy:group 0 0 storage_uniform c",
		"//@oxy:provider 0 0 nobody",
		"//@oxy:provider 0 0 composite nothing",
	}
	for _, line := range bad {
		_, err := parseAnnotation(line, 1)
		assert.Error(t, err, line)
	}
}

func TestShaderReflection(t *testing.T) {
	vs, err := NewShaderFromSource("lensing_vs", ShaderTypeVertex, lensingSource)
	require.NoError(t, err)
	fs, err := NewShaderFromSource("lensing_fs", ShaderTypeFragment, lensingSource)
	require.NoError(t, err)

	assert.Equal(t, "vs_main", vs.EntryPoint())
	assert.Equal(t, "fs_main", fs.EntryPoint())
	assert.Empty(t, fs.VertexLayouts())
	assert.Equal(t, "lensing_vs", vs.Module().Label)

	layouts := vs.VertexLayouts()
	require.Len(t, layouts, 1, "the builtin output struct is not a vertex input")
	assert.Equal(t, uint64(16), layouts[0].ArrayStride)
	require.Len(t, layouts[0].Attributes, 2)
	assert.Equal(t, wgpu.VertexFormatFloat32x2, layouts[0].Attributes[1].Format)
	assert.Equal(t, uint64(8), layouts[0].Attributes[1].Offset)
	assert.Equal(t, uint32(1), layouts[0].Attributes[1].ShaderLocation)

	descs := fs.BindGroupLayoutDescriptors()
	require.Len(t, descs, 3)

	cam := fs.BindGroupLayoutDescriptor(0)
	require.Len(t, cam.Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, cam.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(192), cam.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, cam.Entries[0].Visibility)

	assert.Equal(t, uint64(192), fs.BindGroupLayoutDescriptor(1).Entries[0].Buffer.MinBindingSize)

	env := fs.BindGroupLayoutDescriptor(2)
	require.Len(t, env.Entries, 3)
	assert.Equal(t, wgpu.TextureViewDimensionCube, env.Entries[0].Texture.ViewDimension)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, env.Entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, env.Entries[1].Texture.ViewDimension)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, env.Entries[2].Sampler.Type)

	assert.Equal(t, "disk", fs.BindGroupVarName(2, 1))
	binding, ok := fs.BindGroupFromVarName(2, "linear_sampler")
	assert.True(t, ok)
	assert.Equal(t, 2, binding)
	_, ok = fs.BindGroupFromVarName(5, "x")
	assert.False(t, ok)

	assert.Len(t, fs.Declarations(), 5)
}

func TestShaderDefinesAndErrors(t *testing.T) {
	s, err := NewShaderFromSource("v", ShaderTypeFragment, lensingSource, "SOLVER_RK4", "METRIC_KERR", "SOLVER_RK4")
	require.NoError(t, err)
	assert.Equal(t, []string{"METRIC_KERR", "SOLVER_RK4"}, s.Defines())
	assert.Empty(t, s.Path())

	_, err = NewShaderFromSource("nofrag", ShaderTypeFragment, "@vertex fn vs() {}")
	assert.Error(t, err)

	_, err = NewShader("missing", ShaderTypeVertex, "does/not/exist.wgsl")
	assert.Error(t, err)

	_, err = NewShader("empty", ShaderTypeVertex, "")
	assert.Error(t, err)
}

func TestVariantKey(t *testing.T) {
	a := VariantKey("shaders/lensing.wgsl", []string{"SOLVER_RK4", "METRIC_KERR"})
	b := VariantKey("shaders/lensing.wgsl", []string{"METRIC_KERR", "SOLVER_RK4", "METRIC_KERR", ""})
	assert.Equal(t, a, b)
	assert.Equal(t, "shaders/lensing.wgsl[METRIC_KERR,SOLVER_RK4]", a)
	assert.Equal(t, "shaders/lensing.wgsl", VariantKey("shaders/lensing.wgsl", nil))
	assert.NotEqual(t, a, VariantKey("shaders/lensing.wgsl", []string{"METRIC_KERR", "SOLVER_RK45"}))

	assert.Equal(t, []string{"A", "B"}, NormalizeDefines([]string{" B", "A", "B "}))
	assert.Empty(t, NormalizeDefines(nil))
}

func TestTypeLayouts(t *testing.T) {
	layout, ok := resolveTypeLayout("array<vec4<f32>, 6>", nil)
	require.True(t, ok)
	assert.Equal(t, wgslTypeLayout{96, 16}, layout)

	layout, ok = resolveTypeLayout("array<vec3<f32>>", nil)
	require.True(t, ok)
	assert.Equal(t, uint64(16), layout.size, "runtime arrays resolve to one stride")

	_, ok = resolveTypeLayout("texture_2d<f32>", nil)
	assert.False(t, ok)

	structs := parseStructBlocks(`
struct Outer { inner: Inner, scale: f32, }
struct Inner { a: vec3<f32>, }
`)
	sizes := computeStructSizes(structs)
	assert.Equal(t, wgslTypeLayout{16, 16}, sizes["Inner"])
	assert.Equal(t, wgslTypeLayout{32, 16}, sizes["Outer"], "declaration order does not matter")

	assert.Equal(t, []string{"a: array<f32, 4>", " b: f32"}, splitAtTopLevelCommas("a: array<f32, 4>, b: f32"))
}

func TestStripComments(t *testing.T) {
	out := stripComments("a /* x /* nested */ y */ b // tail\nc")
	assert.Equal(t, "a  b \nc\n", out)
}
