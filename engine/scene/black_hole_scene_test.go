package scene

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/voidstar-go/common"
	"github.com/Carmen-Shannon/voidstar-go/engine/blackhole"
	"github.com/Carmen-Shannon/voidstar-go/engine/camera"
	"github.com/Carmen-Shannon/voidstar-go/engine/input"
	"github.com/Carmen-Shannon/voidstar-go/engine/renderer/postprocess"
	"github.com/Carmen-Shannon/voidstar-go/engine/renderer/shader"
	"github.com/Carmen-Shannon/voidstar-go/engine/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testShaderDir = "../../assets/shaders"

func loadFragment(t *testing.T, file string, defines ...string) shader.Shader {
	t.Helper()
	path := filepath.Join(testShaderDir, file)
	fs, err := shader.NewShader(shader.VariantKey(file, defines), shader.ShaderTypeFragment, path, defines...)
	require.NoError(t, err)
	return fs
}

func lensingVariants() [][]string {
	var variants [][]string
	metrics := []blackhole.Metric{blackhole.MetricSchwarzschild, blackhole.MetricKerr}
	solvers := []blackhole.Solver{
		blackhole.SolverEulerCromer,
		blackhole.SolverRK4,
		blackhole.SolverAdaptiveRK23,
		blackhole.SolverAdaptiveRK45,
	}
	for _, m := range metrics {
		for _, s := range solvers {
			variants = append(variants,
				[]string{m.Define(), s.Define()},
				[]string{m.Define(), s.Define(), blackhole.InsideHorizonDefine},
			)
		}
	}
	return append(variants, []string{FlatDefine})
}

func TestLensingShaderVariants(t *testing.T) {
	for _, defines := range lensingVariants() {
		t.Run(strings.Join(defines, "+"), func(t *testing.T) {
			fs := loadFragment(t, lensingShaderFile, defines...)
			assert.Equal(t, 1, strings.Count(fs.Source(), "fn integrate("), "exactly one integrator per variant")

			l, err := resolveLensingLayout(fs)
			require.NoError(t, err)
			assert.Equal(t, 0, l.cameraGroup)
			assert.Equal(t, 1, l.paramsGroup)
			assert.Equal(t, 2, l.environmentGroup)
			assert.Equal(t, 0, l.skyboxBinding)
			assert.Equal(t, 1, l.diskBinding)
			assert.Equal(t, 2, l.samplerBinding)
			assert.Len(t, l.descriptors, 3)
			assert.Len(t, l.descriptors[l.environmentGroup].Entries, 3)
		})
	}
}

func TestLensingAdaptiveStepOnlyInAdaptiveVariants(t *testing.T) {
	rk4 := loadFragment(t, lensingShaderFile, "METRIC_KERR", "SOLVER_RK4")
	assert.NotContains(t, rk4.Source(), "fn adaptive_step(")

	rk45 := loadFragment(t, lensingShaderFile, "METRIC_KERR", "SOLVER_RK45")
	assert.Contains(t, rk45.Source(), "fn adaptive_step(")
}

func TestLensingLayoutBindGroupsOrder(t *testing.T) {
	fs := loadFragment(t, lensingShaderFile, "METRIC_KERR", "SOLVER_RK4")
	l, err := resolveLensingLayout(fs)
	require.NoError(t, err)

	cam := camera.NewCamera()
	bh := blackhole.NewBlackHole()
	groups := l.bindGroups(cam.BindGroupProvider(), bh.BindGroupProvider(), nil)
	require.Len(t, groups, 3)
	assert.Same(t, cam.BindGroupProvider(), groups[0])
	assert.Same(t, bh.BindGroupProvider(), groups[1])
	assert.Nil(t, groups[2])
}

func TestResolveLensingLayoutRejectsMissingGroups(t *testing.T) {
	src := `//@oxy:include camera
//@oxy:group 0 0 storage_uniform camera camera

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(camera.position, 1.0);
}
`
	fs, err := shader.NewShaderFromSource("partial", shader.ShaderTypeFragment, src)
	require.NoError(t, err)
	_, err = resolveLensingLayout(fs)
	assert.ErrorContains(t, err, "black hole params")
}

func TestResolvePostLayouts(t *testing.T) {
	blur, err := resolvePostLayout(loadFragment(t, blurShaderFile), shader.AnnotationArgBloomSource, shader.AnnotationArgBlurParams)
	require.NoError(t, err)
	assert.Equal(t, 0, blur.source)
	assert.Equal(t, 1, blur.sampler)
	assert.Equal(t, 2, blur.params)
	assert.Equal(t, -1, blur.bloom)
	assert.Len(t, blur.descriptor.Entries, 3)

	comp, err := resolvePostLayout(loadFragment(t, compositeShaderFile), shader.AnnotationArgComposite, shader.AnnotationArgCompositeParams)
	require.NoError(t, err)
	assert.Equal(t, 0, comp.source)
	assert.Equal(t, 1, comp.bloom)
	assert.Equal(t, 2, comp.sampler)
	assert.Equal(t, 3, comp.params)
	assert.Len(t, comp.descriptor.Entries, 4)
}

func TestResolvePostLayoutProviderMismatch(t *testing.T) {
	_, err := resolvePostLayout(loadFragment(t, compositeShaderFile), shader.AnnotationArgBloomSource, shader.AnnotationArgCompositeParams)
	assert.ErrorContains(t, err, "mixes provider")

	_, err = resolvePostLayout(loadFragment(t, blurShaderFile), shader.AnnotationArgBloomSource, shader.AnnotationArgCompositeParams)
	assert.ErrorContains(t, err, "composite_params")
}

func TestBlurStepsBySource(t *testing.T) {
	steps := postprocess.BlurSchedule(postprocess.DefaultBlurPasses, true)
	bySource := blurStepsBySource(steps)

	require.Len(t, bySource, 3)
	assert.Equal(t, 0, bySource[postprocess.AttachmentBright].Index)
	assert.Equal(t, 1, bySource[postprocess.AttachmentPing].Index)
	assert.Equal(t, 2, bySource[postprocess.AttachmentPong].Index)
	for source, step := range bySource {
		for _, s := range steps {
			if s.Source == source {
				assert.Equal(t, step.Horizontal, s.Horizontal, "every step reading %s blurs the same way", source)
			}
		}
	}

	assert.Empty(t, blurStepsBySource(nil))
	single := blurStepsBySource(postprocess.BlurSchedule(1, true))
	assert.Len(t, single, 1)
	assert.Contains(t, single, postprocess.AttachmentBright)
}

func newTestScene(t *testing.T) (*blackHoleScene, input.InputHandler) {
	t.Helper()
	in := input.NewInputHandler()
	s := newBlackHoleScene(nil, in, timer.NewTimer(), camera.NewCamera())
	s.bh = blackhole.NewBlackHole()
	return s, in
}

func press(in input.InputHandler, key uint32) {
	in.OnKey(key, true)
	in.OnKey(key, false)
}

func TestLensingDefinesFollowDrawLensing(t *testing.T) {
	s, _ := newTestScene(t)
	assert.Equal(t, s.bh.Defines(), s.lensingDefines())
	assert.Contains(t, s.lensingDefines(), "SOLVER_RK4")

	s.bh.Edit(func(p *blackhole.Params) { p.DrawLensing = false })
	assert.Equal(t, []string{FlatDefine}, s.lensingDefines())
}

func TestLensingPipelineKeyPerVariant(t *testing.T) {
	path := filepath.Join("shaders", lensingShaderFile)
	a := lensingPipelineKey(path, []string{"METRIC_KERR", "SOLVER_RK4"})
	b := lensingPipelineKey(path, []string{"SOLVER_RK4", "METRIC_KERR"})
	c := lensingPipelineKey(path, []string{FlatDefine})

	assert.True(t, strings.HasPrefix(a, lensingKeyPrefix))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestHotkeysToggleParams(t *testing.T) {
	s, in := newTestScene(t)

	press(in, common.KeyB)
	press(in, common.KeyL)
	press(in, common.KeyT)
	press(in, common.KeyY)
	s.handleHotkeys()

	p := s.bh.Params()
	assert.False(t, p.BloomEnabled)
	assert.False(t, p.DrawLensing)
	assert.True(t, p.UseDebugDisk)
	assert.True(t, p.UseDebugSphere)

	// presses are edge-triggered, a second poll changes nothing
	s.handleHotkeys()
	assert.Equal(t, p, s.bh.Params())
}

func TestHotkeysSolverAndMetric(t *testing.T) {
	s, in := newTestScene(t)

	press(in, common.Key3)
	s.handleHotkeys()
	assert.Equal(t, blackhole.SolverAdaptiveRK23, s.bh.Params().Solver)
	assert.Contains(t, s.lensingDefines(), "SOLVER_RK23")

	press(in, common.Key1)
	s.handleHotkeys()
	assert.Equal(t, blackhole.SolverEulerCromer, s.bh.Params().Solver)

	require.Equal(t, blackhole.MetricKerr, s.bh.Params().Metric)
	press(in, common.KeyM)
	s.handleHotkeys()
	assert.Equal(t, blackhole.MetricSchwarzschild, s.bh.Params().Metric)
	assert.Contains(t, s.lensingDefines(), "METRIC_SCHWARZSCHILD")

	press(in, common.KeyM)
	s.handleHotkeys()
	assert.Equal(t, blackhole.MetricKerr, s.bh.Params().Metric)
}

func TestHotkeysCyclePresets(t *testing.T) {
	s, in := newTestScene(t)
	names := s.bh.Presets()
	require.NotEmpty(t, names)

	for i := 1; i <= len(names); i++ {
		press(in, common.KeyN)
		s.handleHotkeys()
		assert.Equal(t, i%len(names), s.presetIndex)
	}
}

func TestHotkeysWithoutInput(t *testing.T) {
	s := newBlackHoleScene(nil, nil, timer.NewTimer(), camera.NewCamera())
	s.bh = blackhole.NewBlackHole()
	before := s.bh.Params()
	s.handleHotkeys()
	assert.Equal(t, before, s.bh.Params())
}

func TestSummaryIsShownOnce(t *testing.T) {
	s, in := newTestScene(t)

	press(in, common.KeyF1)
	s.handleHotkeys()
	assert.True(t, s.showSummary)

	s.OnGUIRender()
	assert.False(t, s.showSummary)

	summary := parameterSummary(s.bh, s.cam)
	assert.Contains(t, summary, "solver=RK4")
	assert.Contains(t, summary, "metric=Kerr")
	assert.Contains(t, summary, "bloom=true")
}

func TestSceneDefaults(t *testing.T) {
	s, _ := newTestScene(t)

	assert.Equal(t, BlackHoleSceneName, s.Name())
	assert.Equal(t, 1280, s.width)
	assert.Equal(t, 720, s.height)
	assert.Equal(t, postprocess.DefaultBlurPasses, s.blurPasses)
	assert.Equal(t, filepath.Join("assets", "shaders"), s.shaderDir)
	assert.Equal(t, filepath.Join("assets", "textures", "accretion_disk.jpg"), s.diskTexture)
	assert.Equal(t, filepath.Join("assets", "textures", "px.png"), s.skyboxFaces[0])
	assert.Equal(t, filepath.Join("assets", "textures", "nz.png"), s.skyboxFaces[5])
}

func TestSceneOptions(t *testing.T) {
	s, _ := newTestScene(t)
	for _, opt := range []BlackHoleSceneOption{
		WithAssetsDir("data"),
		WithShaderDir("custom/shaders"),
		WithBlurPasses(-3),
		WithViewport(0, 600),
		WithPreset("Blazar"),
	} {
		opt(s)
	}

	assert.Equal(t, "custom/shaders", s.shaderDir)
	assert.Equal(t, filepath.Join("data", "textures", "accretion_disk.jpg"), s.diskTexture)
	assert.Equal(t, 0, s.blurPasses)
	assert.Equal(t, 1280, s.width, "non-positive viewport sizes are ignored")
	assert.Equal(t, "Blazar", s.preset)

	WithViewport(800, 600)(s)
	assert.Equal(t, 800, s.width)
	assert.Equal(t, 600, s.height)
}

func TestNewBlackHoleSceneRequiresRenderer(t *testing.T) {
	_, err := NewBlackHoleScene(nil, nil, nil, nil, nil)
	assert.Error(t, err)
}
