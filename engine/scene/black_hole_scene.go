package scene

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"slices"

	"github.com/Carmen-Shannon/voidstar-go/engine/blackhole"
	"github.com/Carmen-Shannon/voidstar-go/engine/camera"
	"github.com/Carmen-Shannon/voidstar-go/engine/input"
	"github.com/Carmen-Shannon/voidstar-go/engine/renderer"
	"github.com/Carmen-Shannon/voidstar-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/voidstar-go/engine/renderer/postprocess"
	"github.com/Carmen-Shannon/voidstar-go/engine/resource"
	"github.com/Carmen-Shannon/voidstar-go/engine/timer"
)

// BlackHoleSceneName is the name the black hole scene registers under.
const BlackHoleSceneName = "Black Hole"

// FlatDefine selects the straight-ray variant of the lensing shader.
const FlatDefine = "FLAT"

const (
	fullscreenShaderFile = "fullscreen.wgsl"
	lensingShaderFile    = "lensing.wgsl"
	blurShaderFile       = "blur.wgsl"
	compositeShaderFile  = "composite.wgsl"

	lensingKeyPrefix     = "lensing:"
	blurPipelineKey      = "blur"
	compositePipelineKey = "composite"
)

// blackHoleScene renders the black hole in three stages: the lensing pass into the main target,
// the bloom blur between ping and pong, and the composite onto the surface.
type blackHoleScene struct {
	name string

	r     renderer.Renderer
	cache resource.Cache
	in    input.InputHandler
	clock timer.Timer
	cam   camera.Camera
	bh    blackhole.BlackHole

	shaderDir   string
	skyboxFaces resource.CubemapFaces
	diskTexture string
	preset      string

	width  int
	height int

	blurPasses   int
	blurSchedule []postprocess.BlurStep

	quad        bind_group_provider.BindGroupProvider
	environment bind_group_provider.BindGroupProvider
	blurSources map[postprocess.Attachment]bind_group_provider.BindGroupProvider
	composite   bind_group_provider.BindGroupProvider

	main renderer.RenderTarget
	ping renderer.RenderTarget
	pong renderer.RenderTarget

	lensing       lensingLayout
	blurLayout    postLayout
	compLayout    postLayout
	lensingKey    string
	failedLensing map[string]bool
	presetIndex   int

	showSummary bool
}

var _ Scene = &blackHoleScene{}

// NewBlackHoleScene creates the black hole scene and all of its GPU resources. Textures are
// decoded in parallel through the cache before upload.
//
// Parameters:
//   - r: the renderer to draw with
//   - cache: the shader and texture cache
//   - in: the input handler the scene reads its hotkeys from
//   - clock: the frame timer, used for the shader's elapsed time
//   - cam: the application camera
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the ready scene
//   - error: an error if a shader fails to compile, an unknown preset was requested or a GPU
//     resource cannot be created
func NewBlackHoleScene(r renderer.Renderer, cache resource.Cache, in input.InputHandler, clock timer.Timer, cam camera.Camera, options ...BlackHoleSceneOption) (Scene, error) {
	if r == nil {
		return nil, errors.New("black hole scene requires a renderer")
	}

	s := newBlackHoleScene(cache, in, clock, cam)
	s.r = r
	for _, opt := range options {
		opt(s)
	}
	if s.bh == nil {
		s.bh = blackhole.NewBlackHole()
	}
	if s.preset != "" {
		if err := s.bh.ApplyPreset(s.preset); err != nil {
			return nil, err
		}
		s.presetIndex = max(slices.Index(s.bh.Presets(), s.preset), 0)
	}
	if abs, err := filepath.Abs(s.shaderDir); err == nil {
		s.shaderDir = abs
	}

	s.cache.Preload([]string{s.diskTexture}, []resource.CubemapFaces{s.skyboxFaces})

	if err := s.initGPU(); err != nil {
		s.Release()
		return nil, err
	}
	log.Printf("[Scene] %q ready at %dx%d", s.name, s.width, s.height)
	return s, nil
}

// newBlackHoleScene fills in the defaults that do not need a renderer.
func newBlackHoleScene(cache resource.Cache, in input.InputHandler, clock timer.Timer, cam camera.Camera) *blackHoleScene {
	s := &blackHoleScene{
		name:          BlackHoleSceneName,
		cache:         cache,
		in:            in,
		clock:         clock,
		cam:           cam,
		width:         1280,
		height:        720,
		blurPasses:    postprocess.DefaultBlurPasses,
		blurSources:   make(map[postprocess.Attachment]bind_group_provider.BindGroupProvider),
		failedLensing: make(map[string]bool),
	}
	applyAssetsDir(s, "assets")
	return s
}

func (s *blackHoleScene) Name() string {
	return s.name
}

func (s *blackHoleScene) OnUpdate(dt float32) {
	s.handleHotkeys()
	s.bh.OnUpdate(dt, s.cam.GetPosition())
	s.reloadChangedShaders()
	s.ensureLensingPipeline()
}

func (s *blackHoleScene) OnRender() error {
	if err := s.r.BeginFrame(); err != nil {
		return err
	}
	s.writeFrameUniforms()
	err := s.renderPasses()
	s.r.EndFrame()
	s.r.Present()
	return err
}

func (s *blackHoleScene) renderPasses() error {
	if err := s.lensingPass(); err != nil {
		return err
	}
	if s.bh.Params().BloomEnabled {
		if err := s.bloomPasses(); err != nil {
			return err
		}
	}
	return s.compositePass()
}

func (s *blackHoleScene) OnResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == s.width && height == s.height && s.main != nil {
		return
	}
	s.width, s.height = width, height
	if err := s.buildTargets(); err != nil {
		log.Printf("[Scene] failed to rebuild render targets at %dx%d: %v", width, height, err)
	}
}

func (s *blackHoleScene) OnGUIRender() {
	if !s.showSummary {
		return
	}
	s.showSummary = false
	log.Print(parameterSummary(s.bh, s.cam))
}

func (s *blackHoleScene) Release() {
	s.releaseTargets()
	for _, p := range s.blurSources {
		p.Release()
	}
	clear(s.blurSources)
	if s.composite != nil {
		s.composite.Release()
		s.composite = nil
	}
	if s.environment != nil {
		s.environment.Release()
		s.environment = nil
	}
	if s.quad != nil {
		s.quad.Release()
		s.quad = nil
	}
	if s.bh != nil {
		s.bh.BindGroupProvider().Release()
	}
	if s.cam != nil {
		s.cam.BindGroupProvider().ReleaseBindGroup()
		s.cam.Reset()
	}
	if s.r != nil {
		for key := range s.r.Pipelines() {
			s.r.ReleasePipeline(key)
		}
	}
}

// parameterSummary renders the one-line state dump shown on F1.
func parameterSummary(bh blackhole.BlackHole, cam camera.Camera) string {
	p := bh.Params()
	d := bh.Derived()
	pos := cam.GetPosition()
	tol := "fixed"
	if p.Solver.Adaptive() {
		tol = fmt.Sprintf("%g", d.Tolerance)
	}
	return fmt.Sprintf("[Scene] mass=%.3f spin=%.3f disk=[%.2f, %.2f] isco=%.3f horizon=%.3f inside=%t solver=%s metric=%s steps=%d tol=%s lensing=%t bloom=%t camera=(%.2f, %.2f, %.2f) mode=%s",
		p.Mass, p.Spin, p.InnerRadius, p.OuterRadius, d.ISCORadius, d.HorizonRadius, d.InsideHorizon,
		p.Solver, p.Metric, d.MaxSteps, tol, p.DrawLensing, p.BloomEnabled,
		pos.X(), pos.Y(), pos.Z(), cam.Controller().Mode())
}
