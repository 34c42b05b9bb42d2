package scene

import (
	"fmt"
	"log"
	"path/filepath"
	"slices"

	"github.com/Carmen-Shannon/voidstar-go/common"
	"github.com/Carmen-Shannon/voidstar-go/engine/renderer"
	"github.com/Carmen-Shannon/voidstar-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/voidstar-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/voidstar-go/engine/renderer/postprocess"
	"github.com/Carmen-Shannon/voidstar-go/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// lensingLayout records where the lensing shader expects each provider, read from its
// declarations so no binding index is hard-coded.
type lensingLayout struct {
	descriptors map[int]wgpu.BindGroupLayoutDescriptor

	cameraGroup   int
	cameraBinding int
	paramsGroup   int
	paramsBinding int

	environmentGroup int
	skyboxBinding    int
	diskBinding      int
	samplerBinding   int
}

// postLayout records the single bind group of a full-screen post-process shader.
type postLayout struct {
	descriptor wgpu.BindGroupLayoutDescriptor

	source  int
	bloom   int // -1 when the shader has no bloom input
	sampler int
	params  int
}

// resolveLensingLayout finds the camera, params and environment bindings of a lensing variant.
// The three providers must occupy groups 0 to 2.
func resolveLensingLayout(fs shader.Shader) (lensingLayout, error) {
	decls := fs.Declarations()
	l := lensingLayout{descriptors: fs.BindGroupLayoutDescriptors()}

	var ok bool
	if l.cameraGroup, l.cameraBinding, ok = shader.FindStruct(decls, shader.AnnotationArgCamera); !ok {
		return l, fmt.Errorf("shader %s has no camera uniform", fs.Key())
	}
	if l.paramsGroup, l.paramsBinding, ok = shader.FindStruct(decls, shader.AnnotationArgBlackHoleParams); !ok {
		return l, fmt.Errorf("shader %s has no black hole params uniform", fs.Key())
	}
	if l.environmentGroup, l.skyboxBinding, ok = shader.FindRole(decls, shader.AnnotationArgSkyboxTexture); !ok {
		return l, fmt.Errorf("shader %s has no skybox binding", fs.Key())
	}
	if _, l.diskBinding, ok = shader.FindRole(decls, shader.AnnotationArgDiskTexture); !ok {
		return l, fmt.Errorf("shader %s has no disk texture binding", fs.Key())
	}
	if _, l.samplerBinding, ok = shader.FindRole(decls, shader.AnnotationArgLinearSampler); !ok {
		return l, fmt.Errorf("shader %s has no sampler binding", fs.Key())
	}

	groups := []int{l.cameraGroup, l.paramsGroup, l.environmentGroup}
	slices.Sort(groups)
	if !slices.Equal(groups, []int{0, 1, 2}) {
		return l, fmt.Errorf("shader %s must place camera, params and environment in groups 0-2, got %v", fs.Key(), groups)
	}
	return l, nil
}

// bindGroups orders the providers by the group each one occupies.
func (l lensingLayout) bindGroups(cam, params, environment bind_group_provider.BindGroupProvider) []bind_group_provider.BindGroupProvider {
	groups := make([]bind_group_provider.BindGroupProvider, 3)
	groups[l.cameraGroup] = cam
	groups[l.paramsGroup] = params
	groups[l.environmentGroup] = environment
	return groups
}

// resolvePostLayout finds the bindings of a post-process shader whose provider occupies group 0.
func resolvePostLayout(fs shader.Shader, provider shader.AnnotationArg, paramsType shader.AnnotationArg) (postLayout, error) {
	decls := fs.Declarations()
	l := postLayout{bloom: -1}

	group, binding, ok := shader.FindRole(decls, shader.AnnotationArgSourceTexture)
	if !ok {
		return l, fmt.Errorf("shader %s has no source texture binding", fs.Key())
	}
	if group != 0 {
		return l, fmt.Errorf("shader %s must bind its %s inputs in group 0, got %d", fs.Key(), provider, group)
	}
	l.source = binding

	if _, l.sampler, ok = shader.FindRole(decls, shader.AnnotationArgLinearSampler); !ok {
		return l, fmt.Errorf("shader %s has no sampler binding", fs.Key())
	}
	if _, l.params, ok = shader.FindStruct(decls, paramsType); !ok {
		return l, fmt.Errorf("shader %s has no %s uniform", fs.Key(), paramsType)
	}
	if _, b, ok := shader.FindRole(decls, shader.AnnotationArgBloomTexture); ok {
		l.bloom = b
	}

	for _, d := range decls {
		if d.Type == shader.AnnotationTypeProvider && d.Provider() != provider {
			return l, fmt.Errorf("shader %s mixes provider %s into %s", fs.Key(), d.Provider(), provider)
		}
	}
	l.descriptor = fs.BindGroupLayoutDescriptor(0)
	return l, nil
}

// blurStepsBySource returns the first scheduled step reading each attachment. Later steps that
// read the same attachment blur in the same direction, so one uniform per source is enough.
func blurStepsBySource(steps []postprocess.BlurStep) map[postprocess.Attachment]postprocess.BlurStep {
	bySource := make(map[postprocess.Attachment]postprocess.BlurStep, 3)
	for _, step := range steps {
		if _, ok := bySource[step.Source]; !ok {
			bySource[step.Source] = step
		}
	}
	return bySource
}

func lensingPipelineKey(path string, defines []string) string {
	return lensingKeyPrefix + shader.VariantKey(path, defines)
}

func (s *blackHoleScene) shaderPath(file string) string {
	return filepath.Join(s.shaderDir, file)
}

func (s *blackHoleScene) lensingDefines() []string {
	if !s.bh.Params().DrawLensing {
		return []string{FlatDefine}
	}
	return s.bh.Defines()
}

func (s *blackHoleScene) initGPU() error {
	defines := s.lensingDefines()
	key := lensingPipelineKey(s.shaderPath(lensingShaderFile), defines)
	fs, err := s.registerLensingPipeline(key, defines)
	if err != nil {
		return fmt.Errorf("failed to build lensing pipeline: %w", err)
	}
	s.lensingKey = key
	if s.lensing, err = resolveLensingLayout(fs); err != nil {
		return err
	}

	s.quad = bind_group_provider.NewBindGroupProvider("fullscreen_quad")
	if err := s.r.InitMeshBuffers(s.quad, postprocess.QuadVertexData(), postprocess.QuadIndexData(), postprocess.QuadIndexCount); err != nil {
		return fmt.Errorf("failed to create quad buffers: %w", err)
	}

	if err := s.r.InitBindGroup(s.cam.BindGroupProvider(), s.lensing.descriptors[s.lensing.cameraGroup]); err != nil {
		return fmt.Errorf("failed to create camera bind group: %w", err)
	}
	if err := s.r.InitBindGroup(s.bh.BindGroupProvider(), s.lensing.descriptors[s.lensing.paramsGroup]); err != nil {
		return fmt.Errorf("failed to create black hole bind group: %w", err)
	}
	if err := s.initEnvironment(); err != nil {
		return err
	}

	bs, err := s.registerPostPipeline(blurPipelineKey, blurShaderFile, renderer.RenderTargetFormat)
	if err != nil {
		return fmt.Errorf("failed to build blur pipeline: %w", err)
	}
	if s.blurLayout, err = resolvePostLayout(bs, shader.AnnotationArgBloomSource, shader.AnnotationArgBlurParams); err != nil {
		return err
	}
	cs, err := s.registerPostPipeline(compositePipelineKey, compositeShaderFile)
	if err != nil {
		return fmt.Errorf("failed to build composite pipeline: %w", err)
	}
	if s.compLayout, err = resolvePostLayout(cs, shader.AnnotationArgComposite, shader.AnnotationArgCompositeParams); err != nil {
		return err
	}
	if s.compLayout.bloom < 0 {
		return fmt.Errorf("shader %s has no bloom texture binding", cs.Key())
	}

	return s.buildTargets()
}

func (s *blackHoleScene) initEnvironment() error {
	env := bind_group_provider.NewBindGroupProvider("environment")
	s.environment = env

	if err := s.r.InitCubemapView(env, s.lensing.skyboxBinding, s.cache.GetCubemap(s.skyboxFaces)); err != nil {
		return fmt.Errorf("failed to upload skybox: %w", err)
	}
	if err := s.r.InitTextureView(env, s.lensing.diskBinding, s.cache.GetTexture(s.diskTexture)); err != nil {
		return fmt.Errorf("failed to upload disk texture: %w", err)
	}
	// u wraps around the ring, v runs from the inner to the outer edge
	if err := s.r.InitSampler(env, s.lensing.samplerBinding, common.SamplerStagingData{
		AddressModeV: wgpu.AddressModeClampToEdge,
	}); err != nil {
		return fmt.Errorf("failed to create environment sampler: %w", err)
	}
	if err := s.r.InitBindGroup(env, s.lensing.descriptors[s.lensing.environmentGroup]); err != nil {
		return fmt.Errorf("failed to create environment bind group: %w", err)
	}
	return nil
}

// registerLensingPipeline compiles one lensing variant and registers it under key.
func (s *blackHoleScene) registerLensingPipeline(key string, defines []string) (shader.Shader, error) {
	vs, err := s.cache.GetShader(s.shaderPath(fullscreenShaderFile), shader.ShaderTypeVertex)
	if err != nil {
		return nil, err
	}
	fs, err := s.cache.GetShader(s.shaderPath(lensingShaderFile), shader.ShaderTypeFragment, defines...)
	if err != nil {
		return nil, err
	}
	p := pipeline.NewPipeline(key,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithColorTargets(renderer.RenderTargetFormat, renderer.RenderTargetFormat),
	)
	if err := s.r.RegisterPipelines(p); err != nil {
		return nil, err
	}
	return fs, nil
}

// registerPostPipeline compiles a full-screen pass. No formats means the surface format.
func (s *blackHoleScene) registerPostPipeline(key, file string, formats ...wgpu.TextureFormat) (shader.Shader, error) {
	vs, err := s.cache.GetShader(s.shaderPath(fullscreenShaderFile), shader.ShaderTypeVertex)
	if err != nil {
		return nil, err
	}
	fs, err := s.cache.GetShader(s.shaderPath(file), shader.ShaderTypeFragment)
	if err != nil {
		return nil, err
	}
	opts := []pipeline.PipelineBuilderOption{
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
	}
	if len(formats) > 0 {
		opts = append(opts, pipeline.WithColorTargets(formats...))
	}
	if err := s.r.RegisterPipelines(pipeline.NewPipeline(key, opts...)); err != nil {
		return nil, err
	}
	return fs, nil
}

// ensureLensingPipeline switches to the variant matching the current parameters, compiling it on
// first use. A variant that fails to compile is remembered and the previous one stays active.
func (s *blackHoleScene) ensureLensingPipeline() {
	defines := s.lensingDefines()
	key := lensingPipelineKey(s.shaderPath(lensingShaderFile), defines)
	if s.r.Pipeline(key) != nil {
		s.lensingKey = key
		return
	}
	if s.failedLensing[key] {
		return
	}
	if _, err := s.registerLensingPipeline(key, defines); err != nil {
		s.failedLensing[key] = true
		log.Printf("[Scene] lensing variant %v failed to build, keeping %s: %v", defines, s.lensingKey, err)
		return
	}
	log.Printf("[Scene] built lensing variant %v", defines)
	s.lensingKey = key
}

// ensurePostPipelines rebuilds blur and composite after a hot reload dropped them.
func (s *blackHoleScene) ensurePostPipelines() {
	if s.r.Pipeline(blurPipelineKey) == nil {
		if _, err := s.registerPostPipeline(blurPipelineKey, blurShaderFile, renderer.RenderTargetFormat); err != nil {
			log.Printf("[Scene] failed to rebuild blur pipeline: %v", err)
		}
	}
	if s.r.Pipeline(compositePipelineKey) == nil {
		if _, err := s.registerPostPipeline(compositePipelineKey, compositeShaderFile); err != nil {
			log.Printf("[Scene] failed to rebuild composite pipeline: %v", err)
		}
	}
}

// reloadChangedShaders drops every pipeline built from a shader file that changed on disk. The
// cache has already forgotten the stale sources, so the next ensure call recompiles them.
func (s *blackHoleScene) reloadChangedShaders() {
	changed := s.cache.PollChanges()
	if len(changed) == 0 {
		return
	}
	for key, p := range s.r.Pipelines() {
		if slices.ContainsFunc(p.Sources(), func(src string) bool { return slices.Contains(changed, src) }) {
			s.r.ReleasePipeline(key)
			log.Printf("[Scene] released pipeline %s for reload", key)
		}
	}
	clear(s.failedLensing)
	s.ensurePostPipelines()
}

// buildTargets recreates the three render targets at the current size and points every
// post-process bind group at the new views.
func (s *blackHoleScene) buildTargets() error {
	s.releaseTargets()

	var err error
	if s.main, err = s.r.NewRenderTarget("main", s.width, s.height, 2); err != nil {
		return err
	}
	if s.ping, err = s.r.NewRenderTarget("ping", s.width, s.height, 1); err != nil {
		return err
	}
	if s.pong, err = s.r.NewRenderTarget("pong", s.width, s.height, 1); err != nil {
		return err
	}

	s.blurSchedule = postprocess.BlurSchedule(s.blurPasses, true)
	views := map[postprocess.Attachment]*wgpu.TextureView{
		postprocess.AttachmentBright: s.main.View(1),
		postprocess.AttachmentPing:   s.ping.View(0),
		postprocess.AttachmentPong:   s.pong.View(0),
	}

	w, h := uint32(s.main.Width()), uint32(s.main.Height())
	var writes []bind_group_provider.BufferWrite
	for source, step := range blurStepsBySource(s.blurSchedule) {
		p, err := s.postProvider(s.blurSources[source], "bloom_source_"+source.String(), s.blurLayout.sampler)
		if err != nil {
			return err
		}
		s.blurSources[source] = p
		p.SetBorrowedTextureView(s.blurLayout.source, views[source])
		if err := s.r.InitBindGroup(p, s.blurLayout.descriptor); err != nil {
			return fmt.Errorf("failed to create %s blur bind group: %w", source, err)
		}
		params := postprocess.NewBlurParams(step, w, h)
		writes = append(writes, bind_group_provider.BufferWrite{Provider: p, Binding: s.blurLayout.params, Data: params.Marshal()})
	}

	p, err := s.postProvider(s.composite, "composite", s.compLayout.sampler)
	if err != nil {
		return err
	}
	s.composite = p
	p.SetBorrowedTextureView(s.compLayout.source, s.main.View(0))
	p.SetBorrowedTextureView(s.compLayout.bloom, views[postprocess.FinalTarget(s.blurSchedule)])
	if err := s.r.InitBindGroup(p, s.compLayout.descriptor); err != nil {
		return fmt.Errorf("failed to create composite bind group: %w", err)
	}

	s.r.WriteBuffers(writes)
	return nil
}

// postProvider returns p, or a new provider with a clamped linear sampler when p is nil.
func (s *blackHoleScene) postProvider(p bind_group_provider.BindGroupProvider, label string, samplerBinding int) (bind_group_provider.BindGroupProvider, error) {
	if p != nil {
		return p, nil
	}
	p = bind_group_provider.NewBindGroupProvider(label)
	if err := s.r.InitSampler(p, samplerBinding, common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
	}); err != nil {
		p.Release()
		return nil, fmt.Errorf("failed to create %s sampler: %w", label, err)
	}
	return p, nil
}

func (s *blackHoleScene) releaseTargets() {
	for _, p := range s.blurSources {
		p.ReleaseBindGroup()
	}
	if s.composite != nil {
		s.composite.ReleaseBindGroup()
	}
	for _, t := range []*renderer.RenderTarget{&s.main, &s.ping, &s.pong} {
		if *t != nil {
			(*t).Release()
			*t = nil
		}
	}
}

func (s *blackHoleScene) writeFrameUniforms() {
	cam := s.cam.Uniform()
	bh := s.bh.Uniform(s.clock.Elapsed(), uint32(s.width), uint32(s.height))

	p := s.bh.Params()
	comp := postprocess.GPUCompositeParams{
		Exposure:      p.Exposure,
		Gamma:         p.Gamma,
		BloomStrength: p.BloomStrength,
	}
	if p.BloomEnabled {
		comp.BloomEnabled = 1
	}

	s.r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: s.cam.BindGroupProvider(), Binding: s.lensing.cameraBinding, Data: cam.Marshal()},
		{Provider: s.bh.BindGroupProvider(), Binding: s.lensing.paramsBinding, Data: bh.Marshal()},
		{Provider: s.composite, Binding: s.compLayout.params, Data: comp.Marshal()},
	})
}

// lensingPass writes colour and bright-pass into main. The pass still clears when no variant is
// available so the composite never samples stale frames.
func (s *blackHoleScene) lensingPass() error {
	if err := s.r.BeginPass(s.main); err != nil {
		return err
	}
	defer s.r.EndPass()

	if s.r.Pipeline(s.lensingKey) == nil {
		return nil
	}
	groups := s.lensing.bindGroups(s.cam.BindGroupProvider(), s.bh.BindGroupProvider(), s.environment)
	if err := s.r.DrawCall(s.lensingKey, s.quad, 1, groups); err != nil {
		return fmt.Errorf("lensing pass: %w", err)
	}
	return nil
}

func (s *blackHoleScene) bloomPasses() error {
	targets := map[postprocess.Attachment]renderer.RenderTarget{
		postprocess.AttachmentPing: s.ping,
		postprocess.AttachmentPong: s.pong,
	}
	for _, step := range s.blurSchedule {
		if err := s.r.BeginPass(targets[step.Target]); err != nil {
			return err
		}
		err := s.r.DrawCall(blurPipelineKey, s.quad, 1, []bind_group_provider.BindGroupProvider{s.blurSources[step.Source]})
		s.r.EndPass()
		if err != nil {
			return fmt.Errorf("blur step %d: %w", step.Index, err)
		}
	}
	return nil
}

func (s *blackHoleScene) compositePass() error {
	if err := s.r.BeginPass(nil); err != nil {
		return err
	}
	defer s.r.EndPass()
	if err := s.r.DrawCall(compositePipelineKey, s.quad, 1, []bind_group_provider.BindGroupProvider{s.composite}); err != nil {
		return fmt.Errorf("composite pass: %w", err)
	}
	return nil
}
