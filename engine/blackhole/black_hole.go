// Package blackhole holds the simulation parameters of the rendered black hole and derives the
// physical quantities the ray-marching shader needs each frame.
package blackhole

import (
	"fmt"
	"log"
	"slices"
	"strconv"
	"sync/atomic"

	"github.com/Carmen-Shannon/voidstar-go/common"
	"github.com/Carmen-Shannon/voidstar-go/engine/renderer/bind_group_provider"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// blackHoleCount is used to give each instance a unique bind group provider label.
var blackHoleCount atomic.Uint64

// spinLimit keeps spin strictly below mass so the horizon stays real-valued.
const spinLimit = 0.9999

// BlackHole owns one scene's black-hole parameters and their derived values.
type BlackHole interface {
	// OnUpdate advances the disk rotation by dt and recomputes the draw distance and horizon state
	// from the camera position passed to the previous call. The first call has no previous position
	// and uses cameraPos directly.
	//
	// Parameters:
	//   - dt: frame delta time in seconds
	//   - cameraPos: this frame's world-space camera position
	OnUpdate(dt float32, cameraPos mgl32.Vec3)

	// Params returns a copy of the tunable parameters.
	//
	// Returns:
	//   - Params: the current parameters
	Params() Params

	// Derived returns a copy of the derived values.
	//
	// Returns:
	//   - Derived: horizon, ISCO, draw distance and step budget
	Derived() Derived

	// Edit applies fn to the parameters, then clamps spin and recomputes everything derived.
	// This is the write path for UI controls.
	//
	// Parameters:
	//   - fn: mutation to apply
	Edit(fn func(p *Params))

	// SetMass sets the mass, clamping spin below it.
	SetMass(mass float32)

	// SetSpin sets the spin, clamped to [0, mass).
	SetSpin(spin float32)

	// SetSolver selects the integrator.
	SetSolver(s Solver)

	// SetMetric selects the spacetime metric.
	SetMetric(m Metric)

	// ResetDiskToMass places the disk at 3 and 8 Schwarzschild radii of the current mass.
	ResetDiskToMass()

	// SuggestedInnerRadius returns the ISCO radius, the smallest physically motivated disk inner edge.
	// The inner radius is never forced to it.
	SuggestedInnerRadius() float32

	// Defines returns the sorted shader defines selecting the current metric, solver and horizon variant.
	//
	// Returns:
	//   - []string: a copy of the define list
	Defines() []string

	// DefinesVersion increments every time Defines changes.
	DefinesVersion() uint64

	// ApplyPreset overwrites all preset-controlled fields with the named preset.
	//
	// Parameters:
	//   - name: preset name
	//
	// Returns:
	//   - error: ErrUnknownPreset if no preset has that name
	ApplyPreset(name string) error

	// ApplyPresetValues overwrites all preset-controlled fields with p.
	ApplyPresetValues(p Preset)

	// CurrentPreset reads back the live values of the preset-controlled fields.
	CurrentPreset() Preset

	// Presets returns the available preset names in load order.
	Presets() []string

	// Uniform packs parameters and derived values into the shader's uniform layout.
	//
	// Parameters:
	//   - time: elapsed seconds
	//   - width, height: viewport size in pixels
	//
	// Returns:
	//   - GPUBlackHoleParams: the uniform ready to Marshal
	Uniform(time float32, width, height uint32) GPUBlackHoleParams

	// BindGroupProvider returns the provider holding the params uniform buffer.
	BindGroupProvider() bind_group_provider.BindGroupProvider
}

type blackHole struct {
	params  Params
	derived Derived

	presets []Preset

	prevCameraPos mgl32.Vec3
	hasPrev       bool

	defines        []string
	definesVersion uint64

	bindGroupProvider bind_group_provider.BindGroupProvider
}

var _ BlackHole = &blackHole{}

// NewBlackHole creates a black hole with DefaultParams and the embedded presets.
//
// Parameters:
//   - options: functional options to configure the black hole
//
// Returns:
//   - BlackHole: the newly created black hole
func NewBlackHole(options ...BlackHoleBuilderOption) BlackHole {
	b := &blackHole{
		params:  DefaultParams(),
		presets: DefaultPresets(),
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"blackhole_" + strconv.FormatUint(blackHoleCount.Load(), 10),
		),
	}
	for _, option := range options {
		option(b)
	}
	b.derived.DrawDistance = MinDrawDistance
	b.normalize()
	blackHoleCount.Add(1)
	return b
}

func (b *blackHole) OnUpdate(dt float32, cameraPos mgl32.Vec3) {
	if b.params.RotateDisk && common.IsFinite(dt) {
		b.derived.RotationAngle += b.params.RotationSpeed * dt
	}

	if !b.hasPrev {
		b.prevCameraPos = cameraPos
		b.hasPrev = true
	}
	r := RadialDistance(b.params.Metric, b.prevCameraPos, b.params.Spin)
	if common.IsFinite(r) {
		b.derived.DrawDistance = DrawDistance(r)
		b.updateHorizon(r)
	}

	if common.IsFiniteVec3(cameraPos) {
		b.prevCameraPos = cameraPos
	}
}

// updateHorizon flips the inside flag when r crosses the horizon: inside below it, outside at or above it.
func (b *blackHole) updateHorizon(r float32) {
	inside := r < b.derived.HorizonRadius
	if inside == b.derived.InsideHorizon {
		return
	}
	b.derived.InsideHorizon = inside
	if inside {
		log.Printf("[BlackHole] camera entered the event horizon (r=%.3f, horizon=%.3f)", r, b.derived.HorizonRadius)
	} else {
		log.Printf("[BlackHole] camera left the event horizon (r=%.3f, horizon=%.3f)", r, b.derived.HorizonRadius)
	}
	b.selectBudget()
	b.rebuildDefines()
}

func (b *blackHole) Params() Params {
	return b.params
}

func (b *blackHole) Derived() Derived {
	return b.derived
}

func (b *blackHole) Edit(fn func(p *Params)) {
	fn(&b.params)
	b.normalize()
}

func (b *blackHole) SetMass(mass float32) {
	b.Edit(func(p *Params) { p.Mass = mass })
}

func (b *blackHole) SetSpin(spin float32) {
	b.Edit(func(p *Params) { p.Spin = spin })
}

func (b *blackHole) SetSolver(s Solver) {
	b.Edit(func(p *Params) { p.Solver = s })
}

func (b *blackHole) SetMetric(m Metric) {
	b.Edit(func(p *Params) { p.Metric = m })
}

func (b *blackHole) ResetDiskToMass() {
	b.Edit(func(p *Params) {
		rs := SchwarzschildRadius(p.Mass)
		p.InnerRadius = 3 * rs
		p.OuterRadius = 8 * rs
	})
}

func (b *blackHole) SuggestedInnerRadius() float32 {
	return b.derived.ISCORadius
}

func (b *blackHole) Defines() []string {
	return slices.Clone(b.defines)
}

func (b *blackHole) DefinesVersion() uint64 {
	return b.definesVersion
}

func (b *blackHole) ApplyPreset(name string) error {
	for _, p := range b.presets {
		if p.Name == name {
			b.ApplyPresetValues(p)
			log.Printf("[BlackHole] applied preset %q", name)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

func (b *blackHole) ApplyPresetValues(p Preset) {
	b.Edit(p.apply)
}

func (b *blackHole) CurrentPreset() Preset {
	return presetOf("", b.params)
}

func (b *blackHole) Presets() []string {
	names := make([]string, len(b.presets))
	for i, p := range b.presets {
		names[i] = p.Name
	}
	return names
}

func (b *blackHole) Uniform(time float32, width, height uint32) GPUBlackHoleParams {
	p, d := b.params, b.derived
	var flags uint32
	if p.UseDebugDisk {
		flags |= FlagDebugDisk
	}
	if p.UseDebugSphere {
		flags |= FlagDebugSphere
	}
	spin := p.Spin
	if p.Metric == MetricSchwarzschild {
		spin = 0
	}
	return GPUBlackHoleParams{
		Mass:                  p.Mass,
		Spin:                  spin,
		HorizonRadius:         d.HorizonRadius,
		ISCORadius:            d.ISCORadius,
		DiskInnerRadius:       p.InnerRadius,
		DiskOuterRadius:       p.OuterRadius,
		DiskRotationAngle:     d.RotationAngle,
		MaxTemperature:        p.MaxTemperature,
		AbsorptionCoefficient: p.AbsorptionCoefficient,
		Tolerance:             d.Tolerance,
		MaxSteps:              d.MaxSteps,
		DrawDistance:          d.DrawDistance,
		Time:                  time,
		BloomThreshold:        p.BloomThreshold,
		BackgroundBrightness:  p.BackgroundBrightness,
		DiskBrightness:        p.DiskBrightness,
		DopplerCoefficient:    p.DopplerCoefficient,
		BlueshiftCoefficient:  p.BlueshiftCoefficient,
		Flags:                 flags,
		ScreenSize:            [4]float32{0, 0, float32(width), float32(height)},
		DiskDebugTop1:         color4(p.DiskDebugTop1),
		DiskDebugTop2:         color4(p.DiskDebugTop2),
		DiskDebugBottom1:      color4(p.DiskDebugBottom1),
		DiskDebugBottom2:      color4(p.DiskDebugBottom2),
		SphereDebug1:          color4(p.SphereDebugColor1),
		SphereDebug2:          color4(p.SphereDebugColor2),
	}
}

func (b *blackHole) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return b.bindGroupProvider
}

// normalize restores the parameter invariants and recomputes everything derived from them.
func (b *blackHole) normalize() {
	p := &b.params
	p.Mass = nonNegative(p.Mass)
	p.Spin = clampSpin(p.Spin, p.Mass)
	p.InnerRadius = nonNegative(p.InnerRadius)
	p.OuterRadius = nonNegative(p.OuterRadius)
	if p.Solver < SolverEulerCromer || p.Solver > SolverAdaptiveRK45 {
		p.Solver = SolverRK4
	}
	if p.Metric != MetricKerr {
		p.Metric = MetricSchwarzschild
	}

	b.derived.HorizonRadius = HorizonRadius(p.Metric, p.Mass, p.Spin)
	b.derived.ISCORadius = ISCORadius(p.Mass, p.Spin)
	b.selectBudget()
	b.rebuildDefines()
}

func (b *blackHole) selectBudget() {
	budget := b.params.OutsideBudget
	if b.derived.InsideHorizon {
		budget = b.params.InsideBudget
	}
	b.derived.MaxSteps = max(budget.MaxSteps, 1)
	b.derived.Tolerance = budget.Tolerance
}

func (b *blackHole) rebuildDefines() {
	defines := []string{b.params.Metric.Define(), b.params.Solver.Define()}
	if b.derived.InsideHorizon {
		defines = append(defines, InsideHorizonDefine)
	}
	slices.Sort(defines)
	if slices.Equal(defines, b.defines) {
		return
	}
	b.defines = defines
	b.definesVersion++
}

func clampSpin(spin, mass float32) float32 {
	if !(spin > 0) {
		return 0
	}
	return math32.Min(spin, mass*spinLimit)
}

func nonNegative(v float32) float32 {
	if !(v > 0) || math32.IsInf(v, 0) {
		return 0
	}
	return v
}

func color4(c mgl32.Vec3) [4]float32 {
	return [4]float32{c[0], c[1], c[2], 1}
}
