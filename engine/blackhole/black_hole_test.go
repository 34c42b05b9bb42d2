package blackhole

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestISCOKnownValues(t *testing.T) {
	assert.InDelta(t, 6, ISCORadius(1, 0), 1e-5)
	assert.InDelta(t, 12, ISCORadius(2, 0), 1e-5)
	assert.Zero(t, ISCORadius(0, 0))
	assert.Zero(t, ISCORadius(0, 0.5), "zero mass has no stable orbit")

	extreme := ISCORadius(1, 0.9999)
	assert.Greater(t, extreme, float32(1))
	assert.Less(t, extreme, float32(1.5))
	assert.False(t, math32.IsNaN(ISCORadius(1, 5)))
}

func TestISCOMonotonicInMass(t *testing.T) {
	const spin = 0.5
	prev := float32(0)
	for m := float32(0.51); m <= 3; m += 0.05 {
		r := ISCORadius(m, spin)
		assert.GreaterOrEqual(t, r, prev, "mass %v", m)
		prev = r
	}
}

func TestISCOStrictlyDecreasingInSpin(t *testing.T) {
	const mass = 1
	prev := ISCORadius(mass, 0)
	for a := float32(0.05); a < 0.999; a += 0.05 {
		r := ISCORadius(mass, a)
		assert.Less(t, r, prev, "spin %v", a)
		prev = r
	}
}

func TestEventHorizonRadius(t *testing.T) {
	assert.InDelta(t, 2, EventHorizonRadius(1, 0), 1e-6)
	assert.InDelta(t, 1, EventHorizonRadius(1, 1), 1e-6)
	assert.InDelta(t, 1+math32.Sqrt(0.75), EventHorizonRadius(1, 0.5), 1e-6)
	assert.InDelta(t, 1, EventHorizonRadius(1, 3), 1e-6, "out of range spin does not produce NaN")
	assert.InDelta(t, 2, HorizonRadius(MetricSchwarzschild, 1, 0.9), 1e-6)
}

func TestKerrRadius(t *testing.T) {
	p := mgl32.Vec3{1, 2, 2}
	assert.InDelta(t, 3, KerrRadius(p, 0), 1e-5)
	assert.InDelta(t, 4, KerrRadius(mgl32.Vec3{3, 0, 4}, 3), 1e-5)
	assert.InDelta(t, 5, KerrRadius(mgl32.Vec3{0, 5, 0}, 0.9), 1e-5, "on the spin axis r equals |p|")
	assert.Zero(t, KerrRadius(mgl32.Vec3{}, 0.5))
	assert.InDelta(t, p.Len(), RadialDistance(MetricSchwarzschild, p, 0.9), 1e-6)
}

func TestDrawDistance(t *testing.T) {
	assert.Equal(t, float32(70), DrawDistance(5))
	assert.Equal(t, float32(110), DrawDistance(100))
}

func TestSpinClampedBelowMass(t *testing.T) {
	bh := NewBlackHole()
	bh.SetSpin(2)
	p := bh.Params()
	assert.Less(t, p.Spin, p.Mass)

	bh.SetSpin(0.5)
	bh.SetMass(0.3)
	p = bh.Params()
	assert.Less(t, p.Spin, p.Mass)
	assert.False(t, math32.IsNaN(bh.Derived().HorizonRadius))

	bh.SetSpin(-1)
	assert.Zero(t, bh.Params().Spin)

	bh.SetMass(0)
	assert.Zero(t, bh.Params().Spin)
	assert.Zero(t, bh.Derived().ISCORadius)
}

func TestSuggestedInnerRadiusIsNotEnforced(t *testing.T) {
	bh := NewBlackHole()
	bh.Edit(func(p *Params) { p.InnerRadius = 1 })
	assert.Equal(t, float32(1), bh.Params().InnerRadius)
	assert.Greater(t, bh.SuggestedInnerRadius(), float32(1))
}

func TestResetDiskToMass(t *testing.T) {
	bh := NewBlackHole()
	bh.SetMass(2)
	bh.ResetDiskToMass()
	assert.Equal(t, float32(12), bh.Params().InnerRadius)
	assert.Equal(t, float32(32), bh.Params().OuterRadius)
}

func TestHorizonHysteresis(t *testing.T) {
	bh := NewBlackHole()
	horizon := bh.Derived().HorizonRadius
	require.InDelta(t, 1+math32.Sqrt(0.75), horizon, 1e-6)

	flips := 0
	last := bh.Derived().InsideHorizon
	step := func(z float32) {
		bh.OnUpdate(1.0/60.0, mgl32.Vec3{0, 0, z})
		if in := bh.Derived().InsideHorizon; in != last {
			flips++
			last = in
		}
	}

	for z := float32(5); z > 0.2; z -= 0.01 {
		step(z)
	}
	assert.Equal(t, 1, flips, "inward crossing flips once")
	assert.True(t, bh.Derived().InsideHorizon)

	for z := float32(0.2); z < 5; z += 0.01 {
		step(z)
	}
	assert.Equal(t, 2, flips, "outward crossing flips once more")
	assert.False(t, bh.Derived().InsideHorizon)
}

func TestHorizonUsesPreviousFrame(t *testing.T) {
	bh := NewBlackHole()
	outside := mgl32.Vec3{0, 0, 10}
	inside := mgl32.Vec3{0, 0, 0.5}

	bh.OnUpdate(0.016, outside)
	assert.False(t, bh.Derived().InsideHorizon)

	bh.OnUpdate(0.016, inside)
	assert.False(t, bh.Derived().InsideHorizon, "uses last frame's position")
	assert.Equal(t, float32(70), bh.Derived().DrawDistance)

	bh.OnUpdate(0.016, inside)
	assert.True(t, bh.Derived().InsideHorizon)
}

func TestHorizonSwitchesBudgetAndDefines(t *testing.T) {
	bh := NewBlackHole()
	params := bh.Params()
	assert.Equal(t, params.OutsideBudget.MaxSteps, bh.Derived().MaxSteps)
	assert.Equal(t, params.OutsideBudget.Tolerance, bh.Derived().Tolerance)
	assert.NotContains(t, bh.Defines(), InsideHorizonDefine)
	version := bh.DefinesVersion()

	bh.OnUpdate(0.016, mgl32.Vec3{})
	require.True(t, bh.Derived().InsideHorizon)
	assert.Equal(t, params.InsideBudget.MaxSteps, bh.Derived().MaxSteps)
	assert.Equal(t, params.InsideBudget.Tolerance, bh.Derived().Tolerance)
	assert.Contains(t, bh.Defines(), InsideHorizonDefine)
	assert.Equal(t, version+1, bh.DefinesVersion())
}

func TestDefinesTrackSolverAndMetric(t *testing.T) {
	bh := NewBlackHole()
	assert.Equal(t, []string{"METRIC_KERR", "SOLVER_RK4"}, bh.Defines())
	version := bh.DefinesVersion()

	bh.SetSolver(SolverRK4)
	assert.Equal(t, version, bh.DefinesVersion(), "unchanged selection keeps the variant")

	bh.SetSolver(SolverAdaptiveRK45)
	bh.SetMetric(MetricSchwarzschild)
	assert.Equal(t, []string{"METRIC_SCHWARZSCHILD", "SOLVER_RK45"}, bh.Defines())
	assert.Equal(t, version+2, bh.DefinesVersion())

	defines := bh.Defines()
	defines[0] = "MUTATED"
	assert.Equal(t, "METRIC_SCHWARZSCHILD", bh.Defines()[0], "Defines returns a copy")
}

func TestDiskRotationAccumulates(t *testing.T) {
	bh := NewBlackHole()
	for range 10 {
		bh.OnUpdate(1, mgl32.Vec3{0, 0, 30})
	}
	assert.InDelta(t, 1.0, bh.Derived().RotationAngle, 1e-5)

	bh.Edit(func(p *Params) { p.RotateDisk = false })
	bh.OnUpdate(1, mgl32.Vec3{0, 0, 30})
	assert.InDelta(t, 1.0, bh.Derived().RotationAngle, 1e-5)
}

func TestPresetAtomicity(t *testing.T) {
	bh := NewBlackHole()
	require.NoError(t, bh.ApplyPreset("Blazar"))
	require.NoError(t, bh.ApplyPreset("Interstellar"))

	want := Preset{
		InnerRadius:           2.5,
		OuterRadius:           14,
		Spin:                  0.95,
		RotationSpeed:         0.05,
		MaxTemperature:        4500,
		AbsorptionCoefficient: 0.25,
		BackgroundBrightness:  0.6,
		DiskBrightness:        1.8,
		DopplerCoefficient:    0,
		BlueshiftCoefficient:  0,
		BloomThreshold:        0.8,
		BloomStrength:         0.9,
		Exposure:              1.4,
		Gamma:                 2.2,
	}
	assert.Equal(t, want, bh.CurrentPreset())
}

func TestUnknownPreset(t *testing.T) {
	bh := NewBlackHole()
	before := bh.Params()
	err := bh.ApplyPreset("Nope")
	assert.ErrorIs(t, err, ErrUnknownPreset)
	assert.Equal(t, before, bh.Params())
}

func TestDefaultPresetMatchesDefaults(t *testing.T) {
	presets := DefaultPresets()
	require.NotEmpty(t, presets)
	assert.Equal(t, presetOf("Default", DefaultParams()), presets[0])
	assert.Equal(t, []string{"Default", "Interstellar", "Blazar", "Quiet"}, NewBlackHole().Presets())
}

func TestParsePresetsValidation(t *testing.T) {
	_, err := ParsePresets([]byte("[[preset]]\nspin = 0.1\n"))
	assert.Error(t, err)

	_, err = ParsePresets([]byte("[[preset]]\nname = \"a\"\n[[preset]]\nname = \"a\"\n"))
	assert.Error(t, err)

	_, err = ParsePresets([]byte("not = [valid"))
	assert.Error(t, err)

	presets, err := ParsePresets([]byte("[[preset]]\nname = \"only\"\ngamma = 1.8\n"))
	require.NoError(t, err)
	require.Len(t, presets, 1)
	assert.Equal(t, float32(1.8), presets[0].Gamma)
}

func TestUniform(t *testing.T) {
	bh := NewBlackHole()
	bh.Edit(func(p *Params) {
		p.UseDebugDisk = true
		p.Metric = MetricSchwarzschild
	})
	u := bh.Uniform(3, 800, 600)
	assert.Equal(t, 192, u.Size())
	assert.Len(t, u.Marshal(), 192)
	assert.Equal(t, FlagDebugDisk, u.Flags)
	assert.Zero(t, u.Spin, "Schwarzschild ignores spin")
	assert.Equal(t, [4]float32{0, 0, 800, 600}, u.ScreenSize)
	assert.Equal(t, float32(3), u.Time)
	assert.Equal(t, [4]float32{0.1, 0.8, 0.2, 1}, u.DiskDebugTop1)
	assert.InDelta(t, 2, u.HorizonRadius, 1e-6)
	assert.Contains(t, GPUBlackHoleParamsSource, "struct BlackHoleParams")
}

func TestBuilderOptions(t *testing.T) {
	bh := NewBlackHole(
		WithMass(2),
		WithSpin(5),
		WithMetric(MetricSchwarzschild),
		WithSolver(SolverAdaptiveRK45),
	)
	p := bh.Params()
	assert.Equal(t, float32(2), p.Mass)
	assert.InDelta(t, 2*spinLimit, p.Spin, 1e-5, "spin is clamped after every option ran")
	assert.Equal(t, []string{"METRIC_SCHWARZSCHILD", "SOLVER_RK45"}, bh.Defines())
	assert.True(t, p.Solver.Adaptive())
	assert.False(t, SolverRK4.Adaptive())

	custom := DefaultParams()
	custom.Mass = 3
	assert.Equal(t, float32(3), NewBlackHole(WithParams(custom)).Params().Mass)
}

func TestCustomPresets(t *testing.T) {
	only := presetOf("Only", DefaultParams())
	only.Exposure = 3
	bh := NewBlackHole(WithPresets([]Preset{only}))

	assert.Equal(t, []string{"Only"}, bh.Presets())
	assert.ErrorIs(t, bh.ApplyPreset("Default"), ErrUnknownPreset)
	require.NoError(t, bh.ApplyPreset("Only"))
	assert.Equal(t, float32(3), bh.Params().Exposure)

	other := only
	other.Exposure = 0.5
	bh.ApplyPresetValues(other)
	assert.Equal(t, float32(0.5), bh.CurrentPreset().Exposure)
}
