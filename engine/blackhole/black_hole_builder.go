package blackhole

import "github.com/Carmen-Shannon/voidstar-go/engine/renderer/bind_group_provider"

type BlackHoleBuilderOption func(*blackHole)

// WithParams replaces the starting parameters. Spin is clamped after all options run.
//
// Parameters:
//   - p: the starting parameters
//
// Returns:
//   - BlackHoleBuilderOption: a function that sets the parameters
func WithParams(p Params) BlackHoleBuilderOption {
	return func(b *blackHole) {
		b.params = p
	}
}

// WithMass sets the starting mass.
//
// Parameters:
//   - mass: mass in geometric units
//
// Returns:
//   - BlackHoleBuilderOption: a function that sets the mass
func WithMass(mass float32) BlackHoleBuilderOption {
	return func(b *blackHole) {
		b.params.Mass = mass
	}
}

// WithSpin sets the starting spin.
//
// Parameters:
//   - spin: spin parameter, clamped below mass
//
// Returns:
//   - BlackHoleBuilderOption: a function that sets the spin
func WithSpin(spin float32) BlackHoleBuilderOption {
	return func(b *blackHole) {
		b.params.Spin = spin
	}
}

// WithSolver sets the starting integrator.
func WithSolver(s Solver) BlackHoleBuilderOption {
	return func(b *blackHole) {
		b.params.Solver = s
	}
}

// WithMetric sets the starting metric.
func WithMetric(m Metric) BlackHoleBuilderOption {
	return func(b *blackHole) {
		b.params.Metric = m
	}
}

// WithPresets replaces the embedded preset list.
//
// Parameters:
//   - presets: presets available to ApplyPreset
//
// Returns:
//   - BlackHoleBuilderOption: a function that sets the presets
func WithPresets(presets []Preset) BlackHoleBuilderOption {
	return func(b *blackHole) {
		b.presets = presets
	}
}

// WithBindGroupProvider replaces the generated bind group provider.
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) BlackHoleBuilderOption {
	return func(b *blackHole) {
		b.bindGroupProvider = provider
	}
}
