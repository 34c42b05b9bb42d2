package engine

import (
	"github.com/Carmen-Shannon/voidstar-go/engine/camera"
	"github.com/Carmen-Shannon/voidstar-go/engine/input"
	"github.com/Carmen-Shannon/voidstar-go/engine/renderer"
	"github.com/Carmen-Shannon/voidstar-go/engine/resource"
	"github.com/Carmen-Shannon/voidstar-go/engine/timer"
	"github.com/Carmen-Shannon/voidstar-go/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithWindow sets a custom configured window for the engine to use rather than allowing the engine
// to create and manage one internally.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets a renderer created for the engine's window. Without it the engine creates a
// WGPU renderer once the window exists.
//
// Parameters:
//   - r: a renderer bound to the same window passed with WithWindow
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithCamera sets the application camera.
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithInput sets the input handler the window callbacks feed.
func WithInput(in input.InputHandler) EngineBuilderOption {
	return func(e *engine) {
		e.input = in
	}
}

// WithTimer sets the frame timer.
func WithTimer(t timer.Timer) EngineBuilderOption {
	return func(e *engine) {
		e.clock = t
	}
}

// WithCache sets the resource cache shared by all scenes.
//
// Parameters:
//   - c: the cache; the engine closes it when Run returns
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCache(c resource.Cache) EngineBuilderOption {
	return func(e *engine) {
		e.cache = c
	}
}

// WithRenderFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameDuration(fps)
	}
}
