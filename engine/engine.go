// Package engine drives the visualizer: it owns the window, renderer, camera and input, and runs
// every frame on the goroutine that created the window.
package engine

import (
	"errors"
	"log"
	"time"

	"github.com/Carmen-Shannon/voidstar-go/common"
	"github.com/Carmen-Shannon/voidstar-go/engine/camera"
	"github.com/Carmen-Shannon/voidstar-go/engine/input"
	"github.com/Carmen-Shannon/voidstar-go/engine/profiler"
	"github.com/Carmen-Shannon/voidstar-go/engine/renderer"
	"github.com/Carmen-Shannon/voidstar-go/engine/resource"
	"github.com/Carmen-Shannon/voidstar-go/engine/scene"
	"github.com/Carmen-Shannon/voidstar-go/engine/timer"
	"github.com/Carmen-Shannon/voidstar-go/engine/window"
)

// Frame phase names reported through the timer and profiler.
const (
	PhaseUpdate = "update"
	PhaseRender = "render"
)

// engine implements the Engine interface.
type engine struct {
	window   window.Window
	renderer renderer.Renderer
	camera   camera.Camera
	input    input.InputHandler
	clock    timer.Timer
	cache    resource.Cache
	scenes   scene.SceneManager

	profiler         *profiler.Profiler
	profilingEnabled bool

	updateCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastFrame        time.Time

	// now returns monotonic seconds; the window clock unless overridden.
	now func() float64
}

// Engine is the main entry point for the visualizer.
// It owns the collaborators every scene is built from and runs the frame loop.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer drawing into the window.
	Renderer() renderer.Renderer

	// Camera returns the application camera shared by every scene.
	Camera() camera.Camera

	// Input returns the input handler fed by the window callbacks.
	Input() input.InputHandler

	// Timer returns the frame timer.
	Timer() timer.Timer

	// Cache returns the resource cache scenes load shaders and textures through.
	Cache() resource.Cache

	// Scenes returns the scene manager.
	Scenes() scene.SceneManager

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetUpdateCallback registers a function called once per frame after the camera update and
	// before the scene update.
	//
	// Parameters:
	//   - callback: function receiving the frame delta time in seconds
	SetUpdateCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default). The cap applies on top of vsync.
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the frame loop and blocks until the window closes, then releases the current
	// scene, the cache watcher and the window.
	Run()

	// Quit asks the frame loop to stop after the current frame.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// A window, renderer, camera, input handler, timer and cache are created for any collaborator
// not supplied through an option. Window and renderer creation panic on failure.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{}
	for _, opt := range options {
		opt(e)
	}

	if e.window == nil {
		e.window = window.NewWindow()
	}
	if e.renderer == nil {
		e.renderer = renderer.NewRenderer(renderer.BackendTypeWGPU, e.window)
	}
	e.fillDefaults()
	if e.now == nil {
		e.now = e.window.Time
	}

	e.camera.SetAspect(aspect(e.window.Width(), e.window.Height()))
	e.wireWindow()
	return e
}

// fillDefaults creates the collaborators that need no window.
func (e *engine) fillDefaults() {
	if e.camera == nil {
		e.camera = camera.NewCamera()
	}
	if e.input == nil {
		e.input = input.NewInputHandler()
	}
	if e.clock == nil {
		e.clock = timer.NewTimer()
	}
	if e.cache == nil {
		e.cache = resource.NewCache()
	}
	if e.scenes == nil {
		e.scenes = scene.NewSceneManager(e.cache)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(e.clock)
	}
}

func (e *engine) wireWindow() {
	e.window.SetKeyDownCallback(func(key uint32) { e.input.OnKey(key, true) })
	e.window.SetKeyUpCallback(func(key uint32) { e.input.OnKey(key, false) })
	e.window.SetMouseMoveCallback(e.input.OnMouseMovement)
	e.window.SetScrollCallback(e.input.OnMouseScroll)
	e.window.SetResizeCallback(e.onResize)
}

func aspect(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}

func (e *engine) onResize(width, height int) {
	e.renderer.Resize(width, height)
	if width <= 0 || height <= 0 {
		return
	}
	e.camera.SetAspect(aspect(width, height))
	e.scenes.OnResize(width, height)
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Input() input.InputHandler {
	return e.input
}

func (e *engine) Timer() timer.Timer {
	return e.clock
}

func (e *engine) Cache() resource.Cache {
	return e.cache
}

func (e *engine) Scenes() scene.SceneManager {
	return e.scenes
}

func (e *engine) Run() {
	e.setPaused(!e.window.CursorCaptured())
	e.input.SetInitialMouseXY(e.window.CursorPosition())
	if s := e.scenes.Current(); s != nil {
		s.OnResize(e.window.Width(), e.window.Height())
	}

	e.lastFrame = time.Now()
	e.window.SetUpdateCallback(e.frame)
	e.window.ProcessMessages()
	e.shutdown()
}

func (e *engine) shutdown() {
	e.scenes.DeleteCurrentScene()
	if err := e.cache.Close(); err != nil {
		log.Printf("[Engine] failed to stop resource watcher: %v", err)
	}
	if err := e.window.Close(); err != nil {
		log.Printf("[Engine] failed to close window: %v", err)
	}
}

func (e *engine) Quit() {
	e.window.RequestClose()
}

// frame runs one iteration of the loop after the window has polled its events.
func (e *engine) frame() {
	e.clock.OnUpdate(e.now())
	dt := e.clock.Delta()

	e.clock.MeasurePhase(PhaseUpdate, func() { e.update(dt) })
	e.clock.MeasurePhase(PhaseRender, e.render)

	if e.profilingEnabled {
		e.profiler.Tick()
	}
	e.limitFrameRate()
}

func (e *engine) update(dt float32) {
	e.handleHotkeys()
	e.camera.OnUpdate(e.input, dt)
	if e.updateCallback != nil {
		e.updateCallback(dt)
	}
	e.scenes.OnUpdate(dt)
}

func (e *engine) render() {
	if err := e.scenes.OnRender(); err != nil && !errors.Is(err, renderer.ErrSurfaceUnavailable) {
		log.Printf("[Engine] frame failed: %v", err)
	}
	e.scenes.OnGUIRender()
}

func (e *engine) limitFrameRate() {
	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - time.Since(e.lastFrame); remaining > 0 {
			time.Sleep(remaining)
		}
	}
	e.lastFrame = time.Now()
}

// handleHotkeys applies the application-level key bindings:
//
//	Esc, P  pause the camera and release the cursor, or resume
//	C       toggle Euler/Quaternion orientation
//	R       reset the camera
func (e *engine) handleHotkeys() {
	pause := e.input.ConsumeKeyPress(common.KeyEsc)
	if e.input.ConsumeKeyPress(common.KeyP) {
		pause = !pause
	}
	if pause {
		e.setPaused(!e.camera.Controller().Paused())
	}
	if e.input.ConsumeKeyPress(common.KeyC) {
		e.camera.Controller().ToggleEulerAngles()
		log.Printf("[Engine] camera mode %s", e.camera.Controller().Mode())
	}
	if e.input.ConsumeKeyPress(common.KeyR) {
		e.camera.Reset()
		log.Print("[Engine] camera reset")
	}
}

// setPaused pauses or resumes the camera. Resuming captures the cursor and rebases the mouse
// position so the first delta is zero.
func (e *engine) setPaused(paused bool) {
	e.camera.Controller().SetPaused(paused)
	if e.window == nil {
		return
	}
	e.window.SetCursorCaptured(!paused)
	if !paused {
		e.input.SetInitialMouseXY(e.window.CursorPosition())
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetUpdateCallback(callback func(deltaTime float32)) {
	e.updateCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
