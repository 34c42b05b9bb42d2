// Package scene holds the scene lifecycle and the scenes the visualizer can show. A scene is
// created by a registered factory when it becomes current and released when it is replaced.
package scene

import "errors"

// ErrSceneNotFound is returned when a scene name has no registered factory.
var ErrSceneNotFound = errors.New("scene not found")

// Scene is one activatable view. All methods run on the frame goroutine.
type Scene interface {
	// Name returns the scene's registered name.
	Name() string

	// OnUpdate advances the scene's simulation state by dt seconds.
	//
	// Parameters:
	//   - dt: frame delta time in seconds
	OnUpdate(dt float32)

	// OnRender records and submits the scene's passes and presents the frame.
	//
	// Returns:
	//   - error: renderer.ErrSurfaceUnavailable when the frame was skipped, or a pass failure
	OnRender() error

	// OnResize rebuilds size-dependent resources for the new viewport.
	//
	// Parameters:
	//   - width, height: viewport size in pixels
	OnResize(width, height int)

	// OnGUIRender is called once per frame after OnRender and drives the parameter overlay.
	OnGUIRender()

	// Release frees every resource the scene created. The scene is not used afterwards.
	Release()
}

// Factory creates a scene when it becomes current.
type Factory func() (Scene, error)
