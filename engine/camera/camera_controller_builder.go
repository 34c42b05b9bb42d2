package camera

import "github.com/go-gl/mathgl/mgl32"

type CameraControllerOption func(*freeFlyController)

// WithStartPosition sets the position used at construction and by Reset.
//
// Parameters:
//   - p: world-space start position
//
// Returns:
//   - CameraControllerOption: a function that sets the start position
func WithStartPosition(p mgl32.Vec3) CameraControllerOption {
	return func(c *freeFlyController) {
		c.startPosition = p
	}
}

// WithStartTarget sets the point the camera faces at construction and after Reset.
//
// Parameters:
//   - target: world-space point to face
//
// Returns:
//   - CameraControllerOption: a function that sets the start target
func WithStartTarget(target mgl32.Vec3) CameraControllerOption {
	return func(c *freeFlyController) {
		c.startTarget = target
	}
}

// WithOrientationMode selects the initial orientation mode.
//
// Parameters:
//   - mode: OrientationEuler or OrientationQuaternion
//
// Returns:
//   - CameraControllerOption: a function that sets the orientation mode
func WithOrientationMode(mode OrientationMode) CameraControllerOption {
	return func(c *freeFlyController) {
		c.orient = newOrientation(mode)
	}
}

// WithMovementSpeed sets the base movement speed in world units per second.
//
// Parameters:
//   - speed: movement speed
//
// Returns:
//   - CameraControllerOption: a function that sets the movement speed
func WithMovementSpeed(speed float32) CameraControllerOption {
	return func(c *freeFlyController) {
		c.SetMovementSpeed(speed)
	}
}

// WithMouseSpeed sets the base mouse sensitivity.
//
// Parameters:
//   - speed: mouse sensitivity
//
// Returns:
//   - CameraControllerOption: a function that sets the mouse sensitivity
func WithMouseSpeed(speed float32) CameraControllerOption {
	return func(c *freeFlyController) {
		c.mouseSpeed = speed
	}
}

// WithRollSpeed sets the barrel roll rate in radians per second for the Q and E keys.
func WithRollSpeed(speed float32) CameraControllerOption {
	return func(c *freeFlyController) {
		c.rollSpeed = speed
	}
}

// WithInvertY inverts vertical mouse look.
func WithInvertY(invert bool) CameraControllerOption {
	return func(c *freeFlyController) {
		c.invertY = invert
	}
}

// WithPaused sets whether the controller starts paused.
func WithPaused(paused bool) CameraControllerOption {
	return func(c *freeFlyController) {
		c.paused = paused
	}
}
