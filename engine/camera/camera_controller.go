package camera

import (
	"github.com/Carmen-Shannon/voidstar-go/engine/input"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraController owns the free-fly camera's position and orientation.
// It turns buffered input into rotation and movement once per frame; Camera reads
// the resulting position and basis to build its matrices.
type CameraController interface {
	// OnUpdate consumes scroll and mouse deltas from the input handler, applies rotation,
	// and integrates movement for the held movement keys. Does nothing while paused.
	//
	// Parameters:
	//   - in: the input handler to read from
	//   - dt: frame delta time in seconds
	OnUpdate(in input.InputHandler, dt float32)

	// Reset restores the default position, orientation and speeds.
	// The orientation mode is kept.
	Reset()

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space eye position
	Position() mgl32.Vec3

	// SetPosition sets the camera's world-space position directly.
	//
	// Parameters:
	//   - p: world-space coordinates
	SetPosition(p mgl32.Vec3)

	// LookAt turns the camera to face a world-space point.
	// A target equal to the current position is ignored.
	//
	// Parameters:
	//   - target: the point to face
	LookAt(target mgl32.Vec3)

	// Basis returns the current orthonormal look/up/right vectors.
	//
	// Returns:
	//   - Basis: the derived basis
	Basis() Basis

	// Rotate applies pitch and yaw deltas in radians through the active orientation mode.
	//
	// Parameters:
	//   - pitch: rotation about the right axis, positive looks up
	//   - yaw: rotation about the up axis, positive turns left
	Rotate(pitch, yaw float32)

	// BarrelRoll banks the camera about its look axis.
	// Has no effect in Euler mode.
	//
	// Parameters:
	//   - angle: roll in radians
	BarrelRoll(angle float32)

	// ToggleEulerAngles switches between Euler and quaternion orientation, converting
	// the current orientation so the view does not jump. Roll is lost entering Euler mode.
	ToggleEulerAngles()

	// Mode returns the active orientation mode.
	//
	// Returns:
	//   - OrientationMode: Euler or quaternion
	Mode() OrientationMode

	// EulerAngles returns the accumulated pitch and yaw. Only meaningful in Euler mode.
	//
	// Returns:
	//   - EulerState: pitch and yaw in radians
	EulerAngles() EulerState

	// Rotation returns the composed rotation. Only meaningful in quaternion mode.
	//
	// Returns:
	//   - mgl32.Quat: rotation applied to the reference frame
	Rotation() mgl32.Quat

	// Paused reports whether OnUpdate is currently ignored.
	//
	// Returns:
	//   - bool: true if paused
	Paused() bool

	// SetPaused pauses or resumes input handling.
	//
	// Parameters:
	//   - paused: true to ignore input
	SetPaused(paused bool)

	// MovementSpeed returns the base movement speed in world units per second.
	MovementSpeed() float32

	// SetMovementSpeed sets the base movement speed, clamped to be non-negative.
	SetMovementSpeed(speed float32)

	// MouseSpeed returns the base mouse sensitivity in radians per pixel-second.
	MouseSpeed() float32

	// SetMouseSpeed sets the base mouse sensitivity.
	SetMouseSpeed(speed float32)

	// UserMovementMultiplier returns the user scale applied to MovementSpeed.
	UserMovementMultiplier() float32

	// SetUserMovementMultiplier sets the user scale applied to MovementSpeed.
	SetUserMovementMultiplier(m float32)

	// UserMouseMultiplier returns the user scale applied to MouseSpeed.
	UserMouseMultiplier() float32

	// SetUserMouseMultiplier sets the user scale applied to MouseSpeed.
	SetUserMouseMultiplier(m float32)

	// InvertY reports whether vertical mouse movement is inverted.
	InvertY() bool

	// SetInvertY sets vertical mouse inversion.
	SetInvertY(invert bool)
}
