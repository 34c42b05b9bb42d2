package camera

import (
	"github.com/Carmen-Shannon/voidstar-go/common"
	"github.com/Carmen-Shannon/voidstar-go/engine/input"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Default free-fly settings.
const (
	DefaultMovementSpeed = 4.0
	DefaultMouseSpeed    = 0.2
	DefaultRollSpeed     = 1.0
	scrollSpeedStep      = 0.4
)

// DefaultPosition is where the camera starts and where Reset returns it.
var DefaultPosition = mgl32.Vec3{0, 1, -35.5}

// freeFlyController is the implementation of CameraController.
type freeFlyController struct {
	position mgl32.Vec3
	orient   orientation

	startPosition mgl32.Vec3
	startTarget   mgl32.Vec3

	movementSpeed          float32
	mouseSpeed             float32
	rollSpeed              float32
	userMovementMultiplier float32
	userMouseMultiplier    float32
	invertY                bool
	paused                 bool
}

var _ CameraController = &freeFlyController{}

// NewCameraController creates a free-fly controller at DefaultPosition facing the origin,
// in Euler mode and paused until input capture starts.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &freeFlyController{
		orient:                 newOrientation(OrientationEuler),
		startPosition:          DefaultPosition,
		startTarget:            mgl32.Vec3{},
		movementSpeed:          DefaultMovementSpeed,
		mouseSpeed:             DefaultMouseSpeed,
		rollSpeed:              DefaultRollSpeed,
		userMovementMultiplier: 1,
		userMouseMultiplier:    1,
		paused:                 true,
	}
	for _, option := range options {
		option(cc)
	}
	cc.position = cc.startPosition
	cc.orient.face(cc.startTarget.Sub(cc.startPosition))
	return cc
}

func (c *freeFlyController) OnUpdate(in input.InputHandler, dt float32) {
	if c.paused || in == nil || !common.IsFinite(dt) || dt <= 0 {
		return
	}

	if scroll := in.ConsumeScroll(); scroll != 0 {
		c.SetMovementSpeed(c.movementSpeed + scrollSpeedStep*scroll)
	}

	dx, dy := in.ConsumeMouseDelta()
	if dx != 0 || dy != 0 {
		speed := c.mouseSpeed * c.userMouseMultiplier * dt
		ySign := float32(1)
		if c.invertY {
			ySign = -1
		}
		c.orient.rotate(-dy*speed*ySign, -dx*speed)
	}

	if in.IsKeyDown(common.KeyQ) {
		c.orient.roll(-c.rollSpeed * dt)
	}
	if in.IsKeyDown(common.KeyE) {
		c.orient.roll(c.rollSpeed * dt)
	}

	c.move(in, dt)
}

// move integrates the six movement keys along the frame's basis.
func (c *freeFlyController) move(in input.InputHandler, dt float32) {
	b := c.orient.basis()
	forward, up := b.Look, b.Up
	if c.orient.mode == OrientationEuler {
		forward = common.SafeNormalize(mgl32.Vec3{b.Look.X(), 0, b.Look.Z()}, yawForward(c.orient.euler.Yaw))
		up = up0
	}

	step := c.movementSpeed * c.userMovementMultiplier * dt
	delta := mgl32.Vec3{}
	if in.IsKeyDown(common.KeyW) {
		delta = delta.Add(forward)
	}
	if in.IsKeyDown(common.KeyS) {
		delta = delta.Sub(forward)
	}
	if in.IsKeyDown(common.KeyD) {
		delta = delta.Add(b.Right)
	}
	if in.IsKeyDown(common.KeyA) {
		delta = delta.Sub(b.Right)
	}
	if in.IsKeyDown(common.KeySpace) {
		delta = delta.Add(up)
	}
	if in.IsKeyDown(common.KeyLeftShift) {
		delta = delta.Sub(up)
	}

	next := c.position.Add(delta.Mul(step))
	if common.IsFiniteVec3(next) {
		c.position = next
	}
}

func (c *freeFlyController) Reset() {
	c.position = c.startPosition
	mode := c.orient.mode
	c.orient = newOrientation(mode)
	c.orient.face(c.startTarget.Sub(c.startPosition))
	c.movementSpeed = DefaultMovementSpeed
	c.mouseSpeed = DefaultMouseSpeed
}

func (c *freeFlyController) Position() mgl32.Vec3 {
	return c.position
}

func (c *freeFlyController) SetPosition(p mgl32.Vec3) {
	if common.IsFiniteVec3(p) {
		c.position = p
	}
}

func (c *freeFlyController) LookAt(target mgl32.Vec3) {
	c.orient.face(target.Sub(c.position))
}

func (c *freeFlyController) Basis() Basis {
	return c.orient.basis()
}

func (c *freeFlyController) Rotate(pitch, yaw float32) {
	c.orient.rotate(pitch, yaw)
}

func (c *freeFlyController) BarrelRoll(angle float32) {
	c.orient.roll(angle)
}

func (c *freeFlyController) ToggleEulerAngles() {
	if c.orient.mode == OrientationEuler {
		c.orient.convert(OrientationQuaternion)
	} else {
		c.orient.convert(OrientationEuler)
	}
}

func (c *freeFlyController) Mode() OrientationMode {
	return c.orient.mode
}

func (c *freeFlyController) EulerAngles() EulerState {
	return c.orient.euler
}

func (c *freeFlyController) Rotation() mgl32.Quat {
	return c.orient.quat.Rotation
}

func (c *freeFlyController) Paused() bool {
	return c.paused
}

func (c *freeFlyController) SetPaused(paused bool) {
	c.paused = paused
}

func (c *freeFlyController) MovementSpeed() float32 {
	return c.movementSpeed
}

func (c *freeFlyController) SetMovementSpeed(speed float32) {
	if !common.IsFinite(speed) {
		return
	}
	c.movementSpeed = math32.Max(0, speed)
}

func (c *freeFlyController) MouseSpeed() float32 {
	return c.mouseSpeed
}

func (c *freeFlyController) SetMouseSpeed(speed float32) {
	if common.IsFinite(speed) {
		c.mouseSpeed = speed
	}
}

func (c *freeFlyController) UserMovementMultiplier() float32 {
	return c.userMovementMultiplier
}

func (c *freeFlyController) SetUserMovementMultiplier(m float32) {
	if common.IsFinite(m) {
		c.userMovementMultiplier = m
	}
}

func (c *freeFlyController) UserMouseMultiplier() float32 {
	return c.userMouseMultiplier
}

func (c *freeFlyController) SetUserMouseMultiplier(m float32) {
	if common.IsFinite(m) {
		c.userMouseMultiplier = m
	}
}

func (c *freeFlyController) InvertY() bool {
	return c.invertY
}

func (c *freeFlyController) SetInvertY(invert bool) {
	c.invertY = invert
}

// yawForward is the level forward vector for the given yaw.
func yawForward(yaw float32) mgl32.Vec3 {
	return mgl32.QuatRotate(yaw, up0).Rotate(look0)
}
