package camera

import (
	"strconv"
	"sync/atomic"

	"github.com/Carmen-Shannon/voidstar-go/engine/input"
	"github.com/Carmen-Shannon/voidstar-go/engine/renderer/bind_group_provider"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// cameraCount is an atomic counter used to generate unique bind group provider names for each camera instance.
var cameraCount atomic.Uint64

// clipCorrection remaps OpenGL clip depth [-1, 1] to the WebGPU range [0, 1].
var clipCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

type cameraImpl struct {
	fov    float32 // degrees
	aspect float32
	near   float32
	far    float32

	view     mgl32.Mat4
	proj     mgl32.Mat4
	viewProj mgl32.Mat4
	skybox   mgl32.Mat4

	controller        CameraController
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera defines the interface for the camera system.
// The camera holds perspective settings and derives view/projection matrices
// from its CameraController after every update.
type Camera interface {
	// OnUpdate runs the controller for this frame and recomputes the matrices.
	//
	// Parameters:
	//   - in: the input handler feeding the controller
	//   - dt: frame delta time in seconds
	OnUpdate(in input.InputHandler, dt float32)

	// Reset restores the controller defaults and recomputes the matrices.
	Reset()

	// GetPosition returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	GetPosition() mgl32.Vec3

	// GetView returns the view matrix, look-at(position, position+look, up).
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix (column-major)
	GetView() mgl32.Mat4

	// GetProj returns the perspective projection with WebGPU depth range.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix (column-major)
	GetProj() mgl32.Mat4

	// GetViewProj returns GetProj() * GetView().
	//
	// Returns:
	//   - mgl32.Mat4: the combined matrix
	GetViewProj() mgl32.Mat4

	// SkyboxView returns the view matrix with translation removed, look-at(0, look, up).
	//
	// Returns:
	//   - mgl32.Mat4: the rotation-only view matrix
	SkyboxView() mgl32.Mat4

	// Fov returns the vertical field of view in degrees.
	Fov() float32

	// SetFov sets the vertical field of view in degrees, clamped to [1, 179].
	SetFov(fov float32)

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// SetAspect sets the aspect ratio. Non-positive values are ignored.
	SetAspect(aspect float32)

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// SetClipPlanes sets the near and far planes. Invalid ranges are ignored.
	//
	// Parameters:
	//   - near: near plane distance, must be positive
	//   - far: far plane distance, must exceed near
	SetClipPlanes(near, far float32)

	// Controller returns the attached CameraController.
	//
	// Returns:
	//   - CameraController: the controller
	Controller() CameraController

	// BindGroupProvider returns the camera's bind group provider for GPU resources.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Uniform packs the current matrices and basis into the GPU uniform layout.
	//
	// Returns:
	//   - GPUCameraUniform: the uniform ready to Marshal
	Uniform() GPUCameraUniform
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with a default free-fly controller unless one is supplied.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		fov:    40,
		aspect: 16.0 / 9.0,
		near:   0.1,
		far:    1000,
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"camera_" + strconv.FormatUint(cameraCount.Load(), 10),
		),
	}
	for _, option := range options {
		option(c)
	}
	if c.controller == nil {
		c.controller = NewCameraController()
	}
	c.updateMatrices()
	cameraCount.Add(1)
	return c
}

func (c *cameraImpl) OnUpdate(in input.InputHandler, dt float32) {
	c.controller.OnUpdate(in, dt)
	c.updateMatrices()
}

func (c *cameraImpl) Reset() {
	c.controller.Reset()
	c.updateMatrices()
}

func (c *cameraImpl) GetPosition() mgl32.Vec3 {
	return c.controller.Position()
}

func (c *cameraImpl) GetView() mgl32.Mat4 {
	return c.view
}

func (c *cameraImpl) GetProj() mgl32.Mat4 {
	return c.proj
}

func (c *cameraImpl) GetViewProj() mgl32.Mat4 {
	return c.viewProj
}

func (c *cameraImpl) SkyboxView() mgl32.Mat4 {
	return c.skybox
}

func (c *cameraImpl) Fov() float32 {
	return c.fov
}

func (c *cameraImpl) SetFov(fov float32) {
	if math32.IsNaN(fov) {
		return
	}
	c.fov = math32.Max(1, math32.Min(179, fov))
	c.updateMatrices()
}

func (c *cameraImpl) Aspect() float32 {
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if !(aspect > 0) || math32.IsInf(aspect, 0) {
		return
	}
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) Near() float32 {
	return c.near
}

func (c *cameraImpl) Far() float32 {
	return c.far
}

func (c *cameraImpl) SetClipPlanes(near, far float32) {
	if !(near > 0) || !(far > near) {
		return
	}
	c.near, c.far = near, far
	c.updateMatrices()
}

func (c *cameraImpl) Controller() CameraController {
	return c.controller
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return c.bindGroupProvider
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	b := c.controller.Basis()
	p := c.controller.Position()
	return GPUCameraUniform{
		ViewProj:   c.viewProj,
		SkyboxView: c.skybox,
		Position:   p,
		TanHalfFov: math32.Tan(mgl32.DegToRad(c.fov) / 2),
		Right:      b.Right,
		Aspect:     c.aspect,
		Up:         b.Up,
		Near:       c.near,
		Look:       b.Look,
		Far:        c.far,
	}
}

// updateMatrices recalculates view, projection and skybox matrices from the controller.
func (c *cameraImpl) updateMatrices() {
	b := c.controller.Basis()
	p := c.controller.Position()

	c.view = mgl32.LookAtV(p, p.Add(b.Look), b.Up)
	c.skybox = mgl32.LookAtV(mgl32.Vec3{}, b.Look, b.Up)
	c.proj = clipCorrection.Mul4(mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect, c.near, c.far))
	c.viewProj = c.proj.Mul4(c.view)
}
