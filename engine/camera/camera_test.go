package camera

import (
	"math/rand"
	"testing"

	"github.com/Carmen-Shannon/voidstar-go/common"
	"github.com/Carmen-Shannon/voidstar-go/engine/input"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-5

func requireOrthonormal(t *testing.T, b Basis) {
	t.Helper()
	require.InDelta(t, 1, b.Look.Len(), eps)
	require.InDelta(t, 1, b.Up.Len(), eps)
	require.InDelta(t, 1, b.Right.Len(), eps)
	require.InDelta(t, 0, b.Look.Dot(b.Up), eps)
	require.InDelta(t, 0, b.Look.Dot(b.Right), eps)
	require.InDelta(t, 0, b.Up.Dot(b.Right), eps)
}

func assertVecNear(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], delta, "component %d: want %v got %v", i, want, got)
	}
}

func newActiveController(options ...CameraControllerOption) CameraController {
	return NewCameraController(append([]CameraControllerOption{WithPaused(false)}, options...)...)
}

func TestBasisStaysOrthonormal(t *testing.T) {
	for _, mode := range []OrientationMode{OrientationEuler, OrientationQuaternion} {
		t.Run(mode.String(), func(t *testing.T) {
			cc := newActiveController(WithOrientationMode(mode))
			in := input.NewInputHandler()
			in.OnMouseMovement(0, 0)
			rng := rand.New(rand.NewSource(42))

			x, y := 0.0, 0.0
			for i := range 500 {
				x += rng.Float64()*400 - 200
				y += rng.Float64()*400 - 200
				in.OnMouseMovement(x, y)
				in.OnKey(common.KeyQ, i%7 == 0)
				in.OnKey(common.KeyW, i%3 == 0)
				cc.OnUpdate(in, 1.0/60.0)
				requireOrthonormal(t, cc.Basis())
			}
		})
	}
}

func TestEulerPitchClamp(t *testing.T) {
	cc := newActiveController()
	for range 100 {
		cc.Rotate(0.5, 0)
		assert.LessOrEqual(t, cc.EulerAngles().Pitch, MaxPitch)
		assert.LessOrEqual(t, cc.Basis().Look.Y(), math32.Sin(MaxPitch)+1e-6)
		requireOrthonormal(t, cc.Basis())
	}
	assert.InDelta(t, MaxPitch, cc.EulerAngles().Pitch, 1e-6)

	for range 100 {
		cc.Rotate(-0.5, 0)
	}
	assert.InDelta(t, -MaxPitch, cc.EulerAngles().Pitch, 1e-6)
}

func TestModeSwitchRoundTrip(t *testing.T) {
	cc := newActiveController()
	cc.Rotate(0.4, 1.1)
	before := cc.Basis()

	cc.ToggleEulerAngles()
	require.Equal(t, OrientationQuaternion, cc.Mode())
	assertVecNear(t, before.Look, cc.Basis().Look, eps)
	assertVecNear(t, before.Up, cc.Basis().Up, eps)
	assertVecNear(t, before.Right, cc.Basis().Right, eps)

	cc.ToggleEulerAngles()
	require.Equal(t, OrientationEuler, cc.Mode())
	after := cc.Basis()
	assertVecNear(t, before.Look, after.Look, eps)
	assertVecNear(t, before.Up, after.Up, eps)
	assertVecNear(t, before.Right, after.Right, eps)
}

func TestRollIsDroppedEnteringEuler(t *testing.T) {
	cc := newActiveController(WithOrientationMode(OrientationQuaternion))
	cc.BarrelRoll(0.7)
	rolled := cc.Basis()
	require.Greater(t, math32.Abs(rolled.Right.Y()), float32(0.1))

	cc.ToggleEulerAngles()
	b := cc.Basis()
	assertVecNear(t, rolled.Look, b.Look, eps)
	assert.InDelta(t, 0, b.Right.Y(), eps, "Euler mode cannot bank")
	requireOrthonormal(t, b)
}

func TestBarrelRollIgnoredInEuler(t *testing.T) {
	cc := newActiveController()
	before := cc.Basis()
	cc.BarrelRoll(1.2)
	assert.Equal(t, before, cc.Basis())
}

func TestIdentityWhenLookIsReference(t *testing.T) {
	cc := newActiveController(WithStartTarget(mgl32.Vec3{0, 1, 0}))
	assertVecNear(t, look0, cc.Basis().Look, 1e-7)
	cc.ToggleEulerAngles()
	assert.Equal(t, mgl32.QuatIdent(), cc.Rotation())
}

func TestRotationBetweenAntiParallel(t *testing.T) {
	q := rotationBetween(look0, look0.Mul(-1))
	got := q.Rotate(look0)
	assert.True(t, common.IsFiniteVec3(got))
	assertVecNear(t, look0.Mul(-1), got, eps)

	up := mgl32.Vec3{1, 0, 0}
	got = rotationBetween(up, up.Mul(-1)).Rotate(up)
	assertVecNear(t, up.Mul(-1), got, eps)
}

func TestQuaternionLookAtBehind(t *testing.T) {
	cc := newActiveController(WithOrientationMode(OrientationQuaternion))
	behind := cc.Position().Sub(cc.Basis().Look.Mul(10))
	cc.LookAt(behind)
	want := behind.Sub(cc.Position()).Normalize()
	assertVecNear(t, want, cc.Basis().Look, 1e-4)
	requireOrthonormal(t, cc.Basis())
}

func TestDefaultFlight(t *testing.T) {
	cc := newActiveController()
	require.Equal(t, DefaultPosition, cc.Position())
	require.InDelta(t, DefaultMovementSpeed, cc.MovementSpeed(), 0)

	in := input.NewInputHandler()
	in.OnKey(common.KeyW, true)

	const n = 60
	dt := float32(1.0 / 60.0)
	for range n {
		cc.OnUpdate(in, dt)
	}

	want := DefaultPosition.Add(mgl32.Vec3{0, 0, 1}.Mul(n * dt * DefaultMovementSpeed))
	assertVecNear(t, want, cc.Position(), 5e-4)
}

func TestQuaternionForwardFollowsPitch(t *testing.T) {
	cc := newActiveController(WithOrientationMode(OrientationQuaternion), WithStartTarget(DefaultPosition.Add(look0)))
	cc.Rotate(0.5, 0)
	look := cc.Basis().Look

	in := input.NewInputHandler()
	in.OnKey(common.KeyW, true)
	cc.OnUpdate(in, 1)

	assertVecNear(t, DefaultPosition.Add(look.Mul(DefaultMovementSpeed)), cc.Position(), 1e-4)
}

func TestPausedIgnoresInput(t *testing.T) {
	cc := NewCameraController()
	require.True(t, cc.Paused())
	in := input.NewInputHandler()
	in.OnKey(common.KeyW, true)
	cc.OnUpdate(in, 1)
	assert.Equal(t, DefaultPosition, cc.Position())
}

func TestScrollAdjustsSpeed(t *testing.T) {
	cc := newActiveController()
	in := input.NewInputHandler()

	in.OnMouseScroll(5)
	cc.OnUpdate(in, 1.0/60.0)
	assert.InDelta(t, DefaultMovementSpeed+2, cc.MovementSpeed(), 1e-6)

	in.OnMouseScroll(-100)
	cc.OnUpdate(in, 1.0/60.0)
	assert.Zero(t, cc.MovementSpeed())

	cc.OnUpdate(in, 1.0/60.0)
	assert.Zero(t, in.ConsumeScroll(), "scroll is consumed")
}

func TestMouseRightTurnsRight(t *testing.T) {
	cc := newActiveController(WithStartTarget(DefaultPosition.Add(look0)))
	right := cc.Basis().Right

	in := input.NewInputHandler()
	in.OnMouseMovement(0, 0)
	in.OnMouseMovement(20, 0)
	cc.OnUpdate(in, 1.0/60.0)
	assert.Greater(t, cc.Basis().Look.Dot(right), float32(0))

	in.OnMouseMovement(20, -20)
	cc.OnUpdate(in, 1.0/60.0)
	assert.Greater(t, cc.EulerAngles().Pitch, float32(0), "moving the mouse up looks up")
}

func TestInvertY(t *testing.T) {
	cc := newActiveController(WithInvertY(true), WithStartTarget(DefaultPosition.Add(look0)))
	in := input.NewInputHandler()
	in.OnMouseMovement(0, 0)
	in.OnMouseMovement(0, -20)
	cc.OnUpdate(in, 1.0/60.0)
	assert.Less(t, cc.EulerAngles().Pitch, float32(0))
}

func TestNonFiniteInputIgnored(t *testing.T) {
	cc := newActiveController()
	before := cc.Basis()
	cc.Rotate(math32.NaN(), 0)
	cc.Rotate(0, math32.Inf(1))
	assert.Equal(t, before, cc.Basis())

	cc.SetPosition(mgl32.Vec3{math32.NaN(), 0, 0})
	assert.Equal(t, DefaultPosition, cc.Position())
}

func TestResetRestoresDefaults(t *testing.T) {
	cc := newActiveController()
	start := cc.Basis()
	cc.Rotate(0.3, 0.3)
	cc.SetPosition(mgl32.Vec3{5, 5, 5})
	cc.SetMovementSpeed(20)

	cc.Reset()
	assert.Equal(t, DefaultPosition, cc.Position())
	assert.InDelta(t, DefaultMovementSpeed, cc.MovementSpeed(), 0)
	assertVecNear(t, start.Look, cc.Basis().Look, eps)
}

func TestCameraMatrices(t *testing.T) {
	cam := NewCamera(WithAspect(2), WithController(newActiveController()))
	pos := cam.GetPosition()

	eye := cam.GetView().Mul4x1(pos.Vec4(1))
	assertVecNear(t, mgl32.Vec3{}, eye.Vec3(), 1e-4)

	ahead := cam.GetView().Mul4x1(pos.Add(cam.Controller().Basis().Look).Vec4(1))
	assert.InDelta(t, -1, ahead.Z(), 1e-4, "look maps to -Z in view space")

	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, cam.SkyboxView().Col(3))
	assert.Equal(t, cam.GetProj().Mul4(cam.GetView()), cam.GetViewProj())

	clip := cam.GetViewProj().Mul4x1(pos.Add(cam.Controller().Basis().Look.Mul(cam.Near())).Vec4(1))
	assert.InDelta(t, 0, clip.Z()/clip.W(), 1e-3, "near plane maps to depth 0")
}

func TestCameraSetters(t *testing.T) {
	cam := NewCamera()
	cam.SetFov(500)
	assert.Equal(t, float32(179), cam.Fov())
	cam.SetAspect(-1)
	assert.InDelta(t, 16.0/9.0, cam.Aspect(), 1e-6)
	cam.SetClipPlanes(10, 5)
	assert.Equal(t, float32(0.1), cam.Near())
	cam.SetClipPlanes(0.5, 50)
	assert.Equal(t, float32(50), cam.Far())
}

func TestCameraUniformLayout(t *testing.T) {
	cam := NewCamera()
	u := cam.Uniform()
	assert.Equal(t, 192, u.Size())
	buf := u.Marshal()
	require.Len(t, buf, 192)
	assert.InDelta(t, math32.Tan(mgl32.DegToRad(40)/2), u.TanHalfFov, 1e-6)
	assert.Contains(t, GPUCameraUniformSource, "struct CameraUniform")
}
