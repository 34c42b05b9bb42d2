package camera

import (
	"github.com/Carmen-Shannon/voidstar-go/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// OrientationMode selects which orientation representation is authoritative.
type OrientationMode int

const (
	// OrientationEuler accumulates pitch and yaw and never rolls.
	OrientationEuler OrientationMode = iota
	// OrientationQuaternion composes body-relative rotations and supports roll.
	OrientationQuaternion
)

// String returns a human readable name for the mode.
func (m OrientationMode) String() string {
	switch m {
	case OrientationEuler:
		return "euler"
	case OrientationQuaternion:
		return "quaternion"
	default:
		return "unknown"
	}
}

// MaxPitch is the pitch limit in Euler mode: 89 degrees, in radians.
const MaxPitch = float32(89.0 / 90.0 * math32.Pi / 2)

// Reference frame the orientation is applied to. right0 = look0 x up0.
var (
	look0  = mgl32.Vec3{0, 0, 1}
	up0    = mgl32.Vec3{0, 1, 0}
	right0 = mgl32.Vec3{-1, 0, 0}
)

// EulerState holds accumulated angles in radians. Roll is always zero.
type EulerState struct {
	Pitch float32
	Yaw   float32
}

// QuaternionState holds the rotation applied to the reference frame.
type QuaternionState struct {
	Rotation mgl32.Quat
}

// Basis is an orthonormal look/up/right triple.
type Basis struct {
	Look  mgl32.Vec3
	Up    mgl32.Vec3
	Right mgl32.Vec3
}

// orientation is a tagged variant. Only the arm selected by mode is read or written;
// the other arm is rebuilt by convert when the mode changes.
type orientation struct {
	mode  OrientationMode
	euler EulerState
	quat  QuaternionState
}

func newOrientation(mode OrientationMode) orientation {
	return orientation{
		mode: mode,
		quat: QuaternionState{Rotation: mgl32.QuatIdent()},
	}
}

// basis derives look/up/right from the authoritative arm.
func (o *orientation) basis() Basis {
	switch o.mode {
	case OrientationQuaternion:
		q := o.quat.Rotation
		return Basis{
			Look:  q.Rotate(look0).Normalize(),
			Up:    q.Rotate(up0).Normalize(),
			Right: q.Rotate(right0).Normalize(),
		}
	default:
		look := eulerQuat(o.euler).Rotate(look0).Normalize()
		right := common.SafeNormalize(look.Cross(up0), yawRight(o.euler.Yaw))
		return Basis{
			Look:  look,
			Up:    right.Cross(look).Normalize(),
			Right: right,
		}
	}
}

// rotate applies pitch and yaw deltas. Invalid results leave the state unchanged.
func (o *orientation) rotate(pitch, yaw float32) {
	if !common.IsFinite(pitch) || !common.IsFinite(yaw) {
		return
	}
	switch o.mode {
	case OrientationQuaternion:
		q := o.quat.Rotation.
			Mul(mgl32.QuatRotate(yaw, up0)).
			Mul(mgl32.QuatRotate(pitch, right0))
		o.setRotation(q)
	default:
		o.euler.Pitch = clampPitch(o.euler.Pitch + pitch)
		o.euler.Yaw = wrapAngle(o.euler.Yaw + yaw)
	}
}

// roll banks about the current look axis. Euler mode cannot bank, so it is ignored there.
func (o *orientation) roll(angle float32) {
	if o.mode != OrientationQuaternion || !common.IsFinite(angle) {
		return
	}
	o.setRotation(o.quat.Rotation.Mul(mgl32.QuatRotate(angle, look0)))
}

// face turns the orientation toward dir. Quaternion mode takes the shortest arc from the
// current look, keeping whatever roll it had.
func (o *orientation) face(dir mgl32.Vec3) {
	if dir.Len() < 1e-6 || !common.IsFiniteVec3(dir) {
		return
	}
	dir = dir.Normalize()
	switch o.mode {
	case OrientationQuaternion:
		current := o.basis().Look
		o.setRotation(rotationBetween(current, dir).Mul(o.quat.Rotation))
	default:
		o.euler = eulerFromLook(dir)
	}
}

// convert switches mode, rebuilding the target arm from the current basis.
func (o *orientation) convert(to OrientationMode) {
	if o.mode == to {
		return
	}
	look := o.basis().Look
	switch to {
	case OrientationEuler:
		o.euler = eulerFromLook(look)
	case OrientationQuaternion:
		if look.ApproxEqualThreshold(look0, 1e-7) {
			o.quat.Rotation = mgl32.QuatIdent()
		} else {
			o.quat.Rotation = eulerQuat(o.euler)
		}
	}
	o.mode = to
}

func (o *orientation) setRotation(q mgl32.Quat) {
	l := q.Len()
	if l < 1e-6 || !common.IsFinite(l) {
		return
	}
	o.quat.Rotation = q.Scale(1 / l)
}

// eulerQuat composes yaw about up0 with pitch about right0.
func eulerQuat(e EulerState) mgl32.Quat {
	return mgl32.QuatRotate(e.Yaw, up0).Mul(mgl32.QuatRotate(e.Pitch, right0))
}

// eulerFromLook inverts eulerQuat for a unit look vector. Roll cannot be represented and is dropped.
func eulerFromLook(look mgl32.Vec3) EulerState {
	return EulerState{
		Pitch: clampPitch(math32.Asin(common.Clamp(look.Y(), -1, 1))),
		Yaw:   math32.Atan2(look.X(), look.Z()),
	}
}

// rotationBetween returns the shortest-arc rotation taking unit vector a onto unit vector b.
// Anti-parallel inputs rotate half a turn about any axis orthogonal to a.
func rotationBetween(a, b mgl32.Vec3) mgl32.Quat {
	d := common.Clamp(a.Dot(b), -1, 1)
	if d > 1-1e-6 {
		return mgl32.QuatIdent()
	}
	if d < -1+1e-6 {
		axis := a.Cross(mgl32.Vec3{1, 0, 0})
		if axis.Len() < 1e-3 {
			axis = a.Cross(mgl32.Vec3{0, 1, 0})
		}
		return mgl32.QuatRotate(math32.Pi, axis.Normalize())
	}
	return mgl32.QuatRotate(math32.Acos(d), a.Cross(b).Normalize())
}

// yawRight is the right vector for a level camera with the given yaw.
func yawRight(yaw float32) mgl32.Vec3 {
	return mgl32.QuatRotate(yaw, up0).Rotate(right0)
}

func clampPitch(p float32) float32 {
	return common.Clamp(p, -MaxPitch, MaxPitch)
}

// wrapAngle keeps yaw in [-pi, pi) so long sessions do not lose float precision.
func wrapAngle(a float32) float32 {
	if a >= math32.Pi || a < -math32.Pi {
		a -= 2 * math32.Pi * math32.Floor((a+math32.Pi)/(2*math32.Pi))
	}
	return a
}
