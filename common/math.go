package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Clamp restricts v to the closed range [lo, hi].
//
// Parameters:
//   - v: value to clamp
//   - lo: lower bound
//   - hi: upper bound
//
// Returns:
//   - float32: v limited to [lo, hi]
func Clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}

// IsFiniteVec3 reports whether every component of v is finite.
func IsFiniteVec3(v mgl32.Vec3) bool {
	return IsFinite(v[0]) && IsFinite(v[1]) && IsFinite(v[2])
}

// SafeNormalize returns v scaled to unit length, or fallback when v is too short to normalize.
//
// Parameters:
//   - v: vector to normalize
//   - fallback: vector returned when |v| is below 1e-6
//
// Returns:
//   - mgl32.Vec3: the normalized vector or the fallback
func SafeNormalize(v, fallback mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-6 || !IsFinite(l) {
		return fallback
	}
	return v.Mul(1 / l)
}
