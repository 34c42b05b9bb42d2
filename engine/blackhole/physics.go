package blackhole

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MinDrawDistance is the smallest far distance handed to the ray marcher.
const MinDrawDistance = 70

// SchwarzschildRadius returns 2m, the horizon of a non-rotating hole in geometric units.
func SchwarzschildRadius(mass float32) float32 {
	return 2 * mass
}

// ISCORadius returns the prograde innermost stable circular orbit radius for mass m and spin a,
// using the Bardeen-Press-Teukolsky closed form. The dimensionless spin a/m is clamped to [0, 1].
// A zero or negative mass has no stable orbit and yields 0.
//
// Parameters:
//   - m: mass in geometric units
//   - a: spin parameter, same units as m
//
// Returns:
//   - float32: ISCO radius, 6m for a = 0 falling to m as a approaches m
func ISCORadius(m, a float32) float32 {
	if !(m > 0) {
		return 0
	}
	chi := math32.Max(0, math32.Min(1, a/m))
	z1 := 1 + cbrt(1-chi*chi)*(cbrt(1+chi)+cbrt(1-chi))
	z2 := math32.Sqrt(3*chi*chi + z1*z1)
	return m * (3 + z2 - math32.Sqrt(math32.Max(0, (3-z1)*(3+z1+2*z2))))
}

// EventHorizonRadius returns the outer horizon m + sqrt(m^2 - a^2).
// The discriminant is floored at zero so an out-of-range spin never produces NaN.
func EventHorizonRadius(m, a float32) float32 {
	return m + math32.Sqrt(math32.Max(0, m*m-a*a))
}

// KerrRadius returns the Boyer-Lindquist radius of point p around a hole with spin a about the Y axis:
// r^2 = (-b + sqrt(b^2 - 4c)) / 2 with b = a^2 - |p|^2 and c = -a^2 * p.y^2.
// With a = 0 this reduces to |p|.
func KerrRadius(p mgl32.Vec3, a float32) float32 {
	a2 := a * a
	b := a2 - p.Dot(p)
	c := -a2 * p.Y() * p.Y()
	r2 := 0.5 * (-b + math32.Sqrt(math32.Max(0, b*b-4*c)))
	return math32.Sqrt(math32.Max(0, r2))
}

// RadialDistance returns the metric-appropriate radius of p.
func RadialDistance(metric Metric, p mgl32.Vec3, a float32) float32 {
	if metric == MetricKerr {
		return KerrRadius(p, a)
	}
	return p.Len()
}

// HorizonRadius returns the horizon used for the inside test under the given metric.
// The Schwarzschild metric ignores spin.
func HorizonRadius(metric Metric, m, a float32) float32 {
	if metric == MetricKerr {
		return EventHorizonRadius(m, a)
	}
	return SchwarzschildRadius(m)
}

// DrawDistance returns max(MinDrawDistance, r+10), keeping the far limit beyond the camera
// wherever it flies.
func DrawDistance(r float32) float32 {
	return math32.Max(MinDrawDistance, r+10)
}

// cbrt is the real cube root for the non-negative inputs ISCORadius produces.
func cbrt(x float32) float32 {
	return math32.Pow(math32.Max(0, x), 1.0/3.0)
}
