package optics

import (
	"math"

	"github.com/df07/go-bending-light/pkg/core"
)

// RefractionAngle applies Snell's law, θ2 = asin(n1/n2·sinθ1).
// NaN means there is no refracted ray (total internal reflection).
func RefractionAngle(n1, n2, theta1 float64) float64 {
	return math.Asin(n1 / n2 * math.Sin(theta1))
}

// CriticalAngle returns asin(n2/n1), or NaN when n2 >= n1 and total internal
// reflection cannot happen.
func CriticalAngle(n1, n2 float64) float64 {
	if n2 >= n1 {
		return math.NaN()
	}
	return math.Asin(n2 / n1)
}

// IsTotalInternalReflection reports whether a ray at incidence angle theta1 is fully reflected
func IsTotalInternalReflection(n1, n2, theta1 float64) bool {
	critical := CriticalAngle(n1, n2)
	return !math.IsNaN(critical) && theta1 >= critical
}

// ReflectedPower is the fraction of power reflected at the boundary
func ReflectedPower(n1, n2, cosTheta1, cosTheta2 float64) float64 {
	a := n1 * cosTheta1
	b := n2 * cosTheta2
	r := (a - b) / (a + b)
	return r * r
}

// TransmittedPower is the fraction of power transmitted across the boundary.
// ReflectedPower + TransmittedPower == 1 whenever both are defined.
func TransmittedPower(n1, n2, cosTheta1, cosTheta2 float64) float64 {
	a := n1 * cosTheta1
	b := n2 * cosTheta2
	return 4 * a * b / ((a + b) * (a + b))
}

// Split is the result of a ray meeting a boundary between two media
type Split struct {
	Reflected               core.Vec2 // Unit reflection direction
	Refracted               core.Vec2 // Unit refraction direction, zero on total internal reflection
	ReflectedPower          float64   // in [0, 1]
	TransmittedPower        float64   // in [0, 1]
	TotalInternalReflection bool
	CosTheta1               float64 // normal · (-direction); negative when the normal faces along the ray
	CosTheta2               float64
}

// SplitAtBoundary computes the reflected and refracted rays for a unit direction
// hitting a boundary with unit normal, going from index n1 into n2. The normal may
// face either side of the boundary.
func SplitAtBoundary(direction, normal core.Vec2, n1, n2 float64) Split {
	cosTheta1 := normal.Dot(direction.Negate())
	split := Split{
		Reflected: reflectVector(direction, normal, cosTheta1),
		CosTheta1: cosTheta1,
	}

	if !(n2 > 0) {
		split.TotalInternalReflection = true
		split.ReflectedPower = 1
		return split
	}

	ratio := n1 / n2
	cosTheta2Squared := 1 - ratio*ratio*(1-cosTheta1*cosTheta1)
	if cosTheta2Squared < 0 {
		split.TotalInternalReflection = true
		split.ReflectedPower = 1
		return split
	}

	cosTheta2 := math.Sqrt(math.Abs(cosTheta2Squared))
	split.CosTheta2 = cosTheta2
	split.Refracted = refractVector(direction, normal, ratio, cosTheta1, cosTheta2)

	// Power ratios use |cosθ1| so that the formula is independent of which way the normal faces
	absCos1 := math.Abs(cosTheta1)
	split.ReflectedPower = clamp01(ReflectedPower(n1, n2, absCos1, cosTheta2))
	split.TransmittedPower = clamp01(TransmittedPower(n1, n2, absCos1, cosTheta2))
	return split
}

// reflectVector mirrors direction about the boundary: L + 2·cosθ1·N
func reflectVector(direction, normal core.Vec2, cosTheta1 float64) core.Vec2 {
	return direction.Add(normal.Multiply(2 * cosTheta1)).Normalize()
}

// refractVector is the vector form of Snell's law. The sign of cosθ1 tells which
// side of the boundary the normal is on. The result is renormalized so that
// rounding error does not compound over many bounces.
func refractVector(direction, normal core.Vec2, ratio, cosTheta1, cosTheta2 float64) core.Vec2 {
	var along float64
	if cosTheta1 > 0 {
		along = ratio*cosTheta1 - cosTheta2
	} else {
		along = ratio*cosTheta1 + cosTheta2
	}
	return direction.Multiply(ratio).Add(normal.Multiply(along)).Normalize()
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
