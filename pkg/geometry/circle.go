package geometry

import (
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-bending-light/pkg/core"
)

// Circle represents a circular region
type Circle struct {
	Center core.Vec2
	Radius float64
}

// NewCircle creates a new circle
func NewCircle(center core.Vec2, radius float64) (*Circle, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, errors.Errorf("circle radius must be positive and finite, got %g", radius)
	}
	if !center.IsFinite() {
		return nil, errors.Errorf("circle center is not finite: %v", center)
	}
	return &Circle{Center: center, Radius: radius}, nil
}

// Intersect returns the nearest crossing of the ray with the circle
func (c *Circle) Intersect(ray core.Ray2) (Intersection, bool) {
	return nearest(c.Crossings(ray))
}

// Crossings returns up to two crossings, nearest first
func (c *Circle) Crossings(ray core.Ray2) []Intersection {
	roots := circleRoots(ray, c.Center, c.Radius)

	hits := make([]Intersection, 0, len(roots))
	for _, t := range roots {
		point := ray.At(t)
		hits = append(hits, Intersection{
			Point:      point,
			UnitNormal: point.Subtract(c.Center).Multiply(1.0 / c.Radius),
			T:          t,
		})
	}
	return hits
}

// circleRoots solves |o + t·d - center|² = r² for t > Epsilon, ascending.
// Direction is assumed to be unit length.
func circleRoots(ray core.Ray2, center core.Vec2, radius float64) []float64 {
	if !(radius > 0) || !validRay(ray) {
		return nil
	}

	// Vector from circle center to ray origin
	oc := ray.Origin.Subtract(center)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - radius*radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil
	}

	sqrtD := math.Sqrt(discriminant)
	roots := make([]float64, 0, 2)
	for _, t := range []float64{(-halfB - sqrtD) / a, (-halfB + sqrtD) / a} {
		if t > core.Epsilon {
			roots = append(roots, t)
		}
	}
	// A tangent ray produces the same root twice
	if len(roots) == 2 && roots[0] == roots[1] {
		roots = roots[:1]
	}
	return roots
}

// Contains reports whether p is inside or on the circle
func (c *Circle) Contains(p core.Vec2) bool {
	return p.Subtract(c.Center).LengthSquared() <= c.Radius*c.Radius
}

// Translated returns the circle moved by (dx, dy)
func (c *Circle) Translated(dx, dy float64) Shape {
	return &Circle{Center: c.Center.Add(core.NewVec2(dx, dy)), Radius: c.Radius}
}

// Centroid returns the center of the circle
func (c *Circle) Centroid() core.Vec2 {
	return c.Center
}
