package geometry

import "github.com/df07/go-bending-light/pkg/core"

// Intersection records where a ray crossed a shape boundary
type Intersection struct {
	Point      core.Vec2 `json:"point"`
	UnitNormal core.Vec2 `json:"unitNormal"` // Outward unit normal of the boundary at Point
	T          float64   `json:"t"`          // Distance along the (unit direction) ray
}

// Shape is a closed 2D region that can be hit by rays
type Shape interface {
	// Intersect returns the nearest boundary crossing with t > core.Epsilon
	Intersect(ray core.Ray2) (Intersection, bool)
	// Crossings returns every boundary crossing with t > core.Epsilon, nearest first
	Crossings(ray core.Ray2) []Intersection
	// Contains reports whether p lies inside the region
	Contains(p core.Vec2) bool
	// Translated returns a copy of the shape moved by (dx, dy)
	Translated(dx, dy float64) Shape
	// Centroid returns the center of mass of the region
	Centroid() core.Vec2
}

// Rotatable is implemented by shapes that can be rotated about a pivot
type Rotatable interface {
	Shape
	Rotated(angle float64, pivot core.Vec2) Shape
}

// FindNearest returns the nearest intersection of ray with any of the shapes.
// Ties keep the first shape found.
func FindNearest(ray core.Ray2, shapes []Shape) (Intersection, bool) {
	var closest Intersection
	hitAnything := false

	if ray.Direction.IsZero() || !ray.Direction.IsFinite() {
		return closest, false
	}

	for _, shape := range shapes {
		if shape == nil {
			continue
		}
		if hit, ok := shape.Intersect(ray); ok {
			if !hitAnything || hit.T < closest.T {
				closest = hit
				hitAnything = true
			}
		}
	}

	return closest, hitAnything
}

// ContainsAny reports whether p lies inside any of the shapes
func ContainsAny(p core.Vec2, shapes []Shape) bool {
	for _, shape := range shapes {
		if shape != nil && shape.Contains(p) {
			return true
		}
	}
	return false
}

// nearest picks the first element of a sorted crossing list
func nearest(crossings []Intersection) (Intersection, bool) {
	if len(crossings) == 0 {
		return Intersection{}, false
	}
	return crossings[0], true
}

// validRay reports whether a ray can be traced at all
func validRay(ray core.Ray2) bool {
	return !ray.Direction.IsZero() && ray.Direction.IsFinite() && ray.Origin.IsFinite()
}
