package geometry

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/df07/go-bending-light/pkg/core"
)

// SemiCircle is half a disc: the arc bulges toward Facing, the flat chord
// passes through Center perpendicular to it.
type SemiCircle struct {
	Center core.Vec2
	Radius float64
	Facing core.Vec2 // Unit vector from the chord toward the arc
}

// NewSemiCircle creates a semicircle whose arc points along angle (radians)
func NewSemiCircle(center core.Vec2, radius, angle float64) (*SemiCircle, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, errors.Errorf("semicircle radius must be positive and finite, got %g", radius)
	}
	return &SemiCircle{
		Center: center,
		Radius: radius,
		Facing: core.Polar(1, angle),
	}, nil
}

// chord returns the end points of the flat side, ordered so that the
// segment normal points away from the arc
func (s *SemiCircle) chord() (core.Vec2, core.Vec2) {
	half := s.Facing.Perpendicular().Multiply(s.Radius)
	return s.Center.Add(half), s.Center.Subtract(half)
}

// Intersect returns the nearest crossing with either the arc or the chord
func (s *SemiCircle) Intersect(ray core.Ray2) (Intersection, bool) {
	return nearest(s.Crossings(ray))
}

// Crossings returns arc and chord crossings, nearest first
func (s *SemiCircle) Crossings(ray core.Ray2) []Intersection {
	if s.Facing.IsZero() {
		return nil
	}

	var hits []Intersection
	for _, t := range circleRoots(ray, s.Center, s.Radius) {
		point := ray.At(t)
		// Arc hits on the chord side belong to the missing half
		if point.Subtract(s.Center).Dot(s.Facing) < 0 {
			continue
		}
		hits = append(hits, Intersection{
			Point:      point,
			UnitNormal: point.Subtract(s.Center).Multiply(1.0 / s.Radius),
			T:          t,
		})
	}

	a, b := s.chord()
	if hit, ok := intersectSegment(ray, a, b); ok {
		hits = append(hits, hit)
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].T < hits[j].T })
	return hits
}

// Contains reports whether p lies in the half disc
func (s *SemiCircle) Contains(p core.Vec2) bool {
	offset := p.Subtract(s.Center)
	return offset.LengthSquared() <= s.Radius*s.Radius && offset.Dot(s.Facing) >= 0
}

// Translated returns the semicircle moved by (dx, dy)
func (s *SemiCircle) Translated(dx, dy float64) Shape {
	return &SemiCircle{Center: s.Center.Add(core.NewVec2(dx, dy)), Radius: s.Radius, Facing: s.Facing}
}

// Rotated returns the semicircle rotated counter-clockwise about pivot
func (s *SemiCircle) Rotated(angle float64, pivot core.Vec2) Shape {
	return &SemiCircle{
		Center: s.Center.RotateAround(angle, pivot),
		Radius: s.Radius,
		Facing: s.Facing.Rotate(angle),
	}
}

// Centroid returns the center of mass of the half disc
func (s *SemiCircle) Centroid() core.Vec2 {
	return s.Center.Add(s.Facing.Multiply(4 * s.Radius / (3 * math.Pi)))
}
