package geometry

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/df07/go-bending-light/pkg/core"
)

// Polygon is a simple closed polygon with counter-clockwise vertices
type Polygon struct {
	Vertices []core.Vec2
}

// NewPolygon creates a polygon from its vertices. Clockwise input is reversed
// so that edge normals always point outward.
func NewPolygon(vertices []core.Vec2) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, errors.Errorf("polygon needs at least 3 vertices, got %d", len(vertices))
	}
	for i, v := range vertices {
		if !v.IsFinite() {
			return nil, errors.Errorf("polygon vertex %d is not finite: %v", i, v)
		}
	}

	verts := make([]core.Vec2, len(vertices))
	copy(verts, vertices)

	area := signedArea(verts)
	if area == 0 {
		return nil, errors.New("polygon has zero area")
	}
	if area < 0 {
		for i, j := 0, len(verts)-1; i < j; i, j = i+1, j-1 {
			verts[i], verts[j] = verts[j], verts[i]
		}
	}

	return &Polygon{Vertices: verts}, nil
}

// NewRectangle creates an axis-aligned rectangle from its minimum corner and size
func NewRectangle(x, y, width, height float64) (*Polygon, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("rectangle size must be positive, got %gx%g", width, height)
	}
	return NewPolygon([]core.Vec2{
		core.NewVec2(x, y),
		core.NewVec2(x+width, y),
		core.NewVec2(x+width, y+height),
		core.NewVec2(x, y+height),
	})
}

// signedArea is positive for counter-clockwise vertex order
func signedArea(verts []core.Vec2) float64 {
	sum := 0.0
	for i := range verts {
		sum += verts[i].Cross(verts[(i+1)%len(verts)])
	}
	return sum / 2
}

// Intersect tests the ray against every edge and returns the nearest hit
func (p *Polygon) Intersect(ray core.Ray2) (Intersection, bool) {
	return nearest(p.Crossings(ray))
}

// Crossings returns every edge crossing along the ray, nearest first
func (p *Polygon) Crossings(ray core.Ray2) []Intersection {
	n := len(p.Vertices)
	if n < 3 || !validRay(ray) {
		return nil
	}

	var hits []Intersection
	for i := 0; i < n; i++ {
		a := p.Vertices[i]
		b := p.Vertices[(i+1)%n]
		if hit, ok := intersectSegment(ray, a, b); ok {
			hits = append(hits, hit)
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].T < hits[j].T })
	return hits
}

// intersectSegment intersects a ray with the segment a→b. The normal is the
// segment's right-hand perpendicular, which is outward for counter-clockwise polygons.
func intersectSegment(ray core.Ray2, a, b core.Vec2) (Intersection, bool) {
	edge := b.Subtract(a)
	denominator := ray.Direction.Cross(edge)

	// Parallel (or degenerate edge): no single crossing point
	if denominator == 0 {
		return Intersection{}, false
	}

	w := a.Subtract(ray.Origin)
	t := w.Cross(edge) / denominator
	u := w.Cross(ray.Direction) / denominator

	if t <= core.Epsilon || u < 0 || u > 1 || math.IsNaN(t) {
		return Intersection{}, false
	}

	normal := core.NewVec2(edge.Y, -edge.X).Normalize()
	return Intersection{
		Point:      ray.At(t),
		UnitNormal: normal,
		T:          t,
	}, true
}

// Contains uses even-odd ray casting
func (p *Polygon) Contains(point core.Vec2) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := p.Vertices[i], p.Vertices[j]
		if (vi.Y > point.Y) != (vj.Y > point.Y) {
			xCross := (vj.X-vi.X)*(point.Y-vi.Y)/(vj.Y-vi.Y) + vi.X
			if point.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// Translated returns the polygon moved by (dx, dy)
func (p *Polygon) Translated(dx, dy float64) Shape {
	offset := core.NewVec2(dx, dy)
	verts := make([]core.Vec2, len(p.Vertices))
	for i, v := range p.Vertices {
		verts[i] = v.Add(offset)
	}
	return &Polygon{Vertices: verts}
}

// Rotated returns the polygon rotated counter-clockwise about pivot
func (p *Polygon) Rotated(angle float64, pivot core.Vec2) Shape {
	verts := make([]core.Vec2, len(p.Vertices))
	for i, v := range p.Vertices {
		verts[i] = v.RotateAround(angle, pivot)
	}
	return &Polygon{Vertices: verts}
}

// Centroid returns the area-weighted center of the polygon
func (p *Polygon) Centroid() core.Vec2 {
	n := len(p.Vertices)
	if n == 0 {
		return core.Vec2{}
	}

	area := signedArea(p.Vertices)
	if area == 0 {
		// Degenerate: fall back to the vertex average
		sum := core.Vec2{}
		for _, v := range p.Vertices {
			sum = sum.Add(v)
		}
		return sum.Multiply(1.0 / float64(n))
	}

	cx, cy := 0.0, 0.0
	for i := 0; i < n; i++ {
		a := p.Vertices[i]
		b := p.Vertices[(i+1)%n]
		cross := a.Cross(b)
		cx += (a.X + b.X) * cross
		cy += (a.Y + b.Y) * cross
	}
	return core.NewVec2(cx/(6*area), cy/(6*area))
}
