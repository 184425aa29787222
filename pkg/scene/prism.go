package scene

import (
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/df07/go-bending-light/pkg/core"
	"github.com/df07/go-bending-light/pkg/geometry"
)

// Preset prism dimensions
const (
	PrismSize   = 10 * core.CharacteristicLength
	prismOffset = PrismSize / 4
)

// PrismKind names the preset prism shapes
type PrismKind int

const (
	Triangle PrismKind = iota
	Trapezoid
	Square
	Circle
	SemiCircle
	Custom
)

var prismKindNames = []string{"triangle", "trapezoid", "square", "circle", "semicircle", "custom"}

// String returns the lower-case kind name
func (k PrismKind) String() string {
	if k < 0 || int(k) >= len(prismKindNames) {
		return "unknown"
	}
	return prismKindNames[k]
}

// MarshalText implements encoding.TextMarshaler
func (k PrismKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParsePrismKind looks a kind up by name
func ParsePrismKind(s string) (PrismKind, error) {
	for i, name := range prismKindNames {
		if strings.EqualFold(s, name) {
			return PrismKind(i), nil
		}
	}
	return Custom, errors.Errorf("unknown prism kind %q", s)
}

// Prism is an immutable base shape plus the user's translation and rotation.
// The live geometry is always derived from the base, never stored.
type Prism struct {
	Base        geometry.Shape
	Translation core.Vec2
	Rotation    float64 // radians, counter-clockwise about the base centroid
	Kind        PrismKind
}

// NewPrism creates one of the preset shapes centered near the origin
func NewPrism(kind PrismKind) (Prism, error) {
	a, b := PrismSize, prismOffset

	var (
		base geometry.Shape
		err  error
	)
	switch kind {
	case Triangle:
		base, err = geometry.NewPolygon([]core.Vec2{
			core.NewVec2(-a/2, -b),
			core.NewVec2(a/2, -b),
			core.NewVec2(0, a*math.Sqrt(3)/2-b),
		})
	case Trapezoid:
		base, err = geometry.NewPolygon([]core.Vec2{
			core.NewVec2(-a/2, -b),
			core.NewVec2(a/2, -b),
			core.NewVec2(a/4, a/2-b),
			core.NewVec2(-a/4, a/2-b),
		})
	case Square:
		base, err = geometry.NewRectangle(-a/2, -a/2, a, a)
	case Circle:
		base, err = geometry.NewCircle(core.Vec2{}, a/2)
	case SemiCircle:
		base, err = geometry.NewSemiCircle(core.Vec2{}, a/2, math.Pi/2)
	default:
		return Prism{}, errors.Errorf("no preset for prism kind %s", kind)
	}
	if err != nil {
		return Prism{}, errors.Wrapf(err, "prism %s", kind)
	}
	return Prism{Base: base, Kind: kind}, nil
}

// NewCustomPrism creates a polygon prism from user vertices
func NewCustomPrism(vertices []core.Vec2) (Prism, error) {
	polygon, err := geometry.NewPolygon(vertices)
	if err != nil {
		return Prism{}, errors.Wrap(err, "custom prism")
	}
	return Prism{Base: polygon, Kind: Custom}, nil
}

// Translated returns the prism moved by (dx, dy)
func (p Prism) Translated(dx, dy float64) Prism {
	p.Translation = p.Translation.Add(core.NewVec2(dx, dy))
	return p
}

// Rotated returns the prism turned by angle radians about its center
func (p Prism) Rotated(angle float64) Prism {
	p.Rotation += angle
	return p
}

// Shape returns the prism's geometry in scene coordinates
func (p Prism) Shape() geometry.Shape {
	if p.Base == nil {
		return nil
	}
	shape := p.Base
	if rotatable, ok := shape.(geometry.Rotatable); ok && p.Rotation != 0 {
		shape = rotatable.Rotated(p.Rotation, shape.Centroid())
	}
	if !p.Translation.IsZero() {
		shape = shape.Translated(p.Translation.X, p.Translation.Y)
	}
	return shape
}
