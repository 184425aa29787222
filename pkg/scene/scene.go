package scene

import (
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-bending-light/pkg/core"
	"github.com/df07/go-bending-light/pkg/geometry"
	"github.com/df07/go-bending-light/pkg/optics"
)

// ErrInvalidScene is wrapped by every scene validation failure
var ErrInvalidScene = errors.New("invalid scene")

// PropagationMode selects how light moves through the scene. It is either an
// InterfaceMode or a PrismMode.
type PropagationMode interface {
	// Name returns "interface" or "prisms"
	Name() string
	validate() error
}

// InterfaceMode is a flat boundary at the laser pivot between two media.
// Top fills y above the pivot and Bottom fills y below it.
type InterfaceMode struct {
	Top    optics.Medium
	Bottom optics.Medium
}

// Name implements PropagationMode
func (InterfaceMode) Name() string { return "interface" }

func (m InterfaceMode) validate() error {
	if err := validateMedium("top", m.Top); err != nil {
		return err
	}
	return validateMedium("bottom", m.Bottom)
}

// PrismMode traces light through any number of prisms sitting in an environment
type PrismMode struct {
	Prisms      []Prism
	Environment optics.Medium
	PrismMedium optics.Medium
}

// Name implements PropagationMode
func (PrismMode) Name() string { return "prisms" }

// Shapes returns the live geometry of every prism
func (m PrismMode) Shapes() []geometry.Shape {
	shapes := make([]geometry.Shape, 0, len(m.Prisms))
	for _, p := range m.Prisms {
		shapes = append(shapes, p.Shape())
	}
	return shapes
}

func (m PrismMode) validate() error {
	if err := validateMedium("environment", m.Environment); err != nil {
		return err
	}
	if err := validateMedium("prism", m.PrismMedium); err != nil {
		return err
	}
	for i, p := range m.Prisms {
		if p.Base == nil {
			return errors.Errorf("prism %d has no shape", i)
		}
		if !p.Translation.IsFinite() || math.IsNaN(p.Rotation) || math.IsInf(p.Rotation, 0) {
			return errors.Errorf("prism %d transform is not finite", i)
		}
	}
	return nil
}

func validateMedium(name string, m optics.Medium) error {
	index := m.Substance.IndexForReferenceWavelength
	if !(index > 0) || math.IsInf(index, 0) {
		return errors.Wrapf(optics.ErrInvalidIndex, "%s medium %q", name, m.Substance.Name)
	}
	return nil
}

// IntensityMeter is a circular probe that reports the power reaching it
type IntensityMeter struct {
	Position core.Vec2 `json:"position"`
	Radius   float64   `json:"radius"`
}

// Shape returns the sensor region, or nil for an unusable meter
func (m IntensityMeter) Shape() geometry.Shape {
	circle, err := geometry.NewCircle(m.Position, m.Radius)
	if err != nil {
		return nil
	}
	return circle
}

// Config holds the display flags that affect propagation
type Config struct {
	ShowReflections bool `json:"showReflections" yaml:"showReflections"`
	ShowNormals     bool `json:"showNormals" yaml:"showNormals"`
	ManyRays        bool `json:"manyRays" yaml:"manyRays"`
}

// Scene is a snapshot of everything a propagation pass reads
type Scene struct {
	Laser  Laser
	Mode   PropagationMode
	Sensor *IntensityMeter // Optional
	Config Config
}

// Validate checks the scene before tracing. Errors wrap ErrInvalidScene.
func (s *Scene) Validate() error {
	if s == nil {
		return errors.Wrap(ErrInvalidScene, "nil scene")
	}
	if err := s.Laser.Validate(); err != nil {
		return errors.Wrapf(ErrInvalidScene, "laser: %v", err)
	}
	if s.Mode == nil {
		return errors.Wrap(ErrInvalidScene, "no propagation mode")
	}
	if err := s.Mode.validate(); err != nil {
		return errors.Wrapf(ErrInvalidScene, "%s mode: %v", s.Mode.Name(), err)
	}
	if s.Sensor != nil && s.Sensor.Shape() == nil {
		return errors.Wrapf(ErrInvalidScene, "sensor radius %g", s.Sensor.Radius)
	}
	return nil
}

// IsWaveMode reports whether the beam has width
func (s *Scene) IsWaveMode() bool {
	return s.Laser.Beam == WaveBeam
}

// NewInterfaceMode fills the half planes above and below the pivot
func NewInterfaceMode(pivot core.Vec2, top, bottom optics.Substance) (InterfaceMode, error) {
	far := core.FarDistance
	topRegion, err := geometry.NewRectangle(pivot.X-far, pivot.Y, 2*far, far)
	if err != nil {
		return InterfaceMode{}, err
	}
	bottomRegion, err := geometry.NewRectangle(pivot.X-far, pivot.Y-far, 2*far, far)
	if err != nil {
		return InterfaceMode{}, err
	}

	topMedium, err := optics.NewMedium(topRegion, top)
	if err != nil {
		return InterfaceMode{}, errors.Wrap(err, "top")
	}
	bottomMedium, err := optics.NewMedium(bottomRegion, bottom)
	if err != nil {
		return InterfaceMode{}, errors.Wrap(err, "bottom")
	}
	return InterfaceMode{Top: topMedium, Bottom: bottomMedium}, nil
}

// NewPrismMode places prisms of one substance in an environment
func NewPrismMode(prisms []Prism, environment, prism optics.Substance) (PrismMode, error) {
	env, err := optics.NewMedium(nil, environment)
	if err != nil {
		return PrismMode{}, errors.Wrap(err, "environment")
	}
	medium, err := optics.NewMedium(nil, prism)
	if err != nil {
		return PrismMode{}, errors.Wrap(err, "prism medium")
	}
	return PrismMode{Prisms: prisms, Environment: env, PrismMedium: medium}, nil
}
