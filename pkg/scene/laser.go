package scene

import (
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/df07/go-bending-light/pkg/core"
)

// SourceWaveWidth is the width of the beam leaving the laser in wave mode
const SourceWaveWidth = 2 * core.CharacteristicLength

// BeamMode selects how the beam is drawn and measured
type BeamMode int

const (
	RayBeam BeamMode = iota
	WaveBeam
)

// String returns "ray" or "wave"
func (b BeamMode) String() string {
	if b == WaveBeam {
		return "wave"
	}
	return "ray"
}

// MarshalText implements encoding.TextMarshaler
func (b BeamMode) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// ParseBeamMode accepts "ray" or "wave"; empty means ray
func ParseBeamMode(s string) (BeamMode, error) {
	switch strings.ToLower(s) {
	case "", "ray":
		return RayBeam, nil
	case "wave":
		return WaveBeam, nil
	}
	return RayBeam, errors.Errorf("unknown beam mode %q", s)
}

// ColorMode selects a single wavelength or the sampled white spectrum
type ColorMode int

const (
	Monochromatic ColorMode = iota
	White
)

// String returns "monochromatic" or "white"
func (c ColorMode) String() string {
	if c == White {
		return "white"
	}
	return "monochromatic"
}

// MarshalText implements encoding.TextMarshaler
func (c ColorMode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ParseColorMode accepts "monochromatic" or "white"; empty means monochromatic
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(s) {
	case "", "monochromatic", "mono":
		return Monochromatic, nil
	case "white":
		return White, nil
	}
	return Monochromatic, errors.Errorf("unknown color mode %q", s)
}

// Laser emits light from Position toward Pivot
type Laser struct {
	Position   core.Vec2 `json:"position"`
	Pivot      core.Vec2 `json:"pivot"`
	Wavelength float64   `json:"wavelength"` // meters
	On         bool      `json:"on"`
	Beam       BeamMode  `json:"beam"`
	Color      ColorMode `json:"color"`
}

// NewLaser places a red laser at distance from pivot, at angle radians
// counter-clockwise from +X, pointing back at the pivot
func NewLaser(pivot core.Vec2, distance, angle float64) Laser {
	return Laser{
		Position:   pivot.Add(core.Polar(distance, angle)),
		Pivot:      pivot,
		Wavelength: core.RedWavelength,
		On:         true,
	}
}

// Direction is the unit vector the light travels along
func (l Laser) Direction() core.Vec2 {
	return l.Pivot.Subtract(l.Position).Normalize()
}

// Angle of the emission point as seen from the pivot
func (l Laser) Angle() float64 {
	return l.Position.Subtract(l.Pivot).Angle()
}

// DistanceFromPivot returns how far the emission point is from the pivot
func (l Laser) DistanceFromPivot() float64 {
	return l.Position.Distance(l.Pivot)
}

// WithAngle returns the laser swung about its pivot to a new angle
func (l Laser) WithAngle(angle float64) Laser {
	l.Position = l.Pivot.Add(core.Polar(l.DistanceFromPivot(), angle))
	return l
}

// Validate checks that the laser can emit a visible ray
func (l Laser) Validate() error {
	if !l.Position.IsFinite() || !l.Pivot.IsFinite() {
		return errors.New("laser position is not finite")
	}
	if l.Position == l.Pivot {
		return errors.New("laser position and pivot coincide")
	}
	// Allow for rounding when converting from nanometers
	const slack = 1e-15
	if math.IsNaN(l.Wavelength) || l.Wavelength < core.MinWavelength-slack || l.Wavelength > core.MaxWavelength+slack {
		return errors.Errorf("laser wavelength %.0f nm outside visible range [%.0f, %.0f] nm",
			l.Wavelength*1e9, core.MinWavelength*1e9, core.MaxWavelength*1e9)
	}
	return nil
}
