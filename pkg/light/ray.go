package light

import (
	"image/color"
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-bending-light/pkg/core"
)

// Role tags what part of the optical path a segment represents
type Role int

const (
	Incident Role = iota
	Reflected
	Transmitted
	PrismSegment
)

// String returns the role name used in JSON and logs
func (r Role) String() string {
	switch r {
	case Incident:
		return "incident"
	case Reflected:
		return "reflected"
	case Transmitted:
		return "transmitted"
	case PrismSegment:
		return "prism"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *Role) UnmarshalText(text []byte) error {
	for _, role := range []Role{Incident, Reflected, Transmitted, PrismSegment} {
		if role.String() == string(text) {
			*r = role
			return nil
		}
	}
	return errors.Errorf("unknown ray role %q", text)
}

// ColoredRay is a ray still being traced through prisms. Each step of the
// trace produces new values; none are modified in place.
type ColoredRay struct {
	Origin            core.Vec2
	Direction         core.Vec2 // Unit length
	Power             float64   // Fraction of source power in [0, 1]
	VacuumWavelength  float64   // meters
	IndexOfRefraction float64   // Index of the medium the ray travels in
	Frequency         float64   // Hz
	Depth             int       // Number of boundaries crossed so far
}

// NewColoredRay creates a ray leaving origin in the given medium
func NewColoredRay(origin, direction core.Vec2, power, vacuumWavelength, index float64) ColoredRay {
	return ColoredRay{
		Origin:            origin,
		Direction:         direction.Normalize(),
		Power:             power,
		VacuumWavelength:  vacuumWavelength,
		IndexOfRefraction: index,
		Frequency:         core.SpeedOfLight / vacuumWavelength,
	}
}

// WavelengthInMedium returns the wavelength inside the current medium
func (c ColoredRay) WavelengthInMedium() float64 {
	return c.VacuumWavelength / c.IndexOfRefraction
}

// Ray returns the geometric ray
func (c ColoredRay) Ray() core.Ray2 {
	return core.Ray2{Origin: c.Origin, Direction: c.Direction}
}

// Child returns the ray continuing from origin in a new direction, with power
// scaled by fraction, inside a medium of index n.
func (c ColoredRay) Child(origin, direction core.Vec2, fraction, n float64) ColoredRay {
	return ColoredRay{
		Origin:            origin,
		Direction:         direction,
		Power:             c.Power * fraction,
		VacuumWavelength:  c.VacuumWavelength,
		IndexOfRefraction: n,
		Frequency:         c.Frequency,
		Depth:             c.Depth + 1,
	}
}

// LightRay is a finished segment of the optical path
type LightRay struct {
	Tail                     core.Vec2   `json:"tail"`
	Tip                      core.Vec2   `json:"tip"`
	IndexOfRefraction        float64     `json:"indexOfRefraction"`
	WavelengthInMedium       float64     `json:"wavelengthInMedium"`   // meters
	WavelengthInVacuumNm     float64     `json:"wavelengthInVacuumNm"` // nanometers
	Power                    float64     `json:"power"`
	Color                    color.NRGBA `json:"color"`
	WaveWidth                float64     `json:"waveWidth"` // meters
	PhaseOffsetInWavelengths float64     `json:"phaseOffset"`
	Role                     Role        `json:"role"`
	Depth                    int         `json:"depth"`
}

// Vector returns tip - tail
func (r LightRay) Vector() core.Vec2 {
	return r.Tip.Subtract(r.Tail)
}

// Length returns the segment length
func (r LightRay) Length() float64 {
	return r.Vector().Length()
}

// Direction returns the unit direction from tail to tip
func (r LightRay) Direction() core.Vec2 {
	return r.Vector().Normalize()
}

// NumberOfWavelengths is how many in-medium wavelengths fit along the segment
func (r LightRay) NumberOfWavelengths() float64 {
	if r.WavelengthInMedium == 0 {
		return 0
	}
	return r.Length() / r.WavelengthInMedium
}

// Speed returns the speed of light in the ray's medium
func (r LightRay) Speed() float64 {
	return core.SpeedOfLight / r.IndexOfRefraction
}

// Velocity returns the propagation velocity vector
func (r LightRay) Velocity() core.Vec2 {
	return r.Direction().Multiply(r.Speed())
}

// Frequency is the same in every medium
func (r LightRay) Frequency() float64 {
	return core.SpeedOfLight / (r.WavelengthInVacuumNm * 1e-9)
}

// AngularFrequency returns 2π·f
func (r LightRay) AngularFrequency() float64 {
	return 2 * math.Pi * r.Frequency()
}

// CosArg is the phase of the wave at distance x along the ray at time t
func (r LightRay) CosArg(x, t float64) float64 {
	k := 2 * math.Pi / r.WavelengthInMedium
	return k*x - r.AngularFrequency()*t - 2*math.Pi*r.PhaseOffsetInWavelengths
}

// Contains reports whether p lies on the ray. In ray mode p must be within
// tolerance of the segment; in wave mode p must lie inside the beam of width WaveWidth.
func (r LightRay) Contains(p core.Vec2, waveMode bool, tolerance float64) bool {
	length := r.Length()
	if length == 0 {
		return false
	}
	direction := r.Vector().Multiply(1 / length)
	offset := p.Subtract(r.Tail)
	along := offset.Dot(direction)
	across := math.Abs(offset.Cross(direction))

	if waveMode {
		return along >= 0 && along <= length && across <= r.WaveWidth/2
	}

	// Distance to the segment, clamping to the end points
	var distance float64
	switch {
	case along < 0:
		distance = p.Distance(r.Tail)
	case along > length:
		distance = p.Distance(r.Tip)
	default:
		distance = across
	}
	return distance <= tolerance
}

// IsFinite reports whether the segment end points and scalars are usable
func (r LightRay) IsFinite() bool {
	if !r.Tail.IsFinite() || !r.Tip.IsFinite() {
		return false
	}
	for _, v := range []float64{r.Power, r.IndexOfRefraction, r.WavelengthInMedium, r.WaveWidth, r.PhaseOffsetInWavelengths} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// WithTip returns a copy of the ray ending at tip
func (r LightRay) WithTip(tip core.Vec2) LightRay {
	r.Tip = tip
	return r
}
