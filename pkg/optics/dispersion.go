package optics

import (
	"math"

	"github.com/df07/go-bending-light/pkg/core"
)

// Sellmeier coefficients for BK7 glass. C terms are in m².
const (
	sellmeierB1 = 1.03961212
	sellmeierB2 = 0.231792344
	sellmeierB3 = 1.01046945
	sellmeierC1 = 6.00069867e-3 * 1e-12
	sellmeierC2 = 2.00179144e-2 * 1e-12
	sellmeierC3 = 1.03560653e2 * 1e-12
)

// DispersionFunction models a material's index of refraction as a function of
// wavelength by blending between an air model and a glass model. The blend is
// chosen so that the reference wavelength yields the reference index.
type DispersionFunction struct {
	ReferenceIndex      float64 // Index of refraction at ReferenceWavelength
	ReferenceWavelength float64 // meters
}

// NewDispersionFunction creates a dispersion function anchored at (referenceIndex, referenceWavelength)
func NewDispersionFunction(referenceIndex, referenceWavelength float64) DispersionFunction {
	return DispersionFunction{ReferenceIndex: referenceIndex, ReferenceWavelength: referenceWavelength}
}

// AirIndex returns the index of refraction of air at the given wavelength (meters)
func AirIndex(wavelength float64) float64 {
	inverseSquare := math.Pow(wavelength*1e6, -2)
	return 1 + 5792105e-8/(238.0185-inverseSquare) + 167917e-8/(57.362-inverseSquare)
}

// GlassIndex returns the Sellmeier index of refraction of glass at the given wavelength (meters)
func GlassIndex(wavelength float64) float64 {
	l2 := wavelength * wavelength
	return math.Sqrt(1 +
		sellmeierB1*l2/(l2-sellmeierC1) +
		sellmeierB2*l2/(l2-sellmeierC2) +
		sellmeierB3*l2/(l2-sellmeierC3))
}

// MixingFactor returns how far the reference index sits between air (0) and glass (1).
// Values above 1 extrapolate past glass; negative values are clamped to 0.
func (d DispersionFunction) MixingFactor() float64 {
	nAirReference := AirIndex(d.ReferenceWavelength)
	nGlassReference := GlassIndex(d.ReferenceWavelength)

	denominator := nGlassReference - nAirReference
	if math.Abs(denominator) < 1e-12 {
		return 0
	}
	return math.Max(0, (d.ReferenceIndex-nAirReference)/denominator)
}

// IndexAt returns the index of refraction at the given wavelength (meters)
func (d DispersionFunction) IndexAt(wavelength float64) float64 {
	x := d.MixingFactor()
	return x*GlassIndex(wavelength) + (1-x)*AirIndex(wavelength)
}

// IndexForRedLight returns the index at the 650 nm reference wavelength
func (d DispersionFunction) IndexForRedLight() float64 {
	return d.IndexAt(core.RedWavelength)
}
