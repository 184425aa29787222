package optics

import (
	"image/color"
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-bending-light/pkg/geometry"
)

// Tint colors for the index ramp air → water → glass → diamond
var (
	airColor     = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	waterColor   = color.NRGBA{R: 198, G: 226, B: 246, A: 255}
	glassColor   = color.NRGBA{R: 171, G: 169, B: 212, A: 255}
	diamondColor = color.NRGBA{R: 78, G: 79, B: 164, A: 255}
)

// Medium places a substance in a region of the scene. Media are values:
// changing a medium means building a new one.
type Medium struct {
	Region    geometry.Shape
	Substance Substance
	Color     color.NRGBA
}

// NewMedium creates a medium, rejecting substances with a non-physical index
func NewMedium(region geometry.Shape, substance Substance) (Medium, error) {
	index := substance.IndexForReferenceWavelength
	if !(index > 0) || math.IsInf(index, 0) {
		return Medium{}, errors.Wrapf(ErrInvalidIndex, "medium %q: %g", substance.Name, index)
	}
	if substance.dispersion.ReferenceWavelength == 0 {
		rebuilt, err := NewSubstance(substance.Name, index, substance.Mystery, substance.Custom)
		if err != nil {
			return Medium{}, err
		}
		substance = rebuilt
	}
	return Medium{
		Region:    region,
		Substance: substance,
		Color:     MediumColor(substance.IndexOfRefractionForRedLight),
	}, nil
}

// IndexAt returns the medium's index of refraction at wavelength (meters)
func (m Medium) IndexAt(wavelength float64) float64 {
	return m.Substance.IndexAt(wavelength)
}

// WithSubstance returns a copy of the medium filled with a different substance
func (m Medium) WithSubstance(substance Substance) (Medium, error) {
	return NewMedium(m.Region, substance)
}

// MediumColor maps an index of refraction onto the tint ramp
func MediumColor(index float64) color.NRGBA {
	switch {
	case index < WaterIndexOfRefraction:
		return blend(airColor, waterColor, ratio(index, 1.0, WaterIndexOfRefraction))
	case index < GlassIndexOfRefraction:
		return blend(waterColor, glassColor, ratio(index, WaterIndexOfRefraction, GlassIndexOfRefraction))
	case index < DiamondIndexOfRefraction:
		return blend(glassColor, diamondColor, ratio(index, GlassIndexOfRefraction, DiamondIndexOfRefraction))
	default:
		return diamondColor
	}
}

func ratio(value, low, high float64) float64 {
	return math.Max(0, math.Min(1, (value-low)/(high-low)))
}

func blend(a, b color.NRGBA, t float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}
