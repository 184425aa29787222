package optics

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/df07/go-bending-light/pkg/core"
)

// WhiteLightSamples is the number of wavelengths a white beam is split into
const WhiteLightSamples = 10

// WhiteLightWavelengths returns n wavelengths (meters) evenly spaced across the
// visible spectrum, both ends included.
func WhiteLightWavelengths(n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{core.RedWavelength}
	}
	return floats.Span(make([]float64, n), core.MinWavelength, core.MaxWavelength)
}

// WavelengthToColor maps a vacuum wavelength (meters) to its perceived color.
// Wavelengths outside the visible range are returned as gray.
func WavelengthToColor(wavelength float64) color.NRGBA {
	nm := wavelength * 1e9

	var r, g, b float64
	switch {
	case nm >= 380 && nm < 440:
		r, g, b = -(nm-440)/(440-380), 0, 1
	case nm >= 440 && nm < 490:
		r, g, b = 0, (nm-440)/(490-440), 1
	case nm >= 490 && nm < 510:
		r, g, b = 0, 1, -(nm-510)/(510-490)
	case nm >= 510 && nm < 580:
		r, g, b = (nm-510)/(580-510), 1, 0
	case nm >= 580 && nm < 645:
		r, g, b = 1, -(nm-645)/(645-580), 0
	case nm >= 645 && nm <= 700:
		r, g, b = 1, 0, 0
	default:
		return color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	}

	// Intensity falls off near the edges of human vision
	factor := 1.0
	switch {
	case nm < 420:
		factor = 0.3 + 0.7*(nm-380)/(420-380)
	case nm > 680:
		factor = 0.3 + 0.7*(700-nm)/(700-680)
	}

	channel := func(c float64) uint8 {
		if c <= 0 {
			return 0
		}
		return uint8(math.Round(255 * math.Pow(c*factor, 0.8)))
	}
	return color.NRGBA{R: channel(r), G: channel(g), B: channel(b), A: 255}
}

// RayColor returns the display color of a ray: its wavelength's hue with
// opacity following the square root of its power, so weak rays fade out.
func RayColor(wavelength, power float64) color.NRGBA {
	c := WavelengthToColor(wavelength)
	c.A = uint8(math.Round(255 * math.Sqrt(clamp01(power))))
	return c
}
