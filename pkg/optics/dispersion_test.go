package optics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-bending-light/pkg/core"
)

func TestDispersionFunction_ReferenceWavelengthReturnsReferenceIndex(t *testing.T) {
	tests := []struct {
		name  string
		index float64
	}{
		{"air", AirIndexOfRefraction},
		{"water", WaterIndexOfRefraction},
		{"glass", GlassIndexOfRefraction},
		{"diamond", DiamondIndexOfRefraction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDispersionFunction(tt.index, core.RedWavelength)
			assert.InDelta(t, tt.index, d.IndexAt(core.RedWavelength), 1e-9)
		})
	}
}

func TestDispersionFunction_AirModel(t *testing.T) {
	// Visible-range air index is just above 1 and decreases with wavelength
	n400 := AirIndex(400e-9)
	n700 := AirIndex(700e-9)
	assert.Greater(t, n400, 1.0)
	assert.Less(t, n400, 1.001)
	assert.Greater(t, n400, n700)
}

func TestDispersionFunction_GlassModel(t *testing.T) {
	// BK7 is about 1.5168 at the sodium d line
	assert.InDelta(t, 1.5168, GlassIndex(587.6e-9), 1e-3)
	assert.Greater(t, GlassIndex(400e-9), GlassIndex(700e-9), "normal dispersion")
}

func TestDispersionFunction_MixingFactor(t *testing.T) {
	air := NewDispersionFunction(AirIndexOfRefraction, core.RedWavelength)
	glass := NewDispersionFunction(GlassIndex(core.RedWavelength), core.RedWavelength)
	diamond := NewDispersionFunction(DiamondIndexOfRefraction, core.RedWavelength)
	belowAir := NewDispersionFunction(1.0, core.RedWavelength)

	assert.Greater(t, air.MixingFactor(), 0.0)
	assert.Less(t, air.MixingFactor(), 0.01)
	assert.InDelta(t, 1.0, glass.MixingFactor(), 1e-12)
	assert.Greater(t, diamond.MixingFactor(), 1.0, "diamond extrapolates past glass")

	// Clamped to pure air
	assert.Equal(t, 0.0, belowAir.MixingFactor())
	assert.Equal(t, AirIndex(500e-9), belowAir.IndexAt(500e-9))
}

func TestDispersionFunction_DegenerateReference(t *testing.T) {
	// Both models evaluate to exactly 1 at a zero wavelength, so the blend denominator is zero
	d := NewDispersionFunction(1.5, 0)
	assert.Equal(t, 0.0, d.MixingFactor())
	n := d.IndexAt(core.RedWavelength)
	assert.False(t, math.IsInf(n, 0))
}

func TestDispersionFunction_Monotonic(t *testing.T) {
	for _, s := range Catalog() {
		t.Run(s.Name, func(t *testing.T) {
			blue := s.IndexAt(core.MinWavelength)
			red := s.IndexAt(core.MaxWavelength)
			assert.GreaterOrEqual(t, blue, red, "blue light should bend at least as much as red")
		})
	}
}
