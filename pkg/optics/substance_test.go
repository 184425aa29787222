package optics

import (
	"image/color"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/df07/go-bending-light/pkg/core"
	"github.com/df07/go-bending-light/pkg/geometry"
)

func TestSubstance_Catalog(t *testing.T) {
	catalog := Catalog()
	require.Len(t, catalog, 6)

	names := make([]string, len(catalog))
	for i, s := range catalog {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"air", "water", "glass", "diamond", "mysteryA", "mysteryB"}, names)

	assert.True(t, MysteryA.Mystery)
	assert.True(t, MysteryB.Mystery)
	assert.False(t, Water.Mystery)
	assert.False(t, Glass.Custom)
}

func TestSubstance_WaterIndexForRedLight(t *testing.T) {
	assert.InDelta(t, 1.333, Water.IndexOfRefractionForRedLight, 1e-9)
	assert.InDelta(t, 1.000293, Air.IndexOfRefractionForRedLight, 1e-9)
}

func TestSubstance_ByName(t *testing.T) {
	s, ok := SubstanceByName("Diamond")
	require.True(t, ok)
	assert.Equal(t, DiamondIndexOfRefraction, s.IndexForReferenceWavelength)

	_, ok = SubstanceByName("unobtainium")
	assert.False(t, ok)
}

func TestSubstance_Validation(t *testing.T) {
	tests := []struct {
		name  string
		index float64
	}{
		{"zero", 0},
		{"negative", -1.2},
		{"NaN", math.NaN()},
		{"infinite", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSubstance("bad", tt.index, false, false)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidIndex))
		})
	}
}

func TestSubstance_CustomRange(t *testing.T) {
	custom, err := NewCustomSubstance(1.2)
	require.NoError(t, err)
	assert.True(t, custom.Custom)
	assert.InDelta(t, 1.2, custom.IndexOfRefractionForRedLight, 1e-9)

	_, err = NewCustomSubstance(1.7)
	assert.True(t, errors.Is(err, ErrInvalidIndex))
	_, err = NewCustomSubstance(0.9)
	assert.Error(t, err)
}

func TestSubstance_ZeroValueIsVacuum(t *testing.T) {
	var s Substance
	assert.Equal(t, 1.0, s.IndexAt(core.RedWavelength))
}

func TestSubstance_LiteralUsesItsIndex(t *testing.T) {
	flint := Substance{Name: "flint", IndexForReferenceWavelength: 1.6}
	assert.InDelta(t, 1.6, flint.IndexAt(core.RedWavelength), 1e-9)
	assert.Greater(t, flint.IndexAt(core.MinWavelength), flint.IndexAt(core.MaxWavelength), "disperses like glass")

	m, err := NewMedium(nil, flint)
	require.NoError(t, err)
	assert.InDelta(t, 1.6, m.IndexAt(core.RedWavelength), 1e-9)
	assert.InDelta(t, 1.6, m.Substance.IndexOfRefractionForRedLight, 1e-9)
	assert.NotEqual(t, MediumColor(1), m.Color, "tinted like glass, not vacuum")
}

func TestMedium_Validation(t *testing.T) {
	region, err := geometry.NewRectangle(-1, -1, 2, 1)
	require.NoError(t, err)

	m, err := NewMedium(region, Water)
	require.NoError(t, err)
	assert.InDelta(t, 1.333, m.IndexAt(core.RedWavelength), 1e-9)

	_, err = NewMedium(region, Substance{Name: "broken"})
	assert.True(t, errors.Is(err, ErrInvalidIndex))

	glass, err := m.WithSubstance(Glass)
	require.NoError(t, err)
	assert.Equal(t, "glass", glass.Substance.Name)
	assert.Equal(t, "water", m.Substance.Name, "original medium is unchanged")
}

func TestMediumColor_Ramp(t *testing.T) {
	assert.Equal(t, airColor, MediumColor(1.0))
	assert.Equal(t, waterColor, MediumColor(WaterIndexOfRefraction))
	assert.Equal(t, glassColor, MediumColor(GlassIndexOfRefraction))
	assert.Equal(t, diamondColor, MediumColor(3.0))

	// Darker as the index rises
	lum := func(c color.NRGBA) int { return int(c.R) + int(c.G) + int(c.B) }
	assert.Greater(t, lum(MediumColor(1.1)), lum(MediumColor(1.4)))
}

func TestWhiteLightWavelengths(t *testing.T) {
	w := WhiteLightWavelengths(WhiteLightSamples)
	require.Len(t, w, WhiteLightSamples)
	assert.True(t, scalar.EqualWithinAbs(w[0], core.MinWavelength, 1e-18))
	assert.True(t, scalar.EqualWithinAbs(w[len(w)-1], core.MaxWavelength, 1e-18))

	step := w[1] - w[0]
	for i := 2; i < len(w); i++ {
		assert.True(t, scalar.EqualWithinAbs(w[i]-w[i-1], step, 1e-18))
	}

	assert.Nil(t, WhiteLightWavelengths(0))
	assert.Equal(t, []float64{core.RedWavelength}, WhiteLightWavelengths(1))
}

func TestWavelengthToColor(t *testing.T) {
	red := WavelengthToColor(650e-9)
	assert.Equal(t, uint8(255), red.R)
	assert.Equal(t, uint8(0), red.G)

	green := WavelengthToColor(530e-9)
	assert.Greater(t, green.G, green.B)

	blue := WavelengthToColor(460e-9)
	assert.Equal(t, uint8(255), blue.B)

	gray := WavelengthToColor(1000e-9)
	assert.Equal(t, color.NRGBA{R: 128, G: 128, B: 128, A: 255}, gray)

	faded := RayColor(650e-9, 0.25)
	assert.Equal(t, uint8(128), faded.A)
}
