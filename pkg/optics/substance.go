package optics

import (
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/df07/go-bending-light/pkg/core"
)

// Range of indices a custom substance may take
const (
	MinCustomIndex = 1.0
	MaxCustomIndex = 1.6
)

// Reference indices of the catalog substances at 650 nm
const (
	AirIndexOfRefraction      = 1.000293
	WaterIndexOfRefraction    = 1.333
	GlassIndexOfRefraction    = 1.5
	DiamondIndexOfRefraction  = 2.419
	MysteryBIndexOfRefraction = 1.4
)

// ErrInvalidIndex is returned when an index of refraction cannot describe a physical medium
var ErrInvalidIndex = errors.New("index of refraction must be positive and finite")

// Substance is a named optical material
type Substance struct {
	Name                         string  `json:"name"`
	IndexForReferenceWavelength  float64 `json:"indexOfRefraction"`
	Mystery                      bool    `json:"mystery"`
	Custom                       bool    `json:"custom"`
	IndexOfRefractionForRedLight float64 `json:"indexForRedLight"`
	dispersion                   DispersionFunction
}

// NewSubstance creates a substance whose index is specified at 650 nm
func NewSubstance(name string, index float64, mystery, custom bool) (Substance, error) {
	if !(index > 0) || math.IsInf(index, 0) {
		return Substance{}, errors.Wrapf(ErrInvalidIndex, "substance %q: %g", name, index)
	}

	dispersion := NewDispersionFunction(index, core.RedWavelength)
	return Substance{
		Name:                         name,
		IndexForReferenceWavelength:  index,
		Mystery:                      mystery,
		Custom:                       custom,
		IndexOfRefractionForRedLight: dispersion.IndexForRedLight(),
		dispersion:                   dispersion,
	}, nil
}

// NewCustomSubstance creates a user-adjustable substance in [MinCustomIndex, MaxCustomIndex]
func NewCustomSubstance(index float64) (Substance, error) {
	if index < MinCustomIndex || index > MaxCustomIndex {
		return Substance{}, errors.Wrapf(ErrInvalidIndex, "custom index %g outside [%g, %g]", index, MinCustomIndex, MaxCustomIndex)
	}
	return NewSubstance("custom", index, false, true)
}

// mustSubstance is only used for the fixed catalog below
func mustSubstance(name string, index float64, mystery bool) Substance {
	s, err := NewSubstance(name, index, mystery, false)
	if err != nil {
		panic(err)
	}
	return s
}

// Catalog substances
var (
	Air      = mustSubstance("air", AirIndexOfRefraction, false)
	Water    = mustSubstance("water", WaterIndexOfRefraction, false)
	Glass    = mustSubstance("glass", GlassIndexOfRefraction, false)
	Diamond  = mustSubstance("diamond", DiamondIndexOfRefraction, false)
	MysteryA = mustSubstance("mysteryA", DiamondIndexOfRefraction, true)
	MysteryB = mustSubstance("mysteryB", MysteryBIndexOfRefraction, true)
)

// Catalog returns the fixed substances in display order
func Catalog() []Substance {
	return []Substance{Air, Water, Glass, Diamond, MysteryA, MysteryB}
}

// SubstanceByName looks up a catalog substance, case-insensitively
func SubstanceByName(name string) (Substance, bool) {
	for _, s := range Catalog() {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Substance{}, false
}

// IndexAt returns the dispersed index of refraction at wavelength (meters)
func (s Substance) IndexAt(wavelength float64) float64 {
	if s.IndexForReferenceWavelength == 0 && s.dispersion.ReferenceWavelength == 0 {
		// Zero value Substance: behave like vacuum rather than dividing by zero downstream
		return 1
	}
	return s.Dispersion().IndexAt(wavelength)
}

// Dispersion returns the substance's dispersion function. Substances built as
// literals are anchored at their reference index.
func (s Substance) Dispersion() DispersionFunction {
	if s.dispersion.ReferenceWavelength == 0 {
		return NewDispersionFunction(s.IndexForReferenceWavelength, core.RedWavelength)
	}
	return s.dispersion
}
