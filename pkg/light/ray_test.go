package light

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-bending-light/pkg/core"
)

func horizontalRay() LightRay {
	return LightRay{
		Tail:                 core.NewVec2(0, 0),
		Tip:                  core.NewVec2(10, 0),
		IndexOfRefraction:    1.5,
		WavelengthInMedium:   2,
		WavelengthInVacuumNm: 650,
		Power:                0.5,
		WaveWidth:            2,
		Role:                 Transmitted,
	}
}

func TestLightRay_Geometry(t *testing.T) {
	r := horizontalRay()

	assert.Equal(t, 10.0, r.Length())
	assert.Equal(t, core.NewVec2(1, 0), r.Direction())
	assert.Equal(t, 5.0, r.NumberOfWavelengths())
	assert.InDelta(t, core.SpeedOfLight/1.5, r.Velocity().X, 1e-3)
	assert.Equal(t, 0.0, r.Velocity().Y)
}

func TestLightRay_Contains(t *testing.T) {
	r := horizontalRay()

	tests := []struct {
		name     string
		point    core.Vec2
		waveMode bool
		expected bool
	}{
		{"on the segment", core.NewVec2(5, 0), false, true},
		{"within tolerance", core.NewVec2(5, 0.05), false, true},
		{"outside tolerance", core.NewVec2(5, 0.5), false, false},
		{"beyond the tip", core.NewVec2(10.5, 0), false, false},
		{"behind the tail", core.NewVec2(-0.05, 0), false, true},
		{"inside the beam", core.NewVec2(5, 0.9), true, true},
		{"outside the beam", core.NewVec2(5, 1.1), true, false},
		{"beam does not extend behind the tail", core.NewVec2(-0.05, 0), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.Contains(tt.point, tt.waveMode, 0.1))
		})
	}

	zero := LightRay{Tail: core.NewVec2(1, 1), Tip: core.NewVec2(1, 1)}
	assert.False(t, zero.Contains(core.NewVec2(1, 1), false, 1), "zero-length ray contains nothing")
}

func TestLightRay_CosArg(t *testing.T) {
	r := horizontalRay()

	// One wavelength further along adds exactly 2π of phase
	assert.InDelta(t, 2*math.Pi, r.CosArg(r.WavelengthInMedium, 0)-r.CosArg(0, 0), 1e-9)

	// A whole-number phase offset leaves cos unchanged
	shifted := r
	shifted.PhaseOffsetInWavelengths = 3
	assert.InDelta(t, math.Cos(r.CosArg(1.3, 0)), math.Cos(shifted.CosArg(1.3, 0)), 1e-9)

	// Advancing time by one period leaves cos unchanged
	period := 1 / r.Frequency()
	assert.InDelta(t, math.Cos(r.CosArg(1.3, 0)), math.Cos(r.CosArg(1.3, period)), 1e-6)
}

func TestColoredRay_Child(t *testing.T) {
	parent := NewColoredRay(core.NewVec2(0, 0), core.NewVec2(0, 2), 0.8, 500e-9, 1.0)
	require.InDelta(t, 1.0, parent.Direction.Length(), 1e-12)
	assert.InDelta(t, core.SpeedOfLight/500e-9, parent.Frequency, 1)

	child := parent.Child(core.NewVec2(0, 1), core.NewVec2(1, 0), 0.25, 1.5)
	assert.Equal(t, 1, child.Depth)
	assert.InDelta(t, 0.2, child.Power, 1e-15)
	assert.InDelta(t, 500e-9/1.5, child.WavelengthInMedium(), 1e-20)
	assert.Equal(t, parent.Frequency, child.Frequency)

	// Parent is untouched
	assert.Equal(t, 0, parent.Depth)
	assert.Equal(t, 0.8, parent.Power)
}

func TestLightRay_JSON(t *testing.T) {
	data, err := json.Marshal(horizontalRay())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "transmitted", decoded["role"])
	assert.Equal(t, map[string]interface{}{"x": 10.0, "y": 0.0}, decoded["tip"])

	var back LightRay
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, Transmitted, back.Role)

	var role Role
	assert.Error(t, role.UnmarshalText([]byte("sideways")))
}

func TestLightRay_IsFinite(t *testing.T) {
	r := horizontalRay()
	assert.True(t, r.IsFinite())

	r.Tip = core.NewVec2(math.NaN(), 0)
	assert.False(t, r.IsFinite())
}
