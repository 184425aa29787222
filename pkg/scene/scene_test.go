package scene

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-bending-light/pkg/core"
	"github.com/df07/go-bending-light/pkg/optics"
)

func TestLaser_DirectionAndAngle(t *testing.T) {
	laser := NewLaser(core.Vec2{}, 2, 3*math.Pi/4)

	assert.InDelta(t, 3*math.Pi/4, laser.Angle(), 1e-12)
	assert.InDelta(t, 2.0, laser.DistanceFromPivot(), 1e-12)

	d := laser.Direction()
	assert.InDelta(t, math.Sqrt2/2, d.X, 1e-12)
	assert.InDelta(t, -math.Sqrt2/2, d.Y, 1e-12)

	swung := laser.WithAngle(math.Pi / 2)
	assert.InDelta(t, 2.0, swung.Position.Y, 1e-12)
	assert.InDelta(t, 3*math.Pi/4, laser.Angle(), 1e-12, "original laser is unchanged")
}

func TestLaser_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Laser)
		wantErr bool
	}{
		{"default", func(*Laser) {}, false},
		{"violet edge", func(l *Laser) { l.Wavelength = 380e-9 }, false},
		{"ultraviolet", func(l *Laser) { l.Wavelength = 300e-9 }, true},
		{"infrared", func(l *Laser) { l.Wavelength = 800e-9 }, true},
		{"at pivot", func(l *Laser) { l.Position = l.Pivot }, true},
		{"NaN position", func(l *Laser) { l.Position.X = math.NaN() }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			laser := NewLaser(core.Vec2{}, 1e-5, math.Pi)
			tt.modify(&laser)
			err := laser.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseModes(t *testing.T) {
	beam, err := ParseBeamMode("Wave")
	require.NoError(t, err)
	assert.Equal(t, WaveBeam, beam)

	_, err = ParseBeamMode("particle")
	assert.Error(t, err)

	colorMode, err := ParseColorMode("")
	require.NoError(t, err)
	assert.Equal(t, Monochromatic, colorMode)

	kind, err := ParsePrismKind("SemiCircle")
	require.NoError(t, err)
	assert.Equal(t, SemiCircle, kind)
	assert.Equal(t, "semicircle", kind.String())
}

func TestPrism_Presets(t *testing.T) {
	for _, kind := range []PrismKind{Triangle, Trapezoid, Square, Circle, SemiCircle} {
		t.Run(kind.String(), func(t *testing.T) {
			p, err := NewPrism(kind)
			require.NoError(t, err)
			require.NotNil(t, p.Shape())
			assert.True(t, p.Shape().Contains(p.Shape().Centroid()))
		})
	}

	_, err := NewPrism(Custom)
	assert.Error(t, err, "custom prisms need vertices")
}

func TestPrism_TransformsDeriveFromBase(t *testing.T) {
	p, err := NewPrism(Square)
	require.NoError(t, err)

	moved := p.Translated(PrismSize, 0)
	c := moved.Shape().Centroid()
	assert.InDelta(t, PrismSize, c.X, 1e-18)
	assert.InDelta(t, 0, c.Y, 1e-18)

	// Rotation is about the prism's own center, so the centroid stays put
	turned := moved.Rotated(math.Pi / 4)
	c = turned.Shape().Centroid()
	assert.InDelta(t, PrismSize, c.X, 1e-15)

	// A corner of the unrotated square is outside the rotated one
	corner := core.NewVec2(PrismSize+PrismSize/2*0.99, PrismSize/2*0.99)
	assert.True(t, moved.Shape().Contains(corner))
	assert.False(t, turned.Shape().Contains(corner))

	// Base geometry is never mutated
	assert.InDelta(t, 0, p.Shape().Centroid().X, 1e-18)
	assert.Equal(t, 0.0, p.Rotation)
}

func TestScene_Validate(t *testing.T) {
	valid, err := NewIntroScene()
	require.NoError(t, err)
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		modify func(*Scene)
	}{
		{"no mode", func(s *Scene) { s.Mode = nil }},
		{"bad laser", func(s *Scene) { s.Laser.Wavelength = 0 }},
		{"zero medium", func(s *Scene) { s.Mode = InterfaceMode{Top: optics.Medium{}, Bottom: s.Mode.(InterfaceMode).Bottom} }},
		{"bad sensor", func(s *Scene) { s.Sensor = &IntensityMeter{Radius: -1} }},
		{"prism without shape", func(s *Scene) {
			mode, err := NewPrismMode([]Prism{{Kind: Triangle}}, optics.Air, optics.Glass)
			require.NoError(t, err)
			s.Mode = mode
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewIntroScene()
			require.NoError(t, err)
			tt.modify(s)
			err = s.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidScene))
		})
	}

	var nilScene *Scene
	assert.True(t, errors.Is(nilScene.Validate(), ErrInvalidScene))
}

func TestBuiltinScenes_AreValid(t *testing.T) {
	for _, info := range BuiltinScenes() {
		t.Run(info.ID, func(t *testing.T) {
			s, err := Lookup(info.ID)
			require.NoError(t, err)
			assert.NoError(t, s.Validate())
		})
	}
}

func TestIntroScene_SensorOnTransmittedRay(t *testing.T) {
	s, err := NewIntroScene()
	require.NoError(t, err)
	require.NotNil(t, s.Sensor)

	// The meter sits below the interface, right of the pivot
	assert.Greater(t, s.Sensor.Position.X, 0.0)
	assert.Less(t, s.Sensor.Position.Y, 0.0)
	assert.InDelta(t, sensorDistance, s.Sensor.Position.Length(), 1e-12)
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("no-such-scene")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownScene))
}
