package tracer

import (
	"math"

	"github.com/df07/go-bending-light/pkg/core"
	"github.com/df07/go-bending-light/pkg/geometry"
	"github.com/df07/go-bending-light/pkg/light"
	"github.com/df07/go-bending-light/pkg/optics"
	"github.com/df07/go-bending-light/pkg/scene"
	"github.com/df07/go-bending-light/pkg/sensor"
)

// traceInterface splits the laser beam at the flat boundary through the
// pivot into an incident, a reflected and a transmitted ray
func (e *Engine) traceInterface(s *scene.Scene, mode scene.InterfaceMode, out *collector) {
	laser := s.Laser
	wavelength := laser.Wavelength

	// The normal points back toward the laser's side of the boundary
	source, target := mode.Top, mode.Bottom
	normal := core.NewVec2(0, 1)
	if laser.Position.Y < laser.Pivot.Y {
		source, target = mode.Bottom, mode.Top
		normal = normal.Negate()
	}
	n1 := source.IndexAt(wavelength)
	n2 := target.IndexAt(wavelength)

	direction := laser.Direction()
	cosTheta1 := math.Min(1, math.Abs(direction.Dot(normal)))
	theta1 := math.Acos(cosTheta1)
	theta2 := optics.RefractionAngle(n1, n2, theta1)
	tir := optics.IsTotalInternalReflection(n1, n2, theta1) || math.IsNaN(theta2)

	reflectedPower, transmittedPower := 1.0, 0.0
	if !tir {
		cosTheta2 := math.Cos(theta2)
		reflectedPower = optics.ReflectedPower(n1, n2, cosTheta1, cosTheta2)
		transmittedPower = optics.TransmittedPower(n1, n2, cosTheta1, cosTheta2)
	}

	incident := light.LightRay{
		Tail:                 laser.Position,
		Tip:                  laser.Pivot,
		IndexOfRefraction:    n1,
		WavelengthInMedium:   wavelength / n1,
		WavelengthInVacuumNm: wavelength * 1e9,
		Power:                1,
		Color:                optics.RayColor(wavelength, 1),
		WaveWidth:            scene.SourceWaveWidth,
		Role:                 light.Incident,
	}

	var sensorShape geometry.Shape
	if s.Sensor != nil {
		sensorShape = s.Sensor.Shape()
	}
	waveMode := s.IsWaveMode()

	if absorbed := out.absorb(incident, sensorShape, waveMode); absorbed {
		return
	}

	phase := incident.NumberOfWavelengths()

	if reflectedPower >= VisibilityThreshold {
		reflectedDirection := direction.Subtract(normal.Multiply(2 * direction.Dot(normal)))
		out.absorb(light.LightRay{
			Tail:                     laser.Pivot,
			Tip:                      laser.Pivot.Add(reflectedDirection.Multiply(core.FarDistance)),
			IndexOfRefraction:        n1,
			WavelengthInMedium:       wavelength / n1,
			WavelengthInVacuumNm:     wavelength * 1e9,
			Power:                    reflectedPower,
			Color:                    optics.RayColor(wavelength, reflectedPower),
			WaveWidth:                scene.SourceWaveWidth,
			PhaseOffsetInWavelengths: phase,
			Role:                     light.Reflected,
			Depth:                    1,
		}, sensorShape, waveMode)
	}

	if !tir {
		// Keep the tangential direction and cross into the far side
		sinTheta2, cosTheta2 := math.Sincos(theta2)
		tangent := math.Copysign(sinTheta2, direction.X)
		transmittedDirection := core.NewVec2(tangent, 0).Subtract(normal.Multiply(cosTheta2))

		out.absorb(light.LightRay{
			Tail:                     laser.Pivot,
			Tip:                      laser.Pivot.Add(transmittedDirection.Multiply(core.FarDistance)),
			IndexOfRefraction:        n2,
			WavelengthInMedium:       wavelength / n2,
			WavelengthInVacuumNm:     wavelength * 1e9,
			Power:                    transmittedPower,
			Color:                    optics.RayColor(wavelength, transmittedPower),
			WaveWidth:                scene.SourceWaveWidth * cosTheta2 / cosTheta1,
			PhaseOffsetInWavelengths: phase,
			Role:                     light.Transmitted,
			Depth:                    1,
		}, sensorShape, waveMode)
	}
}

// absorb runs the ray past the sensor, emits what is left of it and reports
// whether the sensor caught it
func (c *collector) absorb(ray light.LightRay, shape geometry.Shape, waveMode bool) bool {
	if shape == nil {
		c.emit(ray)
		return false
	}
	truncated, reading := sensor.Intercept(ray, shape, waveMode)
	c.meter.Add(reading)
	c.emit(truncated)
	return reading.Hit
}
