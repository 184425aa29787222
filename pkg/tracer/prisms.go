package tracer

import (
	"gonum.org/v1/gonum/floats"

	"github.com/df07/go-bending-light/pkg/core"
	"github.com/df07/go-bending-light/pkg/geometry"
	"github.com/df07/go-bending-light/pkg/light"
	"github.com/df07/go-bending-light/pkg/optics"
	"github.com/df07/go-bending-light/pkg/scene"
	"github.com/df07/go-bending-light/pkg/sensor"
)

// tracePrisms follows every initial ray through the prisms, splitting it at
// each boundary into reflected and refracted children
func (e *Engine) tracePrisms(s *scene.Scene, mode scene.PrismMode, out *collector) {
	shapes := mode.Shapes()
	rays := initialRays(s, mode, shapes)
	propagateAll(rays, e.numWorkers, func(ray light.ColoredRay, rayOut *collector) {
		propagate(ray, shapes, mode, s.Config, rayOut)
	}, out)

	if s.Sensor != nil {
		out.meter.Add(sensor.IntensityAt(out.rays, s.Sensor.Shape(), s.IsWaveMode()))
	}
}

// initialRays returns one ray per wavelength, or a parallel fan of them in
// many-rays mode
func initialRays(s *scene.Scene, mode scene.PrismMode, shapes []geometry.Shape) []light.ColoredRay {
	laser := s.Laser

	wavelengths := []float64{laser.Wavelength}
	if laser.Color == scene.White {
		wavelengths = optics.WhiteLightWavelengths(optics.WhiteLightSamples)
	}

	direction := laser.Direction()
	origins := []core.Vec2{laser.Position}
	if s.Config.ManyRays {
		offsets := floats.Span(make([]float64, ManyRayCount), -scene.SourceWaveWidth/2, scene.SourceWaveWidth/2)
		origins = origins[:0]
		for _, offset := range offsets {
			origins = append(origins, laser.Position.Add(direction.Perpendicular().Multiply(offset)))
		}
	}

	var rays []light.ColoredRay
	for _, origin := range origins {
		// The laser may sit inside a prism
		medium := mode.Environment
		if geometry.ContainsAny(origin, shapes) {
			medium = mode.PrismMedium
		}
		for _, wavelength := range wavelengths {
			rays = append(rays, light.NewColoredRay(origin, direction, 1, wavelength, medium.IndexAt(wavelength)))
		}
	}
	return rays
}

// propagate traces one initial ray depth first. Each segment is emitted
// before its children; the reflected child is explored before the refracted one.
func propagate(initial light.ColoredRay, shapes []geometry.Shape, mode scene.PrismMode, config scene.Config, out *collector) {
	stack := []light.ColoredRay{initial}

	for len(stack) > 0 {
		ray := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if ray.Depth > MaxDepth || ray.Power < MinPower {
			continue
		}

		hit, ok := geometry.FindNearest(ray.Ray(), shapes)
		if !ok {
			out.emit(segment(ray, ray.Ray().At(core.FarDistance)))
			continue
		}

		// Which medium is just past the boundary
		beyond := hit.Point.Add(ray.Direction.Multiply(core.Epsilon))
		farSide := mode.Environment
		if geometry.ContainsAny(beyond, shapes) {
			farSide = mode.PrismMedium
		}
		n1 := ray.IndexOfRefraction
		n2 := farSide.IndexAt(ray.VacuumWavelength)

		split := optics.SplitAtBoundary(ray.Direction, hit.UnitNormal, n1, n2)

		out.emit(segment(ray, hit.Point))
		if config.ShowNormals {
			out.intersections = append(out.intersections, hit)
		}

		// Pushed in reverse so the reflected child pops first
		if !split.TotalInternalReflection {
			stack = append(stack, ray.Child(hit.Point, split.Refracted, split.TransmittedPower, n2))
		}
		if config.ShowReflections || split.TotalInternalReflection {
			stack = append(stack, ray.Child(hit.Point, split.Reflected, split.ReflectedPower, n1))
		}
	}
}

// segment finishes a ray at tip using the ray's own medium, color and power
func segment(ray light.ColoredRay, tip core.Vec2) light.LightRay {
	return light.LightRay{
		Tail:                 ray.Origin,
		Tip:                  tip,
		IndexOfRefraction:    ray.IndexOfRefraction,
		WavelengthInMedium:   ray.WavelengthInMedium(),
		WavelengthInVacuumNm: ray.VacuumWavelength * 1e9,
		Power:                ray.Power,
		Color:                optics.RayColor(ray.VacuumWavelength, ray.Power),
		WaveWidth:            scene.SourceWaveWidth,
		Role:                 light.PrismSegment,
		Depth:                ray.Depth,
	}
}
