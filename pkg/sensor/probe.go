package sensor

import (
	"math"

	"github.com/df07/go-bending-light/pkg/core"
	"github.com/df07/go-bending-light/pkg/light"
)

// DataPoint is one sample of the wave amplitude at a point
type DataPoint struct {
	Time      float64 `json:"time"`
	Magnitude float64 `json:"magnitude"`
}

// VelocityAt returns the velocity of the first ray containing p, or the zero vector
func VelocityAt(rays []light.LightRay, p core.Vec2, waveMode bool, tolerance float64) core.Vec2 {
	if ray, ok := firstContaining(rays, p, waveMode, tolerance); ok {
		return ray.Velocity()
	}
	return core.Vec2{}
}

// WaveValueAt samples the wave of the first ray containing p at the given time
func WaveValueAt(rays []light.LightRay, p core.Vec2, time float64, waveMode bool, tolerance float64) (DataPoint, bool) {
	ray, ok := firstContaining(rays, p, waveMode, tolerance)
	if !ok {
		return DataPoint{}, false
	}

	x := p.Subtract(ray.Tail).Dot(ray.Direction())
	magnitude := math.Sqrt(ray.Power) * math.Cos(ray.CosArg(x, time)+math.Pi)
	return DataPoint{Time: time, Magnitude: magnitude}, true
}

// firstContaining searches in emission order
func firstContaining(rays []light.LightRay, p core.Vec2, waveMode bool, tolerance float64) (light.LightRay, bool) {
	for _, ray := range rays {
		if ray.Contains(p, waveMode, tolerance) {
			return ray, true
		}
	}
	return light.LightRay{}, false
}
