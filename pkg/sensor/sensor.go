package sensor

import (
	"math"

	"github.com/df07/go-bending-light/pkg/core"
	"github.com/df07/go-bending-light/pkg/geometry"
	"github.com/df07/go-bending-light/pkg/light"
)

// Reading is what the intensity meter reports for a pass
type Reading struct {
	Value float64 `json:"value"` // Summed power fraction of the rays that reached the sensor
	Hit   bool    `json:"hit"`
}

// MissReading is reported when no ray reaches the sensor
var MissReading = Reading{}

// Intercept checks whether ray reaches the sensor region. On a hit the ray is
// truncated where it enters the sensor (or at the middle of the sensor when
// the ray passes all the way through) and the reading is the ray's power.
//
// In wave mode the beam has width, so the centerline is shifted toward the
// sensor's center by at most half the beam width before testing.
func Intercept(ray light.LightRay, shape geometry.Shape, waveMode bool) (light.LightRay, Reading) {
	if shape == nil || !ray.IsFinite() {
		return ray, MissReading
	}

	length := ray.Length()
	if length == 0 {
		return ray, MissReading
	}
	direction := ray.Direction()

	origin := ray.Tail
	if waveMode {
		across := direction.Perpendicular()
		distance := shape.Centroid().Subtract(ray.Tail).Dot(across)
		half := ray.WaveWidth / 2
		origin = origin.Add(across.Multiply(clamp(distance, -half, half)))
	}

	// Only crossings on the segment itself count
	var crossings []geometry.Intersection
	for _, hit := range shape.Crossings(core.NewRay2(origin, direction)) {
		if hit.T <= length {
			crossings = append(crossings, hit)
		}
	}

	var t float64
	switch len(crossings) {
	case 0:
		return ray, MissReading
	case 1:
		t = crossings[0].T
	default:
		t = (crossings[0].T + crossings[1].T) / 2
	}

	// Never reach behind the tail or past the tip
	if !(t > 0 && t < length) {
		return ray, MissReading
	}

	return ray.WithTip(ray.Tail.Add(direction.Multiply(t))), Reading{Value: ray.Power, Hit: true}
}

// Meter accumulates readings over the rays of one pass
type Meter struct {
	total float64
	hit   bool
}

// Add records one reading. Misses leave the meter unchanged.
func (m *Meter) Add(r Reading) {
	if !r.Hit {
		return
	}
	m.total += r.Value
	m.hit = true
}

// Reading returns the sum of the hits so far, or MissReading
func (m *Meter) Reading() Reading {
	if !m.hit {
		return MissReading
	}
	return Reading{Value: m.total, Hit: true}
}

// IntensityAt runs every ray past the sensor and sums what it detects
func IntensityAt(rays []light.LightRay, shape geometry.Shape, waveMode bool) Reading {
	var meter Meter
	for _, ray := range rays {
		_, reading := Intercept(ray, shape, waveMode)
		meter.Add(reading)
	}
	return meter.Reading()
}

func clamp(value, low, high float64) float64 {
	return math.Max(low, math.Min(high, value))
}
