package tracer

import (
	"go.uber.org/zap"

	"github.com/df07/go-bending-light/pkg/geometry"
	"github.com/df07/go-bending-light/pkg/light"
	"github.com/df07/go-bending-light/pkg/scene"
	"github.com/df07/go-bending-light/pkg/sensor"
)

// Propagation limits
const (
	// MaxDepth is the deepest boundary crossing a prism ray may reach
	MaxDepth = 50

	// MinPower is the weakest ray worth following
	MinPower = 0.001

	// VisibilityThreshold is the weakest reflection drawn at a flat interface
	VisibilityThreshold = 0.005

	// ManyRayCount is the number of parallel rays in many-rays mode
	ManyRayCount = 5
)

// Result is everything one propagation pass produces. A new Result is built
// on every pass; nothing is shared with the previous one.
type Result struct {
	Rays          []light.LightRay        `json:"rays"`
	Intersections []geometry.Intersection `json:"intersections"`
	Reading       sensor.Reading          `json:"reading"`
}

// Engine runs propagation passes. It holds no scene state and is safe for
// concurrent use.
type Engine struct {
	logger     *zap.Logger
	numWorkers int // Workers per pass for scenes with several initial rays; 0 means one per CPU
}

// NewEngine creates an engine. A nil logger discards output.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// WithWorkers returns a copy of the engine that traces with n workers.
// n == 1 traces sequentially.
func (e *Engine) WithWorkers(n int) *Engine {
	return &Engine{logger: e.logger, numWorkers: n}
}

// Recompute rebuilds the light path for a scene snapshot from scratch.
// Identical scenes always produce identical results.
func (e *Engine) Recompute(s *scene.Scene) (Result, error) {
	if err := s.Validate(); err != nil {
		e.logger.Warn("scene rejected", zap.Error(err))
		return Result{}, err
	}

	if !s.Laser.On {
		return Result{Rays: []light.LightRay{}, Intersections: []geometry.Intersection{}}, nil
	}

	out := newCollector()
	switch mode := s.Mode.(type) {
	case scene.InterfaceMode:
		e.traceInterface(s, mode, out)
	case scene.PrismMode:
		e.tracePrisms(s, mode, out)
	}

	if out.dropped > 0 {
		e.logger.Debug("dropped non-finite rays", zap.Int("count", out.dropped))
	}
	e.logger.Debug("recomputed light path",
		zap.String("mode", s.Mode.Name()),
		zap.Int("rays", len(out.rays)),
		zap.Int("intersections", len(out.intersections)),
		zap.Bool("sensorHit", out.meter.Reading().Hit),
	)

	return Result{
		Rays:          out.rays,
		Intersections: out.intersections,
		Reading:       out.meter.Reading(),
	}, nil
}

// collector gathers the output of one pass
type collector struct {
	rays          []light.LightRay
	intersections []geometry.Intersection
	meter         sensor.Meter
	dropped       int
}

func newCollector() *collector {
	return &collector{
		rays:          []light.LightRay{},
		intersections: []geometry.Intersection{},
	}
}

// emit appends a ray unless it carries NaN or Inf
func (c *collector) emit(ray light.LightRay) {
	if !ray.IsFinite() {
		c.dropped++
		return
	}
	c.rays = append(c.rays, ray)
}

// merge appends everything other collected
func (c *collector) merge(other *collector) {
	c.rays = append(c.rays, other.rays...)
	c.intersections = append(c.intersections, other.intersections...)
	c.dropped += other.dropped
	c.meter.Add(other.meter.Reading())
}
