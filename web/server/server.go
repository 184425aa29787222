package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/df07/go-bending-light/pkg/core"
	"github.com/df07/go-bending-light/pkg/geometry"
	"github.com/df07/go-bending-light/pkg/light"
	"github.com/df07/go-bending-light/pkg/optics"
	"github.com/df07/go-bending-light/pkg/preview"
	"github.com/df07/go-bending-light/pkg/scene"
	"github.com/df07/go-bending-light/pkg/sensor"
	"github.com/df07/go-bending-light/pkg/tracer"
)

// maxSceneBytes caps the size of a scene posted to /api/trace
const maxSceneBytes = 1 << 20

// defaultProbeTolerance is how far from a ray a probe point may be in ray mode (meters)
const defaultProbeTolerance = 1e-7

// Server handles web requests for the light propagation engine
type Server struct {
	port   int
	logger *zap.Logger
	engine *tracer.Engine
	router *mux.Router
	server *http.Server
}

// NewServer creates a new web server. A nil logger discards output.
func NewServer(port int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		port:   port,
		logger: logger,
		engine: tracer.NewEngine(logger.Named("tracer")),
		router: mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

// TraceResponse is the result of one propagation pass
type TraceResponse struct {
	PassID        string                  `json:"passId"`
	Mode          string                  `json:"mode"`
	Rays          []light.LightRay        `json:"rays"`
	Intersections []geometry.Intersection `json:"intersections"`
	Reading       sensor.Reading          `json:"reading"`
}

// VelocityResponse is the ray velocity at a probe point
type VelocityResponse struct {
	Point    core.Vec2 `json:"point"`
	Velocity core.Vec2 `json:"velocity"`
	Speed    float64   `json:"speed"`
}

// WaveResponse is the wave sample at a probe point
type WaveResponse struct {
	Point core.Vec2        `json:"point"`
	Found bool             `json:"found"`
	Value sensor.DataPoint `json:"value"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) setupRoutes() {
	s.router.Use(s.logRequests)

	// Routes sit on the root router so a method mismatch answers 405 rather than 404
	s.router.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/api/scenes", s.handleScenes).Methods(http.MethodGet)
	s.router.HandleFunc("/api/substances", s.handleSubstances).Methods(http.MethodGet)
	s.router.HandleFunc("/api/trace", s.handleTrace).Methods(http.MethodGet, http.MethodPost)
	s.router.HandleFunc("/api/velocity", s.handleVelocity).Methods(http.MethodGet)
	s.router.HandleFunc("/api/wave", s.handleWave).Methods(http.MethodGet)
	s.router.HandleFunc("/api/preview", s.handlePreview).Methods(http.MethodGet)
}

// Handler returns the routed handler, for use with httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until the context is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", zap.String("addr", "http://localhost"+s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "web server failed")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.logger.Info("stopping web server")
	return errors.Wrap(s.server.Shutdown(shutdownCtx), "shutting down web server")
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes(s.logger)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, scenes)
}

func (s *Server) handleSubstances(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, optics.Catalog())
}

// handleTrace runs one pass over a named scene or a scene document in the body
func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	sc, err := s.sceneFromRequest(r)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	result, err := s.engine.Recompute(sc)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	s.writeJSON(w, http.StatusOK, TraceResponse{
		PassID:        uuid.New().String(),
		Mode:          sc.Mode.Name(),
		Rays:          result.Rays,
		Intersections: result.Intersections,
		Reading:       result.Reading,
	})
}

func (s *Server) handleVelocity(w http.ResponseWriter, r *http.Request) {
	sc, result, point, tolerance, ok := s.probe(w, r)
	if !ok {
		return
	}
	velocity := sensor.VelocityAt(result.Rays, point, sc.IsWaveMode(), tolerance)
	s.writeJSON(w, http.StatusOK, VelocityResponse{Point: point, Velocity: velocity, Speed: velocity.Length()})
}

func (s *Server) handleWave(w http.ResponseWriter, r *http.Request) {
	sc, result, point, tolerance, ok := s.probe(w, r)
	if !ok {
		return
	}
	t, err := parseFloatParam(r.URL.Query(), "t", 0, 0, math.MaxFloat64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	value, found := sensor.WaveValueAt(result.Rays, point, t, sc.IsWaveMode(), tolerance)
	s.writeJSON(w, http.StatusOK, WaveResponse{Point: point, Found: found, Value: value})
}

// handlePreview renders the traced scene as a PNG
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	width, err := parseIntParam(query, "width", 800, 16, 4096)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	height, err := parseIntParam(query, "height", 600, 16, 4096)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	sc, err := s.sceneFromRequest(r)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	result, err := s.engine.Recompute(sc)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	opts := preview.DefaultOptions()
	opts.Width, opts.Height = width, height
	w.Header().Set("Content-Type", "image/png")
	if err := preview.WritePNG(w, sc, result, opts); err != nil {
		s.logger.Error("preview failed", zap.Error(err))
	}
}

// probe traces the requested scene and parses the probe point
func (s *Server) probe(w http.ResponseWriter, r *http.Request) (*scene.Scene, tracer.Result, core.Vec2, float64, bool) {
	query := r.URL.Query()
	if query.Get("x") == "" || query.Get("y") == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("x and y are required"))
		return nil, tracer.Result{}, core.Vec2{}, 0, false
	}
	x, err := parseFloatParam(query, "x", 0, -core.FarDistance, core.FarDistance)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return nil, tracer.Result{}, core.Vec2{}, 0, false
	}
	y, err := parseFloatParam(query, "y", 0, -core.FarDistance, core.FarDistance)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return nil, tracer.Result{}, core.Vec2{}, 0, false
	}
	tolerance, err := parseFloatParam(query, "tolerance", defaultProbeTolerance, 0, core.FarDistance)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return nil, tracer.Result{}, core.Vec2{}, 0, false
	}

	sc, err := s.sceneFromRequest(r)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return nil, tracer.Result{}, core.Vec2{}, 0, false
	}
	result, err := s.engine.Recompute(sc)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return nil, tracer.Result{}, core.Vec2{}, 0, false
	}
	return sc, result, core.NewVec2(x, y), tolerance, true
}

// sceneFromRequest builds a fresh scene from the ?scene= query or the request body.
// The query only names built-in scenes and files in the scenes directory.
func (s *Server) sceneFromRequest(r *http.Request) (*scene.Scene, error) {
	if name := r.URL.Query().Get("scene"); name != "" {
		sc, err := scene.LookupNamed(name)
		if err != nil && !errors.Is(err, scene.ErrUnknownScene) {
			// The file is ours, not the client's; keep its contents out of the response
			s.logger.Error("loading scene", zap.String("scene", name), zap.Error(err))
			return nil, errors.Errorf("scene %q could not be loaded", name)
		}
		return sc, err
	}
	if r.Method != http.MethodPost || r.Body == nil {
		return nil, errors.Wrap(scene.ErrInvalidScene, "a scene query or body is required")
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxSceneBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading scene body")
	}
	if len(data) > maxSceneBytes {
		return nil, errors.Wrapf(scene.ErrInvalidScene, "scene body exceeds %d bytes", maxSceneBytes)
	}
	// YAML is a superset of JSON, so both content types parse the same way
	return scene.Parse(data)
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, scene.ErrUnknownScene):
		return http.StatusNotFound
	case errors.Is(err, scene.ErrInvalidScene):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusRecorder remembers the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, errors.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, errors.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(parsed) {
			return 0, errors.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, errors.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
