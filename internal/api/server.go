package api

import (
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Janesh-e/orbit-sentinel-horizon/internal/auth"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/catalog"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/config"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/conjunction"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/health"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/metrics"
	"github.com/Janesh-e/orbit-sentinel-horizon/internal/store"
)

// Deps bundles everything the HTTP layer serves.
type Deps struct {
	AuthConfig auth.Config
	Catalog    *catalog.Store
	Cache      *catalog.Cache
	DB         *store.Store
	Detector   *conjunction.Detector
	Planner    *conjunction.Planner
	Detection  config.DetectionConfig
	Simulation config.SimulationConfig

	ObjectLimit     int
	RefreshInterval time.Duration
}

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	deps       Deps

	liveGate *catalog.RefreshGate[[]liveObjectView]

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewServer creates a configured HTTP server.
func NewServer(addr string, logger *slog.Logger, deps Deps) *Server {
	s := &Server{
		logger:   logger,
		deps:     deps,
		liveGate: catalog.NewRefreshGate[[]liveObjectView](deps.RefreshInterval),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.HandleFunc("GET /readyz", health.Readyz(deps.Catalog))
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("GET /api/v1/satellites", s.handleLiveSatellites)
	mux.HandleFunc("GET /api/v1/satellites/elements", s.handleOrbitalElements)
	mux.HandleFunc("POST /api/v1/conjunctions/detect", s.handleDetect)
	mux.HandleFunc("GET /api/v1/conjunctions", s.handleListConjunctions)
	mux.HandleFunc("GET /api/v1/conjunctions/{id}", s.handleGetConjunction)
	mux.HandleFunc("POST /api/v1/conjunctions/{id}/maneuver", s.handlePlanManeuver)
	mux.HandleFunc("GET /api/v1/conjunctions/{id}/maneuver", s.handleGetManeuver)
	mux.HandleFunc("POST /api/v1/simulate", s.handleSimulate)
	mux.HandleFunc("GET /api/v1/graph", s.handleGraph)

	// Middleware chain: metrics -> logging -> auth -> mux.
	var handler http.Handler = mux
	handler = auth.Middleware(deps.AuthConfig)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = metrics.Middleware(handler)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // detection runs respond synchronously
		IdleTimeout:       120 * time.Second,
	}

	return s
}

// HTTPServer returns the underlying *http.Server for external control
// (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// probePath returns true for health/readiness probe paths that should not
// log at INFO.
func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			duration := time.Since(start)
			level := slog.LevelInfo
			if probePath(r.URL.Path) {
				level = slog.LevelDebug
			}

			logger.Log(r.Context(), level, "request",
				"component", "api",
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", duration.Milliseconds(),
				"remote_ip", r.RemoteAddr,
			)
		})
	}
}
