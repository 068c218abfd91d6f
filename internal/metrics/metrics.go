package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbitsentinel_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orbitsentinel_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	detectionRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orbitsentinel_detection_runs_total",
			Help: "Total number of conjunction detection runs.",
		},
	)

	detectionPairsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orbitsentinel_detection_pairs_scanned_total",
			Help: "Total number of object pairs scanned by detection runs.",
		},
	)

	conjunctionsFoundTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orbitsentinel_conjunctions_found_total",
			Help: "Total number of conjunction records emitted.",
		},
	)

	detectionDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orbitsentinel_detection_duration_seconds",
			Help:    "Duration of conjunction detection runs in seconds.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		},
	)

	catalogObjects = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "orbitsentinel_catalog_objects",
			Help: "Number of objects in the current catalog snapshot.",
		},
	)

	catalogAgeSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "orbitsentinel_catalog_age_seconds",
			Help: "Age of the current catalog snapshot in seconds.",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
	prometheus.MustRegister(detectionRunsTotal)
	prometheus.MustRegister(detectionPairsTotal)
	prometheus.MustRegister(conjunctionsFoundTotal)
	prometheus.MustRegister(detectionDurationSeconds)
	prometheus.MustRegister(catalogObjects)
	prometheus.MustRegister(catalogAgeSeconds)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordDetectionRun records the outcome of one detection run.
func RecordDetectionRun(duration time.Duration, pairsScanned, conjunctionsFound int) {
	detectionRunsTotal.Inc()
	detectionPairsTotal.Add(float64(pairsScanned))
	conjunctionsFoundTotal.Add(float64(conjunctionsFound))
	detectionDurationSeconds.Observe(duration.Seconds())
}

// SetCatalogObjectCount updates the catalog snapshot size gauge.
func SetCatalogObjectCount(count int) {
	catalogObjects.Set(float64(count))
}

// SetCatalogAge updates the catalog snapshot age gauge.
func SetCatalogAge(seconds float64) {
	catalogAgeSeconds.Set(seconds)
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.URL.Path, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(r.URL.Path, r.Method).Observe(duration)
	})
}
