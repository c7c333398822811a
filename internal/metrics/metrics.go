package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "thinkink_http_requests_total",
		Help: "HTTP requests by path and status class.",
	}, []string{"path", "status"})

	generationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "thinkink_generation_duration_seconds",
		Help:    "AI generation latency per feature.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
	}, []string{"feature"})

	backendErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "thinkink_backend_errors_total",
		Help: "Generation backend failures by kind.",
	}, []string{"kind"})
)

// ObserveGeneration records one backend call's latency.
func ObserveGeneration(feature string, seconds float64) {
	generationDuration.WithLabelValues(feature).Observe(seconds)
}

// CountBackendError tallies a failure kind (timeout, unavailable, schema).
func CountBackendError(kind string) {
	backendErrors.WithLabelValues(kind).Inc()
}

// Handler serves the scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware counts requests per route pattern and status.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		requestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.status)).Inc()
	})
}
