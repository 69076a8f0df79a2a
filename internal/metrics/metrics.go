package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	namespace = "gateway"

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	generationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_total",
			Help:      "Number of model calls",
		},
		[]string{"endpoint", "provider", "status"},
	)

	generationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Model call duration in seconds",
			Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"endpoint", "provider", "status"},
	)

	payloadEncodeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payload_encode_total",
			Help:      "Number of uploads read into inline payloads",
		},
		[]string{"status", "mime_type"},
	)

	payloadBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "payload_bytes",
			Help:      "Size of inline payloads in bytes",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
		},
		[]string{"mime_type"},
	)

	cacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_total",
			Help:      "Response cache lookups by result",
		},
		[]string{"result"},
	)
)

const (
	StatusOK    = "ok"
	StatusError = "error"

	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

func HttpRequestsTotal(method, path, code string) {
	httpRequestsTotal.With(prometheus.Labels{
		"method": method,
		"path":   path,
		"code":   code,
	}).Inc()
}

func HttpRequestDuration(method, path string, duration time.Duration) {
	httpRequestDuration.With(prometheus.Labels{
		"method": method,
		"path":   path,
	}).Observe(duration.Seconds())
}

func Generation(endpoint, provider, status string, duration time.Duration) {
	labels := prometheus.Labels{
		"endpoint": endpoint,
		"provider": provider,
		"status":   status,
	}
	generationTotal.With(labels).Inc()
	generationDuration.With(labels).Observe(duration.Seconds())
}

func PayloadEncoded(status, mimeType string, size int) {
	payloadEncodeTotal.With(prometheus.Labels{
		"status":    status,
		"mime_type": mimeType,
	}).Inc()
	if status == StatusOK {
		payloadBytes.With(prometheus.Labels{"mime_type": mimeType}).Observe(float64(size))
	}
}

func CacheLookup(result string) {
	cacheTotal.With(prometheus.Labels{"result": result}).Inc()
}

// Middleware records request count and latency labelled by the chi route
// pattern, so it has to be mounted on a chi router.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		HttpRequestsTotal(r.Method, path, strconv.Itoa(ww.status))
		HttpRequestDuration(r.Method, path, time.Since(start))
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
