package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsImported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_imported_total",
			Help: "Total number of lead rows processed by CSV imports",
		},
		[]string{"result"}, // created | updated | skipped
	)

	clubLeadsQueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "club_leads_queued_total",
			Help: "Total number of leads queued for club email dispatch",
		},
		[]string{"target"},
	)

	mailErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mail_errors_total",
			Help: "Total number of mail delivery failures",
		},
		[]string{"kind"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordImport(created, updated, skipped int) {
	leadsImported.WithLabelValues("created").Add(float64(created))
	leadsImported.WithLabelValues("updated").Add(float64(updated))
	leadsImported.WithLabelValues("skipped").Add(float64(skipped))
}

func RecordClubLeadsQueued(target string, n int) {
	clubLeadsQueued.WithLabelValues(target).Add(float64(n))
}

func RecordMailError(kind string) {
	mailErrors.WithLabelValues(kind).Inc()
}
