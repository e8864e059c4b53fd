package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// UsersTotal is the number of registered users, refreshed by the stats collector.
	UsersTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "projtrack_users_total",
			Help: "Number of registered users",
		},
	)

	// ProjectsTotal is the number of stored projects, refreshed by the stats collector.
	ProjectsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "projtrack_projects_total",
			Help: "Number of stored projects",
		},
	)
)

// uuidPathSegment matches a UUID path segment so per-project URLs collapse
// into one metric series.
var (
	uuidPathSegment = regexp.MustCompile(`/[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}(/|$)`)
	initOnce        sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, UsersTotal, ProjectsTotal)
	})
}

// NormalizePath reduces cardinality by replacing UUID path segments with {id}.
// E.g. /projects/8f14e45f-... -> /projects/{id}.
func NormalizePath(path string) string {
	return uuidPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// SetUsersTotal updates the registered users gauge.
func SetUsersTotal(n int) {
	UsersTotal.Set(float64(n))
}

// SetProjectsTotal updates the stored projects gauge.
func SetProjectsTotal(n int) {
	ProjectsTotal.Set(float64(n))
}
