package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpDuration = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.99: 0.001,
			},
		},
		[]string{"method", "path", "status_code"},
	)
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	commits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cv_commits_total",
			Help: "Document commits by source",
		},
		[]string{"source"},
	)
	saves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cv_remote_saves_total",
			Help: "Remote saves by result",
		},
		[]string{"result"},
	)
	imports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cv_imports_total",
			Help: "Imports by kind and result",
		},
		[]string{"kind", "result"},
	)
	printDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cv_print_duration_seconds",
			Help:    "Headless print duration in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"result"},
	)
	printScale = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cv_print_scale",
			Help:    "Scale factor applied when printing",
			Buckets: []float64{0.6, 0.7, 0.8, 0.85, 0.9, 0.95, 0.999, 1},
		},
	)
)

// IncCommit counts a committed document change.
func IncCommit(source string) {
	commits.WithLabelValues(source).Inc()
}

// IncSave counts a remote save attempt.
func IncSave(result string) {
	saves.WithLabelValues(result).Inc()
}

// IncImport counts an import attempt.
func IncImport(kind, result string) {
	imports.WithLabelValues(kind, result).Inc()
}

// ObservePrint records a print duration and, on success, the applied scale.
func ObservePrint(d time.Duration, scale float64, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	printDuration.WithLabelValues(result).Observe(d.Seconds())
	if err == nil {
		printScale.Observe(scale)
	}
}

// Result maps an error to a metric label.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// HTTP records request counts and durations per route.
func HTTP() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		httpRequests.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
