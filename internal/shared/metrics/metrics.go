package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics aggregates the counters and histograms exposed on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	JobsClaimed   prometheus.Counter
	JobsCompleted prometheus.Counter
	JobsFailed    prometheus.Counter
	JobsRetried   prometheus.Counter

	StageFailures *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec

	HTTPRequests *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		JobsClaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "screening_jobs_claimed_total",
			Help: "Jobs claimed by workers.",
		}),
		JobsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "screening_jobs_completed_total",
			Help: "Jobs that finished successfully.",
		}),
		JobsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "screening_jobs_failed_total",
			Help: "Jobs that exhausted their attempts.",
		}),
		JobsRetried: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "screening_jobs_retried_total",
			Help: "Jobs requeued after a recoverable failure.",
		}),
		StageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "screening_stage_failures_total",
			Help: "Pipeline stage failures by stage name.",
		}, []string{"stage"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "screening_stage_duration_seconds",
			Help:    "Pipeline stage wall time.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"stage"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "screening_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		m.JobsClaimed, m.JobsCompleted, m.JobsFailed, m.JobsRetried,
		m.StageFailures, m.StageDuration, m.HTTPRequests,
	)
	return m
}

// Observe counts each request by method, matched route and status.
func (m *Metrics) Observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Handler serves the registry in Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
