package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// DecisionCounter counts recorded approval decisions per stage.
	DecisionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "specialty_decisions_total",
			Help: "Approval decisions recorded, by stage and outcome",
		},
		[]string{"stage", "decision"},
	)

	// TransitionConflicts counts decisions lost to a concurrent writer.
	TransitionConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "specialty_transition_conflicts_total",
			Help: "Workflow writes rejected because the association changed underneath",
		},
	)

	AssociationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "specialty_associations_total",
			Help: "Specialty associations created and deleted",
		},
		[]string{"op"},
	)

	QuizAttemptCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_attempts_total",
			Help: "Scored quiz attempts by verdict",
		},
		[]string{"status"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			DecisionCounter,
			TransitionConflicts,
			AssociationCounter,
			QuizAttemptCounter,
		)
	})
}

// routeLabel keeps unmatched paths out of the label space.
func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := routeLabel(c)
		RequestCounter.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
