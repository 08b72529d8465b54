// Package metrics defines the service's Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values.
const (
	OutcomeSuccess    = "success"
	OutcomeFailure    = "failure"
	OutcomeSuperseded = "superseded"

	ActionLike   = "like"
	ActionUnlike = "unlike"
)

// HTTP metrics.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forkify_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forkify_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Domain metrics.
var (
	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forkify_search_requests_total",
			Help: "Recipe searches by outcome",
		},
		[]string{"outcome"},
	)

	RecipeFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forkify_recipe_fetches_total",
			Help: "Recipe detail fetches by outcome",
		},
		[]string{"outcome"},
	)

	LikesToggled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forkify_likes_toggled_total",
			Help: "Like and unlike actions",
		},
		[]string{"action"},
	)

	ListItemsAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forkify_list_items_added_total",
			Help: "Ingredients added to shopping lists",
		},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forkify_sessions_active",
			Help: "Client sessions currently held in memory",
		},
	)
)

// Middleware records request counts and latency. The route template is used
// as the path label so ids do not explode cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
