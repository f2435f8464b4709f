package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedRoute labels requests that hit no registered route.
const unmatchedRoute = "unmatched"

var (
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "balcao",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route template and status code.",
		},
		[]string{"method", "route", "status"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "balcao",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route template.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	HttpRequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "balcao",
		Name:      "http_requests_in_flight",
		Help:      "HTTP requests currently being served.",
	})
)

// InitMetrics registers the request metrics on reg together with extra, such
// as the checkout counters.
func InitMetrics(reg prometheus.Registerer, extra ...prometheus.Collector) {
	reg.MustRegister(HttpRequestsTotal, HttpRequestDuration, HttpRequestsInFlight)
	reg.MustRegister(extra...)
}

func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		HttpRequestsInFlight.Inc()
		defer HttpRequestsInFlight.Dec()

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method
		HttpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HttpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
