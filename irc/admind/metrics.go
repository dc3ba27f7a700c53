package admind

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/presbrey/ircserv/irc"
)

var (
	// registry holds the admin server's own HTTP metrics; /metrics gathers
	// it together with the IRC server registry.
	registry = prometheus.NewRegistry()

	requestDuration = promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	requestsTotal = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by status code",
		},
		[]string{"method", "path", "code"},
	)
)

// metricsMiddleware records request counts and latency per route.
func metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			path := c.Path()
			method := c.Request().Method

			err := next(c)

			requestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			requestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Response().Status)).Inc()
			return err
		}
	}
}

// metricsHandler serves both the IRC server metrics and the HTTP metrics.
func metricsHandler() http.Handler {
	return promhttp.HandlerFor(
		prometheus.Gatherers{irc.Registry, registry},
		promhttp.HandlerOpts{EnableOpenMetrics: true},
	)
}
