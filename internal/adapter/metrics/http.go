package metrics

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/platform/correlation"
)

// Principal label values of the /mood request metrics.
const (
	principalNone      = "none"
	principalAnonymous = "anonymous"
	principalUser      = "user"
)

// HTTPMetrics covers the /mood resource. Health checks, /version and /metrics are not
// measured: the middleware is only mounted on the mood routes.
type HTTPMetrics struct {
	MoodRequests *prometheus.CounterVec
	MoodLatency  *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		MoodRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "mood_requests_total",
			Help:      "Requests to /mood by method, status code and the kind of principal they ran as.",
		}, []string{"method", "status_code", "principal"}),
		MoodLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "mood_request_duration_seconds",
			Help:      "Latency of /mood requests in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}, []string{"method"}),
	}

	reg.MustRegister(m.MoodRequests, m.MoodLatency)
	return m
}

// principalKind classifies the principal the handler stored in the request
// context. Requests rejected before a session was resolved count as "none".
func principalKind(c echo.Context) string {
	p, ok := correlation.Principal(c.Request().Context())
	switch {
	case !ok:
		return principalNone
	case p == domain.Anonymous:
		return principalAnonymous
	default:
		return principalUser
	}
}

// Middleware records one observation per /mood request after the handler and
// error rendering have run.
func (m *HTTPMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			method := c.Request().Method
			timer := prometheus.NewTimer(m.MoodLatency.WithLabelValues(method))
			defer timer.ObserveDuration()

			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			m.MoodRequests.WithLabelValues(method, status, principalKind(c)).Inc()
			return err
		}
	}
}
