package metrics

import "github.com/prometheus/client_golang/prometheus"

// ErrorMetrics counts error responses rendered by the HTTP error middleware.
type ErrorMetrics struct {
	ErrorsTotal *prometheus.CounterVec
}

// NewErrorMetrics creates and registers error metrics on the given registry.
func NewErrorMetrics(reg prometheus.Registerer) *ErrorMetrics {
	m := &ErrorMetrics{
		ErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Total number of error responses, by error type.",
		}, []string{"type"}),
	}

	reg.MustRegister(m.ErrorsTotal)
	return m
}

func (m *ErrorMetrics) Observe(errType string) {
	m.ErrorsTotal.WithLabelValues(errType).Inc()
}
