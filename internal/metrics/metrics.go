package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "portal"
)

type Metrics struct {
	reg         *prometheus.Registry
	requests    *prometheus.CounterVec
	streamed    *prometheus.CounterVec
	rangeErrors *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "HTTP requests by handler and status code.",
		}, []string{"handler", "code"}),
		streamed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streamed_bytes_total",
			Help:      "Bytes of media written to clients by content type.",
		}, []string{"content_type"}),
		rangeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "range_errors_total",
			Help:      "Rejected Range headers by reason.",
		}, []string{"reason"}),
	}

	m.reg.MustRegister(
		m.requests,
		m.streamed,
		m.rangeErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) Request(handler string, code int) {
	m.requests.WithLabelValues(handler, strconv.Itoa(code)).Inc()
}

func (m *Metrics) StreamedBytes(contentType string, n int) {
	if n > 0 {
		m.streamed.WithLabelValues(contentType).Add(float64(n))
	}
}

func (m *Metrics) RangeError(reason string) {
	m.rangeErrors.WithLabelValues(reason).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}
