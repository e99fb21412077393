package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Skufu/GoRenal/internal/renal"
)

type Collector struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	CalculationsTotal  *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	StagesTotal        *prometheus.CounterVec
}

// NewCollector registers every series on a private registry so that several
// collectors can coexist in one process.
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,

		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"method", "path", "status"}),

		CalculationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "renal",
			Name:      "calculations_total",
			Help:      "Calculation requests by outcome (computed or invalid).",
		}, []string{"outcome"}),

		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "renal",
			Name:      "validation_failures_total",
			Help:      "Rejected input fields.",
		}, []string{"field"}),

		StagesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "renal",
			Name:      "stages_total",
			Help:      "CKD stage assigned to each computed estimate, by formula.",
		}, []string{"formula", "stage"}),
	}
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveReport records the outcome of one calculation. Patient values are
// never used as label values.
func (c *Collector) ObserveReport(r renal.Report) {
	if !r.Valid() {
		c.CalculationsTotal.WithLabelValues("invalid").Inc()
		for _, field := range r.Errors.Fields() {
			c.ValidationFailures.WithLabelValues(field).Inc()
		}
		return
	}

	c.CalculationsTotal.WithLabelValues("computed").Inc()
	for _, res := range r.Results {
		c.StagesTotal.WithLabelValues(string(res.Formula), strconv.Itoa(res.Stage.Stage)).Inc()
	}
}
