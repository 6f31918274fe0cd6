package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	recheckTotal    *prometheus.CounterVec
	recheckDuration *prometheus.HistogramVec
	recheckInFlight prometheus.Gauge
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	recheckTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scansafe",
			Subsystem: "worker",
			Name:      "recall_recheck_total",
			Help:      "Total recall re-checks by status.",
		},
		[]string{"service", "status"},
	)
	recheckDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "scansafe",
			Subsystem: "worker",
			Name:      "recall_recheck_duration_seconds",
			Help:      "Recall re-check duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	recheckInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "scansafe",
			Subsystem: "worker",
			Name:      "recall_recheck_in_flight",
			Help:      "Number of in-flight recall re-checks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(recheckTotal, recheckDuration, recheckInFlight)

	return &WorkerMetrics{
		registry:        registry,
		recheckTotal:    recheckTotal,
		recheckDuration: recheckDuration,
		recheckInFlight: recheckInFlight,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartRecheck() {
	m.recheckInFlight.Inc()
}

func (m *WorkerMetrics) FinishRecheck(service string, duration time.Duration, err error) {
	m.recheckInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.recheckTotal.WithLabelValues(service, status).Inc()
	m.recheckDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}
