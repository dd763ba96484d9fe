package navbuild

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "floorplan"

const (
	outcomeOK        = "ok"
	outcomeEmpty     = "empty"
	outcomeTooLarge  = "too_large"
	outcomeCancelled = "cancelled"
	outcomeFailed    = "failed"
)

// Metrics counts and times builder calls.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg when reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "navbuild",
				Name:      "requests_total",
				Help:      "Total number of nav geometry generations by output kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "navbuild",
				Name:      "duration_seconds",
				Help:      "Builder call duration in seconds",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"kind"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Requests, m.Duration)
	}
	return m
}

func (m *Metrics) observe(kind Kind, outcome string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(string(kind), outcome).Inc()
}
