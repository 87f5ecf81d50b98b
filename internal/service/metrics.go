package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"awdtrack/internal/routing"
)

// Metrics counts document transitions.
type Metrics struct {
	transitions *prometheus.CounterVec
}

// NewMetrics registers the service collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "awd_transitions_total",
				Help: "Total number of committed document transitions by action.",
			},
			[]string{"action"},
		),
	}
	if err := reg.Register(m.transitions); err != nil {
		return nil, err
	}
	return m, nil
}

// observe is a no-op on a nil receiver so services can run without metrics.
func (m *Metrics) observe(action routing.Action) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(string(action)).Inc()
}
