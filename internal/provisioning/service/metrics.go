package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts workflow runs and per-step outcomes.
type Metrics struct {
	runs  *prometheus.CounterVec
	steps *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "personacore",
			Subsystem: "provisioning",
			Name:      "runs_total",
			Help:      "Provisioning workflow runs by final outcome.",
		}, []string{"outcome"}),
		steps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "personacore",
			Subsystem: "provisioning",
			Name:      "steps_total",
			Help:      "Provisioning workflow step executions by outcome.",
		}, []string{"step", "outcome"}),
	}
}

func (m *Metrics) Run(outcome string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Step(step, outcome string) {
	if m == nil {
		return
	}
	m.steps.WithLabelValues(step, outcome).Inc()
}
