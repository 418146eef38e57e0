package provisioning

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// Metrics holds the Prometheus collectors updated by a Runner.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	runsTotal    *prometheus.CounterVec
	stepsTotal   *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	cleanupTotal *prometheus.CounterVec
}

// NewMetrics creates the run collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vmprovision",
				Subsystem: "runner",
				Name:      "runs_total",
				Help:      "Total number of runs by final state",
			},
			[]string{"state"},
		),
		stepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vmprovision",
				Subsystem: "runner",
				Name:      "steps_total",
				Help:      "Total number of executed steps by result",
			},
			[]string{"step", "result"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "vmprovision",
				Subsystem: "runner",
				Name:      "step_duration_seconds",
				Help:      "Duration of step create actions in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.5, 2, 11), // 500ms to ~17min
			},
			[]string{"step"},
		),
		cleanupTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vmprovision",
				Subsystem: "runner",
				Name:      "cleanup_total",
				Help:      "Total number of teardowns by result",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(m.runsTotal, m.stepsTotal, m.stepDuration, m.cleanupTotal)
	return m
}

func (m *Metrics) recordRun(state RunState) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(state.String()).Inc()
}

func (m *Metrics) recordStep(step string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	m.stepsTotal.WithLabelValues(step, resultLabel(err)).Inc()
	m.stepDuration.WithLabelValues(step).Observe(duration.Seconds())
}

func (m *Metrics) recordCleanup(err error) {
	if m == nil {
		return
	}
	m.cleanupTotal.WithLabelValues(resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return resultFailure
	}
	return resultSuccess
}
