// Package metric exposes prometheus instrumentation for the extraction
// cascade. Every stage transition and probe attempt is counted so a run can
// be reconstructed from scrape data alone.
package metric

import "github.com/prometheus/client_golang/prometheus"

// Metrics contains the pipeline-level counters.
type Metrics struct {
	ProbeAttempts  *prometheus.CounterVec
	StageAttempts  *prometheus.CounterVec
	StageAccepted  *prometheus.CounterVec
	StageRejected  *prometheus.CounterVec
	RunsCompleted  prometheus.Counter
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{
		ProbeAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "kgv2",
				Subsystem: "probe",
				Name:      "attempts_total",
				Help:      "Contract probe attempts by candidate name and outcome",
			},
			[]string{"candidate", "outcome"},
		),
		StageAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "kgv2",
				Subsystem: "cascade",
				Name:      "stage_attempts_total",
				Help:      "Cascade stage executions by stage name",
			},
			[]string{"stage"},
		),
		StageAccepted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "kgv2",
				Subsystem: "cascade",
				Name:      "stage_accepted_total",
				Help:      "Stage outputs accepted by the validator",
			},
			[]string{"stage"},
		),
		StageRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "kgv2",
				Subsystem: "cascade",
				Name:      "stage_rejected_total",
				Help:      "Stage outputs rejected by the validator or failed with an error",
			},
			[]string{"stage"},
		),
		RunsCompleted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "kgv2",
				Subsystem: "cascade",
				Name:      "runs_completed_total",
				Help:      "Pipeline runs that terminated with a valid graph",
			},
		),
	}
}

// Register registers all counters on the given registerer.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.ProbeAttempts,
		m.StageAttempts,
		m.StageAccepted,
		m.StageRejected,
		m.RunsCompleted,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
