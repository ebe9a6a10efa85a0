package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/saturn/pkg/engine"
)

// DecisionMetrics tracks policy evaluation outcomes.
//
// Metrics:
//   - saturn_decisions_total: decisions by effect
//   - saturn_evaluation_duration_seconds: evaluation latency
//   - saturn_evaluation_errors_total: typed evaluation failures by kind
//   - saturn_rules_checked: rules examined per evaluation
type DecisionMetrics struct {
	decisionsTotal     *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	errorsTotal        *prometheus.CounterVec
	rulesChecked       prometheus.Histogram
}

// NewDecisionMetrics creates and registers the decision collectors.
func NewDecisionMetrics(namespace string, registry *prometheus.Registry) *DecisionMetrics {
	if namespace == "" {
		namespace = "saturn"
	}

	dm := &DecisionMetrics{
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decisions_total",
				Help:      "Total number of policy decisions",
			},
			[]string{"effect"},
		),

		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of policy evaluation in seconds",
				// Evaluations are sub-millisecond on sane policies.
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15),
			},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "evaluation_errors_total",
				Help:      "Total number of typed evaluation failures",
			},
			[]string{"kind"},
		),

		rulesChecked: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rules_checked",
				Help:      "Rules examined per evaluation",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
	}

	registry.MustRegister(
		dm.decisionsTotal,
		dm.evaluationDuration,
		dm.errorsTotal,
		dm.rulesChecked,
	)
	return dm
}

// RecordDecision records one completed evaluation.
func (dm *DecisionMetrics) RecordDecision(decision engine.Decision, stats engine.EvaluationStats, duration time.Duration) {
	dm.decisionsTotal.WithLabelValues(decision.Effect.String()).Inc()
	dm.evaluationDuration.Observe(duration.Seconds())
	dm.rulesChecked.Observe(float64(stats.RulesChecked))
}

// RecordError records one typed evaluation failure.
func (dm *DecisionMetrics) RecordError(err *engine.EvaluationError) {
	if err == nil {
		return
	}
	dm.errorsTotal.WithLabelValues(string(err.Kind)).Inc()
}
