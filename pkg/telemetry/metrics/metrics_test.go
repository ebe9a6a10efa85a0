package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"mercator-hq/saturn/pkg/engine"
)

func TestDecisionMetrics_RecordDecision(t *testing.T) {
	registry := prometheus.NewRegistry()
	dm := NewDecisionMetrics("saturn", registry)

	dm.RecordDecision(
		engine.Decision{Effect: engine.EffectAllow, Reason: 1},
		engine.EvaluationStats{RulesChecked: 3},
		50*time.Microsecond,
	)
	dm.RecordDecision(
		engine.Decision{Effect: engine.EffectDeny, Reason: 2},
		engine.EvaluationStats{RulesChecked: 1},
		10*time.Microsecond,
	)
	dm.RecordDecision(
		engine.Decision{Effect: engine.EffectDeny, Reason: engine.NoMatchingRule},
		engine.EvaluationStats{RulesChecked: 4},
		20*time.Microsecond,
	)

	if got := testutil.ToFloat64(dm.decisionsTotal.WithLabelValues("allow")); got != 1 {
		t.Fatalf("allow count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(dm.decisionsTotal.WithLabelValues("deny")); got != 2 {
		t.Fatalf("deny count = %v, want 2", got)
	}
}

func TestDecisionMetrics_RecordError(t *testing.T) {
	registry := prometheus.NewRegistry()
	dm := NewDecisionMetrics("saturn", registry)

	dm.RecordError(&engine.EvaluationError{Kind: engine.ContextTooLarge})
	dm.RecordError(&engine.EvaluationError{Kind: engine.ContextTooLarge})
	dm.RecordError(&engine.EvaluationError{Kind: engine.ValueTooLong})
	dm.RecordError(nil)

	if got := testutil.ToFloat64(dm.errorsTotal.WithLabelValues(string(engine.ContextTooLarge))); got != 2 {
		t.Fatalf("context_too_large count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(dm.errorsTotal.WithLabelValues(string(engine.ValueTooLong))); got != 1 {
		t.Fatalf("value_too_long count = %v, want 1", got)
	}
}

func TestNewDecisionMetrics_DefaultNamespace(t *testing.T) {
	registry := prometheus.NewRegistry()
	dm := NewDecisionMetrics("", registry)

	dm.RecordDecision(engine.Decision{Effect: engine.EffectAllow}, engine.EvaluationStats{}, time.Microsecond)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() failed: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "saturn_decisions_total" {
			found = true
		}
	}
	if !found {
		t.Fatal("saturn_decisions_total should be registered under the default namespace")
	}
}
