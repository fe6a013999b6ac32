package scoring

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// decisionCount extracts the counter value for a decision label from
// the gathered evaluation families. Returns -1 when the label has no
// series yet.
func decisionCount(families []*dto.MetricFamily, decision string) float64 {
	for _, family := range families {
		if family.GetName() != MetricEvaluationsTotal {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "decision" && label.GetValue() == decision {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return -1
}

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()
	if m == nil {
		t.Fatal("NewMetrics() returned nil")
	}

	if got := len(m.Collectors()); got != 3 {
		t.Errorf("expected 3 collectors, got %d", got)
	}
}

func TestMetrics_Register(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()

	if err := m.Register(reg); err != nil {
		t.Fatalf("Register() returned error: %v", err)
	}

	// Record samples so families appear in Gather()
	m.IncEvaluations(Greenlight)
	m.ObserveEvaluationDuration(0.001)
	m.IncCacheLookup(CacheMiss)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() returned error: %v", err)
	}

	expectedNames := map[string]bool{
		MetricEvaluationsTotal:    false,
		MetricEvaluationDuration:  false,
		MetricEvaluationCacheHits: false,
	}

	for _, family := range families {
		if _, ok := expectedNames[family.GetName()]; ok {
			expectedNames[family.GetName()] = true
		}
	}

	for name, found := range expectedNames {
		if !found {
			t.Errorf("metric %s not found in gathered metrics", name)
		}
	}
}

func TestMetrics_RegisterDuplicate(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()

	if err := m.Register(reg); err != nil {
		t.Fatalf("first Register() returned error: %v", err)
	}
	if err := m.Register(reg); err == nil {
		t.Error("second Register() should fail with duplicate collectors")
	}
}

func TestMetrics_DecisionLabels(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		t.Fatal(err)
	}

	m.IncEvaluations(Greenlight)
	m.IncEvaluations(Greenlight)
	m.IncEvaluations(Pass)

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}

	if got := decisionCount(families, string(Greenlight)); got != 2 {
		t.Errorf("greenlight count = %f, want 2", got)
	}
	if got := decisionCount(families, string(Pass)); got != 1 {
		t.Errorf("pass count = %f, want 1", got)
	}
	if got := decisionCount(families, string(Watchlist)); got != -1 {
		t.Error("watchlist label should not exist before first increment")
	}
}
