package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCheckoutMetrics_Record(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newCheckoutMetricsWithRegisterer(registry)

	m.RecordIntentCreated(10 * time.Millisecond)
	m.RecordIntentFailed()
	m.RecordReconcile(ReconcileResultCreated, 5*time.Millisecond)
	m.RecordReconcile(ReconcileResultAlready, 5*time.Millisecond)
	m.RecordReconcile(ReconcileResultAlready, 5*time.Millisecond)

	if got := testutil.ToFloat64(m.intentsCreated); got != 1 {
		t.Fatalf("expected 1 intent created, got %v", got)
	}
	if got := testutil.ToFloat64(m.intentsFailed); got != 1 {
		t.Fatalf("expected 1 intent failed, got %v", got)
	}
	if got := testutil.ToFloat64(m.reconcileTotal.WithLabelValues(ReconcileResultAlready)); got != 2 {
		t.Fatalf("expected 2 already results, got %v", got)
	}
	if got := testutil.ToFloat64(m.reconcileTotal.WithLabelValues(ReconcileResultCreated)); got != 1 {
		t.Fatalf("expected 1 created result, got %v", got)
	}
}

// Повторная регистрация с тем же registerer возвращает существующие коллекторы.
func TestCheckoutMetrics_DoubleRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()

	first := newCheckoutMetricsWithRegisterer(registry)
	second := newCheckoutMetricsWithRegisterer(registry)

	first.RecordIntentFailed()
	second.RecordIntentFailed()

	if got := testutil.ToFloat64(first.intentsFailed); got != 2 {
		t.Fatalf("expected shared counter with value 2, got %v", got)
	}
}
