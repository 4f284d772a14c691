package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics содержит метрики потока оформления заказа и реконсиляции.
type CheckoutMetrics struct {
	// Счётчики операций
	intentsCreated prometheus.Counter
	intentsFailed  prometheus.Counter
	reconcileTotal *prometheus.CounterVec

	// Гистограммы времени выполнения
	intentDuration    prometheus.Histogram
	reconcileDuration prometheus.Histogram
}

// Результаты реконсиляции для метрики dealdress_reconcile_total.
const (
	ReconcileResultCreated = "created"
	ReconcileResultAlready = "already"
	ReconcileResultSkipped = "skipped"
	ReconcileResultFailed  = "failed"
)

// NewCheckoutMetrics создаёт новый экземпляр метрик checkout.
func NewCheckoutMetrics() *CheckoutMetrics {
	return newCheckoutMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newCheckoutMetricsWithRegisterer(registerer prometheus.Registerer) *CheckoutMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CheckoutMetrics{
		intentsCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "dealdress_intents_created_total",
			Help: "Total number of payment intents created at the processor",
		}),
		intentsFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "dealdress_intents_failed_total",
			Help: "Total number of payment intent creation failures",
		}),
		reconcileTotal: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "dealdress_reconcile_total",
			Help: "Total number of reconciliation calls grouped by result",
		}, []string{"result"}),
		intentDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "dealdress_intent_duration_seconds",
			Help:    "Duration of payment intent creation in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		reconcileDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "dealdress_reconcile_duration_seconds",
			Help:    "Duration of reconciliation calls in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// RecordIntentCreated фиксирует успешное создание намерения.
func (m *CheckoutMetrics) RecordIntentCreated(duration time.Duration) {
	m.intentsCreated.Inc()
	m.intentDuration.Observe(duration.Seconds())
}

// RecordIntentFailed фиксирует неудачное создание намерения.
func (m *CheckoutMetrics) RecordIntentFailed() {
	m.intentsFailed.Inc()
}

// RecordReconcile фиксирует исход вызова реконсиляции.
func (m *CheckoutMetrics) RecordReconcile(result string, duration time.Duration) {
	m.reconcileTotal.WithLabelValues(result).Inc()
	m.reconcileDuration.Observe(duration.Seconds())
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}
