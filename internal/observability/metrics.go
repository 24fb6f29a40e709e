package observability

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for store_operations_total.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeConflict = "conflict"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// StoreMetrics groups the Prometheus collectors reported by the store.
//
// Label cardinality is bounded: "op" is the fixed set of store method
// names and "outcome" one of the Outcome constants.
//
// A nil *StoreMetrics is valid and records nothing.
type StoreMetrics struct {
	// Ops counts completed operations by op and outcome.
	Ops *prometheus.CounterVec
	// Latency records operation duration in seconds by op.
	Latency *prometheus.HistogramVec
	// WritesWaiting gauges writers blocked on the store write lock.
	WritesWaiting prometheus.Gauge
	// SlotConflicts counts bookings refused because the slot was taken.
	SlotConflicts prometheus.Counter
	// SchemaUpgrades counts destructive schema upgrades.
	SchemaUpgrades prometheus.Counter
}

// NewStoreMetrics builds the collectors under namespace and registers them
// on reg. Collectors already registered by an earlier store on the same
// registry are reused, so several stores can share one registry.
func NewStoreMetrics(reg prometheus.Registerer, namespace string) (*StoreMetrics, error) {
	m := &StoreMetrics{
		Ops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "operations_total",
				Help:      "Total number of store operations by outcome.",
			},
			[]string{"op", "outcome"},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "operation_duration_seconds",
				Help:      "Duration of store operations in seconds.",
				// Local SQLite: sub-millisecond to a few hundred ms.
				Buckets: []float64{.0001, .0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"op"},
		),
		WritesWaiting: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "writes_waiting",
			Help:      "Current number of writers waiting for the store write lock.",
		}),
		SlotConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "slot_conflicts_total",
			Help:      "Total number of bookings refused because the slot was already taken.",
		}),
		SchemaUpgrades: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "schema_upgrades_total",
			Help:      "Total number of destructive schema upgrades (all tables dropped and recreated).",
		}),
	}

	var err error
	if m.Ops, err = register(reg, m.Ops); err != nil {
		return nil, err
	}
	if m.Latency, err = register(reg, m.Latency); err != nil {
		return nil, err
	}
	if m.WritesWaiting, err = register(reg, m.WritesWaiting); err != nil {
		return nil, err
	}
	if m.SlotConflicts, err = register(reg, m.SlotConflicts); err != nil {
		return nil, err
	}
	if m.SchemaUpgrades, err = register(reg, m.SchemaUpgrades); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ObserveOp records one completed operation.
func (m *StoreMetrics) ObserveOp(op, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Ops.WithLabelValues(op, outcome).Inc()
	m.Latency.WithLabelValues(op).Observe(d.Seconds())
}

// WaitingForWrite tracks a writer blocked on the write lock. Call the
// returned func once the lock is held.
func (m *StoreMetrics) WaitingForWrite() func() {
	if m == nil {
		return func() {}
	}
	m.WritesWaiting.Inc()
	return m.WritesWaiting.Dec
}

// SlotConflict records a refused booking.
func (m *StoreMetrics) SlotConflict() {
	if m == nil {
		return
	}
	m.SlotConflicts.Inc()
}

// SchemaUpgraded records a destructive schema upgrade.
func (m *StoreMetrics) SchemaUpgraded() {
	if m == nil {
		return
	}
	m.SchemaUpgrades.Inc()
}
