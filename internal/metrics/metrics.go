// Package metrics records Prometheus metrics for hook operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// HookMetrics holds the collectors for hook operations. A nil *HookMetrics
// records nothing, so callers never need to check whether metrics are on.
type HookMetrics struct {
	operations         *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec
	clientConstruction *prometheus.CounterVec
}

// NewHookMetrics creates the collectors and registers them with reg.
// Collectors already registered on reg are reused.
func NewHookMetrics(reg prometheus.Registerer) (*HookMetrics, error) {
	m := &HookMetrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vaulthook_operations_total",
				Help: "Total number of hook operations forwarded to Vault",
			},
			[]string{"operation", "status"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vaulthook_operation_duration_seconds",
				Help:    "Duration of hook operations in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"operation"},
		),
		clientConstruction: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vaulthook_client_constructions_total",
				Help: "Total number of Vault client constructions",
			},
			[]string{"status"},
		),
	}

	var err error
	if m.operations, err = register(reg, m.operations); err != nil {
		return nil, err
	}
	if m.operationDuration, err = register(reg, m.operationDuration); err != nil {
		return nil, err
	}
	if m.clientConstruction, err = register(reg, m.clientConstruction); err != nil {
		return nil, err
	}

	return m, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ObserveOperation records the outcome and duration of one operation.
func (m *HookMetrics) ObserveOperation(operation string, started time.Time, err error) {
	if m == nil {
		return
	}

	m.operations.WithLabelValues(operation, status(err)).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// ObserveClientConstruction records one client construction attempt.
func (m *HookMetrics) ObserveClientConstruction(err error) {
	if m == nil {
		return
	}
	m.clientConstruction.WithLabelValues(status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
