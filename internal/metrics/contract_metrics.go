// Package metrics содержит Prometheus-метрики сервиса контрактов.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Значения метки outcome для переходов статусов.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
)

// Значения метки result для публикации событий.
const (
	ResultPublished = "published"
	ResultFailed    = "failed"
)

// ContractMetrics содержит метрики ошибок, переходов статусов и публикации событий.
// Нулевой указатель допустим: все методы становятся no-op.
type ContractMetrics struct {
	errors            *prometheus.CounterVec
	transitions       *prometheus.CounterVec
	statusEvents      *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// NewContractMetrics регистрирует метрики в DefaultRegisterer.
func NewContractMetrics() *ContractMetrics {
	return NewContractMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewContractMetricsWithRegisterer регистрирует метрики в переданном registerer.
// Повторная регистрация возвращает уже существующие коллекторы.
func NewContractMetricsWithRegisterer(registerer prometheus.Registerer) *ContractMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &ContractMetrics{
		errors: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "contract_errors_total",
			Help: "Total number of error responses by error code and HTTP status",
		}, []string{"code", "status"}),
		transitions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "contract_order_transitions_total",
			Help: "Total number of order status transition attempts",
		}, []string{"from", "to", "outcome"}),
		statusEvents: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "contract_status_events_total",
			Help: "Total number of status change events handed to the publisher",
		}, []string{"result"}),
		operationDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "contract_operation_duration_seconds",
			Help:    "Duration of order service operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}, []string{"operation"}),
	}
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

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordError учитывает отданную клиенту ошибку.
func (m *ContractMetrics) RecordError(code string, httpStatus int) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(code, strconv.Itoa(httpStatus)).Inc()
}

// RecordTransition учитывает попытку перехода статуса.
func (m *ContractMetrics) RecordTransition(from, to, outcome string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to, outcome).Inc()
}

// RecordStatusEvent учитывает результат публикации события.
func (m *ContractMetrics) RecordStatusEvent(result string) {
	if m == nil {
		return
	}
	m.statusEvents.WithLabelValues(result).Inc()
}

// ObserveOperation записывает длительность операции сервиса.
func (m *ContractMetrics) ObserveOperation(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
