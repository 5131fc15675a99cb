package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()

	metric := &dto.Metric{}
	if err := vec.WithLabelValues(labels...).Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func TestNewContractMetricsWithRegisterer(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewContractMetricsWithRegisterer(reg)

	if metrics.errors == nil || metrics.transitions == nil || metrics.statusEvents == nil || metrics.operationDuration == nil {
		t.Fatal("all collectors must be initialized")
	}

	// Повторная регистрация должна вернуть существующие коллекторы.
	again := NewContractMetricsWithRegisterer(reg)
	if again.errors != metrics.errors {
		t.Fatal("expected existing collector on re-registration")
	}
}

func TestRecordError(t *testing.T) {
	metrics := NewContractMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordError("ORDER_NOT_FOUND", 404)
	metrics.RecordError("ORDER_NOT_FOUND", 404)
	metrics.RecordError("INTERNAL_ERROR", 500)

	if got := counterValue(t, metrics.errors, "ORDER_NOT_FOUND", "404"); got != 2 {
		t.Errorf("expected 2, got %f", got)
	}
	if got := counterValue(t, metrics.errors, "INTERNAL_ERROR", "500"); got != 1 {
		t.Errorf("expected 1, got %f", got)
	}
}

func TestRecordTransitionAndStatusEvent(t *testing.T) {
	metrics := NewContractMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordTransition("PENDING", "CONFIRMED", OutcomeApplied)
	metrics.RecordTransition("DELIVERED", "PENDING", OutcomeRejected)
	metrics.RecordStatusEvent(ResultFailed)

	if got := counterValue(t, metrics.transitions, "PENDING", "CONFIRMED", OutcomeApplied); got != 1 {
		t.Errorf("expected 1 applied transition, got %f", got)
	}
	if got := counterValue(t, metrics.transitions, "DELIVERED", "PENDING", OutcomeRejected); got != 1 {
		t.Errorf("expected 1 rejected transition, got %f", got)
	}
	if got := counterValue(t, metrics.statusEvents, ResultFailed); got != 1 {
		t.Errorf("expected 1 failed event, got %f", got)
	}
}

func TestObserveOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewContractMetricsWithRegisterer(reg)

	metrics.ObserveOperation("change_status", 20*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, family := range families {
		if family.GetName() != "contract_operation_duration_seconds" {
			continue
		}
		if got := family.GetMetric()[0].GetHistogram().GetSampleCount(); got != 1 {
			t.Fatalf("expected 1 sample, got %d", got)
		}
		return
	}
	t.Fatal("histogram family not found")
}

func TestNilMetricsAreNoop(t *testing.T) {
	var metrics *ContractMetrics

	metrics.RecordError("INTERNAL_ERROR", 500)
	metrics.RecordTransition("PENDING", "CONFIRMED", OutcomeApplied)
	metrics.RecordStatusEvent(ResultPublished)
	metrics.ObserveOperation("get", time.Millisecond)
}
