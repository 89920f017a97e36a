package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestWorkMetricsCountsByOpAndResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWorkMetrics(reg)

	m.ObserveMutation(OpCreate, ResultOK)
	m.ObserveMutation(OpCreate, ResultOK)
	m.ObserveMutation(OpUpdate, ResultRejected)
	m.ObserveTransition("Diseño")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got := counterWithLabels(mfs, "balarco_work_mutations_total", map[string]string{"op": OpCreate, "result": ResultOK}); got != 2 {
		t.Fatalf("expected 2 successful creates, got %f", got)
	}
	if got := counterWithLabels(mfs, "balarco_work_mutations_total", map[string]string{"op": OpUpdate, "result": ResultRejected}); got != 1 {
		t.Fatalf("expected 1 rejected update, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "balarco_work_status_transitions_total", "status", "Diseño"); err != nil || got != 1 {
		t.Fatalf("expected 1 transition into Diseño, got %f (err=%v)", got, err)
	}
}

func TestNotificationMetricsCountsPushes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewNotificationMetrics(reg)
	m.ObservePush(ResultOK)
	m.ObservePush(ResultError)
	m.ObservePush(ResultError)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "balarco_notification_push_total", "result", ResultError); err != nil || got != 2 {
		t.Fatalf("expected 2 failed pushes, got %f (err=%v)", got, err)
	}
}

func TestNilRecordersAreNoops(t *testing.T) {
	var works *WorkMetrics
	works.ObserveMutation(OpCreate, ResultOK)
	works.ObserveTransition("")
	NewWorkMetrics(nil).ObserveMutation(OpUpdate, ResultError)

	var notifications *NotificationMetrics
	notifications.ObservePush(ResultOK)
}

func counterWithLabels(mfs []*dto.MetricFamily, name string, labels map[string]string) float64 {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0
	}
	for _, metric := range mf.GetMetric() {
		matched := true
		for k, v := range labels {
			if !matchesLabel(metric.GetLabel(), k, v) {
				matched = false
				break
			}
		}
		if matched {
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}
