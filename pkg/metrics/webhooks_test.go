package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWebhookMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWebhookMetrics(reg)

	m.IncProcessed("stripe", "checkout.session.completed")
	m.IncProcessed("stripe", "checkout.session.completed")
	m.IncTolerated("stripe", "duplicate_key")
	m.IncFailed("cj", "PRICE_UPDATE")

	if got := testutil.ToFloat64(m.processed.WithLabelValues("stripe", "checkout_session_completed")); got != 2 {
		t.Fatalf("processed = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.tolerated.WithLabelValues("stripe", "duplicate_key")); got != 1 {
		t.Fatalf("tolerated = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.failed.WithLabelValues("cj", "price_update")); got != 1 {
		t.Fatalf("failed = %v, want 1", got)
	}
}

func TestWebhookMetricsNilRegisterer(t *testing.T) {
	m := NewWebhookMetrics(nil)
	// must not panic
	m.IncProcessed("stripe", "x")
	m.IncTolerated("stripe", "x")
	m.IncFailed("stripe", "x")
}
