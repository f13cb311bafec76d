package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// WebhookMetrics counts inbound webhook deliveries by outcome. Tolerated
// covers the duplicate/missing-schema cases that return success without
// writing anything new.
type WebhookMetrics struct {
	processed *prometheus.CounterVec
	tolerated *prometheus.CounterVec
	failed    *prometheus.CounterVec
}

// NewWebhookMetrics registers the webhook counters on the provided registerer.
func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	if reg == nil {
		return &WebhookMetrics{}
	}
	processed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_processed_total",
		Help: "Webhook events handled successfully.",
	}, []string{"source", "event_type"})
	tolerated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_tolerated_total",
		Help: "Webhook events acknowledged without new writes (replays, missing optional schema).",
	}, []string{"source", "reason"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_failed_total",
		Help: "Webhook events that returned an error to the sender.",
	}, []string{"source", "event_type"})
	reg.MustRegister(processed, tolerated, failed)
	return &WebhookMetrics{
		processed: processed,
		tolerated: tolerated,
		failed:    failed,
	}
}

// IncProcessed records a fully handled event.
func (m *WebhookMetrics) IncProcessed(source, eventType string) {
	if m == nil || m.processed == nil {
		return
	}
	m.processed.WithLabelValues(normalizeLabel(source), normalizeLabel(eventType)).Inc()
}

// IncTolerated records an acknowledged no-op delivery.
func (m *WebhookMetrics) IncTolerated(source, reason string) {
	if m == nil || m.tolerated == nil {
		return
	}
	m.tolerated.WithLabelValues(normalizeLabel(source), normalizeLabel(reason)).Inc()
}

// IncFailed records an event returned to the sender as an error.
func (m *WebhookMetrics) IncFailed(source, eventType string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(source), normalizeLabel(eventType)).Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return strings.ReplaceAll(value, ".", "_")
}
