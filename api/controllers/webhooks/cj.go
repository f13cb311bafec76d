package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/beezio/beezio-backend/api/responses"
	cjwebhook "github.com/beezio/beezio-backend/internal/webhooks/cj"
	pkgerrors "github.com/beezio/beezio-backend/pkg/errors"
	"github.com/beezio/beezio-backend/pkg/logger"
	"github.com/beezio/beezio-backend/pkg/metrics"
	"github.com/beezio/beezio-backend/pkg/types"
)

type SupplierWebhookService interface {
	HandleEvent(ctx context.Context, envelope cjwebhook.Envelope) error
}

// SupplierWebhook ingests dropshipping callbacks. Events referencing unknown
// records are acknowledged inside the service, so an error here means either
// a malformed payload or a genuine write failure.
func SupplierWebhook(svc SupplierWebhookService, m *metrics.WebhookMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier webhook unavailable"))
			return
		}

		// Lenient decode: the supplier adds envelope fields without notice.
		var envelope cjwebhook.Envelope
		if err := json.NewDecoder(io.LimitReader(r.Body, maxWebhookPayloadBytes)).Decode(&envelope); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid webhook body"))
			return
		}

		if err := svc.HandleEvent(ctx, envelope); err != nil {
			if m != nil {
				m.IncFailed("cj", envelope.EventType)
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if m != nil {
			m.IncProcessed("cj", envelope.EventType)
		}
		responses.WriteSuccess(w, types.WebhookAck{Received: true})
	}
}
