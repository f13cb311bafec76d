// Package stripewebhook turns the payment provider's asynchronous events
// into durable order and ledger state. Two event types drive the machine:
// checkout.session.completed materializes the order, and
// payment_intent.succeeded is the canonical confirmation that money moved
// and the only trigger for earnings ledger writes.
package stripewebhook

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	"github.com/beezio/beezio-backend/internal/checkout"
	"github.com/beezio/beezio-backend/internal/orders"
	"github.com/beezio/beezio-backend/pkg/db/models"
	pkgerrors "github.com/beezio/beezio-backend/pkg/errors"
	"github.com/beezio/beezio-backend/pkg/logger"
)

type ledgerWriter interface {
	RecordPayouts(ctx context.Context, intent *models.CheckoutIntent, orderID *uuid.UUID) error
}

// ServiceParams wires the reconciliation service. Every write it performs is
// individually idempotent via storage uniqueness constraints, so no
// cross-write transaction is taken: redelivery converges on the same state.
type ServiceParams struct {
	IntentRepo checkout.Repository
	Orders     orders.Service
	Ledger     ledgerWriter
	Logger     *logger.Logger
}

type Service struct {
	intentRepo checkout.Repository
	orders     orders.Service
	ledger     ledgerWriter
	logg       *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.IntentRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout intent repo required")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders service required")
	}
	if params.Ledger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ledger service required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{
		intentRepo: params.IntentRepo,
		orders:     params.Orders,
		ledger:     params.Ledger,
		logg:       params.Logger,
	}, nil
}

func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode checkout session event")
		}
		return s.handleSessionCompleted(ctx, &session)
	case stripe.EventTypePaymentIntentSucceeded, stripe.EventTypePaymentIntentPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode payment intent event")
		}
		return s.handlePaymentOutcome(ctx, &intent, event.Type == stripe.EventTypePaymentIntentSucceeded)
	default:
		// Unhandled event types acknowledge without side effects.
		return nil
	}
}

// handleSessionCompleted marks the referenced intent completed and
// materializes the order with payment still pending. A session completion
// proves the buyer finished the hosted form, not that funds cleared, so the
// canonical money logic waits for payment_intent.succeeded.
func (s *Service) handleSessionCompleted(ctx context.Context, session *stripe.CheckoutSession) error {
	intentID, err := intentIDFromMetadata(session.Metadata)
	if err != nil {
		return err
	}
	ctx = s.logg.WithCheckoutIntentID(ctx, intentID.String())

	intent, err := s.intentRepo.FindByID(ctx, intentID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "checkout intent not found")
	}

	sessionID := session.ID
	var paymentIntentID *string
	if session.PaymentIntent != nil && session.PaymentIntent.ID != "" {
		id := session.PaymentIntent.ID
		paymentIntentID = &id
	}

	input := orders.CreateFromIntentInput{
		SessionID:       &sessionID,
		PaymentIntentID: paymentIntentID,
		BuyerID:         buyerIDFromMetadata(session.Metadata),
	}
	if details := session.CustomerDetails; details != nil {
		input.BillingEmail = optional(details.Email)
		input.BillingName = optional(details.Name)
		if addr := details.Address; addr != nil {
			input.BillingAddress = optional(addr.Line1)
			input.BillingCity = optional(addr.City)
			input.BillingState = optional(addr.State)
			input.BillingZip = optional(addr.PostalCode)
		}
	}

	if err := s.intentRepo.MarkCompleted(ctx, intent.ID, &sessionID, paymentIntentID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark checkout intent completed")
	}
	if _, err := s.orders.CreateFromIntent(ctx, intent, input); err != nil {
		return err
	}
	s.logg.Info(ctx, "order materialized from checkout session")
	return nil
}

// handlePaymentOutcome applies the payment result to the order, and on
// success writes the earnings ledger. The order reference is re-derived here
// rather than assumed from the session handler, because the two event types
// may arrive in either order.
func (s *Service) handlePaymentOutcome(ctx context.Context, paymentIntent *stripe.PaymentIntent, paid bool) error {
	if paymentIntent.ID == "" {
		s.logg.Warn(ctx, "payment event without payment intent id, acknowledging")
		return nil
	}

	if err := s.orders.ApplyPaymentOutcome(ctx, paymentIntent.ID, paid); err != nil {
		return err
	}
	if !paid {
		return nil
	}

	intent, err := s.resolveIntent(ctx, paymentIntent)
	if err != nil {
		return err
	}
	if intent == nil {
		// Nothing to reconcile: the payment did not originate from a
		// checkout intent this service owns.
		s.logg.Warn(ctx, "no checkout intent for confirmed payment, skipping ledger")
		return nil
	}
	ctx = s.logg.WithCheckoutIntentID(ctx, intent.ID.String())

	if err := s.intentRepo.MarkCompleted(ctx, intent.ID, nil, nil); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark checkout intent completed")
	}

	var orderID *uuid.UUID
	if order, err := s.orders.FindByCheckoutIntentID(ctx, intent.ID); err == nil {
		orderID = &order.ID
	} else {
		// The session-completed event may still be in flight. Ledger rows
		// carry the intent id either way, so this is not fatal.
		s.logg.Warn(ctx, "order not yet materialized at ledger-write time")
	}

	if err := s.ledger.RecordPayouts(ctx, intent, orderID); err != nil {
		return err
	}
	s.logg.Info(ctx, "payment confirmed, earnings recorded")
	return nil
}

// resolveIntent finds the checkout intent for a confirmed payment, first by
// the payment identifier recorded on the intent, then by the metadata the
// checkout flow attached to the payment intent itself. The metadata path
// covers payment confirmation racing ahead of session completion.
func (s *Service) resolveIntent(ctx context.Context, paymentIntent *stripe.PaymentIntent) (*models.CheckoutIntent, error) {
	intent, err := s.intentRepo.FindByPaymentIntentID(ctx, paymentIntent.ID)
	if err == nil {
		return intent, nil
	}

	intentID, metaErr := intentIDFromMetadata(paymentIntent.Metadata)
	if metaErr != nil {
		return nil, nil
	}
	intent, err = s.intentRepo.FindByID(ctx, intentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "checkout intent referenced by payment metadata not found")
	}
	return intent, nil
}

func intentIDFromMetadata(metadata map[string]string) (uuid.UUID, error) {
	raw := metadata["checkout_intent_id"]
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "metadata.checkout_intent_id missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "metadata.checkout_intent_id malformed")
	}
	return id, nil
}

func buyerIDFromMetadata(metadata map[string]string) *uuid.UUID {
	raw := metadata["buyer_id"]
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
