package orders

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/beezio/beezio-backend/pkg/db"
	"github.com/beezio/beezio-backend/pkg/db/models"
	"github.com/beezio/beezio-backend/pkg/enums"
	pkgerrors "github.com/beezio/beezio-backend/pkg/errors"
	"github.com/beezio/beezio-backend/pkg/logger"
	"github.com/beezio/beezio-backend/pkg/money"
)

// Service materializes orders from completed checkout intents and applies
// payment outcomes delivered by the payment provider.
type Service interface {
	CreateFromIntent(ctx context.Context, intent *models.CheckoutIntent, input CreateFromIntentInput) (*models.Order, error)
	ApplyPaymentOutcome(ctx context.Context, paymentIntentID string, paid bool) error
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByCheckoutIntentID(ctx context.Context, checkoutIntentID uuid.UUID) (*models.Order, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]OrderDTO, error)
}

type ServiceParams struct {
	Repo   Repository
	Logger *logger.Logger
}

type service struct {
	repo Repository
	logg *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repository required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

// CreateFromIntent builds an Order and its items from the intent's frozen
// cart. Payment status starts pending: a completed checkout session proves
// the buyer finished the form, not that funds cleared. A duplicate-key
// insert means a redelivered webhook already created the order; the existing
// row is returned as success.
func (s *service) CreateFromIntent(ctx context.Context, intent *models.CheckoutIntent, input CreateFromIntentInput) (*models.Order, error) {
	if intent == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout intent required")
	}

	totalAmount := money.Round2(intent.ItemsSubtotal + intent.ShippingAmount + intent.TaxAmount +
		money.FromCents(intent.AffiliateFeeCents) +
		money.FromCents(intent.BeezioFeeCents) +
		money.FromCents(intent.RefOrFundraiserFeeCents) +
		money.FromCents(intent.ProcessingFeeCents))

	buyerID := intent.BuyerID
	if input.BuyerID != nil {
		buyerID = input.BuyerID
	}

	order := &models.Order{
		CheckoutIntentID: intent.ID,
		SellerID:         intent.SellerID,
		BuyerID:          buyerID,

		Currency:                 intent.Currency,
		ItemsSubtotal:            intent.ItemsSubtotal,
		ShippingAmount:           intent.ShippingAmount,
		TaxAmount:                intent.TaxAmount,
		TotalAmount:              totalAmount,
		AffiliateFeeAmount:       money.FromCents(intent.AffiliateFeeCents),
		BeezioFeeAmount:          money.FromCents(intent.BeezioFeeCents),
		RefOrFundraiserFeeAmount: money.FromCents(intent.RefOrFundraiserFeeCents),
		ProcessingFeeAmount:      money.FromCents(intent.ProcessingFeeCents),

		StripeSessionID:       input.SessionID,
		StripePaymentIntentID: input.PaymentIntentID,

		Status:            enums.OrderStatusProcessing,
		PaymentStatus:     enums.PaymentStatusPending,
		FulfillmentStatus: enums.FulfillmentStatusProcessing,

		BillingEmail:   input.BillingEmail,
		BillingName:    input.BillingName,
		BillingAddress: input.BillingAddress,
		BillingCity:    input.BillingCity,
		BillingState:   input.BillingState,
		BillingZip:     input.BillingZip,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		if !db.IsDuplicateKey(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}
		s.logg.Warn(ctx, "order already exists for checkout intent, treating as success")
		existing, findErr := s.repo.FindByCheckoutIntentID(ctx, intent.ID)
		if findErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, findErr, "find existing order")
		}
		return existing, nil
	}

	if intent.SplitJSON != nil {
		items := make([]models.OrderItem, 0, len(intent.SplitJSON.Cart.LineItems))
		for _, li := range intent.SplitJSON.Cart.LineItems {
			productID, err := uuid.Parse(li.ProductID)
			if err != nil {
				s.logg.Warn(ctx, "skipping order item with malformed product id")
				continue
			}
			qty := li.Qty
			if qty < 1 {
				qty = 1
			}
			items = append(items, models.OrderItem{
				OrderID:     order.ID,
				ProductID:   productID,
				SellerID:    intent.SellerID,
				AffiliateID: intent.AffiliateID,
				VariantID:   li.VariantID,
				Quantity:    qty,
				UnitPrice:   li.UnitPrice,
				TotalPrice:  money.Round2(li.UnitPrice * float64(qty)),
			})
		}
		if err := s.repo.CreateItems(ctx, items); err != nil && !db.IsDuplicateKey(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order items")
		}
	}

	return order, nil
}

// paymentUpdateFieldSets is the tolerant-write fallback chain: the full
// update is tried first, then progressively smaller sets when the target
// schema lacks optional columns. payment_status is in every set because it
// must never be dropped.
func paymentUpdateFieldSets(paymentStatus enums.PaymentStatus, status enums.OrderStatus) []map[string]any {
	return []map[string]any{
		{
			"payment_status": paymentStatus,
			"status":         status,
			"updated_at":     time.Now().UTC(),
		},
		{
			"payment_status": paymentStatus,
			"status":         status,
		},
		{
			"payment_status": paymentStatus,
		},
	}
}

// ApplyPaymentOutcome updates the order found via the payment identifier.
// Missing optional columns degrade to smaller field sets instead of failing
// the webhook; any other storage error propagates.
func (s *service) ApplyPaymentOutcome(ctx context.Context, paymentIntentID string, paid bool) error {
	if paymentIntentID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment intent id is required")
	}

	paymentStatus := enums.PaymentStatusPaid
	status := enums.OrderStatusCompleted
	if !paid {
		paymentStatus = enums.PaymentStatusFailed
		status = enums.OrderStatusFailed
	}

	var lastErr error
	for _, fields := range paymentUpdateFieldSets(paymentStatus, status) {
		err := s.repo.UpdateByPaymentIntentID(ctx, paymentIntentID, fields)
		if err == nil {
			return nil
		}
		lastErr = err
		if db.Classify(err) != db.KindMissingColumn {
			break
		}
		s.logg.Warn(ctx, "order update hit missing column, retrying with smaller field set")
	}

	if db.Classify(lastErr) == db.KindMissingColumn {
		// Even the minimal set referenced an absent column. Schema drift
		// this severe is logged, not fatal to the webhook.
		s.logg.Warn(ctx, "order payment update skipped: schema lacks payment_status")
		return nil
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, lastErr, "update order payment status")
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
	}
	return order, nil
}

func (s *service) FindByCheckoutIntentID(ctx context.Context, checkoutIntentID uuid.UUID) (*models.Order, error) {
	if checkoutIntentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout intent id is required")
	}
	order, err := s.repo.FindByCheckoutIntentID(ctx, checkoutIntentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found for checkout intent")
	}
	return order, nil
}

func (s *service) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]OrderDTO, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id is required")
	}
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	if offset < 0 {
		offset = 0
	}
	list, err := s.repo.ListBySellerID(ctx, sellerID, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	dtos := make([]OrderDTO, 0, len(list))
	for i := range list {
		dtos = append(dtos, toOrderDTO(&list[i]))
	}
	return dtos, nil
}
