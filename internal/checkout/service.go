package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	"github.com/beezio/beezio-backend/internal/split"
	"github.com/beezio/beezio-backend/pkg/config"
	"github.com/beezio/beezio-backend/pkg/db/models"
	"github.com/beezio/beezio-backend/pkg/enums"
	pkgerrors "github.com/beezio/beezio-backend/pkg/errors"
	"github.com/beezio/beezio-backend/pkg/fees"
	"github.com/beezio/beezio-backend/pkg/logger"
	"github.com/beezio/beezio-backend/pkg/money"
	pkgstripe "github.com/beezio/beezio-backend/pkg/stripe"
	"github.com/beezio/beezio-backend/pkg/types"
)

// Service creates checkout intents and the hosted payment sessions that
// reference them.
type Service interface {
	CreateIntent(ctx context.Context, input CreateIntentInput) (*CreateIntentResult, error)
	GetIntent(ctx context.Context, id uuid.UUID) (*models.CheckoutIntent, error)
}

// CreateIntentInput describes the cart and parties for one prospective sale.
type CreateIntentInput struct {
	SellerID      uuid.UUID             `json:"seller_id" validate:"required"`
	BuyerID       *uuid.UUID            `json:"buyer_id,omitempty"`
	AffiliateID   *uuid.UUID            `json:"affiliate_id,omitempty"`
	ReferrerID    *uuid.UUID            `json:"referrer_id,omitempty"`
	IsFundraiser  bool                  `json:"is_fundraiser"`
	AffiliateRate float64               `json:"affiliate_rate"`
	Currency      string                `json:"currency"`
	LineItems     []types.SplitLineItem `json:"line_items" validate:"required,min=1"`
	ShippingAmount float64              `json:"shipping_amount"`
	TaxAmount      float64              `json:"tax_amount"`
	SuccessURL     string               `json:"success_url,omitempty"`
	CancelURL      string               `json:"cancel_url,omitempty"`
}

// CreateIntentResult carries the persisted intent, the split it froze, and
// the hosted checkout URL the buyer is redirected to.
type CreateIntentResult struct {
	Intent      *models.CheckoutIntent `json:"intent"`
	Split       split.Result           `json:"split"`
	CheckoutURL string                 `json:"checkout_url,omitempty"`
}

type ServiceParams struct {
	Repo     Repository
	Sessions pkgstripe.SessionClient
	Checkout config.CheckoutConfig
	Logger   *logger.Logger
}

type service struct {
	repo     Repository
	sessions pkgstripe.SessionClient
	cfg      config.CheckoutConfig
	logg     *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout repository required")
	}
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stripe session client required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &service{
		repo:     params.Repo,
		sessions: params.Sessions,
		cfg:      params.Checkout,
		logg:     params.Logger,
	}, nil
}

// CreateIntent validates the cart, computes the split, and persists the
// intent with the breakdown frozen into split_json. A split that fails
// validation is never persisted and never reaches the payment provider.
func (s *service) CreateIntent(ctx context.Context, input CreateIntentInput) (*CreateIntentResult, error) {
	if input.SellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id is required")
	}
	if len(input.LineItems) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line item is required")
	}
	if input.ShippingAmount < 0 || input.TaxAmount < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping and tax must be non-negative")
	}

	var itemsSubtotal float64
	for i, li := range input.LineItems {
		if strings.TrimSpace(li.ProductID) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line item %d is missing product_id", i))
		}
		if li.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line item %d must have qty > 0", i))
		}
		if li.UnitPrice < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line item %d must have unit_price >= 0", i))
		}
		itemsSubtotal += li.UnitPrice * float64(li.Qty)
	}
	itemsSubtotal = money.Round2(itemsSubtotal)

	currency, err := enums.ParseCurrency(strings.ToUpper(strings.TrimSpace(input.Currency)))
	if err != nil {
		if strings.TrimSpace(input.Currency) != "" {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported currency")
		}
		currency = enums.CurrencyUSD
	}

	result := split.Calculate(split.Input{
		ItemsSubtotal:  itemsSubtotal,
		ShippingAmount: input.ShippingAmount,
		TaxAmount:      input.TaxAmount,
		AffiliateID:    input.AffiliateID,
		ReferrerID:     input.ReferrerID,
		IsFundraiser:   input.IsFundraiser,
		AffiliateRate:  input.AffiliateRate,
	})
	if !result.ValidationOK {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, result.ValidationReason)
	}

	breakdown := result.BreakdownCents()

	// The buyer covers processing on everything they pay, fees included.
	baseTotalCents := breakdown.ItemsSubtotalCents + breakdown.AffiliateFeeCents +
		breakdown.BeezioFeeCents + breakdown.RefOrFundraiserFeeCents +
		breakdown.ShippingCents + breakdown.TaxCents
	processingFeeCents := money.Share(baseTotalCents, fees.StripePercent) + money.ToCents(fees.StripeFixedFee)

	intent := &models.CheckoutIntent{
		SellerID:       input.SellerID,
		BuyerID:        input.BuyerID,
		AffiliateID:    input.AffiliateID,
		ReferrerID:     input.ReferrerID,
		IsFundraiser:   input.IsFundraiser,
		Currency:       currency,
		ItemsSubtotal:  result.ItemsSubtotal,
		ShippingAmount: result.ShippingAmount,
		TaxAmount:      result.TaxAmount,

		AffiliateFeeCents:       breakdown.AffiliateFeeCents,
		BeezioFeeCents:          breakdown.BeezioFeeCents,
		RefOrFundraiserFeeCents: breakdown.RefOrFundraiserFeeCents,
		ProcessingFeeCents:      processingFeeCents,

		SplitJSON: &types.SplitJSON{
			Cart:           types.SplitCart{LineItems: input.LineItems},
			BreakdownCents: breakdown,
		},
		Status: enums.CheckoutIntentStatusPending,
	}

	if err := s.repo.Create(ctx, intent); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create checkout intent")
	}

	ctx = s.logg.WithCheckoutIntentID(ctx, intent.ID.String())

	session, err := s.sessions.CreateCheckoutSession(ctx, s.sessionParams(intent, input))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create stripe checkout session")
	}

	if err := s.repo.SetStripeSessionID(ctx, intent.ID, session.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record stripe session id")
	}
	sessionID := session.ID
	intent.StripeSessionID = &sessionID

	s.logg.Info(ctx, "checkout intent created")

	return &CreateIntentResult{
		Intent:      intent,
		Split:       result,
		CheckoutURL: session.URL,
	}, nil
}

func (s *service) GetIntent(ctx context.Context, id uuid.UUID) (*models.CheckoutIntent, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout intent id is required")
	}
	intent, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "checkout intent not found")
	}
	return intent, nil
}

// sessionParams builds the hosted-checkout session: one Stripe line item per
// cart line plus one per non-zero fee component, with the intent id carried
// in metadata so the webhook can find its way back.
func (s *service) sessionParams(intent *models.CheckoutIntent, input CreateIntentInput) *stripe.CheckoutSessionCreateParams {
	currency := strings.ToLower(string(intent.Currency))

	lineItems := make([]*stripe.CheckoutSessionCreateLineItemParams, 0, len(input.LineItems)+5)
	for _, li := range input.LineItems {
		name := li.Name
		if name == "" {
			name = fmt.Sprintf("Product %s", li.ProductID)
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionCreateLineItemParams{
			Quantity: stripe.Int64(int64(li.Qty)),
			PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(money.ToCents(li.UnitPrice)),
				ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
					Name: stripe.String(name),
				},
			},
		})
	}

	feeLine := func(name string, cents int64) {
		if cents <= 0 {
			return
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionCreateLineItemParams{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(cents),
				ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
					Name: stripe.String(name),
				},
			},
		})
	}
	feeLine("Affiliate commission", intent.AffiliateFeeCents)
	feeLine("Beezio fee", intent.BeezioFeeCents)
	refFeeName := "Referral fee"
	if intent.IsFundraiser {
		refFeeName = "Fundraiser fee"
	}
	feeLine(refFeeName, intent.RefOrFundraiserFeeCents)
	feeLine("Shipping", money.ToCents(intent.ShippingAmount))
	feeLine("Tax", money.ToCents(intent.TaxAmount))
	feeLine("Processing fee", intent.ProcessingFeeCents)

	metadata := map[string]string{
		"checkout_intent_id": intent.ID.String(),
	}
	if input.BuyerID != nil {
		metadata["buyer_id"] = input.BuyerID.String()
	}

	successURL := input.SuccessURL
	if successURL == "" {
		successURL = s.cfg.SuccessURL
	}
	cancelURL := input.CancelURL
	if cancelURL == "" {
		cancelURL = s.cfg.CancelURL
	}

	params := &stripe.CheckoutSessionCreateParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		LineItems:  lineItems,
		Metadata:   metadata,
		PaymentIntentData: &stripe.CheckoutSessionCreatePaymentIntentDataParams{
			Metadata: metadata,
		},
	}
	return params
}
