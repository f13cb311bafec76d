package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/beezio/beezio-backend/pkg/db"
	"github.com/beezio/beezio-backend/pkg/db/models"
	"github.com/beezio/beezio-backend/pkg/enums"
	pkgerrors "github.com/beezio/beezio-backend/pkg/errors"
	"github.com/beezio/beezio-backend/pkg/logger"
	"github.com/beezio/beezio-backend/pkg/money"
)

// Service writes and reads the append-only earnings ledger.
type Service interface {
	RecordPayouts(ctx context.Context, intent *models.CheckoutIntent, orderID *uuid.UUID) error
	EarningsForAffiliate(ctx context.Context, affiliateID uuid.UUID) (*EarningsSummary, error)
	EarningsForReferrer(ctx context.Context, referrerID uuid.UUID) (*EarningsSummary, error)
	EarningsForCheckoutIntent(ctx context.Context, checkoutIntentID uuid.UUID) (*EarningsSummary, error)
}

// EarningsSummary aggregates a party's ledger rows for dashboards.
type EarningsSummary struct {
	Total   float64                `json:"total"`
	Entries []models.EarningsEntry `json:"entries"`
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
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ledger repository required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

// RecordPayouts writes one ledger row per non-zero payable category in the
// intent's stored breakdown. Runs only after payment confirmation. Duplicate
// rows (webhook redelivery) and a missing ledger table (optional schema) are
// both tolerated; anything else propagates.
func (s *service) RecordPayouts(ctx context.Context, intent *models.CheckoutIntent, orderID *uuid.UUID) error {
	if intent == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "checkout intent required")
	}
	if intent.SplitJSON == nil {
		s.logg.Warn(ctx, "checkout intent has no stored breakdown, skipping ledger write")
		return nil
	}
	breakdown := intent.SplitJSON.BreakdownCents

	currency := intent.Currency
	if !currency.IsValid() {
		currency = enums.CurrencyUSD
	}

	entries := make([]models.EarningsEntry, 0, 3)
	if intent.AffiliateID != nil && breakdown.AffiliateFeeCents > 0 {
		entries = append(entries, models.EarningsEntry{
			Type:             enums.EarningsEntryTypeAffiliate,
			CheckoutIntentID: intent.ID,
			OrderID:          orderID,
			SellerID:         intent.SellerID,
			AffiliateID:      intent.AffiliateID,
			Amount:           money.FromCents(breakdown.AffiliateFeeCents),
			Currency:         currency,
			Status:           enums.EarningsEntryStatusPaid,
		})
	}
	if intent.ReferrerID != nil && breakdown.RefOrFundraiserFeeCents > 0 {
		entries = append(entries, models.EarningsEntry{
			Type:             enums.EarningsEntryTypeReferrer,
			CheckoutIntentID: intent.ID,
			OrderID:          orderID,
			SellerID:         intent.SellerID,
			ReferrerID:       intent.ReferrerID,
			Amount:           money.FromCents(breakdown.RefOrFundraiserFeeCents),
			Currency:         currency,
			Status:           enums.EarningsEntryStatusPaid,
		})
	}
	if breakdown.TaxCents > 0 {
		entries = append(entries, models.EarningsEntry{
			Type:             enums.EarningsEntryTypeTax,
			CheckoutIntentID: intent.ID,
			OrderID:          orderID,
			SellerID:         intent.SellerID,
			Amount:           money.FromCents(breakdown.TaxCents),
			Currency:         currency,
			Status:           enums.EarningsEntryStatusPaid,
		})
	}

	if len(entries) == 0 {
		return nil
	}

	if err := s.repo.Create(ctx, entries); err != nil {
		switch db.Classify(err) {
		case db.KindDuplicateKey:
			s.logg.Warn(ctx, "ledger rows already recorded for checkout intent")
			return nil
		case db.KindMissingRelation:
			s.logg.Warn(ctx, "earnings ledger table absent, skipping ledger write")
			return nil
		default:
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write earnings ledger")
		}
	}
	return nil
}

func (s *service) EarningsForAffiliate(ctx context.Context, affiliateID uuid.UUID) (*EarningsSummary, error) {
	if affiliateID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "affiliate id is required")
	}
	entries, err := s.repo.ListByAffiliateID(ctx, affiliateID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list affiliate earnings")
	}
	return summarize(entries), nil
}

func (s *service) EarningsForReferrer(ctx context.Context, referrerID uuid.UUID) (*EarningsSummary, error) {
	if referrerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "referrer id is required")
	}
	entries, err := s.repo.ListByReferrerID(ctx, referrerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list referrer earnings")
	}
	return summarize(entries), nil
}

// EarningsForCheckoutIntent returns the payout rows one sale produced, for
// the per-order commission view.
func (s *service) EarningsForCheckoutIntent(ctx context.Context, checkoutIntentID uuid.UUID) (*EarningsSummary, error) {
	if checkoutIntentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout intent id is required")
	}
	entries, err := s.repo.ListByCheckoutIntentID(ctx, checkoutIntentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list intent earnings")
	}
	return summarize(entries), nil
}

func summarize(entries []models.EarningsEntry) *EarningsSummary {
	summary := &EarningsSummary{Entries: entries}
	var totalCents int64
	for _, entry := range entries {
		totalCents += money.ToCents(entry.Amount)
	}
	summary.Total = money.FromCents(totalCents)
	if summary.Entries == nil {
		summary.Entries = []models.EarningsEntry{}
	}
	return summary
}
