// Package split computes how a sale's subtotal divides among the seller, an
// optional affiliate, an optional referrer, and the platform. Calculate is a
// pure function with no I/O so the checkout flow and the repricing path can
// both reuse it.
package split

import (
	"github.com/google/uuid"

	"github.com/beezio/beezio-backend/pkg/fees"
	"github.com/beezio/beezio-backend/pkg/money"
	"github.com/beezio/beezio-backend/pkg/types"
)

// Input describes one prospective sale. Amounts are major currency units.
// AffiliateRate accepts either a fraction (0.20) or a percentage (20); it is
// normalized before use.
type Input struct {
	ItemsSubtotal  float64    `json:"items_subtotal"`
	ShippingAmount float64    `json:"shipping_amount"`
	TaxAmount      float64    `json:"tax_amount"`
	AffiliateID    *uuid.UUID `json:"affiliate_id,omitempty"`
	ReferrerID     *uuid.UUID `json:"referrer_id,omitempty"`
	IsFundraiser   bool       `json:"is_fundraiser"`
	AffiliateRate  float64    `json:"affiliate_rate"`
}

// Result is the full decomposition in 2-decimal major units. Callers must
// check ValidationOK before persisting or charging against the figures; a
// false value means the split is diagnostic output only.
type Result struct {
	BeezioFeeAmount           float64 `json:"beezio_fee_amount"`
	ReferralFeeAmount         float64 `json:"referral_fee_amount"`
	AffiliateCommissionAmount float64 `json:"affiliate_commission_amount"`
	SellerNetItemsAmount      float64 `json:"seller_net_items_amount"`
	SellerTotalTransferAmount float64 `json:"seller_total_transfer_amount"`
	BeezioKeptAmount          float64 `json:"beezio_kept_amount"`
	ReferrerAmount            float64 `json:"referrer_amount"`
	AffiliateAmount           float64 `json:"affiliate_amount"`
	TaxAmount                 float64 `json:"tax_amount"`
	ShippingAmount            float64 `json:"shipping_amount"`
	ItemsSubtotal             float64 `json:"items_subtotal"`
	ValidationOK              bool    `json:"validation_ok"`
	ValidationReason          string  `json:"validation_reason,omitempty"`
}

const (
	reasonNegativeSeller = "seller net items would be negative; reduce affiliate_rate or ensure items_subtotal covers platform, referral and affiliate amounts"
	reasonReconciliation = "reconciliation failed: items_subtotal != seller_net_items + platform_gross + affiliate_commission"
)

// Calculate runs the split algorithm. All arithmetic happens in integer
// cents; the result converts back to major units at the end. The referral
// carve-out is subtracted from the platform's fee, never added to the
// customer's price, so the presence of a referrer does not change what the
// buyer pays.
func Calculate(input Input) Result {
	itemsSubtotalCents := money.ToCents(input.ItemsSubtotal)
	shippingCents := money.ToCents(input.ShippingAmount)
	taxCents := money.ToCents(input.TaxAmount)

	affiliateRate := money.NormalizeRate(input.AffiliateRate)
	hasAffiliate := input.AffiliateID != nil && *input.AffiliateID != uuid.Nil
	hasReferrer := input.ReferrerID != nil && *input.ReferrerID != uuid.Nil

	platformGrossCents := money.Share(itemsSubtotalCents, fees.PlatformFeeRate)

	// The referral override is 5 percentage points of the sale base, paid
	// out of the platform's 15% fee.
	var referralFeeCents int64
	if hasReferrer {
		referralFeeCents = money.Share(itemsSubtotalCents, fees.ReferralRate)
		if referralFeeCents > platformGrossCents {
			referralFeeCents = platformGrossCents
		}
	}
	beezioFeeCents := platformGrossCents - referralFeeCents

	var affiliateCommissionCents int64
	if hasAffiliate {
		affiliateCommissionCents = money.Share(itemsSubtotalCents, affiliateRate)
	}

	sellerNetItemsCents := itemsSubtotalCents - platformGrossCents - affiliateCommissionCents

	result := Result{
		BeezioFeeAmount:           money.FromCents(beezioFeeCents),
		ReferralFeeAmount:         money.FromCents(referralFeeCents),
		AffiliateCommissionAmount: money.FromCents(affiliateCommissionCents),
		SellerNetItemsAmount:      money.FromCents(sellerNetItemsCents),
		SellerTotalTransferAmount: money.FromCents(sellerNetItemsCents + shippingCents),
		TaxAmount:                 money.FromCents(taxCents),
		ShippingAmount:            money.FromCents(shippingCents),
		ItemsSubtotal:             money.FromCents(itemsSubtotalCents),
	}

	if sellerNetItemsCents < 0 {
		// The negative seller figure stays populated for diagnostics;
		// the payout fields are zeroed because nothing may be paid out
		// of an unbalanced split.
		result.ValidationReason = reasonNegativeSeller
		return result
	}

	result.BeezioKeptAmount = money.FromCents(beezioFeeCents)
	result.ReferrerAmount = money.FromCents(referralFeeCents)
	result.AffiliateAmount = money.FromCents(affiliateCommissionCents)

	// Tautology given the arithmetic above, but this function is a
	// financial control point: any return value must be provably balanced
	// or explicitly flagged.
	if itemsSubtotalCents != sellerNetItemsCents+platformGrossCents+affiliateCommissionCents {
		result.ValidationReason = reasonReconciliation
		return result
	}

	result.ValidationOK = true
	return result
}

// BreakdownCents converts a validated result into the cent-granular
// breakdown embedded in a checkout intent's split_json. The ledger writer
// reads these figures back after payment confirmation.
func (r Result) BreakdownCents() types.BreakdownCents {
	return types.BreakdownCents{
		ItemsSubtotalCents:      money.ToCents(r.ItemsSubtotal),
		SellerNetItemsCents:     money.ToCents(r.SellerNetItemsAmount),
		BeezioFeeCents:          money.ToCents(r.BeezioKeptAmount),
		AffiliateFeeCents:       money.ToCents(r.AffiliateAmount),
		RefOrFundraiserFeeCents: money.ToCents(r.ReferrerAmount),
		TaxCents:                money.ToCents(r.TaxAmount),
		ShippingCents:           money.ToCents(r.ShippingAmount),
	}
}
