// Package pricing solves the inverse of the split calculation: given the
// amount a seller wants to keep per unit, derive the customer-facing retail
// price that still covers the affiliate cut, the platform fee, and payment
// processing. The supplier repricing webhook runs this whenever an upstream
// wholesale cost changes.
package pricing

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/beezio/beezio-backend/pkg/errors"
	"github.com/beezio/beezio-backend/pkg/fees"
	"github.com/beezio/beezio-backend/pkg/money"
	"github.com/beezio/beezio-backend/pkg/types"
)

var (
	one            = decimal.NewFromInt(1)
	stripePercent  = decimal.NewFromFloat(fees.StripePercent)
	platformRate   = decimal.NewFromFloat(fees.PlatformFeeRate)
	stripeFixed    = decimal.NewFromFloat(fees.StripeFixedFee)
	smallSurcharge = decimal.NewFromFloat(fees.SmallOrderSurcharge)
	smallThreshold = decimal.NewFromFloat(fees.SmallOrderThreshold)
)

// surchargeFor returns the flat platform surcharge applied to low-priced
// listings, keyed off the seller's per-unit ask.
func surchargeFor(ask decimal.Decimal) decimal.Decimal {
	if ask.IsPositive() && ask.LessThanOrEqual(smallThreshold) {
		return smallSurcharge
	}
	return decimal.Zero
}

// feePortion sums the percentage cuts taken out of the final price. The
// affiliate rate arrives already normalized to a fraction.
func feePortion(affiliateRate float64) decimal.Decimal {
	return decimal.NewFromFloat(affiliateRate).Add(platformRate).Add(stripePercent)
}

// FinalPrice solves
//
//	price * (1 - affiliate - platform - stripe%) = ask + stripeFixed + surcharge
//
// for price, rounded to cents. AffiliateRate accepts a fraction or a
// percentage. A fee portion at or above 100% makes the equation unsolvable
// and returns a configuration error; it is never clamped.
func FinalPrice(sellerAsk, affiliateRate float64) (float64, error) {
	if sellerAsk < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "seller ask must be non-negative")
	}
	rate := money.NormalizeRate(affiliateRate)

	denominator := one.Sub(feePortion(rate))
	if !denominator.IsPositive() {
		return 0, pkgerrors.New(pkgerrors.CodeConfig, "fee portion meets or exceeds 100%; repricing is unsolvable")
	}

	ask := decimal.NewFromFloat(sellerAsk)
	numerator := ask.Add(stripeFixed).Add(surchargeFor(ask))
	price := numerator.Div(denominator).Round(2)
	final, _ := price.Float64()
	return final, nil
}

// AskFromFinalPrice inverts FinalPrice. The small-order surcharge makes the
// inverse piecewise, so both candidates are computed and the one consistent
// with the surcharge rule wins.
func AskFromFinalPrice(finalPrice, affiliateRate float64) (float64, error) {
	rate := money.NormalizeRate(affiliateRate)

	denominator := one.Sub(feePortion(rate))
	if !denominator.IsPositive() {
		return 0, pkgerrors.New(pkgerrors.CodeConfig, "fee portion meets or exceeds 100%; repricing is unsolvable")
	}

	retained := decimal.NewFromFloat(finalPrice).Mul(denominator)
	askNoSurcharge := retained.Sub(stripeFixed).Round(2)
	askWithSurcharge := retained.Sub(stripeFixed).Sub(smallSurcharge).Round(2)

	// Candidates are compared at cent precision; the raw quotient carries
	// sub-cent residue that would misclassify asks sitting on the threshold.
	resolved := askNoSurcharge
	if askWithSurcharge.IsPositive() && askWithSurcharge.LessThanOrEqual(smallThreshold) {
		resolved = askWithSurcharge
	}
	ask, _ := resolved.Float64()
	return ask, nil
}

// Breakdown reprices a seller ask and records how the resulting retail price
// decomposes across participants. Persisted on supplier product mappings so
// sellers can see where each dollar of the new price goes.
func Breakdown(supplierCost, markupPercent, affiliateRate float64) (types.PriceBreakdown, error) {
	if supplierCost < 0 {
		return types.PriceBreakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "supplier cost must be non-negative")
	}
	markup := money.NormalizeRate(markupPercent)
	rate := money.NormalizeRate(affiliateRate)

	cost := decimal.NewFromFloat(supplierCost)
	askDec := cost.Add(cost.Mul(decimal.NewFromFloat(markup))).Round(2)
	ask, _ := askDec.Float64()

	final, err := FinalPrice(ask, rate)
	if err != nil {
		return types.PriceBreakdown{}, err
	}

	finalDec := decimal.NewFromFloat(final)
	affiliateAmount, _ := finalDec.Mul(decimal.NewFromFloat(rate)).Round(2).Float64()
	surcharge, _ := surchargeFor(askDec).Float64()
	platformGross, _ := finalDec.Mul(platformRate).Add(surchargeFor(askDec)).Round(2).Float64()
	stripeFee, _ := finalDec.Mul(stripePercent).Add(stripeFixed).Round(2).Float64()

	return types.PriceBreakdown{
		SupplierCost:      supplierCost,
		MarkupPercent:     markup,
		SellerAsk:         ask,
		AffiliatePercent:  rate,
		AffiliateAmount:   affiliateAmount,
		PlatformPercent:   fees.PlatformFeeRate,
		PlatformSurcharge: surcharge,
		PlatformGross:     platformGross,
		StripePercent:     fees.StripePercent,
		StripeFixed:       fees.StripeFixedFee,
		StripeFee:         stripeFee,
		FinalPrice:        final,
	}, nil
}
