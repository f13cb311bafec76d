// Package fees is the single definition point for the platform's fee
// constants. The split calculator, the repricing engine, and the checkout
// flow all read from here so forward and inverse calculations agree to the
// cent.
package fees

const (
	// PlatformFeeRate is Beezio's base cut of the items subtotal.
	PlatformFeeRate = 0.15

	// ReferralRate is the slice of the sale base redirected to a referrer.
	// It is carved out of the platform fee, never added on top of the
	// customer's price.
	ReferralRate = 0.05

	// StripePercent and StripeFixedFee describe the processing fee
	// structure used by the repricing path.
	StripePercent  = 0.029
	StripeFixedFee = 0.60

	// SmallOrderThreshold is the seller-ask ceiling (in major units) below
	// which SmallOrderSurcharge applies.
	SmallOrderThreshold = 20.0
	SmallOrderSurcharge = 1.0
)
