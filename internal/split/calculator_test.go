package split

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func ptrUUID(t *testing.T) *uuid.UUID {
	t.Helper()
	id := uuid.New()
	return &id
}

func TestCalculateBaseline(t *testing.T) {
	result := Calculate(Input{
		ItemsSubtotal:  100,
		ShippingAmount: 10,
		TaxAmount:      5,
	})

	if !result.ValidationOK {
		t.Fatalf("expected validation_ok, got reason %q", result.ValidationReason)
	}
	if result.BeezioFeeAmount != 15 {
		t.Fatalf("expected beezio fee 15, got %v", result.BeezioFeeAmount)
	}
	if result.ReferralFeeAmount != 0 || result.AffiliateCommissionAmount != 0 {
		t.Fatalf("expected zero referral/affiliate, got %v / %v", result.ReferralFeeAmount, result.AffiliateCommissionAmount)
	}
	if result.SellerNetItemsAmount != 85 {
		t.Fatalf("expected seller net 85, got %v", result.SellerNetItemsAmount)
	}
	if result.SellerTotalTransferAmount != 95 {
		t.Fatalf("expected seller transfer 95, got %v", result.SellerTotalTransferAmount)
	}
	if result.BeezioKeptAmount != 15 {
		t.Fatalf("expected beezio kept 15, got %v", result.BeezioKeptAmount)
	}
}

func TestCalculateAffiliateOnly(t *testing.T) {
	result := Calculate(Input{
		ItemsSubtotal: 100,
		AffiliateID:   ptrUUID(t),
		AffiliateRate: 0.10,
	})

	if !result.ValidationOK {
		t.Fatalf("expected validation_ok, got reason %q", result.ValidationReason)
	}
	if result.AffiliateAmount != 10 {
		t.Fatalf("expected affiliate amount 10, got %v", result.AffiliateAmount)
	}
	if result.BeezioKeptAmount != 15 {
		t.Fatalf("expected beezio kept 15, got %v", result.BeezioKeptAmount)
	}
	if result.SellerNetItemsAmount != 75 {
		t.Fatalf("expected seller net 75, got %v", result.SellerNetItemsAmount)
	}
}

func TestCalculateReferrerOnly(t *testing.T) {
	for _, fundraiser := range []bool{false, true} {
		result := Calculate(Input{
			ItemsSubtotal: 100,
			ReferrerID:    ptrUUID(t),
			IsFundraiser:  fundraiser,
			AffiliateRate: 0.25, // ignored without an affiliate
		})

		if !result.ValidationOK {
			t.Fatalf("fundraiser=%v: expected validation_ok, got reason %q", fundraiser, result.ValidationReason)
		}
		if result.ReferrerAmount != 5 {
			t.Fatalf("fundraiser=%v: expected referrer amount 5, got %v", fundraiser, result.ReferrerAmount)
		}
		if result.BeezioKeptAmount != 10 {
			t.Fatalf("fundraiser=%v: expected beezio kept 10, got %v", fundraiser, result.BeezioKeptAmount)
		}
		if result.SellerNetItemsAmount != 85 {
			t.Fatalf("fundraiser=%v: expected seller net 85, got %v", fundraiser, result.SellerNetItemsAmount)
		}
		if result.AffiliateAmount != 0 {
			t.Fatalf("fundraiser=%v: expected zero affiliate amount, got %v", fundraiser, result.AffiliateAmount)
		}
	}
}

func TestCalculateNegativeSellerRejected(t *testing.T) {
	result := Calculate(Input{
		ItemsSubtotal: 10,
		AffiliateID:   ptrUUID(t),
		AffiliateRate: 1.0,
	})

	if result.ValidationOK {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(result.ValidationReason, "negative") {
		t.Fatalf("expected negative-seller reason, got %q", result.ValidationReason)
	}
	if result.SellerNetItemsAmount >= 0 {
		t.Fatalf("expected negative seller net surfaced, got %v", result.SellerNetItemsAmount)
	}
	if result.BeezioKeptAmount != 0 || result.ReferrerAmount != 0 || result.AffiliateAmount != 0 {
		t.Fatalf("expected zeroed payout fields, got %v / %v / %v",
			result.BeezioKeptAmount, result.ReferrerAmount, result.AffiliateAmount)
	}
}

func TestCalculateRateNormalization(t *testing.T) {
	affiliate := ptrUUID(t)
	asPercent := Calculate(Input{ItemsSubtotal: 100, AffiliateID: affiliate, AffiliateRate: 20})
	asFraction := Calculate(Input{ItemsSubtotal: 100, AffiliateID: affiliate, AffiliateRate: 0.20})

	if asPercent != asFraction {
		t.Fatalf("rate 20 and 0.20 diverged:\n%+v\n%+v", asPercent, asFraction)
	}
	if asFraction.AffiliateAmount != 20 {
		t.Fatalf("expected affiliate amount 20, got %v", asFraction.AffiliateAmount)
	}
}

func TestCalculateZeroSubtotal(t *testing.T) {
	result := Calculate(Input{ReferrerID: ptrUUID(t)})
	if !result.ValidationOK {
		t.Fatalf("expected zero subtotal to validate, got reason %q", result.ValidationReason)
	}
	if result.ReferrerAmount != 0 || result.BeezioKeptAmount != 0 || result.SellerNetItemsAmount != 0 {
		t.Fatalf("expected all-zero amounts, got %+v", result)
	}
}

func TestCalculateReconciliation(t *testing.T) {
	cases := []Input{
		{ItemsSubtotal: 99.99, ShippingAmount: 4.5, TaxAmount: 8.25},
		{ItemsSubtotal: 33.33, AffiliateID: ptrUUID(t), AffiliateRate: 0.07},
		{ItemsSubtotal: 1234.56, ReferrerID: ptrUUID(t), AffiliateID: ptrUUID(t), AffiliateRate: 12.5},
		{ItemsSubtotal: 0.01},
	}
	for _, input := range cases {
		result := Calculate(input)
		if !result.ValidationOK {
			t.Fatalf("input %+v: expected validation_ok, got reason %q", input, result.ValidationReason)
		}
		sum := result.SellerNetItemsAmount + result.BeezioFeeAmount +
			result.ReferralFeeAmount + result.AffiliateCommissionAmount
		diff := sum - result.ItemsSubtotal
		if diff > 0.005 || diff < -0.005 {
			t.Fatalf("input %+v: parts sum %v, subtotal %v", input, sum, result.ItemsSubtotal)
		}
	}
}
