package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/beezio/beezio-backend/pkg/enums"
	"github.com/beezio/beezio-backend/pkg/types"
)

// CheckoutIntent is the pre-payment record of a prospective sale's computed
// split, created before the buyer is redirected to pay. Immutable until the
// reconciliation webhooks flip its status to completed.
type CheckoutIntent struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID     uuid.UUID  `gorm:"column:seller_id;type:uuid;not null"`
	BuyerID      *uuid.UUID `gorm:"column:buyer_id;type:uuid"`
	AffiliateID  *uuid.UUID `gorm:"column:affiliate_id;type:uuid"`
	ReferrerID   *uuid.UUID `gorm:"column:referrer_id;type:uuid"`
	IsFundraiser bool       `gorm:"column:is_fundraiser;not null;default:false"`

	Currency       enums.Currency `gorm:"column:currency;type:text;not null;default:'USD'"`
	ItemsSubtotal  float64        `gorm:"column:items_subtotal;type:numeric(12,2);not null"`
	ShippingAmount float64        `gorm:"column:shipping_amount;type:numeric(12,2);not null;default:0"`
	TaxAmount      float64        `gorm:"column:tax_amount;type:numeric(12,2);not null;default:0"`

	AffiliateFeeCents       int64 `gorm:"column:affiliate_fee_cents;not null;default:0"`
	BeezioFeeCents          int64 `gorm:"column:beezio_fee_cents;not null;default:0"`
	RefOrFundraiserFeeCents int64 `gorm:"column:ref_or_fundraiser_fee_cents;not null;default:0"`
	ProcessingFeeCents      int64 `gorm:"column:processing_fee_cents;not null;default:0"`

	SplitJSON *types.SplitJSON `gorm:"column:split_json;type:jsonb;serializer:json"`

	Status                enums.CheckoutIntentStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	StripeSessionID       *string                    `gorm:"column:stripe_session_id"`
	StripePaymentIntentID *string                    `gorm:"column:stripe_payment_intent_id;index"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralization.
func (CheckoutIntent) TableName() string {
	return "checkout_intents"
}
