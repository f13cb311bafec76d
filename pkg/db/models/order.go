package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/beezio/beezio-backend/pkg/enums"
)

// Order is materialized from a completed checkout intent by the payment
// webhook. The unique constraint on checkout_intent_id is what makes order
// creation idempotent under webhook redelivery.
type Order struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CheckoutIntentID uuid.UUID  `gorm:"column:checkout_intent_id;type:uuid;not null;uniqueIndex:uq_orders_checkout_intent"`
	SellerID         uuid.UUID  `gorm:"column:seller_id;type:uuid;not null"`
	BuyerID          *uuid.UUID `gorm:"column:buyer_id;type:uuid"`

	Currency                enums.Currency `gorm:"column:currency;type:text;not null;default:'USD'"`
	ItemsSubtotal           float64        `gorm:"column:items_subtotal;type:numeric(12,2);not null"`
	ShippingAmount          float64        `gorm:"column:shipping_amount;type:numeric(12,2);not null;default:0"`
	TaxAmount               float64        `gorm:"column:tax_amount;type:numeric(12,2);not null;default:0"`
	TotalAmount             float64        `gorm:"column:total_amount;type:numeric(12,2);not null"`
	AffiliateFeeAmount      float64        `gorm:"column:affiliate_fee_amount;type:numeric(12,2);not null;default:0"`
	BeezioFeeAmount         float64        `gorm:"column:beezio_fee_amount;type:numeric(12,2);not null;default:0"`
	RefOrFundraiserFeeAmount float64       `gorm:"column:ref_or_fundraiser_fee_amount;type:numeric(12,2);not null;default:0"`
	ProcessingFeeAmount     float64        `gorm:"column:processing_fee_amount;type:numeric(12,2);not null;default:0"`

	StripeSessionID       *string `gorm:"column:stripe_session_id"`
	StripePaymentIntentID *string `gorm:"column:stripe_payment_intent_id;index"`

	Status            enums.OrderStatus       `gorm:"column:status;type:text;not null;default:'processing'"`
	PaymentStatus     enums.PaymentStatus     `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	FulfillmentStatus enums.FulfillmentStatus `gorm:"column:fulfillment_status;type:text;not null;default:'processing'"`

	TrackingNumber *string `gorm:"column:tracking_number"`
	TrackingURL    *string `gorm:"column:tracking_url"`

	BillingEmail   *string `gorm:"column:billing_email"`
	BillingName    *string `gorm:"column:billing_name"`
	BillingAddress *string `gorm:"column:billing_address"`
	BillingCity    *string `gorm:"column:billing_city"`
	BillingState   *string `gorm:"column:billing_state"`
	BillingZip     *string `gorm:"column:billing_zip"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
