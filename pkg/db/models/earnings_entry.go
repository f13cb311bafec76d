package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/beezio/beezio-backend/pkg/enums"
)

// EarningsEntry is one append-only earnings ledger row: an amount owed to a
// non-seller party, written only after payment confirmation. The unique
// index on (checkout_intent_id, type) keeps redelivered webhooks from
// double-crediting a category.
type EarningsEntry struct {
	ID               uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Type             enums.EarningsEntryType `gorm:"column:type;type:text;not null;uniqueIndex:uq_earnings_intent_type"`
	CheckoutIntentID uuid.UUID               `gorm:"column:checkout_intent_id;type:uuid;not null;uniqueIndex:uq_earnings_intent_type"`
	OrderID          *uuid.UUID              `gorm:"column:order_id;type:uuid;index"`
	SellerID         uuid.UUID               `gorm:"column:seller_id;type:uuid;not null"`
	AffiliateID      *uuid.UUID              `gorm:"column:affiliate_id;type:uuid;index"`
	ReferrerID       *uuid.UUID              `gorm:"column:referrer_id;type:uuid;index"`

	Amount   float64                   `gorm:"column:amount;type:numeric(12,2);not null"`
	Currency enums.Currency            `gorm:"column:currency;type:text;not null;default:'USD'"`
	Status   enums.EarningsEntryStatus `gorm:"column:status;type:text;not null;default:'paid'"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the historical table name.
func (EarningsEntry) TableName() string {
	return "earnings_ledger"
}
