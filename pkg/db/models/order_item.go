package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem snapshots one cart line item at order-creation time.
type OrderItem struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID  `gorm:"column:order_id;type:uuid;not null"`
	ProductID   uuid.UUID  `gorm:"column:product_id;type:uuid;not null"`
	SellerID    uuid.UUID  `gorm:"column:seller_id;type:uuid;not null"`
	AffiliateID *uuid.UUID `gorm:"column:affiliate_id;type:uuid"`
	VariantID   *string    `gorm:"column:variant_id"`
	Quantity    int        `gorm:"column:quantity;not null"`
	UnitPrice   float64    `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice  float64    `gorm:"column:total_price;type:numeric(12,2);not null"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}
