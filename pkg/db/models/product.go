package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the minimal catalog row the supplier webhooks write back to
// (price and stock). The storefront owns the rest of the catalog surface.
type Product struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID      uuid.UUID `gorm:"column:seller_id;type:uuid;not null"`
	Title         string    `gorm:"column:title;not null"`
	Price         float64   `gorm:"column:price;type:numeric(12,2);not null"`
	StockQuantity int       `gorm:"column:stock_quantity;not null;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
