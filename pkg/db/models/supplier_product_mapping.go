package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/beezio/beezio-backend/pkg/types"
)

// SupplierProductMapping ties a catalog product to the supplier SKU it is
// sourced from, carrying the markup/affiliate settings the repricing webhook
// needs to rebuild the retail price when the supplier cost moves.
type SupplierProductMapping struct {
	ID                uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID         uuid.UUID             `gorm:"column:product_id;type:uuid;not null;index"`
	SupplierProductID string                `gorm:"column:supplier_product_id;not null;uniqueIndex:uq_supplier_product_variant"`
	SupplierVariantID *string               `gorm:"column:supplier_variant_id;uniqueIndex:uq_supplier_product_variant"`
	SupplierCost      float64               `gorm:"column:supplier_cost;type:numeric(12,2);not null;default:0"`
	MarkupPercent     float64               `gorm:"column:markup_percent;type:numeric(6,2);not null;default:0"`
	AffiliatePercent  float64               `gorm:"column:affiliate_percent;type:numeric(6,2);not null;default:0"`
	PriceBreakdown    *types.PriceBreakdown `gorm:"column:price_breakdown;type:jsonb;serializer:json"`
	LastSyncedAt      *time.Time            `gorm:"column:last_synced_at"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
