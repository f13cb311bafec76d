package models

import (
	"time"

	"github.com/google/uuid"
)

// SupplierOrder links a marketplace order to its dropshipping counterpart so
// supplier status/tracking events can be mirrored back.
type SupplierOrder struct {
	ID                  uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID             uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	SupplierOrderNumber string     `gorm:"column:supplier_order_number;not null;uniqueIndex"`
	SupplierOrderID     *string    `gorm:"column:supplier_order_id"`
	SupplierStatus      string     `gorm:"column:supplier_status;not null;default:''"`
	TrackingNumber      *string    `gorm:"column:tracking_number"`
	LogisticName        *string    `gorm:"column:logistic_name"`
	TrackingURL         *string    `gorm:"column:tracking_url"`
	FulfilledAt         *time.Time `gorm:"column:fulfilled_at"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
