package cj

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/beezio/beezio-backend/pkg/db/models"
	"github.com/beezio/beezio-backend/pkg/types"
)

// Repository covers the supplier-side tables plus the order and product
// columns supplier events write back to. Finders return raw driver errors;
// callers decide whether a miss is fatal.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateSupplierOrder(ctx context.Context, order *models.SupplierOrder) error
	FindSupplierOrderByNumber(ctx context.Context, number string) (*models.SupplierOrder, error)
	UpdateSupplierOrder(ctx context.Context, id uuid.UUID, fields map[string]any) error

	UpdateOrderFulfillment(ctx context.Context, orderID uuid.UUID, fields map[string]any) error

	FindMapping(ctx context.Context, supplierProductID string, supplierVariantID *string) (*models.SupplierProductMapping, error)
	ApplyReprice(ctx context.Context, id uuid.UUID, supplierCost float64, breakdown *types.PriceBreakdown, syncedAt time.Time) error

	UpdateProduct(ctx context.Context, productID uuid.UUID, fields map[string]any) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a supplier repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateSupplierOrder(ctx context.Context, order *models.SupplierOrder) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindSupplierOrderByNumber(ctx context.Context, number string) (*models.SupplierOrder, error) {
	var order models.SupplierOrder
	err := r.db.WithContext(ctx).
		Where("supplier_order_number = ?", number).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateSupplierOrder(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.SupplierOrder{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repository) UpdateOrderFulfillment(ctx context.Context, orderID uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(fields).Error
}

func (r *repository) FindMapping(ctx context.Context, supplierProductID string, supplierVariantID *string) (*models.SupplierProductMapping, error) {
	query := r.db.WithContext(ctx).
		Where("supplier_product_id = ?", supplierProductID)
	if supplierVariantID != nil && *supplierVariantID != "" {
		query = query.Where("supplier_variant_id = ?", *supplierVariantID)
	} else {
		query = query.Where("supplier_variant_id IS NULL")
	}

	var mapping models.SupplierProductMapping
	if err := query.First(&mapping).Error; err != nil {
		return nil, err
	}
	return &mapping, nil
}

// ApplyReprice records a supplier cost change on the mapping. A struct
// update keeps the breakdown flowing through the jsonb serializer; Select
// forces the write even when the new cost is zero.
func (r *repository) ApplyReprice(ctx context.Context, id uuid.UUID, supplierCost float64, breakdown *types.PriceBreakdown, syncedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.SupplierProductMapping{}).
		Where("id = ?", id).
		Select("supplier_cost", "price_breakdown", "last_synced_at").
		Updates(&models.SupplierProductMapping{
			SupplierCost:   supplierCost,
			PriceBreakdown: breakdown,
			LastSyncedAt:   &syncedAt,
		}).Error
}

func (r *repository) UpdateProduct(ctx context.Context, productID uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(fields).Error
}
