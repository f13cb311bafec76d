package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/beezio/beezio-backend/pkg/db/models"
)

// Repository manages persistence for earnings ledger entries. Create returns
// raw driver errors so the service can classify duplicates and the
// missing-table condition.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entries []models.EarningsEntry) error
	ListByCheckoutIntentID(ctx context.Context, checkoutIntentID uuid.UUID) ([]models.EarningsEntry, error)
	ListByAffiliateID(ctx context.Context, affiliateID uuid.UUID) ([]models.EarningsEntry, error)
	ListByReferrerID(ctx context.Context, referrerID uuid.UUID) ([]models.EarningsEntry, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entries []models.EarningsEntry) error {
	if len(entries) == 0 {
		return nil
	}
	for i := range entries {
		if entries[i].ID == uuid.Nil {
			entries[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *repository) ListByCheckoutIntentID(ctx context.Context, checkoutIntentID uuid.UUID) ([]models.EarningsEntry, error) {
	var entries []models.EarningsEntry
	if err := r.db.WithContext(ctx).
		Where("checkout_intent_id = ?", checkoutIntentID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListByAffiliateID(ctx context.Context, affiliateID uuid.UUID) ([]models.EarningsEntry, error) {
	var entries []models.EarningsEntry
	if err := r.db.WithContext(ctx).
		Where("affiliate_id = ?", affiliateID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListByReferrerID(ctx context.Context, referrerID uuid.UUID) ([]models.EarningsEntry, error) {
	var entries []models.EarningsEntry
	if err := r.db.WithContext(ctx).
		Where("referrer_id = ?", referrerID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
