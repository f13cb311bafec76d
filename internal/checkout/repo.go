package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/beezio/beezio-backend/pkg/db/models"
	"github.com/beezio/beezio-backend/pkg/enums"
)

// Repository manages persistence for checkout intents.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, intent *models.CheckoutIntent) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CheckoutIntent, error)
	FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.CheckoutIntent, error)
	SetStripeSessionID(ctx context.Context, id uuid.UUID, sessionID string) error
	MarkCompleted(ctx context.Context, id uuid.UUID, sessionID, paymentIntentID *string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a checkout-intent repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, intent *models.CheckoutIntent) error {
	if intent.ID == uuid.Nil {
		intent.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(intent).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CheckoutIntent, error) {
	var intent models.CheckoutIntent
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&intent).Error
	if err != nil {
		return nil, err
	}
	return &intent, nil
}

func (r *repository) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.CheckoutIntent, error) {
	var intent models.CheckoutIntent
	err := r.db.WithContext(ctx).
		Where("stripe_payment_intent_id = ?", paymentIntentID).
		First(&intent).Error
	if err != nil {
		return nil, err
	}
	return &intent, nil
}

func (r *repository) SetStripeSessionID(ctx context.Context, id uuid.UUID, sessionID string) error {
	return r.db.WithContext(ctx).
		Model(&models.CheckoutIntent{}).
		Where("id = ?", id).
		Update("stripe_session_id", sessionID).Error
}

// MarkCompleted flips the intent to completed and records the Stripe
// identifiers. Safe to repeat: an already-completed intent is rewritten with
// the same values.
func (r *repository) MarkCompleted(ctx context.Context, id uuid.UUID, sessionID, paymentIntentID *string) error {
	updates := map[string]any{
		"status": enums.CheckoutIntentStatusCompleted,
	}
	if sessionID != nil {
		updates["stripe_session_id"] = *sessionID
	}
	if paymentIntentID != nil {
		updates["stripe_payment_intent_id"] = *paymentIntentID
	}
	return r.db.WithContext(ctx).
		Model(&models.CheckoutIntent{}).
		Where("id = ?", id).
		Updates(updates).Error
}
