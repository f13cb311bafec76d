package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/beezio/beezio-backend/pkg/db/models"
	"github.com/beezio/beezio-backend/pkg/enums"
	"github.com/beezio/beezio-backend/pkg/logger"
	"github.com/beezio/beezio-backend/pkg/types"
)

type stubRepo struct {
	created      *models.Order
	createdItems []models.OrderItem
	existing     *models.Order
	createErr    error
	itemsErr     error

	updateCalls  []map[string]any
	updateErrFor func(fields map[string]any) error
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, order *models.Order) error {
	if s.createErr != nil {
		return s.createErr
	}
	order.ID = uuid.New()
	s.created = order
	return nil
}

func (s *stubRepo) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if s.itemsErr != nil {
		return s.itemsErr
	}
	s.createdItems = append(s.createdItems, items...)
	return nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) FindByCheckoutIntentID(ctx context.Context, checkoutIntentID uuid.UUID) (*models.Order, error) {
	if s.existing != nil {
		return s.existing, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) UpdateByPaymentIntentID(ctx context.Context, paymentIntentID string, fields map[string]any) error {
	s.updateCalls = append(s.updateCalls, fields)
	if s.updateErrFor != nil {
		return s.updateErrFor(fields)
	}
	return nil
}

func (s *stubRepo) ListBySellerID(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	return nil, nil
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Logger: logger.New(logger.Options{ServiceName: "test"})})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func testIntent() *models.CheckoutIntent {
	affiliate := uuid.New()
	product := uuid.NewString()
	return &models.CheckoutIntent{
		ID:          uuid.New(),
		SellerID:    uuid.New(),
		AffiliateID: &affiliate,
		Currency:    enums.CurrencyUSD,

		ItemsSubtotal:  100,
		ShippingAmount: 10,
		TaxAmount:      5,

		AffiliateFeeCents: 1000,
		BeezioFeeCents:    1500,

		SplitJSON: &types.SplitJSON{
			Cart: types.SplitCart{LineItems: []types.SplitLineItem{
				{ProductID: product, Qty: 2, UnitPrice: 50},
			}},
			BreakdownCents: types.BreakdownCents{
				ItemsSubtotalCents: 10000,
				AffiliateFeeCents:  1000,
				BeezioFeeCents:     1500,
				TaxCents:           500,
				ShippingCents:      1000,
			},
		},
		Status: enums.CheckoutIntentStatusCompleted,
	}
}

func TestCreateFromIntent(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{}
	svc := newTestService(t, repo)

	intent := testIntent()
	sessionID := "cs_test_1"
	order, err := svc.CreateFromIntent(context.Background(), intent, CreateFromIntentInput{SessionID: &sessionID})
	if err != nil {
		t.Fatalf("CreateFromIntent: %v", err)
	}

	if order.PaymentStatus != enums.PaymentStatusPending {
		t.Fatalf("new order must start with payment_status pending, got %s", order.PaymentStatus)
	}
	if order.Status != enums.OrderStatusProcessing {
		t.Fatalf("new order must start processing, got %s", order.Status)
	}
	// 100 + 10 + 5 + 10 (affiliate) + 15 (platform)
	if order.TotalAmount != 140 {
		t.Fatalf("expected total 140, got %v", order.TotalAmount)
	}
	if len(repo.createdItems) != 1 {
		t.Fatalf("expected 1 order item, got %d", len(repo.createdItems))
	}
	item := repo.createdItems[0]
	if item.Quantity != 2 || item.UnitPrice != 50 || item.TotalPrice != 100 {
		t.Fatalf("unexpected item snapshot: %+v", item)
	}
	if item.AffiliateID == nil || *item.AffiliateID != *intent.AffiliateID {
		t.Fatal("expected affiliate carried onto order item")
	}
}

func TestCreateFromIntentDuplicateIsSuccess(t *testing.T) {
	t.Parallel()

	existing := &models.Order{ID: uuid.New()}
	repo := &stubRepo{
		createErr: errors.New(`duplicate key value violates unique constraint "uq_orders_checkout_intent"`),
		existing:  existing,
	}
	svc := newTestService(t, repo)

	order, err := svc.CreateFromIntent(context.Background(), testIntent(), CreateFromIntentInput{})
	if err != nil {
		t.Fatalf("duplicate insert must be tolerated, got %v", err)
	}
	if order.ID != existing.ID {
		t.Fatal("expected the existing order to be returned")
	}
	if len(repo.createdItems) != 0 {
		t.Fatal("duplicate order must not re-create items")
	}
}

func TestCreateFromIntentGenuineFailure(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{createErr: errors.New("connection refused")}
	svc := newTestService(t, repo)

	if _, err := svc.CreateFromIntent(context.Background(), testIntent(), CreateFromIntentInput{}); err == nil {
		t.Fatal("genuine storage failure must propagate")
	}
}

func TestApplyPaymentOutcomeFullUpdate(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{}
	svc := newTestService(t, repo)

	if err := svc.ApplyPaymentOutcome(context.Background(), "pi_1", true); err != nil {
		t.Fatalf("ApplyPaymentOutcome: %v", err)
	}
	if len(repo.updateCalls) != 1 {
		t.Fatalf("expected a single update, got %d", len(repo.updateCalls))
	}
	fields := repo.updateCalls[0]
	if fields["payment_status"] != enums.PaymentStatusPaid || fields["status"] != enums.OrderStatusCompleted {
		t.Fatalf("unexpected fields %v", fields)
	}
	if _, ok := fields["updated_at"]; !ok {
		t.Fatal("full update must include updated_at")
	}
}

func TestApplyPaymentOutcomeFallbackChain(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{
		updateErrFor: func(fields map[string]any) error {
			if _, ok := fields["updated_at"]; ok {
				return errors.New(`column "updated_at" of relation "orders" does not exist`)
			}
			if _, ok := fields["status"]; ok {
				return errors.New(`column "status" of relation "orders" does not exist`)
			}
			return nil
		},
	}
	svc := newTestService(t, repo)

	if err := svc.ApplyPaymentOutcome(context.Background(), "pi_1", false); err != nil {
		t.Fatalf("fallback chain should succeed, got %v", err)
	}
	if len(repo.updateCalls) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(repo.updateCalls))
	}
	final := repo.updateCalls[2]
	if len(final) != 1 || final["payment_status"] != enums.PaymentStatusFailed {
		t.Fatalf("minimal set must still carry payment_status, got %v", final)
	}
}

func TestApplyPaymentOutcomeGenuineFailure(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{
		updateErrFor: func(fields map[string]any) error {
			return errors.New("deadlock detected")
		},
	}
	svc := newTestService(t, repo)

	if err := svc.ApplyPaymentOutcome(context.Background(), "pi_1", true); err == nil {
		t.Fatal("non-schema errors must propagate")
	}
	if len(repo.updateCalls) != 1 {
		t.Fatalf("genuine failure must not retry, got %d attempts", len(repo.updateCalls))
	}
}
