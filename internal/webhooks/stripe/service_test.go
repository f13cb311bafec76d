package stripewebhook

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/beezio/beezio-backend/internal/checkout"
	"github.com/beezio/beezio-backend/internal/ledger"
	"github.com/beezio/beezio-backend/internal/orders"
	"github.com/beezio/beezio-backend/pkg/db/models"
	"github.com/beezio/beezio-backend/pkg/enums"
	"github.com/beezio/beezio-backend/pkg/logger"
	"github.com/beezio/beezio-backend/pkg/types"
)

// setupTestDB runs against in-memory sqlite with the same uniqueness
// constraints the production schema carries, so replay behavior is exercised
// against real constraint violations.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS checkout_intents (
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL,
  buyer_id TEXT,
  affiliate_id TEXT,
  referrer_id TEXT,
  is_fundraiser INTEGER NOT NULL DEFAULT 0,
  currency TEXT NOT NULL DEFAULT 'USD',
  items_subtotal REAL NOT NULL DEFAULT 0,
  shipping_amount REAL NOT NULL DEFAULT 0,
  tax_amount REAL NOT NULL DEFAULT 0,
  affiliate_fee_cents INTEGER NOT NULL DEFAULT 0,
  beezio_fee_cents INTEGER NOT NULL DEFAULT 0,
  ref_or_fundraiser_fee_cents INTEGER NOT NULL DEFAULT 0,
  processing_fee_cents INTEGER NOT NULL DEFAULT 0,
  split_json TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  stripe_session_id TEXT,
  stripe_payment_intent_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  checkout_intent_id TEXT NOT NULL,
  seller_id TEXT NOT NULL,
  buyer_id TEXT,
  currency TEXT NOT NULL DEFAULT 'USD',
  items_subtotal REAL NOT NULL DEFAULT 0,
  shipping_amount REAL NOT NULL DEFAULT 0,
  tax_amount REAL NOT NULL DEFAULT 0,
  total_amount REAL NOT NULL DEFAULT 0,
  affiliate_fee_amount REAL NOT NULL DEFAULT 0,
  beezio_fee_amount REAL NOT NULL DEFAULT 0,
  ref_or_fundraiser_fee_amount REAL NOT NULL DEFAULT 0,
  processing_fee_amount REAL NOT NULL DEFAULT 0,
  stripe_session_id TEXT,
  stripe_payment_intent_id TEXT,
  status TEXT NOT NULL DEFAULT 'processing',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  fulfillment_status TEXT NOT NULL DEFAULT 'processing',
  tracking_number TEXT,
  tracking_url TEXT,
  billing_email TEXT,
  billing_name TEXT,
  billing_address TEXT,
  billing_city TEXT,
  billing_state TEXT,
  billing_zip TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT uq_orders_checkout_intent UNIQUE (checkout_intent_id)
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  seller_id TEXT NOT NULL,
  affiliate_id TEXT,
  variant_id TEXT,
  quantity INTEGER NOT NULL,
  unit_price REAL NOT NULL,
  total_price REAL NOT NULL,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS earnings_ledger (
  id TEXT PRIMARY KEY,
  type TEXT NOT NULL,
  checkout_intent_id TEXT NOT NULL,
  order_id TEXT,
  seller_id TEXT NOT NULL,
  affiliate_id TEXT,
  referrer_id TEXT,
  amount REAL NOT NULL,
  currency TEXT NOT NULL DEFAULT 'USD',
  status TEXT NOT NULL DEFAULT 'paid',
  created_at DATETIME,
  CONSTRAINT uq_earnings_intent_type UNIQUE (checkout_intent_id, type)
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	return gdb
}

type fixture struct {
	db      *gorm.DB
	svc     *Service
	intents checkout.Repository
	intent  *models.CheckoutIntent
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gdb := setupTestDB(t)
	logg := logger.New(logger.Options{ServiceName: "test"})

	intentRepo := checkout.NewRepository(gdb)
	orderSvc, err := orders.NewService(orders.ServiceParams{Repo: orders.NewRepository(gdb), Logger: logg})
	require.NoError(t, err)
	ledgerSvc, err := ledger.NewService(ledger.ServiceParams{Repo: ledger.NewRepository(gdb), Logger: logg})
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{
		IntentRepo: intentRepo,
		Orders:     orderSvc,
		Ledger:     ledgerSvc,
		Logger:     logg,
	})
	require.NoError(t, err)

	affiliate := uuid.New()
	intent := &models.CheckoutIntent{
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
				{ProductID: uuid.NewString(), Qty: 1, UnitPrice: 60},
				{ProductID: uuid.NewString(), Qty: 2, UnitPrice: 20},
			}},
			BreakdownCents: types.BreakdownCents{
				ItemsSubtotalCents: 10000,
				AffiliateFeeCents:  1000,
				BeezioFeeCents:     1500,
				TaxCents:           500,
				ShippingCents:      1000,
			},
		},
		Status: enums.CheckoutIntentStatusPending,
	}
	require.NoError(t, intentRepo.Create(context.Background(), intent))

	return &fixture{db: gdb, svc: svc, intents: intentRepo, intent: intent}
}

func sessionCompletedEvent(t *testing.T, intentID uuid.UUID, sessionID, paymentIntentID string) *stripe.Event {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"id":             sessionID,
		"payment_intent": paymentIntentID,
		"metadata":       map[string]string{"checkout_intent_id": intentID.String()},
		"customer_details": map[string]any{
			"email": "buyer@example.com",
			"name":  "Test Buyer",
		},
	})
	require.NoError(t, err)
	return &stripe.Event{
		Type: stripe.EventTypeCheckoutSessionCompleted,
		Data: &stripe.EventData{Raw: raw},
	}
}

func paymentIntentEvent(t *testing.T, paymentIntentID string, succeeded bool, metadata map[string]string) *stripe.Event {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"id":       paymentIntentID,
		"metadata": metadata,
	})
	require.NoError(t, err)
	eventType := stripe.EventTypePaymentIntentSucceeded
	if !succeeded {
		eventType = stripe.EventTypePaymentIntentPaymentFailed
	}
	return &stripe.Event{Type: eventType, Data: &stripe.EventData{Raw: raw}}
}

func (f *fixture) countOrders(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.Order{}).Where("checkout_intent_id = ?", f.intent.ID).Count(&n).Error)
	return n
}

func (f *fixture) countLedger(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.EarningsEntry{}).Where("checkout_intent_id = ?", f.intent.ID).Count(&n).Error)
	return n
}

func TestSessionCompletedReplayIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	event := sessionCompletedEvent(t, f.intent.ID, "cs_1", "pi_1")
	require.NoError(t, f.svc.HandleEvent(ctx, event))
	require.NoError(t, f.svc.HandleEvent(ctx, event))

	require.EqualValues(t, 1, f.countOrders(t))

	var items int64
	require.NoError(t, f.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.checkout_intent_id = ?", f.intent.ID).
		Count(&items).Error)
	require.EqualValues(t, 2, items, "replay must not duplicate order items")

	stored, err := f.intents.FindByID(ctx, f.intent.ID)
	require.NoError(t, err)
	require.Equal(t, enums.CheckoutIntentStatusCompleted, stored.Status)
	require.NotNil(t, stored.StripePaymentIntentID)
	require.Equal(t, "pi_1", *stored.StripePaymentIntentID)

	var order models.Order
	require.NoError(t, f.db.Where("checkout_intent_id = ?", f.intent.ID).First(&order).Error)
	require.Equal(t, enums.PaymentStatusPending, order.PaymentStatus, "session completion alone must not mark the order paid")
	require.Equal(t, enums.OrderStatusProcessing, order.Status)
	require.Equal(t, 140.0, order.TotalAmount)
}

func TestPaymentSucceededWritesLedgerExactlyOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.HandleEvent(ctx, sessionCompletedEvent(t, f.intent.ID, "cs_1", "pi_1")))

	paid := paymentIntentEvent(t, "pi_1", true, nil)
	require.NoError(t, f.svc.HandleEvent(ctx, paid))
	require.NoError(t, f.svc.HandleEvent(ctx, paid))

	// affiliate + tax, never doubled
	require.EqualValues(t, 2, f.countLedger(t))

	var entries []models.EarningsEntry
	require.NoError(t, f.db.Where("checkout_intent_id = ?", f.intent.ID).Order("type").Find(&entries).Error)
	require.Equal(t, enums.EarningsEntryTypeAffiliate, entries[0].Type)
	require.Equal(t, 10.0, entries[0].Amount)
	require.Equal(t, enums.EarningsEntryTypeTax, entries[1].Type)
	require.Equal(t, 5.0, entries[1].Amount)

	var order models.Order
	require.NoError(t, f.db.Where("checkout_intent_id = ?", f.intent.ID).First(&order).Error)
	require.Equal(t, enums.PaymentStatusPaid, order.PaymentStatus)
	require.Equal(t, enums.OrderStatusCompleted, order.Status)
	require.NotNil(t, entries[0].OrderID)
	require.Equal(t, order.ID, *entries[0].OrderID)
}

func TestPaymentFailedDoesNotWriteLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.HandleEvent(ctx, sessionCompletedEvent(t, f.intent.ID, "cs_1", "pi_1")))
	require.NoError(t, f.svc.HandleEvent(ctx, paymentIntentEvent(t, "pi_1", false, nil)))

	require.EqualValues(t, 0, f.countLedger(t))

	var order models.Order
	require.NoError(t, f.db.Where("checkout_intent_id = ?", f.intent.ID).First(&order).Error)
	require.Equal(t, enums.PaymentStatusFailed, order.PaymentStatus)
	require.Equal(t, enums.OrderStatusFailed, order.Status)
}

func TestPaymentArrivingBeforeSessionStillConverges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// payment confirmation races ahead; the intent is found via the
	// metadata the checkout flow stamped onto the payment intent
	metadata := map[string]string{"checkout_intent_id": f.intent.ID.String()}
	require.NoError(t, f.svc.HandleEvent(ctx, paymentIntentEvent(t, "pi_1", true, metadata)))

	require.EqualValues(t, 0, f.countOrders(t))
	require.EqualValues(t, 2, f.countLedger(t), "ledger keyed by intent does not wait for the order row")

	require.NoError(t, f.svc.HandleEvent(ctx, sessionCompletedEvent(t, f.intent.ID, "cs_1", "pi_1")))
	require.EqualValues(t, 1, f.countOrders(t))

	// replaying the payment confirmation after the order exists must not
	// double-write the ledger
	require.NoError(t, f.svc.HandleEvent(ctx, paymentIntentEvent(t, "pi_1", true, metadata)))
	require.EqualValues(t, 2, f.countLedger(t))
}

func TestSessionCompletedUnknownIntent(t *testing.T) {
	f := newFixture(t)

	event := sessionCompletedEvent(t, uuid.New(), "cs_x", "pi_x")
	err := f.svc.HandleEvent(context.Background(), event)
	require.Error(t, err, "a webhook for unknown state must not be silently acknowledged")
}

func TestSessionCompletedMissingMetadata(t *testing.T) {
	f := newFixture(t)

	raw, err := json.Marshal(map[string]any{"id": "cs_1"})
	require.NoError(t, err)
	event := &stripe.Event{Type: stripe.EventTypeCheckoutSessionCompleted, Data: &stripe.EventData{Raw: raw}}
	require.Error(t, f.svc.HandleEvent(context.Background(), event))
}

func TestUnknownEventTypeAcknowledged(t *testing.T) {
	f := newFixture(t)

	event := &stripe.Event{Type: "charge.refunded", Data: &stripe.EventData{Raw: []byte(`{}`)}}
	require.NoError(t, f.svc.HandleEvent(context.Background(), event))
}
