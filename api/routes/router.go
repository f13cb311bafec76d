package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/beezio/beezio-backend/api/controllers"
	webhookcontrollers "github.com/beezio/beezio-backend/api/controllers/webhooks"
	"github.com/beezio/beezio-backend/api/middleware"
	checkoutsvc "github.com/beezio/beezio-backend/internal/checkout"
	"github.com/beezio/beezio-backend/internal/ledger"
	"github.com/beezio/beezio-backend/internal/orders"
	stripewebhook "github.com/beezio/beezio-backend/internal/webhooks/stripe"
	"github.com/beezio/beezio-backend/pkg/config"
	"github.com/beezio/beezio-backend/pkg/db"
	"github.com/beezio/beezio-backend/pkg/logger"
	"github.com/beezio/beezio-backend/pkg/metrics"
	"github.com/beezio/beezio-backend/pkg/redis"
	"github.com/beezio/beezio-backend/pkg/stripe"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
	ledgerService ledger.Service,
	stripeClient *stripe.Client,
	stripeWebhookService *stripewebhook.Service,
	stripeWebhookGuard *stripewebhook.EventGuard,
	supplierWebhookService webhookcontrollers.SupplierWebhookService,
	webhookMetrics *metrics.WebhookMetrics,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(stripeWebhookService, stripeClient, stripeWebhookGuard, webhookMetrics, logg))
		r.Post("/cj", webhookcontrollers.SupplierWebhook(supplierWebhookService, webhookMetrics, logg))
	})

	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Post("/intents", controllers.CheckoutCreate(checkoutService, logg))
		r.Get("/intents/{intentID}", controllers.CheckoutGet(checkoutService, logg))
		r.Get("/intents/{intentID}/earnings", controllers.IntentEarnings(ledgerService, logg))
	})

	r.Get("/api/v1/orders/{orderID}", controllers.OrderGet(ordersService, logg))
	r.Get("/api/v1/sellers/{sellerID}/orders", controllers.OrdersListBySeller(ordersService, logg))
	r.Get("/api/v1/affiliates/{affiliateID}/earnings", controllers.AffiliateEarnings(ledgerService, logg))
	r.Get("/api/v1/referrers/{referrerID}/earnings", controllers.ReferrerEarnings(ledgerService, logg))

	return r
}
