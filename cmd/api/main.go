package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/beezio/beezio-backend/api/routes"
	"github.com/beezio/beezio-backend/internal/checkout"
	"github.com/beezio/beezio-backend/internal/ledger"
	"github.com/beezio/beezio-backend/internal/orders"
	"github.com/beezio/beezio-backend/internal/suppliers/cj"
	cjwebhook "github.com/beezio/beezio-backend/internal/webhooks/cj"
	stripewebhook "github.com/beezio/beezio-backend/internal/webhooks/stripe"
	"github.com/beezio/beezio-backend/pkg/config"
	"github.com/beezio/beezio-backend/pkg/db"
	"github.com/beezio/beezio-backend/pkg/logger"
	"github.com/beezio/beezio-backend/pkg/metrics"
	"github.com/beezio/beezio-backend/pkg/migrate"
	"github.com/beezio/beezio-backend/pkg/redis"
	"github.com/beezio/beezio-backend/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe client", err)
		os.Exit(1)
	}

	checkoutRepo := checkout.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	ledgerRepo := ledger.NewRepository(dbClient.DB())
	supplierRepo := cj.NewRepository(dbClient.DB())

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Repo:     checkoutRepo,
		Sessions: stripeClient,
		Checkout: cfg.Checkout,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:   ordersRepo,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	ledgerService, err := ledger.NewService(ledger.ServiceParams{
		Repo:   ledgerRepo,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	stripeWebhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		IntentRepo: checkoutRepo,
		Orders:     ordersService,
		Ledger:     ledgerService,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe webhook service", err)
		os.Exit(1)
	}

	stripeWebhookGuard, err := stripewebhook.NewEventGuard(redisClient, cfg.Stripe.EventGuardTTL, "stripe:webhook")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook guard", err)
		os.Exit(1)
	}

	supplierParams := cjwebhook.ServiceParams{
		Repo:   supplierRepo,
		Logger: logg,
	}
	if cfg.Supplier.APIKey != "" {
		supplierClient, err := cj.NewClient(cfg.Supplier, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create supplier client", err)
			os.Exit(1)
		}
		supplierParams.Costs = supplierClient
	}

	supplierWebhookService, err := cjwebhook.NewService(supplierParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create supplier webhook service", err)
		os.Exit(1)
	}

	webhookMetrics := metrics.NewWebhookMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			checkoutService,
			ordersService,
			ledgerService,
			stripeClient,
			stripeWebhookService,
			stripeWebhookGuard,
			supplierWebhookService,
			webhookMetrics,
		),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
