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

	"github.com/firmarollers/b2b-backend/api/routes"
	"github.com/firmarollers/b2b-backend/internal/catalog"
	customersvc "github.com/firmarollers/b2b-backend/internal/customers"
	emailsvc "github.com/firmarollers/b2b-backend/internal/emails"
	ordersvc "github.com/firmarollers/b2b-backend/internal/orders"
	shippingsvc "github.com/firmarollers/b2b-backend/internal/shipping"
	tariffsvc "github.com/firmarollers/b2b-backend/internal/tariffs"
	"github.com/firmarollers/b2b-backend/pkg/config"
	"github.com/firmarollers/b2b-backend/pkg/db"
	"github.com/firmarollers/b2b-backend/pkg/identity"
	"github.com/firmarollers/b2b-backend/pkg/logger"
	"github.com/firmarollers/b2b-backend/pkg/metrics"
	"github.com/firmarollers/b2b-backend/pkg/migrate"
	"github.com/firmarollers/b2b-backend/pkg/packlink"
	pkgredis "github.com/firmarollers/b2b-backend/pkg/redis"
	"github.com/firmarollers/b2b-backend/pkg/resend"
	"github.com/firmarollers/b2b-backend/pkg/shopify"
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

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	orderMetrics := metrics.NewOrderMetrics(registry)

	shopifyClient, err := shopify.NewClient(cfg.Shopify)
	if err != nil {
		logg.Error(context.Background(), "failed to create shopify client", err)
		os.Exit(1)
	}

	packlinkClient, err := packlink.NewClient(cfg.Packlink)
	if err != nil {
		logg.Error(context.Background(), "failed to create packlink client", err)
		os.Exit(1)
	}

	resendClient, err := resend.NewClient(cfg.Resend)
	if err != nil {
		logg.Error(context.Background(), "failed to create resend client", err)
		os.Exit(1)
	}

	identityClient, err := identity.NewClient(cfg.Identity)
	if err != nil {
		logg.Error(context.Background(), "failed to create identity client", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(shopifyClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	emailsService, err := emailsvc.NewService(
		resendClient,
		emailsvc.NewRepository(dbClient.DB()),
		cfg.Resend,
		orderMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create emails service", err)
		os.Exit(1)
	}

	customersRepo := customersvc.NewRepository(dbClient.DB())
	customersService, err := customersvc.NewService(customersRepo, identityClient, emailsService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create customers service", err)
		os.Exit(1)
	}

	tariffsService, err := tariffsvc.NewService(tariffsvc.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create tariffs service", err)
		os.Exit(1)
	}

	ordersRepo := ordersvc.NewRepository(dbClient.DB())
	ordersService, err := ordersvc.NewService(
		ordersRepo,
		customersRepo,
		dbClient,
		emailsService,
		orderMetrics,
		logg,
		cfg.FeatureFlags.EnforceTarifa,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	orderGateway, err := shippingsvc.NewOrderGateway(ordersService, ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create order gateway", err)
		os.Exit(1)
	}

	shippingService, err := shippingsvc.NewService(packlinkClient, orderGateway, cfg.Warehouse, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create shipping service", err)
		os.Exit(1)
	}

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
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			HTTPMetrics:     httpMetrics,
			MetricsGatherer: registry,
			Catalog:         catalogService,
			Customers:       customersService,
			Tariffs:         tariffsService,
			Orders:          ordersService,
			Shipping:        shippingService,
			Emails:          emailsService,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
