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

	"github.com/amirdashti/darchin-backend/api/routes"
	addresssvc "github.com/amirdashti/darchin-backend/internal/address"
	authsvc "github.com/amirdashti/darchin-backend/internal/auth"
	cartsvc "github.com/amirdashti/darchin-backend/internal/cart"
	ordersvc "github.com/amirdashti/darchin-backend/internal/orders"
	paymentsvc "github.com/amirdashti/darchin-backend/internal/payment"
	productsvc "github.com/amirdashti/darchin-backend/internal/products"
	receiptsvc "github.com/amirdashti/darchin-backend/internal/receipts"
	shippingsvc "github.com/amirdashti/darchin-backend/internal/shipping"
	"github.com/amirdashti/darchin-backend/pkg/config"
	"github.com/amirdashti/darchin-backend/pkg/db"
	"github.com/amirdashti/darchin-backend/pkg/env"
	"github.com/amirdashti/darchin-backend/pkg/logger"
	"github.com/amirdashti/darchin-backend/pkg/metrics"
	"github.com/amirdashti/darchin-backend/pkg/migrate"
	"github.com/amirdashti/darchin-backend/pkg/printer"
	"github.com/amirdashti/darchin-backend/pkg/redis"
	"github.com/amirdashti/darchin-backend/pkg/sms"
	"github.com/amirdashti/darchin-backend/pkg/snapp"
	"github.com/amirdashti/darchin-backend/pkg/types"
	"github.com/amirdashti/darchin-backend/pkg/zarinpal"
)

const shutdownTimeout = 15 * time.Second

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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	zarinpalClient, err := zarinpal.NewClient(cfg.Zarinpal.MerchantID, zarinpal.WithBaseURL(cfg.Zarinpal.BaseURL))
	if err != nil {
		logg.Error(context.Background(), "failed to create zarinpal client", err)
		os.Exit(1)
	}
	snappClient, err := snapp.NewClient(cfg.Snapp.Token, snapp.WithBaseURL(cfg.Snapp.BaseURL))
	if err != nil {
		logg.Error(context.Background(), "failed to create snapp client", err)
		os.Exit(1)
	}
	smsClient, err := sms.NewClient(cfg.SMS.APIKey, cfg.SMS.Sender, sms.WithBaseURL(cfg.SMS.BaseURL))
	if err != nil {
		logg.Error(context.Background(), "failed to create sms client", err)
		os.Exit(1)
	}
	printerClient, err := printer.NewClient(cfg.Printer.Address, cfg.Printer.DialTimeout)
	if err != nil {
		logg.Error(context.Background(), "failed to create printer client", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)
	receiptMetrics := metrics.NewReceiptMetrics(prometheus.DefaultRegisterer)

	catalogRepo := productsvc.NewRepository(dbClient.DB())
	catalogService, err := productsvc.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	usersRepo := authsvc.NewRepository(dbClient.DB())
	authService, err := authsvc.NewService(usersRepo, redisClient, smsClient, logg, cfg.JWT, cfg.Password, cfg.OTP)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	addressService, err := addresssvc.NewService(addresssvc.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create address service", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(cartsvc.NewRepository(dbClient.DB()), redisClient, catalogRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	shippingService, err := shippingsvc.NewService(snappClient, types.Point{
		Lat: cfg.Restaurant.Lat,
		Lng: cfg.Restaurant.Lng,
	}, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create shipping service", err)
		os.Exit(1)
	}

	archive, err := receiptsvc.NewArchive(cfg.Printer.ReceiptsDir)
	if err != nil {
		logg.Error(context.Background(), "failed to open receipts archive", err)
		os.Exit(1)
	}
	receiptsService, err := receiptsvc.NewService(archive, printerClient, logg, receiptMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create receipts service", err)
		os.Exit(1)
	}

	ordersRepo := ordersvc.NewRepository(dbClient.DB())
	ordersService, err := ordersvc.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	paymentService, err := paymentsvc.NewService(paymentsvc.Deps{
		Repo:         paymentsvc.NewRepository(dbClient.DB()),
		Orders:       ordersRepo,
		Carts:        cartService,
		Addresses:    addressService,
		Shipping:     shippingService,
		Gateway:      zarinpalClient,
		Receipts:     receiptsService,
		Users:        usersRepo,
		Tx:           dbClient,
		Logger:       logg,
		CallbackBase: cfg.App.BaseURL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	handler := routes.NewRouter(routes.Deps{
		Config:      cfg,
		Logger:      logg,
		DB:          dbClient,
		Redis:       redisClient,
		HTTPMetrics: httpMetrics,
		Auth:        authService,
		Address:     addressService,
		Cart:        cartService,
		Catalog:     catalogService,
		Orders:      ordersService,
		Payment:     paymentService,
		Receipts:    receiptsService,
	})

	addr := ":" + env.Get("PORT", cfg.App.Port)

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
