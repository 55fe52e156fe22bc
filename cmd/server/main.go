package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shilajit-be/internal/ai"
	"shilajit-be/internal/auth"
	"shilajit-be/internal/config"
	"shilajit-be/internal/db"
	"shilajit-be/internal/handler"
	"shilajit-be/internal/logger"
	"shilajit-be/internal/middleware"
	"shilajit-be/internal/notification"
	"shilajit-be/internal/order"
	"shilajit-be/internal/payment"
	"shilajit-be/internal/product"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	initDBFunc      = db.InitDB
	startServerFunc = listenAndServe
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv, "api")
	defer logger.Sync()

	decimal.MarshalJSONWithoutQuotes = true

	database := initDBFunc(cfg)
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewRateLimiter(handler.StrictPaths...)
	go limiter.Cleanup(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           newServer(ctx, cfg, database, limiter),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.L().Info("http server starting",
		zap.String("addr", srv.Addr),
		zap.String("env", cfg.AppEnv),
	)
	return startServerFunc(ctx, srv)
}

// newServer wires every store and service onto the HTTP router.
func newServer(ctx context.Context, cfg *config.Config, database *sql.DB, limiter *middleware.RateLimiter) http.Handler {
	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	outbox := notification.NewRepository(database)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, productRepo, outbox, order.Pricing{
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatFee:               cfg.ShippingFlatFee,
	})

	gateway := payment.NewEasypaisaGateway(cfg.WalletPaymentBaseURL, cfg.WalletQRCodeBaseURL, cfg.WalletCallbackToken)
	paymentSvc := payment.NewService(orderRepo, gateway, payment.NewRepository(database), outbox, payment.BankAccount(cfg.Bank))

	assistant := ai.NewService(ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel), productSvc, !cfg.IsProduction())

	authSvc := auth.NewService(auth.Admin{
		Email:        cfg.AdminEmail,
		PasswordHash: cfg.AdminPasswordHash,
		Secret:       cfg.JWTSecret,
	})

	return handler.NewRouter(handler.Deps{
		Orders:     orderSvc,
		Payments:   paymentSvc,
		Products:   productSvc,
		Assistant:  assistant,
		Auth:       authSvc,
		Gateway:    gateway,
		JWTSecret:  cfg.JWTSecret,
		Production: cfg.IsProduction(),
		Limiter:    limiter,
	})
}

// listenAndServe serves until ctx is cancelled, then drains in-flight requests.
func listenAndServe(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
