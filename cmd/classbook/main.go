package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapthttp "classbook/internal/adapter/http"
	"classbook/internal/adapter/memory"
	"classbook/internal/adapter/postgres"
	"classbook/internal/adapter/rabbitmq"
	"classbook/internal/adapter/stripe"
	"classbook/internal/app"
	"classbook/internal/config"
	"classbook/internal/domain"
	"classbook/internal/metrics"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("classbook stopped", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Development() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Register()

	var (
		store domain.Store
		ready func(ctx context.Context) error
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(cfg.DatabaseURL, postgres.PoolConfig{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
		})
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		store, ready = db, db.Ping
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory store")
		store = memory.New()
	}

	var publisher domain.EventPublisher = rabbitmq.NoopPublisher{Log: logger}
	if cfg.RabbitMQURL != "" {
		producer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL, cfg.EventsExchange, logger)
		if err != nil {
			logger.Warn("rabbitmq unavailable, events disabled", zap.Error(err))
		} else {
			defer producer.Close()
			publisher = producer
		}
	}

	ledger := app.NewLedger(logger)
	svc := adapthttp.Services{
		Auth:     app.NewAuthService(store, cfg.JWTSecret, cfg.JWTTTL),
		Accounts: app.NewAccountService(store),
		Bookings: app.NewBookingService(store, ledger, publisher, logger),
		Classes:  app.NewClassService(store, logger),
	}

	if cfg.PaymentsEnabled() {
		provider := stripe.New(stripe.Config{
			SecretKey:     cfg.StripeSecretKey,
			WebhookSecret: cfg.StripeWebhookSecret,
			APIURL:        cfg.StripeAPIURL,
		})
		svc.Payments = app.NewPaymentService(store, provider, ledger, publisher, logger, cfg.Currency)

		scheduler := app.NewScheduler(svc.Payments, app.SweepConfig{
			Schedule: cfg.SweepSchedule,
			MinAge:   cfg.SweepMinAge,
			Batch:    cfg.SweepBatch,
			Timeout:  time.Minute,
		}, logger)
		if err := scheduler.Start(); err != nil {
			return err
		}
		defer func() { <-scheduler.Stop().Done() }()
	} else {
		logger.Warn("stripe credentials not set, payments disabled")
	}

	opts := adapthttp.Options{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		TokenTTL:           cfg.JWTTTL,
		Ready:              ready,
	}
	if cfg.SSOEnabled() {
		oidcCfg, err := adapthttp.NewOIDCConfig(ctx, cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret, cfg.OIDCRedirectURL)
		if err != nil {
			logger.Warn("oidc discovery failed, sso disabled", zap.Error(err))
		} else {
			opts.OIDC = oidcCfg
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           adapthttp.New(svc, logger, opts).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
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

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
