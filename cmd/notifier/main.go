package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"shilajit-be/internal/config"
	"shilajit-be/internal/db"
	"shilajit-be/internal/logger"
	"shilajit-be/internal/notification"

	"go.uber.org/zap"
)

var (
	initDBFunc    = db.InitDB
	newSenderFunc = notification.NewSMTPSender
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.L().Fatal("notifier stopped", zap.Error(err))
	}
}

func run(ctx context.Context) error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv, "notifier")
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	worker, err := newWorker(cfg, database)
	if err != nil {
		return err
	}

	logger.L().Info("notifier started",
		zap.Duration("interval", cfg.NotifierPollInterval),
		zap.Int("batch_size", cfg.NotifierBatchSize),
	)
	return worker.Run(ctx, cfg.NotifierPollInterval)
}

func newWorker(cfg *config.Config, database *sql.DB) (*notification.Worker, error) {
	renderer, err := notification.NewRenderer(cfg.FrontendURL, cfg.SupportEmail)
	if err != nil {
		return nil, err
	}

	sender, err := newSenderFunc(notification.SMTPConfig(cfg.SMTP))
	if err != nil {
		return nil, err
	}

	return notification.NewWorker(notification.NewRepository(database), renderer, sender, notification.WorkerConfig{
		BatchSize:   cfg.NotifierBatchSize,
		MaxAttempts: cfg.NotifierMaxAttempts,
	}), nil
}
