package main

import (
	"context"
	"errors"
	"os"
	"time"

	"financas/internal/amqp"
	"financas/internal/cli"
	"financas/internal/config"
	applog "financas/internal/log"
	gsheet "financas/internal/sheets/google"
	"financas/internal/worker"
)

const (
	shutdownTimeout = 15 * time.Second
	reconnectDelay  = 5 * time.Second
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), applog.ComponentWorker)
	logger.InfoContext(context.Background(), "Starting financas-worker", applog.FieldOperation, applog.OpStartup)

	cfg := config.Load()
	if err := cfg.ValidateWorker(); err != nil {
		logger.ErrorContext(context.Background(), "Configuration validation failed", "error", err)
		os.Exit(1)
	}

	startCtx := context.Background()
	backend := cli.InitStore(startCtx, logger, cfg)

	sheetsClient, err := gsheet.New(startCtx, gsheet.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsFile: cfg.GoogleServiceAccountFile,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
	})
	cli.Must(logger, "Failed to initialize Google Sheets client", err)
	logger.InfoContext(startCtx, "Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	cli.Must(logger, "Failed to initialize AMQP client", err)

	syncWorker := worker.NewSyncWorker(backend.Store, sheetsClient)

	ctx, done := cli.GracefulShutdown(logger, shutdownTimeout, func(ctx context.Context) {
		cli.CloseAll(ctx, logger, amqpClient)
		if err := backend.Cleanup(); err != nil {
			logger.ErrorContext(ctx, "Store cleanup error", "error", err)
		}
	})

	// the consumer returns when the broker drops the channel; start over until shutdown
	for ctx.Err() == nil {
		err := amqpClient.ConsumeTransactionEvents(ctx, syncWorker.HandleEvent)
		if err == nil || errors.Is(err, context.Canceled) {
			break
		}
		logger.ErrorContext(ctx, "Message consumption stopped, reconnecting", "error", err, "delay", reconnectDelay)
		select {
		case <-ctx.Done():
		case <-time.After(reconnectDelay):
		}
	}

	cli.WaitForShutdown(ctx, done)
	logger.InfoContext(ctx, "Worker stopped")
}
