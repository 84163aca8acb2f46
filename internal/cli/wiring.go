package cli

import (
	"context"
	"io"

	"financas/internal/amqp"
	"financas/internal/archive"
	"financas/internal/config"
	applog "financas/internal/log"
	"financas/internal/services"
)

// ConnectPublisher returns the AMQP client as an event publisher, or nil when
// AMQP is not configured or unreachable. Mutations then skip their events.
func ConnectPublisher(ctx context.Context, logger *applog.Logger, cfg *config.Config) (services.EventPublisher, io.Closer) {
	if cfg.AMQPURL == "" {
		logger.InfoContext(ctx, "AMQP disabled, transaction events will not be published")
		return nil, nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.WarnContext(ctx, "AMQP unavailable, transaction events will not be published", "error", err)
		return nil, nil
	}
	logger.InfoContext(ctx, "AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client, client
}

// OpenArchiver returns the GCS archiver, or nil when no bucket is configured.
// A bucket that cannot be opened is fatal.
func OpenArchiver(ctx context.Context, logger *applog.Logger, cfg *config.Config) (services.Archiver, io.Closer) {
	if cfg.ArchiveBucket == "" {
		return nil, nil
	}
	a, err := archive.NewGCSArchiver(ctx, cfg.ArchiveBucket)
	Must(logger, "Failed to open archive bucket", err, "bucket", cfg.ArchiveBucket)
	logger.InfoContext(ctx, "Upload archive enabled", "bucket", cfg.ArchiveBucket)
	return a, a
}

// CloseAll closes every non-nil closer and logs failures.
func CloseAll(ctx context.Context, logger *applog.Logger, closers ...io.Closer) {
	for _, c := range closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			logger.WarnContext(ctx, "Close failed", "error", err)
		}
	}
}
