// Package services orchestrates the stores, the event channel and the
// dashboard cache on behalf of the HTTP API and the CLIs.
package services

import (
	"context"
	"log/slog"

	"financas/internal/amqp"
)

// EventPublisher is the outbound side of the event channel. *amqp.Client
// implements it.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, event *amqp.TransactionEvent) error
}

// Invalidator drops whatever is cached for an owner.
type Invalidator interface {
	Invalidate(ownerID string)
}

// publishEvent never fails the caller: the record is already stored.
func publishEvent(ctx context.Context, pub EventPublisher, event *amqp.TransactionEvent) {
	if pub == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping event", "action", event.Action)
		return
	}
	if err := pub.PublishTransactionEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"action", event.Action,
			"id", event.ID,
			"owner_id", event.OwnerID,
			"error", err)
	}
}

func invalidate(inv Invalidator, ownerID string) {
	if inv != nil {
		inv.Invalidate(ownerID)
	}
}
