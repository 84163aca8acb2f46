// Package worker holds the consumers of the transaction event queue.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"financas/internal/amqp"
	"financas/internal/core"
	applog "financas/internal/log"
	"financas/internal/sheets"
	"financas/internal/store"
)

// SyncWorker mirrors transactions into the spreadsheet export.
type SyncWorker struct {
	store  store.TransactionStore
	sheets sheets.TransactionWriter
}

func NewSyncWorker(s store.TransactionStore, w sheets.TransactionWriter) *SyncWorker {
	return &SyncWorker{store: s, sheets: w}
}

// HandleEvent processes one event. A returned error makes the consumer
// requeue the message; everything else is acknowledged.
func (w *SyncWorker) HandleEvent(ctx context.Context, e *amqp.TransactionEvent) error {
	switch e.Action {
	case amqp.ActionCreated, amqp.ActionUpdated:
		return w.syncTransaction(ctx, e)
	case amqp.ActionDeleted:
		// rows already exported are left in place
		logger().InfoContext(ctx, "Transaction deleted, export left unchanged",
			"id", e.ID,
			"owner_id", e.OwnerID)
		return nil
	case amqp.ActionImportCompleted:
		logger().InfoContext(ctx, "Import completed",
			"owner_id", e.OwnerID,
			"imported", e.Imported)
		return nil
	default:
		logger().WarnContext(ctx, "Ignoring unknown event", "action", e.Action)
		return nil
	}
}

func (w *SyncWorker) syncTransaction(ctx context.Context, e *amqp.TransactionEvent) error {
	logger().InfoContext(ctx, "Processing transaction event", "id", e.ID, "action", e.Action)

	t, err := w.store.GetTransaction(ctx, e.OwnerID, e.ID)
	if errors.Is(err, core.ErrNotFound) {
		// deleted before the event was consumed
		logger().WarnContext(ctx, "Transaction no longer exists, skipping", "id", e.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	ref, err := w.sheets.Append(ctx, t)
	if err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}

	logger().InfoContext(ctx, "Successfully synced transaction",
		applog.FieldOperation, applog.OpSync,
		"id", t.ID,
		"sheets_ref", ref,
		"period", t.Period(),
		"amount_cents", t.Amount.Cents)
	return nil
}

func logger() *slog.Logger {
	return slog.With(applog.FieldComponent, applog.ComponentWorker)
}
