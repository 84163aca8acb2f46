// Package store declares the persistence ports. Every operation is scoped to
// an owner; records of other owners behave as if they did not exist.
package store

import (
	"context"

	"financas/internal/core"
)

type (
	// TransactionFilter narrows a transaction listing. The zero value lists everything.
	TransactionFilter struct {
		Period string // "YYYY-MM"
	}

	TransactionStore interface {
		// ListTransactions returns the owner's transactions, newest date first.
		ListTransactions(ctx context.Context, ownerID string, f TransactionFilter) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, ownerID, id string) (core.Transaction, error)
		// CreateTransaction assigns the identifier and both timestamps.
		CreateTransaction(ctx context.Context, t core.Transaction) (string, error)
		// UpdateTransaction rewrites the record matching t.ID and t.OwnerID
		// and refreshes its update timestamp.
		UpdateTransaction(ctx context.Context, t core.Transaction) error
		DeleteTransaction(ctx context.Context, ownerID, id string) error
	}

	RecurringStore interface {
		// ListRecurring returns the owner's recurring expenses, earliest due date first.
		ListRecurring(ctx context.Context, ownerID string) ([]core.RecurringExpense, error)
		GetRecurring(ctx context.Context, ownerID, id string) (core.RecurringExpense, error)
		CreateRecurring(ctx context.Context, r core.RecurringExpense) (string, error)
		UpdateRecurringStatus(ctx context.Context, ownerID, id string, status core.RecurringStatus) error
		DeleteRecurring(ctx context.Context, ownerID, id string) error
	}

	CardStore interface {
		// ListCards returns the owner's cards ordered by name.
		ListCards(ctx context.Context, ownerID string) ([]core.CreditCard, error)
		GetCard(ctx context.Context, ownerID, id string) (core.CreditCard, error)
		CreateCard(ctx context.Context, c core.CreditCard) (string, error)
		UpdateCard(ctx context.Context, c core.CreditCard) error
		DeleteCard(ctx context.Context, ownerID, id string) error
	}

	ProfileStore interface {
		// GetProfile returns core.ErrNotFound for an unknown uid.
		GetProfile(ctx context.Context, uid string) (core.Profile, error)
		UpsertProfile(ctx context.Context, p core.Profile) error
	}

	// Store is everything a backend provides.
	Store interface {
		TransactionStore
		RecurringStore
		CardStore
		ProfileStore
		Ping(ctx context.Context) error
		Close() error
	}
)
