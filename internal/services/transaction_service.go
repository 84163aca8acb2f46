package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"financas/internal/amqp"
	"financas/internal/core"
	"financas/internal/sanitize"
	"financas/internal/store"
)

// PeriodsListed is how many period keys the period picker offers.
const PeriodsListed = 12

// MonthView is one period of an owner's transactions with its totals.
type MonthView struct {
	Period       string
	Transactions []core.Transaction
	TotalIn      core.Money
	TotalOut     core.Money // absolute
	Balance      core.Money
}

type TransactionService struct {
	store       store.TransactionStore
	publisher   EventPublisher
	invalidator Invalidator
	now         func() time.Time
}

// NewTransactionService wires the store with the optional event publisher and
// dashboard invalidator; either may be nil.
func NewTransactionService(s store.TransactionStore, publisher EventPublisher, inv Invalidator) *TransactionService {
	return &TransactionService{
		store:       s,
		publisher:   publisher,
		invalidator: inv,
		now:         time.Now,
	}
}

// Create validates and stores t for its owner. A missing type is inferred
// from the amount sign and the amount is re-signed to the type.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.OwnerID == "" {
		return core.Transaction{}, core.ErrNoOwner
	}
	t = normalizeTransaction(t)
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	id, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	created, err := s.store.GetTransaction(ctx, t.OwnerID, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("reload transaction: %w", err)
	}

	publishEvent(ctx, s.publisher, amqp.NewTransactionEvent(amqp.ActionCreated, t.OwnerID, id))
	invalidate(s.invalidator, t.OwnerID)
	return created, nil
}

// Update applies patch to the owner's transaction. The period follows the date.
func (s *TransactionService) Update(ctx context.Context, ownerID, id string, patch core.TransactionPatch) (core.Transaction, error) {
	if ownerID == "" {
		return core.Transaction{}, core.ErrNoOwner
	}
	current, err := s.store.GetTransaction(ctx, ownerID, id)
	if err != nil {
		return core.Transaction{}, err
	}
	if patch.Empty() {
		return current, nil
	}

	next := normalizeTransaction(patch.Apply(current))
	if err := next.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.UpdateTransaction(ctx, next); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	updated, err := s.store.GetTransaction(ctx, ownerID, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("reload transaction: %w", err)
	}

	publishEvent(ctx, s.publisher, amqp.NewTransactionEvent(amqp.ActionUpdated, ownerID, id))
	invalidate(s.invalidator, ownerID)
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return core.ErrNoOwner
	}
	if err := s.store.DeleteTransaction(ctx, ownerID, id); err != nil {
		return err
	}
	publishEvent(ctx, s.publisher, amqp.NewTransactionEvent(amqp.ActionDeleted, ownerID, id))
	invalidate(s.invalidator, ownerID)
	return nil
}

// List returns every transaction of the owner, newest first.
func (s *TransactionService) List(ctx context.Context, ownerID string) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx, ownerID, store.TransactionFilter{})
}

// MonthView lists one period with its totals. A non-empty query keeps the
// transactions whose description or category contains it, ignoring case;
// totals cover the filtered list.
func (s *TransactionService) MonthView(ctx context.Context, ownerID, period, query string) (MonthView, error) {
	if ownerID == "" {
		return MonthView{}, core.ErrNoOwner
	}
	if period == "" {
		period = core.PeriodKey(s.now())
	}
	if _, err := core.ParsePeriod(period); err != nil {
		return MonthView{}, err
	}

	txs, err := s.store.ListTransactions(ctx, ownerID, store.TransactionFilter{Period: period})
	if err != nil {
		return MonthView{}, err
	}

	view := MonthView{Period: period, Transactions: make([]core.Transaction, 0, len(txs))}
	q := strings.ToLower(strings.TrimSpace(query))
	for _, t := range txs {
		if q != "" && !strings.Contains(strings.ToLower(t.Description), q) && !strings.Contains(strings.ToLower(t.Category), q) {
			continue
		}
		view.Transactions = append(view.Transactions, t)
		if t.Type == core.Income {
			view.TotalIn = view.TotalIn.Add(t.Amount.Abs())
		} else {
			view.TotalOut = view.TotalOut.Add(t.Amount.Abs())
		}
	}
	view.Balance = view.TotalIn.Sub(view.TotalOut)
	return view, nil
}

// Periods lists the last twelve period keys ending at the current month.
func (s *TransactionService) Periods() []string {
	return core.RecentPeriods(s.now(), PeriodsListed)
}

func normalizeTransaction(t core.Transaction) core.Transaction {
	t.Description = sanitize.Text(t.Description)
	t.Category = sanitize.Text(t.Category)
	if t.Type == "" {
		t.Type = core.TypeFromAmount(t.Amount)
	}
	if t.Type.Valid() {
		t.Amount = core.SignForType(t.Amount, t.Type)
	}
	return t
}
