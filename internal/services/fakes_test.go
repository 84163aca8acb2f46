package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"financas/internal/amqp"
	"financas/internal/core"
	"financas/internal/store"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []amqp.TransactionEvent
	err    error
}

func (p *recordingPublisher) PublishTransactionEvent(_ context.Context, e *amqp.TransactionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, *e)
	return nil
}

func (p *recordingPublisher) actions() []amqp.Action {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]amqp.Action, len(p.events))
	for i, e := range p.events {
		out[i] = e.Action
	}
	return out
}

type countingInvalidator struct {
	owners []string
}

func (c *countingInvalidator) Invalidate(ownerID string) {
	c.owners = append(c.owners, ownerID)
}

// countingStore counts list calls and can fail transaction creation.
type countingStore struct {
	store.Store
	mu         sync.Mutex
	txLists    int
	recLists   int
	createFail int // 1-based create call that fails, 0 never
	creates    int
}

var errStoreDown = errors.New("store unavailable")

func (s *countingStore) ListTransactions(ctx context.Context, ownerID string, f store.TransactionFilter) ([]core.Transaction, error) {
	s.mu.Lock()
	s.txLists++
	s.mu.Unlock()
	return s.Store.ListTransactions(ctx, ownerID, f)
}

func (s *countingStore) ListRecurring(ctx context.Context, ownerID string) ([]core.RecurringExpense, error) {
	s.mu.Lock()
	s.recLists++
	s.mu.Unlock()
	return s.Store.ListRecurring(ctx, ownerID)
}

func (s *countingStore) CreateTransaction(ctx context.Context, t core.Transaction) (string, error) {
	s.mu.Lock()
	s.creates++
	fail := s.createFail > 0 && s.creates == s.createFail
	s.mu.Unlock()
	if fail {
		return "", errStoreDown
	}
	return s.Store.CreateTransaction(ctx, t)
}

type fakeArchiver struct {
	calls int
	err   error
}

func (a *fakeArchiver) Archive(_ context.Context, ownerID, filename string, _ []byte) (string, error) {
	a.calls++
	if a.err != nil {
		return "", a.err
	}
	return "gs://bucket/imports/" + ownerID + "/" + filename, nil
}

func fixedNow() time.Time {
	return time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
}

func money(cents int64) core.Money {
	return core.Money{Cents: cents}
}
