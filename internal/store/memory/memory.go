// Package memory is a process-local store. It backs tests and the memory
// data backend; nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"financas/internal/core"
	"financas/internal/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu        sync.RWMutex
	txs       map[string]core.Transaction
	recurring map[string]core.RecurringExpense
	cards     map[string]core.CreditCard
	profiles  map[string]core.Profile
	now       func() time.Time
}

func New() *Store {
	return &Store{
		txs:       make(map[string]core.Transaction),
		recurring: make(map[string]core.RecurringExpense),
		cards:     make(map[string]core.CreditCard),
		profiles:  make(map[string]core.Profile),
		now:       time.Now,
	}
}

func (s *Store) ListTransactions(_ context.Context, ownerID string, f store.TransactionFilter) ([]core.Transaction, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Transaction
	for _, t := range s.txs {
		if t.OwnerID != ownerID || (f.Period != "" && t.Period() != f.Period) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, ownerID, id string) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.txs[id]
	if !ok || t.OwnerID != ownerID {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	return t, nil
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (string, error) {
	if err := requireOwner(t.OwnerID); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = uuid.NewString()
	t.CreatedAt = s.now()
	t.UpdatedAt = t.CreatedAt
	s.txs[t.ID] = t
	return t.ID, nil
}

func (s *Store) UpdateTransaction(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.txs[t.ID]
	if !ok || old.OwnerID != t.OwnerID {
		return fmt.Errorf("transaction %s: %w", t.ID, core.ErrNotFound)
	}
	t.CreatedAt = old.CreatedAt
	t.UpdatedAt = s.now()
	s.txs[t.ID] = t
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txs[id]
	if !ok || t.OwnerID != ownerID {
		return fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	delete(s.txs, id)
	return nil
}

func (s *Store) ListRecurring(_ context.Context, ownerID string) ([]core.RecurringExpense, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.RecurringExpense
	for _, r := range s.recurring {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].NextDueDate.Equal(out[j].NextDueDate.Time) {
			return out[i].NextDueDate.Before(out[j].NextDueDate.Time)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) GetRecurring(_ context.Context, ownerID, id string) (core.RecurringExpense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recurring[id]
	if !ok || r.OwnerID != ownerID {
		return core.RecurringExpense{}, fmt.Errorf("recurring expense %s: %w", id, core.ErrNotFound)
	}
	return r, nil
}

func (s *Store) CreateRecurring(_ context.Context, r core.RecurringExpense) (string, error) {
	if err := requireOwner(r.OwnerID); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = uuid.NewString()
	r.CreatedAt = s.now()
	r.UpdatedAt = r.CreatedAt
	s.recurring[r.ID] = r
	return r.ID, nil
}

func (s *Store) UpdateRecurringStatus(_ context.Context, ownerID, id string, status core.RecurringStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recurring[id]
	if !ok || r.OwnerID != ownerID {
		return fmt.Errorf("recurring expense %s: %w", id, core.ErrNotFound)
	}
	r.Status = status
	r.UpdatedAt = s.now()
	s.recurring[id] = r
	return nil
}

func (s *Store) DeleteRecurring(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recurring[id]
	if !ok || r.OwnerID != ownerID {
		return fmt.Errorf("recurring expense %s: %w", id, core.ErrNotFound)
	}
	delete(s.recurring, id)
	return nil
}

func (s *Store) ListCards(_ context.Context, ownerID string) ([]core.CreditCard, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.CreditCard
	for _, c := range s.cards {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetCard(_ context.Context, ownerID, id string) (core.CreditCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cards[id]
	if !ok || c.OwnerID != ownerID {
		return core.CreditCard{}, fmt.Errorf("card %s: %w", id, core.ErrNotFound)
	}
	return c, nil
}

func (s *Store) CreateCard(_ context.Context, c core.CreditCard) (string, error) {
	if err := requireOwner(c.OwnerID); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = uuid.NewString()
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt
	s.cards[c.ID] = c
	return c.ID, nil
}

func (s *Store) UpdateCard(_ context.Context, c core.CreditCard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.cards[c.ID]
	if !ok || old.OwnerID != c.OwnerID {
		return fmt.Errorf("card %s: %w", c.ID, core.ErrNotFound)
	}
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = s.now()
	s.cards[c.ID] = c
	return nil
}

func (s *Store) DeleteCard(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[id]
	if !ok || c.OwnerID != ownerID {
		return fmt.Errorf("card %s: %w", id, core.ErrNotFound)
	}
	delete(s.cards, id)
	return nil
}

func (s *Store) GetProfile(_ context.Context, uid string) (core.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[uid]
	if !ok {
		return core.Profile{}, fmt.Errorf("profile %s: %w", uid, core.ErrNotFound)
	}
	return p, nil
}

func (s *Store) UpsertProfile(_ context.Context, p core.Profile) error {
	if err := requireOwner(p.UID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if old, ok := s.profiles[p.UID]; ok {
		p.CreatedAt = old.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.profiles[p.UID] = p
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func requireOwner(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return core.ErrNoOwner
	}
	return nil
}
