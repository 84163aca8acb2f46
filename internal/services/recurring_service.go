package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"financas/internal/core"
	"financas/internal/sanitize"
	"financas/internal/store"
)

// RecurringView annotates a recurring expense with its dueness.
type RecurringView struct {
	core.RecurringExpense
	DaysUntilDue int
	DueSoon      bool
}

type RecurringService struct {
	store       store.RecurringStore
	invalidator Invalidator
	now         func() time.Time
}

func NewRecurringService(s store.RecurringStore, inv Invalidator) *RecurringService {
	return &RecurringService{store: s, invalidator: inv, now: time.Now}
}

// List returns the owner's recurring expenses, earliest due first.
func (s *RecurringService) List(ctx context.Context, ownerID string) ([]RecurringView, error) {
	recs, err := s.store.ListRecurring(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]RecurringView, len(recs))
	for i, r := range recs {
		out[i] = RecurringView{
			RecurringExpense: r,
			DaysUntilDue:     DaysUntilDue(r, now),
			DueSoon:          IsDueSoon(r, now),
		}
	}
	return out, nil
}

// Create stores a new recurring expense. The amount is kept as a positive
// magnitude and a blank status means active.
func (s *RecurringService) Create(ctx context.Context, r core.RecurringExpense) (core.RecurringExpense, error) {
	if r.OwnerID == "" {
		return core.RecurringExpense{}, core.ErrNoOwner
	}
	r.Name = sanitize.Text(r.Name)
	r.Category = sanitize.Text(r.Category)
	r.Frequency = sanitize.Text(r.Frequency)
	r.Amount = r.Amount.Abs()
	if r.Status == "" {
		r.Status = core.Active
	}
	if err := r.Validate(); err != nil {
		return core.RecurringExpense{}, err
	}

	id, err := s.store.CreateRecurring(ctx, r)
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("save recurring expense: %w", err)
	}
	invalidate(s.invalidator, r.OwnerID)
	return s.store.GetRecurring(ctx, r.OwnerID, id)
}

// Toggle flips the status between active and paused.
func (s *RecurringService) Toggle(ctx context.Context, ownerID, id string) (core.RecurringExpense, error) {
	if ownerID == "" {
		return core.RecurringExpense{}, core.ErrNoOwner
	}
	r, err := s.store.GetRecurring(ctx, ownerID, id)
	if err != nil {
		return core.RecurringExpense{}, err
	}
	next := r.Status.Toggled()
	if err := s.store.UpdateRecurringStatus(ctx, ownerID, id, next); err != nil {
		return core.RecurringExpense{}, fmt.Errorf("toggle recurring expense: %w", err)
	}
	slog.InfoContext(ctx, "Recurring expense status changed", "id", id, "from", r.Status, "to", next)
	invalidate(s.invalidator, ownerID)
	r.Status = next
	return r, nil
}

func (s *RecurringService) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return core.ErrNoOwner
	}
	if err := s.store.DeleteRecurring(ctx, ownerID, id); err != nil {
		return err
	}
	invalidate(s.invalidator, ownerID)
	return nil
}
