package services

import (
	"context"
	"errors"
	"testing"

	"financas/internal/core"
	"financas/internal/store/memory"
)

func TestIsDueSoon(t *testing.T) {
	now := fixedNow()
	tests := []struct {
		name     string
		due      core.Date
		status   core.RecurringStatus
		wantDays int
		want     bool
	}{
		{"due today", core.NewDate(2025, 3, 15), core.Active, 0, true},
		{"edge of window", core.NewDate(2025, 3, 22), core.Active, 7, true},
		{"past the window", core.NewDate(2025, 3, 23), core.Active, 8, false},
		{"overdue", core.NewDate(2025, 3, 14), core.Active, -1, true},
		{"long overdue", core.NewDate(2025, 1, 10), core.Active, -64, true},
		{"paused and overdue", core.NewDate(2025, 3, 1), core.Paused, -14, false},
		{"paused inside window", core.NewDate(2025, 3, 16), core.Paused, 1, false},
		{"next month", core.NewDate(2025, 4, 1), core.Active, 17, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := core.RecurringExpense{NextDueDate: tt.due, Status: tt.status}
			if got := DaysUntilDue(r, now); got != tt.wantDays {
				t.Errorf("DaysUntilDue() = %d, want %d", got, tt.wantDays)
			}
			if got := IsDueSoon(r, now); got != tt.want {
				t.Errorf("IsDueSoon() = %v, want %v", got, tt.want)
			}
		})
	}
}

func newRecurringService() (*RecurringService, *countingInvalidator) {
	inv := &countingInvalidator{}
	svc := NewRecurringService(memory.New(), inv)
	svc.now = fixedNow
	return svc, inv
}

func TestRecurringService_CreateAndList(t *testing.T) {
	ctx := context.Background()
	svc, inv := newRecurringService()

	netflix, err := svc.Create(ctx, core.RecurringExpense{
		OwnerID:     "u1",
		Name:        "Netflix",
		Category:    "Assinaturas",
		Amount:      money(-5590),
		Frequency:   "monthly",
		NextDueDate: core.NewDate(2025, 3, 18),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if netflix.Amount.Cents != 5590 || netflix.Status != core.Active {
		t.Fatalf("amount should be positive and status active, got %+v", netflix)
	}

	if _, err := svc.Create(ctx, core.RecurringExpense{
		OwnerID:     "u1",
		Name:        "Aluguel",
		Category:    "Moradia",
		Amount:      money(250000),
		Frequency:   "monthly",
		NextDueDate: core.NewDate(2025, 4, 5),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	views, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 2 || views[0].Name != "Netflix" {
		t.Fatalf("expected earliest due first, got %+v", views)
	}
	if !views[0].DueSoon || views[0].DaysUntilDue != 3 {
		t.Errorf("Netflix should be due soon in 3 days, got %+v", views[0])
	}
	if views[1].DueSoon {
		t.Errorf("rent is not due soon")
	}
	if len(inv.owners) != 2 {
		t.Errorf("each create should invalidate, got %v", inv.owners)
	}

	other, err := svc.List(ctx, "u2")
	if err != nil || len(other) != 0 {
		t.Fatalf("other owners see nothing, got %v, %v", other, err)
	}
}

func TestRecurringService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, inv := newRecurringService()

	tests := []struct {
		name string
		in   core.RecurringExpense
		want error
	}{
		{"no owner", core.RecurringExpense{Name: "x"}, core.ErrNoOwner},
		{"no name", core.RecurringExpense{OwnerID: "u1", Category: "Outros", Amount: money(1), NextDueDate: core.NewDate(2025, 3, 1)}, core.ErrEmptyName},
		{"zero amount", core.RecurringExpense{OwnerID: "u1", Name: "Gym", Category: "Saúde", NextDueDate: core.NewDate(2025, 3, 1)}, core.ErrInvalidAmount},
		{"no due date", core.RecurringExpense{OwnerID: "u1", Name: "Gym", Category: "Saúde", Amount: money(100)}, core.ErrInvalidDate},
		{"bad status", core.RecurringExpense{OwnerID: "u1", Name: "Gym", Category: "Saúde", Amount: money(100), NextDueDate: core.NewDate(2025, 3, 1), Status: "archived"}, core.ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("Create() error = %v, want %v", err, tt.want)
			}
		})
	}
	if len(inv.owners) != 0 {
		t.Errorf("rejected creates must not invalidate")
	}
}

func TestRecurringService_ToggleAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRecurringService()

	r, err := svc.Create(ctx, core.RecurringExpense{
		OwnerID: "u1", Name: "Spotify", Category: "Assinaturas",
		Amount: money(2190), Frequency: "monthly", NextDueDate: core.NewDate(2025, 3, 16),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	toggled, err := svc.Toggle(ctx, "u1", r.ID)
	if err != nil || toggled.Status != core.Paused {
		t.Fatalf("first toggle should pause, got %+v, %v", toggled, err)
	}
	views, _ := svc.List(ctx, "u1")
	if views[0].Status != core.Paused || views[0].DueSoon {
		t.Errorf("paused expense should be stored and not due soon, got %+v", views[0])
	}
	toggled, _ = svc.Toggle(ctx, "u1", r.ID)
	if toggled.Status != core.Active {
		t.Fatalf("second toggle should reactivate, got %s", toggled.Status)
	}

	if _, err := svc.Toggle(ctx, "u2", r.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("toggle by another owner: got %v", err)
	}
	if err := svc.Delete(ctx, "u2", r.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("delete by another owner: got %v", err)
	}
	if err := svc.Delete(ctx, "u1", r.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, "u1", r.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second delete: got %v", err)
	}
}
