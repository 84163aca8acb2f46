package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"financas/internal/core"
	"financas/internal/store/memory"
)

func validCard(owner string) core.CreditCard {
	return core.CreditCard{
		OwnerID:    owner,
		Name:       "Nubank",
		Brand:      " Mastercard ",
		LastDigits: "1234",
		Limit:      money(500000),
		Used:       money(425000),
		CloseDay:   3,
		DueDay:     10,
	}
}

func TestCardService_CreateAndList(t *testing.T) {
	ctx := context.Background()
	svc := NewCardService(memory.New())

	c, err := svc.Create(ctx, validCard("u1"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Brand != core.BrandMastercard {
		t.Errorf("brand should be normalised, got %q", c.Brand)
	}
	if !c.IsHighUsage() {
		t.Errorf("85%% used should be high usage")
	}

	second := validCard("u1")
	second.Name = "Inter"
	second.Brand = core.BrandVisa
	second.Limit = money(500000)
	second.Used = money(75000)
	if _, err := svc.Create(ctx, second); err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list.Cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(list.Cards))
	}
	if list.Summary.TotalLimit.Cents != 1000000 || list.Summary.TotalUsed.Cents != 500000 {
		t.Errorf("unexpected summary %+v", list.Summary)
	}
	if math.Abs(list.Summary.UsedPercentage-50) > 1e-9 {
		t.Errorf("UsedPercentage = %v, want 50", list.Summary.UsedPercentage)
	}

	empty, err := svc.List(ctx, "u2")
	if err != nil || len(empty.Cards) != 0 || empty.Summary.UsedPercentage != 0 {
		t.Fatalf("owner without cards: %+v, %v", empty, err)
	}
}

func TestCardService_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewCardService(memory.New())

	tests := []struct {
		name   string
		mutate func(*core.CreditCard)
		want   error
	}{
		{"no owner", func(c *core.CreditCard) { c.OwnerID = "" }, core.ErrNoOwner},
		{"no name", func(c *core.CreditCard) { c.Name = "<b></b>" }, core.ErrEmptyName},
		{"unknown brand", func(c *core.CreditCard) { c.Brand = "diners" }, core.ErrInvalidBrand},
		{"short digits", func(c *core.CreditCard) { c.LastDigits = "123" }, core.ErrInvalidLastDigits},
		{"letters in digits", func(c *core.CreditCard) { c.LastDigits = "12a4" }, core.ErrInvalidLastDigits},
		{"negative used", func(c *core.CreditCard) { c.Used = money(-1) }, core.ErrInvalidAmount},
		{"close day zero", func(c *core.CreditCard) { c.CloseDay = 0 }, core.ErrInvalidCardDay},
		{"due day 32", func(c *core.CreditCard) { c.DueDay = 32 }, core.ErrInvalidCardDay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCard("u1")
			tt.mutate(&c)
			if _, err := svc.Create(ctx, c); !errors.Is(err, tt.want) {
				t.Fatalf("Create() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCardService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewCardService(memory.New())

	c, err := svc.Create(ctx, validCard("u1"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	used := money(100000)
	got, err := svc.Update(ctx, "u1", c.ID, CardPatch{Used: &used})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Used.Cents != 100000 || got.Name != "Nubank" || got.IsHighUsage() {
		t.Errorf("unexpected card after update %+v", got)
	}

	day := 40
	if _, err := svc.Update(ctx, "u1", c.ID, CardPatch{DueDay: &day}); !errors.Is(err, core.ErrInvalidCardDay) {
		t.Fatalf("expected ErrInvalidCardDay, got %v", err)
	}
	if _, err := svc.Update(ctx, "u2", c.ID, CardPatch{Used: &used}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found for another owner, got %v", err)
	}

	if err := svc.Delete(ctx, "u1", c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, "u1", c.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second delete: got %v", err)
	}
}
