package services

import (
	"context"
	"fmt"
	"strings"

	"financas/internal/core"
	"financas/internal/sanitize"
	"financas/internal/store"
)

// CardPatch carries the fields of a partial card update. Nil fields are left untouched.
type CardPatch struct {
	Name       *string
	Brand      *core.CardBrand
	LastDigits *string
	Limit      *core.Money
	Used       *core.Money
	CloseDay   *int
	DueDay     *int
}

// Apply returns a copy of c with the patch applied.
func (p CardPatch) Apply(c core.CreditCard) core.CreditCard {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Brand != nil {
		c.Brand = *p.Brand
	}
	if p.LastDigits != nil {
		c.LastDigits = *p.LastDigits
	}
	if p.Limit != nil {
		c.Limit = *p.Limit
	}
	if p.Used != nil {
		c.Used = *p.Used
	}
	if p.CloseDay != nil {
		c.CloseDay = *p.CloseDay
	}
	if p.DueDay != nil {
		c.DueDay = *p.DueDay
	}
	return c
}

// CardList is every card of an owner together with their aggregate.
type CardList struct {
	Cards   []core.CreditCard
	Summary core.CardSummary
}

type CardService struct {
	store store.CardStore
}

func NewCardService(s store.CardStore) *CardService {
	return &CardService{store: s}
}

func (s *CardService) List(ctx context.Context, ownerID string) (CardList, error) {
	cards, err := s.store.ListCards(ctx, ownerID)
	if err != nil {
		return CardList{}, err
	}
	return CardList{Cards: cards, Summary: core.SummarizeCards(cards)}, nil
}

func (s *CardService) Create(ctx context.Context, c core.CreditCard) (core.CreditCard, error) {
	if c.OwnerID == "" {
		return core.CreditCard{}, core.ErrNoOwner
	}
	c = normalizeCard(c)
	if err := c.Validate(); err != nil {
		return core.CreditCard{}, err
	}
	id, err := s.store.CreateCard(ctx, c)
	if err != nil {
		return core.CreditCard{}, fmt.Errorf("save card: %w", err)
	}
	return s.store.GetCard(ctx, c.OwnerID, id)
}

func (s *CardService) Update(ctx context.Context, ownerID, id string, patch CardPatch) (core.CreditCard, error) {
	if ownerID == "" {
		return core.CreditCard{}, core.ErrNoOwner
	}
	current, err := s.store.GetCard(ctx, ownerID, id)
	if err != nil {
		return core.CreditCard{}, err
	}
	next := normalizeCard(patch.Apply(current))
	if err := next.Validate(); err != nil {
		return core.CreditCard{}, err
	}
	if err := s.store.UpdateCard(ctx, next); err != nil {
		return core.CreditCard{}, fmt.Errorf("update card: %w", err)
	}
	return s.store.GetCard(ctx, ownerID, id)
}

func (s *CardService) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return core.ErrNoOwner
	}
	return s.store.DeleteCard(ctx, ownerID, id)
}

func normalizeCard(c core.CreditCard) core.CreditCard {
	c.Name = sanitize.Text(c.Name)
	c.Brand = core.CardBrand(strings.ToLower(strings.TrimSpace(string(c.Brand))))
	c.LastDigits = strings.TrimSpace(c.LastDigits)
	return c
}
