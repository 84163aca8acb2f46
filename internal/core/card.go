package core

import (
	"errors"
	"strings"
	"time"
)

// HighUsageThreshold is the used percentage at which a card is flagged.
const HighUsageThreshold = 80.0

type (
	CardBrand string

	CreditCard struct {
		ID         string
		OwnerID    string
		Name       string
		Brand      CardBrand
		LastDigits string
		Limit      Money
		Used       Money
		CloseDay   int
		DueDay     int
		CreatedAt  time.Time
		UpdatedAt  time.Time
	}

	// CardSummary aggregates every card of an owner.
	CardSummary struct {
		TotalLimit     Money
		TotalUsed      Money
		UsedPercentage float64
	}
)

const (
	BrandVisa       CardBrand = "visa"
	BrandMastercard CardBrand = "mastercard"
	BrandElo        CardBrand = "elo"
	BrandAmex       CardBrand = "amex"
	BrandHipercard  CardBrand = "hipercard"
)

var CardBrands = []CardBrand{BrandVisa, BrandMastercard, BrandElo, BrandAmex, BrandHipercard}

var (
	ErrInvalidBrand      = errors.New("invalid card brand")
	ErrInvalidLastDigits = errors.New("last digits must be 4 digits")
	ErrInvalidCardDay    = errors.New("card day must be between 1 and 31")
)

func (b CardBrand) Valid() bool {
	for _, v := range CardBrands {
		if b == v {
			return true
		}
	}
	return false
}

func (c CreditCard) Validate() error {
	if strings.TrimSpace(c.OwnerID) == "" {
		return ErrNoOwner
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Brand.Valid() {
		return ErrInvalidBrand
	}
	if len(c.LastDigits) != 4 || strings.Trim(c.LastDigits, "0123456789") != "" {
		return ErrInvalidLastDigits
	}
	if c.Limit.Cents < 0 || c.Used.Cents < 0 {
		return ErrInvalidAmount
	}
	if c.CloseDay < 1 || c.CloseDay > 31 || c.DueDay < 1 || c.DueDay > 31 {
		return ErrInvalidCardDay
	}
	return nil
}

// UsedPercentage is used/limit*100, or 0 for a card without a limit.
func (c CreditCard) UsedPercentage() float64 {
	return ratio(c.Used, c.Limit)
}

func (c CreditCard) IsHighUsage() bool {
	return c.UsedPercentage() >= HighUsageThreshold
}

func (c CreditCard) Available() Money {
	return c.Limit.Sub(c.Used)
}

func SummarizeCards(cards []CreditCard) CardSummary {
	var s CardSummary
	for _, c := range cards {
		s.TotalLimit = s.TotalLimit.Add(c.Limit)
		s.TotalUsed = s.TotalUsed.Add(c.Used)
	}
	s.UsedPercentage = ratio(s.TotalUsed, s.TotalLimit)
	return s
}

func ratio(part, whole Money) float64 {
	if whole.Cents == 0 {
		return 0
	}
	return float64(part.Cents) / float64(whole.Cents) * 100
}
