package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"

	Active RecurringStatus = "active"
	Paused RecurringStatus = "paused"
)

// MaxDescriptionLength is counted in runes.
const MaxDescriptionLength = 100

type (
	TransactionType string
	RecurringStatus string

	Transaction struct {
		ID            string
		OwnerID       string
		Description   string
		Category      string
		Amount        Money // negative for expenses
		Date          Date
		PaymentMethod PaymentMethod
		Type          TransactionType
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}

	// TransactionPatch carries the fields of a partial update. Nil fields are left untouched.
	TransactionPatch struct {
		Description   *string
		Category      *string
		Amount        *Money
		Date          *Date
		PaymentMethod *PaymentMethod
		Type          *TransactionType
	}

	RecurringExpense struct {
		ID          string
		OwnerID     string
		Name        string
		Category    string
		Amount      Money // always positive
		Frequency   string
		NextDueDate Date
		Status      RecurringStatus
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	Profile struct {
		UID       string
		Name      string
		Email     string
		Picture   string
		CreatedAt time.Time
		UpdatedAt time.Time
	}
)

var (
	ErrNoOwner              = errors.New("user not authenticated")
	ErrNotFound             = errors.New("record not found")
	ErrEmptyDescription     = errors.New("empty description")
	ErrDescriptionTooLong   = errors.New("description too long (max 100 characters)")
	ErrEmptyCategory        = errors.New("empty category")
	ErrEmptyName            = errors.New("empty name")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidType          = errors.New("invalid transaction type")
	ErrTypeSignMismatch     = errors.New("transaction type does not match amount sign")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidStatus        = errors.New("invalid recurring status")
	ErrInvalidPeriod        = errors.New("invalid period key")
)

// Period returns the period key derived from the transaction date.
func (t Transaction) Period() string {
	return PeriodKey(t.Date.Time)
}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.OwnerID) == "" {
		return ErrNoOwner
	}
	if err := validateDescription(t.Description); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if t.Amount.Cents == 0 {
		return ErrInvalidAmount
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if TypeFromAmount(t.Amount) != t.Type {
		return ErrTypeSignMismatch
	}
	if !t.PaymentMethod.Valid() {
		return ErrInvalidPaymentMethod
	}
	return nil
}

// Apply returns a copy of t with the patch applied. The amount is re-signed
// to whichever type results, so switching type alone flips the sign.
func (p TransactionPatch) Apply(t Transaction) Transaction {
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Category != nil {
		t.Category = strings.TrimSpace(*p.Category)
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.PaymentMethod != nil {
		t.PaymentMethod = *p.PaymentMethod
	}
	switch {
	case p.Type != nil:
		t.Type = *p.Type
	case p.Amount != nil:
		t.Type = TypeFromAmount(*p.Amount)
	}
	t.Amount = SignForType(t.Amount, t.Type)
	return t
}

func (p TransactionPatch) Empty() bool {
	return p.Description == nil && p.Category == nil && p.Amount == nil &&
		p.Date == nil && p.PaymentMethod == nil && p.Type == nil
}

func (s RecurringStatus) Valid() bool {
	return s == Active || s == Paused
}

// Toggled flips active and paused.
func (s RecurringStatus) Toggled() RecurringStatus {
	if s == Active {
		return Paused
	}
	return Active
}

func (r RecurringExpense) Validate() error {
	if strings.TrimSpace(r.OwnerID) == "" {
		return ErrNoOwner
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(r.Name) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if r.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if err := r.NextDueDate.Validate(); err != nil {
		return err
	}
	if !r.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func validateDescription(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return ErrEmptyDescription
	}
	if utf8.RuneCountInString(s) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}
