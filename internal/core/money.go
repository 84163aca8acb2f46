// Package core provides money parsing and handling utilities.
//
// Amounts are held as signed cents. Text is parsed through shopspring/decimal
// so no binary floating point is involved until a percentage is computed.
package core

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

type Money struct {
	Cents int64
}

// currencyPrefix matches a leading currency token such as "R$", "US$", "$" or "€".
var currencyPrefix = regexp.MustCompile(`^(?:[A-Za-z]{0,3}\$|€)`)

// ParseAmount parses Brazilian formatted currency text: "." is a thousands
// separator and "," the decimal mark. "R$ 1.234,56" is 1234.56 and "-55,90"
// is -55.90. Text in the US convention ("1,234.56") is not supported and
// parses to a different value or fails.
func ParseAmount(s string) (Money, bool) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}
	s = currencyPrefix.ReplaceAllString(s, "")
	if sign == "" && (strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+")) {
		sign, s = s[:1], s[1:]
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return Money{}, false
	}
	for _, r := range s {
		if r != '.' && !unicode.IsDigit(r) {
			return Money{}, false
		}
	}

	if sign == "-" {
		s = sign + s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, false
	}
	if !fitsCents(d) {
		return Money{}, false
	}
	return FromDecimal(d), true
}

// ParseDecimal parses a plain decimal with "." as the decimal mark, as used
// on the JSON API ("-245.80").
func ParseDecimal(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !fitsCents(d) {
		return Money{}, ErrInvalidAmount
	}
	return FromDecimal(d), nil
}

// FromDecimal rounds half away from zero to whole cents.
func FromDecimal(d decimal.Decimal) Money {
	return Money{Cents: d.Shift(2).Round(0).IntPart()}
}

// fitsCents reports whether d rounded to whole cents fits in an int64.
func fitsCents(d decimal.Decimal) bool {
	return d.Shift(2).Round(0).BigInt().IsInt64()
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Float is for ratios and spreadsheet cells. Sums stay in cents.
func (m Money) Float() float64 {
	f, _ := m.Decimal().Float64()
	return f
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}

func (m Money) Neg() Money {
	return Money{Cents: -m.Cents}
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a decimal string or a JSON number.
func (m *Money) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return ErrInvalidAmount
		}
		s = n.String()
	}
	v, err := ParseDecimal(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
