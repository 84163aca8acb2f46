// Package metrics derives dashboard figures from transactions and recurring
// expenses. Every function is pure: the reference instant is passed in and
// nothing is read from a store or the clock.
package metrics

import (
	"sort"
	"time"

	"financas/internal/core"
)

const (
	DefaultMonths = 7
	TopCategories = 6
	RecentCount   = 5
)

// Palette is assigned to breakdown entries by rank and reused cyclically.
var Palette = []string{
	"hsl(172, 66%, 45%)",
	"hsl(220, 70%, 55%)",
	"hsl(280, 65%, 55%)",
	"hsl(38, 92%, 50%)",
	"hsl(0, 72%, 51%)",
	"hsl(152, 60%, 42%)",
}

var monthLabels = [...]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

type (
	// PeriodTotals holds the transaction totals of one period. Spend and
	// CardSpend are magnitudes.
	PeriodTotals struct {
		Spend     core.Money `json:"spend"`
		CardSpend core.Money `json:"card_spend"`
		Income    core.Money `json:"income"`
	}

	KPIs struct {
		Period              string       `json:"period"`
		PreviousPeriod      string       `json:"previous_period"`
		Current             PeriodTotals `json:"current"`
		Previous            PeriodTotals `json:"previous"`
		Recurring           core.Money   `json:"recurring"`
		PreviousRecurring   core.Money   `json:"previous_recurring"`
		FreeBalance         core.Money   `json:"free_balance"`
		PreviousFreeBalance core.Money   `json:"previous_free_balance"`

		SpendChange       float64 `json:"spend_change"`
		CardSpendChange   float64 `json:"card_spend_change"`
		RecurringChange   float64 `json:"recurring_change"`
		FreeBalanceChange float64 `json:"free_balance_change"`
	}

	MonthlyPoint struct {
		Period string     `json:"period"`
		Label  string     `json:"label"`
		Total  core.Money `json:"total"`
	}

	CategoryTotal struct {
		Name  string     `json:"name"`
		Total core.Money `json:"total"`
		Color string     `json:"color"`
	}

	Dashboard struct {
		KPIs       KPIs
		Monthly    []MonthlyPoint
		Categories []CategoryTotal
		Recent     []core.Transaction
	}
)

// PercentChange is (c-p)/p*100. A zero previous value yields 0 when the
// current value is also zero and 100 otherwise.
func PercentChange(c, p float64) float64 {
	if p == 0 {
		if c == 0 {
			return 0
		}
		return 100
	}
	return (c - p) / p * 100
}

// Totals sums the transactions whose period key equals period.
func Totals(txs []core.Transaction, period string) PeriodTotals {
	var t PeriodTotals
	for _, tx := range txs {
		if tx.Period() != period {
			continue
		}
		switch tx.Type {
		case core.Expense:
			t.Spend = t.Spend.Add(tx.Amount.Abs())
			if tx.PaymentMethod == core.PaymentCard {
				t.CardSpend = t.CardSpend.Add(tx.Amount.Abs())
			}
		case core.Income:
			t.Income = t.Income.Add(tx.Amount)
		}
	}
	return t
}

// RecurringTotal sums the active recurring expenses regardless of due date.
func RecurringTotal(recs []core.RecurringExpense) core.Money {
	var total core.Money
	for _, r := range recs {
		if r.Status == core.Active {
			total = total.Add(r.Amount)
		}
	}
	return total
}

func ComputeKPIs(txs []core.Transaction, recs []core.RecurringExpense, now time.Time) KPIs {
	k := KPIs{
		Period:         core.PeriodKey(now),
		PreviousPeriod: core.PreviousPeriodKey(now),
	}
	k.Current = Totals(txs, k.Period)
	k.Previous = Totals(txs, k.PreviousPeriod)
	k.Recurring = RecurringTotal(recs)
	k.PreviousRecurring = core.PreviousRecurringTotal(k.Recurring)
	k.FreeBalance = core.FreeBalance(k.Current.Income, k.Current.Spend, k.Recurring)
	k.PreviousFreeBalance = core.PreviousFreeBalance(k.Previous.Income, k.Previous.Spend)

	k.SpendChange = change(k.Current.Spend, k.Previous.Spend)
	k.CardSpendChange = change(k.Current.CardSpend, k.Previous.CardSpend)
	k.RecurringChange = change(k.Recurring, k.PreviousRecurring)
	k.FreeBalanceChange = change(k.FreeBalance, k.PreviousFreeBalance)
	return k
}

// MonthlySeries returns the expense magnitude of the n months ending at the
// month of now, oldest first.
func MonthlySeries(txs []core.Transaction, now time.Time, n int) []MonthlyPoint {
	if n <= 0 {
		n = DefaultMonths
	}
	points := make([]MonthlyPoint, n)
	index := make(map[string]int, n)
	for i := 0; i < n; i++ {
		start := core.MonthStart(now, i-n+1)
		key := core.PeriodKey(start)
		points[i] = MonthlyPoint{Period: key, Label: MonthLabel(start.Month())}
		index[key] = i
	}
	for _, tx := range txs {
		if tx.Type != core.Expense {
			continue
		}
		if i, ok := index[tx.Period()]; ok {
			points[i].Total = points[i].Total.Add(tx.Amount.Abs())
		}
	}
	return points
}

// CategoryBreakdown sums current period expenses per category plus every
// active recurring expense, then keeps the largest TopCategories entries.
// Ties keep first-seen order.
func CategoryBreakdown(txs []core.Transaction, recs []core.RecurringExpense, now time.Time) []CategoryTotal {
	period := core.PeriodKey(now)
	var out []CategoryTotal
	pos := make(map[string]int)
	add := func(name string, amount core.Money) {
		i, ok := pos[name]
		if !ok {
			i = len(out)
			pos[name] = i
			out = append(out, CategoryTotal{Name: name})
		}
		out[i].Total = out[i].Total.Add(amount)
	}

	for _, tx := range txs {
		if tx.Type == core.Expense && tx.Period() == period {
			add(tx.Category, tx.Amount.Abs())
		}
	}
	for _, r := range recs {
		if r.Status == core.Active {
			add(r.Category, r.Amount)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.Cents > out[j].Total.Cents
	})
	if len(out) > TopCategories {
		out = out[:TopCategories]
	}
	for i := range out {
		out[i].Color = Palette[i%len(Palette)]
	}
	return out
}

// Recent returns the first n transactions. The input is expected to be
// sorted newest first already.
func Recent(txs []core.Transaction, n int) []core.Transaction {
	if n > len(txs) {
		n = len(txs)
	}
	out := make([]core.Transaction, n)
	copy(out, txs[:n])
	return out
}

// Compute builds every dashboard figure in one pass over the inputs.
func Compute(txs []core.Transaction, recs []core.RecurringExpense, now time.Time, months int) Dashboard {
	return Dashboard{
		KPIs:       ComputeKPIs(txs, recs, now),
		Monthly:    MonthlySeries(txs, now, months),
		Categories: CategoryBreakdown(txs, recs, now),
		Recent:     Recent(txs, RecentCount),
	}
}

// MonthLabel is the short Portuguese month name.
func MonthLabel(m time.Month) string {
	return monthLabels[m-1]
}

func change(c, p core.Money) float64 {
	return PercentChange(float64(c.Cents), float64(p.Cents))
}
