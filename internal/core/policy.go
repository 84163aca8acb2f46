package core

// The functions in this file fix behaviour that aggregated figures depend on.
// Changing any of them changes dashboard output for existing data.

// TypeFromAmount infers the transaction type from the amount sign: negative
// is an expense, zero and positive are income.
func TypeFromAmount(m Money) TransactionType {
	if m.Cents < 0 {
		return Expense
	}
	return Income
}

// SignForType re-signs an amount so that it agrees with t: expenses carry a
// negative magnitude and income a positive one.
func SignForType(m Money, t TransactionType) Money {
	if t == Expense {
		return m.Abs().Neg()
	}
	return m.Abs()
}

// PreviousRecurringTotal is the recurring total attributed to the previous
// period. No history of recurring state is kept, so it equals the current total.
func PreviousRecurringTotal(current Money) Money {
	return current
}

// PreviousFreeBalance is the free balance of the previous period: income
// minus spend, without recurring expenses.
func PreviousFreeBalance(income, spend Money) Money {
	return income.Sub(spend)
}

// FreeBalance is income minus spend minus the active recurring total.
func FreeBalance(income, spend, recurring Money) Money {
	return income.Sub(spend).Sub(recurring)
}
