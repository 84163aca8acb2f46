package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Transaction struct {
	ID            string
	OwnerID       string
	Description   string
	Category      string
	AmountCents   int64
	OccurredOn    string
	YearMonth     string
	PaymentMethod string
	Type          string
	CreatedAt     sql.NullString
	UpdatedAt     sql.NullString
}

type RecurringExpense struct {
	ID          string
	OwnerID     string
	Name        string
	Category    string
	AmountCents int64
	Frequency   string
	NextDueDate string
	Status      string
	CreatedAt   sql.NullString
	UpdatedAt   sql.NullString
}

type CreditCard struct {
	ID         string
	OwnerID    string
	Name       string
	Brand      string
	LastDigits string
	LimitCents int64
	UsedCents  int64
	CloseDay   int64
	DueDay     int64
	CreatedAt  sql.NullString
	UpdatedAt  sql.NullString
}

type Profile struct {
	Uid       string
	Name      string
	Email     string
	Picture   string
	CreatedAt sql.NullString
	UpdatedAt sql.NullString
}

const transactionColumns = `id, owner_id, description, category, amount_cents, occurred_on, year_month, payment_method, type, created_at, updated_at`

func scanTransaction(sc interface{ Scan(...any) error }) (Transaction, error) {
	var i Transaction
	err := sc.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Description,
		&i.Category,
		&i.AmountCents,
		&i.OccurredOn,
		&i.YearMonth,
		&i.PaymentMethod,
		&i.Type,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listTransactionsByOwner = `SELECT ` + transactionColumns + `
FROM transactions
WHERE owner_id = ?
ORDER BY occurred_on DESC, created_at DESC`

func (q *Queries) ListTransactionsByOwner(ctx context.Context, ownerID string) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactionsByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}

const listTransactionsByPeriod = `SELECT ` + transactionColumns + `
FROM transactions
WHERE owner_id = ? AND year_month = ?
ORDER BY occurred_on DESC, created_at DESC`

func (q *Queries) ListTransactionsByPeriod(ctx context.Context, ownerID, yearMonth string) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactionsByPeriod, ownerID, yearMonth)
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}

func collectTransactions(rows *sql.Rows) ([]Transaction, error) {
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		i, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getTransaction = `SELECT ` + transactionColumns + `
FROM transactions
WHERE owner_id = ? AND id = ?`

func (q *Queries) GetTransaction(ctx context.Context, ownerID, id string) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, getTransaction, ownerID, id)
	return scanTransaction(row)
}

const createTransaction = `INSERT INTO transactions (` + transactionColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateTransaction(ctx context.Context, arg Transaction) error {
	_, err := q.db.ExecContext(ctx, createTransaction,
		arg.ID,
		arg.OwnerID,
		arg.Description,
		arg.Category,
		arg.AmountCents,
		arg.OccurredOn,
		arg.YearMonth,
		arg.PaymentMethod,
		arg.Type,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const updateTransaction = `UPDATE transactions
SET description = ?, category = ?, amount_cents = ?, occurred_on = ?, year_month = ?,
    payment_method = ?, type = ?, updated_at = ?
WHERE owner_id = ? AND id = ?`

func (q *Queries) UpdateTransaction(ctx context.Context, arg Transaction) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateTransaction,
		arg.Description,
		arg.Category,
		arg.AmountCents,
		arg.OccurredOn,
		arg.YearMonth,
		arg.PaymentMethod,
		arg.Type,
		arg.UpdatedAt,
		arg.OwnerID,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteTransaction = `DELETE FROM transactions WHERE owner_id = ? AND id = ?`

func (q *Queries) DeleteTransaction(ctx context.Context, ownerID, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTransaction, ownerID, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const recurringColumns = `id, owner_id, name, category, amount_cents, frequency, next_due_date, status, created_at, updated_at`

func scanRecurring(sc interface{ Scan(...any) error }) (RecurringExpense, error) {
	var i RecurringExpense
	err := sc.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Name,
		&i.Category,
		&i.AmountCents,
		&i.Frequency,
		&i.NextDueDate,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listRecurringByOwner = `SELECT ` + recurringColumns + `
FROM recurring_expenses
WHERE owner_id = ?
ORDER BY next_due_date ASC, name ASC`

func (q *Queries) ListRecurringByOwner(ctx context.Context, ownerID string) ([]RecurringExpense, error) {
	rows, err := q.db.QueryContext(ctx, listRecurringByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RecurringExpense
	for rows.Next() {
		i, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getRecurring = `SELECT ` + recurringColumns + `
FROM recurring_expenses
WHERE owner_id = ? AND id = ?`

func (q *Queries) GetRecurring(ctx context.Context, ownerID, id string) (RecurringExpense, error) {
	return scanRecurring(q.db.QueryRowContext(ctx, getRecurring, ownerID, id))
}

const createRecurring = `INSERT INTO recurring_expenses (` + recurringColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateRecurring(ctx context.Context, arg RecurringExpense) error {
	_, err := q.db.ExecContext(ctx, createRecurring,
		arg.ID,
		arg.OwnerID,
		arg.Name,
		arg.Category,
		arg.AmountCents,
		arg.Frequency,
		arg.NextDueDate,
		arg.Status,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const updateRecurringStatus = `UPDATE recurring_expenses
SET status = ?, updated_at = ?
WHERE owner_id = ? AND id = ?`

func (q *Queries) UpdateRecurringStatus(ctx context.Context, status, updatedAt, ownerID, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateRecurringStatus, status, updatedAt, ownerID, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteRecurring = `DELETE FROM recurring_expenses WHERE owner_id = ? AND id = ?`

func (q *Queries) DeleteRecurring(ctx context.Context, ownerID, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteRecurring, ownerID, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const cardColumns = `id, owner_id, name, brand, last_digits, limit_cents, used_cents, close_day, due_day, created_at, updated_at`

func scanCard(sc interface{ Scan(...any) error }) (CreditCard, error) {
	var i CreditCard
	err := sc.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Name,
		&i.Brand,
		&i.LastDigits,
		&i.LimitCents,
		&i.UsedCents,
		&i.CloseDay,
		&i.DueDay,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listCardsByOwner = `SELECT ` + cardColumns + `
FROM credit_cards
WHERE owner_id = ?
ORDER BY name ASC, id ASC`

func (q *Queries) ListCardsByOwner(ctx context.Context, ownerID string) ([]CreditCard, error) {
	rows, err := q.db.QueryContext(ctx, listCardsByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CreditCard
	for rows.Next() {
		i, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getCard = `SELECT ` + cardColumns + `
FROM credit_cards
WHERE owner_id = ? AND id = ?`

func (q *Queries) GetCard(ctx context.Context, ownerID, id string) (CreditCard, error) {
	return scanCard(q.db.QueryRowContext(ctx, getCard, ownerID, id))
}

const createCard = `INSERT INTO credit_cards (` + cardColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateCard(ctx context.Context, arg CreditCard) error {
	_, err := q.db.ExecContext(ctx, createCard,
		arg.ID,
		arg.OwnerID,
		arg.Name,
		arg.Brand,
		arg.LastDigits,
		arg.LimitCents,
		arg.UsedCents,
		arg.CloseDay,
		arg.DueDay,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const updateCard = `UPDATE credit_cards
SET name = ?, brand = ?, last_digits = ?, limit_cents = ?, used_cents = ?, close_day = ?, due_day = ?, updated_at = ?
WHERE owner_id = ? AND id = ?`

func (q *Queries) UpdateCard(ctx context.Context, arg CreditCard) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateCard,
		arg.Name,
		arg.Brand,
		arg.LastDigits,
		arg.LimitCents,
		arg.UsedCents,
		arg.CloseDay,
		arg.DueDay,
		arg.UpdatedAt,
		arg.OwnerID,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteCard = `DELETE FROM credit_cards WHERE owner_id = ? AND id = ?`

func (q *Queries) DeleteCard(ctx context.Context, ownerID, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteCard, ownerID, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getProfile = `SELECT uid, name, email, picture, created_at, updated_at
FROM profiles
WHERE uid = ?`

func (q *Queries) GetProfile(ctx context.Context, uid string) (Profile, error) {
	var i Profile
	err := q.db.QueryRowContext(ctx, getProfile, uid).Scan(
		&i.Uid,
		&i.Name,
		&i.Email,
		&i.Picture,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertProfile = `INSERT INTO profiles (uid, name, email, picture, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (uid) DO UPDATE SET
    name = excluded.name,
    email = excluded.email,
    picture = excluded.picture,
    updated_at = excluded.updated_at`

func (q *Queries) UpsertProfile(ctx context.Context, arg Profile) error {
	_, err := q.db.ExecContext(ctx, upsertProfile,
		arg.Uid,
		arg.Name,
		arg.Email,
		arg.Picture,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}
