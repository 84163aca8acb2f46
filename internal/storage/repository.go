// Package storage is the SQLite backend. The schema lives in migrations/ and
// is applied on open.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"financas/internal/core"
	applog "financas/internal/log"
	"financas/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.Store = (*SQLiteRepository)(nil)

// Fixed width so that created_at sorts as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     time.Now,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Transactions

func (r *SQLiteRepository) ListTransactions(ctx context.Context, ownerID string, f store.TransactionFilter) ([]core.Transaction, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	var (
		rows []Transaction
		err  error
	)
	if f.Period != "" {
		rows, err = r.queries.ListTransactionsByPeriod(ctx, ownerID, f.Period)
	} else {
		rows, err = r.queries.ListTransactionsByOwner(ctx, ownerID)
	}
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := r.toTransaction(row)
		if err != nil {
			logger().WarnContext(ctx, "Skipping unreadable transaction row", "id", row.ID, "error", err)
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, ownerID, id string) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, ownerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return r.toTransaction(row)
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (string, error) {
	if err := requireOwner(t.OwnerID); err != nil {
		return "", err
	}
	ts := stamp(r.now())
	row := fromTransaction(t)
	row.ID = uuid.NewString()
	row.CreatedAt = ts
	row.UpdatedAt = ts

	if err := r.queries.CreateTransaction(ctx, row); err != nil {
		return "", fmt.Errorf("create transaction: %w", err)
	}

	logger().InfoContext(ctx, "Transaction saved to SQLite",
		"id", row.ID,
		"period", row.YearMonth,
		"type", row.Type,
		"amount_cents", row.AmountCents)
	return row.ID, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := requireOwner(t.OwnerID); err != nil {
		return err
	}
	row := fromTransaction(t)
	row.UpdatedAt = stamp(r.now())

	n, err := r.queries.UpdateTransaction(ctx, row)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", t.ID, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	n, err := r.queries.DeleteTransaction(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	logger().InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

func fromTransaction(t core.Transaction) Transaction {
	return Transaction{
		ID:            t.ID,
		OwnerID:       t.OwnerID,
		Description:   t.Description,
		Category:      t.Category,
		AmountCents:   t.Amount.Cents,
		OccurredOn:    t.Date.String(),
		YearMonth:     t.Period(),
		PaymentMethod: string(t.PaymentMethod),
		Type:          string(t.Type),
	}
}

func (r *SQLiteRepository) toTransaction(row Transaction) (core.Transaction, error) {
	date, ok := core.ParseDate(row.OccurredOn)
	if !ok {
		return core.Transaction{}, fmt.Errorf("%w: %q", core.ErrInvalidDate, row.OccurredOn)
	}
	return core.Transaction{
		ID:            row.ID,
		OwnerID:       row.OwnerID,
		Description:   row.Description,
		Category:      row.Category,
		Amount:        core.Money{Cents: row.AmountCents},
		Date:          date,
		PaymentMethod: core.PaymentMethod(row.PaymentMethod),
		Type:          core.TransactionType(row.Type),
		CreatedAt:     r.parseStamp(row.CreatedAt),
		UpdatedAt:     r.parseStamp(row.UpdatedAt),
	}, nil
}

// Recurring expenses

func (r *SQLiteRepository) ListRecurring(ctx context.Context, ownerID string) ([]core.RecurringExpense, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	rows, err := r.queries.ListRecurringByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list recurring expenses: %w", err)
	}
	out := make([]core.RecurringExpense, 0, len(rows))
	for _, row := range rows {
		rec, err := r.toRecurring(row)
		if err != nil {
			logger().WarnContext(ctx, "Skipping unreadable recurring row", "id", row.ID, "error", err)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *SQLiteRepository) GetRecurring(ctx context.Context, ownerID, id string) (core.RecurringExpense, error) {
	row, err := r.queries.GetRecurring(ctx, ownerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.RecurringExpense{}, fmt.Errorf("recurring expense %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("get recurring expense: %w", err)
	}
	return r.toRecurring(row)
}

func (r *SQLiteRepository) CreateRecurring(ctx context.Context, rec core.RecurringExpense) (string, error) {
	if err := requireOwner(rec.OwnerID); err != nil {
		return "", err
	}
	ts := stamp(r.now())
	row := RecurringExpense{
		ID:          uuid.NewString(),
		OwnerID:     rec.OwnerID,
		Name:        rec.Name,
		Category:    rec.Category,
		AmountCents: rec.Amount.Cents,
		Frequency:   rec.Frequency,
		NextDueDate: rec.NextDueDate.String(),
		Status:      string(rec.Status),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if err := r.queries.CreateRecurring(ctx, row); err != nil {
		return "", fmt.Errorf("create recurring expense: %w", err)
	}
	logger().InfoContext(ctx, "Recurring expense saved to SQLite", "id", row.ID, "name", row.Name)
	return row.ID, nil
}

func (r *SQLiteRepository) UpdateRecurringStatus(ctx context.Context, ownerID, id string, status core.RecurringStatus) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	n, err := r.queries.UpdateRecurringStatus(ctx, string(status), stamp(r.now()).String, ownerID, id)
	if err != nil {
		return fmt.Errorf("update recurring status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("recurring expense %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteRecurring(ctx context.Context, ownerID, id string) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	n, err := r.queries.DeleteRecurring(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete recurring expense: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("recurring expense %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) toRecurring(row RecurringExpense) (core.RecurringExpense, error) {
	due, ok := core.ParseDate(row.NextDueDate)
	if !ok {
		return core.RecurringExpense{}, fmt.Errorf("%w: %q", core.ErrInvalidDate, row.NextDueDate)
	}
	return core.RecurringExpense{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		Name:        row.Name,
		Category:    row.Category,
		Amount:      core.Money{Cents: row.AmountCents},
		Frequency:   row.Frequency,
		NextDueDate: due,
		Status:      core.RecurringStatus(row.Status),
		CreatedAt:   r.parseStamp(row.CreatedAt),
		UpdatedAt:   r.parseStamp(row.UpdatedAt),
	}, nil
}

// Credit cards

func (r *SQLiteRepository) ListCards(ctx context.Context, ownerID string) ([]core.CreditCard, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	rows, err := r.queries.ListCardsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	out := make([]core.CreditCard, len(rows))
	for i, row := range rows {
		out[i] = r.toCard(row)
	}
	return out, nil
}

func (r *SQLiteRepository) GetCard(ctx context.Context, ownerID, id string) (core.CreditCard, error) {
	row, err := r.queries.GetCard(ctx, ownerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.CreditCard{}, fmt.Errorf("card %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.CreditCard{}, fmt.Errorf("get card: %w", err)
	}
	return r.toCard(row), nil
}

func (r *SQLiteRepository) CreateCard(ctx context.Context, c core.CreditCard) (string, error) {
	if err := requireOwner(c.OwnerID); err != nil {
		return "", err
	}
	ts := stamp(r.now())
	row := fromCard(c)
	row.ID = uuid.NewString()
	row.CreatedAt = ts
	row.UpdatedAt = ts
	if err := r.queries.CreateCard(ctx, row); err != nil {
		return "", fmt.Errorf("create card: %w", err)
	}
	logger().InfoContext(ctx, "Card saved to SQLite", "id", row.ID, "brand", row.Brand)
	return row.ID, nil
}

func (r *SQLiteRepository) UpdateCard(ctx context.Context, c core.CreditCard) error {
	if err := requireOwner(c.OwnerID); err != nil {
		return err
	}
	row := fromCard(c)
	row.UpdatedAt = stamp(r.now())
	n, err := r.queries.UpdateCard(ctx, row)
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("card %s: %w", c.ID, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteCard(ctx context.Context, ownerID, id string) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	n, err := r.queries.DeleteCard(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("card %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func fromCard(c core.CreditCard) CreditCard {
	return CreditCard{
		ID:         c.ID,
		OwnerID:    c.OwnerID,
		Name:       c.Name,
		Brand:      string(c.Brand),
		LastDigits: c.LastDigits,
		LimitCents: c.Limit.Cents,
		UsedCents:  c.Used.Cents,
		CloseDay:   int64(c.CloseDay),
		DueDay:     int64(c.DueDay),
	}
}

func (r *SQLiteRepository) toCard(row CreditCard) core.CreditCard {
	return core.CreditCard{
		ID:         row.ID,
		OwnerID:    row.OwnerID,
		Name:       row.Name,
		Brand:      core.CardBrand(row.Brand),
		LastDigits: row.LastDigits,
		Limit:      core.Money{Cents: row.LimitCents},
		Used:       core.Money{Cents: row.UsedCents},
		CloseDay:   int(row.CloseDay),
		DueDay:     int(row.DueDay),
		CreatedAt:  r.parseStamp(row.CreatedAt),
		UpdatedAt:  r.parseStamp(row.UpdatedAt),
	}
}

// Profiles

func (r *SQLiteRepository) GetProfile(ctx context.Context, uid string) (core.Profile, error) {
	row, err := r.queries.GetProfile(ctx, uid)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Profile{}, fmt.Errorf("profile %s: %w", uid, core.ErrNotFound)
	}
	if err != nil {
		return core.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return core.Profile{
		UID:       row.Uid,
		Name:      row.Name,
		Email:     row.Email,
		Picture:   row.Picture,
		CreatedAt: r.parseStamp(row.CreatedAt),
		UpdatedAt: r.parseStamp(row.UpdatedAt),
	}, nil
}

func (r *SQLiteRepository) UpsertProfile(ctx context.Context, p core.Profile) error {
	if err := requireOwner(p.UID); err != nil {
		return err
	}
	ts := stamp(r.now())
	err := r.queries.UpsertProfile(ctx, Profile{
		Uid:       p.UID,
		Name:      p.Name,
		Email:     p.Email,
		Picture:   p.Picture,
		CreatedAt: ts,
		UpdatedAt: ts,
	})
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func requireOwner(ownerID string) error {
	if ownerID == "" {
		return core.ErrNoOwner
	}
	return nil
}

func stamp(t time.Time) sql.NullString {
	return sql.NullString{String: t.UTC().Format(timestampLayout), Valid: true}
}

// parseStamp reads a stored timestamp. Missing or malformed values read as now.
func (r *SQLiteRepository) parseStamp(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return r.now()
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return r.now()
	}
	return t
}

func logger() *slog.Logger {
	return slog.With(applog.FieldComponent, applog.ComponentStorage)
}
