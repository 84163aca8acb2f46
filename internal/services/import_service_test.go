package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"financas/internal/amqp"
	"financas/internal/core"
	"financas/internal/csvimport"
	"financas/internal/store"
	"financas/internal/store/memory"
)

const statementCSV = "Data,Descrição,Categoria,Valor\n" +
	"29/01/2025,Supermercado,Alimentação,-245,80\n" +
	"28/01/2025,Salário,Renda,8500,00\n"

func newImportService(st store.TransactionStore) (*ImportService, *recordingPublisher, *countingInvalidator, *fakeArchiver) {
	pub := &recordingPublisher{}
	inv := &countingInvalidator{}
	arc := &fakeArchiver{}
	return NewImportService(st, arc, pub, inv), pub, inv, arc
}

func TestImportService_Import(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc, pub, inv, arc := newImportService(st)

	res, err := svc.Import(ctx, "u1", "extrato.csv", []byte(statementCSV))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Imported != 2 || res.Rejected != 0 || res.Outcome != csvimport.OutcomeImported {
		t.Fatalf("unexpected result %+v", res)
	}

	txs, _ := st.ListTransactions(ctx, "u1", store.TransactionFilter{Period: "2025-01"})
	if len(txs) != 2 {
		t.Fatalf("expected 2 stored rows, got %d", len(txs))
	}
	byDesc := map[string]core.Transaction{}
	for _, tx := range txs {
		byDesc[tx.Description] = tx
	}
	if got := byDesc["Supermercado"]; got.Amount.Cents != -24580 || got.Type != core.Expense {
		t.Errorf("unexpected expense row %+v", got)
	}
	if got := byDesc["Salário"]; got.Amount.Cents != 850000 || got.Type != core.Income {
		t.Errorf("unexpected income row %+v", got)
	}

	want := []amqp.Action{amqp.ActionCreated, amqp.ActionCreated, amqp.ActionImportCompleted}
	if diff := cmp.Diff(want, pub.actions()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if pub.events[2].Imported != 2 {
		t.Errorf("import.completed should carry the count, got %d", pub.events[2].Imported)
	}
	if len(inv.owners) != 1 || arc.calls != 1 {
		t.Errorf("invalidations = %v, archive calls = %d", inv.owners, arc.calls)
	}
}

func TestImportService_Outcomes(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		data string
		want csvimport.Outcome
	}{
		{"empty file", "", csvimport.OutcomeEmpty},
		{"blank lines", "\n  \n", csvimport.OutcomeEmpty},
		{"header only", "Data,Descrição,Valor\n", csvimport.OutcomeNoValidRows},
		{"all rows rejected", "Data,Descrição,Valor\nontem,Café,abc\n", csvimport.OutcomeNoValidRows},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, pub, inv, _ := newImportService(memory.New())
			res, err := svc.Import(ctx, "u1", "x.csv", []byte(tt.data))
			if err != nil {
				t.Fatalf("Import: %v", err)
			}
			if res.Outcome != tt.want || res.Imported != 0 {
				t.Fatalf("got %+v, want outcome %s", res, tt.want)
			}
			if len(pub.actions()) != 0 || len(inv.owners) != 0 {
				t.Errorf("nothing stored, nothing announced: events %v, invalidations %v", pub.actions(), inv.owners)
			}
		})
	}
}

func TestImportService_RejectsBinary(t *testing.T) {
	svc, _, _, arc := newImportService(memory.New())
	_, err := svc.Import(context.Background(), "u1", "photo.png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	if !errors.Is(err, ErrBinaryUpload) {
		t.Fatalf("expected ErrBinaryUpload, got %v", err)
	}
	if arc.calls != 0 {
		t.Errorf("binary uploads must not be archived")
	}
}

func TestImportService_Latin1(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc, _, _, _ := newImportService(st)

	data := []byte("Data;Descri\xe7\xe3o;Categoria;Valor\n03/02/2025;Caf\xe9;Alimenta\xe7\xe3o;-12,50\n")
	res, err := svc.Import(ctx, "u1", "latin1.csv", data)
	if err != nil || res.Imported != 1 {
		t.Fatalf("Import: %+v, %v", res, err)
	}
	txs, _ := st.ListTransactions(ctx, "u1", store.TransactionFilter{})
	if txs[0].Description != "Café" || txs[0].Category != "Alimentação" {
		t.Errorf("latin-1 text should be decoded, got %q / %q", txs[0].Description, txs[0].Category)
	}
}

func TestImportService_ArchiveFailureIsNotFatal(t *testing.T) {
	svc, _, _, arc := newImportService(memory.New())
	arc.err = errors.New("bucket gone")

	res, err := svc.Import(context.Background(), "u1", "extrato.csv", []byte(statementCSV))
	if err != nil || res.Imported != 2 {
		t.Fatalf("archive errors must not fail the import: %+v, %v", res, err)
	}
}

func TestImportService_StoreFailure(t *testing.T) {
	st := &countingStore{Store: memory.New(), createFail: 2}
	svc, pub, inv, _ := newImportService(st)

	res, err := svc.Import(context.Background(), "u1", "extrato.csv", []byte(statementCSV))
	var importErr *csvimport.ImportError
	if !errors.As(err, &importErr) {
		t.Fatalf("expected *csvimport.ImportError, got %v", err)
	}
	if !errors.Is(err, errStoreDown) || importErr.Imported != 1 || importErr.Line != 3 {
		t.Errorf("unexpected import error %+v", importErr)
	}
	if res.Imported != 1 {
		t.Errorf("partial result should be returned, got %+v", res)
	}
	if diff := cmp.Diff([]amqp.Action{amqp.ActionCreated}, pub.actions()); diff != "" {
		t.Errorf("only the stored row is announced (-want +got):\n%s", diff)
	}
	if len(inv.owners) != 1 {
		t.Errorf("a partial import still invalidates, got %v", inv.owners)
	}
}

// cancelAfterFirstCreate cancels the request context once the first row is
// stored and fails creates on a done context, as the SQLite driver does.
type cancelAfterFirstCreate struct {
	store.TransactionStore
	cancel context.CancelFunc
}

func (s *cancelAfterFirstCreate) CreateTransaction(ctx context.Context, t core.Transaction) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id, err := s.TransactionStore.CreateTransaction(ctx, t)
	s.cancel()
	return id, err
}

func TestImportService_SurvivesClientCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mem := memory.New()
	svc, pub, _, _ := newImportService(&cancelAfterFirstCreate{TransactionStore: mem, cancel: cancel})

	text := statementCSV + "27/01/2025,Farmácia,Saúde,-32,10\n"
	res, err := svc.Import(ctx, "u1", "extrato.csv", []byte(text))
	if err != nil {
		t.Fatalf("a cancelled request must not abort the import: %v", err)
	}
	if res.Imported != 3 || res.Outcome != csvimport.OutcomeImported {
		t.Fatalf("unexpected result %+v", res)
	}

	txs, err := mem.ListTransactions(context.Background(), "u1", store.TransactionFilter{})
	if err != nil || len(txs) != 3 {
		t.Fatalf("expected the whole file stored, got %d rows (err=%v)", len(txs), err)
	}
	want := []amqp.Action{amqp.ActionCreated, amqp.ActionCreated, amqp.ActionCreated, amqp.ActionImportCompleted}
	if diff := cmp.Diff(want, pub.actions()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestImportService_NoOwner(t *testing.T) {
	svc, _, _, _ := newImportService(memory.New())
	if _, err := svc.Import(context.Background(), "", "x.csv", []byte(statementCSV)); !errors.Is(err, core.ErrNoOwner) {
		t.Fatalf("expected ErrNoOwner, got %v", err)
	}
}
