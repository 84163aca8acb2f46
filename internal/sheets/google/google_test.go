package google

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"financas/internal/core"
)

func sampleTransaction() core.Transaction {
	return core.Transaction{
		ID:            "tx-1",
		OwnerID:       "owner-1",
		Description:   "=HYPERLINK(\"x\")",
		Category:      "Alimentação",
		Amount:        core.Money{Cents: -24580},
		Date:          core.NewDate(2025, 1, 29),
		PaymentMethod: core.PaymentPix,
		Type:          core.Expense,
	}
}

func TestRow(t *testing.T) {
	got := Row(sampleTransaction())
	want := []any{"2025-01-29", "'=HYPERLINK(\"x\")", "Alimentação", -245.8, "expense", "pix", "owner-1", "tx-1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Row() mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_Validation(t *testing.T) {
	ctx := context.Background()
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	if _, err := New(ctx, Options{SheetName: "Transações", CredentialsJSON: "{}"}); err == nil || !strings.Contains(err.Error(), "spreadsheet id") {
		t.Errorf("expected missing spreadsheet id, got %v", err)
	}
	if _, err := New(ctx, Options{SpreadsheetID: "id"}); err == nil || !strings.Contains(err.Error(), "sheet name") {
		t.Errorf("expected missing sheet name, got %v", err)
	}
	if _, err := New(ctx, Options{SpreadsheetID: "id", SheetName: "Transações"}); err == nil || !strings.Contains(err.Error(), "credentials") {
		t.Errorf("expected missing credentials, got %v", err)
	}
	_, err := New(ctx, Options{SpreadsheetID: "id", SheetName: "Transações", CredentialsFile: "/non/existent.json"})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestLoadCredentials_Precedence(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(file, []byte(`{"from":"file"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := loadCredentials(ctx, Options{CredentialsJSON: `{"from":"inline"}`, CredentialsFile: file})
	if err != nil || string(got) != `{"from":"inline"}` {
		t.Errorf("inline JSON should win, got %s, %v", got, err)
	}

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", file)
	got, err = loadCredentials(ctx, Options{})
	if err != nil || string(got) != `{"from":"file"}` {
		t.Errorf("GOOGLE_APPLICATION_CREDENTIALS fallback, got %s, %v", got, err)
	}
}

func TestClient_Append(t *testing.T) {
	var (
		gotPath  string
		gotQuery string
		gotBody  gsheet.ValueRange
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"spreadsheetId":"sheet-1","updates":{"updatedRange":"Transações!A7:H7","updatedRows":1}}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	svc, err := gsheet.NewService(ctx,
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	c := newClient(svc, "sheet-1", "Transações")

	ref, err := c.Append(ctx, sampleTransaction())
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if ref != "Transações!A7:H7" {
		t.Errorf("ref = %q", ref)
	}
	if !strings.Contains(gotPath, "/spreadsheets/sheet-1/values/") || !strings.HasSuffix(gotPath, ":append") {
		t.Errorf("unexpected path %q", gotPath)
	}
	if !strings.Contains(gotQuery, "valueInputOption=USER_ENTERED") || !strings.Contains(gotQuery, "insertDataOption=INSERT_ROWS") {
		t.Errorf("unexpected query %q", gotQuery)
	}
	if len(gotBody.Values) != 1 || len(gotBody.Values[0]) != 8 {
		t.Fatalf("expected one row of 8 cells, got %v", gotBody.Values)
	}
	if gotBody.Values[0][1] != "'=HYPERLINK(\"x\")" {
		t.Errorf("description must be formula safe, got %v", gotBody.Values[0][1])
	}
}

func TestClient_AppendRejectsInvalid(t *testing.T) {
	c := &Client{spreadsheetID: "test"}

	tx := sampleTransaction()
	tx.Description = ""
	if _, err := c.Append(context.Background(), tx); !errors.Is(err, core.ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}
	if _, err := c.Append(context.Background(), sampleTransaction()); err == nil {
		t.Fatal("expected an error without a service")
	}
}
