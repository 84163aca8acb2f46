package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogger_Component(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Component: ComponentImport, Output: &buf})

	logger.InfoContext(context.Background(), "CSV import finished", FieldImported, 2)
	out := buf.String()
	if !strings.Contains(out, "component=import") || !strings.Contains(out, "imported=2") {
		t.Errorf("unexpected output %q", out)
	}

	buf.Reset()
	logger.WithComponent(ComponentWorker).With(FieldOwnerID, "u1").WarnContext(context.Background(), "retrying")
	out = buf.String()
	if !strings.Contains(out, "component=worker") || !strings.Contains(out, "owner_id=u1") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithOwner("u1").
		WithTransaction("tx-1", "2025-01", -24580, "Alimentação").
		WithImport(2, 1, "imported").
		WithError(errors.New("boom")).
		WithRequestID("")

	if len(f.ToSlice()) != len(f)*2 {
		t.Fatalf("ToSlice should alternate keys and values")
	}
	if f[FieldAmountCents] != int64(-24580) || f[FieldError] != "boom" {
		t.Errorf("unexpected fields %v", f)
	}
	if _, ok := f[FieldRequestID]; ok {
		t.Errorf("empty request id should be omitted")
	}
}

func TestMiddleware_RequestScopedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf})

	handler := Middleware(logger)(RequestIDMiddleware(func(*http.Request) string { return "req-42" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			FromContext(r.Context()).InfoContext(r.Context(), "inside handler")
		})))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(buf.String(), "request_id=req-42") {
		t.Errorf("request id missing from %q", buf.String())
	}
}

func TestStructuredLogger_LevelByStatus(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Output: &buf}))
	r := httptest.NewRequest(http.MethodGet, "/api/dashboard?months=3", nil)

	sl.LogHTTPEnd(context.Background(), r, "req-1", http.StatusNotFound, 3, "10.0.0.1")
	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "status_code=404") {
		t.Errorf("4xx should log at warn, got %q", buf.String())
	}
	buf.Reset()
	sl.LogHTTPEnd(context.Background(), r, "req-1", http.StatusInternalServerError, 3, "10.0.0.1")
	if !strings.Contains(buf.String(), "level=ERROR") {
		t.Errorf("5xx should log at error, got %q", buf.String())
	}
}

func TestFromContext_Default(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext must never return nil")
	}
}
