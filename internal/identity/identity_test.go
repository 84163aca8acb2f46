package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const secret = "0123456789abcdef0123456789abcdef"

func sign(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestVerifier_Verify(t *testing.T) {
	now := time.Now()
	v := NewVerifier(secret, "")

	valid := sign(t, secret, jwt.MapClaims{
		"sub":     "owner-1",
		"name":    "Ana",
		"email":   "ana@example.com",
		"picture": "https://example.com/a.png",
		"exp":     now.Add(time.Hour).Unix(),
	})

	id, err := v.Verify(valid)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.OwnerID != "owner-1" || id.Name != "Ana" || id.Email != "ana@example.com" {
		t.Fatalf("unexpected identity %+v", id)
	}
	p := id.Profile()
	if p.UID != "owner-1" || p.Picture != "https://example.com/a.png" {
		t.Fatalf("unexpected profile %+v", p)
	}

	// second call is served from the cache
	if _, ok := v.cache.Get(valid); !ok {
		t.Fatal("verified token should be cached")
	}
	if again, err := v.Verify(valid); err != nil || again.OwnerID != "owner-1" {
		t.Fatalf("cached Verify = %+v, %v", again, err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"wrong key", sign(t, "another-secret-another-secret-xx", jwt.MapClaims{"sub": "x", "exp": now.Add(time.Hour).Unix()})},
		{"expired", sign(t, secret, jwt.MapClaims{"sub": "x", "exp": now.Add(-time.Minute).Unix()})},
		{"no subject", sign(t, secret, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestVerifier_Issuer(t *testing.T) {
	v := NewVerifier(secret, "https://id.example.com")
	exp := time.Now().Add(time.Hour).Unix()

	if _, err := v.Verify(sign(t, secret, jwt.MapClaims{"sub": "a", "exp": exp, "iss": "https://other"})); err == nil {
		t.Error("wrong issuer should be rejected")
	}
	if _, err := v.Verify(sign(t, secret, jwt.MapClaims{"sub": "a", "exp": exp, "iss": "https://id.example.com"})); err != nil {
		t.Errorf("matching issuer: %v", err)
	}
}

func TestVerifier_RejectsNoneAlgorithm(t *testing.T) {
	v := NewVerifier(secret, "")
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "a"})
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := v.Verify(s); err == nil {
		t.Fatal("alg none must be rejected")
	}
}

func TestMiddleware(t *testing.T) {
	v := NewVerifier(secret, "")
	var seen string
	h := Middleware(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = OwnerID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	token := sign(t, secret, jwt.MapClaims{"sub": "owner-7", "exp": time.Now().Add(time.Hour).Unix()})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"basic auth", "Basic Zm9vOmJhcg==", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusNoContent},
		{"lowercase scheme", "bearer " + token, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusNoContent && seen != "owner-7" {
				t.Errorf("owner in context = %q", seen)
			}
		})
	}
}

func TestOwnerID_Unauthenticated(t *testing.T) {
	if got := OwnerID(context.Background()); got != "" {
		t.Errorf("OwnerID = %q, want empty", got)
	}
}
