package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHeadersMiddleware(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	want := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
		"Cache-Control":           "no-store",
	}
	for k, v := range want {
		if got := rec.Header().Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Errorf("HSTS must not be sent over plain HTTP")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.TLS = &tls.ConnectionState{}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Strict-Transport-Security"); got != "max-age=31536000; includeSubDomains" {
		t.Errorf("HSTS = %q", got)
	}
}

func TestDetector_ExtractClientIP(t *testing.T) {
	d := NewDetector()
	tests := []struct {
		name   string
		remote string
		xff    string
		xri    string
		want   string
	}{
		{"direct client", "203.0.113.7:5555", "", "", "203.0.113.7"},
		{"spoofed header from untrusted peer", "203.0.113.7:5555", "1.2.3.4", "", "203.0.113.7"},
		{"forwarded by trusted proxy", "10.0.0.2:80", "198.51.100.1, 10.0.0.2", "", "198.51.100.1"},
		{"real ip from trusted proxy", "127.0.0.1:80", "", "198.51.100.9", "198.51.100.9"},
		{"garbage header", "10.0.0.2:80", "not-an-ip", "", "10.0.0.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := d.ExtractClientIP(r); got != tt.want {
				t.Errorf("ExtractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
	if err := d.AddTrustedProxy("nonsense"); err == nil {
		t.Error("invalid CIDR should be rejected")
	}
}

func TestDetector_IsSuspicious(t *testing.T) {
	d := NewDetector()
	tests := []struct {
		method, target string
		want           bool
	}{
		{http.MethodGet, "/api/transactions?period=2025-01", false},
		{http.MethodGet, "/.env", true},
		{http.MethodGet, "/api/transactions?q=1%27%20UNION%20SELECT", true},
		{"TRACE", "/", true},
	}
	for _, tt := range tests {
		if got := d.IsSuspicious(httptest.NewRequest(tt.method, tt.target, nil)); got != tt.want {
			t.Errorf("IsSuspicious(%s %s) = %v, want %v", tt.method, tt.target, got, tt.want)
		}
	}
	if d.SuspiciousRequests() != 3 {
		t.Errorf("SuspiciousRequests() = %d, want 3", d.SuspiciousRequests())
	}
}
