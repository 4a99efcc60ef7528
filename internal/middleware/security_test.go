package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serveWithSecurityHeaders(secure bool, path string) *httptest.ResponseRecorder {
	mw := NewSecurityHeadersMiddleware(secure)
	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestSecurityHeadersMiddleware_SetsAllHeaders(t *testing.T) {
	rec := serveWithSecurityHeaders(false, "/api/inspections/X")

	expected := map[string]string{
		"X-Frame-Options":              "DENY",
		"X-Content-Type-Options":       "nosniff",
		"Referrer-Policy":              "no-referrer",
		"Cross-Origin-Resource-Policy": "same-site",
		"Permissions-Policy":           "geolocation=(), microphone=(), camera=()",
		"Cache-Control":                "no-store",
	}
	for header, want := range expected {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s: expected %q, got %q", header, want, got)
		}
	}
}

func TestSecurityHeadersMiddleware_HSTS(t *testing.T) {
	if got := serveWithSecurityHeaders(true, "/").Header().Get("Strict-Transport-Security"); got == "" {
		t.Error("HSTS should be set in production")
	}
	if got := serveWithSecurityHeaders(false, "/").Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS should not be set in development, got %q", got)
	}
}

func TestSecurityHeadersMiddleware_CSP(t *testing.T) {
	csp := serveWithSecurityHeaders(false, "/files/a.jpg").Header().Get("Content-Security-Policy")

	for _, directive := range []string{"default-src 'none'", "img-src 'self'", "frame-ancestors 'none'"} {
		if !strings.Contains(csp, directive) {
			t.Errorf("CSP should contain %q, got %q", directive, csp)
		}
	}
	if strings.Contains(csp, "unsafe-inline") {
		t.Errorf("CSP should not allow inline scripts, got %q", csp)
	}
}

func TestSecurityHeadersMiddleware_CacheOnlyForAPI(t *testing.T) {
	if got := serveWithSecurityHeaders(false, "/files/a.jpg").Header().Get("Cache-Control"); got != "" {
		t.Errorf("stored files should be cacheable, got Cache-Control %q", got)
	}
}
