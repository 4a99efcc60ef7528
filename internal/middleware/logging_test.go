package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// =============================================================================
// Request Logging Middleware Tests
// =============================================================================

func TestRequestLoggingMiddleware_LogsBasicInfo(t *testing.T) {
	var buf bytes.Buffer
	mw := NewRequestLoggingMiddleware(slog.New(slog.NewTextHandler(&buf, nil)))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/inspections/{id}/progress", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/inspections/ASM-7/progress", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	req.Header.Set("User-Agent", "field-tablet/2.1")
	rec := httptest.NewRecorder()

	mw.Handler(mux).ServeHTTP(rec, req)

	logOutput := buf.String()
	for _, want := range []string{
		"method=GET",
		"path=/api/inspections/ASM-7/progress",
		"status=200",
		"duration_ms=",
		"ip=192.168.1.1",
		"field-tablet/2.1",
		"inspection_id=ASM-7",
		"request_id=",
	} {
		if !strings.Contains(logOutput, want) {
			t.Errorf("log should contain %q, got: %s", want, logOutput)
		}
	}
}

func TestRequestLoggingMiddleware_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "level=INFO"},
		{http.StatusNotFound, "level=WARN"},
		{http.StatusInternalServerError, "level=ERROR"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		mw := NewRequestLoggingMiddleware(slog.New(slog.NewTextHandler(&buf, nil)))
		handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/x", nil))

		if !strings.Contains(buf.String(), tt.level) {
			t.Errorf("status %d: expected %s, got: %s", tt.status, tt.level, buf.String())
		}
	}
}

func TestRequestLoggingMiddleware_RequestID(t *testing.T) {
	mw := NewRequestLoggingMiddleware(discardLogger())

	var seen string
	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil))

		if seen == "" {
			t.Fatal("expected a request id in the context")
		}
		if rec.Header().Get(RequestIDHeader) != seen {
			t.Errorf("expected response header %q, got %q", seen, rec.Header().Get(RequestIDHeader))
		}
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/x", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if seen != "abc-123" {
			t.Errorf("expected propagated id, got %q", seen)
		}
	})
}

func TestRequestLoggingMiddleware_DoesNotLogSensitiveQueryParams(t *testing.T) {
	var buf bytes.Buffer
	mw := NewRequestLoggingMiddleware(slog.New(slog.NewTextHandler(&buf, nil)))
	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/files/a.jpg?X-Amz-Signature=deadbeef&token=secret123&page=2", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	logOutput := buf.String()
	if strings.Contains(logOutput, "deadbeef") || strings.Contains(logOutput, "secret123") {
		t.Errorf("log should not contain sensitive values, got: %s", logOutput)
	}
	if !strings.Contains(logOutput, "[REDACTED]") {
		t.Errorf("log should show redaction, got: %s", logOutput)
	}
	if !strings.Contains(logOutput, "page=2") {
		t.Errorf("log should keep other params, got: %s", logOutput)
	}
}

func TestRequestLoggingMiddleware_SkipsHealthAndMetrics(t *testing.T) {
	for _, path := range []string{"/health", "/metrics"} {
		var buf bytes.Buffer
		mw := NewRequestLoggingMiddleware(slog.New(slog.NewTextHandler(&buf, nil)))

		called := false
		handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))

		if !called {
			t.Errorf("%s: handler should be called", path)
		}
		if buf.Len() != 0 {
			t.Errorf("%s: should not be logged, got: %s", path, buf.String())
		}
	}
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		path, query, want string
	}{
		{"/a", "", "/a"},
		{"/a", "page=1", "/a?page=1"},
		{"/a", "key=abc", "/a?key=[REDACTED]"},
		{"/a", "novalue", "/a"},
	}

	for _, tt := range tests {
		if got := sanitizePath(tt.path, tt.query); got != tt.want {
			t.Errorf("sanitizePath(%q, %q) = %q, want %q", tt.path, tt.query, got, tt.want)
		}
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), tag("outer"), tag("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(order, ",") != "outer,inner,handler" {
		t.Errorf("unexpected order: %v", order)
	}
}
