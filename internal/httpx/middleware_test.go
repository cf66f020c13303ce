package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{
			name: "request ID exists",
			ctx:  context.WithValue(context.Background(), requestIDContextKey, "test-123"),
			want: "test-123",
		},
		{
			name: "request ID missing",
			ctx:  context.Background(),
			want: "",
		},
		{
			name: "wrong type in context",
			ctx:  context.WithValue(context.Background(), requestIDContextKey, 12345),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetRequestID(tt.ctx); got != tt.want {
				t.Errorf("GetRequestID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChain(t *testing.T) {
	var calls []string

	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls = append(calls, name+"-before")
				next.ServeHTTP(w, r)
				calls = append(calls, name+"-after")
			})
		}
	}

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "handler")
	})

	Chain(mw("m1"), mw("m2"), mw("m3"))(final).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	expected := []string{"m1-before", "m2-before", "m3-before", "handler", "m3-after", "m2-after", "m1-after"}
	if !slices.Equal(calls, expected) {
		t.Errorf("calls = %v, want %v", calls, expected)
	}
}

func TestChain_Empty(t *testing.T) {
	called := false
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	Chain()(final).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if !called {
		t.Error("handler should be called even with no middleware")
	}
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{name: "generates when missing", header: ""},
		{name: "keeps caller id", header: "existing-request-id-123", wantSame: true},
		{name: "replaces overlong id", header: strings.Repeat("a", maxRequestIDLength+1)},
		{name: "replaces id with spaces", header: "has space"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r.Context())
			}))

			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Header().Get(RequestIDHeader) != seen {
				t.Errorf("header %q does not match context %q", rr.Header().Get(RequestIDHeader), seen)
			}
			if tt.wantSame {
				if seen != tt.header {
					t.Errorf("request ID = %q, want %q", seen, tt.header)
				}
				return
			}
			if _, err := uuid.Parse(seen); err != nil {
				t.Errorf("expected generated UUID, got %q: %v", seen, err)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))

	req := httptest.NewRequest("POST", "/api/v1/passwords/generate", nil)
	req = req.WithContext(WithRequestID(req.Context(), "req-1"))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log line %q: %v", buf.String(), err)
	}
	if entry["level"] != "ERROR" {
		t.Errorf("level = %v, want ERROR", entry["level"])
	}
	if entry["request_id"] != "req-1" {
		t.Errorf("request_id = %v", entry["request_id"])
	}
	if entry["status"] != float64(500) {
		t.Errorf("status = %v", entry["status"])
	}
	if entry["bytes"] != float64(4) {
		t.Errorf("bytes = %v", entry["bytes"])
	}
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	t.Run("panic becomes 500", func(t *testing.T) {
		handler := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(errors.New("securerand: read entropy: broken"))
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("expected status 500, got %d", rr.Code)
		}
		var resp ErrorResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.Error.Code != CodeInternal {
			t.Errorf("expected code %q, got %q", CodeInternal, resp.Error.Code)
		}
		if !strings.Contains(buf.String(), "panic recovered") {
			t.Error("expected panic to be logged")
		}
	})

	t.Run("headers already sent", func(t *testing.T) {
		handler := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			panic("late")
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

		if rr.Code != http.StatusOK {
			t.Errorf("expected original status 200, got %d", rr.Code)
		}
		if rr.Body.Len() != 0 {
			t.Errorf("expected no error body, got %q", rr.Body.String())
		}
	})

	t.Run("abort handler is re-panicked", func(t *testing.T) {
		handler := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		}))

		defer func() {
			if rec := recover(); rec != http.ErrAbortHandler {
				t.Errorf("recover() = %v, want http.ErrAbortHandler", rec)
			}
		}()
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	})
}

func TestCORS_AllowAllOrigins(t *testing.T) {
	handler := CORS(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://example.com")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected Access-Control-Allow-Origin '*', got %q", got)
	}
}

func TestCORS_AllowedOrigins(t *testing.T) {
	allowedOrigins := []string{"https://example.com", "https://app.example.com"}
	handler := CORS(allowedOrigins)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name        string
		origin      string
		wantAllowed bool
	}{
		{name: "allowed origin", origin: "https://example.com", wantAllowed: true},
		{name: "another allowed origin", origin: "https://app.example.com", wantAllowed: true},
		{name: "disallowed origin", origin: "https://evil.com"},
		{name: "no origin header", origin: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			allowOrigin := rr.Header().Get("Access-Control-Allow-Origin")
			if tt.wantAllowed && allowOrigin != tt.origin {
				t.Errorf("expected Access-Control-Allow-Origin %q, got %q", tt.origin, allowOrigin)
			}
			if !tt.wantAllowed && allowOrigin != "" {
				t.Errorf("expected no Access-Control-Allow-Origin, got %q", allowOrigin)
			}
		})
	}
}

func TestCORS_PreflightRequest(t *testing.T) {
	handlerCalled := false
	handler := CORS(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("OPTIONS", "/", nil))

	if handlerCalled {
		t.Error("handler should not be called for OPTIONS preflight")
	}
	if rr.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, OPTIONS" {
		t.Errorf("Access-Control-Allow-Methods = %q", got)
	}
}

func TestNoStore(t *testing.T) {
	handler := NoStore(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/", nil))

	if got := rr.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}
}

func TestResponseWriter(t *testing.T) {
	t.Run("captures first status only", func(t *testing.T) {
		rr := httptest.NewRecorder()
		wrapped := &responseWriter{ResponseWriter: rr, statusCode: http.StatusOK}

		wrapped.WriteHeader(http.StatusBadRequest)
		wrapped.WriteHeader(http.StatusInternalServerError)

		if wrapped.statusCode != http.StatusBadRequest {
			t.Errorf("statusCode = %d, want %d", wrapped.statusCode, http.StatusBadRequest)
		}
		if rr.Code != http.StatusBadRequest {
			t.Errorf("recorder code = %d, want %d", rr.Code, http.StatusBadRequest)
		}
	})

	t.Run("write implies 200 and counts bytes", func(t *testing.T) {
		rr := httptest.NewRecorder()
		wrapped := &responseWriter{ResponseWriter: rr, statusCode: http.StatusOK}

		_, _ = wrapped.Write([]byte("hello"))

		if !wrapped.wroteHeader || wrapped.statusCode != http.StatusOK {
			t.Errorf("wroteHeader = %v, statusCode = %d", wrapped.wroteHeader, wrapped.statusCode)
		}
		if wrapped.bytes != 5 {
			t.Errorf("bytes = %d, want 5", wrapped.bytes)
		}
		if wrapped.Unwrap() != rr {
			t.Error("Unwrap() should return the underlying writer")
		}
	})
}
