package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestRequestID tests header passthrough and generation.
func TestRequestID(t *testing.T) {
	t.Run("generates id when absent", func(t *testing.T) {
		var captured string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured = GetRequestID(r.Context())
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if captured == "" {
			t.Error("expected generated request id in context")
		}
		if rec.Header().Get(RequestIDHeader) != captured {
			t.Error("response header must carry the same id")
		}
	})

	t.Run("preserves incoming id", func(t *testing.T) {
		var captured string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured = GetRequestID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if captured != "req-42" {
			t.Errorf("request id = %q, want req-42", captured)
		}
	})
}

// TestLogging tests structured request logging with error codes.
func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := SetErrorCode(r.Context(), "not_found")
		UpdateResponseContext(w, ctx)
		w.WriteHeader(http.StatusNotFound)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/locations/missing", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if entry["status"] != float64(http.StatusNotFound) {
		t.Errorf("status = %v, want 404", entry["status"])
	}
	if entry["error_code"] != "not_found" {
		t.Errorf("error_code = %v, want not_found", entry["error_code"])
	}
	if entry["level"] != "WARN" {
		t.Errorf("level = %v, want WARN for 4xx", entry["level"])
	}
}

// TestGetErrorCodeMissing tests the empty default.
func TestGetErrorCodeMissing(t *testing.T) {
	if got := GetErrorCode(context.Background()); got != "" {
		t.Errorf("GetErrorCode on empty context = %q, want empty", got)
	}
}

// TestNewLogger tests handler selection by environment.
func TestNewLogger(t *testing.T) {
	if NewLogger("production") == nil || NewLogger("development") == nil {
		t.Fatal("NewLogger returned nil")
	}
}

// TestNormalizePath tests route pattern normalization.
func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/", "/"},
		{"/locations", "/locations"},
		{"/locations/abc-123", "/locations/{id}"},
		{"/locations/abc-123/evaluation", "/locations/{id}/evaluation"},
		{"/locations/abc-123/financials", "/locations/{id}/financials"},
		{"/locations/abc-123/ratings/general", "/locations/{id}/ratings/general"},
		{"/locations/abc-123/ratings/module", "/locations/{id}/ratings/module"},
		{"/health", "/health"},
		{"/unknown/route", "/unknown/route"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.expected)
		}
	}
}

// TestHTTPMetricsSkipsHealth verifies health traffic is not recorded.
func TestHTTPMetricsSkipsHealth(t *testing.T) {
	metrics := NewMetrics()
	var served bool
	handler := HTTPMetrics(metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = true
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	if !served {
		t.Error("health request must still reach the handler")
	}
}

// TestResponseWriterDoubleWriteHeader verifies only the first status
// sticks.
func TestResponseWriterDoubleWriteHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.WriteHeader(http.StatusCreated)
	rw.WriteHeader(http.StatusInternalServerError)

	if rw.statusCode != http.StatusCreated {
		t.Errorf("status = %d, want first write (201) to stick", rw.statusCode)
	}
	if _, err := rw.Write([]byte("body")); err != nil {
		t.Fatal(err)
	}
	if rw.size != 4 {
		t.Errorf("size = %d, want 4", rw.size)
	}
	if !strings.Contains(rec.Body.String(), "body") {
		t.Error("body not written through")
	}
}
