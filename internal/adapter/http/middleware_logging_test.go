package adapthttp

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"njaboot/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	s := &Server{
		log:     logger.New(logger.Options{Level: zerolog.InfoLevel, Output: &buf}),
		metrics: newMetrics(prometheus.NewRegistry()),
	}
	// Create a dummy handler
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("OK"))
	})

	handler := s.requestID(s.loggingMiddleware(nextHandler))

	req := httptest.NewRequest("GET", "/test-path", nil)
	req.Header.Set("X-Request-Id", "req-42")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("Expected status %d, got %d", http.StatusTeapot, w.Code)
	}
	if w.Header().Get("X-Request-Id") != "req-42" {
		t.Errorf("request id not echoed")
	}

	logOutput := buf.String()
	for _, want := range []string{`"method":"GET"`, `"path":"/test-path"`, `"status":418`, `"request_id":"req-42"`} {
		if !strings.Contains(logOutput, want) {
			t.Errorf("Log output missing %s. Got: %s", want, logOutput)
		}
	}
}

func TestRecoverer(t *testing.T) {
	s := &Server{}
	handler := s.recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "internal error") {
		t.Fatalf("unexpected body %q", w.Body.String())
	}
}
