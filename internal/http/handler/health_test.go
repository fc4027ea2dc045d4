package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sjyoon/taskhub-api/internal/http/handler"
)

func TestHealthHandler(t *testing.T) {
	h := handler.NewHealthHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", rec.Code)
	}
}
