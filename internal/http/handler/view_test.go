package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sjyoon/taskhub-api/internal/engine"
	"github.com/sjyoon/taskhub-api/internal/http/handler"
	"github.com/sjyoon/taskhub-api/internal/model"
)

func TestViewHandler(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"default all", "", []string{"todo-1", "todo-2"}},
		{"pending", "?view=pending", []string{"todo-1", "todo-2"}},
		{"completed empty", "?view=completed", nil},
		{"search", "?q=report", []string{"todo-1"}},
		{"priority filter", "?priority=low", []string{"todo-2"}},
		{"priority sort", "?sort=priority", []string{"todo-1", "todo-2"}},
	}

	h := handler.NewViewHandler(testManager(nil))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, authedRequest("GET", "/api/v1/view"+tt.query, ""))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
			}
			var body struct {
				Todos []model.TodoDetails `json:"todos"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(body.Todos) != len(tt.wantIDs) {
				t.Fatalf("got %d todos, want %d", len(body.Todos), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if body.Todos[i].ID != want {
					t.Errorf("todos[%d] = %q, want %q", i, body.Todos[i].ID, want)
				}
			}
		})
	}
}

func TestViewHandler_InvalidParams(t *testing.T) {
	h := handler.NewViewHandler(testManager(nil))

	for _, query := range []string{"?view=bogus", "?priority=extreme", "?sort=alphabetical"} {
		t.Run(query, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, authedRequest("GET", "/api/v1/view"+query, ""))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if code := decodeError(t, rec); code != "INVALID_INPUT" {
				t.Errorf("error code = %q, want INVALID_INPUT", code)
			}
		})
	}
}

func TestViewHandler_MethodNotAllowed(t *testing.T) {
	h := handler.NewViewHandler(testManager(nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest("POST", "/api/v1/view", ""))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestStatsHandler(t *testing.T) {
	h := handler.NewStatsHandler(testManager(nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest("GET", "/api/v1/stats", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var stats engine.Stats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.Total != 2 || stats.Pending != 2 {
		t.Errorf("stats = %+v, want total 2 pending 2", stats)
	}
	if stats.PriorityCounts.High != 1 || stats.PriorityCounts.Low != 1 {
		t.Errorf("priority counts = %+v", stats.PriorityCounts)
	}
}
