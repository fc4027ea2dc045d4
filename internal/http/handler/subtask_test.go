package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sjyoon/taskhub-api/internal/http/handler"
	"github.com/sjyoon/taskhub-api/internal/model"
)

// seedSubtask creates a subtask through the todo handler so the shared
// manager's snapshot contains it.
func seedSubtask(t *testing.T, todos *handler.TodoHandler) model.Subtask {
	t.Helper()
	rec := httptest.NewRecorder()
	todos.ServeHTTP(rec, authedRequest("POST", "/api/v1/todos/todo-1/subtasks",
		`{"title":"Draft outline"}`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed subtask status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var created model.Subtask
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return created
}

func TestSubtaskHandler_Update(t *testing.T) {
	m := testManager(nil)
	seeded := seedSubtask(t, handler.NewTodoHandler(m))
	h := handler.NewSubtaskHandler(m)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest("PATCH", "/api/v1/subtasks/"+seeded.ID,
		`{"completed":true}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var updated model.Subtask
	if err := json.NewDecoder(rec.Body).Decode(&updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !updated.Completed {
		t.Error("subtask not completed")
	}
}

func TestSubtaskHandler_Delete(t *testing.T) {
	m := testManager(nil)
	seeded := seedSubtask(t, handler.NewTodoHandler(m))
	h := handler.NewSubtaskHandler(m)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest("DELETE", "/api/v1/subtasks/"+seeded.ID, ""))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest("DELETE", "/api/v1/subtasks/"+seeded.ID, ""))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("repeat delete status = %d, want 404", rec.Code)
	}
}

func TestSubtaskHandler_Unknown(t *testing.T) {
	h := handler.NewSubtaskHandler(testManager(nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest("PATCH", "/api/v1/subtasks/sub-x", `{"completed":true}`))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest("PUT", "/api/v1/subtasks/sub-1", `{}`))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("PUT status = %d, want 405", rec.Code)
	}
}
