package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sjyoon/taskhub-api/internal/engine"
	"github.com/sjyoon/taskhub-api/internal/middleware"
	"github.com/sjyoon/taskhub-api/internal/model"
	"github.com/sjyoon/taskhub-api/internal/repository"
)

// Stub repositories with overridable hooks; defaults serve a small fixture
// for user-1 and accept writes by echoing them back.

type stubTodoRepo struct {
	listErr   error
	reorderFn func(userID string, ids []string) error
}

func (s *stubTodoRepo) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	todo.ID = "todo-new"
	todo.CreatedAt = fixtureTime
	return todo, nil
}
func (s *stubTodoRepo) GetByID(ctx context.Context, userID, todoID string) (model.Todo, error) {
	return model.Todo{}, nil
}
func (s *stubTodoRepo) Update(ctx context.Context, todo model.Todo) (model.Todo, error) {
	return todo, nil
}
func (s *stubTodoRepo) SetCompleted(ctx context.Context, userID, todoID string, completed bool, completedAt *time.Time) (model.Todo, error) {
	todo := fixtureTodos()[0]
	todo.Completed = completed
	todo.CompletedAt = completedAt
	return todo, nil
}
func (s *stubTodoRepo) Delete(ctx context.Context, userID, todoID string) error { return nil }
func (s *stubTodoRepo) ListByUser(ctx context.Context, userID string) ([]model.Todo, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return fixtureTodos(), nil
}
func (s *stubTodoRepo) Reorder(ctx context.Context, userID string, ids []string) error {
	if s.reorderFn != nil {
		return s.reorderFn(userID, ids)
	}
	return nil
}

type stubSubtaskRepo struct{}

func (stubSubtaskRepo) Create(ctx context.Context, userID string, subtask model.Subtask) (model.Subtask, error) {
	subtask.ID = "sub-new"
	return subtask, nil
}
func (stubSubtaskRepo) Update(ctx context.Context, userID string, subtask model.Subtask) (model.Subtask, error) {
	return subtask, nil
}
func (stubSubtaskRepo) Delete(ctx context.Context, userID, subtaskID string) error { return nil }
func (stubSubtaskRepo) ListByTodoIDs(ctx context.Context, todoIDs []string) ([]model.Subtask, error) {
	return nil, nil
}

type stubTagRepo struct{}

func (stubTagRepo) Create(ctx context.Context, tag model.Tag) (model.Tag, error) {
	tag.ID = "tag-new"
	return tag, nil
}
func (stubTagRepo) Delete(ctx context.Context, userID, tagID string) error { return nil }
func (stubTagRepo) ListByUser(ctx context.Context, userID string) ([]model.Tag, error) {
	return []model.Tag{{ID: "tag-1", UserID: "user-1", Name: "work"}}, nil
}
func (stubTagRepo) ListByTodoIDs(ctx context.Context, todoIDs []string) ([]repository.TodoTag, error) {
	return nil, nil
}
func (stubTagRepo) AddToTodo(ctx context.Context, todoID, tagID string) error      { return nil }
func (stubTagRepo) RemoveFromTodo(ctx context.Context, todoID, tagID string) error { return nil }

type stubCategoryRepo struct{}

func (stubCategoryRepo) Create(ctx context.Context, category model.Category) (model.Category, error) {
	category.ID = "cat-new"
	return category, nil
}
func (stubCategoryRepo) Update(ctx context.Context, category model.Category) (model.Category, error) {
	return category, nil
}
func (stubCategoryRepo) Delete(ctx context.Context, userID, categoryID string) error { return nil }
func (stubCategoryRepo) ListByUser(ctx context.Context, userID string) ([]model.Category, error) {
	return []model.Category{{ID: "cat-1", UserID: "user-1", Name: "Work"}}, nil
}

var fixtureTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func fixtureTodos() []model.Todo {
	return []model.Todo{
		{ID: "todo-1", UserID: "user-1", Title: "Write report", Priority: model.PriorityHigh, OrderIndex: 0, CreatedAt: fixtureTime},
		{ID: "todo-2", UserID: "user-1", Title: "Buy groceries", Priority: model.PriorityLow, OrderIndex: 1, CreatedAt: fixtureTime.Add(time.Hour)},
	}
}

func testManager(todoRepo *stubTodoRepo) *engine.Manager {
	if todoRepo == nil {
		todoRepo = &stubTodoRepo{}
	}
	return engine.NewManager(engine.Repos{
		Todos:      todoRepo,
		Subtasks:   stubSubtaskRepo{},
		Tags:       stubTagRepo{},
		Categories: stubCategoryRepo{},
	})
}

// authedRequest builds a request carrying the user id the auth middleware
// would have resolved.
func authedRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	return req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("error response is not JSON: %v (body %q)", err, rec.Body.String())
	}
	return body.Error.Code
}
