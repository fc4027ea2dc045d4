package http

import (
	"net/http"

	"github.com/sjyoon/taskhub-api/internal/engine"
	"github.com/sjyoon/taskhub-api/internal/http/handler"
	"github.com/sjyoon/taskhub-api/internal/service"
)

// NewRouter wires every resource handler onto a ServeMux. Each handler owns
// routing below its prefix.
func NewRouter(engines *engine.Manager, authSvc *service.AuthService) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/health", handler.NewHealthHandler())
	mux.Handle("/api/v1/auth/", handler.NewAuthHandler(authSvc, engines))

	todos := handler.NewTodoHandler(engines)
	mux.Handle("/api/v1/todos", todos)
	mux.Handle("/api/v1/todos/", todos)

	mux.Handle("/api/v1/subtasks/", handler.NewSubtaskHandler(engines))

	tags := handler.NewTagHandler(engines)
	mux.Handle("/api/v1/tags", tags)
	mux.Handle("/api/v1/tags/", tags)

	categories := handler.NewCategoryHandler(engines)
	mux.Handle("/api/v1/categories", categories)
	mux.Handle("/api/v1/categories/", categories)

	mux.Handle("/api/v1/view", handler.NewViewHandler(engines))
	mux.Handle("/api/v1/stats", handler.NewStatsHandler(engines))

	return mux
}
