package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sjyoon/taskhub-api/internal/engine"
	"github.com/sjyoon/taskhub-api/internal/model"
)

type TodoHandler struct {
	engines *engine.Manager
}

func NewTodoHandler(engines *engine.Manager) *TodoHandler {
	return &TodoHandler{engines: engines}
}

// ServeHTTP routes /api/v1/todos and /api/v1/todos/{id}[/toggle|/subtasks|/tags]
func (h *TodoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/todos")
	path = strings.TrimPrefix(path, "/")

	parts := strings.SplitN(path, "/", 2)
	todoID := parts[0]
	subPath := ""
	if len(parts) > 1 {
		subPath = parts[1]
	}

	if todoID == "reorder" {
		h.handleReorder(w, r)
		return
	}

	if todoID != "" {
		switch subPath {
		case "toggle":
			h.handleToggle(w, r, todoID)
		case "subtasks":
			h.handleAddSubtask(w, r, todoID)
		case "tags":
			h.handleSyncTags(w, r, todoID)
		case "":
			switch r.Method {
			case http.MethodPut:
				h.handleUpdate(w, r, todoID)
			case http.MethodDelete:
				h.handleDelete(w, r, todoID)
			default:
				WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
			}
		default:
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}
}

type createTodoRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	DueDate     *string  `json:"due_date,omitempty"`
	CategoryID  *string  `json:"category_id,omitempty"`
	TagIDs      []string `json:"tag_ids,omitempty"`
}

func (h *TodoHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	eng, ok := engineFor(w, r, h.engines)
	if !ok {
		return
	}

	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	todo, err := eng.CreateTodo(r.Context(), engine.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    model.Priority(req.Priority),
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		handleEngineError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, todo)
}

func (h *TodoHandler) handleList(w http.ResponseWriter, r *http.Request) {
	eng, ok := engineFor(w, r, h.engines)
	if !ok {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"todos": eng.Todos()})
}

type updateTodoRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	CategoryID  *string `json:"category_id,omitempty"`
}

func (h *TodoHandler) handleUpdate(w http.ResponseWriter, r *http.Request, todoID string) {
	eng, ok := engineFor(w, r, h.engines)
	if !ok {
		return
	}

	var req updateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	input := engine.UpdateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
	}
	if req.Priority != nil {
		p := model.Priority(*req.Priority)
		input.Priority = &p
	}

	todo, err := eng.UpdateTodo(r.Context(), todoID, input)
	if err != nil {
		handleEngineError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) handleDelete(w http.ResponseWriter, r *http.Request, todoID string) {
	eng, ok := engineFor(w, r, h.engines)
	if !ok {
		return
	}

	if err := eng.DeleteTodo(r.Context(), todoID); err != nil {
		handleEngineError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type toggleRequest struct {
	Completed bool `json:"completed"`
}

func (h *TodoHandler) handleToggle(w http.ResponseWriter, r *http.Request, todoID string) {
	if r.Method != http.MethodPatch {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	eng, ok := engineFor(w, r, h.engines)
	if !ok {
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	todo, err := eng.Toggle(r.Context(), todoID, req.Completed)
	if err != nil {
		handleEngineError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, todo)
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

func (h *TodoHandler) handleReorder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	eng, ok := engineFor(w, r, h.engines)
	if !ok {
		return
	}

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	if err := eng.Reorder(r.Context(), req.IDs); err != nil {
		handleEngineError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"todos": eng.Todos()})
}

type addSubtaskRequest struct {
	Title string `json:"title"`
}

func (h *TodoHandler) handleAddSubtask(w http.ResponseWriter, r *http.Request, todoID string) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	eng, ok := engineFor(w, r, h.engines)
	if !ok {
		return
	}

	var req addSubtaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	subtask, err := eng.AddSubtask(r.Context(), todoID, req.Title)
	if err != nil {
		handleEngineError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, subtask)
}

type syncTagsRequest struct {
	TagIDs []string `json:"tag_ids"`
}

func (h *TodoHandler) handleSyncTags(w http.ResponseWriter, r *http.Request, todoID string) {
	if r.Method != http.MethodPut {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	eng, ok := engineFor(w, r, h.engines)
	if !ok {
		return
	}

	var req syncTagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	tags, err := eng.SyncTodoTags(r.Context(), todoID, req.TagIDs)
	if err != nil {
		handleEngineError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"tags": tags})
}
