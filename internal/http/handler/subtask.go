package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sjyoon/taskhub-api/internal/engine"
)

type SubtaskHandler struct {
	engines *engine.Manager
}

func NewSubtaskHandler(engines *engine.Manager) *SubtaskHandler {
	return &SubtaskHandler{engines: engines}
}

// ServeHTTP routes /api/v1/subtasks/{id}. Creation lives under the
// parent todo at POST /api/v1/todos/{id}/subtasks.
func (h *SubtaskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	subtaskID := strings.TrimPrefix(r.URL.Path, "/api/v1/subtasks/")
	if subtaskID == "" || strings.Contains(subtaskID, "/") {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
		return
	}

	switch r.Method {
	case http.MethodPatch:
		h.handleUpdate(w, r, subtaskID)
	case http.MethodDelete:
		h.handleDelete(w, r, subtaskID)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}
}

type updateSubtaskRequest struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

func (h *SubtaskHandler) handleUpdate(w http.ResponseWriter, r *http.Request, subtaskID string) {
	eng, ok := engineFor(w, r, h.engines)
	if !ok {
		return
	}

	var req updateSubtaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	subtask, err := eng.UpdateSubtask(r.Context(), subtaskID, engine.UpdateSubtaskInput{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		handleEngineError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, subtask)
}

func (h *SubtaskHandler) handleDelete(w http.ResponseWriter, r *http.Request, subtaskID string) {
	eng, ok := engineFor(w, r, h.engines)
	if !ok {
		return
	}

	if err := eng.DeleteSubtask(r.Context(), subtaskID); err != nil {
		handleEngineError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
