package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sjyoon/taskhub-api/internal/engine"
)

type TagHandler struct {
	engines *engine.Manager
}

func NewTagHandler(engines *engine.Manager) *TagHandler {
	return &TagHandler{engines: engines}
}

// ServeHTTP routes /api/v1/tags and /api/v1/tags/{id}.
func (h *TagHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tagID := strings.TrimPrefix(r.URL.Path, "/api/v1/tags")
	tagID = strings.TrimPrefix(tagID, "/")
	if strings.Contains(tagID, "/") {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
		return
	}

	if tagID != "" {
		if r.Method != http.MethodDelete {
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
			return
		}
		h.handleDelete(w, r, tagID)
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

func (h *TagHandler) handleList(w http.ResponseWriter, r *http.Request) {
	eng, ok := engineFor(w, r, h.engines)
	if !ok {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"tags": eng.Tags()})
}

type createTagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (h *TagHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	eng, ok := engineFor(w, r, h.engines)
	if !ok {
		return
	}

	var req createTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	tag, err := eng.CreateTag(r.Context(), req.Name, req.Color)
	if err != nil {
		handleEngineError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, tag)
}

func (h *TagHandler) handleDelete(w http.ResponseWriter, r *http.Request, tagID string) {
	eng, ok := engineFor(w, r, h.engines)
	if !ok {
		return
	}

	if err := eng.DeleteTag(r.Context(), tagID); err != nil {
		handleEngineError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
