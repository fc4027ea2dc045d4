package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sjyoon/taskhub-api/internal/engine"
)

type CategoryHandler struct {
	engines *engine.Manager
}

func NewCategoryHandler(engines *engine.Manager) *CategoryHandler {
	return &CategoryHandler{engines: engines}
}

// ServeHTTP routes /api/v1/categories and /api/v1/categories/{id}.
func (h *CategoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	categoryID := strings.TrimPrefix(r.URL.Path, "/api/v1/categories")
	categoryID = strings.TrimPrefix(categoryID, "/")
	if strings.Contains(categoryID, "/") {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
		return
	}

	if categoryID != "" {
		switch r.Method {
		case http.MethodPut:
			h.handleUpdate(w, r, categoryID)
		case http.MethodDelete:
			h.handleDelete(w, r, categoryID)
		default:
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
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

func (h *CategoryHandler) handleList(w http.ResponseWriter, r *http.Request) {
	eng, ok := engineFor(w, r, h.engines)
	if !ok {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"categories": eng.Categories()})
}

type createCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

func (h *CategoryHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	eng, ok := engineFor(w, r, h.engines)
	if !ok {
		return
	}

	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	category, err := eng.CreateCategory(r.Context(), engine.CreateCategoryInput{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		handleEngineError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, category)
}

type updateCategoryRequest struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}

func (h *CategoryHandler) handleUpdate(w http.ResponseWriter, r *http.Request, categoryID string) {
	eng, ok := engineFor(w, r, h.engines)
	if !ok {
		return
	}

	var req updateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	category, err := eng.UpdateCategory(r.Context(), categoryID, engine.UpdateCategoryInput{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		handleEngineError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) handleDelete(w http.ResponseWriter, r *http.Request, categoryID string) {
	eng, ok := engineFor(w, r, h.engines)
	if !ok {
		return
	}

	if err := eng.DeleteCategory(r.Context(), categoryID); err != nil {
		handleEngineError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
