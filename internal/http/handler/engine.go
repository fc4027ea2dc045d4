package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sjyoon/taskhub-api/internal/engine"
	"github.com/sjyoon/taskhub-api/internal/middleware"
)

// engineFor resolves the session engine for the authenticated user, loading
// the snapshot on first access. A load failure is reported to the client
// without installing a half-initialized engine.
func engineFor(w http.ResponseWriter, r *http.Request, engines *engine.Manager) (*engine.Engine, bool) {
	userID := middleware.GetUserID(r)
	eng, err := engines.ForUser(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load user snapshot", "error", err, "user_id", userID)
		WriteError(w, http.StatusBadGateway, "LOAD_FAILED", "failed to load data from the store")
		return nil, false
	}
	return eng, true
}

// handleEngineError maps engine sentinel errors to HTTP responses. Anything
// else is a gateway failure: logged with detail, reported generically.
func handleEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, engine.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	default:
		slog.Error("gateway operation failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
