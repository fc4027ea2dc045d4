package handler

import (
	"net/http"

	"github.com/sjyoon/taskhub-api/internal/engine"
	"github.com/sjyoon/taskhub-api/internal/model"
)

type ViewHandler struct {
	engines *engine.Manager
}

func NewViewHandler(engines *engine.Manager) *ViewHandler {
	return &ViewHandler{engines: engines}
}

// ServeHTTP serves GET /api/v1/view?view=&q=&priority=&sort=.
func (h *ViewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	eng, ok := engineFor(w, r, h.engines)
	if !ok {
		return
	}

	q := r.URL.Query()
	selector, err := engine.ParseViewSelector(q.Get("view"))
	if err != nil {
		handleEngineError(w, err)
		return
	}

	todos, err := eng.View(engine.ViewParams{
		Selector: selector,
		Search:   q.Get("q"),
		Priority: model.Priority(q.Get("priority")),
		Sort:     engine.SortMode(q.Get("sort")),
	})
	if err != nil {
		handleEngineError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"todos": todos})
}

type StatsHandler struct {
	engines *engine.Manager
}

func NewStatsHandler(engines *engine.Manager) *StatsHandler {
	return &StatsHandler{engines: engines}
}

// ServeHTTP serves GET /api/v1/stats.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	eng, ok := engineFor(w, r, h.engines)
	if !ok {
		return
	}

	WriteJSON(w, http.StatusOK, eng.Stats())
}
