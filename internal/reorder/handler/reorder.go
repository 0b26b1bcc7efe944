// Package handler exposes the reorder prediction engine over HTTP.
package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abhisheknirogi/Pharmacy-ai/internal/reorder/service"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/errors"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/httputil"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/logger"
)

// ReorderHandler handles reorder prediction endpoints
type ReorderHandler struct {
	service *service.ReorderService
	logger  *logger.Logger
}

// NewReorderHandler creates a new reorder handler
func NewReorderHandler(svc *service.ReorderService, log *logger.Logger) *ReorderHandler {
	return &ReorderHandler{
		service: svc,
		logger:  log,
	}
}

// Suggestions handles GET /reorder/suggestions. The days parameter sets
// the sales window the suggestions are judged over.
func (h *ReorderHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 90 {
			httputil.Error(w, errors.BadRequest("days must be between 1 and 90"))
			return
		}
		days = n
	}

	suggestions, err := h.service.Suggestions(r.Context(), days)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, suggestions, &httputil.Meta{Count: len(suggestions)})
}

// Predict handles GET /reorder/predict/{id}. The days_ahead parameter
// sets the forecast horizon.
func (h *ReorderHandler) Predict(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	daysAhead := 0
	if raw := r.URL.Query().Get("days_ahead"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 30 {
			httputil.Error(w, errors.BadRequest("days_ahead must be between 1 and 30"))
			return
		}
		daysAhead = n
	}

	suggestion, err := h.service.Predict(r.Context(), id, daysAhead)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, suggestion)
}

// Analysis handles GET /reorder/analysis. The range defaults to the
// trailing 30 days.
func (h *ReorderHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 365 {
			httputil.Error(w, errors.BadRequest("days must be between 1 and 365"))
			return
		}
		days = n
	}

	sellers, err := h.service.Analysis(r.Context(), days)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, sellers, &httputil.Meta{Count: len(sellers)})
}
