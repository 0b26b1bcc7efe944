// Package handler exposes the sales ledger over HTTP.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abhisheknirogi/Pharmacy-ai/internal/sales/domain"
	"github.com/abhisheknirogi/Pharmacy-ai/internal/sales/service"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/errors"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/httputil"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/logger"
)

// SaleHandler handles sales endpoints
type SaleHandler struct {
	service *service.SalesService
	logger  *logger.Logger
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(svc *service.SalesService, log *logger.Logger) *SaleHandler {
	return &SaleHandler{
		service: svc,
		logger:  log,
	}
}

// Record handles POST /sales
func (h *SaleHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req service.RecordSaleRequest
	if err := httputil.DecodeValid(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	sale, err := h.service.Record(r.Context(), &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, sale)
}

// Get handles GET /sales/{id}
func (h *SaleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sale, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, sale)
}

// List handles GET /sales
func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := pagination(r)

	filter := domain.Filter{
		MedicineID: r.URL.Query().Get("medicine_id"),
	}

	from, err := parseTimeParam(r, "from")
	if err != nil {
		httputil.Error(w, err)
		return
	}
	filter.From = from

	to, err := parseTimeParam(r, "to")
	if err != nil {
		httputil.Error(w, err)
		return
	}
	filter.To = to

	sales, total, err := h.service.List(r.Context(), filter, page, perPage)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, sales, &httputil.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      int64(total),
		TotalPages: (total + perPage - 1) / perPage,
	})
}

// Summary handles GET /sales/summary. The range defaults to the
// trailing 30 days.
func (h *SaleHandler) Summary(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if parsed, err := parseTimeParam(r, "from"); err != nil {
		httputil.Error(w, err)
		return
	} else if parsed != nil {
		from = *parsed
	}

	if parsed, err := parseTimeParam(r, "to"); err != nil {
		httputil.Error(w, err)
		return
	} else if parsed != nil {
		to = *parsed
	}

	summary, err := h.service.Summary(r.Context(), from, to)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, summary)
}

// parseTimeParam reads an RFC 3339 query parameter, returning nil when
// absent
func parseTimeParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, errors.BadRequest("invalid '" + name + "' date, use RFC 3339 format")
	}
	return &t, nil
}

// pagination parses page and per_page query params, falling back to
// sane defaults
func pagination(r *http.Request) (page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	return page, perPage
}
