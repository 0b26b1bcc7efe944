// Package handler exposes the medicine catalog over HTTP.
package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abhisheknirogi/Pharmacy-ai/internal/catalog/domain"
	"github.com/abhisheknirogi/Pharmacy-ai/internal/catalog/service"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/errors"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/httputil"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/logger"
)

// MedicineHandler handles catalog endpoints
type MedicineHandler struct {
	service *service.CatalogService
	logger  *logger.Logger
}

// NewMedicineHandler creates a new medicine handler
func NewMedicineHandler(svc *service.CatalogService, log *logger.Logger) *MedicineHandler {
	return &MedicineHandler{
		service: svc,
		logger:  log,
	}
}

// Create handles POST /medicines
func (h *MedicineHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateMedicineRequest
	if err := httputil.DecodeValid(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	medicine, err := h.service.Create(r.Context(), &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, medicine)
}

// Get handles GET /medicines/{id}
func (h *MedicineHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	medicine, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, medicine)
}

// List handles GET /medicines
func (h *MedicineHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := pagination(r)

	medicines, total, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, medicines, &httputil.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      int64(total),
		TotalPages: (total + perPage - 1) / perPage,
	})
}

// Update handles PUT /medicines/{id}. Only the provided fields change.
func (h *MedicineHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var update domain.MedicineUpdate
	if err := httputil.DecodeValid(r, &update); err != nil {
		httputil.Error(w, err)
		return
	}

	medicine, err := h.service.Update(r.Context(), id, &update)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, medicine)
}

// Delete handles DELETE /medicines/{id}
func (h *MedicineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

// Search handles GET /medicines/search
func (h *MedicineHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		httputil.Error(w, errors.BadRequest("search query is required"))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			httputil.Error(w, errors.BadRequest("limit must be between 1 and 100"))
			return
		}
		limit = n
	}

	medicines, err := h.service.Search(r.Context(), term, limit)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, medicines, &httputil.Meta{Count: len(medicines)})
}

// Expiring handles GET /medicines/expiring
func (h *MedicineHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 365 {
			httputil.Error(w, errors.BadRequest("days must be between 1 and 365"))
			return
		}
		days = n
	}

	medicines, err := h.service.Expiring(r.Context(), days)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, medicines, &httputil.Meta{Count: len(medicines)})
}

// LowStock handles GET /medicines/low-stock
func (h *MedicineHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.service.LowStock(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, medicines, &httputil.Meta{Count: len(medicines)})
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
