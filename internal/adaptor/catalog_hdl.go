package adaptor

import (
	"errors"
	"net/http"

	"food-ordering/internal/dto/request"
	"food-ordering/internal/usecase"
	"food-ordering/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log.With(zap.String("handler", "catalog")),
	}
}

// GetVendors handles GET /api/vendors (public)
func (h *CatalogHandler) GetVendors(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	vendors, err := h.service.GetVendors(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "get vendors")
		return
	}

	utils.ResponseSuccess(w, "success", vendors)
}

// GetVendor handles GET /api/vendors/{id} (public)
func (h *CatalogHandler) GetVendor(w http.ResponseWriter, r *http.Request) {
	vendorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid vendor ID", nil)
		return
	}

	vendor, err := h.service.GetVendor(r.Context(), vendorID)
	if err != nil {
		h.handleServiceError(w, err, "get vendor")
		return
	}

	utils.ResponseSuccess(w, "success", vendor)
}

// GetVendorFoods handles GET /api/vendors/{id}/foods (public)
func (h *CatalogHandler) GetVendorFoods(w http.ResponseWriter, r *http.Request) {
	vendorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid vendor ID", nil)
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	foods, err := h.service.GetVendorFoods(r.Context(), vendorID, req)
	if err != nil {
		h.handleServiceError(w, err, "get vendor foods")
		return
	}

	utils.ResponseSuccess(w, "success", foods)
}

// GetBanners handles GET /api/banners (public)
func (h *CatalogHandler) GetBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := h.service.GetBanners(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "get banners")
		return
	}

	utils.ResponseSuccess(w, "success", banners)
}

func (h *CatalogHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrVendorNotFound):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
