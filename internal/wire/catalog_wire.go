package wire

import (
	"food-ordering/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCatalog(r chi.Router, catalogHandler *adaptor.CatalogHandler) {
	// Public browse endpoints
	r.Get("/api/vendors", catalogHandler.GetVendors)
	r.Get("/api/vendors/{id}", catalogHandler.GetVendor)
	r.Get("/api/vendors/{id}/foods", catalogHandler.GetVendorFoods)
	r.Get("/api/banners", catalogHandler.GetBanners)
}
