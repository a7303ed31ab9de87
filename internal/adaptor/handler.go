package adaptor

import (
	"food-ordering/internal/usecase"
	"food-ordering/pkg/stream"
	"food-ordering/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Cart    *CartHandler
	Booking *BookingHandler
	Catalog *CatalogHandler
}

func NewHandler(service *usecase.Service, broadcaster *stream.Broadcaster, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Cart:    NewCartHandler(service.Cart, log),
		Booking: NewBookingHandler(service.Booking, broadcaster, config, log),
		Catalog: NewCatalogHandler(service.Catalog, log),
	}
}
