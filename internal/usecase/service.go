package usecase

import (
	"food-ordering/internal/data/repository"
	"food-ordering/pkg/stream"
	"food-ordering/pkg/utils"

	"go.uber.org/zap"
)

// Service bundles the business layer for injection into the handlers.
type Service struct {
	Coupon  CouponService
	Cart    CartService
	Booking BookingService
	Catalog CatalogService
}

func NewService(repo *repository.Repository, config *utils.Config, broadcaster *stream.Broadcaster, log *zap.Logger) *Service {
	coupon := NewCouponService(repo, log)
	return &Service{
		Coupon:  coupon,
		Cart:    NewCartService(repo, coupon, config, log),
		Booking: NewBookingService(repo, coupon, broadcaster, config, log),
		Catalog: NewCatalogService(repo, log),
	}
}
