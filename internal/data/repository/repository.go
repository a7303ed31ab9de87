package repository

import (
	"food-ordering/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User    UserRepository
	Session SessionRepository
	Vendor  VendorRepository
	Food    FoodRepository
	Banner  BannerRepository
	Cart    CartRepository
	Coupon  CouponRepository
	Booking BookingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Session: NewSessionRepository(db, log),
		Vendor:  NewVendorRepository(db, log),
		Food:    NewFoodRepository(db, log),
		Banner:  NewBannerRepository(db, log),
		Cart:    NewCartRepository(db, log),
		Coupon:  NewCouponRepository(db, log),
		Booking: NewBookingRepository(db, log),
	}
}
