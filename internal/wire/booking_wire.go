package wire

import (
	"food-ordering/internal/adaptor"
	"food-ordering/internal/data/repository"
	"food-ordering/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// Customer routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// POST /api/bookings - place the order and wait for the vendor
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// GET /api/bookings/{id} - booking details (owner only)
		r.Get("/api/bookings/{id}", bookingHandler.GetBooking)

		// GET /api/bookings/{id}/stream - live status over SSE
		r.Get("/api/bookings/{id}/stream", bookingHandler.StreamBooking)

		// POST /api/bookings/{id}/payment - confirm payment
		r.Post("/api/bookings/{id}/payment", bookingHandler.ConfirmPayment)

		// GET /api/user/bookings - booking history
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)
	})

	// Vendor routes
	r.Route("/api/vendor/orders", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Vendor(log))

		// GET /api/vendor/orders - incoming and active orders
		r.Get("/", bookingHandler.GetVendorBookings)

		// PUT /api/vendor/orders/{id}/respond - accept or reject
		r.Put("/{id}/respond", bookingHandler.VendorRespond)

		// PATCH /api/vendor/orders/{id}/status - advance one step
		r.Patch("/{id}/status", bookingHandler.AdvanceStatus)
	})
}
