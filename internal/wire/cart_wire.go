package wire

import (
	"food-ordering/internal/adaptor"
	"food-ordering/internal/data/repository"
	"food-ordering/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCart(
	r chi.Router,
	cartHandler *adaptor.CartHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// GET /api/cart - current cart (connected cart when linked)
		r.Get("/", cartHandler.GetCart)

		// POST /api/cart/items - add or replace a line
		r.Post("/items", cartHandler.AddItem)

		// PATCH /api/cart/items - change quantity, zero removes
		r.Patch("/items", cartHandler.UpdateItem)

		// POST /api/cart/coupon - apply a coupon
		r.Post("/coupon", cartHandler.ApplyCoupon)

		// DELETE /api/cart/coupon - remove the coupon
		r.Delete("/coupon", cartHandler.RemoveCoupon)

		// POST /api/cart/connect - link to another user's cart
		r.Post("/connect", cartHandler.ConnectCart)

		// DELETE /api/cart/connect - drop the link
		r.Delete("/connect", cartHandler.DisconnectCart)
	})
}
