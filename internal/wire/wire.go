package wire

import (
	"net/http"

	"food-ordering/internal/adaptor"
	"food-ordering/internal/data/repository"
	"food-ordering/internal/usecase"
	"food-ordering/pkg/middleware"
	"food-ordering/pkg/stream"
	"food-ordering/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type App struct {
	Router      *chi.Mux
	Broadcaster *stream.Broadcaster
}

// Wiring initializes services, handlers and routes.
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	broadcaster := stream.NewBroadcaster(logger)
	service := usecase.NewService(repo, config, broadcaster, logger)
	handler := adaptor.NewHandler(service, broadcaster, config, logger)

	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router:      router,
		Broadcaster: broadcaster,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireCatalog(r, handler.Catalog)
	wireCart(r, handler.Cart, repo, logger)
	wireBooking(r, handler.Booking, repo, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
