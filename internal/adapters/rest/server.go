package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	core_port "github.com/Robb753/farm-to-fork-sub000/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers - все обработчики API
type Handlers struct {
	Listings  *ListingsHandler
	Producer  *ProducerHandler
	Admin     *AdminHandler
	Favorites *FavoritesHandler
	Reviews   *ReviewsHandler
}

// Server - REST API сервер.
type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

// NewRouter собирает маршруты. Вынесен отдельно для тестов через httptest.
func NewRouter(handlers Handlers, auth *AuthMiddleware, allowedOrigins []string, baseLogger core_port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID", "Location"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Публичные маршруты
		r.Group(func(r chi.Router) {
			r.Get("/listings", handlers.Listings.FindListings)
			r.Get("/listings/clusters", handlers.Listings.GetClusters)
			r.Get("/listings/{listingID}", handlers.Listings.GetListing)
			r.Get("/listings/{listingID}/products", handlers.Listings.GetProducts)
			r.Get("/listings/{listingID}/reviews", handlers.Reviews.GetReviews)
			r.Get("/filters/options", handlers.Listings.GetFilterOptions)
		})

		// Для всех авторизованных
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Post("/listings/{listingID}/reviews", handlers.Reviews.CreateReview)

			r.Get("/favorites", handlers.Favorites.GetUserFavorites)
			r.Get("/favorites/ids", handlers.Favorites.GetUserFavoritesIds)
			r.Post("/favorites", handlers.Favorites.AddToFavorites)
			r.Delete("/favorites/{listingID}", handlers.Favorites.RemoveFromFavorites)

			r.Post("/producer/listings", handlers.Producer.CreateListing)
			r.Put("/producer/listings/{listingID}", handlers.Producer.UpdateListing)
			r.Delete("/producer/listings/{listingID}", handlers.Producer.DeactivateListing)
			r.Post("/producer/listings/{listingID}/products", handlers.Producer.AddProduct)
		})

		// Только для админов
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.RequireRole("admin"))

			r.Get("/admin/listings/pending", handlers.Admin.GetPendingListings)
			r.Post("/admin/listings/{listingID}/approve", handlers.Admin.ApproveListing)
			r.Post("/admin/listings/{listingID}/reject", handlers.Admin.RejectListing)
		})
	})

	return r
}

// NewServer создает новый экземпляр сервера.
func NewServer(port string, handler http.Handler, baseLogger core_port.LoggerPort) *Server {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return &Server{
		httpServer: srv,
		logger:     baseLogger.WithFields(core_port.Fields{"component": "rest_server"}),
	}
}

// Start запускает HTTP-сервер.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
