package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// NewRouter mounts the storefront routes and middleware.
func NewRouter(server *Server, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(Logger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", server.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", server.ListProducts)
		r.Get("/categories", server.ListCategories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", server.GetCart)
			r.Post("/items", server.AddItem)
			r.Patch("/items/{productID}", server.ChangeQuantity)
			r.Delete("/items/{productID}", server.RemoveItem)
		})

		r.Post("/checkout", server.Checkout)
	})
	return r
}
