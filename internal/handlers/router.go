package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"cibn-digital-library/internal/middleware"
	"cibn-digital-library/internal/models"
)

// RouterDeps collects everything the API router needs. Dependencies are
// injected so tests can assemble a router over fakes.
type RouterDeps struct {
	Auth          *AuthHandler
	Cart          *CartHandler
	Library       *LibraryHandler
	Authenticator *middleware.Authenticator
	Development   bool
}

// NewRouter assembles the API routes and middleware chain.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recover(deps.Development))
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", Health)

		r.Route("/auth/cibn", func(r chi.Router) {
			r.Post("/login", deps.Auth.Login)
			r.With(deps.Authenticator.RequireToken(models.RoleCIBNMember)).
				Get("/me", deps.Auth.Me)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(deps.Authenticator.RequireToken())
			r.Get("/", deps.Cart.View)
			r.Post("/", deps.Cart.AddItem)
			r.Delete("/", deps.Cart.Clear)
			r.Patch("/items/{id}", deps.Cart.UpdateItem)
			r.Delete("/items/{id}", deps.Cart.RemoveItem)
		})

		r.Route("/library", func(r chi.Router) {
			r.Use(deps.Authenticator.RequireToken())
			r.Get("/purchases", deps.Library.Purchases)
			r.Put("/purchases", deps.Library.StorePurchases)
			r.Get("/favorites", deps.Library.Favorites)
			r.Put("/favorites/{id}", deps.Library.AddFavorite)
			r.Delete("/favorites/{id}", deps.Library.RemoveFavorite)
		})
	})

	r.NotFound(NotFound)
	r.MethodNotAllowed(NotFound)

	return r
}
