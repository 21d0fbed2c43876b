package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/book-catalog/internal/api/http/handlers"
	"github.com/spec-kit/book-catalog/internal/auth"
	"github.com/spec-kit/book-catalog/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Books          *handlers.BooksHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes under the versioned API prefix.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/refresh_token", cfg.AuthMiddleware.RequireRefreshToken(), cfg.Auth.Refresh)
	authGroup.Get("/logout", cfg.AuthMiddleware.RequireAccessToken(), cfg.Auth.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.RequireAccessToken(), cfg.Auth.Me)
	authGroup.Get("/all_users",
		cfg.AuthMiddleware.RequireAccessToken(),
		auth.RequireRole(domain.RoleAdmin),
		cfg.Auth.ListUsers)

	books := api.Group("/books", cfg.AuthMiddleware.RequireAccessToken())
	books.Get("/", cfg.Books.ListBooks)
	books.Post("/", cfg.Books.CreateBook)
	books.Get("/:uid", cfg.Books.GetBook)
	books.Patch("/:uid", cfg.Books.UpdateBook)
	books.Delete("/:uid", cfg.Books.DeleteBook)
}
