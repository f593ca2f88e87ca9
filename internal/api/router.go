/**
 * @description
 * This file sets up the HTTP router using the go-chi/chi router. It defines
 * the API routes, applies middleware for logging, CORS, and authentication,
 * and maps the routes to their corresponding handler functions.
 */
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/HoanTQ/subcription-manager/internal/domain"
)

// Handlers bundles the per-domain handlers registered on the router.
type Handlers struct {
	Auth          *AuthHandler
	Subscriptions *SubscriptionHandler
	Accounts      *AccountHandler
	Dashboard     *DashboardHandler
}

// NewRouter creates a new Chi router and registers all application routes.
func NewRouter(h Handlers, jwtSecret string) *chi.Mux {
	r := chi.NewRouter()

	// Setup middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Subscription manager is healthy"))
	})

	// Public auth routes
	r.Post("/auth/register", h.Auth.handleRegister)
	r.Post("/auth/login", h.Auth.handleLogin)

	// Protected routes that require authentication
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(jwtSecret))

		r.Get("/auth/me", h.Auth.handleMe)
		r.Post("/auth/logout", h.Auth.handleLogout)

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", h.Accounts.handleList)
			r.Post("/", h.Accounts.handleCreate)
			r.Get("/{accountID}", h.Accounts.handleGet)
			r.Get("/{accountID}/password", h.Accounts.handleRevealPassword)
			r.Put("/{accountID}", h.Accounts.handleUpdate)
			r.Delete("/{accountID}", h.Accounts.handleDelete)
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/", h.Subscriptions.handleList)
			r.Post("/", h.Subscriptions.handleCreate)
			r.Get("/{subscriptionID}", h.Subscriptions.handleGet)
			r.Put("/{subscriptionID}", h.Subscriptions.handleUpdate)
			r.Delete("/{subscriptionID}", h.Subscriptions.handleDelete)
			r.Post("/{subscriptionID}/move-next", h.Subscriptions.handleAdvance)
			r.Post("/{subscriptionID}/pause", h.Subscriptions.handleStatusChange(
				domain.StatusPaused, "Subscription paused"))
			r.Post("/{subscriptionID}/resume", h.Subscriptions.handleStatusChange(
				domain.StatusActive, "Subscription resumed"))
			r.Post("/{subscriptionID}/cancel", h.Subscriptions.handleStatusChange(
				domain.StatusCancelled, "Subscription cancelled"))
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/summary", h.Dashboard.handleSummary)
			r.Get("/upcoming", h.Dashboard.handleUpcoming)
			r.Get("/week", h.Dashboard.handleWeek)
			r.Get("/forecast", h.Dashboard.handleForecast)
		})
	})

	return r
}
