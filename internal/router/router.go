package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/FACorreiaa/go-hotel-concierge/internal/api/credentials"
	"github.com/FACorreiaa/go-hotel-concierge/internal/api/dashboard"
	"github.com/FACorreiaa/go-hotel-concierge/internal/api/session"
)

// Config contains dependencies needed for the router setup
type Config struct {
	SessionHandler         *session.Handler
	DashboardHandler       *dashboard.Handler
	CredentialsHandler     *credentials.Handler
	AuthenticateMiddleware func(http.Handler) http.Handler
	// AllowCredentialOverride exposes PUT /credentials to authenticated sessions.
	AllowCredentialOverride bool
	AllowedOrigins         []string
	RateLimitRequests      int
	RateLimitWindow        time.Duration
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are applied in main.go
// before this router is mounted.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimitRequests > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimitRequests, cfg.RateLimitWindow))
		}

		// --- Public Routes ---
		r.Group(func(r chi.Router) {
			r.Get("/credentials", cfg.CredentialsHandler.GetStatus)

			r.Post("/bookings/lookup", cfg.SessionHandler.LookupBooking)
			r.Post("/avatars", cfg.SessionHandler.GenerateAvatar)
			r.Post("/sessions", cfg.SessionHandler.StartSession)
		})

		// --- Guest Session Routes ---
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Get("/session", cfg.SessionHandler.GetSession)

			if cfg.AllowCredentialOverride {
				r.Put("/credentials", cfg.CredentialsHandler.Update)
			}

			r.Get("/dashboard", cfg.DashboardHandler.GetDashboard)
			r.Post("/dashboard/attractions/{id}/select", cfg.DashboardHandler.SelectAttraction)
			r.Post("/dashboard/deselect", cfg.DashboardHandler.Deselect)
			r.Post("/dashboard/refresh", cfg.DashboardHandler.Refresh)

			r.Get("/chat", cfg.DashboardHandler.GetChat)
			r.Post("/chat", cfg.DashboardHandler.SendChat)

			r.Get("/souvenir", cfg.DashboardHandler.GetSouvenir)
		})
	})

	return r
}
