package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/acestone/renovation-leads/internal/auth"
	httpmiddleware "github.com/acestone/renovation-leads/internal/http/middleware"
	"github.com/acestone/renovation-leads/internal/leads"
	"github.com/acestone/renovation-leads/internal/partners"
	"github.com/acestone/renovation-leads/internal/uploads"
	"github.com/acestone/renovation-leads/pkg/logging"
)

// Config holds router dependencies.
type Config struct {
	Logger          *logging.Logger
	LeadsHandler    *leads.Handler
	AuthHandler     *auth.Handler
	PartnersHandler *partners.Handler
	UploadsHandler  *uploads.Handler
	MetricsHandler  http.Handler

	AdminJWTSecret     string
	CORSAllowedOrigins []string
	IntakeRateLimit    float64
	IntakeRateBurst    int

	// EnableTestRoutes mounts the canned partner-lead endpoints. Off in
	// production.
	EnableTestRoutes bool
}

// New builds the chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	rateLimit := func(next http.Handler) http.Handler { return next }
	if cfg.IntakeRateLimit > 0 {
		rateLimit = httpmiddleware.RateLimit(cfg.IntakeRateLimit, cfg.IntakeRateBurst)
	}

	r.Route("/api", func(api chi.Router) {
		// Public intake surface.
		api.Group(func(public chi.Router) {
			public.Use(rateLimit)
			public.Post("/leads", cfg.LeadsHandler.Create)
			public.Post("/auth/login", cfg.AuthHandler.Login)
			if cfg.UploadsHandler != nil {
				public.Post("/uploads", cfg.UploadsHandler.Upload)
			}
			if cfg.PartnersHandler != nil {
				public.Post("/webhooks/angi", cfg.PartnersHandler.AngiWebhook)
				public.Post("/webhooks/homeadvisor", cfg.PartnersHandler.HomeAdvisorWebhook)
			}
		})

		// Admin dashboard surface, guarded by the login session token.
		api.Group(func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminJWTSecret))
			admin.Get("/leads", cfg.LeadsHandler.List)
			admin.Get("/leads/stats", cfg.LeadsHandler.GetStats)
			admin.Patch("/leads/{id}/status", cfg.LeadsHandler.UpdateStatus)
		})

		if cfg.EnableTestRoutes && cfg.PartnersHandler != nil {
			api.Post("/test/angi-lead", cfg.PartnersHandler.TestAngiLead)
			api.Post("/test/homeadvisor-lead", cfg.PartnersHandler.TestHomeAdvisorLead)
		}
	})

	return r
}
