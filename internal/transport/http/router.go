package http

import (
	"net/http"

	"github.com/go-auth-nosql/internal/application/confirmation"
	"github.com/go-auth-nosql/internal/config"
	"github.com/go-auth-nosql/internal/transport/http/handler"
	appmiddleware "github.com/go-auth-nosql/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	resendRL := appmiddleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, cfg.TrustedProxies)

	confirmationSvc := confirmation.NewService(confirmation.ServiceDeps{
		Accounts:   deps.AccountRepo,
		Mailer:     deps.Mailer,
		Tickets:    deps.Tickets,
		Deliveries: deps.DeliveryRepo,
		Settings: confirmation.Settings{
			AutoActivateNewUsers: cfg.AutoActivateNewUsers,
			EmailsEnable:         cfg.EmailsEnable,
			ServerURL:            cfg.ServerURL,
			ResendInterval:       cfg.ConfirmationResetTimeout,
		},
		Now: deps.Now,
	})

	healthH := handler.NewHealthHandler(map[string]handler.Pinger{"accounts": deps.AccountRepo})
	resendH := handler.NewResendConfirmationHandler(confirmationSvc)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)

		r.With(resendRL.Limit).Post("/auth/resend-confirmation", resendH.Resend)
	})

	return r
}
