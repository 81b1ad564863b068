package adapthttp

import (
	"context"
	"net/http"
	"time"

	"classbook/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Services groups the application services the HTTP adapter drives.
// Payments may be nil when no payment provider is configured; the payment
// routes are then not mounted.
type Services struct {
	Auth     *app.AuthService
	Accounts *app.AccountService
	Bookings *app.BookingService
	Classes  *app.ClassService
	Payments *app.PaymentService
}

// Options holds optional server settings.
type Options struct {
	CORSAllowedOrigins []string
	OIDC               OIDCConfig
	TokenTTL           time.Duration
	// Ready reports whether backing services are reachable. Nil means always ready.
	Ready func(ctx context.Context) error
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth     *app.AuthService
	accounts *app.AccountService
	bookings *app.BookingService
	classes  *app.ClassService
	payments *app.PaymentService

	log      *zap.Logger
	validate *validator.Validate
	opts     Options
}

// New creates a Server wired to the given application services.
func New(svc Services, log *zap.Logger, opts Options) *Server {
	if opts.TokenTTL == 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	return &Server{
		auth:     svc.Auth,
		accounts: svc.Accounts,
		bookings: svc.Bookings,
		classes:  svc.Classes,
		payments: svc.Payments,
		log:      log,
		validate: validator.New(),
		opts:     opts,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	if len(s.opts.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.opts.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(noCache)
		r.Get("/health", s.handleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Post("/setup", s.handleSetup)
			r.Get("/config", s.handleConfig)
			r.Get("/sso/login", s.handleSSOLogin)
			r.Get("/sso/callback", s.handleSSOCallback)
		})

		if s.payments != nil {
			// authenticated by the provider signature, not a user token
			r.Post("/payments/webhook", s.handlePaymentWebhook)
		}

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/me", s.handleMe)
			r.Get("/me/ledger", s.handleLedger)

			r.Post("/bookings", s.handleCreateBooking)
			r.Get("/bookings", s.handleListBookings)

			r.Get("/classes", s.handleListClasses)
			r.Post("/classes", s.handleCreateClass)
			r.Get("/classes/{id}", s.handleGetClass)
			r.Put("/classes/{id}", s.handleUpdateClass)

			if s.payments != nil {
				r.Get("/packages", s.handleListPackages)
				r.Post("/packages/checkout", s.handleCheckout)
				r.Post("/payments/confirm", s.handleConfirmPayment)
			}
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.opts.Ready != nil {
		if err := s.opts.Ready(r.Context()); err != nil {
			s.log.Warn("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
