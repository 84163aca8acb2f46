// Package http serves the JSON API over the application services.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"financas/internal/identity"
	applog "financas/internal/log"
	"financas/internal/middleware/ratelimit"
	"financas/internal/middleware/security"
	"financas/internal/middleware/trace"
	"financas/internal/services"
)

// Pinger reports whether the store can serve requests.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services are the operations the API exposes.
type Services struct {
	Transactions *services.TransactionService
	Recurring    *services.RecurringService
	Cards        *services.CardService
	Profiles     *services.ProfileService
	Dashboard    *services.DashboardService
	Imports      *services.ImportService
}

type Options struct {
	RateLimit      ratelimit.Config
	MaxImportBytes int64
	TrustedProxies []string
}

type Server struct {
	http.Server
	svc      Services
	store    Pinger
	logger   *applog.Logger
	maxBytes int64
	started  time.Time

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

func NewServer(addr string, svc Services, store Pinger, verifier *identity.Verifier, logger *applog.Logger, opts Options) (*Server, error) {
	detector := security.NewDetector()
	for _, cidr := range opts.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			return nil, err
		}
	}
	if opts.MaxImportBytes <= 0 {
		opts.MaxImportBytes = 5 << 20
	}

	s := &Server{
		svc:      svc,
		store:    store,
		logger:   logger.WithComponent(applog.ComponentHTTP),
		maxBytes: opts.MaxImportBytes,
		started:  time.Now(),
		limiter:  ratelimit.NewLimiter(opts.RateLimit),
		detector: detector,
	}
	s.tracer = trace.NewMiddleware(detector.ExtractClientIP, s.logger)
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(verifier),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(verifier *identity.Verifier) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.CleanPath)
	r.Use(applog.Middleware(s.logger))
	r.Use(s.tracer.Middleware)
	r.Use(applog.RequestIDMiddleware(trace.RequestID))
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(s.detector.Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.limiter.Middleware(s.detector.ExtractClientIP, s.rateLimited))
		r.Use(identity.Middleware(verifier))

		r.Get("/me", s.handleGetProfile)
		r.Put("/me", s.handleUpdateProfile)

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.handleListTransactions)
			r.Get("/periods", s.handlePeriods)
			r.Post("/", s.handleCreateTransaction)
			r.Patch("/{id}", s.handleUpdateTransaction)
			r.Delete("/{id}", s.handleDeleteTransaction)
		})

		r.Route("/recurring", func(r chi.Router) {
			r.Get("/", s.handleListRecurring)
			r.Post("/", s.handleCreateRecurring)
			r.Post("/{id}/toggle", s.handleToggleRecurring)
			r.Delete("/{id}", s.handleDeleteRecurring)
		})

		r.Route("/cards", func(r chi.Router) {
			r.Get("/", s.handleListCards)
			r.Post("/", s.handleCreateCard)
			r.Patch("/{id}", s.handleUpdateCard)
			r.Delete("/{id}", s.handleDeleteCard)
		})

		r.Post("/import", s.handleImport)
		r.Get("/dashboard", s.handleDashboard)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

func (s *Server) rateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldPath, r.URL.Path)
	w.Header().Set("Retry-After", "1")
	writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
}

// Shutdown stops the rate limiter sweep and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
