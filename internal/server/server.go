// Package server wires the prediction-serving pipeline into the HTTP contract.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/ThomasBury/AceBet/internal/artifact"
	"github.com/ThomasBury/AceBet/internal/auth"
	"github.com/ThomasBury/AceBet/internal/config"
	"github.com/ThomasBury/AceBet/internal/middleware"
	"github.com/ThomasBury/AceBet/internal/predictor"
	"github.com/ThomasBury/AceBet/internal/ratelimit"
)

// Server is the composition root for the prediction API
type Server struct {
	cfg        *config.Config
	logger     *logrus.Logger
	auth       *auth.Service
	resolver   artifact.Resolver
	invoker    *predictor.Invoker
	validate   *validator.Validate
	defLimiter *ratelimit.ClientLimiter
	demoLimit  *ratelimit.ClientLimiter
	httpServer *http.Server
}

// New creates the server and its admission control state
func New(cfg *config.Config, logger *logrus.Logger, authSvc *auth.Service, resolver artifact.Resolver, invoker *predictor.Invoker) *Server {
	clientTTL := time.Duration(cfg.RateLimit.ClientTTLMinutes) * time.Minute
	return &Server{
		cfg:        cfg,
		logger:     logger,
		auth:       authSvc,
		resolver:   resolver,
		invoker:    invoker,
		validate:   validator.New(),
		defLimiter: ratelimit.NewClientLimiter(cfg.RateLimit.RequestsPerMinute, time.Minute, clientTTL),
		demoLimit:  ratelimit.NewClientLimiter(cfg.RateLimit.DemoRequestsPerMinute, time.Minute, clientTTL),
	}
}

// Router builds the route table. Each route declares its capabilities as
// composed wrappers: observability capture runs on everything, authentication
// precedes admission control on protected routes so the budget is charged to
// the username rather than the address.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	if len(s.cfg.Server.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.Server.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		}))
	}
	r.Use(middleware.RequestLogger(s.logger))

	admit := middleware.Admit(s.defLimiter, s.logger)
	admitDemo := middleware.Admit(s.demoLimit, s.logger)
	authn := middleware.Authenticate(s.auth, s.logger)

	r.Get("/", s.handleHome)
	r.With(admitDemo).Get("/limit/", s.handleLimit)
	r.With(admit).Post("/token", s.handleToken)

	r.Group(func(g chi.Router) {
		g.Use(authn)
		g.Use(admit)
		g.Get("/users/me/", s.handleUsersMe)
		g.Get("/users/me/items/", s.handleUsersItems)
		g.Post("/predict/", s.handlePredict)
	})

	return r
}

// Start runs the HTTP server until the context is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("API server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown drains in-flight requests with a bounded grace period
func (s *Server) Shutdown() error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("API server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
