// Package server assembles the HTTP server around the API handlers.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/niamhfoley-dev/assignment-4/config"
	"github.com/niamhfoley-dev/assignment-4/internal/auth"
	"github.com/niamhfoley-dev/assignment-4/internal/handlers"
	"github.com/niamhfoley-dev/assignment-4/internal/middleware"
)

const shutdownTimeout = 10 * time.Second

// applyMiddleware wraps h so that m[0] runs first.
func applyMiddleware(h http.Handler, m ...func(http.Handler) http.Handler) http.Handler {
	for i := len(m) - 1; i >= 0; i-- {
		h = m[i](h)
	}
	return h
}

// Server is the HTTP front of the forum together with its background jobs.
type Server struct {
	cfg     *config.Config
	srv     *http.Server
	janitor *auth.Janitor
	limiter *middleware.RateLimiter
	log     *logrus.Logger
}

// New builds the server. Nothing listens until Run.
func New(cfg *config.Config, h *handlers.Handler, authn middleware.Authenticator, janitor *auth.Janitor, log *logrus.Logger) *Server {
	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit, time.Minute)

	handler := applyMiddleware(h.Routes(),
		middleware.LoggerMiddleware(log),
		middleware.SecureHeadersMiddleware,
		limiter.Middleware,
		middleware.MethodOverrideMiddleware,
		middleware.AuthMiddleware(authn, log, cfg.Server.CookieSecure),
	)

	return &Server{
		cfg: cfg,
		srv: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      handler,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		janitor: janitor,
		limiter: limiter,
		log:     log,
	}
}

// Handler returns the full middleware chain; used by tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.janitor.Run(ctx, s.cfg.Session.CleanupInterval)
	go s.limiter.Run(ctx.Done())

	errCh := make(chan error, 1)
	go func() {
		s.log.WithFields(logrus.Fields{"addr": s.srv.Addr}).Info("server starting")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer stop()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
