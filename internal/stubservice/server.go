// Package stubservice is a stand-in for the remote query service. It
// answers POST /query/ from keyword-matched YAML fixtures so the client
// can be demonstrated and tested without the real backend.
package stubservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultAddr matches the client's default endpoint.
const DefaultAddr = "127.0.0.1:8000"

// QueryPath is the route the client posts to.
const QueryPath = "/query/"

// queryRequest is the incoming body. Role and region stay free-form strings,
// as the real service accepts any value.
type queryRequest struct {
	UserInput *string `json:"user_input" validate:"required"`
	UserRole  string  `json:"user_role" validate:"required"`
	Region    string  `json:"region" validate:"required"`
}

// Server serves fixture answers.
type Server struct {
	fixtures *FixtureSet
	logger   *zap.Logger
	validate *validator.Validate
	router   chi.Router
}

// New creates a server over fixtures.
func New(fixtures *FixtureSet, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		fixtures: fixtures,
		logger:   logger,
		validate: validator.New(),
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
	)
	r.Post(QueryPath, s.handleQuery)
	r.Post("/query", s.handleQuery)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve listens on addr and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	eg, egctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Handler: s.router,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("stub query service listening", zap.String("addr", ln.Addr().String()))

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}

// handleQuery handles POST /query/.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	f := s.fixtures.Match(*req.UserInput)
	s.logger.Info("query",
		zap.String("request_id", r.Header.Get("X-Request-ID")),
		zap.String("traceparent", r.Header.Get("traceparent")),
		zap.String("role", req.UserRole),
		zap.String("region", req.Region),
		zap.String("fixture", f.Name),
	)

	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.Status)
	_, _ = w.Write(f.Body())
}
