// Package httpapi exposes the account service over HTTP/JSON. The
// handlers are thin: request-shape checks and status mapping live here,
// every decision about an account lives in the accounts package.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/accountd/internal/logging"
	"github.com/dmitrijs2005/accountd/internal/server/accounts"
	"github.com/dmitrijs2005/accountd/internal/server/models"
)

// AccountService is the surface of the accounts core the transport needs.
// It is an interface so handler tests can substitute fakes at the seam.
type AccountService interface {
	Register(ctx context.Context, cand accounts.Candidate) (*accounts.Registered, accounts.Result, error)
	Login(ctx context.Context, username, password string) (*accounts.Session, accounts.Result, error)
	AccountByID(ctx context.Context, id string) (*models.Projection, error)
	Directory(ctx context.Context) (*accounts.Directory, error)
}

// Server serves the public HTTP endpoint.
type Server struct {
	address   string
	logger    logging.Logger
	service   AccountService
	jwtSecret []byte
}

func NewServer(address string, logger logging.Logger, service AccountService, secretKey string) *Server {
	return &Server{
		address:   address,
		logger:    logger.With("module", "httpapi"),
		service:   service,
		jwtSecret: []byte(secretKey),
	}
}

// Handler builds the route table. Exposed separately from Run so tests
// can drive it through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/app_users", s.handleRegister)
	mux.HandleFunc("POST /api/auth", s.handleLogin)
	mux.Handle("GET /api/app_users", s.requireAuth(http.HandlerFunc(s.handleDirectory)))
	mux.Handle("GET /api/app_users/me", s.requireAuth(http.HandlerFunc(s.handleMe)))
	mux.HandleFunc("GET /ping", s.handlePing)

	return s.logRequests(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
