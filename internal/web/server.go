// Package web assembles the HTTP surface: public site, newsletter
// signup, and the admin console behind one mux.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/dcorpo/intel/internal/auth"
	"github.com/dcorpo/intel/internal/newsroom"
	"github.com/dcorpo/intel/internal/storage"
	"github.com/dcorpo/intel/internal/subscriber"
	"github.com/dcorpo/intel/internal/web/modules/admin"
	"github.com/dcorpo/intel/internal/web/modules/newsletter"
	"github.com/dcorpo/intel/internal/web/modules/public"
	"github.com/dcorpo/intel/internal/web/platform/httpx"
	"github.com/dcorpo/intel/internal/web/static"
)

const (
	defaultAddr     = "localhost:8090"
	readHeaderWait  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Config defines the inputs for the web server.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// Briefs backs the public site reads.
	Briefs storage.BriefStore
	// Sessions authenticates console operators.
	Sessions *auth.Service
	// Newsroom drives the admin workflows.
	Newsroom *newsroom.Controller
	// Subscribers handles newsletter signups and the dashboard count.
	Subscribers *subscriber.Service
	// Location drives the next-issue countdown.
	Location *time.Location
	// Now overrides the clock in tests.
	Now func() time.Time
	// Logger receives request logs.
	Logger *log.Logger
}

// NewHandler assembles the full route surface with shared middleware.
func NewHandler(cfg Config) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static.FS))))

	public.New(cfg.Briefs, cfg.Now, cfg.Location).Register(mux)
	newsletter.New(cfg.Subscribers).Register(mux)
	admin.New(cfg.Sessions, cfg.Newsroom, cfg.Subscribers).Register(mux)

	return httpx.Chain(mux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		httpx.RequestLogger(cfg.Logger),
	)
}

// Server hosts the web HTTP server.
type Server struct {
	addr       string
	httpServer *http.Server
}

// NewServer validates cfg and returns a ready Server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Briefs == nil {
		return nil, errors.New("brief store is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("auth service is required")
	}
	if cfg.Newsroom == nil {
		return nil, errors.New("newsroom controller is required")
	}
	if cfg.Subscribers == nil {
		return nil, errors.New("subscriber service is required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		addr = defaultAddr
	}

	return &Server{
		addr: addr,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           NewHandler(cfg),
			ReadHeaderTimeout: readHeaderWait,
		},
	}, nil
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("web listening on %s", s.addr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
