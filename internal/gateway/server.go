// Package gateway implements fixi serve: a small HTTP front for the admin
// API. It proxies /api/* to the upstream with CORS, answers the version and
// diagnostics routes, serves rendered admin tables as JSON and exposes
// Prometheus metrics.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"coinfixi/internal/api"
	"coinfixi/internal/logging"
)

// Version is reported by /api/version.
const Version = "fixi-gateway-v1"

// Options configures a Server.
type Options struct {
	// Client is the upstream API client. Its session is never used for
	// requests made on behalf of callers.
	Client      *api.Client
	BuildID     string
	Environment string
	// Now is overridable for tests.
	Now func() time.Time
}

// Server is the gateway HTTP handler.
type Server struct {
	opts    Options
	router  chi.Router
	metrics *Metrics
	log     *zap.SugaredLogger
}

// New builds the router.
func New(opts Options) (*Server, error) {
	if opts.Client == nil {
		return nil, errors.New("gateway: upstream client is required")
	}
	upstream, err := url.Parse(opts.Client.BaseURL())
	if err != nil {
		return nil, fmt.Errorf("gateway: upstream url: %w", err)
	}
	if opts.BuildID == "" {
		opts.BuildID = "dev"
	}
	if opts.Environment == "" {
		opts.Environment = "development"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		opts:    opts,
		metrics: NewMetrics(),
		log:     logging.Get(logging.CategoryGateway),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.metrics.instrument)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.Get("/debug", s.handleDebug)
		r.Get("/test-backend", s.handleTestBackend)
		r.Handle("/*", s.newProxy(upstream))
	})

	r.Get("/tables", s.handleTableIndex)
	r.Get("/tables/{resource}", s.handleTable)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	s.router = r
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.Infow("gateway listening", "addr", ln.Addr().String(), "upstream", s.opts.Client.BaseURL())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Infow("gateway shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln, shutdownTimeout)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debugw("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
