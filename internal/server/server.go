// Package server exposes the analysis and query operations as a read-only
// JSON API over the canonical table.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/KaramelBytes/efindex-cli/internal/dataset"
	"github.com/KaramelBytes/efindex-cli/internal/logging"
	"github.com/KaramelBytes/efindex-cli/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Options are the request defaults.
type Options struct {
	TopN          int
	BottomN       int
	HistogramBins int
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}

// Server serves one canonical table. The table is shared by all requests
// and never modified; only sessions carry per-client state.
type Server struct {
	table    *dataset.Table
	clean    *dataset.CleanReport
	sessions *session.Store
	logger   *slog.Logger
	opts     Options
	metrics  *metrics
	router   chi.Router
}

// New builds the server and its routes. cr may be nil.
func New(t *dataset.Table, cr *dataset.CleanReport, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.TopN <= 0 {
		opts.TopN = 10
	}
	if opts.BottomN <= 0 {
		opts.BottomN = 10
	}
	s := &Server{
		table:    t,
		clean:    cr,
		sessions: session.NewStore(),
		logger:   logger,
		opts:     opts,
	}
	s.metrics = newMetrics(func() float64 { return float64(s.sessions.Len()) })
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.middleware)
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/summary", s.handleSummary)
		r.Get("/categories", s.handleCategories)
		r.Get("/correlations", s.handleCorrelations)
		r.Get("/rankings", s.handleRankings)
		r.Get("/regions", s.handleRegions)
		r.Get("/compare", s.handleCompare)
		r.Get("/classification", s.handleClassification)

		r.Route("/countries", func(r chi.Router) {
			r.Get("/", s.handleCountries)
			r.Get("/{name}", s.handleCountry)
			r.Get("/{name}/contribution", s.handleContribution)
		})

		r.Get("/charts", s.handleChartKinds)
		r.Get("/charts/{kind}", s.handleChart)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Get("/regions", s.handleGetSession)
				r.Put("/regions", s.handleSetRegions)
			})
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		logging.LogOperation(s.logger, "http server listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logging.LogOperation(s.logger, "http server stopped")
	return nil
}

// requestLogger puts the logger in the request context and logs each request.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			r = r.WithContext(logging.WithLogger(r.Context(), logger))
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logging.LogHTTPRequest(logger, r.Method, r.URL.Path, status,
				float64(time.Since(start).Nanoseconds())/1e6,
				slog.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
