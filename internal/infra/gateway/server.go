// Package gateway serves the catalog HTTP API: paginated search,
// filtering and sorting over the tool index, per-tool detail documents,
// and the favorites set.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"biocat/internal/infra/favorites"
	"biocat/internal/infra/index"
	"biocat/internal/infra/telemetry"
)

// IndexProvider hands out the current catalog index snapshot. The
// snapshot is immutable; reloads swap in a new one.
type IndexProvider interface {
	Current() *index.Index
}

// Options wires a Server.
type Options struct {
	Provider        IndexProvider
	Favorites       favorites.Set
	Metrics         *telemetry.PrometheusMetrics
	PagesDir        string
	DefaultPageSize int
	MaxPageSize     int
}

type Server struct {
	logger    *zap.Logger
	provider  IndexProvider
	favorites favorites.Set
	metrics   *telemetry.PrometheusMetrics
	pagesDir  string
	pageSize  int
	maxPage   int
}

func NewServer(opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	pageSize := opts.DefaultPageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	maxPage := opts.MaxPageSize
	if maxPage <= 0 {
		maxPage = 200
	}
	return &Server{
		logger:    logger.Named("gateway"),
		provider:  opts.Provider,
		favorites: opts.Favorites,
		metrics:   opts.Metrics,
		pagesDir:  opts.PagesDir,
		pageSize:  pageSize,
		maxPage:   maxPage,
	}
}

// Handler builds the API mux with request ID and access log middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tools", s.handleListTools)
	mux.HandleFunc("GET /api/tools/{name}", s.handleGetTool)
	mux.HandleFunc("GET /api/licenses", s.handleListLicenses)
	mux.HandleFunc("GET /api/favorites", s.handleListFavorites)
	mux.HandleFunc("PUT /api/favorites/{name}", s.handleToggleFavorite)
	mux.HandleFunc("DELETE /api/favorites/{name}", s.handleRemoveFavorite)
	return s.withMiddleware(mux)
}

// Serve runs the API listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("catalog api listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("catalog api failed to start: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("catalog api shutdown error", zap.Error(err))
			return err
		}
		s.logger.Info("catalog api stopped")
		return nil
	}
}
