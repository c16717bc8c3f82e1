// Package server exposes barcode and photo resolution plus the catalog over
// a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/lepinkainen/mediacat/internal/catalog"
	"github.com/lepinkainen/mediacat/internal/media"
)

// maxBodyBytes bounds JSON request bodies, including base64 images.
const maxBodyBytes = 10 << 20

const shutdownTimeout = 5 * time.Second

// BarcodeResolver resolves a scanned identifier into metadata.
type BarcodeResolver interface {
	ResolveBarcode(ctx context.Context, raw string) (*media.NormalizedMetadata, error)
}

// PhotoResolver resolves an image into metadata.
type PhotoResolver interface {
	ResolvePhoto(ctx context.Context, image []byte) (*media.NormalizedMetadata, error)
}

// Catalog is the item store behind /api/media.
type Catalog interface {
	Create(ctx context.Context, item *catalog.Item) (int64, error)
	Get(ctx context.Context, id int64) (*catalog.Item, error)
	Update(ctx context.Context, item *catalog.Item) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, opts catalog.ListOptions) ([]catalog.Item, error)
}

// Server wires resolvers and the catalog to HTTP routes.
type Server struct {
	barcodes BarcodeResolver
	photos   PhotoResolver
	catalog  Catalog
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request and error logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCatalog enables the /api/media routes.
func WithCatalog(c Catalog) Option {
	return func(s *Server) {
		s.catalog = c
	}
}

// New creates a Server. The catalog is optional; without it the /api/media
// routes are not registered.
func New(barcodes BarcodeResolver, photos PhotoResolver, opts ...Option) *Server {
	s := &Server{
		barcodes: barcodes,
		photos:   photos,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "http-server")
	return s
}

// Handler returns the routed handler with request ID and logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /lookup_barcode", s.handleLookupBarcode)
	mux.HandleFunc("POST /process_image", s.handleProcessImage)
	mux.HandleFunc("GET /healthcheck", s.handleHealthcheck)

	if s.catalog != nil {
		mux.HandleFunc("GET /api/media", s.handleListMedia)
		mux.HandleFunc("POST /api/media", s.handleCreateMedia)
		mux.HandleFunc("GET /api/media/{id}", s.handleGetMedia)
		mux.HandleFunc("PUT /api/media/{id}", s.handleUpdateMedia)
		mux.HandleFunc("DELETE /api/media/{id}", s.handleDeleteMedia)
	}

	return s.withRequestID(mux)
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve handles connections on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", "addr", listener.Addr().String())
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		s.logger.Info("Server stopped")
		return nil
	case err, ok := <-serverErr:
		if !ok {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	if _, err := w.Write([]byte("OK")); err != nil {
		s.log(r).Error("Unable to write healthcheck", "error", err)
	}
}
