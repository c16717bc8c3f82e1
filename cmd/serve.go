package cmd

import (
	"context"
	"log/slog"

	"github.com/lepinkainen/mediacat/internal/config"
	"github.com/lepinkainen/mediacat/internal/server"
)

// ServeCmd starts the HTTP API
type ServeCmd struct {
	Addr string `help:"Listen address (overrides server.addr)"`
}

func (s *ServeCmd) Run(ctx context.Context, cfg *config.Config) error {
	addr := s.Addr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	db, err := openCache(cfg)
	if err != nil {
		return err
	}
	defer closeCache(db)

	store, err := openCatalog(cfg.Catalog.DBFile)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if cfg.Vision.APIKey == "" {
		slog.Warn("vision.api_key is not set; /process_image will fail")
	}
	if cfg.UPCitemdb.APIKey == "" {
		slog.Info("video.api_key is not set; video barcodes will not resolve")
	}

	srv := server.New(
		newResolver(cfg, db),
		newPhotoResolver(cfg),
		server.WithCatalog(store),
		server.WithLogger(slog.Default()),
	)
	return srv.Run(ctx, addr)
}
