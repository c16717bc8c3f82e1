package cache

import (
	"fmt"
	"log/slog"

	"github.com/lepinkainen/mediacat/internal/config"
)

// InvalidateCacheCmd represents the cache invalidate subcommand
type InvalidateCacheCmd struct {
	Source string `arg:"" help:"Cache source to invalidate: openlibrary, googlebooks, musicbrainz, upcitemdb" required:""`
}

func (i *InvalidateCacheCmd) Run(cfg *config.Config) error {
	slog.Info("Invalidating cache", "source", i.Source, "database", cfg.Cache.DBFile)

	tableName, err := TableForSource(i.Source)
	if err != nil {
		return err
	}

	cacheInstance, err := Open(cfg.Cache.DBFile, cfg.Cache.TTL)
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}
	defer func() { _ = cacheInstance.Close() }()

	rowsDeleted, err := cacheInstance.InvalidateSource(tableName)
	if err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}

	slog.Info("Cache invalidated", "source", i.Source, "rows_deleted", rowsDeleted)
	return nil
}

// PruneCacheCmd removes expired entries from every provider table.
type PruneCacheCmd struct{}

func (p *PruneCacheCmd) Run(cfg *config.Config) error {
	cacheInstance, err := Open(cfg.Cache.DBFile, cfg.Cache.TTL)
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}
	defer func() { _ = cacheInstance.Close() }()

	var total int64
	for _, table := range ProviderTables {
		n, err := cacheInstance.ClearExpired(table)
		if err != nil {
			return err
		}
		total += n
	}

	slog.Info("Expired cache entries removed", "rows_deleted", total)
	return nil
}
