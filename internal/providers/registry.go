package providers

import (
	"github.com/lepinkainen/mediacat/internal/cache"
	"github.com/lepinkainen/mediacat/internal/config"
	"github.com/lepinkainen/mediacat/internal/lookup"
	"github.com/lepinkainen/mediacat/internal/media"
)

// Register builds every provider from cfg and returns the orchestrator
// options binding them to their candidate ids. A non-nil db puts each
// catalog behind the response cache. opts apply to every provider after
// the configured base URLs.
func Register(cfg *config.Config, db *cache.CacheDB, opts ...Option) []lookup.Option {
	with := func(baseURL string) []Option {
		return append([]Option{WithBaseURL(baseURL)}, opts...)
	}

	openLibrary := lookup.NewCachedProvider(
		NewOpenLibrary(with(cfg.OpenLibrary.BaseURL)...), db, cache.OpenLibraryTable)
	googleBooks := lookup.NewCachedProvider(
		NewGoogleBooks(cfg.GoogleBooks.APIKey, with(cfg.GoogleBooks.BaseURL)...), db, cache.GoogleBooksTable)
	musicBrainz := lookup.NewCachedProvider(
		NewMusicBrainz(cfg.Lookup.UserAgent, with(cfg.MusicBrainz.BaseURL)...), db, cache.MusicBrainzTable)
	var upcItemDB lookup.Provider = NewUPCitemdb(cfg.UPCitemdb.APIKey, with(cfg.UPCitemdb.BaseURL)...)
	// Keyless misses must not be cached, or adding a key later has no effect.
	if cfg.UPCitemdb.APIKey != "" {
		upcItemDB = lookup.NewCachedProvider(upcItemDB, db, cache.UPCitemdbTable)
	}

	return []lookup.Option{
		lookup.WithProvider(media.ProviderISBNChain, NewBookChain(openLibrary, googleBooks)),
		lookup.WithProvider(media.ProviderAudioBarcode, musicBrainz),
		lookup.WithProvider(media.ProviderVideoBarcode, upcItemDB),
	}
}

// NewOrchestrator is a convenience for lookup.NewOrchestrator with every
// configured provider registered.
func NewOrchestrator(cfg *config.Config, db *cache.CacheDB, opts ...Option) *lookup.Orchestrator {
	return lookup.NewOrchestrator(cfg.Lookup, Register(cfg, db, opts...)...)
}
