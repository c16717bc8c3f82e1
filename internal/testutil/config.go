package testutil

import (
	"testing"
	"time"

	"github.com/lepinkainen/mediacat/internal/config"
	"github.com/spf13/viper"
)

// ResetViper clears global viper state now and again when the test completes.
func ResetViper(t *testing.T) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)
}

// ConfigOption adjusts a test configuration.
type ConfigOption func(*config.Config)

// WithVisionAPIKey sets the vision credential.
func WithVisionAPIKey(key string) ConfigOption {
	return func(c *config.Config) { c.Vision.APIKey = key }
}

// WithVideoAPIKey sets the video lookup credential.
func WithVideoAPIKey(key string) ConfigOption {
	return func(c *config.Config) { c.UPCitemdb.APIKey = key }
}

// WithLookupTimeout sets the per-provider call timeout.
func WithLookupTimeout(d time.Duration) ConfigOption {
	return func(c *config.Config) { c.Lookup.Timeout = d }
}

// WithBaseURL points every external provider, including vision, at url.
func WithBaseURL(url string) ConfigOption {
	return func(c *config.Config) {
		c.OpenLibrary.BaseURL = url
		c.GoogleBooks.BaseURL = url
		c.MusicBrainz.BaseURL = url
		c.UPCitemdb.BaseURL = url
		c.Vision.Endpoint = url + "/"
	}
}

// NewTestConfig builds a configuration from the real defaults with files
// placed inside env and no credentials set.
func NewTestConfig(t *testing.T, env *TestEnv, opts ...ConfigOption) *config.Config {
	t.Helper()

	ResetViper(t)
	config.SetDefaults()
	viper.Set("catalog.dbfile", env.DBPath("catalog"))
	viper.Set("cache.dbfile", env.DBPath("cache"))

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
