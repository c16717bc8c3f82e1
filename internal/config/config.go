// Package config loads the runtime configuration into an immutable value
// that is passed explicitly to every component needing credentials or
// endpoints.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"
)

// Version is reported in the MusicBrainz User-Agent and by the CLI.
const Version = "0.1.0"

const (
	DefaultLookupTimeout = 5 * time.Second
	DefaultUserAgent     = "mediacat/" + Version + " ( https://github.com/lepinkainen/mediacat )"
)

// Config is a read-only snapshot of the configuration. It is safe to share
// between concurrent requests.
type Config struct {
	Server      ServerConfig
	Lookup      LookupConfig
	OpenLibrary EndpointConfig
	GoogleBooks EndpointConfig
	MusicBrainz EndpointConfig
	UPCitemdb   EndpointConfig
	Vision      VisionConfig
	Catalog     CatalogConfig
	Cache       CacheConfig
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr string
}

// LookupConfig holds settings shared by all barcode lookup providers.
type LookupConfig struct {
	// Timeout bounds each individual provider call.
	Timeout   time.Duration
	UserAgent string
}

// EndpointConfig describes one external lookup API. APIKey is optional
// for providers that don't need one.
type EndpointConfig struct {
	BaseURL string
	APIKey  string
}

// VisionConfig holds settings for the image analysis provider.
type VisionConfig struct {
	APIKey       string
	Endpoint     string
	MaxLabels    int
	MaxDimension int
	Timeout      time.Duration
}

// CatalogConfig holds catalog store settings.
type CatalogConfig struct {
	DBFile string
}

// CacheConfig holds lookup response cache settings.
type CacheConfig struct {
	Enabled bool
	DBFile  string
	TTL     time.Duration
}

// SetDefaults registers default values with viper.
func SetDefaults() {
	viper.SetDefault("server.addr", ":8080")

	viper.SetDefault("lookup.timeout", DefaultLookupTimeout.String())
	viper.SetDefault("lookup.user_agent", DefaultUserAgent)

	viper.SetDefault("openlibrary.base_url", "https://openlibrary.org")
	viper.SetDefault("googlebooks.base_url", "https://www.googleapis.com/books/v1")
	viper.SetDefault("musicbrainz.base_url", "https://musicbrainz.org")
	viper.SetDefault("upcitemdb.base_url", "https://api.upcitemdb.com")

	viper.SetDefault("vision.endpoint", "https://vision.googleapis.com/")
	viper.SetDefault("vision.max_labels", 10)
	viper.SetDefault("vision.max_dimension", 1600)
	viper.SetDefault("vision.timeout", DefaultLookupTimeout.String())

	viper.SetDefault("catalog.dbfile", "./mediacat.db")

	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "720h") // 30 days
}

// BindEnv maps the conventional environment variable names onto config keys.
func BindEnv() error {
	bindings := map[string]string{
		"googlebooks.api_key": "GOOGLE_BOOKS_API_KEY",
		"video.api_key":       "VIDEO_API_KEY",
		"vision.api_key":      "VISION_API_KEY",
		"catalog.dbfile":      "MEDIACAT_DB",
		"server.addr":         "MEDIACAT_ADDR",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			return fmt.Errorf("binding %s to %s: %w", key, env, err)
		}
	}
	return nil
}

// Load snapshots the current viper state into a Config.
func Load() (*Config, error) {
	lookupTimeout, err := parseDuration("lookup.timeout", DefaultLookupTimeout)
	if err != nil {
		return nil, err
	}
	visionTimeout, err := parseDuration("vision.timeout", DefaultLookupTimeout)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("cache.ttl", 720*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{Addr: viper.GetString("server.addr")},
		Lookup: LookupConfig{
			Timeout:   lookupTimeout,
			UserAgent: viper.GetString("lookup.user_agent"),
		},
		OpenLibrary: EndpointConfig{BaseURL: viper.GetString("openlibrary.base_url")},
		GoogleBooks: EndpointConfig{
			BaseURL: viper.GetString("googlebooks.base_url"),
			APIKey:  viper.GetString("googlebooks.api_key"),
		},
		MusicBrainz: EndpointConfig{BaseURL: viper.GetString("musicbrainz.base_url")},
		UPCitemdb: EndpointConfig{
			BaseURL: viper.GetString("upcitemdb.base_url"),
			APIKey:  viper.GetString("video.api_key"),
		},
		Vision: VisionConfig{
			APIKey:       viper.GetString("vision.api_key"),
			Endpoint:     viper.GetString("vision.endpoint"),
			MaxLabels:    viper.GetInt("vision.max_labels"),
			MaxDimension: viper.GetInt("vision.max_dimension"),
			Timeout:      visionTimeout,
		},
		Catalog: CatalogConfig{DBFile: viper.GetString("catalog.dbfile")},
		Cache: CacheConfig{
			Enabled: viper.GetBool("cache.enabled"),
			DBFile:  viper.GetString("cache.dbfile"),
			TTL:     cacheTTL,
		},
	}

	if cfg.Lookup.UserAgent == "" {
		cfg.Lookup.UserAgent = DefaultUserAgent
	}
	if cfg.Vision.MaxLabels <= 0 {
		slog.Warn("Invalid vision.max_labels, using default", "value", cfg.Vision.MaxLabels)
		cfg.Vision.MaxLabels = 10
	}

	return cfg, nil
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := viper.GetString(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, raw)
	}
	return d, nil
}
