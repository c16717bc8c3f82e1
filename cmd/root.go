package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/lepinkainen/mediacat/internal/cache"
	"github.com/lepinkainen/mediacat/internal/catalog"
	"github.com/lepinkainen/mediacat/internal/config"
	"github.com/lepinkainen/mediacat/internal/photo"
	"github.com/lepinkainen/mediacat/internal/providers"
	"github.com/lepinkainen/mediacat/internal/vision"
)

// Overridable in tests.
var (
	openCatalog = catalog.Open
	newResolver = func(cfg *config.Config, db *cache.CacheDB) barcodeResolver {
		return providers.NewOrchestrator(cfg, db)
	}
	newPhotoResolver = func(cfg *config.Config) photoResolver {
		return photo.NewResolver(vision.NewExtractor(cfg.Vision))
	}
)

// CLI represents the complete command structure for the mediacat application
type CLI struct {
	// Global flags
	Config   string `help:"Path to a YAML config file (defaults to ./config.yaml when present)" type:"path"`
	LogLevel string `help:"Log level" enum:"debug,info,warn,error" default:"info"`
	LogJSON  bool   `help:"Log as JSON instead of human-readable text"`

	CatalogDB    string `help:"Path to catalog SQLite database file (overrides catalog.dbfile)"`
	CacheEnabled bool   `help:"Cache provider responses in the cache database"`
	CacheDBFile  string `help:"Path to cache SQLite database file (overrides cache.dbfile)"`
	CacheTTL     string `help:"Cache time-to-live duration (e.g., 720h for 30 days)"`

	Serve   ServeCmd   `cmd:"" help:"Start the HTTP API server"`
	Lookup  LookupCmd  `cmd:"" help:"Resolve a barcode (ISBN, UPC or EAN) into metadata"`
	Photo   PhotoCmd   `cmd:"" help:"Resolve a photo of a book, disc or video case into metadata"`
	Catalog CatalogCmd `cmd:"" help:"Manage the media catalog"`
	Cache   CacheCmd   `cmd:"" help:"Manage the provider response cache"`
	Version VersionCmd `cmd:"" help:"Print the version"`
}

// CacheCmd groups cache maintenance subcommands
type CacheCmd struct {
	Invalidate cache.InvalidateCacheCmd `cmd:"" help:"Remove every cached response for one provider"`
	Prune      cache.PruneCacheCmd      `cmd:"" help:"Remove expired cache entries"`
}

// VersionCmd prints the version
type VersionCmd struct{}

func (v *VersionCmd) Run(out io.Writer) error {
	_, err := fmt.Fprintf(out, "mediacat %s\n", config.Version)
	return err
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	base := []kong.Option{
		kong.Name("mediacat"),
		kong.Description("Resolve barcodes and photos of books, music and video into catalog metadata."),
		kong.UsageOnError(),
	}
	return kong.New(cli, append(base, options...)...)
}

// Execute runs the Kong-based CLI
func Execute() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	initLogging(os.Stderr, cli.LogLevel, cli.LogJSON)

	cfg, err := loadConfig(&cli)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, kctx, cfg, os.Stdout)
	stop()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, kctx *kong.Context, cfg *config.Config, out io.Writer) error {
	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.BindTo(out, (*io.Writer)(nil))
	return kctx.Run(cfg)
}

func loadConfig(cli *CLI) (*config.Config, error) {
	if err := initConfig(cli.Config); err != nil {
		return nil, err
	}
	updateGlobalConfig(cli)
	return config.Load()
}

func initConfig(configFile string) error {
	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	config.SetDefaults()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := config.BindEnv(); err != nil {
		return err
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", configFile, err)
		}
		return nil
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Debug("Config file not found, using defaults and environment")
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

// updateGlobalConfig lets explicitly passed flags override file and env values.
func updateGlobalConfig(cli *CLI) {
	if cli.CatalogDB != "" {
		viper.Set("catalog.dbfile", cli.CatalogDB)
	}
	if cli.CacheEnabled {
		viper.Set("cache.enabled", true)
	}
	if cli.CacheDBFile != "" {
		viper.Set("cache.dbfile", cli.CacheDBFile)
	}
	if cli.CacheTTL != "" {
		viper.Set("cache.ttl", cli.CacheTTL)
	}
}

func initLogging(w io.Writer, level string, asJSON bool) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	var handler slog.Handler
	if asJSON {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	} else {
		handler = humanlog.NewHandler(w, &humanlog.Options{Level: lvl})
	}
	slog.SetDefault(slog.New(handler))
}

// openCache returns nil when caching is disabled.
func openCache(cfg *config.Config) (*cache.CacheDB, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	db, err := cache.Open(cfg.Cache.DBFile, cfg.Cache.TTL)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	return db, nil
}

func closeCache(db *cache.CacheDB) {
	if db != nil {
		_ = db.Close()
	}
}
