package lookup

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lepinkainen/mediacat/internal/barcode"
	"github.com/lepinkainen/mediacat/internal/config"
	"github.com/lepinkainen/mediacat/internal/errors"
	"github.com/lepinkainen/mediacat/internal/media"
)

// Orchestrator tries barcode candidates against their providers in order,
// stopping at the first provider that returns a record.
type Orchestrator struct {
	providers map[media.ProviderID]Provider
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithProvider registers p for the given candidate provider id, replacing
// any previous registration.
func WithProvider(id media.ProviderID, p Provider) Option {
	return func(o *Orchestrator) {
		if p != nil {
			o.providers[id] = p
		}
	}
}

// WithLogger overrides the default slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOrchestrator creates an orchestrator bounded by cfg's per-call timeout.
func NewOrchestrator(cfg config.LookupConfig, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		providers: make(map[media.ProviderID]Provider),
		timeout:   cfg.Timeout,
		logger:    slog.Default(),
	}
	if o.timeout <= 0 {
		o.timeout = config.DefaultLookupTimeout
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ResolveBarcode classifies raw and returns the first successful provider
// result, normalized. It returns errors.ErrNotFound when no candidate yields
// a record, including when the identifier has no candidates at all.
//
// Provider failures are logged and treated as "no result"; they never reach
// the caller. Only cancellation of ctx is reported as an error.
func (o *Orchestrator) ResolveBarcode(ctx context.Context, raw string) (*media.NormalizedMetadata, error) {
	identifier := strings.TrimSpace(raw)
	candidates := barcode.Classify(identifier)
	if len(candidates) == 0 {
		o.logger.Debug("No lookup candidates for identifier", "barcode", identifier, "length", len(identifier))
		return nil, fmt.Errorf("barcode %s: %w", identifier, errors.ErrNotFound)
	}

	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := o.try(ctx, candidate, identifier)
		if err != nil {
			o.logger.Warn("Lookup candidate failed, trying next",
				"provider", candidate.Provider,
				"media_type", candidate.AssumedMediaType,
				"barcode", identifier,
				"error", err)
			continue
		}
		if rec == nil {
			o.logger.Debug("Lookup candidate found nothing",
				"provider", candidate.Provider,
				"media_type", candidate.AssumedMediaType,
				"barcode", identifier)
			continue
		}

		o.logger.Info("Barcode resolved",
			"barcode", identifier,
			"provider", candidate.Provider,
			"source", rec.Source,
			"media_type", candidate.AssumedMediaType)
		return Normalize(rec, candidate.AssumedMediaType), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("barcode %s: %w", identifier, errors.ErrNotFound)
}

// try runs a single candidate under its own timeout. An unregistered
// provider counts as "no result".
func (o *Orchestrator) try(ctx context.Context, candidate media.Candidate, identifier string) (*Record, error) {
	p, ok := o.providers[candidate.Provider]
	if !ok {
		return nil, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	return p.Lookup(callCtx, identifier)
}
