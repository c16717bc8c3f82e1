// Package lookup resolves a raw barcode into normalized metadata by trying
// the classifier's candidates against external providers in priority order.
package lookup

import (
	"context"
	"strings"

	"github.com/lepinkainen/mediacat/internal/media"
	"github.com/lepinkainen/mediacat/internal/textparse"
)

// Provider is a single external lookup capability.
//
// Lookup returns (nil, nil) when the provider found nothing, and a non-nil
// error only for actual failures (transport, status, decoding). Whether a
// failure is fatal is decided by the caller, never by the provider.
type Provider interface {
	// Name returns the human-readable name of the source (e.g., "OpenLibrary").
	Name() string

	// Lookup queries the source for the given identifier.
	Lookup(ctx context.Context, identifier string) (*Record, error)
}

// Record is the payload returned by one provider call. Pointer fields
// distinguish "not set" from "empty string".
type Record struct {
	Title    *string `json:"title,omitempty"`
	Subtitle *string `json:"subtitle,omitempty"`

	// Creators are authors, artists or directors, in source order.
	Creators []string `json:"creators,omitempty"`

	// PublishDate is the release or publication date (format varies by source).
	PublishDate *string `json:"publish_date,omitempty"`

	Publisher *string `json:"publisher,omitempty"`
	ISBN      *string `json:"isbn,omitempty"`

	// Source is the name of the provider that produced the record.
	Source string `json:"source,omitempty"`
}

// Normalize maps a provider record onto the canonical envelope, stamping it
// with the media type the winning candidate assumed.
func Normalize(rec *Record, mediaType media.MediaType) *media.NormalizedMetadata {
	md := &media.NormalizedMetadata{MediaType: mediaType.Ptr()}
	if rec == nil {
		return md
	}

	md.Title = nonEmpty(rec.Title)
	md.Publisher = nonEmpty(rec.Publisher)
	md.ISBN = nonEmpty(rec.ISBN)

	if len(rec.Creators) > 0 {
		md.Creator = media.StringPtr(strings.Join(rec.Creators, ", "))
	}
	if rec.PublishDate != nil {
		md.Year = media.StringPtr(textparse.FindYear(*rec.PublishDate))
	}

	return md
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	return media.StringPtr(strings.TrimSpace(*s))
}
