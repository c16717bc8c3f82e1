// Package photo turns a photograph into normalized metadata by combining
// vision labels with text heuristics.
package photo

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lepinkainen/mediacat/internal/media"
	"github.com/lepinkainen/mediacat/internal/textparse"
	"github.com/lepinkainen/mediacat/internal/vision"
)

// Extractor is the vision capability the resolver depends on.
type Extractor interface {
	Extract(ctx context.Context, image []byte) (*vision.Extraction, error)
}

// keywordRules are checked in order for each label; the first rule with a
// matching keyword decides the label's media type.
var keywordRules = []struct {
	mediaType media.MediaType
	keywords  []string
}{
	{media.Book, []string{"book"}},
	{media.Audio, []string{"cd", "disc"}},
	{media.Video, []string{"dvd", "bluray", "video"}},
}

// ClassifyLabels returns the media type of the highest scoring label that
// names a book, disc or video, with its score. Equal scores keep the label
// seen first. No match returns (nil, 0).
func ClassifyLabels(labels []media.ObjectLabel) (*media.MediaType, float64) {
	lower := cases.Lower(language.Und)

	var best *media.MediaType
	bestScore := 0.0
	for _, label := range labels {
		name := lower.String(label.Name)
		for _, rule := range keywordRules {
			if !containsAny(name, rule.keywords) {
				continue
			}
			if label.Score > bestScore {
				best, bestScore = rule.mediaType.Ptr(), label.Score
			}
			break
		}
	}
	return best, bestScore
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// Resolver resolves photographs into metadata.
type Resolver struct {
	extractor Extractor
}

// NewResolver creates a Resolver backed by extractor.
func NewResolver(extractor Extractor) *Resolver {
	return &Resolver{extractor: extractor}
}

// ResolvePhoto extracts labels and text from image and merges them into one
// envelope. Extraction failures are returned unchanged.
//
// When no label matches, MediaType stays nil; the text heuristics do not
// depend on a type.
func (r *Resolver) ResolvePhoto(ctx context.Context, image []byte) (*media.NormalizedMetadata, error) {
	extraction, err := r.extractor.Extract(ctx, image)
	if err != nil {
		return nil, err
	}

	mediaType, score := ClassifyLabels(extraction.Labels)
	fields := textparse.Parse(extraction.RawText)

	return &media.NormalizedMetadata{
		MediaType:  mediaType,
		Title:      fields.Title,
		Creator:    fields.Author,
		Year:       fields.Year,
		Confidence: score,
		SourceText: extraction.RawText,
	}, nil
}
