package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/lepinkainen/mediacat/internal/lookup"
)

const googleBooksBaseURL = "https://www.googleapis.com/books/v1"

// GoogleBooks looks books up by ISBN in the Google Books volumes API. The
// API key is optional; without one requests use the anonymous quota.
type GoogleBooks struct {
	client
	apiKey string
}

var _ lookup.Provider = (*GoogleBooks)(nil)

// NewGoogleBooks creates a Google Books provider.
func NewGoogleBooks(apiKey string, opts ...Option) *GoogleBooks {
	return &GoogleBooks{
		client: newClient("Google Books", googleBooksBaseURL, opts),
		apiKey: apiKey,
	}
}

// Name returns the human-readable name of this provider.
func (p *GoogleBooks) Name() string {
	return p.name
}

type googleBooksResponse struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo struct {
			Title               string   `json:"title"`
			Subtitle            string   `json:"subtitle"`
			Authors             []string `json:"authors"`
			Publisher           string   `json:"publisher"`
			PublishedDate       string   `json:"publishedDate"`
			IndustryIdentifiers []struct {
				Type       string `json:"type"`
				Identifier string `json:"identifier"`
			} `json:"industryIdentifiers"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// Lookup fetches the first volume matching isbn. No match yields (nil, nil).
func (p *GoogleBooks) Lookup(ctx context.Context, isbn string) (*lookup.Record, error) {
	isbn = NormalizeISBN(isbn)
	if isbn == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", "isbn:"+isbn)
	if p.apiKey != "" {
		params.Set("key", p.apiKey)
	}
	endpoint := fmt.Sprintf("%s/volumes?%s", p.baseURL, params.Encode())

	var result googleBooksResponse
	if err := p.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}

	if result.TotalItems == 0 || len(result.Items) == 0 {
		slog.Debug("Google Books has no record", "isbn", isbn)
		return nil, nil
	}

	info := result.Items[0].VolumeInfo
	if info.Title == "" {
		return nil, nil
	}

	rec := &lookup.Record{
		Title:       stringPtr(info.Title),
		Subtitle:    stringPtr(info.Subtitle),
		Publisher:   stringPtr(info.Publisher),
		PublishDate: stringPtr(info.PublishedDate),
		Source:      p.name,
	}
	for _, author := range info.Authors {
		if author != "" {
			rec.Creators = append(rec.Creators, author)
		}
	}

	// Prefer the ISBN-13 the API reports, fall back to the one queried.
	rec.ISBN = &isbn
	for _, id := range info.IndustryIdentifiers {
		if id.Type == "ISBN_13" && id.Identifier != "" {
			rec.ISBN = stringPtr(id.Identifier)
			break
		}
	}

	return rec, nil
}
