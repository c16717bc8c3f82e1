package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/lepinkainen/mediacat/internal/lookup"
)

const openLibraryBaseURL = "https://openlibrary.org"

// OpenLibrary looks books up by ISBN in the OpenLibrary books API.
type OpenLibrary struct {
	client
}

var _ lookup.Provider = (*OpenLibrary)(nil)

// NewOpenLibrary creates an OpenLibrary provider.
func NewOpenLibrary(opts ...Option) *OpenLibrary {
	return &OpenLibrary{client: newClient("OpenLibrary", openLibraryBaseURL, opts)}
}

// Name returns the human-readable name of this provider.
func (p *OpenLibrary) Name() string {
	return p.name
}

type openLibraryBook struct {
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	Publishers []struct {
		Name string `json:"name"`
	} `json:"publishers"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
	PublishDate string `json:"publish_date"`
}

// Lookup fetches book data for isbn. An unknown ISBN yields (nil, nil).
func (p *OpenLibrary) Lookup(ctx context.Context, isbn string) (*lookup.Record, error) {
	isbn = NormalizeISBN(isbn)
	if isbn == "" {
		return nil, nil
	}

	bibkey := "ISBN:" + isbn
	params := url.Values{}
	params.Set("bibkeys", bibkey)
	params.Set("format", "json")
	params.Set("jscmd", "data")
	endpoint := fmt.Sprintf("%s/api/books?%s", p.baseURL, params.Encode())

	var result map[string]openLibraryBook
	if err := p.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}

	book, ok := result[bibkey]
	if !ok || book.Title == "" {
		slog.Debug("OpenLibrary has no record", "isbn", isbn)
		return nil, nil
	}

	rec := &lookup.Record{
		Title:       stringPtr(book.Title),
		Subtitle:    stringPtr(book.Subtitle),
		PublishDate: stringPtr(book.PublishDate),
		ISBN:        &isbn,
		Source:      p.name,
	}
	if len(book.Publishers) > 0 {
		rec.Publisher = stringPtr(book.Publishers[0].Name)
	}
	for _, author := range book.Authors {
		if author.Name != "" {
			rec.Creators = append(rec.Creators, author.Name)
		}
	}

	return rec, nil
}
