package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/lepinkainen/mediacat/internal/lookup"
	"github.com/lepinkainen/mediacat/internal/textparse"
)

const upcItemDBBaseURL = "https://api.upcitemdb.com"

// UPCitemdb looks video releases up by UPC/EAN. It requires an API key;
// without one every lookup is a silent miss.
type UPCitemdb struct {
	client
	apiKey string
}

var _ lookup.Provider = (*UPCitemdb)(nil)

// NewUPCitemdb creates a UPCitemdb provider.
func NewUPCitemdb(apiKey string, opts ...Option) *UPCitemdb {
	p := &UPCitemdb{
		client: newClient("UPCitemdb", upcItemDBBaseURL, opts),
		apiKey: strings.TrimSpace(apiKey),
	}
	if p.apiKey != "" {
		p.header["user_key"] = []string{p.apiKey}
		p.header["key_type"] = []string{"3scale"}
	}
	return p
}

// Name returns the human-readable name of this provider.
func (p *UPCitemdb) Name() string {
	return p.name
}

type upcItemDBResponse struct {
	Code  string `json:"code"`
	Total int    `json:"total"`
	Items []struct {
		EAN         string `json:"ean"`
		UPC         string `json:"upc"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Brand       string `json:"brand"`
	} `json:"items"`
}

// Lookup returns the first item for code, or (nil, nil) when nothing
// matched or no API key is configured.
func (p *UPCitemdb) Lookup(ctx context.Context, code string) (*lookup.Record, error) {
	code = strings.TrimSpace(code)
	if p.apiKey == "" {
		slog.Debug("UPCitemdb API key not configured, skipping", "barcode", code)
		return nil, nil
	}
	if code == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("upc", code)
	endpoint := fmt.Sprintf("%s/prod/v1/lookup?%s", p.baseURL, params.Encode())

	var result upcItemDBResponse
	if err := p.getJSON(ctx, endpoint, &result); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if len(result.Items) == 0 || result.Items[0].Title == "" {
		slog.Debug("UPCitemdb has no item", "barcode", code)
		return nil, nil
	}

	item := result.Items[0]
	rec := &lookup.Record{
		Title:     stringPtr(item.Title),
		Publisher: stringPtr(item.Brand),
		Source:    p.name,
	}
	// Item titles often carry the release year, e.g. "Heat (1995) [Blu-ray]".
	year := textparse.FindYear(item.Title)
	if year == "" {
		year = textparse.FindYear(item.Description)
	}
	rec.PublishDate = stringPtr(year)

	return rec, nil
}
