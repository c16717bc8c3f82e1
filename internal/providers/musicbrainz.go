package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/lepinkainen/mediacat/internal/lookup"
	"github.com/lepinkainen/mediacat/internal/ratelimit"
)

const musicBrainzBaseURL = "https://musicbrainz.org"

// MusicBrainz searches releases by barcode. It needs no credential but the
// service requires a descriptive User-Agent and at most one request per
// second.
type MusicBrainz struct {
	client
}

var _ lookup.Provider = (*MusicBrainz)(nil)

// NewMusicBrainz creates a MusicBrainz provider identifying itself with
// userAgent. A 1 req/s limiter is installed unless opts replace it.
func NewMusicBrainz(userAgent string, opts ...Option) *MusicBrainz {
	opts = append([]Option{WithRateLimiter(ratelimit.New("MusicBrainz", 1))}, opts...)
	p := &MusicBrainz{client: newClient("MusicBrainz", musicBrainzBaseURL, opts)}
	p.header.Set("User-Agent", userAgent)
	return p
}

// Name returns the human-readable name of this provider.
func (p *MusicBrainz) Name() string {
	return p.name
}

type musicBrainzSearch struct {
	Count    int                  `json:"count"`
	Releases []musicBrainzRelease `json:"releases"`
}

type musicBrainzRelease struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Date         string `json:"date"`
	Barcode      string `json:"barcode"`
	ArtistCredit []struct {
		Name       string `json:"name"`
		JoinPhrase string `json:"joinphrase"`
		Artist     struct {
			Name string `json:"name"`
		} `json:"artist"`
	} `json:"artist-credit"`
	LabelInfo []struct {
		Label *struct {
			Name string `json:"name"`
		} `json:"label"`
	} `json:"label-info"`
}

// Lookup returns the best-scoring release for barcode, or (nil, nil).
func (p *MusicBrainz) Lookup(ctx context.Context, barcode string) (*lookup.Record, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("query", "barcode:"+barcode)
	params.Set("fmt", "json")
	params.Set("limit", "1")
	endpoint := fmt.Sprintf("%s/ws/2/release/?%s", p.baseURL, params.Encode())

	var result musicBrainzSearch
	if err := p.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}

	if len(result.Releases) == 0 || result.Releases[0].Title == "" {
		slog.Debug("MusicBrainz has no release", "barcode", barcode)
		return nil, nil
	}

	release := result.Releases[0]
	rec := &lookup.Record{
		Title:       stringPtr(release.Title),
		PublishDate: stringPtr(release.Date),
		Source:      p.name,
	}
	if artist := joinArtistCredit(release); artist != "" {
		rec.Creators = []string{artist}
	}
	for _, li := range release.LabelInfo {
		if li.Label != nil && li.Label.Name != "" {
			rec.Publisher = stringPtr(li.Label.Name)
			break
		}
	}

	return rec, nil
}

// joinArtistCredit renders an artist credit the way MusicBrainz displays
// it, e.g. "Simon & Garfunkel".
func joinArtistCredit(release musicBrainzRelease) string {
	var b strings.Builder
	for _, credit := range release.ArtistCredit {
		name := credit.Name
		if name == "" {
			name = credit.Artist.Name
		}
		b.WriteString(name)
		b.WriteString(credit.JoinPhrase)
	}
	return strings.TrimSpace(b.String())
}
