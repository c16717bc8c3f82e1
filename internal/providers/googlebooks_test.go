package providers

import (
	"context"
	"net/http"
	"testing"

	"github.com/lepinkainen/mediacat/internal/media"
	"github.com/lepinkainen/mediacat/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const googleBooksFixture = `{
	"totalItems": 1,
	"items": [{
		"volumeInfo": {
			"title": "Dune",
			"authors": ["Frank Herbert"],
			"publisher": "Ace",
			"publishedDate": "1990-09-01",
			"industryIdentifiers": [
				{"type": "ISBN_10", "identifier": "0441172717"},
				{"type": "ISBN_13", "identifier": "9780441172719"}
			]
		}
	}]
}`

func TestGoogleBooks_Lookup(t *testing.T) {
	srv := testutil.NewIPv4TestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		assert.Equal(t, "isbn:0441172717", r.URL.Query().Get("q"))
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(googleBooksFixture))
	}))

	rec, err := NewGoogleBooks("secret", WithBaseURL(srv.URL)).Lookup(context.Background(), "0441172717")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "Dune", media.Deref(rec.Title))
	assert.Equal(t, []string{"Frank Herbert"}, rec.Creators)
	assert.Equal(t, "Ace", media.Deref(rec.Publisher))
	assert.Equal(t, "1990-09-01", media.Deref(rec.PublishDate))
	assert.Equal(t, "9780441172719", media.Deref(rec.ISBN))
	assert.Equal(t, "Google Books", rec.Source)
}

func TestGoogleBooks_NoKeyOmitsParam(t *testing.T) {
	srv := testutil.NewIPv4TestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("key"))
		_, _ = w.Write([]byte(`{"totalItems": 0}`))
	}))

	rec, err := NewGoogleBooks("", WithBaseURL(srv.URL)).Lookup(context.Background(), "9780000000000")
	require.NoError(t, err)
	assert.Nil(t, rec)
}
