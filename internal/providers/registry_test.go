package providers

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/lepinkainen/mediacat/internal/cache"
	"github.com/lepinkainen/mediacat/internal/errors"
	"github.com/lepinkainen/mediacat/internal/media"
	"github.com/lepinkainen/mediacat/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUpstream serves every provider API from one server and records the
// request paths in order.
type fakeUpstream struct {
	mu    sync.Mutex
	paths []string
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.paths = append(f.paths, r.URL.Path)
	f.mu.Unlock()

	switch r.URL.Path {
	case "/api/books":
		_, _ = w.Write([]byte(`{}`))
	case "/volumes":
		_, _ = w.Write([]byte(`{"totalItems": 0}`))
	case "/ws/2/release/":
		_, _ = w.Write([]byte(`{"releases": [{"title": "Kind of Blue", "date": "1959-08-17",
			"artist-credit": [{"name": "Miles Davis"}]}]}`))
	default:
		http.Error(w, "unexpected path "+r.URL.Path, http.StatusTeapot)
	}
}

func (f *fakeUpstream) get() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}

func TestNewOrchestrator_ThirteenDigitFallsThroughToAudio(t *testing.T) {
	upstream := &fakeUpstream{}
	srv := testutil.NewIPv4TestServer(t, upstream)

	env := testutil.NewTestEnv(t)
	cfg := testutil.NewTestConfig(t, env, testutil.WithBaseURL(srv.URL), testutil.WithVideoAPIKey("k"))

	o := NewOrchestrator(cfg, nil, WithRateLimiter(nil))
	md, err := o.ResolveBarcode(context.Background(), "5099749534728")
	require.NoError(t, err)

	assert.Equal(t, media.Audio, *md.MediaType)
	assert.Equal(t, "Kind of Blue", media.Deref(md.Title))
	assert.Equal(t, "Miles Davis", media.Deref(md.Creator))
	assert.Equal(t, "1959", media.Deref(md.Year))
	assert.Equal(t, []string{"/api/books", "/volumes", "/ws/2/release/"}, upstream.get())
}

func TestNewOrchestrator_NoVideoKeyStillReachesNotFound(t *testing.T) {
	srv := testutil.NewIPv4TestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEqual(t, "/prod/v1/lookup", r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	}))

	env := testutil.NewTestEnv(t)
	cfg := testutil.NewTestConfig(t, env, testutil.WithBaseURL(srv.URL))

	_, err := NewOrchestrator(cfg, nil, WithRateLimiter(nil)).ResolveBarcode(context.Background(), "024543617907")
	assert.True(t, errors.IsNotFound(err))
}

func TestNewOrchestrator_CachedRepeatLookup(t *testing.T) {
	upstream := &fakeUpstream{}
	srv := testutil.NewIPv4TestServer(t, upstream)

	env := testutil.NewTestEnv(t)
	cfg := testutil.NewTestConfig(t, env, testutil.WithBaseURL(srv.URL))

	db, err := cache.Open(cfg.Cache.DBFile, cfg.Cache.TTL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	o := NewOrchestrator(cfg, db, WithRateLimiter(nil))
	for range 2 {
		md, err := o.ResolveBarcode(context.Background(), "074646938720")
		require.NoError(t, err)
		assert.Equal(t, "Kind of Blue", media.Deref(md.Title))
	}
	assert.Equal(t, []string{"/ws/2/release/"}, upstream.get())
}
