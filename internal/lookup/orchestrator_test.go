package lookup

import (
	"context"
	stdErrors "errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/lepinkainen/mediacat/internal/cache"
	"github.com/lepinkainen/mediacat/internal/config"
	"github.com/lepinkainen/mediacat/internal/errors"
	"github.com/lepinkainen/mediacat/internal/media"
	"github.com/lepinkainen/mediacat/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// callLog records the order in which fake providers were invoked.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *callLog) get() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeProvider struct {
	name   string
	log    *callLog
	record *Record
	err    error
	// block waits for ctx to be done before returning.
	block bool
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Lookup(ctx context.Context, identifier string) (*Record, error) {
	f.log.add(f.name)
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.record, f.err
}

func str(s string) *string { return &s }

func newTestOrchestrator(timeout time.Duration, book, audio, video Provider) *Orchestrator {
	return NewOrchestrator(config.LookupConfig{Timeout: timeout},
		WithProvider(media.ProviderISBNChain, book),
		WithProvider(media.ProviderAudioBarcode, audio),
		WithProvider(media.ProviderVideoBarcode, video),
	)
}

func TestResolveBarcode_BookWinsEndToEnd(t *testing.T) {
	log := &callLog{}
	book := &fakeProvider{name: "book", log: log, record: &Record{
		Title:       str("The C Programming Language"),
		Creators:    []string{"Kernighan, Ritchie"},
		PublishDate: str("1988"),
	}}
	audio := &fakeProvider{name: "audio", log: log}
	video := &fakeProvider{name: "video", log: log}

	o := newTestOrchestrator(time.Second, book, audio, video)
	md, err := o.ResolveBarcode(context.Background(), "9780131103627")
	require.NoError(t, err)

	require.NotNil(t, md.MediaType)
	assert.Equal(t, media.Book, *md.MediaType)
	assert.Equal(t, "The C Programming Language", media.Deref(md.Title))
	assert.Equal(t, "Kernighan, Ritchie", media.Deref(md.Creator))
	assert.Equal(t, "1988", media.Deref(md.Year))
	assert.Equal(t, []string{"book"}, log.get())
}

func TestResolveBarcode_StopsAtAudio(t *testing.T) {
	log := &callLog{}
	book := &fakeProvider{name: "book", log: log}
	audio := &fakeProvider{name: "audio", log: log, record: &Record{Title: str("Abbey Road")}}
	video := &fakeProvider{name: "video", log: log, record: &Record{Title: str("wrong")}}

	o := newTestOrchestrator(time.Second, book, audio, video)
	md, err := o.ResolveBarcode(context.Background(), "0077774644228")
	require.NoError(t, err)

	assert.Equal(t, media.Audio, *md.MediaType)
	assert.Equal(t, "Abbey Road", media.Deref(md.Title))
	assert.Equal(t, []string{"book", "audio"}, log.get())
}

func TestResolveBarcode_ProviderErrorsAreSwallowed(t *testing.T) {
	log := &callLog{}
	book := &fakeProvider{name: "book", log: log, err: errors.NewProviderStatusError("OpenLibrary", 500, "boom")}
	audio := &fakeProvider{name: "audio", log: log, err: stdErrors.New("malformed json")}
	video := &fakeProvider{name: "video", log: log, record: &Record{Title: str("Heat")}}

	o := newTestOrchestrator(time.Second, book, audio, video)
	md, err := o.ResolveBarcode(context.Background(), "9780131103627")
	require.NoError(t, err)

	assert.Equal(t, media.Video, *md.MediaType)
	assert.Equal(t, []string{"book", "audio", "video"}, log.get())
}

func TestResolveBarcode_TwelveDigitsSkipsBookChain(t *testing.T) {
	log := &callLog{}
	book := &fakeProvider{name: "book", log: log, record: &Record{Title: str("never")}}
	audio := &fakeProvider{name: "audio", log: log}
	video := &fakeProvider{name: "video", log: log, record: &Record{Title: str("Alien")}}

	o := newTestOrchestrator(time.Second, book, audio, video)
	md, err := o.ResolveBarcode(context.Background(), " 024543617907 ")
	require.NoError(t, err)

	assert.Equal(t, media.Video, *md.MediaType)
	assert.Equal(t, []string{"audio", "video"}, log.get())
}

func TestResolveBarcode_NotFound(t *testing.T) {
	log := &callLog{}
	o := newTestOrchestrator(time.Second,
		&fakeProvider{name: "book", log: log},
		&fakeProvider{name: "audio", log: log},
		&fakeProvider{name: "video", log: log},
	)

	md, err := o.ResolveBarcode(context.Background(), "9780131103627")
	assert.Nil(t, md)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, []string{"book", "audio", "video"}, log.get())
}

func TestResolveBarcode_UnsupportedLengthsMakeNoCalls(t *testing.T) {
	for _, raw := range []string{"12345678901", "12345678901234", "", "   ", "123"} {
		t.Run(raw, func(t *testing.T) {
			log := &callLog{}
			p := &fakeProvider{name: "any", log: log, record: &Record{Title: str("x")}}
			o := newTestOrchestrator(time.Second, p, p, p)

			_, err := o.ResolveBarcode(context.Background(), raw)
			assert.True(t, errors.IsNotFound(err))
			assert.Empty(t, log.get())
		})
	}
}

func TestResolveBarcode_UnregisteredProviderCountsAsNoResult(t *testing.T) {
	log := &callLog{}
	o := NewOrchestrator(config.LookupConfig{},
		WithProvider(media.ProviderVideoBarcode, &fakeProvider{name: "video", log: log, record: &Record{Title: str("Jaws")}}),
	)

	md, err := o.ResolveBarcode(context.Background(), "9780131103627")
	require.NoError(t, err)
	assert.Equal(t, media.Video, *md.MediaType)
	assert.Equal(t, []string{"video"}, log.get())
}

func TestResolveBarcode_PerCallTimeout(t *testing.T) {
	log := &callLog{}
	book := &fakeProvider{name: "book", log: log, block: true}
	audio := &fakeProvider{name: "audio", log: log, record: &Record{Title: str("Kind of Blue")}}

	o := newTestOrchestrator(20*time.Millisecond, book, audio, nil)
	md, err := o.ResolveBarcode(context.Background(), "9780131103627")
	require.NoError(t, err)
	assert.Equal(t, "Kind of Blue", media.Deref(md.Title))
}

func TestResolveBarcode_CancelledContext(t *testing.T) {
	log := &callLog{}
	p := &fakeProvider{name: "book", log: log, record: &Record{Title: str("x")}}
	o := newTestOrchestrator(time.Second, p, p, p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.ResolveBarcode(ctx, "9780131103627")
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.IsNotFound(err))
	assert.Empty(t, log.get())
}

func TestResolveBarcode_CancelledMidChain(t *testing.T) {
	log := &callLog{}
	ctx, cancel := context.WithCancel(context.Background())

	book := &cancellingProvider{log: log, cancel: cancel}
	audio := &fakeProvider{name: "audio", log: log, record: &Record{Title: str("x")}}

	o := newTestOrchestrator(time.Second, book, audio, nil)
	_, err := o.ResolveBarcode(ctx, "9780131103627")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"book"}, log.get())
}

type cancellingProvider struct {
	log    *callLog
	cancel context.CancelFunc
}

func (c *cancellingProvider) Name() string { return "book" }

func (c *cancellingProvider) Lookup(ctx context.Context, _ string) (*Record, error) {
	c.log.add("book")
	c.cancel()
	return nil, ctx.Err()
}

func TestNormalize(t *testing.T) {
	md := Normalize(&Record{
		Title:       str("  Dune "),
		Creators:    []string{"Frank Herbert", "Someone Else"},
		PublishDate: str("August 1965"),
		Publisher:   str(""),
		ISBN:        str("9780441172719"),
	}, media.Book)

	assert.Equal(t, "Dune", media.Deref(md.Title))
	assert.Equal(t, "Frank Herbert, Someone Else", media.Deref(md.Creator))
	assert.Equal(t, "1965", media.Deref(md.Year))
	assert.Nil(t, md.Publisher)
	assert.Equal(t, "9780441172719", media.Deref(md.ISBN))
	assert.Zero(t, md.Confidence)
	assert.Empty(t, md.SourceText)
}

func TestNormalize_NilRecordYieldsEmptyEnvelope(t *testing.T) {
	md := Normalize(nil, media.Audio)
	assert.Equal(t, media.Audio, *md.MediaType)
	assert.Nil(t, md.Title)
	assert.Nil(t, md.Year)
}

func TestNormalize_UndatedRecord(t *testing.T) {
	md := Normalize(&Record{PublishDate: str("unknown")}, media.Video)
	assert.Nil(t, md.Year)
}

func TestCachedProvider_ServesSecondLookupFromCache(t *testing.T) {
	env := testutil.NewTestEnv(t)
	db, err := cache.Open(filepath.Join(env.RootDir(), "cache.db"), time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := &callLog{}
	inner := &fakeProvider{name: "MusicBrainz", log: log, record: &Record{Title: str("Blue Train"), Source: "MusicBrainz"}}
	p := NewCachedProvider(inner, db, cache.MusicBrainzTable)

	for range 2 {
		rec, err := p.Lookup(context.Background(), "602547202734")
		require.NoError(t, err)
		assert.Equal(t, "Blue Train", media.Deref(rec.Title))
	}
	assert.Equal(t, []string{"MusicBrainz"}, log.get())
	assert.Equal(t, "MusicBrainz", p.Name())
}

func TestCachedProvider_CachesNotFoundButNotErrors(t *testing.T) {
	env := testutil.NewTestEnv(t)
	db, err := cache.Open(filepath.Join(env.RootDir(), "cache.db"), time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := &callLog{}
	missing := NewCachedProvider(&fakeProvider{name: "missing", log: log}, db, cache.OpenLibraryTable)
	failing := NewCachedProvider(&fakeProvider{name: "failing", log: log, err: stdErrors.New("down")}, db, cache.GoogleBooksTable)

	for range 2 {
		rec, err := missing.Lookup(context.Background(), "0131103628")
		require.NoError(t, err)
		assert.Nil(t, rec)

		_, err = failing.Lookup(context.Background(), "0131103628")
		require.Error(t, err)
	}
	assert.Equal(t, []string{"missing", "failing", "failing"}, log.get())
}

func TestNewCachedProvider_NilCacheReturnsProvider(t *testing.T) {
	inner := &fakeProvider{name: "x", log: &callLog{}}
	assert.Same(t, Provider(inner), NewCachedProvider(inner, nil, cache.OpenLibraryTable))
}
