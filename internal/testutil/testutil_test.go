package testutil

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestEnv_PathStaysInSandbox(t *testing.T) {
	env := NewTestEnv(t)

	p := env.Path("a", "b", "..", "c.txt")
	assert.Equal(t, filepath.Join(env.RootDir(), "a", "c.txt"), p)
	assert.True(t, env.contains(env.RootDir()))
	assert.False(t, env.contains(filepath.Dir(env.RootDir())))
	assert.False(t, env.contains(env.RootDir()+"-sibling"))
}

func TestTestEnv_WriteAndReadFile(t *testing.T) {
	env := NewTestEnv(t)

	abs := env.WriteFile("nested/dir/file.txt", []byte("hello"))
	assert.FileExists(t, abs)
	assert.Equal(t, "hello", string(env.ReadFile("nested/dir/file.txt")))
}

func TestTestEnv_DBPath(t *testing.T) {
	env := NewTestEnv(t)
	assert.Equal(t, filepath.Join(env.RootDir(), "catalog.db"), env.DBPath("catalog"))
}

func TestTestEnv_SetEnvRestores(t *testing.T) {
	const key = "MEDIACAT_TESTUTIL_VAR"
	require.NoError(t, os.Unsetenv(key))

	t.Run("inner", func(t *testing.T) {
		env := NewTestEnv(t)
		env.SetEnv(key, "set")
		assert.Equal(t, "set", os.Getenv(key))
	})

	_, ok := os.LookupEnv(key)
	assert.False(t, ok)
}

func TestNewTestConfig(t *testing.T) {
	env := NewTestEnv(t)
	cfg := NewTestConfig(t, env,
		WithVisionAPIKey("vk"),
		WithVideoAPIKey("uk"),
		WithLookupTimeout(time.Second),
		WithBaseURL("http://127.0.0.1:1"),
	)

	assert.Equal(t, "vk", cfg.Vision.APIKey)
	assert.Equal(t, "uk", cfg.UPCitemdb.APIKey)
	assert.Equal(t, time.Second, cfg.Lookup.Timeout)
	assert.Equal(t, "http://127.0.0.1:1", cfg.MusicBrainz.BaseURL)
	assert.Equal(t, "http://127.0.0.1:1/", cfg.Vision.Endpoint)
	assert.True(t, strings.HasPrefix(cfg.Catalog.DBFile, env.RootDir()))
	assert.False(t, cfg.Cache.Enabled)
}

func TestNewIPv4TestServer(t *testing.T) {
	srv := NewIPv4TestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))
	assert.True(t, strings.HasPrefix(srv.URL, "http://127.0.0.1:"))

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

func TestGoldenHelper_JSON(t *testing.T) {
	env := NewTestEnv(t)
	env.WriteFile("golden/out.json", []byte(`{"a": 1, "b": [1, 2]}`))

	g := NewGoldenHelper(t, env.Path("golden"))
	g.updateMode = false
	g.AssertGoldenJSON("out.json", []byte(`{"b":[1,2],"a":1}`))
}
