package prefetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/whl/ninja-1.11.1-py3-none-win_amd64.whl":
			_, _ = w.Write([]byte("ninja-bytes"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	dir := t.TempDir()
	urls := []string{server.URL + "/whl/ninja-1.11.1-py3-none-win_amd64.whl"}
	require.NoError(t, Fetch(context.Background(), server.Client(), urls, dir))

	contents, err := os.ReadFile(filepath.Join(dir, "ninja-1.11.1-py3-none-win_amd64.whl"))
	require.NoError(t, err)
	require.Equal(t, "ninja-bytes", string(contents))

	// second fetch is a no-op
	require.NoError(t, Fetch(context.Background(), server.Client(), urls, dir))
}

func TestFetchMissingUpstream(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	err := Fetch(context.Background(), server.Client(), []string{server.URL + "/whl/missing.whl"}, t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status")
}

func TestFetchNothing(t *testing.T) {
	require.NoError(t, Fetch(context.Background(), http.DefaultClient, nil, t.TempDir()))
}

func TestWarm(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte("ninja-bytes"))
	}))
	defer server.Close()

	cacheDir := t.TempDir()
	wheelhouse := t.TempDir()
	urls := []string{server.URL + "/whl/ninja-1.11.1-py3-none-win_amd64.whl"}

	require.NoError(t, Warm(context.Background(), server.Client(), urls, cacheDir, wheelhouse))

	for _, dir := range []string{cacheDir, wheelhouse} {
		contents, err := os.ReadFile(filepath.Join(dir, "ninja-1.11.1-py3-none-win_amd64.whl"))
		require.NoError(t, err)
		require.Equal(t, "ninja-bytes", string(contents))
	}

	// a second wheelhouse warms from the cache without touching the network
	require.NoError(t, Warm(context.Background(), server.Client(), urls, cacheDir, t.TempDir()))
	require.Equal(t, 1, hits)
}
