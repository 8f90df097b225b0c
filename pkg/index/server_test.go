package index

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, upstream string, wheels ...string) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	for _, wheel := range wheels {
		require.NoError(t, os.WriteFile(filepath.Join(dir, wheel), []byte("wheel-bytes"), 0o644))
	}
	server := httptest.NewServer(NewServer(dir, upstream, 0).Handler())
	t.Cleanup(server.Close)
	return server
}

func get(t *testing.T, client *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, string(body)
}

func TestProjectListing(t *testing.T) {
	server := newTestServer(t, "",
		"sageattention-2.2.0+cu128torch2.9.0-cp312-cp312-win_amd64.whl",
		"sageattention-2.2.0+cu128torch2.9.0-cp313-cp313-win_amd64.whl",
		"ninja-1.11.1-py3-none-win_amd64.whl",
	)

	resp, body := get(t, server.Client(), server.URL+"/simple/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `<a href="/simple/sageattention/">sageattention</a>`)
	require.Contains(t, body, `<a href="/simple/ninja/">ninja</a>`)
}

func TestProjectPage(t *testing.T) {
	server := newTestServer(t, "",
		"sageattention-2.2.0+cu128torch2.9.0-cp312-cp312-win_amd64.whl",
		"sageattention-2.1.0+cu128torch2.9.0-cp312-cp312-win_amd64.whl",
	)

	// names are matched in normalized form
	resp, body := get(t, server.Client(), server.URL+"/simple/SageAttention/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "sageattention-2.1.0+cu128torch2.9.0-cp312-cp312-win_amd64.whl")
	require.Contains(t, body, "sageattention-2.2.0+cu128torch2.9.0-cp312-cp312-win_amd64.whl")
	// oldest version first
	require.Less(t, strings.Index(body, "2.1.0"), strings.Index(body, "2.2.0"))
}

func TestUnknownProjectRedirectsUpstream(t *testing.T) {
	server := newTestServer(t, "https://pypi.org/simple")
	client := server.Client()
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp, _ := get(t, client, server.URL+"/simple/ninja/")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "https://pypi.org/simple/ninja/", resp.Header.Get("Location"))
}

func TestUnknownProjectWithoutUpstream(t *testing.T) {
	server := newTestServer(t, "")
	resp, _ := get(t, server.Client(), server.URL+"/simple/ninja/")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWheelDownload(t *testing.T) {
	server := newTestServer(t, "", "ninja-1.11.1-py3-none-win_amd64.whl")

	resp, body := get(t, server.Client(), server.URL+"/wheels/ninja-1.11.1-py3-none-win_amd64.whl")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "wheel-bytes", body)

	resp, _ = get(t, server.Client(), server.URL+"/wheels/missing-1.0-py3-none-any.whl")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
