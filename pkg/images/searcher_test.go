package images

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentforge/contentforge/pkg/config"
)

func newTestClient(serverURL string) *Client {
	return NewClient(config.ImagesConfig{
		Endpoint: serverURL,
		PerPage:  10,
		Timeout:  5 * time.Second,
	}, "test-api-key")
}

func TestClient_FirstLandscape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search", r.URL.Path)
		assert.Equal(t, "mountain lake", r.URL.Query().Get("query"))
		assert.Equal(t, "10", r.URL.Query().Get("per_page"))
		assert.Equal(t, "test-api-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"photos": [
				{"width": 600, "height": 800, "src": {"original": "https://img.example.com/portrait.jpg"}},
				{"width": 1920, "height": 1080, "src": {"original": "https://img.example.com/orig.jpg", "landscape": "https://img.example.com/landscape.jpg"}}
			]
		}`))
	}))
	defer server.Close()

	url, err := newTestClient(server.URL).FirstLandscape(context.Background(), "mountain lake")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/landscape.jpg", url)
}

func TestClient_FirstLandscape_FallsBackToOriginal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"photos": [{"width": 1920, "height": 1080, "src": {"original": "https://img.example.com/orig.jpg"}}]}`))
	}))
	defer server.Close()

	url, err := newTestClient(server.URL).FirstLandscape(context.Background(), "query")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/orig.jpg", url)
}

func TestClient_FirstLandscape_NoLandscapeResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"photos": [{"width": 600, "height": 800, "src": {"original": "https://img.example.com/p.jpg"}}]}`))
	}))
	defer server.Close()

	url, err := newTestClient(server.URL).FirstLandscape(context.Background(), "query")
	require.NoError(t, err)
	assert.Empty(t, url) // no image is a valid outcome, not an error
}

func TestClient_FirstLandscape_RetriesServerErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"photos": [{"width": 2, "height": 1, "src": {"original": "https://img.example.com/ok.jpg"}}]}`))
	}))
	defer server.Close()

	url, err := newTestClient(server.URL).FirstLandscape(context.Background(), "query")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/ok.jpg", url)
	assert.Equal(t, 3, calls)
}

func TestClient_FirstLandscape_ClientErrorNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FirstLandscape(context.Background(), "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
	assert.Equal(t, 1, calls) // 4xx stops the retry loop on the first response
}

func TestClient_FirstLandscape_ErrorAfterRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FirstLandscape(context.Background(), "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image search")
}

func TestLoadKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.txt")
	require.NoError(t, os.WriteFile(path, []byte("  pexels-key-123\n"), 0o600))

	assert.Equal(t, "pexels-key-123", LoadKey(path))
}

func TestLoadKey_MissingFileDisables(t *testing.T) {
	assert.Empty(t, LoadKey(filepath.Join(t.TempDir(), "nope.txt")))
}
