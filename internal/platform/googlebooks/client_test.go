package googlebooks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const volumesBody = `{
	"totalItems": 2,
	"items": [
		{
			"id": "vol-1",
			"volumeInfo": {
				"title": "철학의 위안",
				"authors": ["알랭 드 보통", "정영목"],
				"imageLinks": {
					"thumbnail": "http://books.example/vol-1.jpg",
					"smallThumbnail": "http://books.example/vol-1-small.jpg"
				}
			}
		},
		{
			"id": "vol-2",
			"volumeInfo": {
				"title": "서양 철학사",
				"imageLinks": {
					"smallThumbnail": "http://books.example/vol-2-small.jpg"
				}
			}
		}
	]
}`

func TestSearch(t *testing.T) {
	var gotQuery atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/volumes", r.URL.Path)
		gotQuery.Store(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(volumesBody))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "test-key", 100, 0)

	volumes, err := client.Search(context.Background(), "철학", 20)
	require.NoError(t, err)
	require.Len(t, volumes, 2)

	query := gotQuery.Load().(url.Values)
	assert.Equal(t, "철학", query.Get("q"))
	assert.Equal(t, "20", query.Get("maxResults"))
	assert.Equal(t, "test-key", query.Get("key"))

	assert.Equal(t, "vol-1", volumes[0].ID)
	assert.Equal(t, "철학의 위안", volumes[0].Title)
	assert.Equal(t, []string{"알랭 드 보통", "정영목"}, volumes[0].Authors)
	assert.Equal(t, "http://books.example/vol-1.jpg", volumes[0].Thumbnail)

	// No full-size thumbnail: falls back to the small one.
	assert.Equal(t, "vol-2", volumes[1].ID)
	assert.Empty(t, volumes[1].Authors)
	assert.Equal(t, "http://books.example/vol-2-small.jpg", volumes[1].Thumbnail)
}

func TestSearch_EmptyResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalItems": 0}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "test-key", 100, 0)

	volumes, err := client.Search(context.Background(), "없는 책", 20)
	require.NoError(t, err)
	assert.Empty(t, volumes)
	assert.NotNil(t, volumes)
}

func TestSearch_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(volumesBody))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "test-key", 100, 2)

	volumes, err := client.Search(context.Background(), "철학", 20)
	require.NoError(t, err)
	assert.Len(t, volumes, 2)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSearch_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "test-key", 100, 3)

	_, err := client.Search(context.Background(), "철학", 20)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSearch_ExhaustedRetries(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "test-key", 100, 1)

	_, err := client.Search(context.Background(), "철학", 20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 1 retries")
}
