package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "k", BaseURL: srv.URL, Timeout: 2 * time.Second, RatePerSec: 100})
}

func TestSearchFiltersPeople(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/multi", r.URL.Path)
		assert.Equal(t, "alien", r.URL.Query().Get("query"))
		assert.Equal(t, "k", r.URL.Query().Get("api_key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"total_pages":1,"total_results":3,"results":[
			{"id":348,"media_type":"movie","title":"Alien","release_date":"1979-05-25","poster_path":"/a.jpg"},
			{"id":5,"media_type":"person","name":"Sigourney Weaver"},
			{"id":1399,"media_type":"tv","name":"Alien Worlds","first_air_date":"2020-12-02"}]}`))
	})

	page, err := c.Search(context.Background(), " alien ", 0)
	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "Alien", page.Results[0].Title)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/a.jpg", page.Results[0].PosterURL)
	assert.Equal(t, MediaTV, page.Results[1].MediaType)
	assert.Equal(t, "Alien Worlds", page.Results[1].Title)
	assert.Equal(t, "2020-12-02", page.Results[1].ReleaseDate)
}

func TestSearchRequiresQuery(t *testing.T) {
	c := NewClient(Config{APIKey: "k"})
	_, err := c.Search(context.Background(), "  ", 1)
	assert.ErrorIs(t, err, ErrEmptySearchTerm)
}

func TestDetails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movie/348":
			_, _ = w.Write([]byte(`{"id":348,"title":"Alien","runtime":117,"genres":[{"id":27,"name":"Horror"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	got, err := c.Details(context.Background(), MediaMovie, 348)
	require.NoError(t, err)
	assert.Equal(t, "Alien", got.Title)
	assert.Equal(t, 117, got.Runtime)
	assert.Equal(t, []string{"Horror"}, got.Genres)

	_, err = c.Details(context.Background(), MediaMovie, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Details(context.Background(), "person", 1)
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 5; i++ {
		_, err := c.Details(context.Background(), MediaMovie, 1)
		assert.ErrorIs(t, err, ErrUpstream)
	}
	_, err := c.Details(context.Background(), MediaMovie, 1)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, int32(5), calls.Load())
}

func TestNotFoundDoesNotTripBreaker(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})
	for i := 0; i < 7; i++ {
		_, err := c.Details(context.Background(), MediaTV, 9)
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, int32(7), calls.Load())
}

func TestMissingAPIKey(t *testing.T) {
	c := NewClient(Config{})
	_, err := c.Details(context.Background(), MediaMovie, 1)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, "", ImageURL("w500", ""))
	assert.Equal(t, "https://image.tmdb.org/t/p/original/x.jpg", ImageURL("original", "/x.jpg"))
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/x.jpg", ImageURL("", "/x.jpg"))
}
