// Package tmdb is a small client for The Movie Database v3 API.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"FilmDB/internal/logging"
	"FilmDB/internal/metrics"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.themoviedb.org/3"
	ImageBaseURL   = "https://image.tmdb.org/t/p/"
	breakerName    = "tmdb"
)

var (
	ErrNotFound        = errors.New("tmdb title not found")
	ErrInvalidType     = errors.New("media type must be movie or tv")
	ErrUpstream        = errors.New("tmdb unavailable")
	ErrMissingAPIKey   = errors.New("tmdb api key not configured")
	ErrEmptySearchTerm = errors.New("search query is required")
)

type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	RatePerSec float64
}

// Client calls TMDB behind a client-side rate limiter and a circuit breaker.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 20
	}

	c := &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), int(cfg.RatePerSec)+1),
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// a missing title is a valid answer, not an outage
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(float64(gobreaker.StateClosed))
	return c
}

// Search runs a multi search and keeps only movies and TV shows.
func (c *Client) Search(ctx context.Context, query string, page int) (*SearchPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptySearchTerm
	}
	if page <= 0 {
		page = 1
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")

	raw, err := c.get(ctx, "search", "/search/multi", params)
	if err != nil {
		return nil, err
	}
	var resp searchResponse
	if err = json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode tmdb search: %w", err)
	}

	out := &SearchPage{Page: resp.Page, TotalPages: resp.TotalPages, TotalResults: resp.TotalResults, Results: []Title{}}
	for _, r := range resp.Results {
		if r.MediaType != MediaMovie && r.MediaType != MediaTV {
			continue
		}
		out.Results = append(out.Results, r.title(r.MediaType))
	}
	return out, nil
}

// Details fetches one movie or TV show.
func (c *Client) Details(ctx context.Context, mediaType string, id int64) (*Title, error) {
	if mediaType != MediaMovie && mediaType != MediaTV {
		return nil, ErrInvalidType
	}
	raw, err := c.get(ctx, "details", fmt.Sprintf("/%s/%d", mediaType, id), url.Values{})
	if err != nil {
		return nil, err
	}
	var r result
	if err = json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode tmdb details: %w", err)
	}
	t := r.title(mediaType)
	return &t, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	params.Set("api_key", c.apiKey)
	target := c.baseURL + path + "?" + params.Encode()

	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				logging.Debug().Err(err).Msg("close tmdb response body")
			}
		}()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, ErrNotFound
		case resp.StatusCode != http.StatusOK:
			return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
		}
		return io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	})

	result := "success"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		result = "rejected"
		err = fmt.Errorf("%w: %v", ErrUpstream, err)
	case err != nil && !errors.Is(err, ErrNotFound):
		result = "failure"
	}
	metrics.TMDBRequests.WithLabelValues(endpoint, result).Inc()
	if err != nil {
		return nil, err
	}
	return body, nil
}

// ImageURL builds a poster/backdrop URL; size is e.g. w500 or original.
func ImageURL(size, path string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = "w500"
	}
	return ImageBaseURL + size + path
}
