// Package geocode turns free-text place names into coordinates using the
// Mapbox forward-geocoding API.
//
// The layering is Client (one HTTP call, one retry) → Breaker (circuit
// breaker) → Locator (timeout, logging, metrics, fail-open to nil).
// Only the Locator is handed to the service layer.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/pkordes/lolidays/internal/domain"
)

// DefaultBaseURL is the Mapbox API root.
const DefaultBaseURL = "https://api.mapbox.com"

// Lookuper performs one forward-geocoding lookup.
// found is false with a nil error when the place has no match.
type Lookuper interface {
	Lookup(ctx context.Context, place string) (p domain.Point, found bool, err error)
}

// Client calls the Mapbox geocoding endpoint.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	backoff time.Duration
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root. Tests use it to
// target an httptest server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient constructs a Mapbox client authenticated with token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: DefaultBaseURL,
		token:   token,
		backoff: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// featureCollection is the subset of the Mapbox response we read.
// center is [longitude, latitude].
type featureCollection struct {
	Features []struct {
		Center []float64 `json:"center"`
	} `json:"features"`
}

// retryableError marks failures worth a second attempt: transport errors
// and 5xx responses.
type retryableError struct{ err error }

func (e retryableError) Error() string { return e.err.Error() }
func (e retryableError) Unwrap() error { return e.err }

// Lookup resolves place to its best match. A failed attempt that looks
// transient is retried once after a short pause.
func (c *Client) Lookup(ctx context.Context, place string) (domain.Point, bool, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return domain.Point{}, false, nil
	}

	p, found, err := c.lookupOnce(ctx, place)
	var retry retryableError
	if err == nil || !errors.As(err, &retry) || ctx.Err() != nil {
		return p, found, err
	}

	select {
	case <-ctx.Done():
		return domain.Point{}, false, err
	case <-time.After(c.backoff):
	}
	return c.lookupOnce(ctx, place)
}

func (c *Client) lookupOnce(ctx context.Context, place string) (domain.Point, bool, error) {
	q := url.Values{}
	q.Set("access_token", c.token)
	q.Set("limit", "1")
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s", c.baseURL, url.PathEscape(place), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Point{}, false, fmt.Errorf("geocode.Client.Lookup: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Point{}, false, retryableError{fmt.Errorf("geocode.Client.Lookup: %w: %w", domain.ErrUnavailable, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		err := fmt.Errorf("geocode.Client.Lookup: %w: status %d", domain.ErrUnavailable, resp.StatusCode)
		if resp.StatusCode >= http.StatusInternalServerError {
			return domain.Point{}, false, retryableError{err}
		}
		return domain.Point{}, false, err
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return domain.Point{}, false, fmt.Errorf("geocode.Client.Lookup: decode: %w: %w", domain.ErrUnavailable, err)
	}
	if len(fc.Features) == 0 || len(fc.Features[0].Center) < 2 {
		return domain.Point{}, false, nil
	}

	center := fc.Features[0].Center
	return domain.Point{Lon: center[0], Lat: center[1]}, true, nil
}
