// Package client is an HTTP client for the spell API.
package client

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

	"golang.org/x/time/rate"

	"github.com/ramonehamilton/grimorio/internal/catalog"
)

const (
	defaultBaseURL   = "http://localhost:8080"
	defaultRateDelay = 50 * time.Millisecond // 20 req/sec
	requestTimeout   = 15 * time.Second
	userAgent        = "Grimorio/1.0"
)

// Config configures a Client.
type Config struct {
	// BaseURL is the server root, e.g. http://localhost:8080.
	BaseURL string

	// Timeout bounds each request. Zero means 15s.
	Timeout time.Duration

	// RateDelay is the minimum spacing between requests. Zero means 50ms.
	RateDelay time.Duration

	// HTTPClient overrides the underlying client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to the spell API. Failed requests are not retried.
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
}

// New creates a spell API client. A nil config uses the defaults.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	raw := cfg.BaseURL
	if raw == "" {
		raw = defaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", raw)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = requestTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	delay := cfg.RateDelay
	if delay <= 0 {
		delay = defaultRateDelay
	}

	return &Client{
		baseURL:     base,
		httpClient:  httpClient,
		rateLimiter: rate.NewLimiter(rate.Every(delay), 1),
		userAgent:   userAgent,
	}, nil
}

// Query holds the list parameters. Empty filter fields are omitted from the URL.
type Query struct {
	Page   int
	Sort   string
	School string
	Type   string
	Search string
}

// Values encodes q as URL query parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	page := q.Page
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))

	sort := q.Sort
	if sort == "" {
		sort = catalog.SortBook
	}
	v.Set("sort", sort)

	if q.School != "" {
		v.Set("school", q.School)
	}
	if q.Type != "" {
		v.Set("type", q.Type)
	}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	return v
}

// ListSpells fetches one page of spells.
func (c *Client) ListSpells(ctx context.Context, lang catalog.Language, q Query) (*catalog.Page, error) {
	u := c.endpoint([]string{"api", "magias", string(lang)}, q.Values())

	var page catalog.Page
	if err := c.doRequest(ctx, u, &page); err != nil {
		return nil, fmt.Errorf("failed to list spells: %w", err)
	}

	if page.Spells == nil {
		page.Spells = []catalog.Spell{}
	}
	return &page, nil
}

// GetSpell fetches a single spell by unique name.
func (c *Client) GetSpell(ctx context.Context, lang catalog.Language, nameUnique string) (*catalog.Spell, error) {
	u := c.endpoint([]string{"api", "magias", string(lang), nameUnique}, nil)

	var spell catalog.Spell
	if err := c.doRequest(ctx, u, &spell); err != nil {
		return nil, fmt.Errorf("failed to get spell %s: %w", nameUnique, err)
	}

	return &spell, nil
}

// GetFilters fetches the distinct schools and types.
func (c *Client) GetFilters(ctx context.Context, lang catalog.Language) (*catalog.Filters, error) {
	u := c.endpoint([]string{"api", "filtros"}, url.Values{"lang": {string(lang)}})

	var filters catalog.Filters
	if err := c.doRequest(ctx, u, &filters); err != nil {
		return nil, fmt.Errorf("failed to get filters: %w", err)
	}

	return &filters, nil
}

func (c *Client) endpoint(segments []string, query url.Values) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u := c.baseURL.JoinPath(escaped...)
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// doRequest performs a rate-limited GET and decodes the JSON body into result.
func (c *Client) doRequest(ctx context.Context, url string, result any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return nil
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int    `json:"code"`
	Status     string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Status)
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Status == "" {
		apiErr.Status = http.StatusText(status)
		apiErr.Message = strings.TrimSpace(string(body))
	}
	apiErr.StatusCode = status
	return apiErr
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
