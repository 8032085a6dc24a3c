// Package nlt is a rate-limited client for the NLT Bible API. The passages
// and search endpoints return HTML fragments, which the client parses into
// structured verses; the parse endpoint returns JSON.
package nlt

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sanctumapp/sanctum-server/internal/ratelimit"
)

const (
	// Rate limit: 10 requests per second (100ms spacing), no burst.
	defaultRPS   = 10.0
	defaultBurst = 1

	defaultTimeout = 30 * time.Second
	defaultBaseURL = "https://api.nlt.to/api"

	// Version codes the upstream API accepts.
	DefaultVersion = "NLT"
)

// Config holds client settings. Zero values fall back to defaults.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

// Client is a rate-limited NLT API client.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
}

// New creates a new NLT client.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RPS <= 0 {
		cfg.RPS = defaultRPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: ratelimit.New(cfg.RPS, cfg.Burst),
		logger:  logger,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// GetChapter fetches one chapter by API reference (e.g. "John.3") and parses
// the HTML response into verses. Returns ErrNotFound when the upstream has no
// content for the reference.
func (c *Client) GetChapter(ctx context.Context, apiReference, version string) (*Chapter, error) {
	if version == "" {
		version = DefaultVersion
	}

	query := url.Values{}
	query.Set("ref", apiReference)
	query.Set("version", version)

	body, err := c.doRequest(ctx, "/passages", query)
	if err != nil {
		return nil, wrapError("getChapter", apiReference, err)
	}

	chapter, err := parseChapterHTML(string(body), apiReference, version)
	if err != nil {
		return nil, wrapError("getChapter", apiReference, err)
	}
	chapter.SourceURL = c.requestURL("/passages", query)

	c.logger.Debug("fetched chapter",
		"ref", apiReference,
		"version", version,
		"verses", len(chapter.Verses),
	)
	return chapter, nil
}

// Search runs a full-text search against the upstream API and parses the
// result HTML. Results are capped at 20 entries.
func (c *Client) Search(ctx context.Context, text, version string) ([]SearchResult, error) {
	if version == "" {
		version = DefaultVersion
	}

	query := url.Values{}
	query.Set("text", text)
	query.Set("version", version)

	body, err := c.doRequest(ctx, "/search", query)
	if err != nil {
		return nil, wrapError("search", text, err)
	}

	results := parseSearchHTML(string(body), version)

	c.logger.Debug("search complete",
		"query", text,
		"version", version,
		"results", len(results),
	)
	return results, nil
}

// ParseReference resolves a free-form reference string ("jn 3:16") through
// the upstream parse endpoint, which returns JSON.
func (c *Client) ParseReference(ctx context.Context, reference string) (*ParsedReference, error) {
	query := url.Values{}
	query.Set("ref", reference)

	body, err := c.doRequest(ctx, "/parse", query)
	if err != nil {
		return nil, wrapError("parseReference", reference, err)
	}

	var parsed ParsedReference
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, wrapError("parseReference", reference, fmt.Errorf("parse response: %w", err))
	}
	return &parsed, nil
}

// doRequest executes a GET against the API with rate limiting. The API key is
// appended as a query parameter, matching the upstream contract.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx, c.baseURL); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	withKey := url.Values{}
	for k, v := range query {
		withKey[k] = v
	}
	if c.apiKey != "" {
		withKey.Set("key", c.apiKey)
	}

	reqURL := c.baseURL + path + "?" + withKey.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Sanctum/1.0")

	c.logger.Debug("nlt request", "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusBadRequest:
		return nil, ErrBadRequest
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}

// requestURL reconstructs the request URL without the API key, safe to store
// alongside cached content.
func (c *Client) requestURL(path string, query url.Values) string {
	return c.baseURL + path + "?" + query.Encode()
}
