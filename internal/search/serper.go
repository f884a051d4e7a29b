package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	DefaultEndpoint = "https://google.serper.dev/search"
	DefaultTimeout  = 15 * time.Second
	DefaultRPS      = 4
	DefaultBurst    = 4
	DefaultWorkers  = 4

	// Snippets shorter than this are worth replacing with page text when
	// enrichment is enabled.
	enrichBelowRunes = 80
	enrichMaxRunes   = 1200
)

// Result is one retrieval outcome for a query. URL and Snippet are nil
// when the lookup failed or returned nothing usable; that is a valid
// outcome, never an error.
type Result struct {
	Sentence string  `json:"sentence"`
	URL      *string `json:"url"`
	Snippet  *string `json:"snippet"`
}

type Options struct {
	APIKey     string
	Endpoint   string
	Timeout    time.Duration
	RPS        float64
	Burst      int
	Workers    int
	HTTPClient *http.Client

	// Fetcher, when set, replaces short snippets with readable text from
	// the hit page.
	Fetcher *PageFetcher
}

// Client looks up candidate snippets on serper.dev. All calls share one
// token-bucket limiter so concurrent paragraph fan-out respects the
// provider's rate limits.
type Client struct {
	opts    Options
	limiter *rate.Limiter
	logger  zerolog.Logger
}

type serperQuery struct {
	Q string `json:"q"`
}

func NewClient(logger zerolog.Logger, opts Options) *Client {
	normalized := opts
	if strings.TrimSpace(normalized.Endpoint) == "" {
		normalized.Endpoint = DefaultEndpoint
	}
	if normalized.Timeout <= 0 {
		normalized.Timeout = DefaultTimeout
	}
	if normalized.RPS <= 0 {
		normalized.RPS = DefaultRPS
	}
	if normalized.Burst < 1 {
		normalized.Burst = DefaultBurst
	}
	if normalized.Workers < 1 {
		normalized.Workers = DefaultWorkers
	}
	if normalized.HTTPClient == nil {
		normalized.HTTPClient = http.DefaultClient
	}

	return &Client{
		opts:    normalized,
		limiter: rate.NewLimiter(rate.Limit(normalized.RPS), normalized.Burst),
		logger:  logger,
	}
}

// Lookup retrieves the most relevant organic hit for a query. Transport
// failures, non-2xx statuses and malformed responses all degrade to a
// Result with nil URL and snippet.
func (c *Client) Lookup(ctx context.Context, query string) Result {
	result := Result{Sentence: query}

	if err := c.limiter.Wait(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("search rate limiter interrupted")
		return result
	}

	hit, err := c.lookup(ctx, query)
	if err != nil {
		c.logger.Warn().Err(err).Str("query", truncate(query, 80)).Msg("search lookup failed")
		return result
	}
	if hit == nil {
		return result
	}

	result.URL = hit.Link
	result.Snippet = hit.Snippet
	c.maybeEnrich(ctx, &result)
	return result
}

func (c *Client) lookup(ctx context.Context, query string) (*organicHit, error) {
	body, err := json.Marshal(serperQuery{Q: query})
	if err != nil {
		return nil, fmt.Errorf("marshal search query: %w", err)
	}

	requestCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, c.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.opts.APIKey)

	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("search service status %d: %s", resp.StatusCode, truncate(strings.TrimSpace(string(respBody)), 200))
	}

	parsed, err := ValidateResponse(respBody)
	if err != nil {
		return nil, fmt.Errorf("invalid search response: %w", err)
	}
	if len(parsed.Organic) == 0 {
		return nil, nil
	}
	return &parsed.Organic[0], nil
}

func (c *Client) maybeEnrich(ctx context.Context, result *Result) {
	if c.opts.Fetcher == nil || result.URL == nil {
		return
	}
	if result.Snippet != nil && len([]rune(*result.Snippet)) >= enrichBelowRunes {
		return
	}

	text, err := c.opts.Fetcher.FetchText(ctx, *result.URL)
	if err != nil {
		c.logger.Debug().Err(err).Str("url", *result.URL).Msg("snippet enrichment failed")
		return
	}
	runes := []rune(text)
	if len(runes) > enrichMaxRunes {
		text = string(runes[:enrichMaxRunes])
	}
	if result.Snippet == nil || len([]rune(text)) > len([]rune(*result.Snippet)) {
		result.Snippet = &text
	}
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
