package storefront

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pricelens/backend/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultRPS        = 2.0
	defaultBurst      = 4
	defaultMaxRetries = 3
	defaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	maxBodyBytes      = 8 << 20
)

// ClientConfig holds configuration for the storefront client
type ClientConfig struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
	UserAgent         string
}

// Client fetches VTEX-style storefront search pages ({host}/busca?ft=query)
// and extracts the product cards they list.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	maxRetries  int
	userAgent   string
	backoff     func(attempt int) time.Duration
	logger      zerolog.Logger
}

// NewClient creates a new storefront client
func NewClient(config ClientConfig, logger zerolog.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRPS
	}
	burst := config.Burst
	if burst <= 0 {
		burst = defaultBurst
	}
	retries := config.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}
	ua := config.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		rateLimiter: rate.NewLimiter(rate.Limit(rps), burst),
		maxRetries:  retries,
		userAgent:   ua,
		backoff:     exponentialBackoff,
		logger:      logger.With().Str("component", "storefront").Logger(),
	}
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// SearchURL builds the search page URL for a query.
func SearchURL(host, query string) string {
	params := url.Values{}
	params.Set("ft", query)
	return strings.TrimRight(host, "/") + "/busca?" + params.Encode()
}

// Search fetches the search page for query and returns its product cards.
// A 404 yields no cards; other failures are retried with backoff.
func (c *Client) Search(ctx context.Context, host, query string) ([]domain.ProductCard, error) {
	reqURL := SearchURL(host, query)

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		cards, retry, err := c.fetch(ctx, reqURL)
		if err == nil {
			c.logger.Debug().Str("url", reqURL).Int("cards", len(cards)).Msg("search page parsed")
			return cards, nil
		}
		if !retry {
			return nil, err
		}

		lastErr = err
		c.logger.Debug().Err(err).Int("attempt", attempt).Str("url", reqURL).Msg("search request failed")
		if attempt == c.maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.backoff(attempt)):
		}
	}

	c.logger.Warn().Err(lastErr).Str("url", reqURL).Msg("all retries failed")
	return nil, lastErr
}

// fetch performs one request. The bool result reports whether the failure
// is worth retrying.
func (c *Client) fetch(ctx context.Context, reqURL string) ([]domain.ProductCard, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("%w: %v", domain.ErrStorefrontFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, true, fmt.Errorf("%w: status %d", domain.ErrStorefrontFailure, resp.StatusCode)
	}

	cards, err := ExtractCards(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", domain.ErrStorefrontFailure, err)
	}
	return cards, false, nil
}
