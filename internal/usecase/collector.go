package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pricelens/backend/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	defaultMaxCards     = 12
	defaultCardCacheTTL = 10 * time.Minute
)

// CollectorConfig holds configuration for storefront collection
type CollectorConfig struct {
	MaxCards int
	CacheTTL time.Duration
}

// Collector gathers catalog prices from storefront search pages.
type Collector struct {
	client   domain.StorefrontClient
	cache    domain.CacheRepository
	matcher  *CatalogMatcher
	maxCards int
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewCollector creates a collector. cache may be nil.
func NewCollector(
	client domain.StorefrontClient,
	cache domain.CacheRepository,
	matcher *CatalogMatcher,
	config CollectorConfig,
	logger zerolog.Logger,
) *Collector {
	maxCards := config.MaxCards
	if maxCards <= 0 {
		maxCards = defaultMaxCards
	}
	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultCardCacheTTL
	}

	return &Collector{
		client:   client,
		cache:    cache,
		matcher:  matcher,
		maxCards: maxCards,
		cacheTTL: cacheTTL,
		logger:   logger.With().Str("component", "collector").Logger(),
	}
}

type storeTarget struct {
	host   string
	vendor string
}

// ResolveStorefront returns the scheme://host base of the storefront URL and
// its vendor label: the given name, or the host without a leading "www.".
func ResolveStorefront(store domain.Storefront) (host, vendor string, err error) {
	u, err := url.Parse(strings.TrimSpace(store.URL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", "", fmt.Errorf("%w: invalid storefront url %q", domain.ErrInvalidRequest, store.URL)
	}

	host = u.Scheme + "://" + u.Host
	vendor = strings.TrimSpace(store.Name)
	if vendor == "" {
		vendor = strings.TrimPrefix(u.Host, "www.")
	}
	return host, vendor, nil
}

// CollectCatalog searches every storefront for every catalog entry and keeps
// the first card (among the top results) that the matcher assigns to that
// entry. Storefronts are fetched concurrently; records come back grouped in
// the order the storefronts were given, along with the vendor labels.
func (c *Collector) CollectCatalog(ctx context.Context, stores []domain.Storefront) ([]domain.RawRecord, []string, error) {
	if len(stores) == 0 {
		return nil, nil, fmt.Errorf("%w: no storefronts", domain.ErrInvalidRequest)
	}

	targets := make([]storeTarget, 0, len(stores))
	vendors := make([]string, 0, len(stores))
	seen := map[string]bool{}
	for _, store := range stores {
		host, vendor, err := ResolveStorefront(store)
		if err != nil {
			return nil, nil, err
		}
		if seen[vendor] {
			return nil, nil, fmt.Errorf("%w: duplicate storefront %q", domain.ErrInvalidRequest, vendor)
		}
		seen[vendor] = true
		targets = append(targets, storeTarget{host: host, vendor: vendor})
		vendors = append(vendors, vendor)
	}

	results := make([][]domain.RawRecord, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	for i, target := range targets {
		g.Go(func() error {
			records, err := c.collectStore(gctx, target)
			if err != nil {
				return err
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var records []domain.RawRecord
	for _, r := range results {
		records = append(records, r...)
	}
	return records, vendors, nil
}

func (c *Collector) collectStore(ctx context.Context, target storeTarget) ([]domain.RawRecord, error) {
	logger := c.logger.With().Str("vendor", target.vendor).Str("host", target.host).Logger()

	var records []domain.RawRecord
	var searches, failures int
	var lastErr error
	for _, section := range c.matcher.Catalog().Sections {
		for _, entry := range section.Entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			key := domain.CanonicalKey{Section: section.Name, Product: entry.Key}
			searches++
			cards, err := c.search(ctx, target.host, entry.SearchQuery())
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				failures++
				lastErr = err
				logger.Warn().Err(err).Str("key", key.String()).Msg("search failed, skipping entry")
				continue
			}

			card, ok := c.firstMatch(cards, key)
			if !ok {
				logger.Debug().Str("key", key.String()).Int("cards", len(cards)).Msg("no matching card")
				continue
			}
			records = append(records, domain.RawRecord{RawName: card.Name, Price: card.Price, Vendor: target.vendor})
		}
	}

	// a store where nothing could be fetched is down, not empty
	if searches > 0 && failures == searches {
		return nil, fmt.Errorf("%w: %s: every search failed: %v", domain.ErrStorefrontFailure, target.vendor, lastErr)
	}

	logger.Info().Int("records", len(records)).Int("failed_searches", failures).Msg("storefront collected")
	return records, nil
}

func (c *Collector) firstMatch(cards []domain.ProductCard, key domain.CanonicalKey) (domain.ProductCard, bool) {
	if len(cards) > c.maxCards {
		cards = cards[:c.maxCards]
	}
	for _, card := range cards {
		if got, ok := c.matcher.Match(card.Name); ok && got == key {
			return card, true
		}
	}
	return domain.ProductCard{}, false
}

// search returns the cards for a query, served from cache when possible.
func (c *Collector) search(ctx context.Context, host, query string) ([]domain.ProductCard, error) {
	cacheKey := fmt.Sprintf("storefront:%s:%s", host, Normalize(query))

	if c.cache != nil {
		if data, err := c.cache.Get(ctx, cacheKey); err == nil {
			var cards []domain.ProductCard
			if err := json.Unmarshal(data, &cards); err == nil {
				return cards, nil
			}
		}
	}

	cards, err := c.client.Search(ctx, host, query)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, cards, c.cacheTTL); err != nil {
			c.logger.Debug().Err(err).Str("cache_key", cacheKey).Msg("cache write failed")
		}
	}
	return cards, nil
}
