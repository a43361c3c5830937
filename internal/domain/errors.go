package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidCatalog is returned when a catalog definition violates its format
	ErrInvalidCatalog = errors.New("invalid catalog definition")

	// ErrStorefrontFailure is returned when a storefront search request fails
	ErrStorefrontFailure = errors.New("storefront request failed")

	// ErrStorefrontsDisabled is returned when storefront collection is not configured
	ErrStorefrontsDisabled = errors.New("storefront collection disabled")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
