package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrSearchAPIFailure is returned when the marketplace search API request fails
	ErrSearchAPIFailure = errors.New("search API request failed")

	// ErrProviderUnavailable is returned when a provider has no credentials or its
	// call fails; the caller skips that refinement step and keeps the
	// deterministic result
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
