package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrPriceParse is returned when no numeric value can be recovered from a price string
	ErrPriceParse = errors.New("cannot parse price")

	// ErrSourceUnavailable is returned when a source request fails after retries
	ErrSourceUnavailable = errors.New("source request failed")

	// ErrSourceTimeout is returned when a source does not answer within the aggregate budget
	ErrSourceTimeout = errors.New("timed out")

	// ErrUnknownSource is returned when a source ID is not registered
	ErrUnknownSource = errors.New("unknown source")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrWatchNotFound is returned when a watch does not exist in the store
	ErrWatchNotFound = errors.New("watch not found")
)
