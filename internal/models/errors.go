package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the quote fetch path. Callers classify failures with
// errors.Is / errors.As rather than string matching.
var (
	// ErrInvalidSymbol rejects malformed symbols before any I/O.
	ErrInvalidSymbol = errors.New("invalid symbol")

	// ErrRateLimited maps an upstream HTTP 429.
	ErrRateLimited = errors.New("quote provider rate limit exceeded")

	// ErrQuoteTimeout indicates the provider did not respond within the
	// fixed request deadline.
	ErrQuoteTimeout = errors.New("quote provider request timed out")

	// ErrEmptyResult indicates the provider responded but the payload was
	// not a non-empty list.
	ErrEmptyResult = errors.New("no quote data for symbol")

	// ErrMissingPrice indicates the provider payload lacked a numeric price.
	ErrMissingPrice = errors.New("quote payload has no price")
)

// ProviderHTTPError is any non-success, non-429 upstream status.
type ProviderHTTPError struct {
	StatusCode int
	Endpoint   string
}

func (e *ProviderHTTPError) Error() string {
	return fmt.Sprintf("quote provider returned status %d (endpoint: %s)", e.StatusCode, e.Endpoint)
}

// ConnectionError is a network-level failure reaching the provider.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("quote provider connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// StorageError wraps a persistence layer failure with the failing operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
