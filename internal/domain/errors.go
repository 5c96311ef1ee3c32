package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidParams signals a malformed or contradictory request.
	ErrInvalidParams = errors.New("invalid parameters")
	// ErrNoSearchableTerms signals a query that produced no lexical or semantic signal.
	ErrNoSearchableTerms = errors.New("no searchable terms")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAuthRequired signals a request with no identity where one is required.
	ErrAuthRequired = errors.New("authentication required")
	// ErrAuthInvalid signals an unresolvable or revoked identity.
	ErrAuthInvalid = errors.New("invalid authentication")
	// ErrRateLimited signals an exhausted daily search quota.
	ErrRateLimited = errors.New("rate limited")

	// ErrEmbeddingQuotaExceeded signals an exhausted embedding token budget.
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// RateLimitError wraps ErrRateLimited with the quota limit and the reset time.
type RateLimitError struct {
	Limit    int64
	ResetsAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: daily limit of %d reached, resets at %s",
		ErrRateLimited.Error(), e.Limit, e.ResetsAt.Format(time.RFC3339))
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// NewRateLimit creates a rate limit error for the given limit and reset time.
func NewRateLimit(limit int64, resetsAt time.Time) error {
	return &RateLimitError{Limit: limit, ResetsAt: resetsAt}
}
