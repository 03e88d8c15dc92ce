package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Calculate produces a full price breakdown for the given input.
	// It never returns a partial or default price; any error aborts
	// the whole quote.
	Calculate(ctx context.Context, input CalculationInput) (*Result, error)
}

var (
	ErrInvalidDistance = errors.New("invalid_distance")
	// ErrStoreUnavailable wraps store read failures and timeouts. The
	// caller may retry; the underlying cause is attached.
	ErrStoreUnavailable = errors.New("pricing_store_unavailable")
)
