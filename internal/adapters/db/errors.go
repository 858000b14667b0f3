package db

import (
	"context"
	"errors"

	"troffee-auctioneer/internal/domain/shared"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code for a unique constraint hit
const uniqueViolation = pq.ErrorCode("23505")

// isUniqueViolation reports whether err is a uniqueness-constraint conflict
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// classify translates a driver failure for the resilience policy. Context
// errors pass through so cancellation stays distinguishable; everything
// else from the driver is treated as transient and left to the retry bound.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return shared.Transient(err)
}
