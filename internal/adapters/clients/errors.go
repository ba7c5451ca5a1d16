// Package clients provides the resilient HTTP client used to reach
// downstream services.
package clients

import "errors"

// Transport failures. The anti-corruption layer turns them into domain
// errors.
var (
	// ErrCircuitOpen means the breaker is open and the call was not made.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure after all attempts.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
