// Package provider defines the contract shared by all inference provider
// adapters: the raw payload they return and the error taxonomy the fallback
// executor classifies against.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Payload is a raw provider response before normalization. Adapters return
// whatever shape the upstream produced: raw bytes, a (possibly base64 or
// data-URI) string, or a decoded JSON object. The normalizer owns making
// sense of it.
type Payload any

// Sentinel errors adapters wrap to signal retryability to the executor.
var (
	// ErrResourceExhausted means the provider rejected the call for
	// quota/credit reasons (HTTP 402/429 or an SDK equivalent). The next
	// candidate may still succeed.
	ErrResourceExhausted = errors.New("provider resource exhausted")

	// ErrTimeout means the call exceeded its budget at the transport level.
	ErrTimeout = errors.New("provider timeout")
)

// StatusError is an HTTP-level provider failure with the upstream status
// preserved for logging. The raw body is never surfaced to API callers.
type StatusError struct {
	Provider string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Provider, e.Status)
}

// Unwrap maps exhaustion statuses to ErrResourceExhausted so that
// errors.Is-based classification works without inspecting the status twice.
func (e *StatusError) Unwrap() error {
	switch e.Status {
	case http.StatusTooManyRequests, http.StatusPaymentRequired:
		return ErrResourceExhausted
	}
	return nil
}

// IsRetryable reports whether a provider failure should advance the
// fallback chain instead of aborting it. Retryable failures are timeouts
// (surfaced either as context deadlines or transport timeout errors) and
// resource exhaustion; everything else is fatal.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrResourceExhausted) || errors.Is(err, ErrTimeout) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return true
	}
	return false
}
