// Package ports defines interfaces for external service communication.
package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/ersonp/histfacts/internal/domain/entities"
)

// RemoteFetcher performs a single fetch of the record list from the backend.
// Implementations make exactly one attempt and never retry.
type RemoteFetcher interface {
	// FetchRecords returns the records in backend order, or an error that
	// matches ErrRemoteFetch.
	FetchRecords(ctx context.Context) (entities.RecordCollection, error)
}

// ErrRemoteFetch matches every error returned by a RemoteFetcher attempt.
var ErrRemoteFetch = errors.New("remote fetch failed")

// TransportError is a network, protocol or backend-reported failure.
type TransportError struct {
	StatusCode int    // HTTP status, 0 when no response was received
	Code       int    // backend error code, 0 when absent
	Message    string // backend error message, empty when absent
	Err        error  // underlying cause, may be nil
}

func (e *TransportError) Error() string {
	switch {
	case e.Message != "" && e.Code != 0:
		return fmt.Sprintf("transport error: status %d: code %d: %s", e.StatusCode, e.Code, e.Message)
	case e.Message != "":
		return fmt.Sprintf("transport error: status %d: %s", e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("transport error: %v", e.Err)
	default:
		return fmt.Sprintf("transport error: status %d", e.StatusCode)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is makes TransportError match ErrRemoteFetch.
func (e *TransportError) Is(target error) bool {
	return target == ErrRemoteFetch
}

// FormatError means a response arrived but could not be read as a record list.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("format error: %s: %v", e.Reason, e.Err)
	}
	return "format error: " + e.Reason
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Is makes FormatError match ErrRemoteFetch.
func (e *FormatError) Is(target error) bool {
	return target == ErrRemoteFetch
}

type requestIDKey struct{}

// WithRequestID attaches an idempotency key for the next remote call.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request ID attached with WithRequestID.
func RequestIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}
