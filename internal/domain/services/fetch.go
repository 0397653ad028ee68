// Package services contains the domain logic built on top of ports.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/histfacts/internal/domain/entities"
	"github.com/ersonp/histfacts/internal/domain/ports"
)

// Retry defaults for a fetch cycle.
const (
	DefaultMaxAttempts = 5
	DefaultRetryDelay  = 2 * time.Second
)

// ErrFetchExhausted matches a FetchExhaustedError.
var ErrFetchExhausted = errors.New("fetch attempts exhausted")

// FetchExhaustedError is returned once every attempt of a cycle has failed.
type FetchExhaustedError struct {
	Attempts int
	Last     error
}

func (e *FetchExhaustedError) Error() string {
	return fmt.Sprintf("fetching historical data failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *FetchExhaustedError) Unwrap() error {
	return e.Last
}

// Is makes FetchExhaustedError match ErrFetchExhausted.
func (e *FetchExhaustedError) Is(target error) bool {
	return target == ErrFetchExhausted
}

// FetchOptions controls the retry policy.
type FetchOptions struct {
	MaxAttempts int
	RetryDelay  time.Duration
}

// DefaultFetchOptions returns 5 attempts with a fixed 2 second delay.
func DefaultFetchOptions() FetchOptions {
	return FetchOptions{
		MaxAttempts: DefaultMaxAttempts,
		RetryDelay:  DefaultRetryDelay,
	}
}

// Validate checks the retry policy.
func (o FetchOptions) Validate() error {
	if o.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", o.MaxAttempts)
	}
	if o.RetryDelay < 0 {
		return fmt.Errorf("retry delay must not be negative, got %s", o.RetryDelay)
	}
	return nil
}

// FetchOption customizes a FetchService.
type FetchOption func(*FetchService)

// WithObserver registers an observer at construction time.
func WithObserver(observer ports.AttemptObserver) FetchOption {
	return func(s *FetchService) {
		s.observers = append(s.observers, observer)
	}
}

// WithLogger sets the logger used for attempt diagnostics.
func WithLogger(logger *slog.Logger) FetchOption {
	return func(s *FetchService) {
		s.logger = logger
	}
}

// FetchService wraps a RemoteFetcher with a bounded, fixed-delay retry policy.
// Attempts within a cycle are strictly sequential.
type FetchService struct {
	fetcher ports.RemoteFetcher
	opts    FetchOptions
	logger  *slog.Logger

	mu        sync.RWMutex
	observers []ports.AttemptObserver

	// wait blocks for d or until ctx is done (replaced in tests).
	wait func(ctx context.Context, d time.Duration) error
	now  func() time.Time
}

// NewFetchService creates a fetch service. It fails when the retry policy
// is invalid.
func NewFetchService(fetcher ports.RemoteFetcher, opts FetchOptions, options ...FetchOption) (*FetchService, error) {
	if fetcher == nil {
		return nil, errors.New("remote fetcher is required")
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fetch options: %w", err)
	}

	s := &FetchService{
		fetcher: fetcher,
		opts:    opts,
		logger:  slog.Default(),
		wait:    sleepContext,
		now:     time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// AddObserver registers an observer for subsequent attempts.
func (s *FetchService) AddObserver(observer ports.AttemptObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// GetHistoricData runs one fetch cycle. It returns the first successful
// result, a *FetchExhaustedError after the last failed attempt, or ctx.Err()
// when the context ends first.
func (s *FetchService) GetHistoricData(ctx context.Context) (entities.RecordCollection, error) {
	cycleID := uuid.New().String()

	var lastErr error
	for attempt := 1; attempt <= s.opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		requestID := uuid.New().String()
		started := s.now()
		records, err := s.fetcher.FetchRecords(ports.WithRequestID(ctx, requestID))
		elapsed := s.now().Sub(started)

		// A call cut short by cancellation is not a failed attempt.
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		s.notify(ctx, entities.Attempt{
			CycleID:     cycleID,
			Attempt:     attempt,
			MaxAttempts: s.opts.MaxAttempts,
			RequestID:   requestID,
			Err:         err,
			StartedAt:   started,
			Duration:    elapsed,
		})

		if err == nil {
			s.logger.Debug("fetched historical data",
				"cycle", cycleID, "attempt", attempt, "records", len(records), "duration", elapsed)
			return records, nil
		}

		lastErr = err
		s.logger.Warn("fetch attempt failed",
			"cycle", cycleID, "attempt", attempt, "max_attempts", s.opts.MaxAttempts, "error", err)

		if attempt == s.opts.MaxAttempts {
			break
		}
		if err := s.wait(ctx, s.opts.RetryDelay); err != nil {
			return nil, err
		}
	}

	return nil, &FetchExhaustedError{Attempts: s.opts.MaxAttempts, Last: lastErr}
}

func (s *FetchService) notify(ctx context.Context, attempt entities.Attempt) {
	s.mu.RLock()
	observers := make([]ports.AttemptObserver, len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()

	for _, o := range observers {
		o.ObserveAttempt(ctx, attempt)
	}
}

// sleepContext waits for d unless ctx is done first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
