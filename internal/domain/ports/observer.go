package ports

import (
	"context"

	"github.com/ersonp/histfacts/internal/domain/entities"
)

// AttemptObserver is told about every attempt of a fetch cycle, after the
// attempt completes and before any retry delay.
type AttemptObserver interface {
	ObserveAttempt(ctx context.Context, attempt entities.Attempt)
}

// AttemptObserverFunc adapts a function to AttemptObserver.
type AttemptObserverFunc func(ctx context.Context, attempt entities.Attempt)

// ObserveAttempt calls f.
func (f AttemptObserverFunc) ObserveAttempt(ctx context.Context, attempt entities.Attempt) {
	f(ctx, attempt)
}
