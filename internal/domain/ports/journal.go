package ports

import (
	"context"
	"time"
)

// AttemptJournal keeps a diagnostic log of fetch attempts.
// It never stores record data.
type AttemptJournal interface {
	AttemptObserver

	// ListAttempts returns the most recent attempts, newest first.
	ListAttempts(ctx context.Context, limit int) ([]AttemptEntry, error)

	// CountFailures returns the number of failed attempts logged.
	CountFailures(ctx context.Context) (int, error)

	// Close releases the journal's resources.
	Close() error
}

// AttemptEntry is a logged attempt.
type AttemptEntry struct {
	ID          string
	CycleID     string
	Attempt     int
	MaxAttempts int
	RequestID   string
	Outcome     string
	Error       string
	Duration    time.Duration
	StartedAt   time.Time
}
