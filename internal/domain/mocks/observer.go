package mocks

import (
	"context"
	"sync"

	"github.com/ersonp/histfacts/internal/domain/entities"
)

// AttemptObserver is a mock implementation of ports.AttemptObserver.
type AttemptObserver struct {
	mu       sync.Mutex
	attempts []entities.Attempt
}

// ObserveAttempt records the attempt.
func (m *AttemptObserver) ObserveAttempt(ctx context.Context, attempt entities.Attempt) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, attempt)
}

// Attempts returns the recorded attempts in order.
func (m *AttemptObserver) Attempts() []entities.Attempt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entities.Attempt(nil), m.attempts...)
}
