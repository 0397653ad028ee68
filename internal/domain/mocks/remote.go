// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"sync"

	"github.com/ersonp/histfacts/internal/domain/entities"
	"github.com/ersonp/histfacts/internal/domain/ports"
)

// FetchResult is one scripted response of RemoteFetcher.
type FetchResult struct {
	Records entities.RecordCollection
	Err     error
}

// RemoteFetcher is a mock implementation of ports.RemoteFetcher.
// Results are returned in order; once exhausted the last one repeats.
// When Block is set, every call waits for it to be closed or for ctx.
type RemoteFetcher struct {
	Results []FetchResult
	Block   chan struct{}

	mu         sync.Mutex
	calls      int
	requestIDs []string
}

// FetchRecords returns the next scripted result.
func (m *RemoteFetcher) FetchRecords(ctx context.Context) (entities.RecordCollection, error) {
	m.mu.Lock()
	m.calls++
	call := m.calls
	if id, ok := ports.RequestIDFrom(ctx); ok {
		m.requestIDs = append(m.requestIDs, id)
	}
	m.mu.Unlock()

	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return nil, &ports.TransportError{Err: ctx.Err()}
		}
	}

	if len(m.Results) == 0 {
		return entities.RecordCollection{}, nil
	}
	idx := call - 1
	if idx >= len(m.Results) {
		idx = len(m.Results) - 1
	}
	r := m.Results[idx]
	return r.Records, r.Err
}

// Calls returns how many times FetchRecords was invoked.
func (m *RemoteFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// RequestIDs returns the request IDs seen on the context, in call order.
func (m *RemoteFetcher) RequestIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requestIDs...)
}
