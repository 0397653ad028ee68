// Package handlers exposes application use cases to the presentation layer.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/ersonp/histfacts/internal/domain/entities"
	"github.com/ersonp/histfacts/internal/domain/ports"
	"github.com/ersonp/histfacts/internal/domain/services"
)

// User-facing messages.
const (
	retryMessageFormat     = "There was an error when fetching the historical data. Retrying (%d/%d)..."
	exhaustedMessageFormat = "Failed to fetch historical data after %d attempts."
	unexpectedErrorMessage = "Failed to fetch historical data."
)

// Listener receives a snapshot of the state after every transition.
// Listeners run one at a time in registration order and must not change
// the handler's state from inside the callback.
type Listener func(state entities.FetchState)

type subscription struct {
	id int
	fn Listener
}

// RecordsHandler owns the FetchState of one view session. It is the only
// writer of that state; readers use Snapshot or Subscribe.
type RecordsHandler struct {
	fetchService *services.FetchService
	notifier     ports.Notifier
	logger       *slog.Logger

	// notifyMu orders transitions with their delivery. It is taken before mu.
	notifyMu sync.Mutex

	mu        sync.Mutex
	state     entities.FetchState
	listeners []subscription
	nextID    int
}

// RecordsOption configures a RecordsHandler.
type RecordsOption func(*RecordsHandler)

// WithLogger sets the handler's logger.
func WithLogger(logger *slog.Logger) RecordsOption {
	return func(h *RecordsHandler) {
		h.logger = logger
	}
}

// NewRecordsHandler creates a handler in the Idle state and registers it
// for attempt notifications on fetchService. A nil notifier disables
// notifications.
func NewRecordsHandler(fetchService *services.FetchService, notifier ports.Notifier, opts ...RecordsOption) *RecordsHandler {
	h := &RecordsHandler{
		fetchService: fetchService,
		notifier:     notifier,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	fetchService.AddObserver(ports.AttemptObserverFunc(h.observeAttempt))
	return h
}

// Snapshot returns a copy of the current state.
func (h *RecordsHandler) Snapshot() entities.FetchState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state.Clone()
}

// Visible returns what the view lists: the filtered records when a category
// is selected, all records otherwise.
func (h *RecordsHandler) Visible() entities.RecordCollection {
	s := h.Snapshot()
	if s.Category != "" {
		return s.FilteredRecords
	}
	return s.Records
}

// Subscribe registers fn to be called after every state transition and
// returns a function that removes it.
func (h *RecordsHandler) Subscribe(fn Listener) (unsubscribe func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners = append(h.listeners, subscription{id: id, fn: fn})
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.listeners = slices.DeleteFunc(h.listeners, func(sub subscription) bool {
			return sub.id == id
		})
	}
}

// Refresh runs one fetch cycle and blocks until it ends. It returns false
// without doing anything when a cycle is already in flight.
//
// When ctx ends before the cycle finishes, Records and ErrorMessage are left
// as they were and only IsLoading is reset.
func (h *RecordsHandler) Refresh(ctx context.Context) bool {
	var previousError string
	started := h.update(func(state *entities.FetchState) bool {
		if state.IsLoading {
			return false
		}
		previousError = state.ErrorMessage
		state.IsLoading = true
		state.ErrorMessage = ""
		return true
	})
	if !started {
		h.logger.Debug("refresh coalesced into in-flight fetch")
		return false
	}

	// Tag the cycle so attempts of other callers sharing the service are ignored.
	cycleCtx := context.WithValue(ctx, cycleKey{}, h)

	records, err := h.fetchService.GetHistoricData(cycleCtx)

	h.update(func(state *entities.FetchState) bool {
		state.IsLoading = false
		switch {
		case err == nil:
			state.Records = records
			if records == nil {
				state.Records = entities.RecordCollection{}
			}
			if state.Category != "" {
				state.FilteredRecords = entities.FilterByCategory(state.Records, state.Category)
			}
		case ctx.Err() != nil:
			state.ErrorMessage = previousError
		default:
			state.ErrorMessage = h.failureMessage(err)
		}
		return true
	})

	switch {
	case err == nil:
		h.logger.Info("historical data loaded", "records", len(records))
	case ctx.Err() != nil:
		h.logger.Info("fetch cancelled", "error", err)
	default:
		h.logger.Error("fetching historical data", "error", err)
	}
	return true
}

// FilterByCategory selects tag as the current category and recomputes the
// filtered records. Records itself is never modified. An empty tag clears
// the filter.
func (h *RecordsHandler) FilterByCategory(tag string) {
	if tag == "" {
		h.ClearFilter()
		return
	}
	h.update(func(state *entities.FetchState) bool {
		state.Category = tag
		if state.Records == nil {
			state.FilteredRecords = nil
		} else {
			state.FilteredRecords = entities.FilterByCategory(state.Records, tag)
		}
		return true
	})
}

// ClearFilter drops the selected category and the filtered records.
func (h *RecordsHandler) ClearFilter() {
	h.update(func(state *entities.FetchState) bool {
		state.Category = ""
		state.FilteredRecords = nil
		return true
	})
}

type cycleKey struct{}

// observeAttempt turns attempt reports of this handler's cycles into user
// notifications.
func (h *RecordsHandler) observeAttempt(ctx context.Context, attempt entities.Attempt) {
	if h.notifier == nil || attempt.Succeeded() {
		return
	}
	if owner, _ := ctx.Value(cycleKey{}).(*RecordsHandler); owner != h {
		return
	}

	if attempt.Final() {
		h.notifier.Notify(fmt.Sprintf(exhaustedMessageFormat, attempt.MaxAttempts), entities.SeverityError)
		return
	}
	h.notifier.Notify(fmt.Sprintf(retryMessageFormat, attempt.Attempt, attempt.MaxAttempts), entities.SeverityError)
}

func (h *RecordsHandler) failureMessage(err error) string {
	var exhausted *services.FetchExhaustedError
	if errors.As(err, &exhausted) {
		return fmt.Sprintf(exhaustedMessageFormat, exhausted.Attempts)
	}
	return unexpectedErrorMessage
}

// update applies fn to the state and, when fn reports a transition,
// delivers the new snapshot to every listener before the next transition
// can start.
func (h *RecordsHandler) update(fn func(state *entities.FetchState) bool) bool {
	h.notifyMu.Lock()
	defer h.notifyMu.Unlock()

	h.mu.Lock()
	if !fn(&h.state) {
		h.mu.Unlock()
		return false
	}
	state := h.state.Clone()
	listeners := slices.Clone(h.listeners)
	h.mu.Unlock()

	for _, sub := range listeners {
		sub.fn(state.Clone())
	}
	return true
}
