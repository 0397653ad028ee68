// Package notify provides ports.Notifier implementations.
package notify

import (
	"sync"
	"time"

	"github.com/ersonp/histfacts/internal/domain/entities"
)

// DefaultDuration is how long a toast stays visible.
const DefaultDuration = 3 * time.Second

// Toast holds at most one visible notification and hides it after a fixed
// duration. Showing a new notification replaces the current one and cancels
// its pending dismissal.
type Toast struct {
	duration time.Duration
	onChange func(entities.Notification, bool)

	mu      sync.Mutex
	current entities.Notification
	showing bool
	timer   *time.Timer
	seq     uint64
}

// ToastOption configures a Toast.
type ToastOption func(*Toast)

// WithOnChange registers a listener called after the toast is shown or
// hidden. It runs without the toast's lock held.
func WithOnChange(fn func(n entities.Notification, showing bool)) ToastOption {
	return func(t *Toast) {
		t.onChange = fn
	}
}

// NewToast creates a toast that auto-dismisses after duration, or after
// DefaultDuration when duration is not positive.
func NewToast(duration time.Duration, opts ...ToastOption) *Toast {
	if duration <= 0 {
		duration = DefaultDuration
	}
	t := &Toast{duration: duration}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Notify shows message, replacing whatever is visible.
func (t *Toast) Notify(message string, severity entities.Severity) {
	if severity == "" {
		severity = entities.SeverityInfo
	}
	n := entities.Notification{Message: message, Severity: severity}

	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.seq++
	seq := t.seq
	t.current = n
	t.showing = true
	t.timer = time.AfterFunc(t.duration, func() { t.expire(seq) })
	t.mu.Unlock()

	t.changed(n, true)
}

// expire hides the toast if it still shows the notification numbered seq.
func (t *Toast) expire(seq uint64) {
	t.mu.Lock()
	if seq != t.seq || !t.showing {
		t.mu.Unlock()
		return
	}
	n := t.current
	t.showing = false
	t.timer = nil
	t.mu.Unlock()

	t.changed(n, false)
}

// Dismiss hides the current notification immediately.
func (t *Toast) Dismiss() {
	t.mu.Lock()
	if !t.showing {
		t.mu.Unlock()
		return
	}
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	n := t.current
	t.showing = false
	t.seq++
	t.mu.Unlock()

	t.changed(n, false)
}

// Current returns the visible notification, if any.
func (t *Toast) Current() (entities.Notification, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.showing {
		return entities.Notification{}, false
	}
	return t.current, true
}

func (t *Toast) changed(n entities.Notification, showing bool) {
	if t.onChange != nil {
		t.onChange(n, showing)
	}
}
