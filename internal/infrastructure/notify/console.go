package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/ersonp/histfacts/internal/domain/entities"
	"github.com/ersonp/histfacts/internal/domain/ports"
)

// Console writes each notification as a line to w.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole creates a console notifier.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Notify writes "[severity] message".
func (c *Console) Notify(message string, severity entities.Severity) {
	if severity == "" {
		severity = entities.SeverityInfo
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "[%s] %s\n", severity, message)
}

// Multi fans a notification out to several notifiers in order.
type Multi []ports.Notifier

// Notify forwards to every notifier.
func (m Multi) Notify(message string, severity entities.Severity) {
	for _, n := range m {
		n.Notify(message, severity)
	}
}
