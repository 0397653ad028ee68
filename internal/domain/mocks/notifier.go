package mocks

import (
	"sync"

	"github.com/ersonp/histfacts/internal/domain/entities"
)

// Notifier is a mock implementation of ports.Notifier that records messages.
type Notifier struct {
	mu   sync.Mutex
	sent []entities.Notification
}

// Notify records the notification.
func (m *Notifier) Notify(message string, severity entities.Severity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, entities.Notification{Message: message, Severity: severity})
}

// Sent returns the recorded notifications in order.
func (m *Notifier) Sent() []entities.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entities.Notification(nil), m.sent...)
}
