package ports

import "github.com/ersonp/histfacts/internal/domain/entities"

// Notifier shows a short, self-dismissing message to the user.
// Notify must not block.
type Notifier interface {
	Notify(message string, severity entities.Severity)
}
