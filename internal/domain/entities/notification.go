package entities

// Severity is the visual weight of a user notification.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// Notification is a short message shown to the user.
type Notification struct {
	Message  string
	Severity Severity
}
