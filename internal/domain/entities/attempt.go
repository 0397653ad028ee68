package entities

import "time"

// Attempt describes one remote call made within a fetch cycle.
type Attempt struct {
	CycleID     string
	Attempt     int // 1-indexed
	MaxAttempts int
	RequestID   string
	Err         error
	StartedAt   time.Time
	Duration    time.Duration
}

// Succeeded reports whether the attempt returned records.
func (a Attempt) Succeeded() bool {
	return a.Err == nil
}

// Final reports whether no further attempt follows this one.
func (a Attempt) Final() bool {
	return a.Err == nil || a.Attempt >= a.MaxAttempts
}

// Outcome returns "success" or "failure".
func (a Attempt) Outcome() string {
	if a.Err == nil {
		return "success"
	}
	return "failure"
}
