// Package progress defines the one-way event channel used by the scraping
// pool to report status. Sinks are caller-owned; the pool only writes.
package progress

import "time"

// Kind classifies a progress event
type Kind string

const (
	KindStatus   Kind = "status"
	KindProgress Kind = "progress"
	KindError    Kind = "error"
	KindComplete Kind = "complete"
)

// Event is a single progress notification. Events are transient: the pool
// emits them and never stores them.
type Event struct {
	Kind      Kind           `json:"kind"`
	Message   string         `json:"message"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewEvent builds an event stamped with the current time
func NewEvent(kind Kind, message string, payload map[string]any) Event {
	return Event{
		Kind:      kind,
		Message:   message,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}
