package orchestrator

import "github.com/sskys18/telegram-korean-search/internal/collector"

// EventType discriminates the three events a collection run publishes.
type EventType string

const (
	EventProgress EventType = "collection-progress"
	EventComplete EventType = "collection-complete"
	EventError    EventType = "collection-error"
)

// Event is one message on the Orchestrator's event stream. Only the
// field matching Type is meaningful.
type Event struct {
	Type     EventType
	Progress collector.Progress
	Chats    int
	Message  string
}
