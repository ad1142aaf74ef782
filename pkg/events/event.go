package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "APPLICATION_SAVED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewApplicationSaved is emitted after the auto-saver persists a wizard
// session. Consumed by audit/analytics sinks; delivery is best-effort.
func NewApplicationSaved(userID, applicationID string, step int) Event {
	return BaseEvent{
		Type: "APPLICATION_SAVED",
		Data: map[string]interface{}{
			"user_id":        userID,
			"application_id": applicationID,
			"step":           step,
		},
		OccurredAt: time.Now(),
	}
}

// NewSearchPerformed is emitted after a vacancy search round-trips to the
// upstream job board (cache hits do not emit).
func NewSearchPerformed(userID, searchHash string, total int) Event {
	return BaseEvent{
		Type: "SEARCH_PERFORMED",
		Data: map[string]interface{}{
			"user_id":     userID,
			"search_hash": searchHash,
			"total":       total,
		},
		OccurredAt: time.Now(),
	}
}
