package models

// TrackedEvent is one anonymous usage-analytics event: event name, free-form
// payload, client timestamp and the page URL it was emitted from.
type TrackedEvent struct {
	Event     string         `json:"event" binding:"required,max=64"`
	Payload   map[string]any `json:"payload"`
	Timestamp string         `json:"timestamp"`
	URL       string         `json:"url" binding:"max=2048"`
}

// EventBatchRequest is a batch of frontend events.
type EventBatchRequest struct {
	Events []TrackedEvent `json:"events" binding:"required,min=1,max=100,dive"`
}
