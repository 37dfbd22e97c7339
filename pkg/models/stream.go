package models

import "time"

// UpdateKind is the closed set of stream update kinds a subscription
// emits.
type UpdateKind string

const (
	UpdateSessionReady UpdateKind = "sessionReady"
	UpdateSessionEvent UpdateKind = "sessionEvent"
	UpdateHeartbeat    UpdateKind = "heartbeat"
	UpdateSessionClosed UpdateKind = "sessionClosed"
	UpdateSessionError UpdateKind = "sessionError"
)

// StreamUpdate is one record a live subscription emits. Cursor is the
// count of events delivered so far on this subscription; it monotonically
// increases within one subscription's lifetime.
type StreamUpdate struct {
	Kind      UpdateKind `json:"kind"`
	Cursor    int        `json:"cursor"`
	Summary   *Summary   `json:"summary,omitempty"`
	Event     *Event     `json:"event,omitempty"`
	Message   string     `json:"message,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
