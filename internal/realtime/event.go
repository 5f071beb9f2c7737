package realtime

// Event is a single real-time payload pushed to a live session.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}
