package realtime

import "time"

type EventType string

const (
	EventRiskAssessed        EventType = "risk.assessed"
	EventSimulationCompleted EventType = "simulation.completed"
)

// Event is published after an assessment or simulation completes. Channel is
// the hashed household id, so subscribers only see their own household.
type Event struct {
	Channel string    `json:"channel"`
	Type    EventType `json:"type"`
	TraceID string    `json:"trace_id,omitempty"`
	At      time.Time `json:"at"`
	Data    any       `json:"data,omitempty"`
}
