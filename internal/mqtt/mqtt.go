// Package mqtt publishes device diagnostics with abstraction for testing.
// Publishing is fire and forget: failures are reported to the caller for
// logging and must never affect control flow or timing.
package mqtt

import (
	"encoding/json"
	"time"
)

// Topic is the MQTT topic for session events.
const Topic = "therapy/pemf/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "therapy/pemf/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a session event to the broker.
	// Returns error if publishing fails (must not crash the process).
	Publish(event Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Event is a session-level occurrence to publish.
type Event struct {
	Timestamp   time.Time
	Type        string // e.g. "SESSION_START", "SESSION_LOCKOUT"
	Phase       string // session phase after the event
	RemainingMs int64
	LimitMs     int64
	Charging    bool
}

// SystemEvent represents a system lifecycle event (startup, shutdown,
// heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g. "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g. "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload is the MQTT message envelope for session events.
type Payload struct {
	Session SessionPayload `json:"session"`
}

// SessionPayload contains the session event details.
type SessionPayload struct {
	Timestamp   string `json:"timestamp"`
	Event       string `json:"event"`
	Phase       string `json:"phase"`
	RemainingMs int64  `json:"remaining_ms"`
	LimitMs     int64  `json:"limit_ms"`
	Charging    bool   `json:"charging"`
}

// FormatPayload creates the JSON payload for a session event.
func FormatPayload(event Event) ([]byte, error) {
	payload := Payload{
		Session: SessionPayload{
			Timestamp:   event.Timestamp.UTC().Format(time.RFC3339),
			Event:       event.Type,
			Phase:       event.Phase,
			RemainingMs: event.RemainingMs,
			LimitMs:     event.LimitMs,
			Charging:    event.Charging,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the MQTT message envelope for simple system events that
// don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status
// snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
