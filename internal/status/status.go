// Package status provides a thread-safe status tracker for the
// pemf-controller daemon. It is read by the HTTP handlers and serialized
// into MQTT system events; it never feeds back into control logic.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/pemf-controller/internal/logic"
)

// NetworkInfo contains network state as reported by the pi-helper
// environment. This is a local copy to keep status free of other internal
// imports.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	HeartbeatMs int64
	Broker      string
	HTTPPort    string
	WSBroker    string // Websocket broker URL for browser MQTT (empty = disabled)
	SPIDevice   string
	PinCoil     int
	PinCharge   int
	PinButton   int
}

// Counts tracks gesture and session occurrences since startup.
type Counts struct {
	SinglePresses int
	DoublePresses int
	LongHolds     int
	Sessions      int
	Extensions    int
	Stops         int
	Interlocks    int
	Lockouts      int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Phase         logic.Phase
	Charging      bool
	FeedbackOn    bool
	RemainingMs   int64
	LimitMs       int64
	Counts        Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Phase:     logic.PhaseIdle,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the session view and counters. Called from runLoop every tick.
func (t *Tracker) Update(phase logic.Phase, charging, feedbackOn bool, remaining, limit time.Duration, counts Counts) {
	t.mu.Lock()
	t.snap.Phase = phase
	t.snap.Charging = charging
	t.snap.FeedbackOn = feedbackOn
	t.snap.RemainingMs = remaining.Milliseconds()
	t.snap.LimitMs = limit.Milliseconds()
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
