// Package logic contains pure control logic for the pEMF therapy device.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep
// inside the iteration path). Time is always injectable via time.Time
// parameters, and hardware is reached only through the small capability
// interfaces below.
package logic

import "time"

// Button timing constants. These are safety-relevant and fixed at compile
// time, matching the device firmware.
const (
	// DebounceWindow is how long the raw button signal must be stable
	// before the debounced state is allowed to change.
	DebounceWindow = 50 * time.Millisecond

	// LongHoldThreshold is the physical contact duration that turns a
	// press into a long hold.
	LongHoldThreshold = 3000 * time.Millisecond

	// DoublePressWindow is how long after a release a second press is
	// still counted as a double press.
	DoublePressWindow = 400 * time.Millisecond
)

// Waveform constants: 10 Hz pulse train at 2% duty.
const (
	// Period is the length of one coil cycle.
	Period = 100 * time.Millisecond

	// OnDuration is how long the coil is driven at the start of each cycle.
	OnDuration = 2 * time.Millisecond
)

// Session duration policy.
const (
	// DefaultSessionLimit is the duration every new session starts with.
	DefaultSessionLimit = 15 * time.Minute

	// MaxSessionLimit is the hard cap no number of extensions can exceed.
	MaxSessionLimit = 45 * time.Minute

	// SessionExtension is the increment added by a successful ExtendTime.
	SessionExtension = 5 * time.Minute
)

// Gesture is a classified button interaction.
type Gesture string

const (
	GestureNone        Gesture = ""
	GestureSinglePress Gesture = "SINGLE_PRESS"
	GestureDoublePress Gesture = "DOUBLE_PRESS"
	GestureLongHold    Gesture = "LONG_HOLD"
)

// Phase is the session lifecycle state. PhaseLocked is terminal: the only
// way out is a process restart.
type Phase string

const (
	PhaseIdle    Phase = "IDLE"
	PhaseRunning Phase = "RUNNING"
	PhaseLocked  Phase = "LOCKED"
)

// CoilOutput commands the coil drive line. Implementations must treat
// Write(false) as the safe state.
type CoilOutput interface {
	Write(on bool) error
}

// ColorOutput is a single addressable RGB pixel. Show commits the most
// recent color; Close releases the output line so external tooling can
// re-drive it.
type ColorOutput interface {
	SetColor(r, g, b uint8)
	Show() error
	Clear()
	Close() error
}

// Event is a session-level occurrence reported by the dispatcher for
// diagnostics. Events never influence control flow.
type Event string

const (
	EventSessionStart    Event = "SESSION_START"
	EventSessionStop     Event = "SESSION_STOP"
	EventSessionExtend   Event = "SESSION_EXTEND"
	EventSessionLockout  Event = "SESSION_LOCKOUT"
	EventChargeInterlock Event = "CHARGE_INTERLOCK"
	EventFeedbackToggle  Event = "FEEDBACK_TOGGLE"
)
