package logic

import "time"

// GestureDetector classifies raw button samples into gestures: single press,
// double press, long hold. It is a pure function of its cumulative state and
// the current raw reading; call Evaluate once per poll iteration.
type GestureDetector struct {
	lastRaw       bool
	debounced     bool
	lastDebounced bool
	lastEdge      time.Time // last raw transition, debounce timer origin
	pressStart    time.Time
	lastRelease   time.Time
	pressCount    int
	longHoldFired bool
	waitingSecond bool
}

// NewGestureDetector creates a detector. The button is assumed released at
// startup; a held button is picked up on the first Evaluate as a raw edge.
func NewGestureDetector(now time.Time) *GestureDetector {
	return &GestureDetector{lastEdge: now}
}

// Evaluate consumes one raw sample and returns at most one gesture.
// Precedence when several conditions coincide in a single call: long hold,
// then edge-triggered emission, then double-press window expiry.
func (d *GestureDetector) Evaluate(raw bool, now time.Time) Gesture {
	changed := d.debounce(raw, now)
	g := GestureNone

	// Press edge. pressStart was already captured at the raw edge in
	// debounce(), so long-hold timing measures physical contact.
	if changed && d.debounced && !d.lastDebounced {
		d.pressCount++
	}

	// Release edge.
	if changed && !d.debounced && d.lastDebounced {
		held := now.Sub(d.pressStart)
		if !d.longHoldFired && held < LongHoldThreshold {
			d.lastRelease = now
			if d.pressCount >= 2 {
				g = GestureDoublePress
				d.pressCount = 0
				d.waitingSecond = false
			} else {
				d.waitingSecond = true
			}
		} else {
			// Release after a long hold is a no-op.
			d.pressCount = 0
			d.waitingSecond = false
		}
	}

	// Long hold while still pressed. Pre-empts any pending single/double
	// disambiguation.
	if d.debounced && !d.longHoldFired && now.Sub(d.pressStart) >= LongHoldThreshold {
		d.longHoldFired = true
		d.pressCount = 0
		d.waitingSecond = false
		g = GestureLongHold
	}

	// Double-press window expired with no second press: the first press
	// resolves to a single press, at the window mark and not earlier.
	if g == GestureNone && d.waitingSecond && !d.debounced {
		if now.Sub(d.lastRelease) >= DoublePressWindow {
			d.waitingSecond = false
			d.pressCount = 0
			g = GestureSinglePress
		}
	}

	d.lastDebounced = d.debounced
	return g
}

// Pressed reports the current debounced state. No side effects.
func (d *GestureDetector) Pressed() bool {
	return d.debounced
}

// debounce folds one raw sample into the debounced state and reports whether
// the debounced state changed. Any raw transition restarts the stability
// window; the press start timestamp is captured at the first raw press edge,
// before debouncing.
func (d *GestureDetector) debounce(raw bool, now time.Time) bool {
	if raw != d.lastRaw {
		d.lastEdge = now
		if raw && !d.debounced {
			d.pressStart = now
			d.longHoldFired = false
		}
		d.lastRaw = raw
	}

	if now.Sub(d.lastEdge) >= DebounceWindow && raw != d.debounced {
		d.lastDebounced = d.debounced
		d.debounced = raw
		return true
	}
	return false
}
