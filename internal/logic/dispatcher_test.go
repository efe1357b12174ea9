package logic

import (
	"testing"

	"github.com/sweeney/pemf-controller/internal/gpio"
	"github.com/sweeney/pemf-controller/internal/pixel"
)

func newTestDispatcher() (*Dispatcher, *gpio.FakeOutput, *pixel.FakeStrip) {
	coil := gpio.NewFakeOutput()
	strip := pixel.NewFakeStrip()
	d := NewDispatcher(NewGestureDetector(base), NewSession(NewWaveform(coil)), NewFeedback(strip))
	return d, coil, strip
}

func stepAt(d *Dispatcher, raw bool, ms int) Result {
	return d.Step(Input{ButtonRaw: raw, Now: at(ms)})
}

// singlePress walks one debounced press-and-release through the loop and
// returns the result of the iteration at the double-press window expiry.
func singlePress(d *Dispatcher, startMs int) Result {
	stepAt(d, true, startMs)
	stepAt(d, true, startMs+50)
	stepAt(d, false, startMs+150)
	stepAt(d, false, startMs+200)
	return stepAt(d, false, startMs+600)
}

func hasEvent(res Result, e Event) bool {
	for _, got := range res.Events {
		if got == e {
			return true
		}
	}
	return false
}

func TestSinglePressStartsIdleSession(t *testing.T) {
	d, coil, _ := newTestDispatcher()

	res := singlePress(d, 0)
	if res.Gesture != GestureSinglePress {
		t.Fatalf("gesture = %s, want SINGLE_PRESS", res.Gesture)
	}
	if !hasEvent(res, EventSessionStart) {
		t.Errorf("no session start event, got %v", res.Events)
	}
	if d.Session.Phase() != PhaseRunning {
		t.Errorf("phase = %s, want RUNNING", d.Session.Phase())
	}
	if !d.Feedback.Enabled() {
		t.Error("session start did not enable feedback")
	}
	if coil.Last() != false {
		t.Error("coil driven at session start")
	}
}

func TestSinglePressWhileRunningTogglesFeedback(t *testing.T) {
	d, _, strip := newTestDispatcher()
	singlePress(d, 0)

	res := singlePress(d, 1000)
	if !hasEvent(res, EventFeedbackToggle) {
		t.Errorf("no feedback toggle event, got %v", res.Events)
	}
	if hasEvent(res, EventSessionStart) {
		t.Error("second press restarted the session")
	}
	if d.Session.Phase() != PhaseRunning {
		t.Errorf("phase = %s, want RUNNING", d.Session.Phase())
	}
	if d.Feedback.Enabled() {
		t.Error("toggle did not disable feedback")
	}
	if got := strip.LastShown(); got != [3]uint8{0, 0, 0} {
		t.Errorf("disabled feedback rendered %v, want black", got)
	}
}

func TestDoublePressExtendsRunningSession(t *testing.T) {
	d, _, _ := newTestDispatcher()
	singlePress(d, 0)

	stepAt(d, true, 1000)
	stepAt(d, true, 1050)
	stepAt(d, false, 1150)
	stepAt(d, false, 1200)
	stepAt(d, true, 1250)
	stepAt(d, true, 1300)
	stepAt(d, false, 1400)
	res := stepAt(d, false, 1450)

	if res.Gesture != GestureDoublePress {
		t.Fatalf("gesture = %s, want DOUBLE_PRESS", res.Gesture)
	}
	if !hasEvent(res, EventSessionExtend) {
		t.Errorf("no extend event, got %v", res.Events)
	}
	if want := DefaultSessionLimit + SessionExtension; d.Session.Limit() != want {
		t.Errorf("limit = %v, want %v", d.Session.Limit(), want)
	}
}

func TestLongHoldStopsSession(t *testing.T) {
	d, coil, _ := newTestDispatcher()
	singlePress(d, 0)

	stepAt(d, true, 1000)
	stepAt(d, true, 1050)
	res := stepAt(d, true, 4000)

	if res.Gesture != GestureLongHold {
		t.Fatalf("gesture = %s, want LONG_HOLD", res.Gesture)
	}
	if !hasEvent(res, EventSessionStop) {
		t.Errorf("no stop event, got %v", res.Events)
	}
	if d.Session.Phase() != PhaseIdle {
		t.Errorf("phase = %s, want IDLE", d.Session.Phase())
	}
	if coil.Last() != false {
		t.Error("coil not commanded off by stop")
	}
	if d.Feedback.Enabled() {
		t.Error("stop did not disable feedback")
	}
}

func TestChargeInterlockForcesCoilOffSameIteration(t *testing.T) {
	d, coil, _ := newTestDispatcher()
	singlePress(d, 0) // session starts at t=600ms

	// Advance into the waveform's on phase.
	stepAt(d, false, 700)
	if coil.Last() != true {
		t.Fatal("setup: coil should be in the on phase")
	}

	res := d.Step(Input{Charging: true, Now: at(705)})
	if coil.Last() != false {
		t.Error("coil still energized after the interlock iteration")
	}
	if !hasEvent(res, EventChargeInterlock) {
		t.Errorf("no interlock event, got %v", res.Events)
	}
	if d.Session.Phase() != PhaseIdle {
		t.Errorf("phase = %s, want IDLE (resumable stop)", d.Session.Phase())
	}
	if d.Feedback.Enabled() {
		t.Error("interlock did not disable feedback")
	}

	// While charging, gestures are not evaluated at all.
	res = d.Step(Input{Charging: true, ButtonRaw: true, Now: at(800)})
	if res.Gesture != GestureNone || len(res.Events) != 0 {
		t.Errorf("charging iteration produced gesture=%s events=%v", res.Gesture, res.Events)
	}

	// Unplugging alone does not resume; the half-seen press doesn't leak.
	res = d.Step(Input{Now: at(1300)})
	if len(res.Events) != 0 {
		t.Errorf("unplug produced events %v", res.Events)
	}
	if d.Session.Phase() != PhaseIdle {
		t.Errorf("phase after unplug = %s, want IDLE", d.Session.Phase())
	}
}

func TestTimeoutLockoutThroughDispatcher(t *testing.T) {
	d, coil, _ := newTestDispatcher()
	singlePress(d, 0) // session starts at t=600ms

	res := stepAt(d, false, 600+899_999)
	if hasEvent(res, EventSessionLockout) {
		t.Fatal("lockout fired before the limit")
	}

	res = stepAt(d, false, 600+900_001)
	if !hasEvent(res, EventSessionLockout) {
		t.Fatalf("no lockout event, got %v", res.Events)
	}
	if d.Session.Phase() != PhaseLocked {
		t.Errorf("phase = %s, want LOCKED", d.Session.Phase())
	}
	if coil.Last() != false {
		t.Error("coil not commanded off at lockout")
	}
	if d.Feedback.Enabled() {
		t.Error("lockout did not disable feedback")
	}

	// Locked is terminal: presses are ignored and the coil is never touched.
	writes := len(coil.Writes)
	res = singlePress(d, 602_000+900_000)
	if res.Gesture != GestureSinglePress {
		t.Fatalf("gesture = %s, want SINGLE_PRESS", res.Gesture)
	}
	if len(res.Events) != 0 {
		t.Errorf("press after lockout produced events %v", res.Events)
	}
	if d.Session.Phase() != PhaseLocked {
		t.Errorf("phase = %s, want LOCKED", d.Session.Phase())
	}
	if len(coil.Writes) != writes {
		t.Error("locked dispatcher wrote to the coil")
	}
}

func TestStepRendersExactlyOneFramePerIteration(t *testing.T) {
	d, _, strip := newTestDispatcher()

	d.Step(Input{Now: at(0)})
	d.Step(Input{Charging: true, Now: at(1)})
	d.Step(Input{Now: at(2)})
	if len(strip.Shown) != 3 {
		t.Errorf("%d frames committed over 3 iterations, want 3", len(strip.Shown))
	}
}
