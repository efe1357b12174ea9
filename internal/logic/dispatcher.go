package logic

import "time"

// Dispatcher applies the per-iteration priority ordering:
//
//  1. the charge interlock, which pre-empts everything else for the
//     iteration when the charger is present;
//  2. one gesture evaluation and its policy action;
//  3. the session/waveform advance (skipped once locked);
//  4. the feedback render.
//
// It owns no timing state of its own; the caller supplies fresh input
// samples and the clock every iteration.
type Dispatcher struct {
	Button   *GestureDetector
	Session  *Session
	Feedback *Feedback
}

// Input is one iteration's worth of freshly sampled inputs. Charging is
// never cached across iterations.
type Input struct {
	Charging  bool
	ButtonRaw bool
	Now       time.Time
}

// Result reports what the iteration did, for diagnostics only.
type Result struct {
	Gesture Gesture
	Events  []Event
	Errs    []error
}

// NewDispatcher wires the core components.
func NewDispatcher(button *GestureDetector, session *Session, feedback *Feedback) *Dispatcher {
	return &Dispatcher{Button: button, Session: session, Feedback: feedback}
}

// Step runs one iteration. Every failure path commands the coil off before
// returning; hardware write errors are collected for logging, never acted on.
func (d *Dispatcher) Step(in Input) Result {
	var res Result

	// Charge interlock: absolute priority. While charging, gestures are
	// not evaluated and the session cannot run.
	if in.Charging {
		if d.Session.Phase() == PhaseRunning {
			if err := d.Session.Stop(); err != nil {
				res.Errs = append(res.Errs, err)
			}
			d.Feedback.SetEnabled(false)
			res.Events = append(res.Events, EventChargeInterlock)
		}
		if err := d.Feedback.Render(true); err != nil {
			res.Errs = append(res.Errs, err)
		}
		return res
	}

	res.Gesture = d.Button.Evaluate(in.ButtonRaw, in.Now)
	switch res.Gesture {
	case GestureSinglePress:
		switch d.Session.Phase() {
		case PhaseIdle:
			if err := d.Session.Start(in.Now); err != nil {
				res.Errs = append(res.Errs, err)
			}
			d.Feedback.SetEnabled(true)
			res.Events = append(res.Events, EventSessionStart)
		case PhaseRunning:
			d.Feedback.ToggleEnabled()
			res.Events = append(res.Events, EventFeedbackToggle)
		}
		// PhaseLocked: ignored.
	case GestureDoublePress:
		if d.Session.ExtendTime() {
			res.Events = append(res.Events, EventSessionExtend)
		}
	case GestureLongHold:
		if d.Session.Phase() == PhaseRunning {
			if err := d.Session.Stop(); err != nil {
				res.Errs = append(res.Errs, err)
			}
			d.Feedback.SetEnabled(false)
			res.Events = append(res.Events, EventSessionStop)
		}
	}

	// Advance the session. Once locked the dispatcher stops calling
	// Update; the lockout is terminal until a process restart.
	if d.Session.Phase() == PhaseRunning {
		active, err := d.Session.Update(in.Now)
		if err != nil {
			res.Errs = append(res.Errs, err)
		}
		if !active && d.Session.Phase() == PhaseLocked {
			d.Feedback.SetEnabled(false)
			res.Events = append(res.Events, EventSessionLockout)
		}
	}

	if err := d.Feedback.Render(false); err != nil {
		res.Errs = append(res.Errs, err)
	}
	return res
}
