package logic

import "time"

// Waveform advances the two-phase coil cycle: OnDuration driven at the start
// of each Period, off for the remainder. Each phase transition writes the
// coil output exactly once; a poll that arrives late simply shortens the
// observed on phase or lengthens the off phase, which is accepted jitter,
// not an error.
type Waveform struct {
	coil       CoilOutput
	cycleStart time.Time
	active     bool
	running    bool
}

// NewWaveform creates a stopped waveform driving the given coil output.
func NewWaveform(coil CoilOutput) *Waveform {
	return &Waveform{coil: coil}
}

// Begin arms the cycle clock. The first on phase starts one full Period
// later; the coil is commanded off immediately.
func (w *Waveform) Begin(now time.Time) error {
	w.running = true
	w.active = false
	w.cycleStart = now
	return w.coil.Write(false)
}

// Update advances the cycle. No-op while not running.
func (w *Waveform) Update(now time.Time) error {
	if !w.running {
		return nil
	}

	elapsed := now.Sub(w.cycleStart)
	if w.active {
		if elapsed >= OnDuration {
			w.active = false
			return w.coil.Write(false)
		}
		return nil
	}
	if elapsed >= Period {
		// Start a new cycle.
		w.cycleStart = now
		w.active = true
		return w.coil.Write(true)
	}
	return nil
}

// ForceInactive is the safety override: it stops the waveform and commands
// the coil off unconditionally, regardless of the current phase. Callable at
// any time and never skipped.
func (w *Waveform) ForceInactive() error {
	w.running = false
	w.active = false
	return w.coil.Write(false)
}

// Active reports whether the coil is currently in the driven phase.
func (w *Waveform) Active() bool { return w.active }

// Running reports whether the waveform is armed.
func (w *Waveform) Running() bool { return w.running }
