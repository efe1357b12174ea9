package logic

import "time"

// Session owns the therapy session lifetime and enforces the duration
// policy: every session starts at DefaultSessionLimit, may be extended in
// SessionExtension steps up to MaxSessionLimit, and is terminated into the
// PhaseLocked terminal state when the limit is exceeded.
//
// The two stop paths are deliberately different: a timeout is a hard,
// non-resumable lockout (fail-safe against runaway sessions); Stop is a
// user-initiated graceful stop after which Start works again. Both force the
// coil to the safe state before returning.
type Session struct {
	waveform *Waveform
	phase    Phase
	start    time.Time
	limit    time.Duration
}

// NewSession creates an idle session controller.
func NewSession(w *Waveform) *Session {
	return &Session{
		waveform: w,
		phase:    PhaseIdle,
		limit:    DefaultSessionLimit,
	}
}

// Start begins a new session: the limit resets to the default and the
// waveform is armed. Defensive no-op once locked; only a process restart
// clears a lockout.
func (s *Session) Start(now time.Time) error {
	if s.phase == PhaseLocked {
		return nil
	}
	s.limit = DefaultSessionLimit
	s.start = now
	s.phase = PhaseRunning
	return s.waveform.Begin(now)
}

// Update advances the session. While within the limit it delegates to the
// waveform; once elapsed time exceeds the limit it forces the coil off and
// enters PhaseLocked. Returns whether the session is still active.
func (s *Session) Update(now time.Time) (bool, error) {
	if s.phase != PhaseRunning {
		return false, nil
	}
	if now.Sub(s.start) > s.limit {
		s.phase = PhaseLocked
		return false, s.waveform.ForceInactive()
	}
	return true, s.waveform.Update(now)
}

// Stop ends the session gracefully. The coil is forced off; a later Start
// is allowed.
func (s *Session) Stop() error {
	if s.phase != PhaseRunning {
		return nil
	}
	s.phase = PhaseIdle
	return s.waveform.ForceInactive()
}

// ExtendTime adds SessionExtension to the current limit, capped at
// MaxSessionLimit. Reports false, without changing the limit, when there is
// no running session or the cap is already reached.
func (s *Session) ExtendTime() bool {
	if s.phase != PhaseRunning {
		return false
	}
	if s.limit >= MaxSessionLimit {
		return false
	}
	next := s.limit + SessionExtension
	if next > MaxSessionLimit {
		next = MaxSessionLimit
	}
	s.limit = next
	return true
}

// Active reports whether a session is running and within its limit.
// Pure read; it never mutates phase even when the limit has been exceeded —
// the transition to PhaseLocked happens in Update.
func (s *Session) Active(now time.Time) bool {
	if s.phase != PhaseRunning {
		return false
	}
	return now.Sub(s.start) <= s.limit
}

// Remaining returns the time left in the session, zero when not running.
func (s *Session) Remaining(now time.Time) time.Duration {
	if s.phase != PhaseRunning {
		return 0
	}
	elapsed := now.Sub(s.start)
	if elapsed >= s.limit {
		return 0
	}
	return s.limit - elapsed
}

// Limit returns the current session duration limit.
func (s *Session) Limit() time.Duration { return s.limit }

// Phase returns the session lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }
