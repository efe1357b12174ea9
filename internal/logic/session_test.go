package logic

import (
	"testing"
	"time"

	"github.com/sweeney/pemf-controller/internal/gpio"
)

func newTestSession() (*Session, *gpio.FakeOutput) {
	coil := gpio.NewFakeOutput()
	return NewSession(NewWaveform(coil)), coil
}

func TestStartResetsLimit(t *testing.T) {
	s, coil := newTestSession()

	if err := s.Start(base); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.Phase() != PhaseRunning {
		t.Errorf("phase = %s, want RUNNING", s.Phase())
	}
	if s.Limit() != DefaultSessionLimit {
		t.Errorf("limit = %v, want %v", s.Limit(), DefaultSessionLimit)
	}
	if coil.Last() != false {
		t.Error("coil driven at session start")
	}

	// Extensions don't survive a restart.
	s.ExtendTime()
	s.Stop()
	s.Start(at(1000))
	if s.Limit() != DefaultSessionLimit {
		t.Errorf("limit after restart = %v, want default", s.Limit())
	}
}

func TestExtendTimePolicy(t *testing.T) {
	s, _ := newTestSession()
	s.Start(base)

	// 15 min default + 6 * 5 min = 45 min cap.
	for i := 1; i <= 6; i++ {
		if !s.ExtendTime() {
			t.Fatalf("extension %d refused", i)
		}
		want := DefaultSessionLimit + time.Duration(i)*SessionExtension
		if s.Limit() != want {
			t.Fatalf("after %d extensions limit = %v, want %v", i, s.Limit(), want)
		}
	}
	if s.Limit() != MaxSessionLimit {
		t.Errorf("limit = %v, want max %v", s.Limit(), MaxSessionLimit)
	}

	// Seventh call is a no-op failure.
	if s.ExtendTime() {
		t.Error("extension beyond the cap reported success")
	}
	if s.Limit() != MaxSessionLimit {
		t.Errorf("limit changed by refused extension: %v", s.Limit())
	}
}

func TestExtendTimeRequiresRunningSession(t *testing.T) {
	s, _ := newTestSession()
	if s.ExtendTime() {
		t.Error("extension allowed with no session")
	}
	s.Start(base)
	s.Stop()
	if s.ExtendTime() {
		t.Error("extension allowed after stop")
	}
}

func TestTimeoutLockout(t *testing.T) {
	s, coil := newTestSession()
	s.Start(base)

	// One millisecond before the limit: still active.
	active, err := s.Update(at(899_999))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !active || !s.Active(at(899_999)) {
		t.Error("session inactive before the limit")
	}

	// One millisecond past the limit: terminal lockout.
	active, err = s.Update(at(900_001))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if active {
		t.Error("update reported active past the limit")
	}
	if s.Phase() != PhaseLocked {
		t.Errorf("phase = %s, want LOCKED", s.Phase())
	}
	if coil.Last() != false {
		t.Error("coil not commanded off at lockout")
	}
	if s.Active(at(900_002)) {
		t.Error("Active true after lockout")
	}

	// Lockout is terminal: Start does not resume.
	writes := len(coil.Writes)
	if err := s.Start(at(901_000)); err != nil {
		t.Fatalf("Start after lockout: %v", err)
	}
	if s.Phase() != PhaseLocked {
		t.Errorf("Start escaped the lockout, phase = %s", s.Phase())
	}
	if len(coil.Writes) != writes {
		t.Error("Start after lockout touched the coil")
	}
}

func TestStopIsResumable(t *testing.T) {
	s, coil := newTestSession()
	s.Start(base)
	s.Update(at(100)) // coil on

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if s.Phase() != PhaseIdle {
		t.Errorf("phase = %s, want IDLE", s.Phase())
	}
	if coil.Last() != false {
		t.Error("coil not commanded off by Stop")
	}

	if err := s.Start(at(5000)); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if s.Phase() != PhaseRunning {
		t.Errorf("phase after restart = %s, want RUNNING", s.Phase())
	}
}

func TestRemaining(t *testing.T) {
	s, _ := newTestSession()

	if s.Remaining(base) != 0 {
		t.Error("remaining nonzero with no session")
	}

	s.Start(base)
	if got := s.Remaining(at(5 * 60 * 1000)); got != 10*time.Minute {
		t.Errorf("remaining = %v, want 10m", got)
	}

	s.ExtendTime()
	if got := s.Remaining(at(5 * 60 * 1000)); got != 15*time.Minute {
		t.Errorf("remaining after extension = %v, want 15m", got)
	}

	s.Stop()
	if s.Remaining(at(6*60*1000)) != 0 {
		t.Error("remaining nonzero after stop")
	}
}

func TestUpdateDelegatesToWaveform(t *testing.T) {
	s, coil := newTestSession()
	s.Start(base)

	s.Update(at(100))
	if coil.Last() != true {
		t.Error("waveform not advanced by session update")
	}
	s.Update(at(102))
	if coil.Last() != false {
		t.Error("waveform on phase not ended by session update")
	}
}
