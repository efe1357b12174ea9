package logic

import (
	"testing"

	"github.com/sweeney/pemf-controller/internal/pixel"
)

func TestHSVToRGBSectors(t *testing.T) {
	cases := []struct {
		name    string
		h, s, v float64
		r, g, b uint8
	}{
		{"red", 0, 0.35, 1.0, 255, 165, 165},
		{"sector1", 0.25, 0.35, 1.0, 210, 255, 165},
		{"cyan", 0.5, 0.35, 1.0, 165, 255, 255},
		{"sector4", 0.75, 0.35, 1.0, 210, 165, 255},
		{"full red", 0, 1.0, 1.0, 255, 0, 0},
		{"full green", 1.0 / 3.0, 1.0, 1.0, 0, 255, 0},
		{"full blue", 2.0 / 3.0, 1.0, 1.0, 0, 0, 255},
		{"black", 0, 0, 0, 0, 0, 0},
		{"white", 0, 0, 1.0, 255, 255, 255},
	}

	for _, c := range cases {
		r, g, b := hsvToRGB(c.h, c.s, c.v)
		if r != c.r || g != c.g || b != c.b {
			t.Errorf("%s: hsvToRGB(%v,%v,%v) = (%d,%d,%d), want (%d,%d,%d)",
				c.name, c.h, c.s, c.v, r, g, b, c.r, c.g, c.b)
		}
	}
}

func TestRenderDisabledIsDark(t *testing.T) {
	strip := pixel.NewFakeStrip()
	f := NewFeedback(strip)

	if f.Enabled() {
		t.Error("feedback enabled at construction")
	}
	if err := f.Render(false); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := strip.LastShown(); got != [3]uint8{0, 0, 0} {
		t.Errorf("disabled render pushed %v, want black", got)
	}

	// Disabled wins over the charging mode too.
	f.Render(true)
	if got := strip.LastShown(); got != [3]uint8{0, 0, 0} {
		t.Errorf("disabled charging render pushed %v, want black", got)
	}
}

func TestRenderChargingColor(t *testing.T) {
	strip := pixel.NewFakeStrip()
	f := NewFeedback(strip)
	f.SetEnabled(true)

	if err := f.Render(true); err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := [3]uint8{scale(chargeR), scale(chargeG), scale(chargeB)}
	if got := strip.LastShown(); got != want {
		t.Errorf("charging render = %v, want %v", got, want)
	}

	// Charging mode does not advance the hue.
	if f.hue != 0 {
		t.Errorf("hue advanced during charging render: %v", f.hue)
	}
}

func TestRenderPastelCycling(t *testing.T) {
	strip := pixel.NewFakeStrip()
	f := NewFeedback(strip)
	f.SetEnabled(true)

	if err := f.Render(false); err != nil {
		t.Fatalf("Render: %v", err)
	}
	r, g, b := hsvToRGB(hueStep, pastelSaturation, pastelValue)
	want := [3]uint8{scale(r), scale(g), scale(b)}
	if got := strip.LastShown(); got != want {
		t.Errorf("first pastel frame = %v, want %v", got, want)
	}

	f.Render(false)
	if f.hue != 2*hueStep {
		t.Errorf("hue = %v after two renders, want %v", f.hue, 2*hueStep)
	}
}

func TestHueWraps(t *testing.T) {
	strip := pixel.NewFakeStrip()
	f := NewFeedback(strip)
	f.SetEnabled(true)

	f.hue = 1 - hueStep/2
	f.Render(false)
	if f.hue >= 1 || f.hue < 0 {
		t.Errorf("hue did not wrap into [0,1): %v", f.hue)
	}
}

func TestToggleEnabled(t *testing.T) {
	f := NewFeedback(pixel.NewFakeStrip())

	if on := f.ToggleEnabled(); !on || !f.Enabled() {
		t.Error("first toggle should enable")
	}
	if on := f.ToggleEnabled(); on || f.Enabled() {
		t.Error("second toggle should disable")
	}
}

func TestTurnOffBlankingSequence(t *testing.T) {
	strip := pixel.NewFakeStrip()
	f := NewFeedback(strip)
	f.SetEnabled(true)
	f.Render(false)

	if err := f.TurnOff(); err != nil {
		t.Fatalf("TurnOff: %v", err)
	}
	if f.Enabled() {
		t.Error("TurnOff left feedback enabled")
	}
	if !strip.Closed {
		t.Error("TurnOff did not release the output line")
	}

	// Last three operations: clear, push, release.
	ops := strip.Ops
	if len(ops) < 3 {
		t.Fatalf("too few operations recorded: %v", ops)
	}
	tail := ops[len(ops)-3:]
	if tail[0] != "clear" || tail[1] != "show" || tail[2] != "close" {
		t.Errorf("blanking sequence = %v, want [clear show close]", tail)
	}
	if got := strip.LastShown(); got != [3]uint8{0, 0, 0} {
		t.Errorf("last committed frame = %v, want black", got)
	}
}

func TestTurnOffReleasesLineEvenOnShowError(t *testing.T) {
	strip := pixel.NewFakeStrip()
	strip.ShowError = errTest
	f := NewFeedback(strip)

	if err := f.TurnOff(); err == nil {
		t.Error("expected the show failure to be reported")
	}
	if !strip.Closed {
		t.Error("output line not released after failed blank")
	}
}
