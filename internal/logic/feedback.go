package logic

import "time"

// Feedback rendering constants.
const (
	// hueStep is the hue advance per render call.
	hueStep = 0.002

	// Pastel palette: low saturation, full value.
	pastelSaturation = 0.35
	pastelValue      = 1.0

	// brightnessScale maps full-scale channel values down to roughly 12%
	// drive, matching the original firmware's pixel brightness.
	brightnessScale = 30.0 / 255.0

	// Charge color (pre-scale): amber.
	chargeR = 255
	chargeG = 80
	chargeB = 0

	// blankSettle is how long the commanded-to-zero frame is given to
	// latch before the output line is released in TurnOff.
	blankSettle = 2 * time.Millisecond
)

// Feedback renders device state on the addressable pixel. Each Render call
// picks exactly one of two modes: the fixed charge color while charging, or
// a slowly cycling pastel hue otherwise. The enabled gate suppresses all
// non-zero output regardless of mode.
type Feedback struct {
	strip   ColorOutput
	hue     float64
	enabled bool
}

// NewFeedback creates a disabled feedback controller. The device boots with
// the pixel dark; a session start enables it.
func NewFeedback(strip ColorOutput) *Feedback {
	return &Feedback{strip: strip}
}

// Render pushes one frame. The hue offset advances by a fixed step per call
// and wraps into [0, 1).
func (f *Feedback) Render(charging bool) error {
	if !f.enabled {
		f.strip.SetColor(0, 0, 0)
		return f.strip.Show()
	}

	if charging {
		f.strip.SetColor(scale(chargeR), scale(chargeG), scale(chargeB))
		return f.strip.Show()
	}

	f.hue += hueStep
	if f.hue >= 1 {
		f.hue -= 1
	}
	r, g, b := hsvToRGB(f.hue, pastelSaturation, pastelValue)
	f.strip.SetColor(scale(r), scale(g), scale(b))
	return f.strip.Show()
}

// SetEnabled gates whether any non-zero color is pushed.
func (f *Feedback) SetEnabled(on bool) { f.enabled = on }

// ToggleEnabled flips the enabled gate and returns the new state.
func (f *Feedback) ToggleEnabled() bool {
	f.enabled = !f.enabled
	return f.enabled
}

// Enabled reports the enabled gate.
func (f *Feedback) Enabled() bool { return f.enabled }

// TurnOff performs the hardware blanking hand-off: clear, push, settle, then
// release the output line. After it returns, the pixel is provably unpowered
// rather than merely commanded-to-zero, so external reflashing tooling can
// safely re-drive the same line. Teardown only — it blocks for the settle
// time.
func (f *Feedback) TurnOff() error {
	f.enabled = false
	f.strip.Clear()
	if err := f.strip.Show(); err != nil {
		// Still release the line below; the clear was best-effort.
		f.strip.Close()
		return err
	}
	time.Sleep(blankSettle)
	return f.strip.Close()
}

// hsvToRGB is the canonical six-sector HSV to RGB transform, reproduced
// exactly for color compatibility with the original firmware.
func hsvToRGB(h, s, v float64) (uint8, uint8, uint8) {
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return uint8(r * 255), uint8(g * 255), uint8(b * 255)
}

// scale applies the global brightness factor to one channel.
func scale(c uint8) uint8 {
	return uint8(float64(c) * brightnessScale)
}
