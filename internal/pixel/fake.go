package pixel

import "errors"

// FakeStrip records pixel operations for test assertions.
type FakeStrip struct {
	// R, G, B hold the most recently set color.
	R, G, B uint8

	// Shown contains the color at each Show call, in order.
	Shown [][3]uint8

	// Ops records the operation sequence: "set", "show", "clear", "close".
	Ops []string

	// Closed tracks if Close was called.
	Closed bool

	// ShowError, if set, is returned by Show.
	ShowError error
}

// NewFakeStrip creates an empty FakeStrip.
func NewFakeStrip() *FakeStrip {
	return &FakeStrip{}
}

// SetColor records the color.
func (f *FakeStrip) SetColor(r, g, b uint8) {
	f.R, f.G, f.B = r, g, b
	f.Ops = append(f.Ops, "set")
}

// Show records the committed color.
func (f *FakeStrip) Show() error {
	if f.ShowError != nil {
		return f.ShowError
	}
	f.Ops = append(f.Ops, "show")
	f.Shown = append(f.Shown, [3]uint8{f.R, f.G, f.B})
	return nil
}

// Clear records a clear and zeroes the color.
func (f *FakeStrip) Clear() {
	f.R, f.G, f.B = 0, 0, 0
	f.Ops = append(f.Ops, "clear")
}

// Close marks the strip as closed.
func (f *FakeStrip) Close() error {
	if f.Closed {
		return errors.New("already closed")
	}
	f.Closed = true
	f.Ops = append(f.Ops, "close")
	return nil
}

// LastShown returns the most recently committed color, black if none.
func (f *FakeStrip) LastShown() [3]uint8 {
	if len(f.Shown) == 0 {
		return [3]uint8{}
	}
	return f.Shown[len(f.Shown)-1]
}

// Reset clears all recorded state.
func (f *FakeStrip) Reset() {
	*f = FakeStrip{}
}
