package gpio

import "errors"

// FakeInput is a test double that replays scripted logical samples.
type FakeInput struct {
	// Samples contains scripted logical values. Each Read consumes the
	// next sample; once exhausted, the last sample repeats.
	Samples []bool

	// index tracks the current position in Samples.
	index int

	// Closed tracks if Close was called.
	Closed bool

	// ReadError, if set, is returned by Read.
	ReadError error
}

// NewFakeInput creates a FakeInput with the given samples.
func NewFakeInput(samples ...bool) *FakeInput {
	return &FakeInput{Samples: samples}
}

// Read returns the next scripted sample.
func (f *FakeInput) Read() (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}
	if len(f.Samples) == 0 {
		return false, errors.New("no samples configured")
	}

	s := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return s, nil
}

// Close marks the input as closed.
func (f *FakeInput) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds to the beginning of the samples.
func (f *FakeInput) Reset() {
	f.index = 0
	f.Closed = false
}

// FakeOutput records every commanded level, with no coalescing, so tests can
// assert on duty cycle and on the exact write count per transition.
type FakeOutput struct {
	// Writes contains every level passed to Write, in order.
	Writes []bool

	// Closed tracks if Close was called.
	Closed bool

	// WriteError, if set, is returned by Write.
	WriteError error
}

// NewFakeOutput creates an empty FakeOutput.
func NewFakeOutput() *FakeOutput {
	return &FakeOutput{}
}

// Write records the commanded level.
func (f *FakeOutput) Write(on bool) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Writes = append(f.Writes, on)
	return nil
}

// Close marks the output as closed.
func (f *FakeOutput) Close() error {
	f.Closed = true
	return nil
}

// Last returns the most recently commanded level, false if nothing was
// written yet.
func (f *FakeOutput) Last() bool {
	if len(f.Writes) == 0 {
		return false
	}
	return f.Writes[len(f.Writes)-1]
}

// Reset clears recorded writes.
func (f *FakeOutput) Reset() {
	f.Writes = nil
	f.Closed = false
	f.WriteError = nil
}
