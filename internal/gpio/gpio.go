// Package gpio provides digital input/output with hardware abstraction.
// The real implementations use the Linux GPIO character device.
// The fakes allow testing without hardware.
package gpio

// Input reads one logical digital input. Polarity is resolved inside the
// implementation: the button is active-low (internal pull-up, pressed pulls
// the line to ground), the charge sense is active-high (pull-down, the
// divider pulls it high when the charger is present).
type Input interface {
	// Read returns the logical state.
	Read() (bool, error)

	// Close releases the line.
	Close() error
}

// Output drives one digital output. Write(false) is the safe state; real
// implementations request the line low and drive it low again on Close, with
// no transient high permitted during configuration.
type Output interface {
	Write(on bool) error
	Close() error
}

// Default pin assignments (BCM numbering, from the device schematic).
const (
	DefaultPinCoil   = 15 // MOSFET gate driving the coil
	DefaultPinCharge = 14 // charger presence via voltage divider, active high
	DefaultPinButton = 26 // momentary button to ground, active low
)
