// Package pixel drives the single WS2812 addressable RGB pixel.
// The real implementation encodes the WS2812 wire protocol onto a Linux
// spidev device; the fake records operations for tests. Consumers depend on
// the ColorOutput capability declared in internal/logic, which every type
// here satisfies.
package pixel

// NullStrip discards all operations. Used when the deployment has no pixel
// wired (empty spi_device in the config).
type NullStrip struct{}

// SetColor discards the color.
func (NullStrip) SetColor(r, g, b uint8) {}

// Show does nothing.
func (NullStrip) Show() error { return nil }

// Clear does nothing.
func (NullStrip) Clear() {}

// Close does nothing.
func (NullStrip) Close() error { return nil }
