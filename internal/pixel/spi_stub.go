//go:build !linux

package pixel

import "errors"

// SPIStrip is not available on non-Linux platforms.
type SPIStrip struct{}

// NewSPIStrip returns an error on non-Linux platforms.
func NewSPIStrip(device string) (*SPIStrip, error) {
	return nil, errors.New("pixel: spidev not supported on this platform (requires Linux)")
}

// SetColor is not implemented on non-Linux platforms.
func (s *SPIStrip) SetColor(r, g, b uint8) {}

// Show is not implemented on non-Linux platforms.
func (s *SPIStrip) Show() error { return errors.New("pixel: not supported") }

// Clear is not implemented on non-Linux platforms.
func (s *SPIStrip) Clear() {}

// Close is not implemented on non-Linux platforms.
func (s *SPIStrip) Close() error { return nil }
