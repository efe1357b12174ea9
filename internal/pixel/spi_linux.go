//go:build linux

package pixel

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// SPI configuration for WS2812 encoding: mode 0, 8-bit words, 2.4 MHz so
// that one SPI bit is ~417 ns.
const (
	spiMode        = 0
	spiBitsPerWord = 8
	spiSpeedHz     = 2400000
)

// Write-direction ioctl request numbers from <linux/spi/spidev.h>.
const (
	spiIOCWrMode        = 0x40016b01
	spiIOCWrBitsPerWord = 0x40016b03
	spiIOCWrMaxSpeedHz  = 0x40046b04
)

// SPIStrip drives a single WS2812 pixel through a spidev device, typically
// /dev/spidev0.0 with the pixel's data-in on the MOSI pin.
type SPIStrip struct {
	f       *os.File
	r, g, b uint8
}

// NewSPIStrip opens and configures the spidev device, then pushes a blank
// frame so the pixel starts from a known-dark state.
func NewSPIStrip(device string) (*SPIStrip, error) {
	f, err := os.OpenFile(device, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open spi device: %w", err)
	}

	s := &SPIStrip{f: f}
	if err := s.configure(); err != nil {
		f.Close()
		return nil, err
	}

	s.Clear()
	if err := s.Show(); err != nil {
		f.Close()
		return nil, fmt.Errorf("blank pixel: %w", err)
	}
	return s, nil
}

func (s *SPIStrip) configure() error {
	fd := int(s.f.Fd())

	mode := uint8(spiMode)
	if err := ioctlPtr(fd, spiIOCWrMode, unsafe.Pointer(&mode)); err != nil {
		return fmt.Errorf("set spi mode: %w", err)
	}
	bits := uint8(spiBitsPerWord)
	if err := ioctlPtr(fd, spiIOCWrBitsPerWord, unsafe.Pointer(&bits)); err != nil {
		return fmt.Errorf("set spi word size: %w", err)
	}
	speed := uint32(spiSpeedHz)
	if err := ioctlPtr(fd, spiIOCWrMaxSpeedHz, unsafe.Pointer(&speed)); err != nil {
		return fmt.Errorf("set spi speed: %w", err)
	}
	return nil
}

// SetColor stores the color for the next Show.
func (s *SPIStrip) SetColor(r, g, b uint8) {
	s.r, s.g, s.b = r, g, b
}

// Show pushes the stored color to the pixel.
func (s *SPIStrip) Show() error {
	if _, err := s.f.Write(encodeFrame(s.r, s.g, s.b)); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Clear stores black. It does not push; call Show to commit.
func (s *SPIStrip) Clear() {
	s.r, s.g, s.b = 0, 0, 0
}

// Close pushes a blank frame and releases the device, leaving the line idle
// low so external tooling can re-drive it.
func (s *SPIStrip) Close() error {
	s.Clear()
	if err := s.Show(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

func ioctlPtr(fd int, req uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
