//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealInput is not available on non-Linux platforms.
type RealInput struct{}

// NewButtonInput returns an error on non-Linux platforms.
func NewButtonInput(pin int) (*RealInput, error) { return nil, errUnsupported }

// NewChargeInput returns an error on non-Linux platforms.
func NewChargeInput(pin int) (*RealInput, error) { return nil, errUnsupported }

// Read is not implemented on non-Linux platforms.
func (r *RealInput) Read() (bool, error) { return false, errUnsupported }

// Close is not implemented on non-Linux platforms.
func (r *RealInput) Close() error { return nil }

// RealOutput is not available on non-Linux platforms.
type RealOutput struct{}

// NewCoilOutput returns an error on non-Linux platforms.
func NewCoilOutput(pin int) (*RealOutput, error) { return nil, errUnsupported }

// Write is not implemented on non-Linux platforms.
func (r *RealOutput) Write(on bool) error { return errUnsupported }

// Close is not implemented on non-Linux platforms.
func (r *RealOutput) Close() error { return nil }
