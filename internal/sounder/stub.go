//go:build !linux

package sounder

import (
	"errors"

	"periph.io/x/conn/v3/physic"
)

// PWMBuzzer is not available on non-Linux platforms.
type PWMBuzzer struct{}

// NewPWMBuzzer returns an error on non-Linux platforms.
func NewPWMBuzzer(name string, freq physic.Frequency) (*PWMBuzzer, error) {
	return nil, errors.New("sounder: pwm not supported on this platform (requires Linux)")
}

// Enable is not implemented on non-Linux platforms.
func (b *PWMBuzzer) Enable() error {
	return errors.New("sounder: not supported")
}

// Disable is not implemented on non-Linux platforms.
func (b *PWMBuzzer) Disable() error {
	return errors.New("sounder: not supported")
}

// Close is not implemented on non-Linux platforms.
func (b *PWMBuzzer) Close() error {
	return nil
}
