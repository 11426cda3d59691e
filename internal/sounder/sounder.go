// Package sounder drives the internal PWM buzzer and the external sounder.
package sounder

import (
	"fmt"

	"github.com/sweeney/alarm-controller/internal/gpio"
)

// Buzzer is the internal PWM sounder.
type Buzzer interface {
	// Enable starts the tone.
	Enable() error

	// Disable stops the tone.
	Disable() error

	// Close silences the buzzer and releases it.
	Close() error
}

// Siren drives the external sounder from a digital output.
type Siren struct {
	io  gpio.DigitalIO
	pin int
}

// NewSiren configures pin as an output, initially off.
func NewSiren(io gpio.DigitalIO, pin int) (*Siren, error) {
	if err := io.Configure(pin, gpio.Output); err != nil {
		return nil, fmt.Errorf("configure sounder pin %d: %w", pin, err)
	}
	if err := io.Write(pin, false); err != nil {
		return nil, fmt.Errorf("silence sounder pin %d: %w", pin, err)
	}
	return &Siren{io: io, pin: pin}, nil
}

// Set turns the external sounder on or off.
func (s *Siren) Set(on bool) error {
	if err := s.io.Write(s.pin, on); err != nil {
		return fmt.Errorf("external sounder: %w", err)
	}
	return nil
}
