//go:build linux

package sounder

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// PWMBuzzer drives a piezo buzzer with a 50% duty PWM signal.
type PWMBuzzer struct {
	pin  gpio.PinIO
	freq physic.Frequency
}

// NewPWMBuzzer initialises the host drivers and claims the named pin
// (e.g. "GPIO18"), leaving it low.
func NewPWMBuzzer(name string, freq physic.Frequency) (*PWMBuzzer, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("buzzer pin %q not found", name)
	}
	if err := p.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("buzzer pin %s: %w", name, err)
	}
	return &PWMBuzzer{pin: p, freq: freq}, nil
}

// Enable starts the tone.
func (b *PWMBuzzer) Enable() error {
	if err := b.pin.PWM(gpio.DutyHalf, b.freq); err != nil {
		return fmt.Errorf("buzzer pwm: %w", err)
	}
	return nil
}

// Disable stops the tone and holds the pin low.
func (b *PWMBuzzer) Disable() error {
	if err := b.pin.Out(gpio.Low); err != nil {
		return fmt.Errorf("buzzer off: %w", err)
	}
	return nil
}

// Close stops the tone and halts the pin.
func (b *PWMBuzzer) Close() error {
	var errs []error
	if err := b.pin.Halt(); err != nil {
		errs = append(errs, fmt.Errorf("halt buzzer: %w", err))
	}
	if err := b.Disable(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
