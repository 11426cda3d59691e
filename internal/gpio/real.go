//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealIO accesses GPIO lines on actual hardware using Linux GPIO character device.
// Lines are requested on first use.
type RealIO struct {
	chip  *gpiocdev.Chip
	lines map[int]*gpiocdev.Line
}

// NewRealIO opens the named GPIO chip (e.g. "gpiochip0").
func NewRealIO(chipName string) (*RealIO, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	return &RealIO{
		chip:  chip,
		lines: make(map[int]*gpiocdev.Line),
	}, nil
}

func lineOptions(dir Direction) []gpiocdev.LineReqOption {
	switch dir {
	case InputPullUp:
		return []gpiocdev.LineReqOption{gpiocdev.AsInput, gpiocdev.WithPullUp}
	case InputPullDown:
		return []gpiocdev.LineReqOption{gpiocdev.AsInput, gpiocdev.WithPullDown}
	case Output:
		return []gpiocdev.LineReqOption{gpiocdev.AsOutput(0)}
	}
	return []gpiocdev.LineReqOption{gpiocdev.AsInput}
}

func configOptions(dir Direction) []gpiocdev.LineConfigOption {
	switch dir {
	case InputPullUp:
		return []gpiocdev.LineConfigOption{gpiocdev.AsInput, gpiocdev.WithPullUp}
	case InputPullDown:
		return []gpiocdev.LineConfigOption{gpiocdev.AsInput, gpiocdev.WithPullDown}
	case Output:
		return []gpiocdev.LineConfigOption{gpiocdev.AsOutput(0)}
	}
	return []gpiocdev.LineConfigOption{gpiocdev.AsInput}
}

// Configure requests the line if needed and sets its direction.
func (r *RealIO) Configure(pin int, dir Direction) error {
	if l, ok := r.lines[pin]; ok {
		if err := l.Reconfigure(configOptions(dir)...); err != nil {
			return fmt.Errorf("reconfigure pin %d as %s: %w", pin, dir, err)
		}
		return nil
	}
	l, err := r.chip.RequestLine(pin, lineOptions(dir)...)
	if err != nil {
		return fmt.Errorf("request pin %d as %s: %w", pin, dir, err)
	}
	r.lines[pin] = l
	return nil
}

func (r *RealIO) line(pin int) (*gpiocdev.Line, error) {
	l, ok := r.lines[pin]
	if !ok {
		return nil, fmt.Errorf("pin %d not configured", pin)
	}
	return l, nil
}

// Read returns true if the pin is high.
func (r *RealIO) Read(pin int) (bool, error) {
	l, err := r.line(pin)
	if err != nil {
		return false, err
	}
	v, err := l.Value()
	if err != nil {
		return false, fmt.Errorf("read pin %d: %w", pin, err)
	}
	return v == 1, nil
}

// Write drives an output pin.
func (r *RealIO) Write(pin int, high bool) error {
	l, err := r.line(pin)
	if err != nil {
		return err
	}
	v := 0
	if high {
		v = 1
	}
	if err := l.SetValue(v); err != nil {
		return fmt.Errorf("write pin %d: %w", pin, err)
	}
	return nil
}

// Close releases GPIO resources.
// Reconfigures every line to input with pull-down (matching Pi boot defaults)
// before closing so sounders and LEDs are not left driven.
func (r *RealIO) Close() error {
	var errs []error

	for pin, l := range r.lines {
		if err := l.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin %d: %w", pin, err))
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin %d: %w", pin, err))
		}
	}
	r.lines = map[int]*gpiocdev.Line{}

	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
