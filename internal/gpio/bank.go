package gpio

import "fmt"

// Bank groups up to 8 pins read or written together as a byte.
// Bit i corresponds to pins[i].
type Bank struct {
	io   DigitalIO
	pins []int
}

// NewBank configures every pin with dir and returns the bank.
func NewBank(io DigitalIO, pins []int, dir Direction) (*Bank, error) {
	if len(pins) > 8 {
		return nil, fmt.Errorf("bank of %d pins exceeds 8", len(pins))
	}
	for _, p := range pins {
		if err := io.Configure(p, dir); err != nil {
			return nil, fmt.Errorf("configure bank pin %d: %w", p, err)
		}
	}
	return &Bank{io: io, pins: append([]int(nil), pins...)}, nil
}

// Read returns the bank's levels, high pins as set bits.
func (b *Bank) Read() (uint8, error) {
	var v uint8
	for i, p := range b.pins {
		high, err := b.io.Read(p)
		if err != nil {
			return 0, err
		}
		if high {
			v |= 1 << i
		}
	}
	return v, nil
}

// Write drives each pin to its bit in v.
func (b *Bank) Write(v uint8) error {
	for i, p := range b.pins {
		if err := b.io.Write(p, v&(1<<i) != 0); err != nil {
			return err
		}
	}
	return nil
}
