// Package gpio provides digital pin access with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Direction is the configured mode of a pin.
type Direction int

const (
	Input Direction = iota
	InputPullUp
	InputPullDown
	Output
)

func (d Direction) String() string {
	switch d {
	case Input:
		return "input"
	case InputPullUp:
		return "input-pull-up"
	case InputPullDown:
		return "input-pull-down"
	case Output:
		return "output"
	}
	return "unknown"
}

// DigitalIO reads, writes and configures individual pins.
type DigitalIO interface {
	// Read returns true if the pin is high.
	Read(pin int) (bool, error)

	// Write drives an output pin high (true) or low (false).
	Write(pin int, high bool) error

	// Configure sets the pin direction. Outputs start low.
	Configure(pin int, dir Direction) error

	// Close releases GPIO resources.
	Close() error
}

// Pins assigns the panel's signals to GPIO lines (BCM numbering).
type Pins struct {
	Rows       [4]int // keypad rows, active low
	Cols       [3]int // keypad columns, driven low one at a time
	Switches   [3]int // sensor switches, active high
	LEDs       [8]int // indicator bank, bit 0 first
	ExtSounder int
}

// DefaultPins returns the wiring of the reference panel.
func DefaultPins() Pins {
	return Pins{
		Rows:       [4]int{5, 6, 13, 19},
		Cols:       [3]int{12, 16, 20},
		Switches:   [3]int{17, 27, 22},
		LEDs:       [8]int{2, 3, 4, 14, 15, 23, 24, 25},
		ExtSounder: 21,
	}
}
