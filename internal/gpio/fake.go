package gpio

import "fmt"

// FakeIO is a test double that records configuration and writes and
// returns scripted input levels.
type FakeIO struct {
	// Levels holds the level returned by Read for each pin.
	// Unlisted pins read low.
	Levels map[int]bool

	// ReadFunc, if set, overrides Levels.
	ReadFunc func(pin int) bool

	// Dirs holds the last configured direction of each pin.
	Dirs map[int]Direction

	// Out holds the last written level of each output pin.
	Out map[int]bool

	// Writes records every Write call in order.
	Writes []PinWrite

	// ReadError, WriteError and ConfigureError, if set, are returned by the
	// corresponding method.
	ReadError      error
	WriteError     error
	ConfigureError error

	// Closed tracks if Close was called.
	Closed bool
}

// PinWrite is a single recorded Write call.
type PinWrite struct {
	Pin  int
	High bool
}

// NewFakeIO creates a FakeIO with no pins configured.
func NewFakeIO() *FakeIO {
	return &FakeIO{
		Levels: make(map[int]bool),
		Dirs:   make(map[int]Direction),
		Out:    make(map[int]bool),
	}
}

// Read returns the scripted level of the pin.
func (f *FakeIO) Read(pin int) (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}
	if _, ok := f.Dirs[pin]; !ok {
		return false, fmt.Errorf("pin %d not configured", pin)
	}
	if f.ReadFunc != nil {
		return f.ReadFunc(pin), nil
	}
	return f.Levels[pin], nil
}

// Write records the level of an output pin.
func (f *FakeIO) Write(pin int, high bool) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	if f.Dirs[pin] != Output {
		return fmt.Errorf("pin %d is not an output", pin)
	}
	f.Out[pin] = high
	f.Writes = append(f.Writes, PinWrite{Pin: pin, High: high})
	return nil
}

// Configure records the direction. Outputs start low.
func (f *FakeIO) Configure(pin int, dir Direction) error {
	if f.ConfigureError != nil {
		return f.ConfigureError
	}
	f.Dirs[pin] = dir
	if dir == Output {
		f.Out[pin] = false
	} else {
		delete(f.Out, pin)
	}
	return nil
}

// Close marks the fake as closed.
func (f *FakeIO) Close() error {
	f.Closed = true
	return nil
}

// Driven reports whether pin is an output currently driven to level high.
func (f *FakeIO) Driven(pin int, high bool) bool {
	v, ok := f.Out[pin]
	return ok && f.Dirs[pin] == Output && v == high
}
