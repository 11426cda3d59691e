package sounder

import "sync"

// FakeBuzzer records buzzer calls for test assertions.
// It is safe for concurrent use, since the tick goroutine drives it.
type FakeBuzzer struct {
	mu       sync.Mutex
	on       bool
	enables  int
	disables int
	closed   bool

	// Err, if set, is returned by Enable and Disable.
	Err error
}

// NewFakeBuzzer creates a silent FakeBuzzer.
func NewFakeBuzzer() *FakeBuzzer {
	return &FakeBuzzer{}
}

// Enable records the call and turns the buzzer on.
func (f *FakeBuzzer) Enable() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.enables++
	f.on = true
	return nil
}

// Disable records the call and turns the buzzer off.
func (f *FakeBuzzer) Disable() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.disables++
	f.on = false
	return nil
}

// Close marks the buzzer closed and silent.
func (f *FakeBuzzer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.on = false
	return nil
}

// SetErr sets the error returned by Enable and Disable.
func (f *FakeBuzzer) SetErr(err error) {
	f.mu.Lock()
	f.Err = err
	f.mu.Unlock()
}

// On reports whether the buzzer is sounding.
func (f *FakeBuzzer) On() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.on
}

// Calls returns the number of Enable and Disable calls.
func (f *FakeBuzzer) Calls() (enables, disables int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enables, f.disables
}

// Closed reports whether Close was called.
func (f *FakeBuzzer) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
