// Package keypad scans a 3-column by 4-row matrix keypad.
package keypad

import (
	"fmt"
	"time"

	"github.com/sweeney/alarm-controller/internal/gpio"
)

// DefaultDebounce is the settle time after driving a column (15 x 5ms).
const DefaultDebounce = 75 * time.Millisecond

// layout maps col*4+row to the key printed on the pad.
const layout = "147*2580369#"

// Scanner reads one key per scan from the matrix.
type Scanner struct {
	io       gpio.DigitalIO
	rows     [4]int
	cols     [3]int
	debounce time.Duration

	// sleep is replaceable for tests.
	sleep func(time.Duration)
}

// New configures the rows as pulled-up inputs and the columns as idle
// (high-impedance) inputs.
func New(io gpio.DigitalIO, rows [4]int, cols [3]int, debounce time.Duration) (*Scanner, error) {
	for _, r := range rows {
		if err := io.Configure(r, gpio.InputPullUp); err != nil {
			return nil, fmt.Errorf("configure row pin %d: %w", r, err)
		}
	}
	for _, c := range cols {
		if err := io.Configure(c, gpio.Input); err != nil {
			return nil, fmt.Errorf("configure column pin %d: %w", c, err)
		}
	}
	return &Scanner{
		io:       io,
		rows:     rows,
		cols:     cols,
		debounce: debounce,
		sleep:    time.Sleep,
	}, nil
}

// Scan drives each column low in turn, waits for the contacts to settle and
// samples the rows. If several keys are down, the last one found in
// column-then-row order is returned. ok is false if no key is pressed.
// Scan blocks for len(cols) debounce intervals.
func (s *Scanner) Scan() (key byte, ok bool, err error) {
	for i, col := range s.cols {
		if err := s.io.Configure(col, gpio.Output); err != nil {
			return 0, false, fmt.Errorf("drive column pin %d: %w", col, err)
		}
		if err := s.io.Write(col, false); err != nil {
			s.release(col)
			return 0, false, fmt.Errorf("drive column pin %d: %w", col, err)
		}

		s.sleep(s.debounce)

		for j, row := range s.rows {
			high, err := s.io.Read(row)
			if err != nil {
				s.release(col)
				return 0, false, fmt.Errorf("read row pin %d: %w", row, err)
			}
			if !high {
				key, ok = layout[i*len(s.rows)+j], true
			}
		}

		if err := s.release(col); err != nil {
			return 0, false, err
		}
	}
	return key, ok, nil
}

func (s *Scanner) release(col int) error {
	if err := s.io.Configure(col, gpio.Input); err != nil {
		return fmt.Errorf("release column pin %d: %w", col, err)
	}
	return nil
}

// Source produces keys, one per scan.
type Source interface {
	Scan() (key byte, ok bool, err error)
}

// Latch reports a held key once: repeats are suppressed until a scan sees
// no key or a different one.
type Latch struct {
	src  Source
	held byte
}

// NewLatch wraps src.
func NewLatch(src Source) *Latch {
	return &Latch{src: src}
}

// Scan returns the next newly pressed key.
func (l *Latch) Scan() (byte, bool, error) {
	key, ok, err := l.src.Scan()
	if err != nil || !ok {
		l.held = 0
		return 0, false, err
	}
	if key == l.held {
		return 0, false, nil
	}
	l.held = key
	return key, true, nil
}
