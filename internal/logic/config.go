package logic

import (
	"errors"
	"fmt"
	"time"
)

// DefaultTickPeriod is the period of the tick source.
const DefaultTickPeriod = 250 * time.Millisecond

// Config holds the controller's timing and secret. All periods are in ticks.
type Config struct {
	Code       Code
	ExitTicks  uint32
	EntryTicks uint32
	AlarmTicks uint32
	BeepTicks  uint32
}

// DefaultConfig returns the standard timings at the default tick period
// (30s exit, 30s entry, 5min alarm, 500ms beep).
func DefaultConfig(code Code) Config {
	return Config{
		Code:       code,
		ExitTicks:  30 * 4,
		EntryTicks: 30 * 4,
		AlarmTicks: 5 * 60 * 4,
		BeepTicks:  2,
	}
}

// TicksFor converts a duration to a whole number of tick periods, rounding up.
func TicksFor(d, period time.Duration) (uint32, error) {
	if period <= 0 {
		return 0, errors.New("tick period must be positive")
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %v", d)
	}
	n := (d + period - 1) / period
	if n > 1<<31 {
		return 0, fmt.Errorf("duration %v is too long for tick period %v", d, period)
	}
	return uint32(n), nil
}

// Validate checks the config for values the state machine cannot work with.
func (c Config) Validate() error {
	for i, b := range c.Code {
		if !isDigit(b) {
			return fmt.Errorf("code character %d is %q, want a digit", i+1, b)
		}
	}
	if c.ExitTicks == 0 {
		return errors.New("exit period must be at least one tick")
	}
	if c.EntryTicks == 0 {
		return errors.New("entry period must be at least one tick")
	}
	if c.AlarmTicks == 0 {
		return errors.New("alarm period must be at least one tick")
	}
	return nil
}
