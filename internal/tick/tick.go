// Package tick provides the fixed-period tick source. OnTick is the only
// entry point that runs outside the main loop; everything it shares with the
// main loop is held in atomics.
package tick

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/sweeney/alarm-controller/internal/logic"
	"github.com/sweeney/alarm-controller/internal/sounder"
)

// Source counts ticks and drives the internal buzzer pattern.
type Source struct {
	count   atomic.Uint32
	refresh atomic.Bool
	mode    atomic.Uint64 // intent<<32 | since
	level   atomic.Bool

	// Owned by the tick goroutine.
	pattern *logic.Pattern
	buzzer  sounder.Buzzer
	failing bool
}

// NewSource creates a source starting at tick 0 with a silent buzzer.
func NewSource(pattern *logic.Pattern, buzzer sounder.Buzzer) *Source {
	return &Source{pattern: pattern, buzzer: buzzer}
}

// OnTick handles one tick period: it flags the switches for refresh, updates
// the buzzer for the current intent and advances the counter.
func (s *Source) OnTick() {
	s.refresh.Store(true)

	intent, since := unpack(s.mode.Load())
	now := s.count.Load()
	on := s.pattern.Next(intent, now-since)
	if on != s.level.Load() {
		s.drive(on)
	}

	s.count.Add(1)
}

func (s *Source) drive(on bool) {
	var err error
	if on {
		err = s.buzzer.Enable()
	} else {
		err = s.buzzer.Disable()
	}
	if err != nil {
		// Level is left unchanged so the next tick retries.
		if !s.failing {
			log.Printf("buzzer error: %v", err)
			s.failing = true
		}
		return
	}
	if s.failing {
		log.Printf("buzzer recovered")
		s.failing = false
	}
	s.level.Store(on)
}

// Run calls OnTick for every value received on ticks until ctx is done.
func (s *Source) Run(ctx context.Context, ticks <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			s.OnTick()
		}
	}
}

// Now returns the current tick count.
func (s *Source) Now() uint32 {
	return s.count.Load()
}

// TakeRefresh reports whether a tick has passed since the last call,
// clearing the flag.
func (s *Source) TakeRefresh() bool {
	return s.refresh.CompareAndSwap(true, false)
}

// SetSounder sets the buzzer intent and the tick its timing is measured from.
func (s *Source) SetSounder(intent logic.SounderIntent, since uint32) {
	s.mode.Store(pack(intent, since))
}

// Sounder returns the current buzzer intent and its reference tick.
func (s *Source) Sounder() (logic.SounderIntent, uint32) {
	return unpack(s.mode.Load())
}

// BuzzerOn reports the level last driven to the buzzer.
func (s *Source) BuzzerOn() bool {
	return s.level.Load()
}

func pack(intent logic.SounderIntent, since uint32) uint64 {
	return uint64(intent)<<32 | uint64(since)
}

func unpack(v uint64) (logic.SounderIntent, uint32) {
	return logic.SounderIntent(v >> 32), uint32(v)
}
