// Package status provides a thread-safe status tracker for the alarm controller.
// It is written by the main loop and read by the terminal panel and the
// periodic status log.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/alarm-controller/internal/logic"
)

// Config contains controller configuration for display.
type Config struct {
	TickMs     int64
	DebounceMs int64
	ExitTicks  uint32
	EntryTicks uint32
	AlarmTicks uint32
	Mode       string // "gpio" or "sim"
}

// Alarm is the controller state as of the last main-loop iteration.
type Alarm struct {
	State        logic.State
	FailCount    int
	Entered      int // digits typed so far
	Ticks        uint32
	TicksInState uint32
	Sounder      logic.SounderIntent
	BuzzerOn     bool
	ExtSounder   bool
	Switches     uint8
}

// Snapshot is a point-in-time view of controller state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Alarm
	Transitions int
	Last        *logic.Transition // nil until the first transition
	LastAt      time.Time
	Recent      []TransitionRecord // oldest first
	StartTime   time.Time
	Now         time.Time
	Config      Config
}

// Uptime returns the duration since the controller started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable controller state behind an RWMutex.
type Tracker struct {
	mu      sync.RWMutex
	snap    Snapshot
	history *history
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
		history: newHistory(historySize),
	}
}

// Update replaces the alarm state. Called from runLoop on every iteration.
func (t *Tracker) Update(a Alarm) {
	t.mu.Lock()
	t.snap.Alarm = a
	t.mu.Unlock()
}

// RecordTransition counts a state change and keeps it as the latest.
func (t *Tracker) RecordTransition(tr logic.Transition, at time.Time) {
	t.mu.Lock()
	t.snap.Transitions++
	t.snap.Last = &tr
	t.snap.LastAt = at
	t.history.push(TransitionRecord{Transition: tr, At: at})
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the controller state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	s.Recent = t.history.records()
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
