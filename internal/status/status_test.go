package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/alarm-controller/internal/logic"
)

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{TickMs: 250, DebounceMs: 75, ExitTicks: 120, Mode: "sim"}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.TickMs != 250 {
		t.Errorf("Config.TickMs: got %d, want 250", snap.Config.TickMs)
	}
	if snap.Config.Mode != "sim" {
		t.Errorf("Config.Mode: got %q, want sim", snap.Config.Mode)
	}
	if snap.State != logic.StateUnset {
		t.Errorf("expected UNSET initially, got %s", snap.State)
	}
	if snap.Last != nil {
		t.Error("expected no transition initially")
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.Update(Alarm{State: logic.StateExit, FailCount: 2, Entered: 3, Ticks: 40, Sounder: logic.SounderPulsing})

	snap := tr.Snapshot()
	if snap.State != logic.StateExit {
		t.Errorf("State: got %s, want EXIT", snap.State)
	}
	if snap.FailCount != 2 || snap.Entered != 3 || snap.Ticks != 40 {
		t.Errorf("unexpected snapshot: %+v", snap.Alarm)
	}
	if snap.Sounder != logic.SounderPulsing {
		t.Errorf("Sounder: got %s, want PULSING", snap.Sounder)
	}
}

func TestRecordTransition(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	at := time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC)

	tr.RecordTransition(logic.Transition{From: logic.StateUnset, To: logic.StateExit, Reason: "code accepted"}, at)
	tr.RecordTransition(logic.Transition{From: logic.StateExit, To: logic.StateSet, Reason: "exit period expired"}, at.Add(time.Minute))

	snap := tr.Snapshot()
	if snap.Transitions != 2 {
		t.Errorf("Transitions: got %d, want 2", snap.Transitions)
	}
	if snap.Last == nil || snap.Last.To != logic.StateSet {
		t.Fatalf("Last: got %+v", snap.Last)
	}
	if !snap.LastAt.Equal(at.Add(time.Minute)) {
		t.Errorf("LastAt: got %v", snap.LastAt)
	}
	if len(snap.Recent) != 2 || snap.Recent[0].To != logic.StateExit || snap.Recent[1].To != logic.StateSet {
		t.Errorf("Recent: got %+v", snap.Recent)
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		StartTime: start,
		Now:       start.Add(15 * time.Minute),
	}

	if snap.Uptime() != 15*time.Minute {
		t.Errorf("Uptime: got %v, want 15m", snap.Uptime())
	}
}

func TestSnapshotNowIsSet(t *testing.T) {
	tr := NewTracker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Config{})

	before := time.Now()
	snap := tr.Snapshot()
	after := time.Now()

	if snap.Now.Before(before) || snap.Now.After(after) {
		t.Errorf("Now (%v) not between %v and %v", snap.Now, before, after)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.Update(Alarm{State: logic.StateSet})
	tr.RecordTransition(logic.Transition{From: logic.StateExit, To: logic.StateSet}, time.Now())

	snap1 := tr.Snapshot()

	tr.Update(Alarm{State: logic.StateAlarm})
	tr.RecordTransition(logic.Transition{From: logic.StateSet, To: logic.StateAlarm}, time.Now())

	if snap1.State != logic.StateSet {
		t.Error("snapshot should be a copy; State was modified")
	}
	if snap1.Last.To != logic.StateSet {
		t.Error("snapshot should be a copy; Last was modified")
	}
}

func TestFormatStatusEvent(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Alarm: Alarm{
			State:        logic.StateAlarm,
			Ticks:        1300,
			TicksInState: 20,
			Sounder:      logic.SounderAlarm,
			BuzzerOn:     true,
			ExtSounder:   true,
			Switches:     0x02,
		},
		Transitions: 3,
		Last:        &logic.Transition{From: logic.StateSet, To: logic.StateAlarm, Reason: "sensor tripped while set"},
		LastAt:      start.Add(10 * time.Minute),
		StartTime:   start,
		Now:         start.Add(15 * time.Minute),
		Config:      Config{TickMs: 250, DebounceMs: 75, ExitTicks: 120, EntryTicks: 120, AlarmTicks: 1200, Mode: "gpio"},
	}

	data := FormatStatusEvent(snap, "STATUS", "")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	s := parsed.Status
	if s.Event != "STATUS" {
		t.Errorf("Event: got %q, want STATUS", s.Event)
	}
	if s.State != "ALARM" {
		t.Errorf("State: got %q, want ALARM", s.State)
	}
	if s.Sounder != "ALARM" || !s.BuzzerOn || !s.ExtSounder {
		t.Errorf("sounders: %q buzzer=%v ext=%v", s.Sounder, s.BuzzerOn, s.ExtSounder)
	}
	if s.Switches != "010" {
		t.Errorf("Switches: got %q, want 010", s.Switches)
	}
	if s.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", s.UptimeSeconds)
	}
	if s.LastTransition == nil || s.LastTransition.From != "SET" || s.LastTransition.Reason != "sensor tripped while set" {
		t.Errorf("LastTransition: got %+v", s.LastTransition)
	}
	if s.LastTransition.At != "2026-01-01T00:10:00Z" {
		t.Errorf("LastTransition.At: got %q", s.LastTransition.At)
	}
	if s.Config.AlarmTicks != 1200 || s.Config.Mode != "gpio" {
		t.Errorf("Config: got %+v", s.Config)
	}
}

func TestFormatStatusEventOmitsEmpty(t *testing.T) {
	snap := Snapshot{
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:       time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC),
	}

	data := FormatStatusEvent(snap, "STARTUP", "")

	var raw map[string]interface{}
	json.Unmarshal(data, &raw)
	status := raw["status"].(map[string]interface{})
	if _, exists := status["reason"]; exists {
		t.Error("reason should be omitted when empty")
	}
	if _, exists := status["last_transition"]; exists {
		t.Error("last_transition should be omitted before the first transition")
	}
	if status["event"] != "STARTUP" {
		t.Errorf("event: got %v, want STARTUP", status["event"])
	}
	if status["state"] != "UNSET" {
		t.Errorf("state: got %v, want UNSET", status["state"])
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	var wg sync.WaitGroup

	// Writer
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			tr.Update(Alarm{State: logic.StateExit, Ticks: uint32(i)})
			tr.RecordTransition(logic.Transition{From: logic.StateUnset, To: logic.StateExit}, time.Now())
		}
	}()

	// Reader
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := tr.Snapshot()
			_ = snap.Uptime()
			_ = FormatStatusEvent(snap, "STATUS", "")
		}
	}()

	wg.Wait()
}
