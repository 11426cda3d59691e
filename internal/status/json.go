package status

import (
	"encoding/json"
	"fmt"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event          string          `json:"event,omitempty"`
	Reason         string          `json:"reason,omitempty"`
	State          string          `json:"state"`
	FailCount      int             `json:"fail_count"`
	EnteredDigits  int             `json:"entered_digits"`
	Ticks          uint32          `json:"ticks"`
	TicksInState   uint32          `json:"ticks_in_state"`
	Sounder        string          `json:"sounder"`
	BuzzerOn       bool            `json:"buzzer_on"`
	ExtSounder     bool            `json:"ext_sounder"`
	Switches       string          `json:"switches"`
	Transitions    int             `json:"transitions"`
	LastTransition *TransitionJSON `json:"last_transition,omitempty"`
	UptimeSeconds  int64           `json:"uptime_seconds"`
	StartTime      string          `json:"start_time"`
	Timestamp      string          `json:"timestamp"`
	Config         ConfigJSON      `json:"config"`
}

// TransitionJSON is the JSON representation of a state change.
type TransitionJSON struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason"`
	At     string `json:"at"`
}

// ConfigJSON is the JSON representation of controller config.
type ConfigJSON struct {
	TickMs     int64  `json:"tick_ms"`
	DebounceMs int64  `json:"debounce_ms"`
	ExitTicks  uint32 `json:"exit_ticks"`
	EntryTicks uint32 `json:"entry_ticks"`
	AlarmTicks uint32 `json:"alarm_ticks"`
	Mode       string `json:"mode"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		State:         snap.State.String(),
		FailCount:     snap.FailCount,
		EnteredDigits: snap.Entered,
		Ticks:         snap.Ticks,
		TicksInState:  snap.TicksInState,
		Sounder:       snap.Sounder.String(),
		BuzzerOn:      snap.BuzzerOn,
		ExtSounder:    snap.ExtSounder,
		Switches:      fmt.Sprintf("%03b", snap.Switches),
		Transitions:   snap.Transitions,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Config: ConfigJSON{
			TickMs:     snap.Config.TickMs,
			DebounceMs: snap.Config.DebounceMs,
			ExitTicks:  snap.Config.ExitTicks,
			EntryTicks: snap.Config.EntryTicks,
			AlarmTicks: snap.Config.AlarmTicks,
			Mode:       snap.Config.Mode,
		},
	}
	if snap.Last != nil {
		inner.LastTransition = &TransitionJSON{
			From:   snap.Last.From.String(),
			To:     snap.Last.To.String(),
			Reason: snap.Last.Reason,
			At:     snap.LastAt.UTC().Format(time.RFC3339),
		}
	}
	return inner
}

// FormatStatusEvent returns the compact JSON status for a log line.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
