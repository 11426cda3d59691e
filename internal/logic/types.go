// Package logic contains the pure alarm state machine.
// This package has NO external dependencies (no GPIO, PWM, display, OS, or time.Sleep).
// Time is always injected as a tick count.
package logic

// State represents the operational mode of the alarm.
type State int

const (
	StateUnset State = iota
	StateExit
	StateSet
	StateEntry
	StateAlarm
	StateReport
)

var stateNames = [...]string{
	StateUnset:  "UNSET",
	StateExit:   "EXIT",
	StateSet:    "SET",
	StateEntry:  "ENTRY",
	StateAlarm:  "ALARM",
	StateReport: "REPORT",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "UNKNOWN"
	}
	return stateNames[s]
}

// LEDCode returns the value shown on the upper nibble of the LED bank.
// The numbering is the panel's historical one, not the declaration order.
func (s State) LEDCode() uint8 {
	switch s {
	case StateExit:
		return 0
	case StateUnset:
		return 1
	case StateSet:
		return 2
	case StateEntry:
		return 3
	case StateAlarm:
		return 4
	case StateReport:
		return 5
	}
	return 0
}

// Keypad characters with special meaning.
const (
	KeyNone   byte = 0
	KeySubmit byte = '*'
	KeyDelete byte = '#'
)

// SounderIntent is the logical mode of the internal buzzer.
type SounderIntent uint32

const (
	SounderSilent SounderIntent = iota
	// SounderPulsing toggles the buzzer every tick.
	SounderPulsing
	// SounderAlarm holds the buzzer on until the alarm period expires.
	SounderAlarm
	// SounderBeep holds the buzzer on for a short acknowledgement.
	SounderBeep
)

func (i SounderIntent) String() string {
	switch i {
	case SounderSilent:
		return "SILENT"
	case SounderPulsing:
		return "PULSING"
	case SounderAlarm:
		return "ALARM"
	case SounderBeep:
		return "BEEP"
	}
	return "UNKNOWN"
}

// SwitchMask selects the sensor switches the controller watches.
const SwitchMask uint8 = 0x07

// Input is a single main-loop sample.
type Input struct {
	Key      byte   // KeyNone if no key was pressed
	Switches uint8  // masked sensor switch bits
	Now      uint32 // tick counter at the time of the sample
}

// CommandKind identifies a display or console command.
type CommandKind int

const (
	CmdDisplayReset CommandKind = iota
	CmdDisplayWrite
	CmdConsoleLine
)

// Command is an instruction for the display or console drivers.
type Command struct {
	Kind CommandKind
	Col  int
	Row  int
	Text string
}

// Transition records a state change and why it happened.
type Transition struct {
	From   State
	To     State
	Reason string
}

// Output is everything a Step asks the outside world to do.
type Output struct {
	Commands []Command

	// ExtSounder is the level for the external sounder.
	ExtSounder bool

	// Sounder and SounderSince drive the tick-domain pattern generator.
	// SounderSince is the tick the intent's timing is measured from.
	Sounder      SounderIntent
	SounderSince uint32

	// LEDs is the switch bits in the low nibble and the state code in the high nibble.
	LEDs uint8

	// Transition is non-nil if the state changed during the step.
	Transition *Transition
}
