package logic

// Failed submissions allowed before the alarm is raised.
const (
	unsetFailLimit = 3
	armedFailLimit = 4
)

// Display and console text.
const (
	textUnset      = "UN-SET MODE"
	textExit       = "EXIT MODE"
	textSet        = "SET MODE"
	textEntry      = "ENTRY MODE"
	textAlarm      = "ALARM MODE"
	textCodePrompt = "Code: ____"

	consoleDisarmNow = "De-activate the alarm now"
	consoleAlarm     = "ALARM ACTIVE - INTRUDER ALERT!"
	consoleReport    = "REPORT STATUS"
)

// Position of the entered code on the display (1-based, after "Code: ").
const (
	codeCol = 7
	codeRow = 2
)

// Controller is the alarm state machine. It owns the mode, the code being
// entered, the failure count and the state timers. Not safe for concurrent use.
type Controller struct {
	cfg       Config
	state     State
	entry     CodeEntry
	failCount int
	since     uint32 // tick the current state was entered
	beeping   bool
	beepSince uint32
}

// NewController creates a controller in the Unset state.
func NewController(cfg Config) *Controller {
	return &Controller{
		cfg:   cfg,
		state: StateUnset,
		entry: NewCodeEntry(),
	}
}

// Start returns the commands that bring the display and console up in the
// initial state. now becomes the entry tick of the Unset state.
func (c *Controller) Start(now uint32) Output {
	c.since = now
	var out Output
	out.Commands = entryCommands(c.state)
	c.finish(Input{Now: now}, &out)
	return out
}

// Step advances the state machine with one sample of keypad and switches.
func (c *Controller) Step(in Input) Output {
	in.Switches &= SwitchMask
	var out Output

	switch c.state {
	case StateUnset:
		c.stepUnset(in, &out)
	case StateExit:
		c.stepExit(in, &out)
	case StateSet:
		c.stepSet(in, &out)
	case StateEntry:
		c.stepEntry(in, &out)
	case StateAlarm:
		c.stepAlarm(in, &out)
	case StateReport:
		// Nothing leads here and nothing leaves.
	}

	c.finish(in, &out)
	return out
}

func (c *Controller) stepUnset(in Input, out *Output) {
	submitted, depth := c.handleKey(in.Key, out)
	if !submitted {
		return
	}
	if depth == CodeLen {
		c.enter(StateExit, in.Now, "code accepted", out)
		return
	}
	c.failCount++
	c.beeping = true
	c.beepSince = in.Now
	if c.failCount >= unsetFailLimit {
		c.enter(StateAlarm, in.Now, "too many failed codes", out)
	}
}

func (c *Controller) stepExit(in Input, out *Output) {
	// Expiry wins over a trip on the same sample; Set raises the alarm on the next one.
	if c.TicksInState(in.Now) >= c.cfg.ExitTicks {
		c.enter(StateSet, in.Now, "exit period expired", out)
		return
	}
	if in.Switches > 1 {
		c.enter(StateAlarm, in.Now, "sensor tripped during exit", out)
		return
	}
	c.checkArmedCode(in, out)
}

func (c *Controller) stepSet(in Input, out *Output) {
	switch {
	case in.Switches == 1:
		c.enter(StateEntry, in.Now, "entry zone opened", out)
	case in.Switches > 1:
		c.enter(StateAlarm, in.Now, "sensor tripped while set", out)
	}
}

func (c *Controller) stepEntry(in Input, out *Output) {
	if c.TicksInState(in.Now) >= c.cfg.EntryTicks {
		c.enter(StateAlarm, in.Now, "entry period expired", out)
		return
	}
	if in.Switches > 1 {
		c.enter(StateAlarm, in.Now, "sensor tripped during entry", out)
		return
	}
	c.checkArmedCode(in, out)
}

func (c *Controller) stepAlarm(in Input, out *Output) {
	submitted, depth := c.handleKey(in.Key, out)
	if !submitted {
		return
	}
	if depth == CodeLen {
		c.enter(StateUnset, in.Now, "code accepted", out)
		return
	}
	c.failCount++
}

// checkArmedCode handles code entry in Exit and Entry, where a correct code
// disarms and too many wrong ones raise the alarm.
func (c *Controller) checkArmedCode(in Input, out *Output) {
	submitted, depth := c.handleKey(in.Key, out)
	if !submitted {
		return
	}
	if depth == CodeLen {
		c.enter(StateUnset, in.Now, "code accepted", out)
		return
	}
	c.failCount++
	if c.failCount >= armedFailLimit {
		c.enter(StateAlarm, in.Now, "too many failed codes", out)
	}
}

// handleKey applies code editing. It reports whether the key was a submit and,
// if so, the match depth of the entered code.
func (c *Controller) handleKey(key byte, out *Output) (bool, int) {
	switch {
	case isDigit(key):
		if c.entry.Append(key) {
			out.Commands = append(out.Commands, c.codeCommand())
		}
	case key == KeyDelete:
		if c.entry.Delete() {
			out.Commands = append(out.Commands, c.codeCommand())
		}
	case key == KeySubmit:
		return true, Verify(c.entry.Code(), c.cfg.Code)
	}
	return false, 0
}

func (c *Controller) codeCommand() Command {
	return Command{Kind: CmdDisplayWrite, Col: codeCol, Row: codeRow, Text: c.entry.Code().String()}
}

func (c *Controller) enter(to State, now uint32, reason string, out *Output) {
	out.Transition = &Transition{From: c.state, To: to, Reason: reason}
	c.state = to
	c.since = now
	c.failCount = 0
	c.beeping = false
	c.entry.Reset()
	out.Commands = append(out.Commands, entryCommands(to)...)
}

// finish fills in the outputs that depend only on the state after the step.
func (c *Controller) finish(in Input, out *Output) {
	out.LEDs = in.Switches&SwitchMask | c.state.LEDCode()<<4

	if c.beeping && in.Now-c.beepSince >= c.cfg.BeepTicks {
		c.beeping = false
	}

	switch c.state {
	case StateUnset:
		if c.beeping {
			out.Sounder, out.SounderSince = SounderBeep, c.beepSince
		}
	case StateExit, StateEntry:
		out.Sounder, out.SounderSince = SounderPulsing, c.since
	case StateAlarm:
		out.Sounder, out.SounderSince = SounderAlarm, c.since
		out.ExtSounder = c.TicksInState(in.Now) < c.cfg.AlarmTicks
	}
}

func entryCommands(s State) []Command {
	reset := Command{Kind: CmdDisplayReset}
	title := func(text string) Command {
		return Command{Kind: CmdDisplayWrite, Col: 1, Row: 1, Text: text}
	}
	prompt := Command{Kind: CmdDisplayWrite, Col: 1, Row: codeRow, Text: textCodePrompt}
	console := func(text string) Command {
		return Command{Kind: CmdConsoleLine, Text: text}
	}

	switch s {
	case StateUnset:
		return []Command{reset, title(textUnset), prompt, console(textUnset)}
	case StateExit:
		return []Command{reset, title(textExit), prompt, console(textExit)}
	case StateSet:
		return []Command{reset, title(textSet), console(textSet)}
	case StateEntry:
		return []Command{reset, title(textEntry), prompt, console(textEntry), console(consoleDisarmNow)}
	case StateAlarm:
		return []Command{reset, title(textAlarm), prompt, console(consoleAlarm)}
	case StateReport:
		return []Command{console(consoleReport)}
	}
	return nil
}

// State returns the current mode.
func (c *Controller) State() State {
	return c.state
}

// FailCount returns the number of consecutive failed codes in this state.
func (c *Controller) FailCount() int {
	return c.failCount
}

// EnteredCode returns the code typed so far, with placeholders.
func (c *Controller) EnteredCode() Code {
	return c.entry.Code()
}

// TicksInState returns the ticks elapsed since the current state was entered.
func (c *Controller) TicksInState(now uint32) uint32 {
	return now - c.since
}
