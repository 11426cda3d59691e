package display

import "github.com/sweeney/alarm-controller/internal/logic"

// Recorder is a Display and Console that records every call as a command,
// for test assertions.
type Recorder struct {
	Commands []logic.Command

	// Err, if set, is returned by every call.
	Err error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Reset records a display reset.
func (r *Recorder) Reset() error {
	r.Commands = append(r.Commands, logic.Command{Kind: logic.CmdDisplayReset})
	return r.Err
}

// WriteAt records a display write.
func (r *Recorder) WriteAt(col, row int, text string) error {
	r.Commands = append(r.Commands, logic.Command{Kind: logic.CmdDisplayWrite, Col: col, Row: row, Text: text})
	return r.Err
}

// WriteLine records a console line.
func (r *Recorder) WriteLine(text string) error {
	r.Commands = append(r.Commands, logic.Command{Kind: logic.CmdConsoleLine, Text: text})
	return r.Err
}

// ConsoleLines returns the recorded console text in order.
func (r *Recorder) ConsoleLines() []string {
	var out []string
	for _, c := range r.Commands {
		if c.Kind == logic.CmdConsoleLine {
			out = append(out, c.Text)
		}
	}
	return out
}
