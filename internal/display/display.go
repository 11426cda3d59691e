// Package display renders the controller's display and console commands.
package display

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/sweeney/alarm-controller/internal/logic"
)

// Standard character LCD geometry.
const (
	LCDCols = 16
	LCDRows = 2
)

// Display is a character display addressed by 1-based column and row.
type Display interface {
	// Reset clears the display.
	Reset() error

	// WriteAt writes text starting at col, row.
	WriteAt(col, row int, text string) error
}

// Console is a line-oriented diagnostic output.
type Console interface {
	WriteLine(text string) error
}

// Apply executes cmds in order. Every command is attempted; the errors are
// combined.
func Apply(d Display, c Console, cmds []logic.Command) error {
	var errs []error
	for _, cmd := range cmds {
		var err error
		switch cmd.Kind {
		case logic.CmdDisplayReset:
			err = d.Reset()
		case logic.CmdDisplayWrite:
			err = d.WriteAt(cmd.Col, cmd.Row, cmd.Text)
		case logic.CmdConsoleLine:
			err = c.WriteLine(cmd.Text)
		default:
			err = fmt.Errorf("unknown command kind %d", cmd.Kind)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("display errors: %v", errs)
	}
	return nil
}

// Buffer is an in-memory character display. It is safe for concurrent use.
type Buffer struct {
	mu    sync.RWMutex
	cols  int
	lines [][]byte
}

// NewBuffer creates a blank display of the given size.
func NewBuffer(cols, rows int) *Buffer {
	b := &Buffer{cols: cols, lines: make([][]byte, rows)}
	for i := range b.lines {
		b.lines[i] = make([]byte, cols)
	}
	b.Reset()
	return b
}

// Reset blanks every line.
func (b *Buffer) Reset() error {
	b.mu.Lock()
	for _, l := range b.lines {
		for i := range l {
			l[i] = ' '
		}
	}
	b.mu.Unlock()
	return nil
}

// WriteAt writes text at col, row. Text past the right edge is dropped.
func (b *Buffer) WriteAt(col, row int, text string) error {
	if row < 1 || row > len(b.lines) || col < 1 || col > b.cols {
		return fmt.Errorf("position %d,%d outside %dx%d display", col, row, b.cols, len(b.lines))
	}
	b.mu.Lock()
	copy(b.lines[row-1][col-1:], text)
	b.mu.Unlock()
	return nil
}

// Lines returns the current content, one string per row.
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.lines))
	for i, l := range b.lines {
		out[i] = string(l)
	}
	return out
}

// LogDisplay keeps a Buffer and logs its content after every write.
type LogDisplay struct {
	*Buffer
	logger *log.Logger
}

// NewLogDisplay creates a 16x2 display that logs to logger.
func NewLogDisplay(logger *log.Logger) *LogDisplay {
	return &LogDisplay{Buffer: NewBuffer(LCDCols, LCDRows), logger: logger}
}

// WriteAt writes to the buffer and logs the whole display.
func (d *LogDisplay) WriteAt(col, row int, text string) error {
	if err := d.Buffer.WriteAt(col, row, text); err != nil {
		return err
	}
	d.logger.Printf("lcd: [%s]", strings.Join(d.Lines(), "|"))
	return nil
}

// LogConsole writes console lines to a logger.
type LogConsole struct {
	logger *log.Logger
}

// NewLogConsole creates a console writing to logger.
func NewLogConsole(logger *log.Logger) *LogConsole {
	return &LogConsole{logger: logger}
}

// WriteLine logs text.
func (c *LogConsole) WriteLine(text string) error {
	c.logger.Printf("console: %s", text)
	return nil
}
