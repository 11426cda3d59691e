// Package sim is a terminal stand-in for the controller's hardware: the
// keypad, the three switches, the LED bank, both sounders and the LCD are
// drawn on a tcell screen and driven from the keyboard.
package sim

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/sweeney/alarm-controller/internal/display"
	"github.com/sweeney/alarm-controller/internal/logic"
	"github.com/sweeney/alarm-controller/internal/status"
)

const (
	refreshInterval = 100 * time.Millisecond
	consoleLines    = 6
	logLines        = 8
	numSwitches     = 3
)

// Panel holds the simulated hardware state. All methods are safe for
// concurrent use.
type Panel struct {
	*display.Buffer

	keys     chan byte
	window   time.Duration
	snapshot func() status.Snapshot

	mu       sync.Mutex
	switches uint8
	leds     uint8
	siren    bool
	buzzer   bool
	console  []string
	logs     []string
	partial  string
}

// NewPanel creates a panel. window is how long Scan waits for a key, standing
// in for the keypad's column settle time. snapshot may be nil.
func NewPanel(window time.Duration, snapshot func() status.Snapshot) *Panel {
	return &Panel{
		Buffer:   display.NewBuffer(display.LCDCols, display.LCDRows),
		keys:     make(chan byte, 16),
		window:   window,
		snapshot: snapshot,
	}
}

// Scan returns the next key typed, waiting at most the scan window.
func (p *Panel) Scan() (byte, bool, error) {
	t := time.NewTimer(p.window)
	defer t.Stop()
	select {
	case k := <-p.keys:
		return k, true, nil
	case <-t.C:
		return 0, false, nil
	}
}

// Press queues a key as if typed.
func (p *Panel) Press(key byte) {
	select {
	case p.keys <- key:
	default:
		// Keypad buffer full; the key is lost as on a real pad.
	}
}

// Toggle flips switch n (1-based).
func (p *Panel) Toggle(n int) {
	if n < 1 || n > numSwitches {
		return
	}
	p.mu.Lock()
	p.switches ^= 1 << (n - 1)
	p.mu.Unlock()
}

// ReadSwitches returns the switch levels, switch 1 in bit 0.
func (p *Panel) ReadSwitches() (uint8, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.switches, nil
}

// WriteLEDs sets the LED bank.
func (p *Panel) WriteLEDs(v uint8) error {
	p.mu.Lock()
	p.leds = v
	p.mu.Unlock()
	return nil
}

// SetSiren turns the external sounder on or off.
func (p *Panel) SetSiren(on bool) error {
	p.mu.Lock()
	p.siren = on
	p.mu.Unlock()
	return nil
}

// Enable starts the simulated buzzer.
func (p *Panel) Enable() error {
	p.setBuzzer(true)
	return nil
}

// Disable stops the simulated buzzer.
func (p *Panel) Disable() error {
	p.setBuzzer(false)
	return nil
}

// Close silences the buzzer.
func (p *Panel) Close() error {
	p.mu.Lock()
	p.buzzer = false
	p.mu.Unlock()
	return nil
}

func (p *Panel) setBuzzer(on bool) {
	p.mu.Lock()
	p.buzzer = on
	p.mu.Unlock()
}

// WriteLine appends a console line.
func (p *Panel) WriteLine(text string) error {
	p.mu.Lock()
	p.console = appendRing(p.console, text, consoleLines)
	p.mu.Unlock()
	return nil
}

// Write collects log output so it can be shown below the panel instead of
// scribbling over the screen.
func (p *Panel) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	text := p.partial + string(b)
	parts := strings.Split(text, "\n")
	for _, line := range parts[:len(parts)-1] {
		p.logs = appendRing(p.logs, line, logLines)
	}
	p.partial = parts[len(parts)-1]
	return len(b), nil
}

func appendRing(lines []string, line string, max int) []string {
	lines = append(lines, line)
	if len(lines) > max {
		lines = lines[len(lines)-max:]
	}
	return lines
}

// Run draws the panel and feeds keyboard input into it until ctx is done or
// the user quits, in which case it returns context.Canceled.
func (p *Panel) Run(ctx context.Context) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	screen.HideCursor()
	defer screen.Fini()

	eventCh := make(chan tcell.Event, 1)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventCh <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	p.render(screen)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-eventCh:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if p.handleKey(ev.Key(), ev.Rune()) {
					return context.Canceled
				}
				p.render(screen)
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			p.render(screen)
		}
	}
}

// handleKey applies one keystroke and reports whether the user asked to quit.
// Digits, * and # go to the keypad; a, s and d toggle switches 1 to 3.
func (p *Panel) handleKey(k tcell.Key, r rune) bool {
	if k == tcell.KeyCtrlC {
		return true
	}
	if k != tcell.KeyRune {
		return false
	}
	switch {
	case r == 'q' || r == 'Q':
		return true
	case r >= '0' && r <= '9', r == rune(logic.KeySubmit), r == rune(logic.KeyDelete):
		p.Press(byte(r))
	case r == 'a':
		p.Toggle(1)
	case r == 's':
		p.Toggle(2)
	case r == 'd':
		p.Toggle(3)
	}
	return false
}

func (p *Panel) render(screen tcell.Screen) {
	screen.Clear()
	width, height := screen.Size()
	for y, l := range p.lines() {
		if y >= height {
			break
		}
		style := tcell.StyleDefault
		switch {
		case y == 0:
			style = style.Bold(true)
		case strings.HasPrefix(l, "State: ALARM"):
			style = style.Foreground(tcell.ColorRed).Bold(true)
		}
		drawText(screen, 0, y, width, l, style)
	}
	screen.Show()
}

// lines builds the panel text, one string per screen row.
func (p *Panel) lines() []string {
	lcd := p.Lines()

	p.mu.Lock()
	switches, leds, siren, buzzer := p.switches, p.leds, p.siren, p.buzzer
	console := append([]string(nil), p.console...)
	logs := append([]string(nil), p.logs...)
	p.mu.Unlock()

	border := "+" + strings.Repeat("-", display.LCDCols) + "+"
	out := []string{
		" alarm-controller  (0-9 * # keypad, a/s/d switches, q quit)",
		"",
		"  " + border,
	}
	for _, l := range lcd {
		out = append(out, "  |"+l+"|")
	}
	out = append(out, "  "+border, "")

	var recent []status.TransitionRecord
	if p.snapshot != nil {
		snap := p.snapshot()
		out = append(out,
			fmt.Sprintf("State: %-7s ticks in state: %-6d failed codes: %d", snap.State, snap.TicksInState, snap.FailCount),
			fmt.Sprintf("Tick: %-8d sounder: %s", snap.Ticks, snap.Sounder),
		)
		recent = snap.Recent
	}
	out = append(out,
		fmt.Sprintf("Switches: %s   LEDs: %08b", switchText(switches), leds),
		fmt.Sprintf("Buzzer: %s   Siren: %s", onOff(buzzer), onOff(siren)),
		"",
		"Console:",
	)
	for _, l := range console {
		out = append(out, "  "+l)
	}
	if len(recent) > 0 {
		out = append(out, "", "Transitions:")
		for _, r := range recent {
			out = append(out, fmt.Sprintf("  %s %s -> %s (%s)", r.At.Format("15:04:05"), r.From, r.To, r.Reason))
		}
	}
	out = append(out, "", "Log:")
	for _, l := range logs {
		out = append(out, "  "+l)
	}
	return out
}

func switchText(v uint8) string {
	keys := "asd"
	parts := make([]string, numSwitches)
	for i := range parts {
		mark := "-"
		if v&(1<<i) != 0 {
			mark = "X"
		}
		parts[i] = fmt.Sprintf("[%c]%d:%s", keys[i], i+1, mark)
	}
	return strings.Join(parts, " ")
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "off"
}

func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= x+width {
			return
		}
		screen.SetContent(col, y, r, nil, style)
		col++
	}
}
