// Command alarm-controller runs the intrusion alarm: it scans the keypad,
// watches the zone switches and drives the display, LEDs and sounders.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/sweeney/alarm-controller/internal/display"
	"github.com/sweeney/alarm-controller/internal/gpio"
	"github.com/sweeney/alarm-controller/internal/keypad"
	"github.com/sweeney/alarm-controller/internal/logic"
	"github.com/sweeney/alarm-controller/internal/sim"
	"github.com/sweeney/alarm-controller/internal/sounder"
	"github.com/sweeney/alarm-controller/internal/status"
	"github.com/sweeney/alarm-controller/internal/tick"
)

// envCode is read when -code is not given.
const envCode = "ALARM_CODE"

const defaultCode = "1234"

type options struct {
	tick        time.Duration
	debounce    time.Duration
	exitTime    time.Duration
	entryTime   time.Duration
	alarmTime   time.Duration
	beepTime    time.Duration
	code        string
	sim         bool
	chip        string
	buzzerPin   string
	buzzerFreq  int64
	statusEvery time.Duration
	keyRepeat   bool
	printSw     bool
}

func main() {
	var o options
	flag.DurationVar(&o.tick, "tick", logic.DefaultTickPeriod, "Tick period")
	flag.DurationVar(&o.debounce, "debounce", keypad.DefaultDebounce, "Keypad column settle time")
	flag.DurationVar(&o.exitTime, "exit-time", 30*time.Second, "Exit period after arming")
	flag.DurationVar(&o.entryTime, "entry-time", 30*time.Second, "Entry period before the alarm sounds")
	flag.DurationVar(&o.alarmTime, "alarm-time", 5*time.Minute, "How long the sounders run once the alarm is raised")
	flag.DurationVar(&o.beepTime, "beep-time", 500*time.Millisecond, "Buzzer chirp after a failed code while unset")
	flag.StringVar(&o.code, "code", "", "4-digit access code (default $"+envCode+", then "+defaultCode+")")
	flag.BoolVar(&o.sim, "sim", false, "Run against a simulated panel in the terminal")
	flag.StringVar(&o.chip, "chip", "gpiochip0", "GPIO character device")
	flag.StringVar(&o.buzzerPin, "buzzer-pin", "GPIO18", "PWM-capable pin for the internal buzzer")
	flag.Int64Var(&o.buzzerFreq, "buzzer-freq", 2000, "Buzzer tone in Hz")
	flag.DurationVar(&o.statusEvery, "status-every", 15*time.Minute, "Status log interval (0 to disable)")
	flag.BoolVar(&o.keyRepeat, "key-repeat", false, "Report a held key on every scan")
	flag.BoolVar(&o.printSw, "print-switches", false, "Print the switch inputs and exit")

	flag.Parse()

	if err := run(o); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// resolveCode picks the access code from the flag, then the environment,
// then the default.
func resolveCode(flagCode string) string {
	if flagCode != "" {
		return flagCode
	}
	if env := os.Getenv(envCode); env != "" {
		return env
	}
	return defaultCode
}

// buildConfig converts the wall-clock options into tick counts.
func buildConfig(o options) (logic.Config, error) {
	code, err := logic.ParseCode(resolveCode(o.code))
	if err != nil {
		return logic.Config{}, fmt.Errorf("access code: %w", err)
	}
	cfg := logic.Config{Code: code}
	for _, p := range []struct {
		name string
		d    time.Duration
		dst  *uint32
	}{
		{"exit-time", o.exitTime, &cfg.ExitTicks},
		{"entry-time", o.entryTime, &cfg.EntryTicks},
		{"alarm-time", o.alarmTime, &cfg.AlarmTicks},
		{"beep-time", o.beepTime, &cfg.BeepTicks},
	} {
		n, err := logic.TicksFor(p.d, o.tick)
		if err != nil {
			return logic.Config{}, fmt.Errorf("%s: %w", p.name, err)
		}
		*p.dst = n
	}
	if err := cfg.Validate(); err != nil {
		return logic.Config{}, err
	}
	return cfg, nil
}

// hardware is everything the main loop reads from or drives.
type hardware struct {
	keys         keypad.Source
	readSwitches func() (uint8, error)
	writeLEDs    func(uint8) error
	setSiren     func(bool) error
	display      display.Display
	console      display.Console
}

func run(o options) error {
	cfg, err := buildConfig(o)
	if err != nil {
		return err
	}
	statusTicks, err := logic.TicksFor(o.statusEvery, o.tick)
	if err != nil {
		return fmt.Errorf("status-every: %w", err)
	}

	mode := "gpio"
	if o.sim {
		mode = "sim"
	}
	tracker := status.NewTracker(time.Now(), status.Config{
		TickMs:     o.tick.Milliseconds(),
		DebounceMs: o.debounce.Milliseconds(),
		ExitTicks:  cfg.ExitTicks,
		EntryTicks: cfg.EntryTicks,
		AlarmTicks: cfg.AlarmTicks,
		Mode:       mode,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		hw      hardware
		buzzer  sounder.Buzzer
		simDone chan struct{}
	)
	if o.sim {
		if o.printSw {
			return errors.New("-print-switches needs real GPIO")
		}
		panel := sim.NewPanel(time.Duration(len(gpio.DefaultPins().Cols))*o.debounce, tracker.Snapshot)
		log.SetOutput(panel)
		defer log.SetOutput(os.Stderr)

		var quit context.CancelFunc
		ctx, quit = context.WithCancel(ctx)
		defer quit()
		simDone = make(chan struct{})
		go func() {
			defer close(simDone)
			if err := panel.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("sim: %v", err)
			}
			quit()
		}()

		hw = hardware{
			keys:         panel,
			readSwitches: panel.ReadSwitches,
			writeLEDs:    panel.WriteLEDs,
			setSiren:     panel.SetSiren,
			display:      panel,
			console:      panel,
		}
		buzzer = panel
	} else {
		dio, err := gpio.NewRealIO(o.chip)
		if err != nil {
			return fmt.Errorf("init gpio: %w", err)
		}
		defer dio.Close()

		pins := gpio.DefaultPins()
		switches, err := gpio.NewBank(dio, pins.Switches[:], gpio.InputPullDown)
		if err != nil {
			return fmt.Errorf("init switches: %w", err)
		}

		if o.printSw {
			v, err := switches.Read()
			if err != nil {
				return fmt.Errorf("read switches: %w", err)
			}
			fmt.Printf("switches: %03b\n", v)
			return nil
		}

		scanner, err := keypad.New(dio, pins.Rows, pins.Cols, o.debounce)
		if err != nil {
			return fmt.Errorf("init keypad: %w", err)
		}
		leds, err := gpio.NewBank(dio, pins.LEDs[:], gpio.Output)
		if err != nil {
			return fmt.Errorf("init leds: %w", err)
		}
		siren, err := sounder.NewSiren(dio, pins.ExtSounder)
		if err != nil {
			return fmt.Errorf("init external sounder: %w", err)
		}
		pwm, err := sounder.NewPWMBuzzer(o.buzzerPin, physic.Frequency(o.buzzerFreq)*physic.Hertz)
		if err != nil {
			return fmt.Errorf("init buzzer: %w", err)
		}

		var keys keypad.Source = scanner
		if !o.keyRepeat {
			keys = keypad.NewLatch(scanner)
		}
		hw = hardware{
			keys:         keys,
			readSwitches: switches.Read,
			writeLEDs:    leds.Write,
			setSiren:     siren.Set,
			display:      display.NewLogDisplay(log.Default()),
			console:      display.NewLogConsole(log.Default()),
		}
		buzzer = pwm
	}
	src := tick.NewSource(logic.NewPattern(cfg), buzzer)
	ticker := time.NewTicker(o.tick)
	defer ticker.Stop()

	tickCtx, stopTicks := context.WithCancel(context.Background())
	tickDone := make(chan struct{})
	go func() {
		defer close(tickDone)
		src.Run(tickCtx, ticker.C)
	}()

	log.Printf("started: mode=%s tick=%v debounce=%v exit=%d entry=%d alarm=%d ticks",
		mode, o.tick, o.debounce, cfg.ExitTicks, cfg.EntryTicks, cfg.AlarmTicks)
	if err := hw.console.WriteLine("ALARM LAB"); err != nil {
		log.Printf("console error: %v", err)
	}

	err = runLoop(ctx, hw, logic.NewController(cfg), src, tracker, statusTicks)

	// The tick goroutine owns the buzzer until it has stopped.
	stopTicks()
	<-tickDone
	if simDone != nil {
		<-simDone
	}
	if err := buzzer.Close(); err != nil {
		log.Printf("buzzer close error: %v", err)
	}
	return err
}

// runLoop is the controller's main loop. Each pass re-reads the switches if
// a tick has passed, scans the keypad, steps the state machine and applies
// its output. It returns when ctx is done, leaving both sounders and the LEDs
// off.
func runLoop(ctx context.Context, hw hardware, ctl *logic.Controller, src *tick.Source, tracker *status.Tracker, statusEvery uint32) error {
	l := &loop{hw: hw, src: src, tracker: tracker}

	start := src.Now()
	l.apply(ctl, logic.Input{Now: start}, ctl.Start(start))
	log.Printf("status: %s", status.FormatStatusEvent(tracker.Snapshot(), "STARTUP", ""))
	lastStatus := start

	var switches uint8
	for {
		select {
		case <-ctx.Done():
			l.shutdown()
			log.Printf("status: %s", status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", ""))
			return nil
		default:
		}

		if src.TakeRefresh() {
			v, err := hw.readSwitches()
			if err != nil {
				log.Printf("switch read error: %v", err)
			} else {
				switches = v
			}
		}

		key, ok, err := hw.keys.Scan()
		if err != nil {
			log.Printf("keypad error: %v", err)
		}
		if !ok {
			key = logic.KeyNone
		}

		in := logic.Input{Key: key, Switches: switches, Now: src.Now()}
		l.apply(ctl, in, ctl.Step(in))

		if statusEvery > 0 && in.Now-lastStatus >= statusEvery {
			lastStatus = in.Now
			log.Printf("status: %s", status.FormatStatusEvent(tracker.Snapshot(), "STATUS", ""))
		}
	}
}

// loop holds the output levels last written, so unchanged outputs are not
// rewritten every pass.
type loop struct {
	hw      hardware
	src     *tick.Source
	tracker *status.Tracker

	written bool
	leds    uint8
	siren   bool
}

func (l *loop) apply(ctl *logic.Controller, in logic.Input, out logic.Output) {
	if tr := out.Transition; tr != nil {
		log.Printf("transition: %s -> %s (%s)", tr.From, tr.To, tr.Reason)
		l.tracker.RecordTransition(*tr, time.Now())
	}

	if err := display.Apply(l.hw.display, l.hw.console, out.Commands); err != nil {
		log.Printf("display error: %v", err)
	}

	l.src.SetSounder(out.Sounder, out.SounderSince)

	if !l.written || out.ExtSounder != l.siren {
		if err := l.hw.setSiren(out.ExtSounder); err != nil {
			log.Printf("external sounder error: %v", err)
		} else {
			l.siren = out.ExtSounder
		}
	}
	if !l.written || out.LEDs != l.leds {
		if err := l.hw.writeLEDs(out.LEDs); err != nil {
			log.Printf("led error: %v", err)
		} else {
			l.leds = out.LEDs
		}
	}
	l.written = true

	l.tracker.Update(status.Alarm{
		State:        ctl.State(),
		FailCount:    ctl.FailCount(),
		Entered:      enteredDigits(ctl.EnteredCode()),
		Ticks:        in.Now,
		TicksInState: ctl.TicksInState(in.Now),
		Sounder:      out.Sounder,
		BuzzerOn:     l.src.BuzzerOn(),
		ExtSounder:   l.siren,
		Switches:     in.Switches & logic.SwitchMask,
	})
}

func (l *loop) shutdown() {
	l.src.SetSounder(logic.SounderSilent, l.src.Now())
	if err := l.hw.setSiren(false); err != nil {
		log.Printf("external sounder error: %v", err)
	}
	if err := l.hw.writeLEDs(0); err != nil {
		log.Printf("led error: %v", err)
	}
}

func enteredDigits(c logic.Code) int {
	n := 0
	for _, b := range c {
		if b != logic.Placeholder {
			n++
		}
	}
	return n
}
