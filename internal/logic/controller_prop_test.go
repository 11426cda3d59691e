package logic

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func digits(a, b, c, d int) string {
	return string([]byte{byte('0' + a), byte('0' + b), byte('0' + c), byte('0' + d)})
}

func TestPropertyCodeEditing(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	props := gopter.NewProperties(params)

	props.Property("four digits then four deletes restore the empty code", prop.ForAll(
		func(a, b, c, d int) bool {
			ctl := NewController(DefaultConfig(Code{'1', '2', '3', '4'}))
			ctl.Start(0)
			press(ctl, 0, digits(a, b, c, d)+"####")
			return ctl.EnteredCode() == EmptyCode
		},
		gen.IntRange(0, 9), gen.IntRange(0, 9), gen.IntRange(0, 9), gen.IntRange(0, 9),
	))

	props.Property("verify returns the longest matching prefix", prop.ForAll(
		func(a, b, c, d, w, x, y, z int) bool {
			var entered, stored Code
			copy(entered[:], digits(a, b, c, d))
			copy(stored[:], digits(w, x, y, z))
			depth := Verify(entered, stored)
			for i := 0; i < depth; i++ {
				if entered[i] != stored[i] {
					return false
				}
			}
			return depth == CodeLen || entered[depth] != stored[depth]
		},
		gen.IntRange(0, 9), gen.IntRange(0, 9), gen.IntRange(0, 9), gen.IntRange(0, 9),
		gen.IntRange(0, 9), gen.IntRange(0, 9), gen.IntRange(0, 9), gen.IntRange(0, 9),
	))

	props.TestingRun(t)
}

func TestPropertyFailedCodeCounts(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	props := gopter.NewProperties(params)

	stored := "1234"
	cfg := DefaultConfig(Code{'1', '2', '3', '4'})

	// Each start state with the number of failures it tolerates.
	setups := map[string]struct {
		state State
		limit int
		init  func(c *Controller)
	}{
		"unset": {StateUnset, unsetFailLimit, func(c *Controller) {}},
		"exit":  {StateExit, armedFailLimit, func(c *Controller) { press(c, 0, stored+"*") }},
		"entry": {StateEntry, armedFailLimit, func(c *Controller) {
			press(c, 0, stored+"*")
			c.Step(Input{Now: cfg.ExitTicks})
			c.Step(Input{Switches: 1, Now: cfg.ExitTicks})
		}},
		"alarm": {StateAlarm, 0, func(c *Controller) {
			press(c, 0, stored+"*")
			c.Step(Input{Switches: 2, Now: 1})
		}},
	}

	for name, s := range setups {
		s := s
		props.Property(name+": a wrong code adds exactly one failure", prop.ForAll(
			func(a, b, c, d, prior int) bool {
				entered := digits(a, b, c, d)
				if entered == stored {
					return true
				}
				if s.limit > 0 && prior >= s.limit-1 {
					prior = s.limit - 2
				}

				ctl := NewController(cfg)
				ctl.Start(0)
				s.init(ctl)
				now := ctl.since
				for i := 0; i < prior; i++ {
					press(ctl, now, "*")
				}
				if ctl.State() != s.state || ctl.FailCount() != prior {
					return false
				}

				press(ctl, now, "####"+entered+"*")
				return ctl.State() == s.state && ctl.FailCount() == prior+1
			},
			gen.IntRange(0, 9), gen.IntRange(0, 9), gen.IntRange(0, 9), gen.IntRange(0, 9),
			gen.IntRange(0, 2),
		))

		if s.state == StateAlarm {
			continue
		}
		props.Property(name+": the correct code leaves the state with an empty entry", prop.ForAll(
			func(a, b int) bool {
				ctl := NewController(cfg)
				ctl.Start(0)
				s.init(ctl)
				now := ctl.since
				press(ctl, now, digits(a, b, 0, 0)+"##")
				press(ctl, now, "##"+stored+"*")
				return ctl.State() != s.state && ctl.EnteredCode() == EmptyCode && ctl.FailCount() == 0
			},
			gen.IntRange(0, 9), gen.IntRange(0, 9),
		))
	}

	props.TestingRun(t)
}

func TestPropertyExitBoundary(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	props := gopter.NewProperties(params)

	props.Property("exit holds until exactly the exit period", prop.ForAll(
		func(exitTicks, start uint32) bool {
			cfg := DefaultConfig(Code{'1', '2', '3', '4'})
			cfg.ExitTicks = exitTicks
			ctl := NewController(cfg)
			ctl.Start(start)
			press(ctl, start, "1234*")

			ctl.Step(Input{Now: start + exitTicks - 1})
			if ctl.State() != StateExit {
				return false
			}
			ctl.Step(Input{Now: start + exitTicks})
			return ctl.State() == StateSet
		},
		gen.UInt32Range(1, 10000),
		gen.UInt32Range(0, 1<<31),
	))

	props.TestingRun(t)
}
