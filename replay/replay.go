// Package replay applies labelled traces produced elsewhere (by the simulator,
// the explorer or the external formal-model tool) and reports the first point
// where the implementation disagrees with them.
package replay

import (
	"errors"
	"fmt"

	"pumpmc/checking"
	"pumpmc/pump"
	"pumpmc/scheduler"
)

// One replayed step: the label and the state it produced.
type Step struct {
	Label pump.Label
	State pump.State
}

type Kind int

const (
	// The label's transition was not enabled in the current state
	GuardFailed Kind = iota
	// The label was applied but the resulting state violates an invariant
	InvariantViolated
)

func (k Kind) String() string {
	switch k {
	case GuardFailed:
		return "GuardFailed"
	case InvariantViolated:
		return "InvariantViolated"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Reported when a replayed trace diverges from the implementation.
type DiscrepancyError struct {
	Kind Kind
	// Position of the offending label in the trace
	Index int
	Label pump.Label
	// The state the label was applied to
	Before pump.State
	// The state after the label. Equal to Before for GuardFailed.
	After pump.State
	// Name of the violated invariant. Empty for GuardFailed.
	Invariant string
}

func (de *DiscrepancyError) Error() string {
	switch de.Kind {
	case GuardFailed:
		return fmt.Sprintf("replay: guard failed for %v at step %v (mode %v)", de.Label, de.Index, de.Before.Mode)
	default:
		return fmt.Sprintf("replay: invariant '%v' violated after %v at step %v", de.Invariant, de.Label, de.Index)
	}
}

// Replay applies labels to init in order, checking every invariant after each step.
//
// Parameterized labels use the parameter embedded in them. The initial state is not checked.
// Returns the steps completed so far together with a *DiscrepancyError at the first
// guard failure or invariant violation.
func Replay(init pump.State, labels []pump.Label) ([]Step, error) {
	return ReplayWith(init, labels, checking.NewInvariantChecker())
}

// ReplayWith is Replay using the provided checker.
func ReplayWith(init pump.State, labels []pump.Label, checker *checking.InvariantChecker) ([]Step, error) {
	sch := scheduler.NewReplay(labels)
	steps := make([]Step, 0, len(labels))
	state := init
	for {
		label, next, err := sch.Next(state)
		if errors.Is(err, scheduler.RunEndedError) {
			return steps, nil
		}
		var guardErr *scheduler.GuardError
		if errors.As(err, &guardErr) {
			return steps, &DiscrepancyError{
				Kind:   GuardFailed,
				Index:  guardErr.Index,
				Label:  label,
				Before: state,
				After:  state,
			}
		}
		if err != nil {
			return steps, err
		}

		steps = append(steps, Step{Label: label, State: next})
		if name, ok := checker.CheckAll(next); !ok {
			return steps, &DiscrepancyError{
				Kind:      InvariantViolated,
				Index:     len(steps) - 1,
				Label:     label,
				Before:    state,
				After:     next,
				Invariant: name,
			}
		}
		state = next
	}
}

// Final returns the last state reached by steps, or init if there are none.
func Final(init pump.State, steps []Step) pump.State {
	if len(steps) == 0 {
		return init
	}
	return steps[len(steps)-1].State
}
