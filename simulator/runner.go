package simulator

import (
	"errors"
	"fmt"
	"io"

	"pumpmc/checking"
	"pumpmc/pump"
	"pumpmc/scheduler"
)

// The result of running one trace.
type TraceResult struct {
	// Number of steps executed. A violation on the initial state is reported at step 0.
	Steps int
	// Labels[i] produced States[i+1]. States[0] is the initial state.
	// States is only recorded by RunTrace, simulations keep the labels alone.
	Labels []pump.Label
	States []pump.State

	FinalState pump.State

	// Set if an invariant was violated. Trace is always 0, callers running several traces set it.
	Violation *Violation
}

// Initial capacity of the recorded history. It grows with the steps actually taken.
const historySize = 64

// RunTrace runs a single trace of up to maxSteps steps from the initial state.
//
// Invariants are checked on the initial state and after every step, and the
// trace stops at the first violation. The state returned by the scheduler is
// adopted unconditionally, so a NoAction step still counts as a step.
// If w is not nil every state change is written to it.
//
// Returns an error only if the scheduler does. A scheduler that runs out of
// transitions (RunEndedError) ends the trace early without an error.
func RunTrace(maxSteps int, sch scheduler.Scheduler, checker *checking.InvariantChecker, w io.Writer) (TraceResult, error) {
	return runTrace(maxSteps, sch, checker, w, true)
}

func runTrace(maxSteps int, sch scheduler.Scheduler, checker *checking.InvariantChecker, w io.Writer, keepStates bool) (TraceResult, error) {
	state := pump.Init()
	size := min(maxSteps, historySize)
	result := TraceResult{
		Labels: make([]pump.Label, 0, size),
	}
	if keepStates {
		result.States = append(make([]pump.State, 0, size+1), state)
	}

	if w != nil {
		fmt.Fprintf(w, "[State 0] init\n%v\n\n", state)
	}

	if name, ok := checker.CheckAll(state); !ok {
		result.FinalState = state
		result.Violation = newViolation(name, 0, state, result.Labels)
		return result, nil
	}

	for step := 1; step <= maxSteps; step++ {
		label, next, err := sch.Next(state)
		if errors.Is(err, scheduler.RunEndedError) {
			break
		}
		if err != nil {
			result.FinalState = state
			return result, fmt.Errorf("Simulator: scheduler failed at step %v: %w", step, err)
		}

		if w != nil && next != state {
			fmt.Fprintf(w, "[State %v] %v\n%v\n\n", step, label, next)
		}

		state = next
		result.Steps = step
		result.Labels = append(result.Labels, label)
		if keepStates {
			result.States = append(result.States, state)
		}

		if name, ok := checker.CheckAll(state); !ok {
			if w != nil {
				fmt.Fprintf(w, "!!! INVARIANT VIOLATION: %v at step %v\n", name, step)
			}
			result.FinalState = state
			result.Violation = newViolation(name, step, state, result.Labels)
			return result, nil
		}
	}

	result.FinalState = state
	return result, nil
}
