package scheduler

import (
	"errors"
	"fmt"

	"pumpmc/pump"
)

// Selects the next transition of a trace.
//
// A Scheduler is used from a single goroutine. Implementations that hold a
// random source keep it for their whole lifetime, so a sequence of traces
// driven by the same Scheduler is reproducible from its seed.
type Scheduler interface {
	// Select and apply the next transition from s.
	//
	// Returns the label of the applied transition and the resulting state.
	// Returns RunEndedError if the scheduler has no more transitions to offer.
	Next(s pump.State) (pump.Label, pump.State, error)
}

var RunEndedError = errors.New("scheduler: The run has ended. No more transitions are scheduled.")

// Returned by a scripted scheduler when the scheduled transition is not enabled.
type GuardError struct {
	// Position of the label in the script
	Index int
	Label pump.Label
	// The state the label was applied to
	State pump.State
}

func (ge *GuardError) Error() string {
	return fmt.Sprintf("scheduler: transition %v at index %v is not enabled in mode %v", ge.Label, ge.Index, ge.State.Mode)
}
