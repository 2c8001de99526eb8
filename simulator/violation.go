package simulator

import (
	"fmt"

	"pumpmc/pump"

	"golang.org/x/exp/slices"
)

// A violated invariant together with the witness that reproduces it.
type Violation struct {
	Invariant string
	// Index of the trace within the simulation
	Trace int
	// Step at which the invariant was first violated. 0 is the initial state.
	Step  int
	State pump.State
	// The labels leading from the initial state to State
	Labels []pump.Label
}

func newViolation(invariant string, step int, s pump.State, labels []pump.Label) *Violation {
	return &Violation{
		Invariant: invariant,
		Step:      step,
		State:     s,
		Labels:    slices.Clone(labels),
	}
}

func (v *Violation) Error() string {
	return fmt.Sprintf("Simulator: invariant '%v' violated at trace %v step %v", v.Invariant, v.Trace, v.Step)
}

// Export the witness trace so that it can be reproduced by the replay engine.
func (v *Violation) Export() []pump.Label {
	return slices.Clone(v.Labels)
}
