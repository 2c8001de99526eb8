package scheduler

import (
	"pumpmc/pump"
	"pumpmc/transition"
)

// A scheduler that follows a fixed script of labels.
//
// Each label is applied with the parameter embedded in it; nothing is resampled.
type Replay struct {
	run []pump.Label
	// The index of the next label
	index int
}

func NewReplay(run []pump.Label) *Replay {
	return &Replay{
		run: run,
	}
}

// Apply the next label of the script to s.
//
// Returns RunEndedError when the script is exhausted, and a *GuardError if the
// label's transition is not enabled in s. The script does not advance on error.
func (rr *Replay) Next(s pump.State) (pump.Label, pump.State, error) {
	if rr.index >= len(rr.run) {
		return pump.Label{}, s, RunEndedError
	}
	label := rr.run[rr.index]
	res := transition.Apply(s, label)
	if !res.Success {
		return label, s, &GuardError{Index: rr.index, Label: label, State: s}
	}
	rr.index++
	return label, res.NewState, nil
}

// Number of labels that remain to be applied.
func (rr *Replay) Remaining() int {
	return len(rr.run) - rr.index
}
