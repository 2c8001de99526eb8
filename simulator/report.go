package simulator

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// The outcome of a simulation.
type Report struct {
	// Identifies the simulation in logs
	RunID uuid.UUID

	MaxSteps   int
	MaxSamples int
	Seed       int64
	// Names of the checked invariants
	Invariants []string

	// Number of traces run, including the violating one
	Traces  int
	Elapsed time.Duration

	// nil if no invariant was violated
	Violation *Violation
}

// Returns true if no invariant was violated.
func (r Report) Ok() bool {
	return r.Violation == nil
}

func (r Report) TracesPerSecond() float64 {
	secs := r.Elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(r.Traces) / secs
}

// String renders the human-readable report. The seed is always included so that
// a violation can be reproduced.
func (r Report) String() string {
	var b strings.Builder
	if r.Ok() {
		fmt.Fprintf(&b, "[ok] No violation found (%vms at %.0f traces/second).\n", r.Elapsed.Milliseconds(), r.TracesPerSecond())
		fmt.Fprintf(&b, "Checked %v traces of %v steps each.\n", r.Traces, r.MaxSteps)
	} else {
		v := r.Violation
		fmt.Fprintf(&b, "[VIOLATION] Invariant '%v' violated at trace %v step %v.\n", v.Invariant, v.Trace, v.Step)
		fmt.Fprintf(&b, "State at violation:\n%v\n", v.State)
		labels := make([]string, len(v.Labels))
		for i, l := range v.Labels {
			labels[i] = l.String()
		}
		fmt.Fprintf(&b, "Witness: [%v]\n", strings.Join(labels, ", "))
	}
	fmt.Fprintf(&b, "Seed: %v\n", r.Seed)
	return b.String()
}
