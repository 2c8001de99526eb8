package simulator

import (
	"context"
	"io"
	"time"

	"pumpmc/checking"
	"pumpmc/scheduler"

	"github.com/google/uuid"
)

// Runs many random traces in sequence, looking for an invariant violation.
//
// All traces of a simulation draw from one random source created from the seed.
// The sequence of traces is therefore reproducible for a fixed seed, maxSteps and maxSamples,
// but trace N depends on how many random draws the traces before it consumed.
type Simulator struct {
	checker *checking.InvariantChecker

	maxSteps   int
	maxSamples int
	seed       int64

	// If not nil, the first trace is dumped step by step
	verbose io.Writer
}

// Create a new simulator
//
// maxSteps is the maximum number of steps in a trace.
//
// maxSamples is the number of traces simulated if no violation is found.
//
// seed initializes the random source shared by all traces.
//
// verbose, if not nil, receives a state dump of every step of the first trace.
func NewSimulator(checker *checking.InvariantChecker, maxSteps int, maxSamples int, seed int64, verbose io.Writer) *Simulator {
	return &Simulator{
		checker:    checker,
		maxSteps:   maxSteps,
		maxSamples: maxSamples,
		seed:       seed,
		verbose:    verbose,
	}
}

// Run the simulation.
//
// Traces are run one at a time and the simulation stops at the first trace
// that violates an invariant.
func (s *Simulator) Simulate() Report {
	// Never cancelled
	report, _ := s.SimulateContext(context.Background())
	return report
}

// SimulateContext runs the simulation like Simulate, checking ctx before every trace.
//
// If ctx is done the simulation stops and the report of the traces run so far
// is returned together with ctx.Err().
func (s *Simulator) SimulateContext(ctx context.Context) (Report, error) {
	sch := scheduler.NewRandom(s.seed)
	report := Report{
		RunID:      uuid.New(),
		MaxSteps:   s.maxSteps,
		MaxSamples: s.maxSamples,
		Seed:       s.seed,
		Invariants: s.checker.Names(),
	}

	start := time.Now()
	for trace := 0; trace < s.maxSamples; trace++ {
		if err := ctx.Err(); err != nil {
			report.Elapsed = time.Since(start)
			return report, err
		}
		var w io.Writer
		if trace == 0 {
			w = s.verbose
		}
		// The random scheduler never returns an error
		result, _ := runTrace(s.maxSteps, sch, s.checker, w, false)
		report.Traces++

		if result.Violation != nil {
			result.Violation.Trace = trace
			report.Violation = result.Violation
			break
		}
	}
	report.Elapsed = time.Since(start)
	return report, nil
}
