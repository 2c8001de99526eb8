package pumpmc

import (
	"fmt"
	"io"
	"log"
	"time"

	"pumpmc/checking"
	"pumpmc/config"
	"pumpmc/explorer"
	"pumpmc/pump"
	"pumpmc/replay"
	"pumpmc/simulator"
)

// Prepare simulation with initial configuration.
//
// Initializes the simulator with the necessary parameters.
// See the SimulatorOptions for a full overview of possible options.
// Default values will be used if no value is provided.
// The default checker checks all safety invariants of the pump.
func PrepareSimulation(opts ...SimulatorOption) Simulation {
	var (
		// Maximum number of steps in a trace
		maxSteps = config.DefaultMaxSteps

		// Number of traces simulated if no violation is found
		maxSamples = config.DefaultMaxSamples

		seed = time.Now().UnixNano()

		verbose io.Writer

		checker *checking.InvariantChecker
	)

	// Use the simulator options to configure
	for _, opt := range opts {
		switch t := opt.(type) {
		case config.MaxStepsOption:
			maxSteps = t.MaxSteps
		case config.MaxSamplesOption:
			maxSamples = t.MaxSamples
		case config.SeedOption:
			seed = t.Seed
		case config.VerboseOption:
			verbose = t.W
		case config.CheckerOption:
			checker = t.Checker
		}
	}
	if maxSteps < 0 || maxSamples < 0 {
		log.Panicf("maxSteps and maxSamples must not be negative. Got %v and %v", maxSteps, maxSamples)
	}
	if checker == nil {
		checker = checking.NewInvariantChecker()
	}

	return Simulation{
		sim:     simulator.NewSimulator(checker, maxSteps, maxSamples, seed, verbose),
		checker: checker,
		seed:    seed,
	}
}

// Stores the configured Simulator.
//
// Every call to Run starts over from the configured seed, so repeated runs
// simulate the same traces.
type Simulation struct {
	sim     *simulator.Simulator
	checker *checking.InvariantChecker
	seed    int64
}

// The seed the simulation was configured with.
func (s Simulation) Seed() int64 {
	return s.seed
}

// Run the simulation.
//
// All RunOptions are optional.
//
// Returns the report of the simulation. The report of a violation carries
// the witness, which can be replayed with Simulation.Replay.
func (s Simulation) Run(opts ...RunOptions) simulator.Report {
	var (
		export []io.Writer

		onViolation []func([]pump.Label)
	)

	for _, opt := range opts {
		switch t := opt.(type) {
		case config.ExportOption:
			export = append(export, t.W)
		case config.WitnessOption[[]pump.Label]:
			onViolation = append(onViolation, t.F)
		}
	}

	report := s.sim.Simulate()
	for _, w := range export {
		fmt.Fprint(w, report)
	}
	if report.Violation != nil {
		for _, f := range onViolation {
			f(report.Violation.Export())
		}
	}
	return report
}

// Replay the labels from the initial state, checking the configured invariants after every step.
//
// Returns a *replay.DiscrepancyError at the first guard failure or violated invariant.
func (s Simulation) Replay(labels []pump.Label) ([]replay.Step, error) {
	return replay.ReplayWith(pump.Init(), labels, s.checker)
}

// Explore every trace of up to depth steps from the initial state.
func (s Simulation) Explore(depth int) explorer.Result {
	return explorer.Explore(pump.Init(), depth, s.checker)
}

// A option used to configure the Simulator
type SimulatorOption interface {
	// noop method
	SimOpt()
}

// Configure the maximum number of steps in a trace.
//
// Default value is 20
func MaxSteps(maxSteps int) SimulatorOption {
	return config.MaxStepsOption{MaxSteps: maxSteps}
}

// Configure the number of traces simulated if no violation is found.
//
// Default value is 10000
func MaxSamples(maxSamples int) SimulatorOption {
	return config.MaxSamplesOption{MaxSamples: maxSamples}
}

// Configure the seed of the random source shared by all traces.
//
// Default value is derived from the current time.
func Seed(seed int64) SimulatorOption {
	return config.SeedOption{Seed: seed}
}

// Write every state of the first trace to w.
func Verbose(w io.Writer) SimulatorOption {
	return config.VerboseOption{W: w}
}

// Use the provided checker.
func WithChecker(checker *checking.InvariantChecker) SimulatorOption {
	return config.CheckerOption{Checker: checker}
}

// Check the provided invariants instead of the safety invariants of the pump.
func WithInvariants(invariants ...checking.Invariant) SimulatorOption {
	return config.CheckerOption{Checker: checking.NewInvariantChecker(invariants...)}
}

// Optional parameters used to configure a run
type RunOptions interface {
	RunOpt()
}

// Add a writer that the report will be written to
//
// Can be called multiple times.
// Default value is no writers
func Export(w io.Writer) RunOptions {
	return config.ExportOption{W: w}
}

// Call f with the witness if an invariant is violated.
func OnViolation(f func(witness []pump.Label)) RunOptions {
	return config.WitnessOption[[]pump.Label]{F: f}
}
