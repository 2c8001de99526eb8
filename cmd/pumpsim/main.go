package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"pumpmc"
	"pumpmc/checking"
	"pumpmc/config"
	"pumpmc/oracle"
	"pumpmc/pump"
	"pumpmc/replay"

	"github.com/pkg/profile"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

func main() {
	os.Exit(run())
}

func run() int {
	log.SetPrefix("[pumpsim] ")

	v := config.NewViper()
	if err := config.BindFlags(v, pflag.CommandLine); err != nil {
		log.Fatalf("Unable to bind flags: %v", err)
	}
	configPath := pflag.StringP("config", "c", "", "config file (yaml, toml or json)")
	replayPath := pflag.String("replay", "", "replay the JSON script at this path instead of simulating")
	explore := pflag.Bool("explore", false, "explore every trace up to --depth instead of simulating")
	serve := pflag.Bool("serve", false, "serve the oracle service on --addr")
	profileDir := pflag.String("profile", "", "write a CPU profile to this directory")
	pflag.Parse()

	if *configPath != "" {
		if err := config.ReadFile(v, *configPath); err != nil {
			log.Fatalf("Unable to read config file: %v", err)
		}
	}
	c, err := config.Load(v)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if *profileDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profileDir), profile.Quiet).Stop()
	}

	switch {
	case *serve:
		err = runServer(c)
	case *replayPath != "":
		err = runReplay(*replayPath)
	case *explore:
		err = runExplore(c)
	default:
		err = runSimulation(c)
	}
	if err != nil {
		log.Print(err)
		return 1
	}
	return 0
}

func printInvariants(checker *checking.InvariantChecker) {
	fmt.Println("Checking invariants:")
	for _, name := range checker.Names() {
		fmt.Printf("  - %v\n", name)
	}
	fmt.Println()
}

var errViolation = errors.New("invariant violated")

func runSimulation(c config.Root) error {
	opts := []pumpmc.SimulatorOption{
		pumpmc.MaxSteps(c.MaxSteps),
		pumpmc.MaxSamples(c.MaxSamples),
		pumpmc.Seed(c.Seed),
	}
	fmt.Printf("Running %v traces of %v steps each (seed: %v)\n", c.MaxSamples, c.MaxSteps, c.Seed)
	if c.Verbose {
		fmt.Println("Verbose mode: showing first trace")
		opts = append(opts, pumpmc.Verbose(os.Stdout))
	}
	printInvariants(checking.NewInvariantChecker())

	report := pumpmc.PrepareSimulation(opts...).Run(pumpmc.Export(os.Stdout))
	log.Printf("run %v finished after %v traces", report.RunID, report.Traces)
	if !report.Ok() {
		return errViolation
	}
	return nil
}

func runExplore(c config.Root) error {
	fmt.Printf("Exploring every trace of up to %v steps\n", c.ExploreDepth)
	printInvariants(checking.NewInvariantChecker())

	result := pumpmc.PrepareSimulation().Explore(c.ExploreDepth)
	fmt.Printf("Visited %v states through %v transitions.\n", result.States, result.Transitions)
	if result.Ok() {
		fmt.Println("[ok] No violation found.")
		return nil
	}
	fmt.Printf("[VIOLATION] Invariant '%v' violated after %v steps.\n", result.Violation, len(result.Witness))
	fmt.Printf("State at violation:\n%v\n", result.State)
	fmt.Printf("Witness: %v\n", result.Witness)
	return errViolation
}

func runReplay(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	script, err := replay.LoadScript(f)
	if err != nil {
		return err
	}

	if trace := script.OracleSteps(); trace != nil {
		err := replay.CompareOracle(pump.Init(), trace)
		for _, e := range multierr.Errors(err) {
			fmt.Printf("[MISMATCH] %v\n", e)
		}
		if err != nil {
			return fmt.Errorf("trace does not conform: %v discrepancies", len(multierr.Errors(err)))
		}
		fmt.Printf("[ok] %v steps conform to the model.\n", len(trace))
		return nil
	}

	steps, err := replay.Replay(pump.Init(), script.Labels)
	for i, step := range steps {
		fmt.Printf("[State %v] %v\n%v\n\n", i+1, step.Label, step.State)
	}
	if err != nil {
		return err
	}
	fmt.Printf("[ok] Replayed %v steps.\n", len(steps))
	return nil
}

func runServer(c config.Root) error {
	lis, err := net.Listen("tcp", c.OracleAddr)
	if err != nil {
		return err
	}
	logger := log.New(os.Stderr, "[oracle] ", log.LstdFlags)
	srv := grpc.NewServer(grpc.UnaryInterceptor(oracle.LoggingInterceptor(logger)))
	limits := oracle.Limits{
		MaxDepth:   c.ExploreDepth,
		MaxSteps:   c.OracleMaxSteps,
		MaxSamples: c.OracleMaxSamples,
	}
	oracle.NewServer(checking.NewInvariantChecker(), limits).Register(srv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Printf("serving on %v", lis.Addr())
		return srv.Serve(lis)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Printf("shutting down")
		srv.GracefulStop()
		return nil
	})
	return g.Wait()
}
