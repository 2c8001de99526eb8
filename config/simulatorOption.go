package config

import (
	"io"

	"pumpmc/checking"
)

type MaxStepsOption struct{ MaxSteps int }

func (mso MaxStepsOption) SimOpt() {}

type MaxSamplesOption struct{ MaxSamples int }

func (mso MaxSamplesOption) SimOpt() {}

type SeedOption struct{ Seed int64 }

func (so SeedOption) SimOpt() {}

// Dump the first trace of a simulation step by step to W
type VerboseOption struct {
	W io.Writer
}

func (vo VerboseOption) SimOpt() {}

type CheckerOption struct {
	Checker *checking.InvariantChecker
}

func (co CheckerOption) SimOpt() {}
