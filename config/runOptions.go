package config

import "io"

// Configures io.writers that the simulation report will be written to

// Can be applied multiple times to add multiple io.writers.
// Default value is no writers.
type ExportOption struct {
	W io.Writer
}

func (eo ExportOption) RunOpt() {}

// Configures a function called with the witness of a violation.
//
// Can be applied multiple times. The function is not called if no invariant is violated.
type WitnessOption[T any] struct {
	F func(T)
}

func (wo WitnessOption[T]) RunOpt() {}
