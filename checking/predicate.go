package checking

import "pumpmc/pump"

// A function to be evaluated on a state.
// It returns true if the predicate holds for the state and false otherwise.
type Predicate func(s pump.State) bool

// A named safety predicate.
type Invariant struct {
	Name  string
	Holds Predicate
}

// Implies returns a predicate that holds whenever premise does not hold or conclusion holds.
func Implies(premise, conclusion Predicate) Predicate {
	return func(s pump.State) bool {
		if !premise(s) {
			return true
		}
		return conclusion(s)
	}
}
