package checking

import "pumpmc/pump"

// Evaluates an ordered list of invariants over a state.
type InvariantChecker struct {
	invariants []Invariant
}

// Create an InvariantChecker for the provided invariants.
//
// If no invariants are provided the pump's safety invariants are used.
func NewInvariantChecker(invariants ...Invariant) *InvariantChecker {
	if len(invariants) == 0 {
		invariants = Invariants()
	}
	return &InvariantChecker{invariants: invariants}
}

// CheckAll evaluates the invariants in order.
//
// Returns the name of the first invariant that does not hold and false,
// or an empty name and true if all invariants hold.
func (ic *InvariantChecker) CheckAll(s pump.State) (string, bool) {
	for _, inv := range ic.invariants {
		if !inv.Holds(s) {
			return inv.Name, false
		}
	}
	return "", true
}

// Holds returns true if every invariant holds for s.
func (ic *InvariantChecker) Holds(s pump.State) bool {
	_, ok := ic.CheckAll(s)
	return ok
}

// Names returns the names of the checked invariants in order.
func (ic *InvariantChecker) Names() []string {
	names := make([]string, len(ic.invariants))
	for i, inv := range ic.invariants {
		names[i] = inv.Name
	}
	return names
}
