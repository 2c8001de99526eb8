package explorer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pumpmc/checking"
	"pumpmc/pump"
	"pumpmc/replay"
	"pumpmc/tree"

	"golang.org/x/exp/slices"
)

var alwaysHolds = checking.Invariant{Name: "always", Holds: func(pump.State) bool { return true }}

func TestExploreCounts(t *testing.T) {
	result := Explore(pump.Init(), 2, checking.NewInvariantChecker(alwaysHolds))
	if !result.Ok() {
		t.Fatalf("Did not expect a violation. Got %v", result.Violation)
	}
	if result.Space.Len() != result.Transitions+1 {
		t.Errorf("Expected one tree node per transition. Got %v nodes and %v transitions", result.Space.Len(), result.Transitions)
	}
	// Idle only allows StartMonitoring and DetectHardwareFault
	if len(result.Space.Children()) != 2 {
		t.Errorf("Expected two successors of the initial state. Got %v", len(result.Space.Children()))
	}
	if result.States < 3 || result.States > result.Transitions+1 {
		t.Errorf("Unexpected number of states: %v", result.States)
	}
}

func TestExploreDepthZero(t *testing.T) {
	result := Explore(pump.Init(), 0, checking.NewInvariantChecker())
	if !result.Ok() || result.States != 1 || result.Transitions != 0 {
		t.Errorf("Expected only the initial state. Got %+v", result)
	}
}

// A state is expanded again only when it is reached at a shallower depth.
func TestExploreDeduplicates(t *testing.T) {
	result := Explore(pump.Init(), 3, checking.NewInvariantChecker(alwaysHolds))
	expandedAt := map[pump.State]int{}
	result.Space.Walk(func(node *tree.Tree[Node]) bool {
		if node.IsLeaf() {
			return true
		}
		s := node.Payload().State
		if depth, ok := expandedAt[s]; ok && node.Depth() >= depth {
			t.Errorf("State expanded at depth %v after depth %v:\n%v", node.Depth(), depth, s)
		}
		expandedAt[s] = node.Depth()
		return true
	})
	if len(expandedAt) == 0 {
		t.Errorf("Expected expanded states")
	}
}

func TestExploreFindsWitness(t *testing.T) {
	if result := Explore(pump.Init(), 2, checking.NewInvariantChecker()); !result.Ok() {
		t.Fatalf("Did not expect a violation within two steps. Got %v via %v", result.Violation, result.Witness)
	}

	result := Explore(pump.Init(), 3, checking.NewInvariantChecker())
	if result.Ok() {
		t.Fatalf("Expected a violation within three steps")
	}
	want := []pump.Label{pump.Plain(pump.StartMonitoring), pump.Plain(pump.DeliverBasal), pump.RequestBolusLabel(3000)}
	if result.Violation != "criticalAlarmStopsDelivery" || !slices.Equal(result.Witness, want) {
		t.Errorf("Unexpected violation %v via %v", result.Violation, result.Witness)
	}

	_, err := replay.Replay(pump.Init(), result.Witness)
	var de *replay.DiscrepancyError
	if !errors.As(err, &de) || de.Kind != replay.InvariantViolated || de.After != result.State {
		t.Errorf("Expected the witness to replay to the same violation. Got %v", err)
	}
}

func TestExploreInitialViolation(t *testing.T) {
	never := checking.Invariant{Name: "never", Holds: func(pump.State) bool { return false }}
	result := Explore(pump.Init(), 5, checking.NewInvariantChecker(never))
	if result.Violation != "never" || len(result.Witness) != 0 || result.Transitions != 0 {
		t.Errorf("Expected a violation of the initial state. Got %+v", result)
	}
}

func TestExploreNewick(t *testing.T) {
	result := Explore(pump.Init(), 1, checking.NewInvariantChecker())
	if got := result.Space.Newick(); got != `("StartMonitoring","DetectHardwareFault")"init";` {
		t.Errorf("Unexpected Newick form: %v", got)
	}
	if !strings.HasPrefix(result.Space.String(), "init\n") {
		t.Errorf("Unexpected listing:\n%v", result.Space)
	}
}

func TestExploreContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := ExploreContext(ctx, pump.Init(), 4, checking.NewInvariantChecker(alwaysHolds))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled. Got %v", err)
	}
	if result.Transitions != 0 || result.States != 1 {
		t.Errorf("Expected nothing to be explored. Got %v states through %v transitions", result.States, result.Transitions)
	}

	result, err = ExploreContext(context.Background(), pump.Init(), 2, checking.NewInvariantChecker(alwaysHolds))
	if err != nil || result.States != Explore(pump.Init(), 2, checking.NewInvariantChecker(alwaysHolds)).States {
		t.Errorf("Expected ExploreContext to match Explore. Got %v states, error %v", result.States, err)
	}
}
