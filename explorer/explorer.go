// Package explorer enumerates every trace of the pump up to a bounded depth.
//
// Where the simulator samples traces at random, the explorer follows every
// enabled label, parameterized actions expanded over all candidate values.
// States are deduplicated by fingerprint so each distinct state is expanded
// once, from the shallowest depth at which it was reached.
package explorer

import (
	"context"

	"pumpmc/checking"
	"pumpmc/pump"
	"pumpmc/transition"
	"pumpmc/tree"

	"github.com/benbjohnson/immutable"
)

// A node of the explored state space: the state and the label that reached it.
type Node struct {
	Label pump.Label
	State pump.State
	// Set on the root only
	Root bool
}

func (n Node) String() string {
	if n.Root {
		return "init"
	}
	return n.Label.String()
}

// The outcome of an exploration.
type Result struct {
	MaxDepth int
	// Number of distinct states reached, the initial state included
	States int
	// Number of transitions followed
	Transitions int

	// Name of the first violated invariant, empty if none was found
	Violation string
	// The labels leading from the initial state to the violating state
	Witness []pump.Label
	State   pump.State

	// The explored state space. Revisited states appear as leaves.
	Space *tree.Tree[Node]
}

func (r Result) Ok() bool {
	return r.Violation == ""
}

type explorer struct {
	maxDepth int
	checker  *checking.InvariantChecker
	// Shallowest depth each fingerprint was reached at
	visited map[uint64]int
	result  *Result

	ctx context.Context
	err error
}

// Explore performs a depth-first search from init up to maxDepth transitions deep
// and stops at the first state that violates an invariant of checker.
func Explore(init pump.State, maxDepth int, checker *checking.InvariantChecker) Result {
	// Never cancelled
	result, _ := ExploreContext(context.Background(), init, maxDepth, checker)
	return result
}

// ExploreContext explores like Explore and checks ctx before expanding each state.
// If ctx is done the partial result is returned together with ctx.Err().
func ExploreContext(ctx context.Context, init pump.State, maxDepth int, checker *checking.InvariantChecker) (Result, error) {
	result := Result{
		MaxDepth: maxDepth,
		Space:    tree.New(Node{State: init, Root: true}),
	}
	e := explorer{
		maxDepth: maxDepth,
		checker:  checker,
		visited:  map[uint64]int{init.Fingerprint(): 0},
		result:   &result,
		ctx:      ctx,
	}

	if name, ok := checker.CheckAll(init); !ok {
		e.violated(name, immutable.NewList[pump.Label](), init)
	} else {
		e.visit(result.Space, immutable.NewList[pump.Label]())
	}
	result.States = len(e.visited)
	return result, e.err
}

// visit expands node. Returns false once a violation has been found or ctx is done.
func (e *explorer) visit(node *tree.Tree[Node], path *immutable.List[pump.Label]) bool {
	if e.err = e.ctx.Err(); e.err != nil {
		return false
	}
	depth := node.Depth()
	if depth >= e.maxDepth {
		return true
	}
	for _, succ := range transition.Enabled(node.Payload().State) {
		e.result.Transitions++
		child := node.AddChild(Node{Label: succ.Label, State: succ.State})
		childPath := path.Append(succ.Label)

		fp := succ.State.Fingerprint()
		if seen, ok := e.visited[fp]; ok && seen <= depth+1 {
			continue
		}
		e.visited[fp] = depth + 1

		if name, ok := e.checker.CheckAll(succ.State); !ok {
			e.violated(name, childPath, succ.State)
			return false
		}
		if !e.visit(child, childPath) {
			return false
		}
	}
	return true
}

func (e *explorer) violated(name string, path *immutable.List[pump.Label], s pump.State) {
	witness := make([]pump.Label, 0, path.Len())
	itr := path.Iterator()
	for !itr.Done() {
		_, label := itr.Next()
		witness = append(witness, label)
	}
	e.result.Violation = name
	e.result.Witness = witness
	e.result.State = s
}
