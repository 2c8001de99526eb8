// Package tree holds the in-memory tree used to record an explored state space.
package tree

import (
	"fmt"
	"strings"
)

// A node of a rooted tree. The root is the node without a parent.
type Tree[T any] struct {
	payload  T
	parent   *Tree[T]
	children []*Tree[T]
	depth    int
}

// Create a new root node
func New[T any](payload T) *Tree[T] {
	return &Tree[T]{payload: payload}
}

// Adds a new child with the provided payload and returns it
func (t *Tree[T]) AddChild(payload T) *Tree[T] {
	child := &Tree[T]{
		payload: payload,
		parent:  t,
		depth:   t.depth + 1,
	}
	t.children = append(t.children, child)
	return child
}

// Returns the total number of nodes in the subtree rooted at t
func (t *Tree[T]) Len() int {
	n := 1
	for _, child := range t.children {
		n += child.Len()
	}
	return n
}

func (t *Tree[T]) Payload() T {
	return t.payload
}

func (t *Tree[T]) Parent() *Tree[T] {
	return t.parent
}

// Distance from the root. The root has depth 0.
func (t *Tree[T]) Depth() int {
	return t.depth
}

func (t *Tree[T]) Children() []*Tree[T] {
	return t.children
}

func (t *Tree[T]) IsRoot() bool {
	return t.parent == nil
}

func (t *Tree[T]) IsLeaf() bool {
	return len(t.children) == 0
}

// Path returns the payloads from the root down to t, both included.
func (t *Tree[T]) Path() []T {
	path := make([]T, t.depth+1)
	for node := t; node != nil; node = node.parent {
		path[node.depth] = node.payload
	}
	return path
}

// Walk visits every node of the subtree in depth-first pre-order.
// Returning false from visit prunes the children of that node.
func (t *Tree[T]) Walk(visit func(*Tree[T]) bool) {
	if !visit(t) {
		return
	}
	for _, child := range t.children {
		child.Walk(visit)
	}
}

// Find returns the first node, in depth-first pre-order, whose payload satisfies match.
// Returns nil if there is none.
func (t *Tree[T]) Find(match func(T) bool) *Tree[T] {
	if match(t.payload) {
		return t
	}
	for _, child := range t.children {
		if found := child.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// Leaves returns all leaf nodes of the subtree
func (t *Tree[T]) Leaves() []*Tree[T] {
	leaves := []*Tree[T]{}
	t.Walk(func(node *Tree[T]) bool {
		if node.IsLeaf() {
			leaves = append(leaves, node)
		}
		return true
	})
	return leaves
}

// Indented listing of the subtree, one node per line
func (t *Tree[T]) String() string {
	var b strings.Builder
	t.Walk(func(node *Tree[T]) bool {
		fmt.Fprintf(&b, "%v%v\n", strings.Repeat("-", node.depth-t.depth), node.payload)
		return true
	})
	return b.String()
}

// Newick renders the subtree in Newick format with every node named by its quoted payload.
func (t *Tree[T]) Newick() string {
	var b strings.Builder
	t.newick(&b)
	if t.IsRoot() {
		b.WriteString(";")
	}
	return b.String()
}

func (t *Tree[T]) newick(b *strings.Builder) {
	if len(t.children) > 0 {
		b.WriteString("(")
		for i, child := range t.children {
			if i > 0 {
				b.WriteString(",")
			}
			child.newick(b)
		}
		b.WriteString(")")
	}
	name := strings.ReplaceAll(fmt.Sprint(t.payload), `"`, `'`)
	fmt.Fprintf(b, "%q", name)
}
