// Package bt is a tick-driven behavior tree interpreter with a shared typed
// blackboard.
//
// A Tree owns an arena of nodes, a root and a Blackboard. An external driver
// calls Tick once per step; composites run their children by arena index and
// leaves read and write blackboard keys. Nothing inside a node blocks: every
// node returns within the tick it was invoked in, and long-running work
// reports StatusRunning until it is done.
package bt

import (
	"time"

	"github.com/zeusync/minions/internal/core/systems/physics"
)

// Status is the result of ticking a node.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	// StatusRunning means the node has not finished and wants to be ticked again.
	StatusRunning
	// StatusInvalid is returned by an inactive tree; no node ran.
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusFailure:
		return "Failure"
	case StatusRunning:
		return "Running"
	default:
		return "Invalid"
	}
}

// NodeID is the index of a node in its tree's arena.
type NodeID int

// NoNode is the zero reference; it never names a real node.
const NoNode NodeID = -1

// Node is the unit of behavior. Tick must not block.
type Node interface {
	Name() string
	Tick(t *TickContext) (Status, error)
}

// Composite is a node with ordered children.
type Composite interface {
	Node
	Children() []NodeID
}

// Binder is implemented by nodes that read or write blackboard keys.
// The builder uses the bindings to catch one key bound with two kinds.
type Binder interface {
	Bindings() []Binding
}

// Validator is implemented by nodes that can check their own wiring.
type Validator interface {
	Validate() error
}

// Resetter is implemented by nodes that keep local state across ticks.
type Resetter interface {
	Reset()
}

// Binding is one blackboard key used by a node.
type Binding struct {
	Key  string
	Kind Kind
}

// Definition builds a tree once, at agent initialization.
type Definition interface {
	BuildTree(b *Builder) error
}

// DefinitionFunc adapts a function to Definition.
type DefinitionFunc func(b *Builder) error

func (f DefinitionFunc) BuildTree(b *Builder) error { return f(b) }

// TickContext is passed to every node during one tick.
type TickContext struct {
	BB        *Blackboard
	DeltaTime time.Duration
	// Transform is the agent body leaves move and rotate. It may be nil for
	// trees that do not move anything.
	Transform physics.Transform

	tree *Tree
}

// Seconds returns the tick delta in seconds.
func (t *TickContext) Seconds() float64 { return t.DeltaTime.Seconds() }

// Run ticks the node with the given id. Composites call it for their children.
func (t *TickContext) Run(id NodeID) (Status, error) {
	n, ok := t.tree.Node(id)
	if !ok {
		return StatusFailure, &BuildError{Tree: t.tree.name, Err: ErrMissingChild}
	}
	st, err := n.Tick(t)
	if err != nil {
		if _, composite := n.(Composite); !composite {
			err = &NodeError{Node: n.Name(), Err: err}
		}
		return StatusFailure, err
	}
	return st, nil
}
