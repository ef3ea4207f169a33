package bt

import (
	"errors"
	"fmt"
)

// Blackboard errors.
var (
	ErrKeyNotFound     = errors.New("blackboard key not found")
	ErrTypeMismatch    = errors.New("blackboard type mismatch")
	ErrUnsupportedType = errors.New("unsupported blackboard value type")
)

// Build errors.
var (
	ErrRootNotSet      = errors.New("root not set")
	ErrMissingChild    = errors.New("missing child")
	ErrSharedChild     = errors.New("child has more than one parent")
	ErrUnreachable     = errors.New("node not reachable from root")
	ErrCycle           = errors.New("cycle in node graph")
	ErrNodeOwned       = errors.New("node already belongs to a tree")
	ErrBuilderUsed     = errors.New("builder already built")
	ErrUnknownNodeType = errors.New("unknown node type")
	ErrInvalidParam    = errors.New("invalid node parameter")
)

// ErrNoTransform is returned by movement leaves ticked without a transform.
var ErrNoTransform = errors.New("no transform to move")

// BuildError reports a defect found while wiring a tree. A tree with a build
// defect never becomes active.
type BuildError struct {
	Tree string
	Node string
	Err  error
}

func (e *BuildError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("bt: build %q: %v", e.Tree, e.Err)
	}
	return fmt.Sprintf("bt: build %q: node %q: %v", e.Tree, e.Node, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// NodeError attaches the failing leaf's name to a tick error.
type NodeError struct {
	Node string
	Err  error
}

func (e *NodeError) Error() string { return e.Node + ": " + e.Err.Error() }

func (e *NodeError) Unwrap() error { return e.Err }

func keyNotFound(key string) error {
	return fmt.Errorf("%w: %q", ErrKeyNotFound, key)
}

func typeMismatch(key string, got, want Kind) error {
	return fmt.Errorf("%w: %q holds %s, want %s", ErrTypeMismatch, key, got, want)
}
