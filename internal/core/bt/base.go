package bt

import "fmt"

// BaseNode carries a node's name and its owning tree. Embed it in custom
// nodes so the builder can enforce single ownership.
type BaseNode struct {
	name  string
	owner *Tree
}

// NewBaseNode returns a BaseNode with the given name.
func NewBaseNode(name string) BaseNode { return BaseNode{name: name} }

func (b *BaseNode) Name() string { return b.name }

// Owner returns the tree the node belongs to, or nil before it is added to a builder.
func (b *BaseNode) Owner() *Tree { return b.owner }

func (b *BaseNode) bind(t *Tree) error {
	if b.owner != nil {
		return ErrNodeOwned
	}
	b.owner = t
	return nil
}

type owned interface {
	bind(t *Tree) error
}

// ActionFunc wraps a function as a leaf.
type ActionFunc struct {
	BaseNode
	Fn func(t *TickContext) (Status, error)
}

// NewAction returns an ActionFunc leaf.
func NewAction(name string, fn func(t *TickContext) (Status, error)) *ActionFunc {
	return &ActionFunc{BaseNode: NewBaseNode(name), Fn: fn}
}

func (a *ActionFunc) Tick(t *TickContext) (Status, error) { return a.Fn(t) }

func (a *ActionFunc) Validate() error {
	if a.Fn == nil {
		return fmt.Errorf("%w: action has no function", ErrInvalidParam)
	}
	return nil
}

// ConditionFunc wraps a predicate as a leaf: true is Success, false is Failure.
type ConditionFunc struct {
	BaseNode
	Fn func(t *TickContext) (bool, error)
}

// NewCondition returns a ConditionFunc leaf.
func NewCondition(name string, fn func(t *TickContext) (bool, error)) *ConditionFunc {
	return &ConditionFunc{BaseNode: NewBaseNode(name), Fn: fn}
}

func (c *ConditionFunc) Tick(t *TickContext) (Status, error) {
	ok, err := c.Fn(t)
	if err != nil {
		return StatusFailure, err
	}
	if ok {
		return StatusSuccess, nil
	}
	return StatusFailure, nil
}

func (c *ConditionFunc) Validate() error {
	if c.Fn == nil {
		return fmt.Errorf("%w: condition has no function", ErrInvalidParam)
	}
	return nil
}
