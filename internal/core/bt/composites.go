package bt

import (
	"errors"
	"slices"
)

// Composite nodes: Sequence and Selector. Both are stateless dispatchers, so
// every tick starts again from the first child.

// Sequence runs children left to right until one fails or is still running.
// It succeeds only if every child succeeded this tick; an empty Sequence succeeds.
type Sequence struct {
	BaseNode
	children []NodeID
}

func NewSequence(name string, children ...NodeID) *Sequence {
	return &Sequence{BaseNode: NewBaseNode(name), children: slices.Clone(children)}
}

func (s *Sequence) Children() []NodeID { return slices.Clone(s.children) }

func (s *Sequence) Tick(t *TickContext) (Status, error) {
	for _, id := range s.children {
		st, err := t.Run(id)
		if err != nil {
			return StatusFailure, err
		}
		switch st {
		case StatusFailure:
			return StatusFailure, nil
		case StatusRunning:
			return StatusRunning, nil
		}
	}
	return StatusSuccess, nil
}

// Selector runs children left to right until one succeeds or is still running.
// It fails only if every child failed; an empty Selector fails.
// A child error counts as that child failing; the errors are returned only
// when no child succeeds.
type Selector struct {
	BaseNode
	children []NodeID
}

func NewSelector(name string, children ...NodeID) *Selector {
	return &Selector{BaseNode: NewBaseNode(name), children: slices.Clone(children)}
}

func (s *Selector) Children() []NodeID { return slices.Clone(s.children) }

func (s *Selector) Tick(t *TickContext) (Status, error) {
	var errs error
	for _, id := range s.children {
		st, err := t.Run(id)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		switch st {
		case StatusSuccess:
			return StatusSuccess, nil
		case StatusRunning:
			return StatusRunning, nil
		}
	}
	return StatusFailure, errs
}
