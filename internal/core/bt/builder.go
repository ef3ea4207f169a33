package bt

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/zeusync/minions/internal/core/observability/log"
)

// Builder wires nodes into a Tree. It is used once: Build validates the
// graph and hands out the tree, after which the builder is spent.
//
// Nodes are owned by the tree they are added to. Adding a node that already
// belongs to another builder is an error reported by Build.
type Builder struct {
	tree  *Tree
	err   error
	built bool
}

// NewBuilder returns a builder for a tree called name.
func NewBuilder(name string) *Builder {
	return &Builder{tree: &Tree{name: name, root: NoNode, bb: NewBlackboard()}}
}

func (b *Builder) Name() string { return b.tree.name }

// Add stores n in the arena and returns its id.
func (b *Builder) Add(n Node) NodeID {
	if n == nil {
		b.fail(&BuildError{Tree: b.tree.name, Err: fmt.Errorf("%w: nil node", ErrInvalidParam)})
		return NoNode
	}
	if o, ok := n.(owned); ok {
		if err := o.bind(b.tree); err != nil {
			b.fail(&BuildError{Tree: b.tree.name, Node: n.Name(), Err: err})
			return NoNode
		}
	}
	b.tree.nodes = append(b.tree.nodes, n)
	return NodeID(len(b.tree.nodes) - 1)
}

func (b *Builder) SetRoot(id NodeID) { b.tree.root = id }

// Set stores an initial blackboard value.
func (b *Builder) Set(key string, v any) {
	if err := b.tree.bb.SetValue(key, v); err != nil {
		b.fail(&BuildError{Tree: b.tree.name, Err: err})
	}
}

// Sequence adds a Sequence over children.
func (b *Builder) Sequence(name string, children ...NodeID) NodeID {
	return b.Add(NewSequence(name, children...))
}

// Selector adds a Selector over children.
func (b *Builder) Selector(name string, children ...NodeID) NodeID {
	return b.Add(NewSelector(name, children...))
}

// Build validates the graph and returns the inactive tree.
func (b *Builder) Build(opts ...Option) (*Tree, error) {
	if b.built {
		return nil, &BuildError{Tree: b.tree.name, Err: ErrBuilderUsed}
	}
	b.built = true
	if b.err != nil {
		return nil, b.err
	}

	t := b.tree
	for _, opt := range opts {
		opt(t)
	}
	if t.id == uuid.Nil {
		t.id = uuid.New()
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	if err := t.checkInitialValues(); err != nil {
		return nil, err
	}
	t.checked = true
	if t.log != nil {
		t.log = t.log.With(log.String("tree", t.name))
	}
	return t, nil
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// NewTree builds def into a new inactive tree.
func NewTree(name string, def Definition, opts ...Option) (*Tree, error) {
	b := NewBuilder(name)
	if err := def.BuildTree(b); err != nil {
		var be *BuildError
		if errors.As(err, &be) {
			return nil, err
		}
		return nil, &BuildError{Tree: name, Err: err}
	}
	return b.Build(opts...)
}

// validate checks the node graph: a root, no dangling or shared children,
// no cycles, every node reachable, consistent key kinds and node-level checks.
func (t *Tree) validate() error {
	if len(t.nodes) == 0 || t.root < 0 || int(t.root) >= len(t.nodes) {
		return &BuildError{Tree: t.name, Err: ErrRootNotSet}
	}

	children := make([][]NodeID, len(t.nodes))
	for i, n := range t.nodes {
		if n == nil {
			return &BuildError{Tree: t.name, Err: fmt.Errorf("%w: nil node at %d", ErrInvalidParam, i)}
		}
		c, ok := n.(Composite)
		if !ok {
			continue
		}
		children[i] = c.Children()
		for _, id := range children[i] {
			if _, ok := t.Node(id); !ok {
				return &BuildError{Tree: t.name, Node: n.Name(), Err: fmt.Errorf("%w: %d", ErrMissingChild, id)}
			}
		}
	}

	const (
		unseen = iota
		visiting
		done
	)
	state := make([]uint8, len(t.nodes))
	var walk func(id NodeID) error
	walk = func(id NodeID) error {
		switch state[id] {
		case visiting:
			return &BuildError{Tree: t.name, Node: t.nodes[id].Name(), Err: ErrCycle}
		case done:
			return nil
		}
		state[id] = visiting
		for _, c := range children[id] {
			if err := walk(c); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}
	if err := walk(t.root); err != nil {
		return err
	}

	parents := make([]int, len(t.nodes))
	for i := range t.nodes {
		for _, c := range children[i] {
			parents[c]++
			if parents[c] > 1 || c == t.root {
				return &BuildError{Tree: t.name, Node: t.nodes[c].Name(), Err: ErrSharedChild}
			}
		}
	}
	for i, s := range state {
		if s != done {
			return &BuildError{Tree: t.name, Node: t.nodes[i].Name(), Err: ErrUnreachable}
		}
	}

	kinds := make(map[string]Binding)
	owners := make(map[string]string)
	for _, n := range t.nodes {
		if v, ok := n.(Validator); ok {
			if err := v.Validate(); err != nil {
				return &BuildError{Tree: t.name, Node: n.Name(), Err: err}
			}
		}
		bd, ok := n.(Binder)
		if !ok {
			continue
		}
		for _, bind := range bd.Bindings() {
			prev, seen := kinds[bind.Key]
			if !seen {
				kinds[bind.Key] = bind
				owners[bind.Key] = n.Name()
				continue
			}
			if prev.Kind != bind.Kind {
				return &BuildError{Tree: t.name, Node: n.Name(), Err: fmt.Errorf(
					"%w: key %q is %s here and %s in %q", ErrTypeMismatch, bind.Key, bind.Kind, prev.Kind, owners[bind.Key])}
			}
		}
	}
	return nil
}

// checkInitialValues rejects initial blackboard values whose kind differs
// from the kind a node binds the key with.
func (t *Tree) checkInitialValues() error {
	for _, n := range t.nodes {
		bd, ok := n.(Binder)
		if !ok {
			continue
		}
		for _, bind := range bd.Bindings() {
			k, ok := t.bb.Kind(bind.Key)
			if ok && k != bind.Kind {
				return &BuildError{Tree: t.name, Node: n.Name(), Err: typeMismatch(bind.Key, k, bind.Kind)}
			}
		}
	}
	return nil
}
