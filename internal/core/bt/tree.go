package bt

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/minions/internal/core/events/bus"
	"github.com/zeusync/minions/internal/core/observability/log"
	"github.com/zeusync/minions/internal/core/systems/physics"
)

// Tree lifecycle event types published on the bus.
const (
	EventTreeActivated   = "bt.tree.activated"
	EventTreeDeactivated = "bt.tree.deactivated"
)

// TreeEvent is the payload of tree lifecycle events.
type TreeEvent struct {
	ID   uuid.UUID
	Name string
}

// Tree is a built behavior tree: a node arena, a root and a blackboard.
//
// A tree starts Inactive. Tick on an inactive tree runs nothing and returns
// StatusInvalid. Activate and Deactivate may be called at any time; Tick must
// only be called from one goroutine at a time.
type Tree struct {
	id        uuid.UUID
	name      string
	nodes     []Node
	root      NodeID
	bb        *Blackboard
	transform physics.Transform
	log       log.Log
	events    bus.EventBus

	checked bool
	active  atomic.Bool
}

// Option configures a Tree at build time.
type Option func(*Tree)

func WithLogger(l log.Log) Option { return func(t *Tree) { t.log = l } }

// WithEvents publishes lifecycle events to b.
func WithEvents(b bus.EventBus) Option { return func(t *Tree) { t.events = b } }

// WithTransform sets the transform passed to nodes on every tick.
func WithTransform(tr physics.Transform) Option { return func(t *Tree) { t.transform = tr } }

func WithID(id uuid.UUID) Option { return func(t *Tree) { t.id = id } }

func (t *Tree) ID() uuid.UUID { return t.id }
func (t *Tree) Name() string  { return t.name }
func (t *Tree) Len() int      { return len(t.nodes) }
func (t *Tree) Root() NodeID  { return t.root }

// Node returns the node stored at id.
func (t *Tree) Node(id NodeID) (Node, bool) {
	if id < 0 || int(id) >= len(t.nodes) || t.nodes[id] == nil {
		return nil, false
	}
	return t.nodes[id], true
}

// Blackboard returns the tree's blackboard.
func (t *Tree) Blackboard() *Blackboard {
	if t.bb == nil {
		t.bb = NewBlackboard()
	}
	return t.bb
}

// Transform returns the transform passed to nodes, or nil.
func (t *Tree) Transform() physics.Transform { return t.transform }

func (t *Tree) IsActive() bool { return t.active.Load() }

// Activate makes the tree tick. A tree with a build defect returns a
// *BuildError and stays inactive.
func (t *Tree) Activate() error {
	if !t.checked {
		if err := t.validate(); err != nil {
			t.logger().Warn("tree activation rejected", log.Error(err))
			return err
		}
		t.checked = true
	}
	if !t.active.CompareAndSwap(false, true) {
		return nil
	}
	t.logger().Debug("tree activated")
	t.publish(EventTreeActivated)
	return nil
}

// Deactivate stops ticking. Node state, such as a Wait accumulator, is kept.
func (t *Tree) Deactivate() {
	if !t.active.CompareAndSwap(true, false) {
		return
	}
	t.logger().Debug("tree deactivated")
	t.publish(EventTreeDeactivated)
}

// Tick runs one step of the tree from the root.
func (t *Tree) Tick(dt time.Duration) (Status, error) {
	if !t.active.Load() {
		return StatusInvalid, nil
	}
	ctx := &TickContext{BB: t.Blackboard(), DeltaTime: dt, Transform: t.transform, tree: t}
	st, err := ctx.Run(t.root)
	if err != nil {
		t.logger().Debug("tick error", log.Stringer("status", st), log.Error(err))
	}
	return st, err
}

// Reset clears the local state of every node that keeps any.
func (t *Tree) Reset() {
	for _, n := range t.nodes {
		if r, ok := n.(Resetter); ok {
			r.Reset()
		}
	}
}

func (t *Tree) SetBlackboardValue(key string, v any) error {
	return t.Blackboard().SetValue(key, v)
}

func (t *Tree) GetBlackboardValue(key string) (any, error) {
	return t.Blackboard().Value(key)
}

func (t *Tree) publish(typ string) {
	if t.events == nil {
		return
	}
	ev := bus.NewEvent(typ, t.name, TreeEvent{ID: t.id, Name: t.name})
	if err := t.events.Publish(ev); err != nil {
		t.logger().Warn("lifecycle event handler failed", log.String("event", typ), log.Error(err))
	}
}

func (t *Tree) logger() log.Log {
	if t.log == nil {
		return log.Nop()
	}
	return t.log
}
