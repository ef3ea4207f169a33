// Package minion drives agents on a game board with behavior trees.
//
// A Minion owns a body, an arm, a tree and its grab state. The Board spawns
// minions, steps them in parallel and removes the dead ones. Each tree is
// ticked by exactly one goroutine per step.
package minion

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/zeusync/minions/internal/core/bt"
	"github.com/zeusync/minions/internal/core/events/bus"
	"github.com/zeusync/minions/internal/core/observability/log"
	"github.com/zeusync/minions/internal/core/systems/physics"
)

var (
	ErrHandsFull   = errors.New("minion has no free hands")
	ErrNotGrabbing = errors.New("grabber is not holding the minion")
)

// Contact is what a minion perceives of another one.
type Contact struct {
	ID       uuid.UUID
	Position physics.Vec3
}

// StrikeFunc applies damage to the minion with the given id.
type StrikeFunc func(target uuid.UUID, damage int64)

type Minion struct {
	id     uuid.UUID
	name   string
	params Params
	body   *physics.Body
	arm    *physics.Body
	tree   *bt.Tree
	log    log.Log

	health atomic.Int64

	mu        sync.Mutex
	grabbedBy map[string]struct{}

	// Touched only by the goroutine stepping the minion.
	target   uuid.UUID
	cooldown time.Duration
	strike   StrikeFunc
}

type options struct {
	log    log.Log
	events bus.EventBus
	strike StrikeFunc
	seed   int64
}

type Option func(*options)

func WithLogger(l log.Log) Option { return func(o *options) { o.log = l } }

func WithEvents(b bus.EventBus) Option { return func(o *options) { o.events = b } }

// WithStrike routes the minion's attacks.
func WithStrike(f StrikeFunc) Option { return func(o *options) { o.strike = f } }

// WithSeed mixes seed into the name-derived rng seed.
func WithSeed(seed int64) Option { return func(o *options) { o.seed = seed } }

// New creates an active minion at pos running BasicBehavior. Its random
// source is seeded from the name so a replay with the same names is identical.
func New(name string, pos physics.Vec3, p Params, opts ...Option) (*Minion, error) {
	o := options{log: log.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Minion{
		id:        uuid.New(),
		name:      name,
		params:    p,
		body:      physics.NewBody(pos),
		arm:       physics.NewBody(pos),
		log:       o.log.With(log.String("minion", name)),
		grabbedBy: make(map[string]struct{}),
		strike:    o.strike,
	}
	m.health.Store(p.MaxHealth)

	rng := rand.New(rand.NewSource(int64(xxhash.Sum64String(name)) ^ o.seed))
	def := BasicBehavior{Params: p, Arm: m.arm, Rng: rng, Attack: m.attack}
	tree, err := bt.NewTree(name, def,
		bt.WithTransform(m.body),
		bt.WithLogger(o.log),
		bt.WithEvents(o.events),
		bt.WithID(m.id),
	)
	if err != nil {
		return nil, err
	}
	m.tree = tree
	if err := tree.Activate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Minion) ID() uuid.UUID          { return m.id }
func (m *Minion) Name() string           { return m.name }
func (m *Minion) Tree() *bt.Tree         { return m.tree }
func (m *Minion) Body() *physics.Body    { return m.body }
func (m *Minion) Arm() *physics.Body     { return m.arm }
func (m *Minion) Position() physics.Vec3 { return m.body.Position() }
func (m *Minion) Health() int64          { return m.health.Load() }
func (m *Minion) Dead() bool             { return m.health.Load() <= 0 }

// Damage removes hit points and reports whether the minion died from it.
// It is safe to call from other minions' goroutines.
func (m *Minion) Damage(n int64) bool {
	after := m.health.Add(-n)
	return after <= 0 && after+n > 0
}

// Grab holds the minion and stops its behavior while any hand holds it.
func (m *Minion) Grab(by string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.grabbedBy[by]; ok {
		return nil
	}
	if len(m.grabbedBy) >= m.params.MaxHands {
		return ErrHandsFull
	}
	m.grabbedBy[by] = struct{}{}
	if len(m.grabbedBy) == 1 {
		m.tree.Deactivate()
		m.log.Debug("grabbed", log.String("by", by))
	}
	return nil
}

// Release lets go of the minion; it resumes once no hand holds it.
func (m *Minion) Release(by string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.grabbedBy[by]; !ok {
		return ErrNotGrabbing
	}
	delete(m.grabbedBy, by)
	if len(m.grabbedBy) > 0 {
		return nil
	}
	m.log.Debug("released", log.String("by", by))
	return m.tree.Activate()
}

func (m *Minion) IsGrabbed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.grabbedBy) > 0
}

// Hands reports how many grabbers hold the minion.
func (m *Minion) Hands() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.grabbedBy)
}

// Sense picks the closest contact within detection range as the attack
// target. Contacts with the minion's own id are ignored.
func (m *Minion) Sense(contacts []Contact) {
	pos := m.body.Position()
	best, bestDist := uuid.Nil, math.MaxFloat64
	var bestPos physics.Vec3
	for _, c := range contacts {
		if c.ID == m.id {
			continue
		}
		d := pos.Distance(c.Position)
		if d <= m.params.DetectionRange && d < bestDist {
			best, bestDist, bestPos = c.ID, d, c.Position
		}
	}

	bb := m.tree.Blackboard()
	m.target = best
	if best == uuid.Nil {
		bt.Set(bb, KeyAttacking, false)
		return
	}
	bt.Set(bb, KeyAttackTarget, bestPos)
	bt.Set(bb, KeyAttacking, true)
}

// Update senses the contacts then ticks the tree once. The arm stays
// attached to the body.
func (m *Minion) Update(dt time.Duration, contacts []Contact) (bt.Status, error) {
	m.Sense(contacts)
	m.arm.SetPosition(m.body.Position())
	st, err := m.tree.Tick(dt)
	m.arm.SetPosition(m.body.Position())
	return st, err
}

func (m *Minion) attack(t *bt.TickContext) (bt.Status, error) {
	if m.target == uuid.Nil {
		return bt.StatusFailure, nil
	}
	if m.cooldown > 0 {
		m.cooldown -= t.DeltaTime
		if m.cooldown > 0 {
			return bt.StatusRunning, nil
		}
	}
	if m.strike != nil {
		m.strike(m.target, m.params.AttackDamage)
	}
	m.cooldown = m.params.AttackCooldown
	return bt.StatusSuccess, nil
}
