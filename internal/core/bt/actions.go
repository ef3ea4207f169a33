package bt

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/zeusync/minions/internal/core/systems/physics"
)

// Wait returns Running until the duration stored under its key has elapsed,
// then Success. An infinite duration never completes; NaN is an error. The accumulator is local to the node and restarts after each
// Success; deactivating the tree leaves it untouched.
type Wait struct {
	BaseNode
	durationKey Key[float64]
	elapsed     time.Duration
}

// NewWait returns a Wait reading its duration in seconds from durationKey.
func NewWait(name, durationKey string) *Wait {
	return &Wait{BaseNode: NewBaseNode(name), durationKey: NewKey[float64](durationKey)}
}

func (w *Wait) Tick(t *TickContext) (Status, error) {
	secs, err := w.durationKey.Get(t.BB)
	if err != nil {
		return StatusFailure, err
	}
	if math.IsNaN(secs) {
		return StatusFailure, fmt.Errorf("%w: duration %q is NaN", ErrInvalidParam, w.durationKey.Name())
	}
	w.elapsed += t.DeltaTime
	if w.elapsed.Seconds() >= secs {
		w.elapsed = 0
		return StatusSuccess, nil
	}
	return StatusRunning, nil
}

// Elapsed reports the time accumulated since the last Success.
func (w *Wait) Elapsed() time.Duration { return w.elapsed }

func (w *Wait) Reset() { w.elapsed = 0 }

func (w *Wait) Bindings() []Binding { return []Binding{w.durationKey.Binding()} }

func (w *Wait) Validate() error { return requireKeys(w.durationKey.Name()) }

// GetRandomPoint draws a uniform point inside the box stored under its range
// key as [minX, maxX, minY, maxY, minZ, maxZ] and writes it to its point key.
type GetRandomPoint struct {
	BaseNode
	rangeKey Key[[]float64]
	pointKey Key[physics.Vec3]
	rng      *rand.Rand
}

// NewGetRandomPoint returns a GetRandomPoint leaf. A nil rng is replaced by
// one seeded from the clock.
func NewGetRandomPoint(name, rangeKey, pointKey string, rng *rand.Rand) *GetRandomPoint {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &GetRandomPoint{
		BaseNode: NewBaseNode(name),
		rangeKey: NewKey[[]float64](rangeKey),
		pointKey: NewKey[physics.Vec3](pointKey),
		rng:      rng,
	}
}

func (g *GetRandomPoint) Tick(t *TickContext) (Status, error) {
	r, err := g.rangeKey.Get(t.BB)
	if err != nil {
		return StatusFailure, err
	}
	if len(r) != 6 {
		return StatusFailure, fmt.Errorf("%w: range %q has %d values, want 6", ErrInvalidParam, g.rangeKey.Name(), len(r))
	}
	g.pointKey.Set(t.BB, RandomPointIn(g.rng, r))
	return StatusSuccess, nil
}

// RandomPointIn draws a uniform point inside r, given as
// [minX, maxX, minY, maxY, minZ, maxZ]. An axis with min == max yields min
// exactly, as does every axis when rng is nil. r must hold six values.
func RandomPointIn(rng *rand.Rand, r []float64) physics.Vec3 {
	axis := func(lo, hi float64) float64 {
		if lo == hi || rng == nil {
			return lo
		}
		return lo + rng.Float64()*(hi-lo)
	}
	return physics.V3(axis(r[0], r[1]), axis(r[2], r[3]), axis(r[4], r[5]))
}

func (g *GetRandomPoint) Bindings() []Binding {
	return []Binding{g.rangeKey.Binding(), g.pointKey.Binding()}
}

func (g *GetRandomPoint) Validate() error {
	return requireKeys(g.rangeKey.Name(), g.pointKey.Name())
}

// CheckBool succeeds when the bool under its key is true.
type CheckBool struct {
	BaseNode
	key Key[bool]
}

func NewCheckBool(name, key string) *CheckBool {
	return &CheckBool{BaseNode: NewBaseNode(name), key: NewKey[bool](key)}
}

func (c *CheckBool) Tick(t *TickContext) (Status, error) {
	v, err := c.key.Get(t.BB)
	if err != nil {
		return StatusFailure, err
	}
	if v {
		return StatusSuccess, nil
	}
	return StatusFailure, nil
}

func (c *CheckBool) Bindings() []Binding { return []Binding{c.key.Binding()} }

func (c *CheckBool) Validate() error { return requireKeys(c.key.Name()) }

var errEmptyKey = errors.New("empty blackboard key")

func requireKeys(keys ...string) error {
	for _, k := range keys {
		if k == "" {
			return fmt.Errorf("%w: %w", ErrInvalidParam, errEmptyKey)
		}
	}
	return nil
}
