package minion

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/minions/internal/core/bt"
	"github.com/zeusync/minions/internal/core/events/bus"
	"github.com/zeusync/minions/internal/core/observability/log"
	"github.com/zeusync/minions/internal/core/systems/physics"
	"github.com/zeusync/minions/pkg/concurrent"
)

// Board event types.
const (
	EventMinionSpawned = "minion.spawned"
	EventMinionDied    = "minion.died"
)

// MinionEvent is the payload of board events.
type MinionEvent struct {
	ID       uuid.UUID
	Name     string
	Position physics.Vec3
}

// BoardConfig describes the tile board and its spawner.
type BoardConfig struct {
	TilesWide     int           `yaml:"tiles_wide"`
	TilesDeep     int           `yaml:"tiles_deep"`
	TileSize      float64       `yaml:"tile_size"`
	SpawnHeight   float64       `yaml:"spawn_height"`
	MaxMinions    int           `yaml:"max_minions"`
	SpawnInterval time.Duration `yaml:"spawn_interval"`
	Seed          int64         `yaml:"seed"`
	// Workers caps the goroutines stepping minions; 0 runs one per minion.
	Workers int    `yaml:"workers"`
	Minion  Params `yaml:"minion"`
}

// StepStats summarizes one board step.
type StepStats struct {
	Alive     int
	Spawned   int
	Died      int
	Running   int
	Succeeded int
	Failed    int
	Errors    int
}

type tickResult struct {
	status bt.Status
	err    error
}

// Board is a rectangular tile board centred on the origin that spawns
// minions up to a cap and removes the dead ones.
type Board struct {
	cfg    BoardConfig
	params Params
	log    log.Log
	events bus.EventBus
	rng    *rand.Rand

	minions    []*Minion
	index      map[uuid.UUID]*Minion
	sinceSpawn time.Duration
	spawned    int
}

func NewBoard(cfg BoardConfig, l log.Log, events bus.EventBus) (*Board, error) {
	if cfg.TilesWide <= 0 || cfg.TilesDeep <= 0 || cfg.TileSize <= 0 {
		return nil, fmt.Errorf("%w: board needs positive tiles and tile size", ErrInvalidParams)
	}
	if cfg.MaxMinions < 0 {
		return nil, fmt.Errorf("%w: max_minions must not be negative", ErrInvalidParams)
	}
	if l == nil {
		l = log.Nop()
	}
	b := &Board{
		cfg:    cfg,
		params: cfg.Minion,
		log:    l.Named("board"),
		events: events,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		index:  make(map[uuid.UUID]*Minion),
	}
	if len(b.params.Range) == 0 {
		b.params.Range = b.Bounds()
	}
	if err := b.params.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Board) Width() float64 { return b.cfg.TileSize * float64(b.cfg.TilesWide) }
func (b *Board) Depth() float64 { return b.cfg.TileSize * float64(b.cfg.TilesDeep) }

// Bounds returns the walkable box as [minX, maxX, minY, maxY, minZ, maxZ].
func (b *Board) Bounds() []float64 {
	x, z := b.Width()/2, b.Depth()/2
	y := b.cfg.SpawnHeight
	return []float64{-x, x, y, y, -z, z}
}

// Tiles returns the tile centres front to back, left to right.
func (b *Board) Tiles() []physics.Vec3 {
	startX, startZ := -b.Width()/2, -b.Depth()/2
	half := b.cfg.TileSize / 2
	y := -b.cfg.TileSize
	out := make([]physics.Vec3, 0, b.cfg.TilesWide*b.cfg.TilesDeep)
	for i := 0; i < b.cfg.TilesDeep; i++ {
		z := startZ + b.cfg.TileSize*float64(i) + half
		for j := 0; j < b.cfg.TilesWide; j++ {
			out = append(out, physics.V3(startX+b.cfg.TileSize*float64(j)+half, y, z))
		}
	}
	return out
}

func (b *Board) Len() int { return len(b.minions) }

// Minions returns the live minions in spawn order.
func (b *Board) Minions() []*Minion { return slices.Clone(b.minions) }

func (b *Board) Minion(id uuid.UUID) (*Minion, bool) {
	m, ok := b.index[id]
	return m, ok
}

// Spawn places a new minion at pos regardless of the cap.
func (b *Board) Spawn(pos physics.Vec3) (*Minion, error) {
	name := fmt.Sprintf("minion-%04d", b.spawned)
	m, err := New(name, pos, b.params,
		WithLogger(b.log),
		WithEvents(b.events),
		WithStrike(b.strike),
		WithSeed(b.cfg.Seed),
	)
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", name, err)
	}
	b.spawned++
	b.minions = append(b.minions, m)
	b.index[m.ID()] = m
	b.log.Debug("minion spawned", log.String("minion", name), log.Float64("x", pos.X), log.Float64("z", pos.Z))
	b.publish(EventMinionSpawned, m)
	return m, nil
}

// Step advances the board by dt: spawn if due, tick every minion in
// parallel, then remove the dead.
func (b *Board) Step(ctx context.Context, dt time.Duration) (StepStats, error) {
	var stats StepStats
	if len(b.minions) < b.cfg.MaxMinions && b.sinceSpawn > b.cfg.SpawnInterval {
		bounds := b.Bounds()
		pos := physics.V3(
			bounds[0]+b.rng.Float64()*(bounds[1]-bounds[0]),
			b.cfg.SpawnHeight,
			bounds[4]+b.rng.Float64()*(bounds[5]-bounds[4]),
		)
		if _, err := b.Spawn(pos); err != nil {
			return stats, err
		}
		b.sinceSpawn = 0
		stats.Spawned++
	} else {
		b.sinceSpawn += dt
	}

	contacts := make([]Contact, 0, len(b.minions))
	for _, m := range b.minions {
		if !m.Dead() {
			contacts = append(contacts, Contact{ID: m.ID(), Position: m.Position()})
		}
	}

	results, err := concurrent.Map(ctx, b.minions, b.cfg.Workers, func(_ context.Context, m *Minion) (tickResult, error) {
		st, err := m.Update(dt, contacts)
		return tickResult{status: st, err: err}, nil
	})
	if err != nil {
		return stats, err
	}

	for i, r := range results {
		switch r.status {
		case bt.StatusRunning:
			stats.Running++
		case bt.StatusSuccess:
			stats.Succeeded++
		case bt.StatusFailure:
			stats.Failed++
		}
		if r.err != nil {
			stats.Errors++
			b.log.Debug("minion tick failed", log.String("minion", b.minions[i].Name()), log.Error(r.err))
		}
	}

	alive := b.minions[:0]
	for _, m := range b.minions {
		if !m.Dead() {
			alive = append(alive, m)
			continue
		}
		m.Tree().Deactivate()
		delete(b.index, m.ID())
		stats.Died++
		b.log.Info("minion died", log.String("minion", m.Name()))
		b.publish(EventMinionDied, m)
	}
	clear(b.minions[len(alive):])
	b.minions = alive
	stats.Alive = len(b.minions)
	return stats, nil
}

func (b *Board) strike(target uuid.UUID, damage int64) {
	if m, ok := b.index[target]; ok {
		m.Damage(damage)
	}
}

func (b *Board) publish(typ string, m *Minion) {
	if b.events == nil {
		return
	}
	ev := bus.NewEvent(typ, m.Name(), MinionEvent{ID: m.ID(), Name: m.Name(), Position: m.Position()})
	if err := b.events.Publish(ev); err != nil {
		b.log.Warn("board event handler failed", log.String("event", typ), log.Error(err))
	}
}
