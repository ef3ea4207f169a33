// Package sim runs a minion board headless with a fixed time step.
package sim

import (
	"context"
	"errors"
	"time"

	"github.com/zeusync/minions/internal/config"
	"github.com/zeusync/minions/internal/core/events/bus"
	"github.com/zeusync/minions/internal/core/minion"
	"github.com/zeusync/minions/internal/core/observability/log"
)

// Summary totals a run.
type Summary struct {
	Ticks     int
	Simulated time.Duration
	Spawned   int
	Died      int
	Alive     int
	Errors    int
}

type Simulation struct {
	run    config.RunConfig
	log    log.Log
	events bus.EventBus
	board  *minion.Board
}

func New(run config.RunConfig, l log.Log, events bus.EventBus, board *minion.Board) *Simulation {
	return &Simulation{run: run, log: l.Named("sim"), events: events, board: board}
}

func (s *Simulation) Board() *minion.Board { return s.board }

// Run steps the board run.Ticks times, or until ctx is done.
func (s *Simulation) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	subs, err := s.count(&sum)
	if err != nil {
		return sum, err
	}
	defer func() {
		for _, sub := range subs {
			_ = s.events.Unsubscribe(sub)
		}
	}()

	s.log.Info("simulation started",
		log.Int("ticks", s.run.Ticks),
		log.Duration("dt", s.run.DT),
	)
	for i := 1; i <= s.run.Ticks; i++ {
		err := ctx.Err()
		var stats minion.StepStats
		if err == nil {
			stats, err = s.board.Step(ctx, s.run.DT)
		}
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				s.log.Warn("simulation interrupted", log.Int("tick", i))
			}
			return sum, err
		}
		sum.Ticks = i
		sum.Simulated += s.run.DT
		sum.Alive = stats.Alive
		sum.Errors += stats.Errors

		if s.run.ReportEvery > 0 && i%s.run.ReportEvery == 0 {
			s.log.Info("board",
				log.Int("tick", i),
				log.Int("alive", stats.Alive),
				log.Int("running", stats.Running),
				log.Int("succeeded", stats.Succeeded),
				log.Int("failed", stats.Failed),
			)
		}
	}
	s.log.Info("simulation finished",
		log.Int("ticks", sum.Ticks),
		log.Duration("simulated", sum.Simulated),
		log.Int("spawned", sum.Spawned),
		log.Int("died", sum.Died),
		log.Int("alive", sum.Alive),
	)
	return sum, nil
}

// count tallies spawns and deaths from the board's events.
func (s *Simulation) count(sum *Summary) ([]bus.Subscription, error) {
	if s.events == nil {
		return nil, nil
	}
	spawned, err := s.events.Subscribe(minion.EventMinionSpawned, func(bus.Event) error {
		sum.Spawned++
		return nil
	})
	if err != nil {
		return nil, err
	}
	died, err := s.events.Subscribe(minion.EventMinionDied, func(bus.Event) error {
		sum.Died++
		return nil
	})
	if err != nil {
		_ = s.events.Unsubscribe(spawned)
		return nil, err
	}
	return []bus.Subscription{spawned, died}, nil
}
