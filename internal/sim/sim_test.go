package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/minions/internal/config"
	"github.com/zeusync/minions/internal/core/events/bus"
	"github.com/zeusync/minions/internal/core/minion"
	"github.com/zeusync/minions/internal/core/observability/log"
)

func newSim(t *testing.T, l log.Log, run config.RunConfig) *Simulation {
	t.Helper()
	cfg := config.Default()
	cfg.Board.SpawnInterval = 10 * time.Millisecond
	cfg.Board.MaxMinions = 4
	events := bus.New()
	board, err := minion.NewBoard(cfg.Board, l, events)
	require.NoError(t, err)
	return New(run, l, events, board)
}

func TestRunSpawnsAndReports(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := log.FromZap(zap.New(core), log.LevelInfo)
	s := newSim(t, l, config.RunConfig{Ticks: 20, DT: 20 * time.Millisecond, ReportEvery: 5})

	sum, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 20, sum.Ticks)
	require.Equal(t, 400*time.Millisecond, sum.Simulated)
	require.Equal(t, 4, sum.Spawned)
	require.Equal(t, sum.Spawned-sum.Died, sum.Alive)
	require.Equal(t, sum.Alive, s.Board().Len())

	require.Equal(t, 4, logs.FilterMessage("board").Len())
	require.Equal(t, 1, logs.FilterMessage("simulation finished").Len())
}

func TestRunStopsWhenCancelled(t *testing.T) {
	s := newSim(t, log.Nop(), config.RunConfig{Ticks: 100, DT: 20 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := s.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Less(t, sum.Ticks, 100)
}
