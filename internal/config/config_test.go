package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/minions/internal/core/observability/log"
)

func TestEmbeddedDefaultMatchesHardcoded(t *testing.T) {
	require.Equal(t, Default(), embedded())
	require.NotEmpty(t, DefaultYAML())
}

func TestLoadCustomFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log: {level: debug}
run: {ticks: 10, dt: 50ms}
board:
  max_minions: 2
  minion:
    range: [-1, 1, 0, 0, -1, 1]
    attack_cooldown: 250ms
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 10, cfg.Run.Ticks)
	require.Equal(t, 50*time.Millisecond, cfg.Run.DT)
	require.Equal(t, 250, cfg.Run.ReportEvery)
	require.Equal(t, 2, cfg.Board.MaxMinions)
	require.Equal(t, 10, cfg.Board.TilesWide)
	require.Equal(t, []float64{-1, 1, 0, 0, -1, 1}, cfg.Board.Minion.Range)
	require.Equal(t, 250*time.Millisecond, cfg.Board.Minion.AttackCooldown)
	require.Equal(t, 2.0, cfg.Board.Minion.MoveSpeed)

	lvl, err := cfg.LogLevel()
	require.NoError(t, err)
	require.Equal(t, log.LevelDebug, lvl)
}

func TestLoadMissingCustomFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestParseRejectsInvalid(t *testing.T) {
	_, err := Parse([]byte(`run: {dt: 0s}`), Default(), "inline")
	require.ErrorIs(t, err, ErrInvalid)

	_, err = Parse([]byte(`log: {level: loud}`), Default(), "inline")
	require.ErrorIs(t, err, ErrInvalid)

	_, err = Parse([]byte(`run: [`), Default(), "inline")
	require.ErrorContains(t, err, "failed to parse config inline")
}
