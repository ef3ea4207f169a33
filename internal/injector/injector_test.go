package injector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/minions/internal/config"
)

func TestInitializeSimulation(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "error"
	s, err := InitializeSimulation(cfg)
	require.NoError(t, err)
	require.NotNil(t, s.Board())
	require.Zero(t, s.Board().Len())
}

func TestInitializeSimulationRejectsBadBoard(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "error"
	cfg.Board.TileSize = 0
	cfg.Run.DT = time.Millisecond
	_, err := InitializeSimulation(cfg)
	require.Error(t, err)
}

func TestProvideLoggerRejectsUnknownLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "loud"
	_, err := ProvideLogger(cfg)
	require.Error(t, err)
}
