package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/minions/internal/config"
	"github.com/zeusync/minions/internal/core/events/bus"
	"github.com/zeusync/minions/internal/core/minion"
	"github.com/zeusync/minions/internal/core/observability/log"
	"github.com/zeusync/minions/internal/sim"
)

// ProviderSet assembles a headless simulation from a Config.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideEventBus,
	ProvideRunConfig,
	ProvideBoard,
	sim.New,
)

func ProvideLogger(cfg config.Config) (*log.Logger, error) {
	lvl, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	return log.New(lvl), nil
}

func ProvideEventBus() bus.EventBus { return bus.New() }

func ProvideRunConfig(cfg config.Config) config.RunConfig { return cfg.Run }

func ProvideBoard(cfg config.Config, l log.Log, events bus.EventBus) (*minion.Board, error) {
	return minion.NewBoard(cfg.Board, l, events)
}
