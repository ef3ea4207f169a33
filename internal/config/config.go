package config

import (
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/zeusync/minions/internal/core/minion"
	"github.com/zeusync/minions/internal/core/observability/log"
)

//go:embed defaults/minions.yaml
var defaultYAML []byte

var ErrInvalid = errors.New("invalid config")

// Config is the headless simulation configuration.
type Config struct {
	Log   LogConfig          `yaml:"log"`
	Run   RunConfig          `yaml:"run"`
	Board minion.BoardConfig `yaml:"board"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// RunConfig controls the fixed-step driver loop.
type RunConfig struct {
	Ticks int           `yaml:"ticks"`
	DT    time.Duration `yaml:"dt"`
	// ReportEvery logs a board summary every N ticks; 0 disables it.
	ReportEvery int `yaml:"report_every"`
}

// Default returns the hard-coded configuration used when the embedded
// default cannot be parsed.
func Default() Config {
	p := minion.DefaultParams()
	p.Range = nil
	return Config{
		Log: LogConfig{Level: "info"},
		Run: RunConfig{Ticks: 3000, DT: 20 * time.Millisecond, ReportEvery: 250},
		Board: minion.BoardConfig{
			TilesWide:     10,
			TilesDeep:     10,
			TileSize:      2,
			MaxMinions:    12,
			SpawnInterval: 500 * time.Millisecond,
			Seed:          1,
			Minion:        p,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte { return defaultYAML }

func (c Config) LogLevel() (log.Level, error) {
	return log.ParseLevel(c.Log.Level)
}

func (c Config) Validate() error {
	if c.Run.Ticks < 0 {
		return fmt.Errorf("%w: run.ticks must not be negative", ErrInvalid)
	}
	if c.Run.DT <= 0 {
		return fmt.Errorf("%w: run.dt must be positive", ErrInvalid)
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
