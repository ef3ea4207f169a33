package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zeusync/minions/internal/config"
	"github.com/zeusync/minions/internal/injector"
)

var (
	flagConfig   string
	flagTicks    int
	flagDT       time.Duration
	flagLogLevel string
	flagSeed     int64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation",
	Long: `Run the board for a fixed number of ticks and log a summary.

Configuration search order:
  --config path -> ~/.minions/config.yaml -> ./configs/minions.yaml -> built-in default`,
	Args: cobra.NoArgs,
	RunE: runSimulation,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := cmd.OutOrStdout().Write(config.DefaultYAML())
		return err
	},
}

func init() {
	runCmd.Flags().StringVar(&flagConfig, "config", "", "Path to simulation config YAML")
	runCmd.Flags().IntVar(&flagTicks, "ticks", 0, "Number of ticks to run")
	runCmd.Flags().DurationVar(&flagDT, "dt", 0, "Simulated time per tick")
	runCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	runCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Board RNG seed")
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("ticks") {
		cfg.Run.Ticks = flagTicks
	}
	if flags.Changed("dt") {
		cfg.Run.DT = flagDT
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if flags.Changed("seed") {
		cfg.Board.Seed = flagSeed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	simulation, err := injector.InitializeSimulation(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	_, err = simulation.Run(ctx)
	return err
}
