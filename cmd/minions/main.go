// minions runs a headless board of behavior-tree driven minions.
//
// Usage:
//
//	minions run                    - Run with the default configuration
//	minions run --config sim.yaml  - Run with a custom configuration
//	minions config                 - Print the default configuration
//
// Flags given on the command line override the configuration file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "minions",
	Short: "Headless behavior tree minion simulation",
	Long: `minions spawns agents on a tile board and drives each of them with a
behavior tree: they wander between random points, and attack the closest
enemy that comes within range.

Examples:
  minions run
  minions run --ticks 500 --dt 10ms --log-level debug
  minions run --config ./sim.yaml
  minions config > sim.yaml`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
}
