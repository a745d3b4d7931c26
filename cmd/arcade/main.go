// arcade runs and streams falling-block puzzle games driven by bots or
// scripted input.
//
// Usage:
//
//	arcade list                - List available games
//	arcade simulate <game>     - Run a game with a bot or an input script
//	arcade serve <game>        - Stream a bot-played game to websocket spectators
//	arcade runs <game>         - Show recorded runs for a game
//	arcade config              - Print the effective game configuration
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.arcade/runs.db)
//	--config <path>       - Use a custom YAML or TOML game config
//	--difficulty <name>   - Difficulty preset: easy, normal, hard, fixed
//	--log-level <level>   - debug, info, warn, error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetris-arcade/internal/config"
	"github.com/vovakirdan/tetris-arcade/internal/games/tetris"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

var logger *log.Logger

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arcade",
	Short: "Tetris Arcade - headless falling-block games for bots and spectators",
	Long: `Tetris Arcade runs a deterministic falling-block puzzle engine at a fixed
tick rate. Games are played by a placement bot, a Lua evaluation script
or a recorded input script, and can be streamed to websocket spectators.

Available commands:
  list      - Show all available games
  simulate  - Run a game with a bot or an input script
  serve     - Stream a bot-played game over websockets
  runs      - View recorded runs
  config    - Print the effective configuration

Examples:
  arcade list
  arcade simulate tetris --seed 42
  arcade simulate tetris --lua ./weights.lua --difficulty hard
  arcade simulate tetris --script ./opening.yaml
  arcade serve tetris --listen :8090
  arcade runs tetris --sort score`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", flagLogLevel, err)
		}
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "arcade",
			Level:           level,
		})

		if flagDifficulty != "" {
			if _, err := config.ParsePreset(flagDifficulty); err != nil {
				return err
			}
		}
		tetris.SetConfigPath(flagConfig)
		tetris.SetDifficultyPreset(flagDifficulty)
		return nil
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config (YAML or TOML)")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(configCmd)
}

// resolveSeed returns the --seed value, or a time-based seed when it is 0.
func resolveSeed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}
