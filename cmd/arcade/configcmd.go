package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetris-arcade/internal/config"
)

var (
	flagConfigFormat string
	flagCurveLevels  int
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective game configuration",
	Long: `Print the configuration a new game would use after applying the config
file search order and the --difficulty preset.

Config files are searched in order:
  1. --config <path>
  2. ~/.arcade/configs/tetris.{yaml,yml,toml}
  3. ./configs/tetris.{yaml,yml,toml}
  4. Built-in defaults

Examples:
  arcade config
  arcade config --format toml > ~/.arcade/configs/tetris.toml
  arcade config --difficulty hard --curve 20`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().StringVar(&flagConfigFormat, "format", "yaml", "Output format: yaml or toml")
	configCmd.Flags().IntVar(&flagCurveLevels, "curve", 0, "Also print the gravity interval for this many levels")
}

func runConfig(cmd *cobra.Command, args []string) {
	cfg, err := config.LoadTetris(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if flagDifficulty != "" {
		preset, _ := config.ParsePreset(flagDifficulty)
		config.ApplyTetrisPreset(&cfg, preset)
	}

	if err := cfg.EngineConfig().Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	data, err := config.Encode(cfg, flagConfigFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding config: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)

	if flagCurveLevels > 0 {
		fmt.Println()
		fmt.Println("Gravity curve:")
		for i, d := range config.GravityCurve(cfg, flagCurveLevels) {
			fmt.Printf("  level %-3d %s\n", i+1, d)
		}
		floor := cfg.EngineConfig().MinInterval
		if level := config.LevelForSpeed(cfg, floor, 1000); level > 0 {
			fmt.Printf("  minimum interval %s reached at level %d\n", floor, level)
		}
	}
}
