package config

import (
	_ "embed"
)

//go:embed defaults/tetris.yaml
var defaultTetrisYAML []byte

// DefaultTetrisYAML returns the embedded default configuration file.
func DefaultTetrisYAML() []byte {
	return append([]byte(nil), defaultTetrisYAML...)
}

// DefaultTetrisConfig returns the default Tetris configuration.
func DefaultTetrisConfig() TetrisConfig {
	return TetrisConfig{
		Grid: TetrisGrid{
			Width:  10,
			Height: 20,
		},
		Timing: TetrisTiming{
			BaseIntervalMs:     800,
			IntervalStepMs:     50,
			MinIntervalMs:      50,
			SoftDropIntervalMs: 50,
			FlashMs:            300,
		},
		Scoring: TetrisScoring{
			LinesPerLevel: 10,
			HardDropBonus: 2,
		},
	}
}
