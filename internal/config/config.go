// Package config provides YAML/TOML configuration loading and difficulty
// presets for the arcade platform.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/tetris-arcade/internal/games/tetris/core"
)

// TetrisConfig contains all configuration for the Tetris game.
type TetrisConfig struct {
	Grid    TetrisGrid    `yaml:"grid" toml:"grid"`
	Timing  TetrisTiming  `yaml:"timing" toml:"timing"`
	Scoring TetrisScoring `yaml:"scoring" toml:"scoring"`
}

// TetrisGrid defines the playfield size.
type TetrisGrid struct {
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`
}

// TetrisTiming defines gravity and animation timing in milliseconds.
type TetrisTiming struct {
	BaseIntervalMs     int `yaml:"base_interval_ms" toml:"base_interval_ms"`
	IntervalStepMs     int `yaml:"interval_step_ms" toml:"interval_step_ms"`
	MinIntervalMs      int `yaml:"min_interval_ms" toml:"min_interval_ms"`
	SoftDropIntervalMs int `yaml:"soft_drop_interval_ms" toml:"soft_drop_interval_ms"`
	FlashMs            int `yaml:"flash_ms" toml:"flash_ms"`
}

// TetrisScoring defines progression and bonus parameters.
type TetrisScoring struct {
	LinesPerLevel int `yaml:"lines_per_level" toml:"lines_per_level"`
	HardDropBonus int `yaml:"hard_drop_bonus" toml:"hard_drop_bonus"`
}

// EngineConfig converts the file representation to the engine's Config.
// Values are not validated here; core.New rejects unusable configurations.
func (c TetrisConfig) EngineConfig() core.Config {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	return core.Config{
		Width:            c.Grid.Width,
		Height:           c.Grid.Height,
		LinesPerLevel:    c.Scoring.LinesPerLevel,
		BaseInterval:     ms(c.Timing.BaseIntervalMs),
		IntervalStep:     ms(c.Timing.IntervalStepMs),
		MinInterval:      ms(c.Timing.MinIntervalMs),
		FlashDuration:    ms(c.Timing.FlashMs),
		SoftDropInterval: ms(c.Timing.SoftDropIntervalMs),
		HardDropBonus:    c.Scoring.HardDropBonus,
	}
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// Presets returns all presets in display order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}
}

// ParsePreset converts a name to a preset. An empty name selects normal.
func ParsePreset(name string) (DifficultyPreset, error) {
	if name == "" {
		return DifficultyNormal, nil
	}
	p := DifficultyPreset(strings.ToLower(name))
	for _, known := range Presets() {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", name)
}

// IsFixedPreset returns true if the preset disables speed progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
