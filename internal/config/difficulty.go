package config

import "time"

// presetTiming holds the gravity curve a preset imposes.
type presetTiming struct {
	baseMs, stepMs, minMs int
}

var presetTimings = map[DifficultyPreset]presetTiming{
	DifficultyEasy:   {baseMs: 1000, stepMs: 50, minMs: 100},
	DifficultyNormal: {baseMs: 800, stepMs: 50, minMs: 50},
	DifficultyHard:   {baseMs: 500, stepMs: 40, minMs: 50},
}

// ApplyTetrisPreset modifies the config based on a difficulty preset.
// Fixed keeps the configured base interval and disables speed-up.
func ApplyTetrisPreset(cfg *TetrisConfig, preset DifficultyPreset) {
	if IsFixedPreset(preset) {
		cfg.Timing.IntervalStepMs = 0
		return
	}
	if t, ok := presetTimings[preset]; ok {
		cfg.Timing.BaseIntervalMs = t.baseMs
		cfg.Timing.IntervalStepMs = t.stepMs
		cfg.Timing.MinIntervalMs = t.minMs
	}

	// Hard also shortens the line-clear pause
	if preset == DifficultyHard {
		cfg.Timing.FlashMs = 200
	}
}

// GravityCurve returns the gravity interval for levels 1..levels.
func GravityCurve(cfg TetrisConfig, levels int) []time.Duration {
	ec := cfg.EngineConfig()
	out := make([]time.Duration, 0, levels)
	for level := 1; level <= levels; level++ {
		out = append(out, ec.DropInterval(level))
	}
	return out
}

// LevelForSpeed returns the first level whose interval is at or below target,
// or 0 if the curve never reaches it.
func LevelForSpeed(cfg TetrisConfig, target time.Duration, maxLevel int) int {
	ec := cfg.EngineConfig()
	for level := 1; level <= maxLevel; level++ {
		if ec.DropInterval(level) <= target {
			return level
		}
	}
	return 0
}
