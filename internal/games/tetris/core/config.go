package core

import (
	"fmt"
	"time"
)

// Config holds the engine's tunables.
type Config struct {
	Width  int
	Height int

	// LinesPerLevel is the number of cleared lines per level step.
	LinesPerLevel int

	// Gravity interval at level L is max(MinInterval, BaseInterval-(L-1)*IntervalStep).
	BaseInterval time.Duration
	IntervalStep time.Duration
	MinInterval  time.Duration

	// FlashDuration is how long cleared rows stay visible before removal.
	FlashDuration time.Duration

	// SoftDropInterval is the gravity interval while soft drop is held.
	SoftDropInterval time.Duration

	// HardDropBonus is awarded per row traveled by a hard drop.
	HardDropBonus int
}

// DefaultConfig returns the standard 10x20 configuration.
func DefaultConfig() Config {
	return Config{
		Width:            10,
		Height:           20,
		LinesPerLevel:    10,
		BaseInterval:     800 * time.Millisecond,
		IntervalStep:     50 * time.Millisecond,
		MinInterval:      50 * time.Millisecond,
		FlashDuration:    300 * time.Millisecond,
		SoftDropInterval: 50 * time.Millisecond,
		HardDropBonus:    2,
	}
}

// DropInterval returns the gravity interval for the given level.
func (c Config) DropInterval(level int) time.Duration {
	if level < 1 {
		level = 1
	}
	d := c.BaseInterval - time.Duration(level-1)*c.IntervalStep
	if d < c.MinInterval {
		return c.MinInterval
	}
	return d
}

// ValidationError describes an unusable configuration.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validation error codes.
const (
	ErrCodeGridTooSmall  = "GRID_TOO_SMALL"
	ErrCodeLinesPerLevel = "BAD_LINES_PER_LEVEL"
	ErrCodeInterval      = "BAD_INTERVAL"
	ErrCodeFlashDuration = "BAD_FLASH_DURATION"
	ErrCodeHardDropBonus = "BAD_HARD_DROP_BONUS"
	ErrCodeNoRandomizer  = "NO_RANDOMIZER"
)

// Validate checks that the configuration can host a game.
// The grid must be at least as large as the biggest piece matrix.
func (c Config) Validate() error {
	if c.Width < MaxPieceSize() || c.Height < MaxPieceSize() {
		return &ValidationError{
			Code:    ErrCodeGridTooSmall,
			Message: fmt.Sprintf("grid %dx%d is smaller than %dx%d", c.Width, c.Height, MaxPieceSize(), MaxPieceSize()),
		}
	}
	if c.LinesPerLevel <= 0 {
		return &ValidationError{
			Code:    ErrCodeLinesPerLevel,
			Message: fmt.Sprintf("lines per level must be positive, got %d", c.LinesPerLevel),
		}
	}
	if c.BaseInterval <= 0 || c.MinInterval <= 0 || c.SoftDropInterval <= 0 {
		return &ValidationError{
			Code:    ErrCodeInterval,
			Message: "base, minimum and soft drop intervals must be positive",
		}
	}
	if c.IntervalStep < 0 {
		return &ValidationError{
			Code:    ErrCodeInterval,
			Message: fmt.Sprintf("interval step must not be negative, got %s", c.IntervalStep),
		}
	}
	if c.FlashDuration < 0 {
		return &ValidationError{
			Code:    ErrCodeFlashDuration,
			Message: fmt.Sprintf("flash duration must not be negative, got %s", c.FlashDuration),
		}
	}
	if c.HardDropBonus < 0 {
		return &ValidationError{
			Code:    ErrCodeHardDropBonus,
			Message: fmt.Sprintf("hard drop bonus must not be negative, got %d", c.HardDropBonus),
		}
	}
	return nil
}
