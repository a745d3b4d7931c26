// Package runner drives registry games headlessly at a fixed tick rate.
// It replaces the interactive loop with pluggable input sources such as
// scripts and the autoplayer.
package runner

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tetris-arcade/internal/core"
	"github.com/vovakirdan/tetris-arcade/internal/registry"
)

// InputSource supplies the input frame for each tick.
// Ticks count from 0 after Reset.
type InputSource interface {
	Next(tick uint64) core.InputFrame
}

// InputFunc adapts a function to InputSource.
type InputFunc func(tick uint64) core.InputFrame

// Next calls f.
func (f InputFunc) Next(tick uint64) core.InputFrame {
	return f(tick)
}

// Idle is an input source that never presses anything.
var Idle InputSource = InputFunc(func(uint64) core.InputFrame {
	return core.NewInputFrame()
})

// Reason explains why a run ended.
type Reason string

const (
	ReasonGameOver Reason = "game_over"
	ReasonMaxTicks Reason = "max_ticks"
	ReasonCanceled Reason = "canceled"
	ReasonQuit     Reason = "quit"
)

// Options controls a run.
type Options struct {
	// MaxTicks stops the run after this many ticks; 0 means no limit.
	MaxTicks uint64

	// Realtime paces ticks with a wall-clock ticker at the configured tick rate.
	// Otherwise ticks run back to back.
	Realtime bool

	// OnTick observes every completed tick.
	OnTick func(tick uint64, res core.StepResult)

	// Logger receives run lifecycle events. Nil discards them.
	Logger *log.Logger
}

// Result summarizes a finished run.
type Result struct {
	Ticks   uint64
	State   core.GameState
	Elapsed time.Duration
	Reason  Reason
	Pieces  uint64
	Lines   int
}

// Run resets game with cfg and steps it with input from src until the game
// ends, MaxTicks is reached, the source sends Quit, or ctx is canceled.
// A canceled context is reported through Result.Reason, not as an error.
func Run(ctx context.Context, game registry.Game, src InputSource, cfg core.RuntimeConfig, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	game.Reset(cfg)
	logger.Debug("run started", "game", game.ID(), "seed", cfg.Seed, "tick_rate", cfg.TickRate)

	var ticker *time.Ticker
	if opts.Realtime {
		ticker = time.NewTicker(cfg.TickDuration())
		defer ticker.Stop()
	}

	start := time.Now()
	var res Result
	finish := func(reason Reason) (Result, error) {
		res.Reason = reason
		res.State = game.State()
		res.Elapsed = time.Since(start)
		logger.Info("run finished",
			"game", game.ID(),
			"reason", reason,
			"ticks", res.Ticks,
			"score", res.State.Score,
			"lines", res.Lines,
		)
		return res, nil
	}

	for {
		if opts.MaxTicks > 0 && res.Ticks >= opts.MaxTicks {
			return finish(ReasonMaxTicks)
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
				return finish(ReasonCanceled)
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			return finish(ReasonCanceled)
		}

		in := src.Next(res.Ticks)
		if in.Has(core.ActionQuit) {
			return finish(ReasonQuit)
		}

		step := game.Step(in)
		res.Ticks++
		if step.Locked {
			res.Pieces++
		}
		res.Lines += step.Cleared
		if opts.OnTick != nil {
			opts.OnTick(res.Ticks, step)
		}

		if step.State.GameOver {
			return finish(ReasonGameOver)
		}
	}
}
