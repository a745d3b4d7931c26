package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetris-arcade/internal/bot"
	"github.com/vovakirdan/tetris-arcade/internal/core"
	"github.com/vovakirdan/tetris-arcade/internal/games/tetris/script"
	"github.com/vovakirdan/tetris-arcade/internal/platform/runner"
	"github.com/vovakirdan/tetris-arcade/internal/registry"
	"github.com/vovakirdan/tetris-arcade/internal/storage"
)

var (
	flagLua      string
	flagScript   string
	flagMaxTicks uint64
	flagRealtime bool
	flagNoHold   bool
	flagNoSave   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <game>",
	Short: "Run a game with a bot or an input script",
	Long: `Run the specified game headless until it ends.

Input sources:
  (default)       - Placement bot with the built-in heuristic
  --lua <file>    - Placement bot scoring boards with a Lua evaluate(f) function
  --script <file> - Replay a YAML input script (its seed and tick rate win)

The finished run is recorded in the runs database unless --no-save is set.

Examples:
  arcade simulate tetris
  arcade simulate tetris --seed 7 --max-ticks 36000
  arcade simulate tetris --lua ./weights.lua
  arcade simulate tetris --script ./opening.yaml --no-save`,
	Args: cobra.ExactArgs(1),
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&flagLua, "lua", "", "Lua evaluator script for the bot")
	simulateCmd.Flags().StringVar(&flagScript, "script", "", "YAML input script to replay")
	simulateCmd.Flags().Uint64Var(&flagMaxTicks, "max-ticks", 0, "Stop after this many ticks (0 = until game over)")
	simulateCmd.Flags().BoolVar(&flagRealtime, "realtime", false, "Pace ticks at the tick rate instead of running flat out")
	simulateCmd.Flags().BoolVar(&flagNoHold, "no-hold", false, "Disable the bot's use of the hold slot")
	simulateCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the run")
	simulateCmd.MarkFlagsMutuallyExclusive("lua", "script")
}

// driver is an input source plus what to record about it.
type driver struct {
	source runner.InputSource
	label  string
	close  func()
}

// newBotDriver builds a placement bot for game, optionally scoring with a Lua script.
func newBotDriver(game registry.Game) (*driver, error) {
	provider, ok := game.(bot.EngineProvider)
	if !ok {
		return nil, fmt.Errorf("game %q cannot be played by the bot", game.ID())
	}

	var eval bot.Evaluator = bot.DefaultHeuristic()
	label := "bot"
	closeFn := func() {}
	if flagLua != "" {
		lev, err := bot.NewLuaEvaluator(flagLua, bot.DefaultHeuristic(), logger)
		if err != nil {
			return nil, err
		}
		eval = lev
		label = "lua:" + filepath.Base(flagLua)
		closeFn = func() {
			if n := lev.Failures(); n > 0 {
				logger.Warn("lua evaluator fell back to heuristic", "failures", n)
			}
			lev.Close()
		}
	}

	player := bot.NewPlayer(provider, eval, bot.WithHold(!flagNoHold), bot.WithLogger(logger))
	return &driver{source: player, label: label, close: closeFn}, nil
}

func runSimulate(cmd *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'arcade list' to see available games.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	cfg := core.RuntimeConfig{TickRate: flagFPS, Seed: resolveSeed()}
	opts := runner.Options{
		MaxTicks: flagMaxTicks,
		Realtime: flagRealtime,
		Logger:   logger,
	}

	var drv *driver
	if flagScript != "" {
		sc, err := script.Load(flagScript)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading script: %v\n", err)
			os.Exit(1)
		}
		if sc.Game != gameID {
			fmt.Fprintf(os.Stderr, "Error: script %s is for game %q, not %q\n", flagScript, sc.Game, gameID)
			os.Exit(1)
		}
		cfg = sc.RuntimeConfig()
		if opts.MaxTicks == 0 {
			opts.MaxTicks = sc.TickLimit()
		}
		drv = &driver{source: sc.Source(), label: "script:" + sc.Name, close: func() {}}
	} else {
		drv, err = newBotDriver(game)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	defer drv.close()

	if err := registry.Prepare(game, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("simulating", "game", gameID, "seed", cfg.Seed, "source", drv.label, "tick_rate", cfg.TickRate)
	res, err := runner.Run(ctx, game, drv.source, cfg, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}

	level := 0
	if p, ok := game.(bot.EngineProvider); ok && p.Engine() != nil {
		level = p.Engine().Level()
	}

	fmt.Printf("Game:     %s\n", game.Title())
	fmt.Printf("Seed:     %d\n", cfg.Seed)
	fmt.Printf("Source:   %s\n", drv.label)
	fmt.Printf("Ended:    %s after %d ticks (%s)\n", res.Reason, res.Ticks, res.Elapsed.Round(time.Millisecond))
	fmt.Printf("Score:    %d\n", res.State.Score)
	fmt.Printf("Lines:    %d\n", res.Lines)
	fmt.Printf("Level:    %d\n", level)
	fmt.Printf("Pieces:   %d\n", res.Pieces)

	if flagNoSave {
		return
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	id, err := store.SaveRun(storage.RunRecord{
		GameID:    gameID,
		Seed:      cfg.Seed,
		Source:    drv.label,
		Score:     res.State.Score,
		Lines:     res.Lines,
		Level:     level,
		Pieces:    res.Pieces,
		Ticks:     res.Ticks,
		EndReason: string(res.Reason),
		Duration:  res.Elapsed,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error saving run: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("run recorded", "id", id, "db", flagDBPath)
}
