package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tetris-arcade/internal/core"
	"github.com/vovakirdan/tetris-arcade/internal/platform/stream"
	"github.com/vovakirdan/tetris-arcade/internal/registry"
)

var (
	flagListen       string
	flagPublishEvery int
	flagRestartDelay int
)

var serveCmd = &cobra.Command{
	Use:   "serve <game>",
	Short: "Stream a bot-played game to websocket spectators",
	Long: `Start an HTTP server that streams a continuously bot-played game.

Spectators connect to /ws and receive a JSON snapshot of the game every
few ticks. A new game starts a few seconds after the previous one ends.
/snapshot returns the latest snapshot and /healthz reports the number of
spectators.

Examples:
  arcade serve tetris                    # Listen on :8090
  arcade serve tetris --listen :9000     # Listen on port 9000
  arcade serve tetris --lua ./weights.lua --difficulty hard

Spectators can connect with any websocket client:
  websocat ws://localhost:8090/ws`,
	Args: cobra.ExactArgs(1),
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", ":8090", "HTTP listen address (host:port)")
	serveCmd.Flags().IntVar(&flagPublishEvery, "publish-every", 2, "Publish a snapshot every N ticks")
	serveCmd.Flags().IntVar(&flagRestartDelay, "restart-delay", 3, "Seconds to wait before starting the next game")
	serveCmd.Flags().StringVar(&flagLua, "lua", "", "Lua evaluator script for the bot")
	serveCmd.Flags().BoolVar(&flagNoHold, "no-hold", false, "Disable the bot's use of the hold slot")
}

func runServe(_ *cobra.Command, args []string) {
	gameID := args[0]

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'arcade list' to see available games.")
		os.Exit(1)
	}

	drv, err := newBotDriver(game)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer drv.close()

	runtime := core.RuntimeConfig{TickRate: flagFPS, Seed: resolveSeed()}
	if err := registry.Prepare(game, runtime); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := stream.ServerConfig{
		Address:      flagListen,
		PublishEvery: flagPublishEvery,
		RestartDelay: time.Duration(flagRestartDelay) * time.Second,
	}
	server := stream.NewServer(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Streaming %s on %s\n", game.Title(), cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(ctx)
	})
	g.Go(func() error {
		return server.Play(ctx, game, drv.source, runtime)
	})

	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
