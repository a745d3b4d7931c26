package stream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tetris-arcade/internal/core"
	"github.com/vovakirdan/tetris-arcade/internal/platform/runner"
	"github.com/vovakirdan/tetris-arcade/internal/registry"
)

// ServerConfig holds configuration for the spectator server.
type ServerConfig struct {
	// Address is the host:port to listen on (e.g., ":8090").
	Address string

	// PublishEvery publishes a snapshot every N ticks. 0 or 1 publishes every tick.
	PublishEvery int

	// RestartDelay is the pause between a finished game and the next one.
	RestartDelay time.Duration
}

// DefaultServerConfig returns a config with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:      ":8090",
		PublishEvery: 2,
		RestartDelay: 3 * time.Second,
	}
}

// Server serves spectator websockets for a single running game.
type Server struct {
	config ServerConfig
	hub    *Hub
	http   *http.Server
	logger *log.Logger
}

// NewServer creates a spectator server. A nil logger writes to stderr.
func NewServer(cfg ServerConfig, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "arcade-stream",
		})
	}
	hub := NewHub(logger)

	mux := http.NewServeMux()
	mux.Handle("/ws", NewHandler(hub))
	mux.HandleFunc("/snapshot", func(w http.ResponseWriter, r *http.Request) {
		data := hub.Latest()
		if data == nil {
			http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "ok %d\n", hub.Count())
	})

	return &Server{
		config: cfg,
		hub:    hub,
		logger: logger,
		http: &http.Server{
			Addr:              cfg.Address,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Hub returns the server's broadcast hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the HTTP handler serving /ws, /snapshot and /healthz.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Play runs game repeatedly with input from src until ctx is canceled,
// publishing snapshots as it goes. Games that do not implement
// registry.Snapshotter publish their GameState instead.
func (s *Server) Play(ctx context.Context, game registry.Game, src runner.InputSource, cfg core.RuntimeConfig) error {
	every := uint64(max(s.config.PublishEvery, 1))
	publish := func() {
		var v any = game.State()
		if snap, ok := game.(registry.Snapshotter); ok {
			v = snap.SnapshotAny()
		}
		if err := s.hub.Publish(v); err != nil {
			s.logger.Error("publish failed", "error", err)
		}
	}

	for round := 1; ; round++ {
		res, err := runner.Run(ctx, game, src, cfg, runner.Options{
			Realtime: true,
			Logger:   s.logger,
			OnTick: func(tick uint64, step core.StepResult) {
				if tick%every == 0 || step.Locked || step.State.GameOver {
					publish()
				}
			},
		})
		if err != nil {
			return err
		}
		if res.Reason == runner.ReasonCanceled || res.Reason == runner.ReasonQuit {
			return nil
		}
		s.logger.Info("game ended, restarting", "round", round, "score", res.State.Score)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.config.RestartDelay):
		}
		cfg.Seed++
	}
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("stream: cannot listen on %s: %w", s.config.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting spectator server", "address", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown disconnects spectators and stops the HTTP server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.hub.Close()
	return s.http.Shutdown(ctx)
}
