// Package tetris provides the falling-block puzzle game for the arcade.
package tetris

import (
	"math/rand"

	"github.com/vovakirdan/tetris-arcade/internal/config"
	platformcore "github.com/vovakirdan/tetris-arcade/internal/core"
	"github.com/vovakirdan/tetris-arcade/internal/games/tetris/core"
	"github.com/vovakirdan/tetris-arcade/internal/registry"
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Empty or unknown names keep
// the configured timing unchanged.
func SetDifficultyPreset(preset string) {
	if preset == "" {
		difficultyPreset = ""
		return
	}
	p, err := config.ParsePreset(preset)
	if err != nil {
		difficultyPreset = ""
		return
	}
	difficultyPreset = p
}

func init() {
	registry.Register("tetris", func() registry.Game {
		return New()
	})
}

// Game adapts the engine to the platform's fixed-tick Game interface.
type Game struct {
	engine  *core.Engine
	rng     *rand.Rand
	runtime platformcore.RuntimeConfig

	// override bypasses file configuration when set
	override *core.Config
	cfgErr   error

	tick   uint64
	paused bool
}

// Snapshot is the adapter's read model: the engine snapshot plus platform state.
type Snapshot struct {
	Game   string `json:"game"`
	Tick   uint64 `json:"tick"`
	Paused bool   `json:"paused"`
	core.Snapshot
}

// New creates a game that loads its configuration on Reset.
func New() *Game {
	return &Game{}
}

// NewWithConfig creates a game with a fixed engine configuration.
func NewWithConfig(cfg core.Config) *Game {
	return &Game{override: &cfg}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "tetris"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Tetris"
}

// Reset initializes or restarts the game.
// Configuration errors fall back to the engine defaults; see ConfigError.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	g.runtime = cfg
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tick = 0
	g.paused = false
	g.cfgErr = nil

	engineCfg, err := g.loadConfig()
	if err != nil {
		g.cfgErr = err
		engineCfg = core.DefaultConfig()
	}
	engine, err := core.New(engineCfg, g.rng)
	if err != nil {
		g.cfgErr = err
		engine, _ = core.New(core.DefaultConfig(), g.rng)
	}
	g.engine = engine
}

func (g *Game) loadConfig() (core.Config, error) {
	if g.override != nil {
		return *g.override, nil
	}
	cfg, err := config.LoadTetris(configPath)
	if err != nil {
		return core.Config{}, err
	}
	if difficultyPreset != "" {
		config.ApplyTetrisPreset(&cfg, difficultyPreset)
	}
	return cfg.EngineConfig(), nil
}

// ConfigError returns the configuration problem hit by the last Reset, if any.
func (g *Game) ConfigError() error {
	return g.cfgErr
}

// Step advances the game by one tick.
// Actions are applied in InputFrame order, then the engine advances by one
// tick of simulated time.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	g.tick++

	// Handle restart
	if in.Has(platformcore.ActionRestart) && g.engine.GameOver() {
		g.Reset(platformcore.RuntimeConfig{
			TickRate: g.runtime.TickRate,
			Seed:     g.rng.Int63(),
		})
		return platformcore.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if in.Has(platformcore.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused || g.engine.GameOver() {
		return platformcore.StepResult{State: g.State()}
	}

	lockedBefore := g.engine.Locked()
	linesBefore := g.engine.Lines()

	for _, action := range in.Ordered() {
		g.apply(action)
	}
	g.engine.Advance(g.runtime.TickDuration())

	return platformcore.StepResult{
		State:   g.State(),
		Locked:  g.engine.Locked() > lockedBefore,
		Cleared: g.engine.Lines() - linesBefore,
	}
}

// apply maps a platform action onto an engine command.
func (g *Game) apply(action platformcore.Action) bool {
	switch action {
	case platformcore.ActionMoveLeft:
		return g.engine.MoveLeft()
	case platformcore.ActionMoveRight:
		return g.engine.MoveRight()
	case platformcore.ActionRotateCW:
		return g.engine.RotateCW()
	case platformcore.ActionRotateCCW:
		return g.engine.RotateCCW()
	case platformcore.ActionSoftDropStart:
		return g.engine.SoftDropStart()
	case platformcore.ActionSoftDropStop:
		g.engine.SoftDropStop()
		return true
	case platformcore.ActionHardDrop:
		return g.engine.HardDrop()
	case platformcore.ActionHold:
		return g.engine.Hold()
	}
	return false
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	if g.engine == nil {
		return platformcore.GameState{}
	}
	return platformcore.GameState{
		Score:    g.engine.Score(),
		GameOver: g.engine.GameOver(),
		Paused:   g.paused,
	}
}

// Tick returns the number of steps since the last Reset.
func (g *Game) Tick() uint64 {
	return g.tick
}

// Engine exposes the underlying engine for planners and tests.
func (g *Game) Engine() *core.Engine {
	return g.engine
}

// Snapshot captures the current state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Game:     g.ID(),
		Tick:     g.tick,
		Paused:   g.paused,
		Snapshot: g.engine.Snapshot(),
	}
}

// SnapshotAny implements registry.Snapshotter.
func (g *Game) SnapshotAny() any {
	return g.Snapshot()
}

// Ensure Game implements the registry interfaces.
var (
	_ registry.Game        = (*Game)(nil)
	_ registry.Snapshotter = (*Game)(nil)
)
