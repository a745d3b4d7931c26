// Package registry provides a global registry for game factories.
// Games register themselves in init() functions, allowing the platform
// to discover and instantiate games without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tetris-arcade/internal/core"
)

// Game is the core interface that all arcade games must implement.
// Games contain pure logic with no external dependencies.
// The platform handles input sources, timing, and presentation.
type Game interface {
	// ID returns a unique identifier for this game (e.g., "tetris").
	// Used for CLI commands and run storage.
	ID() string

	// Title returns a human-readable name for display (e.g., "Tetris").
	Title() string

	// Reset initializes or resets the game state.
	// Called once at start and again when restarting after game over.
	// The RuntimeConfig provides the tick rate and RNG seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	// Input is abstracted to platform-level actions (MoveLeft, HardDrop, etc.).
	// Returns the result of this tick including current game state.
	Step(in core.InputFrame) core.StepResult

	// State returns the current game state (score, game over, paused).
	State() core.GameState
}

// Snapshotter is implemented by games that expose a serializable read model.
// The spectator stream and the run recorder use it when available.
type Snapshotter interface {
	SnapshotAny() any
}

// ConfigReporter is implemented by games that load external configuration
// on Reset and fall back to defaults when it is unusable.
type ConfigReporter interface {
	ConfigError() error
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID    string
	Title string

	// Streamable reports whether the game implements Snapshotter.
	Streamable bool
	// Configurable reports whether the game implements ConfigReporter.
	Configurable bool
}

// Factory is a function that creates a new instance of a game.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]GameInfo)
	mu        sync.RWMutex
)

// Register adds a game factory to the registry.
// Typically called from a game's init() function.
// Panics if a game with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f

	infos[id] = describe(id, f())
}

// describe inspects a temporary instance for its title and capabilities.
func describe(id string, g Game) GameInfo {
	_, streamable := g.(Snapshotter)
	_, configurable := g.(ConfigReporter)
	return GameInfo{
		ID:           id,
		Title:        g.Title(),
		Streamable:   streamable,
		Configurable: configurable,
	}
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new game by its ID.
// Returns an error if the game ID is not registered.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}

	return f(), nil
}

// Info returns the metadata recorded for id at registration.
func Info(id string) (GameInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	info, ok := infos[id]
	return info, ok
}

// Prepare resets g with cfg and reports a configuration problem the game
// would otherwise paper over with defaults.
func Prepare(g Game, cfg core.RuntimeConfig) error {
	g.Reset(cfg)
	if cr, ok := g.(ConfigReporter); ok {
		if err := cr.ConfigError(); err != nil {
			return fmt.Errorf("registry: game %q configuration: %w", g.ID(), err)
		}
	}
	return nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
