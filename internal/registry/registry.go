// Package registry provides a global registry for game mode factories.
// Modes register themselves in init() functions, allowing the platform
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"pong-arena/internal/config"
	"pong-arena/internal/core"
	"pong-arena/internal/match"
)

// Game is the interface the platform drives a match session through.
// Sessions contain pure logic with no external dependencies (especially
// no Bubble Tea). The platform handles input mapping, timing, rendering,
// and result persistence.
type Game interface {
	// ID returns a unique identifier for this mode (e.g. "pong_ai").
	// Used for CLI commands and registry lookup.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Begin moves the session out of idle. The simulation does not run
	// until Reset succeeds with a usable render surface.
	Begin() error

	// Reset builds the court for the given surface and starts the match.
	// It fails (and the session stays initializing) while the surface is
	// below the playable minimum, so the caller retries on resize.
	Reset(cfg core.RuntimeConfig) error

	// Step advances the simulation by one fixed tick. Input is carried
	// per player; CPU paddles are driven inside the session.
	Step(in core.MultiInputFrame) core.StepResult

	// Render draws the current state into the provided screen buffer.
	// The screen is pre-cleared before this call.
	Render(dst *core.Screen)

	// State returns the current game state (game over, paused, winner).
	State() core.GameState

	// Result returns the decided outcome. Only meaningful once State
	// reports game over.
	Result() match.Result

	// SimulateOutcome decides the match without play, for sessions whose
	// render surface never materialized. The session ends game over.
	SimulateOutcome(seed int64) match.Result
}

// GameInfo contains metadata about a registered mode.
type GameInfo struct {
	ID    string
	Title string
	Mode  match.Mode
}

// Factory creates a new session for the given roster. The players slice
// must match the mode's player count.
type Factory func(players []match.Player, cfg config.PongConfig) (Game, error)

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]GameInfo)
	mu        sync.RWMutex
)

// Register adds a mode factory to the registry.
// Typically called from a game package's init() function.
// Panics if a mode with the same ID is already registered.
func Register(info GameInfo, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[info.ID]; exists {
		panic(fmt.Sprintf("registry: mode %q already registered", info.ID))
	}

	factories[info.ID] = f
	infos[info.ID] = info
}

// List returns information about all registered modes, sorted by ID.
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

// Info returns the metadata for a registered mode.
func Info(id string) (GameInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	info, ok := infos[id]
	return info, ok
}

// Create instantiates a new session by mode ID.
// Returns an error if the ID is not registered or the roster is wrong
// for the mode.
func Create(id string, players []match.Player, cfg config.PongConfig) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown mode %q", id)
	}

	return f(players, cfg)
}

// Exists checks if a mode with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
