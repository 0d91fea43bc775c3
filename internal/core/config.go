package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game, as reported to the
// platform after each tick.
type GameState struct {
	GameOver bool     // Whether the game has ended
	Paused   bool     // Whether the game is paused
	Winner   PlayerID // Winning player once GameOver is set
}

// StepResult is returned by a game's Step after each simulation tick.
type StepResult struct {
	State GameState
}
