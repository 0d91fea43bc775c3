// Package config provides YAML-based configuration loading and
// difficulty management for the pong arena.
package config

// PongConfig contains all tunable parameters for a pong session.
type PongConfig struct {
	Physics    PongPhysics      `yaml:"physics"`
	Paddles    PongPaddles      `yaml:"paddles"`
	Gameplay   PongGameplay     `yaml:"gameplay"`
	AI         PongAI           `yaml:"ai"`
	PowerUps   PongPowerUps     `yaml:"power_ups"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// PongPhysics defines ball and paddle motion parameters.
// Speeds are in cells per tick.
type PongPhysics struct {
	BallSpeed     float64 `yaml:"ball_speed"`
	PaddleSpeed   float64 `yaml:"paddle_speed"`
	MaxBallSpeed  float64 `yaml:"max_ball_speed"`
	SpeedUpFactor float64 `yaml:"speed_up_factor"` // Applied on every paddle contact
	BallRadius    float64 `yaml:"ball_radius"`
}

// PongPaddles defines paddle geometry. Length is the extent along the
// paddle's own axis, Width its thickness, Offset the distance from the
// owner's wall.
type PongPaddles struct {
	Length float64 `yaml:"length"`
	Width  float64 `yaml:"width"`
	Offset float64 `yaml:"offset"`
}

// PongGameplay defines match rules and pacing.
type PongGameplay struct {
	WinScore        int     `yaml:"win_score"`
	ServeDelayTicks int     `yaml:"serve_delay_ticks"`
	StallHits       int     `yaml:"stall_hits"`     // Consecutive paddle hits before perturbation
	PerturbAngle    float64 `yaml:"perturb_angle"`  // Max random rotation applied to break loops
	InitTimeoutTicks int    `yaml:"init_timeout_ticks"` // Render surface wait before simulated fallback
}

// PongAI defines CPU paddle behaviour.
type PongAI struct {
	MinSkill        float64 `yaml:"min_skill"`        // Skill at difficulty 0.0
	MaxSkill        float64 `yaml:"max_skill"`        // Skill at difficulty 1.0
	DecideTicks     int     `yaml:"decide_ticks"`     // Ticks between target recomputations
	PredictBudget   int     `yaml:"predict_budget"`   // Max simulation steps per prediction
	Smoothing       float64 `yaml:"smoothing"`        // EWMA weight of the newest target
	IdleDriftFactor float64 `yaml:"idle_drift_factor"` // Fraction of court height for idle wander
}

// PongPowerUps defines the spawn cadence and per-effect parameters.
// Durations and cooldowns are in simulation ticks.
type PongPowerUps struct {
	Enabled       bool    `yaml:"enabled"`
	SpawnCooldown int     `yaml:"spawn_cooldown"`
	PickupRadius  float64 `yaml:"pickup_radius"`
	GiantTicks    int     `yaml:"giant_ticks"`
	GiantScale    float64 `yaml:"giant_scale"`
	MiniTicks     int     `yaml:"mini_ticks"`
	MiniScale     float64 `yaml:"mini_scale"`
	FastTicks     int     `yaml:"fast_ticks"`
	FastScale     float64 `yaml:"fast_scale"`
	InvertTicks   int     `yaml:"invert_ticks"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Added to ball speed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyPongPreset modifies the config based on a difficulty preset.
func ApplyPongPreset(cfg *PongConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust gameplay based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Physics.BallSpeed = 0.4
		cfg.AI.MaxSkill = 0.7
	case DifficultyHard:
		cfg.Physics.BallSpeed = 0.65
		cfg.Paddles.Length = 4
		cfg.AI.MinSkill = 0.8
		cfg.AI.MaxSkill = 0.95
	}
}
