package config

import (
	_ "embed"
)

//go:embed defaults/pong.yaml
var defaultPongYAML []byte

// DefaultPongConfig returns the default Pong configuration.
func DefaultPongConfig() PongConfig {
	return PongConfig{
		Physics: PongPhysics{
			BallSpeed:     0.5,
			PaddleSpeed:   1.0,
			MaxBallSpeed:  3.0,
			SpeedUpFactor: 1.05,
			BallRadius:    0.5,
		},
		Paddles: PongPaddles{
			Length: 5,
			Width:  1,
			Offset: 2,
		},
		Gameplay: PongGameplay{
			WinScore:         5,
			ServeDelayTicks:  60,
			StallHits:        12,
			PerturbAngle:     0.12,
			InitTimeoutTicks: 300, // 5 seconds at 60fps
		},
		AI: PongAI{
			MinSkill:        0.6,
			MaxSkill:        0.85,
			DecideTicks:     60, // Once per second at 60fps
			PredictBudget:   512,
			Smoothing:       0.35,
			IdleDriftFactor: 0.3,
		},
		PowerUps: PongPowerUps{
			Enabled:       true,
			SpawnCooldown: 600, // 10 seconds at 60fps
			PickupRadius:  1.0,
			GiantTicks:    480,
			GiantScale:    1.6,
			MiniTicks:     480,
			MiniScale:     0.6,
			FastTicks:     360,
			FastScale:     1.5,
			InvertTicks:   420,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "time",
				MaxAt: 36000, // 10 minutes at 60fps
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.5,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultPongYAML
}
