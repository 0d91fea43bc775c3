package pong

import (
	"pong-arena/internal/config"
	"pong-arena/internal/core"
)

// PowerUpType represents the different pickup types.
type PowerUpType int

const (
	PowerGiant   PowerUpType = iota // Grow the collector's paddle
	PowerMini                       // Shrink the opponents' paddles
	PowerFast                       // Speed up the ball
	PowerInvert                     // Invert the opponents' controls
	PowerCount                      // Sentinel for counting types
)

// Glyph returns the display character for a power-up type.
func (p PowerUpType) Glyph() rune {
	switch p {
	case PowerGiant:
		return 'G'
	case PowerMini:
		return 'm'
	case PowerFast:
		return '+'
	case PowerInvert:
		return '?'
	default:
		return '*'
	}
}

// String returns the name of the power-up type.
func (p PowerUpType) String() string {
	switch p {
	case PowerGiant:
		return "Giant"
	case PowerMini:
		return "Mini"
	case PowerFast:
		return "Fast"
	case PowerInvert:
		return "Invert"
	default:
		return "?"
	}
}

// PowerUp is a pickup waiting at the court center.
type PowerUp struct {
	Type PowerUpType
	X, Y float64
}

// Effect is an active timed effect bound to a target. Ball-wide
// effects carry PlayerNone as the target.
type Effect struct {
	Type      PowerUpType
	Target    core.PlayerID
	UntilTick int
}

// TicksRemaining returns how many ticks until the effect expires.
func (e *Effect) TicksRemaining(currentTick int) int {
	remaining := e.UntilTick - currentTick
	if remaining < 0 {
		return 0
	}
	return remaining
}

// PowerUpManager handles pickup spawning at the court center,
// collection by the ball, and timed effect expiry. Each effect expires
// independently; collecting the same type again extends it.
type PowerUpManager struct {
	Config  config.PongPowerUps
	Current *PowerUp // Pickup in play, nil between spawns
	Effects []*Effect

	nextSpawnTick int
	rng           *SimpleRNG
}

// NewPowerUpManager creates a power-up manager with the given seed.
func NewPowerUpManager(seed int64, cfg config.PongPowerUps) *PowerUpManager {
	return &PowerUpManager{
		Config:        cfg,
		Effects:       make([]*Effect, 0),
		nextSpawnTick: cfg.SpawnCooldown,
		rng:           NewSimpleRNG(seed),
	}
}

// Reset clears the pickup and all effects.
func (pm *PowerUpManager) Reset(seed int64) {
	pm.Current = nil
	pm.Effects = pm.Effects[:0]
	pm.nextSpawnTick = pm.Config.SpawnCooldown
	pm.rng = NewSimpleRNG(seed)
}

// Update spawns a pickup at (cx, cy) once the cooldown has elapsed.
func (pm *PowerUpManager) Update(currentTick int, cx, cy float64) {
	if !pm.Config.Enabled || pm.Current != nil || currentTick < pm.nextSpawnTick {
		return
	}
	pm.Current = &PowerUp{
		Type: PowerUpType(pm.rng.Intn(int(PowerCount))),
		X:    cx,
		Y:    cy,
	}
}

// CheckBallCollision collects the pickup if the ball overlaps it.
// Returns the collected type, or -1 if nothing was collected.
func (pm *PowerUpManager) CheckBallCollision(ball *Ball, currentTick int) PowerUpType {
	if pm.Current == nil {
		return PowerUpType(-1)
	}
	dx := ball.X - pm.Current.X
	dy := ball.Y - pm.Current.Y
	reach := ball.Radius + pm.Config.PickupRadius
	if dx*dx+dy*dy > reach*reach {
		return PowerUpType(-1)
	}

	collected := pm.Current.Type
	pm.Current = nil
	pm.nextSpawnTick = currentTick + pm.Config.SpawnCooldown
	return collected
}

// AddEffect adds or extends an effect on a target.
func (pm *PowerUpManager) AddEffect(t PowerUpType, target core.PlayerID, currentTick int) {
	duration := pm.duration(t)
	for _, e := range pm.Effects {
		if e.Type == t && e.Target == target {
			e.UntilTick = currentTick + duration
			return
		}
	}
	pm.Effects = append(pm.Effects, &Effect{
		Type:      t,
		Target:    target,
		UntilTick: currentTick + duration,
	})
}

// duration returns the configured lifetime for an effect type.
func (pm *PowerUpManager) duration(t PowerUpType) int {
	switch t {
	case PowerGiant:
		return pm.Config.GiantTicks
	case PowerMini:
		return pm.Config.MiniTicks
	case PowerFast:
		return pm.Config.FastTicks
	case PowerInvert:
		return pm.Config.InvertTicks
	default:
		return 0
	}
}

// ExpireEffects drops effects that have run out.
func (pm *PowerUpManager) ExpireEffects(currentTick int) {
	active := pm.Effects[:0]
	for _, e := range pm.Effects {
		if e.UntilTick > currentTick {
			active = append(active, e)
		}
	}
	pm.Effects = active
}

// HasEffect returns true if the effect is active on the target.
func (pm *PowerUpManager) HasEffect(t PowerUpType, target core.PlayerID) bool {
	for _, e := range pm.Effects {
		if e.Type == t && e.Target == target {
			return true
		}
	}
	return false
}

// PaddleScale returns the size multiplier for a player's paddle given
// the currently active effects.
func (pm *PowerUpManager) PaddleScale(target core.PlayerID) float64 {
	scale := 1.0
	for _, e := range pm.Effects {
		if e.Target != target {
			continue
		}
		switch e.Type {
		case PowerGiant:
			scale *= pm.Config.GiantScale
		case PowerMini:
			scale *= pm.Config.MiniScale
		}
	}
	return scale
}

// SpeedScale returns the ball speed multiplier from active effects.
func (pm *PowerUpManager) SpeedScale() float64 {
	if pm.HasEffect(PowerFast, core.PlayerNone) {
		return pm.Config.FastScale
	}
	return 1.0
}

// Inverted returns true if the player's controls are inverted.
func (pm *PowerUpManager) Inverted(target core.PlayerID) bool {
	return pm.HasEffect(PowerInvert, target)
}

// SimpleRNG is a deterministic pseudo-random number generator.
// Uses a simple LCG (Linear Congruential Generator).
type SimpleRNG struct {
	state uint64
}

// NewSimpleRNG creates a new RNG with the given seed.
func NewSimpleRNG(seed int64) *SimpleRNG {
	s := uint64(seed) //#nosec G115 -- intentional conversion for RNG seeding
	if s == 0 {
		s = 1
	}
	return &SimpleRNG{state: s}
}

// Next generates the next random uint64.
func (r *SimpleRNG) Next() uint64 {
	// LCG parameters (same as MINSTD)
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

// Intn returns a random int in [0, n).
func (r *SimpleRNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n)) //#nosec G115 -- n is always positive
}

// Float64 returns a random float64 in [0, 1).
func (r *SimpleRNG) Float64() float64 {
	return float64(r.Next()) / float64(1<<64)
}
