package pong

import "math"

// Ball is the game ball. Velocity is in cells per tick before any
// active speed effect; the session applies the effect multiplier at
// move time so expiry never has to un-mutate the velocity.
type Ball struct {
	X, Y   float64
	VX, VY float64
	Radius float64
}

// Move advances the ball by its velocity times the given multiplier.
func (b *Ball) Move(speedScale float64) {
	b.X += b.VX * speedScale
	b.Y += b.VY * speedScale
}

// Speed returns the ball's base speed (before effect multipliers).
func (b *Ball) Speed() float64 {
	return math.Hypot(b.VX, b.VY)
}

// ClampSpeed caps the base speed at max, preserving direction.
func (b *Ball) ClampSpeed(max float64) {
	speed := b.Speed()
	if speed <= max || speed == 0 {
		return
	}
	factor := max / speed
	b.VX *= factor
	b.VY *= factor
}
