// Package pong implements the arena's pong simulation: two- and
// four-paddle courts, a CPU opponent, power-ups, and match outcomes.
// Player 1 holds the left wall, Player 2 the right; four-player mode
// adds Player 3 on top and Player 4 on the bottom.
package pong

import "pong-arena/internal/core"

// Paddle is one player's paddle. Length is its extent along its own
// movement axis; Width is its thickness toward the court. The rect is
// recomputed every tick from the base dimensions so size effects
// revert exactly when they expire.
type Paddle struct {
	Owner core.PlayerID
	Axis  core.Axis

	// Position of the leading coordinate along the movement axis
	// (Y for vertical paddles, X for horizontal ones).
	Pos float64

	// Fixed coordinate on the normal axis (X for vertical paddles).
	Wall float64

	BaseLength float64
	Width      float64
	Speed      float64

	lengthScale float64
}

// NewPaddle creates a paddle centered on its wall.
func NewPaddle(owner core.PlayerID, axis core.Axis, wall, center, length, width, speed float64) *Paddle {
	return &Paddle{
		Owner:       owner,
		Axis:        axis,
		Pos:         center - length/2,
		Wall:        wall,
		BaseLength:  length,
		Width:       width,
		Speed:       speed,
		lengthScale: 1.0,
	}
}

// Length returns the current paddle length with size effects applied.
func (p *Paddle) Length() float64 {
	return p.BaseLength * p.lengthScale
}

// SetLengthScale applies a size multiplier, keeping the paddle center
// fixed so growth and shrink feel anchored.
func (p *Paddle) SetLengthScale(scale float64) {
	if scale == p.lengthScale {
		return
	}
	center := p.Pos + p.Length()/2
	p.lengthScale = scale
	p.Pos = center - p.Length()/2
}

// Rect returns the paddle's collision rectangle in court coordinates.
func (p *Paddle) Rect() core.Rect {
	if p.Axis == core.AxisVertical {
		return core.NewRect(p.Wall, p.Pos, p.Width, p.Length())
	}
	return core.NewRect(p.Pos, p.Wall, p.Length(), p.Width)
}

// Center returns the paddle's center coordinate along its movement axis.
func (p *Paddle) Center() float64 {
	return p.Pos + p.Length()/2
}

// Move shifts the paddle along its axis. dir is -1 (toward the lower
// coordinate), 0, or +1.
func (p *Paddle) Move(dir float64) {
	p.Pos += dir * p.Speed
}

// ClampTo keeps the paddle fully inside [lo, hi) along its axis.
func (p *Paddle) ClampTo(lo, hi float64) {
	p.Pos = core.ClampF(p.Pos, lo, hi-p.Length())
}
