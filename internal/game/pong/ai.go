package pong

import (
	"pong-arena/internal/config"
	"pong-arena/internal/core"
)

// Controller drives a CPU-owned vertical paddle. It re-aims on a slow
// cadence rather than every tick, predicts the ball's arrival point
// with a bounded simulation, and smooths successive targets so the
// paddle glides instead of twitching. Imperfection is deliberate:
// low-skill controllers mis-estimate the arrival point by up to a
// paddle length.
type Controller struct {
	player core.PlayerID
	cfg    config.PongAI
	rng    *SimpleRNG

	target     float64
	haveTarget bool
	lastDecide int
}

// NewController creates a controller for the given paddle.
func NewController(player core.PlayerID, cfg config.PongAI, seed int64) *Controller {
	return &Controller{
		player: player,
		cfg:    cfg,
		rng:    NewSimpleRNG(seed),
	}
}

// Decide returns the movement action for the current tick.
func (c *Controller) Decide(s *Session) core.Action {
	paddle := s.PaddleFor(c.player)
	if paddle == nil {
		return core.ActionNone
	}

	if !c.haveTarget || s.tickCount-c.lastDecide >= c.cfg.DecideTicks {
		c.reaim(s, paddle)
	}

	// Deadzone of one movement step prevents oscillation around the
	// target.
	diff := c.target - paddle.Center()
	switch {
	case diff < -paddle.Speed:
		return core.ActionUp
	case diff > paddle.Speed:
		return core.ActionDown
	default:
		return core.ActionNone
	}
}

// reaim recomputes the target and folds it into the running estimate.
func (c *Controller) reaim(s *Session, paddle *Paddle) {
	var raw float64

	incoming := !s.serving && c.ballApproaching(s, paddle)
	if incoming {
		raw = c.predictImpact(s, paddle)

		skill := s.diff.Skill(c.cfg.MinSkill, c.cfg.MaxSkill, s.totalScore(), s.tickCount)
		if c.rng.Float64() > skill {
			// Deliberate miss: offset by up to a full paddle length.
			raw += (c.rng.Float64()*2 - 1) * paddle.Length()
		}
		// Even a perfect read lands slightly off-center.
		raw += (c.rng.Float64()*2 - 1) * paddle.Length() * 0.15
	} else {
		// Drift loosely around the court center while waiting.
		raw = s.court.CenterY() + (c.rng.Float64()-0.5)*s.court.H*c.cfg.IdleDriftFactor
	}

	if !c.haveTarget {
		c.target = raw
		c.haveTarget = true
	} else {
		a := core.ClampF(c.cfg.Smoothing, 0, 1)
		c.target = a*raw + (1-a)*c.target
	}
	c.lastDecide = s.tickCount
}

// ballApproaching reports whether the ball is heading for the
// controller's wall.
func (c *Controller) ballApproaching(s *Session, paddle *Paddle) bool {
	if paddle.Rect().CenterX() > s.court.CenterX() {
		return s.ball.VX > 0
	}
	return s.ball.VX < 0
}

// predictImpact advances a copy of the ball until it reaches the
// paddle's plane, bouncing off the horizontal walls and treating the
// opposing paddle as a guaranteed return. The step budget bounds the
// loop, so slow or degenerate trajectories return the best estimate
// instead of spinning.
func (c *Controller) predictImpact(s *Session, paddle *Paddle) float64 {
	ball := s.ball
	scale := s.powerups.SpeedScale()
	r := ball.Radius

	rightSide := paddle.Rect().CenterX() > s.court.CenterX()
	var ownPlane, farPlane float64
	if rightSide {
		ownPlane = paddle.Rect().X - r
		farPlane = s.court.X + s.cfg.Paddles.Offset + s.cfg.Paddles.Width + r
	} else {
		ownPlane = paddle.Rect().Right() + r
		farPlane = s.court.Right() - s.cfg.Paddles.Offset - s.cfg.Paddles.Width - r
	}

	for i := 0; i < c.cfg.PredictBudget; i++ {
		ball.Move(scale)

		if ball.Y-r <= s.court.Y && ball.VY < 0 {
			ball.Y = s.court.Y + r
			ball.VY = -ball.VY
		}
		if ball.Y+r >= s.court.Bottom() && ball.VY > 0 {
			ball.Y = s.court.Bottom() - r
			ball.VY = -ball.VY
		}

		if rightSide {
			if ball.VX > 0 && ball.X >= ownPlane {
				return ball.Y
			}
			if ball.VX < 0 && ball.X <= farPlane {
				ball.VX = -ball.VX
			}
		} else {
			if ball.VX < 0 && ball.X <= ownPlane {
				return ball.Y
			}
			if ball.VX > 0 && ball.X >= farPlane {
				ball.VX = -ball.VX
			}
		}
	}
	return ball.Y
}
