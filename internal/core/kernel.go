package core

import "math"

// Axis describes a paddle's axis of movement. Left/right paddles slide
// vertically and reflect the ball along X; top/bottom paddles slide
// horizontally and reflect along Y.
type Axis int

const (
	AxisVertical Axis = iota
	AxisHorizontal
)

// String returns a human-readable name for the axis.
func (a Axis) String() string {
	if a == AxisHorizontal {
		return "horizontal"
	}
	return "vertical"
}

// MaxBounceAngle is the deflection produced by an edge hit, in radians.
// Contact at the paddle center produces zero deflection.
const MaxBounceAngle = math.Pi / 3

// repositionGap keeps a freshly reflected ball strictly outside the paddle
// so the next tick cannot re-detect the same contact.
const repositionGap = 0.01

// CircleRectCollide reports whether a circle of radius r centered at (cx, cy)
// overlaps the rectangle. Uses the clamped-closest-point test rather than a
// bounding-box check, so corner grazes resolve correctly.
func CircleRectCollide(cx, cy, r float64, rect Rect) bool {
	nearX := ClampF(cx, rect.X, rect.Right())
	nearY := ClampF(cy, rect.Y, rect.Bottom())
	dx := cx - nearX
	dy := cy - nearY
	return dx*dx+dy*dy <= r*r
}

// ReflectOffPaddle computes the ball's outgoing velocity after paddle contact.
// The component along the paddle's normal axis is inverted, overall speed is
// scaled by speedScale, and the tangential component is derived from where
// along the paddle the contact occurred: center hits fly straight, edge hits
// deflect up to MaxBounceAngle.
func ReflectOffPaddle(cx, cy, vx, vy float64, paddle Rect, axis Axis, speedScale float64) (float64, float64) {
	speed := math.Hypot(vx, vy) * speedScale

	if axis == AxisVertical {
		offset := ClampF((cy-paddle.CenterY())/(paddle.H/2), -1, 1)
		angle := offset * MaxBounceAngle
		outX := math.Cos(angle) * speed
		if cx < paddle.CenterX() {
			outX = -outX
		}
		return outX, math.Sin(angle) * speed
	}

	offset := ClampF((cx-paddle.CenterX())/(paddle.W/2), -1, 1)
	angle := offset * MaxBounceAngle
	outY := math.Cos(angle) * speed
	if cy < paddle.CenterY() {
		outY = -outY
	}
	return math.Sin(angle) * speed, outY
}

// RepositionOutside snaps a collided ball to just outside the paddle surface
// along its normal axis. Without this the ball can tunnel into the paddle and
// re-collide on the next tick, sticking to the surface.
func RepositionOutside(cx, cy, r float64, paddle Rect, axis Axis) (float64, float64) {
	if axis == AxisVertical {
		if cx >= paddle.CenterX() {
			return paddle.Right() + r + repositionGap, cy
		}
		return paddle.X - r - repositionGap, cy
	}
	if cy >= paddle.CenterY() {
		return cx, paddle.Bottom() + r + repositionGap
	}
	return cx, paddle.Y - r - repositionGap
}

// Rotate rotates a velocity vector by angle radians, preserving magnitude.
// Callers inject a small random angle to break corner micro-bounce loops.
func Rotate(vx, vy, angle float64) (float64, float64) {
	sin, cos := math.Sincos(angle)
	return vx*cos - vy*sin, vx*sin + vy*cos
}
