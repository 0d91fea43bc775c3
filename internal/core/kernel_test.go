package core

import (
	"math"
	"testing"
)

func TestCircleRectCollide(t *testing.T) {
	paddle := NewRect(10, 10, 2, 6)

	tests := []struct {
		name     string
		cx, cy   float64
		r        float64
		expected bool
	}{
		{"center overlap", 11, 13, 0.5, true},
		{"touching left face", 9.5, 13, 0.5, true},
		{"clear of left face", 9.0, 13, 0.5, false},
		{"touching top face", 11, 9.5, 0.5, true},
		{"corner graze inside radius", 9.7, 9.7, 0.5, true},
		// A bounding-box test would report this diagonal approach as a
		// hit; the closest-point distance is just over the radius.
		{"corner graze outside radius", 9.6, 9.6, 0.5, false},
		{"far away", 0, 0, 0.5, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := CircleRectCollide(tc.cx, tc.cy, tc.r, paddle)
			if result != tc.expected {
				t.Errorf("CircleRectCollide(%v, %v, %v) = %v, expected %v",
					tc.cx, tc.cy, tc.r, result, tc.expected)
			}
		})
	}
}

func TestReflectOffPaddleCenterHit(t *testing.T) {
	// Left paddle, ball arriving from the right dead-center: the ball
	// must leave horizontally with no vertical deflection.
	paddle := NewRect(2, 10, 1, 6)
	vx, vy := ReflectOffPaddle(4, paddle.CenterY(), -1.0, 0, paddle, AxisVertical, 1.0)

	if vx <= 0 {
		t.Errorf("vx = %v, expected positive (away from left paddle)", vx)
	}
	if math.Abs(vy) > 1e-9 {
		t.Errorf("vy = %v, expected 0 for a center hit", vy)
	}
}

func TestReflectOffPaddleEdgeHit(t *testing.T) {
	paddle := NewRect(2, 10, 1, 6)

	// Contact at the very bottom edge deflects downward at MaxBounceAngle.
	vx, vy := ReflectOffPaddle(4, paddle.Bottom(), -1.0, 0, paddle, AxisVertical, 1.0)
	angle := math.Atan2(vy, vx)
	if math.Abs(angle-MaxBounceAngle) > 1e-9 {
		t.Errorf("bottom edge angle = %v, expected %v", angle, MaxBounceAngle)
	}

	// Top edge mirrors it.
	vx, vy = ReflectOffPaddle(4, paddle.Y, -1.0, 0, paddle, AxisVertical, 1.0)
	angle = math.Atan2(vy, vx)
	if math.Abs(angle+MaxBounceAngle) > 1e-9 {
		t.Errorf("top edge angle = %v, expected %v", angle, -MaxBounceAngle)
	}
}

func TestReflectOffPaddleClampsOvershoot(t *testing.T) {
	// Contact point beyond the paddle edge must clamp to MaxBounceAngle,
	// never exceed it.
	paddle := NewRect(2, 10, 1, 6)
	vx, vy := ReflectOffPaddle(4, paddle.Bottom()+3, -1.0, 0, paddle, AxisVertical, 1.0)
	angle := math.Atan2(vy, vx)
	if angle > MaxBounceAngle+1e-9 {
		t.Errorf("angle = %v, exceeds MaxBounceAngle %v", angle, MaxBounceAngle)
	}
}

func TestReflectOffPaddleSpeedScale(t *testing.T) {
	paddle := NewRect(2, 10, 1, 6)
	inSpeed := math.Hypot(-1.2, 0.7)

	vx, vy := ReflectOffPaddle(4, 12, -1.2, 0.7, paddle, AxisVertical, 1.05)
	outSpeed := math.Hypot(vx, vy)

	if math.Abs(outSpeed-inSpeed*1.05) > 1e-9 {
		t.Errorf("out speed = %v, expected %v", outSpeed, inSpeed*1.05)
	}
}

func TestReflectOffPaddleHorizontal(t *testing.T) {
	// Top paddle: normal axis is Y, tangential deflection along X.
	paddle := NewRect(30, 1, 10, 1)

	vx, vy := ReflectOffPaddle(paddle.CenterX(), 3, 0, -1.0, paddle, AxisHorizontal, 1.0)
	if vy <= 0 {
		t.Errorf("vy = %v, expected positive (away from top paddle)", vy)
	}
	if math.Abs(vx) > 1e-9 {
		t.Errorf("vx = %v, expected 0 for a center hit", vx)
	}

	// Right edge of the top paddle deflects to the right.
	vx, _ = ReflectOffPaddle(paddle.Right(), 3, 0, -1.0, paddle, AxisHorizontal, 1.0)
	if vx <= 0 {
		t.Errorf("vx = %v, expected positive for a right-edge hit", vx)
	}
}

func TestRepositionOutside(t *testing.T) {
	paddle := NewRect(10, 10, 2, 6)
	r := 0.5

	// Ball on the right half snaps to just past the right face.
	x, y := RepositionOutside(11.5, 13, r, paddle, AxisVertical)
	if x <= paddle.Right()+r {
		t.Errorf("x = %v, expected strictly beyond %v", x, paddle.Right()+r)
	}
	if y != 13 {
		t.Errorf("y = %v, expected unchanged", y)
	}
	if CircleRectCollide(x, y, r, paddle) {
		t.Error("repositioned ball still collides with paddle")
	}

	// Ball on the left half snaps to just before the left face.
	x, _ = RepositionOutside(10.4, 13, r, paddle, AxisVertical)
	if x >= paddle.X-r {
		t.Errorf("x = %v, expected strictly before %v", x, paddle.X-r)
	}

	// Horizontal paddle snaps along Y.
	top := NewRect(30, 1, 10, 1)
	x, y = RepositionOutside(33, 1.8, r, top, AxisHorizontal)
	if x != 33 {
		t.Errorf("x = %v, expected unchanged", x)
	}
	if y <= top.Bottom()+r {
		t.Errorf("y = %v, expected strictly beyond %v", y, top.Bottom()+r)
	}
}

func TestRotatePreservesSpeed(t *testing.T) {
	vx, vy := 1.3, -0.4
	speed := math.Hypot(vx, vy)

	for _, angle := range []float64{0.05, -0.05, math.Pi / 7, math.Pi} {
		rx, ry := Rotate(vx, vy, angle)
		if math.Abs(math.Hypot(rx, ry)-speed) > 1e-9 {
			t.Errorf("Rotate by %v changed speed: %v -> %v", angle, speed, math.Hypot(rx, ry))
		}
	}

	// A quarter turn maps (1, 0) to (0, 1).
	rx, ry := Rotate(1, 0, math.Pi/2)
	if math.Abs(rx) > 1e-9 || math.Abs(ry-1) > 1e-9 {
		t.Errorf("Rotate(1, 0, pi/2) = (%v, %v), expected (0, 1)", rx, ry)
	}
}
