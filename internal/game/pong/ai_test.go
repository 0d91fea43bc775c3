package pong

import (
	"testing"

	"pong-arena/internal/core"
	"pong-arena/internal/match"
)

func newAISession(t *testing.T, seed int64) *Session {
	t.Helper()
	cfg := testConfig()
	cfg.AI.MinSkill = 1.0 // No deliberate misses in tests
	cfg.AI.MaxSkill = 1.0
	s, err := NewSession(match.ModeVsAI, []match.Player{
		match.NewPlayer("alice"), match.NewCPUPlayer("CPU"),
	}, cfg)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := s.Reset(testRuntime(seed)); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	return s
}

func TestPredictImpactTerminates(t *testing.T) {
	s := newAISession(t, 1)
	paddle := s.PaddleFor(core.Player2)

	// Degenerate trajectories must still return within the budget.
	cases := []Ball{
		{X: 40, Y: 12, VX: 0, VY: 0, Radius: 0.5},       // Stationary
		{X: 40, Y: 12, VX: 0, VY: 0.5, Radius: 0.5},     // Pure vertical
		{X: 40, Y: 12, VX: -0.001, VY: 0.5, Radius: 0.5}, // Glacial drift away
		{X: 40, Y: 12, VX: 3.0, VY: 2.9, Radius: 0.5},   // Fast diagonal
	}

	for i, ball := range cases {
		s.ball = ball
		y := s.ai.predictImpact(s, paddle)
		if y < s.court.Y-1 || y > s.court.Bottom()+1 {
			t.Errorf("case %d: predicted y=%v far outside court", i, y)
		}
	}
}

func TestControllerTracksIncomingBall(t *testing.T) {
	s := newAISession(t, 2)
	paddle := s.PaddleFor(core.Player2)
	s.serving = false

	// Ball heading straight for the right wall, well below the paddle.
	s.ball = Ball{X: 30, Y: paddle.Center() + 8, VX: 0.5, VY: 0, Radius: 0.5}

	if got := s.ai.Decide(s); got != core.ActionDown {
		t.Errorf("Decide() = %v, expected Down toward the impact point", got)
	}

	// And above it.
	s.ai.haveTarget = false
	s.ball = Ball{X: 30, Y: paddle.Center() - 8, VX: 0.5, VY: 0, Radius: 0.5}
	if got := s.ai.Decide(s); got != core.ActionUp {
		t.Errorf("Decide() = %v, expected Up toward the impact point", got)
	}
}

func TestControllerReaimCadence(t *testing.T) {
	s := newAISession(t, 3)
	s.serving = false
	s.ball = Ball{X: 30, Y: 5, VX: 0.5, VY: 0.1, Radius: 0.5}

	s.tickCount = 100
	s.ai.Decide(s)
	target := s.ai.target
	decidedAt := s.ai.lastDecide

	// A wildly different ball one tick later must not re-aim yet.
	s.tickCount = 101
	s.ball = Ball{X: 30, Y: 20, VX: 0.5, VY: -0.4, Radius: 0.5}
	s.ai.Decide(s)
	if s.ai.target != target {
		t.Error("controller re-aimed before its cadence elapsed")
	}
	if s.ai.lastDecide != decidedAt {
		t.Error("lastDecide advanced without a re-aim")
	}

	// After the cadence it does.
	s.tickCount = decidedAt + s.cfg.AI.DecideTicks
	s.ai.Decide(s)
	if s.ai.lastDecide == decidedAt {
		t.Error("controller never re-aimed after its cadence elapsed")
	}
}

func TestControllerSmoothsTargets(t *testing.T) {
	s := newAISession(t, 4)
	s.serving = false
	s.ball = Ball{X: 30, Y: 5, VX: 0.5, VY: 0, Radius: 0.5}

	s.tickCount = 100
	s.ai.Decide(s)
	first := s.ai.target

	// The ball teleports; the smoothed target moves only part way.
	s.ball = Ball{X: 30, Y: 20, VX: 0.5, VY: 0, Radius: 0.5}
	s.tickCount += s.cfg.AI.DecideTicks
	s.ai.Decide(s)
	second := s.ai.target

	if second <= first {
		t.Fatalf("target did not move toward the new impact (%v -> %v)", first, second)
	}
	// With smoothing well below 1 the new target cannot jump all the
	// way to the raw prediction in one step.
	if second >= 19 {
		t.Errorf("target %v jumped straight to the raw prediction", second)
	}
}

func TestAIMatchRunsToCompletion(t *testing.T) {
	cfg := testConfig()
	cfg.Gameplay.WinScore = 2
	s, err := NewSession(match.ModeVsAI, []match.Player{
		match.NewPlayer("alice"), match.NewCPUPlayer("CPU"),
	}, cfg)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := s.Reset(testRuntime(6)); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	empty := core.NewMultiInputFrame()
	for tick := 0; tick < 200000 && s.Phase() != PhaseGameOver; tick++ {
		s.Step(empty)
	}
	if s.Phase() != PhaseGameOver {
		t.Fatal("vs-AI match with an idle human never finished")
	}
	if _, ok := s.Winner(); !ok {
		t.Fatal("finished match has no winner")
	}
}
