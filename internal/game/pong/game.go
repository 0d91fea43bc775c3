package pong

import (
	"fmt"
	"math"

	"pong-arena/internal/config"
	"pong-arena/internal/core"
	"pong-arena/internal/match"
)

// Visual characters for rendering
const (
	PaddleChar = '█'
	BallChar   = '●'
	NetChar    = '│'
)

// Minimum render surface for a playable court.
const (
	MinScreenW = 40
	MinScreenH = 12
)

// Phase is the lifecycle state of a match session.
type Phase int

const (
	PhaseIdle         Phase = iota // Constructed, not yet started
	PhaseInitializing              // Started, waiting for a render surface
	PhaseRunning                   // Simulation ticking
	PhaseGameOver                  // Winner decided, state frozen
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseInitializing:
		return "initializing"
	case PhaseRunning:
		return "running"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Session is one pong match from start to decided outcome. It owns the
// court, paddles, ball, power-ups, and scores, and advances them one
// tick at a time. All randomness flows through a seeded generator, so
// equal seeds and inputs replay identically.
type Session struct {
	mode    match.Mode
	players []match.Player

	cfg     config.PongConfig
	runtime core.RuntimeConfig
	diff    *config.DifficultyManager

	court    core.Rect
	paddles  []*Paddle
	ball     Ball
	powerups *PowerUpManager
	ai       *Controller

	scores    map[core.PlayerID]int
	phase     Phase
	paused    bool
	winner    core.PlayerID
	simulated bool

	lastTouched     core.PlayerID
	consecutiveHits int
	serving         bool
	serveDelay      int
	tickCount       int
	rng             *SimpleRNG
}

// NewSession creates a session in the idle phase. The players slice is
// in court order: left, right, then top and bottom for four-player.
func NewSession(mode match.Mode, players []match.Player, cfg config.PongConfig) (*Session, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("pong: unknown mode %q", mode)
	}
	if len(players) != mode.PlayerCount() {
		return nil, fmt.Errorf("pong: mode %s needs %d players, got %d", mode, mode.PlayerCount(), len(players))
	}

	return &Session{
		mode:    mode,
		players: players,
		cfg:     cfg,
		diff:    config.NewDifficultyManager(cfg.Difficulty),
		scores:  make(map[core.PlayerID]int),
		phase:   PhaseIdle,
	}, nil
}

// ID returns the unique identifier for this game mode.
func (s *Session) ID() string {
	switch s.mode {
	case match.ModeVsAI:
		return "pong_ai"
	case match.ModeFour:
		return "pong_four"
	default:
		return "pong"
	}
}

// Title returns the display name for this game mode.
func (s *Session) Title() string {
	switch s.mode {
	case match.ModeVsAI:
		return "Pong vs CPU"
	case match.ModeFour:
		return "Pong Royale"
	default:
		return "Pong"
	}
}

// Mode returns the session's match mode.
func (s *Session) Mode() match.Mode { return s.mode }

// Players returns the participants in court order.
func (s *Session) Players() []match.Player { return s.players }

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// Tick returns the number of simulation ticks elapsed.
func (s *Session) Tick() int { return s.tickCount }

// Serving reports whether the ball is waiting on a serve.
func (s *Session) Serving() bool { return s.serving }

// Simulated reports whether the outcome was produced without play.
func (s *Session) Simulated() bool { return s.simulated }

// Begin moves the session from idle to initializing. The simulation
// does not start until Reset succeeds with a usable render surface.
func (s *Session) Begin() error {
	if s.phase != PhaseIdle && s.phase != PhaseGameOver {
		return fmt.Errorf("pong: cannot begin from phase %s", s.phase)
	}
	s.phase = PhaseInitializing
	return nil
}

// Reset builds the court for the given surface and starts the match.
// A surface below the minimum leaves the session initializing so the
// caller can retry once the terminal reports a real size.
func (s *Session) Reset(runtime core.RuntimeConfig) error {
	if runtime.ScreenW < MinScreenW || runtime.ScreenH < MinScreenH {
		if s.phase == PhaseIdle {
			s.phase = PhaseInitializing
		}
		return fmt.Errorf("pong: render surface %dx%d below minimum %dx%d",
			runtime.ScreenW, runtime.ScreenH, MinScreenW, MinScreenH)
	}

	s.runtime = runtime
	s.rng = NewSimpleRNG(runtime.Seed)
	s.diff = config.NewDifficultyManager(s.cfg.Difficulty)

	// Row 0 is the HUD; the court occupies the rest.
	s.court = core.NewRect(0, 1, float64(runtime.ScreenW), float64(runtime.ScreenH-2))

	s.buildPaddles()
	s.powerups = NewPowerUpManager(runtime.Seed+1, s.cfg.PowerUps)
	if s.mode == match.ModeVsAI {
		s.ai = NewController(core.Player2, s.cfg.AI, runtime.Seed+2)
	}

	s.scores = make(map[core.PlayerID]int)
	for i := range s.players {
		s.scores[core.PlayerID(i+1)] = 0
	}
	s.phase = PhaseRunning
	s.paused = false
	s.winner = core.PlayerNone
	s.simulated = false
	s.tickCount = 0
	s.ball.Radius = s.cfg.Physics.BallRadius

	s.startServe(core.PlayerNone)
	return nil
}

// buildPaddles places one paddle per participant on its wall.
func (s *Session) buildPaddles() {
	p := s.cfg.Paddles
	speed := s.cfg.Physics.PaddleSpeed
	s.paddles = s.paddles[:0]

	s.paddles = append(s.paddles,
		NewPaddle(core.Player1, core.AxisVertical, s.court.X+p.Offset, s.court.CenterY(), p.Length, p.Width, speed),
		NewPaddle(core.Player2, core.AxisVertical, s.court.Right()-p.Offset-p.Width, s.court.CenterY(), p.Length, p.Width, speed),
	)
	if s.mode == match.ModeFour {
		s.paddles = append(s.paddles,
			NewPaddle(core.Player3, core.AxisHorizontal, s.court.Y+p.Offset, s.court.CenterX(), p.Length, p.Width, speed),
			NewPaddle(core.Player4, core.AxisHorizontal, s.court.Bottom()-p.Offset-p.Width, s.court.CenterX(), p.Length, p.Width, speed),
		)
	}
}

// startServe centers the ball and aims it at the conceding player's
// wall. PlayerNone picks a random wall for the opening serve.
func (s *Session) startServe(conceder core.PlayerID) {
	s.serving = true
	s.serveDelay = s.cfg.Gameplay.ServeDelayTicks
	s.lastTouched = core.PlayerNone
	s.consecutiveHits = 0

	s.ball.X = s.court.CenterX()
	s.ball.Y = s.court.CenterY()

	if conceder == core.PlayerNone {
		conceder = core.PlayerID(s.rng.Intn(len(s.players)) + 1)
	}

	var base float64
	switch conceder {
	case core.Player1:
		base = math.Pi
	case core.Player2:
		base = 0
	case core.Player3:
		base = -math.Pi / 2
	case core.Player4:
		base = math.Pi / 2
	}
	angle := base + (s.rng.Float64()-0.5)*0.6

	speed := s.diff.Speed(s.cfg.Physics.BallSpeed, s.totalScore(), s.tickCount)
	s.ball.VX = math.Cos(angle) * speed
	s.ball.VY = math.Sin(angle) * speed
}

// totalScore sums all player scores, used to drive difficulty ramps.
func (s *Session) totalScore() int {
	total := 0
	for _, v := range s.scores {
		total += v
	}
	return total
}

// Step advances the simulation by one tick.
func (s *Session) Step(in core.MultiInputFrame) core.StepResult {
	if s.phase != PhaseRunning {
		return core.StepResult{State: s.State()}
	}

	// Handle pause toggle from any player
	for i := range s.players {
		if in.Player(core.PlayerID(i + 1)).Has(core.ActionPause) {
			s.paused = !s.paused
			break
		}
	}
	if s.paused {
		return core.StepResult{State: s.State()}
	}

	s.tickCount++

	s.powerups.ExpireEffects(s.tickCount)
	s.powerups.Update(s.tickCount, s.court.CenterX(), s.court.CenterY())

	// CPU paddle decides before input is applied so its action lands
	// in the same frame as human input.
	if s.ai != nil {
		if action := s.ai.Decide(s); action != core.ActionNone {
			in.Set(core.Player2, action)
		}
	}

	s.updatePaddles(in)

	// Handle serve delay
	if s.serving {
		s.serveDelay--
		if s.serveDelay <= 0 {
			s.serving = false
		}
		// Paddles still move during serve; the ball stays put.
	} else {
		s.updateBall()
	}

	return core.StepResult{State: s.State()}
}

// updatePaddles applies sizes, input, and clamping for every paddle.
func (s *Session) updatePaddles(in core.MultiInputFrame) {
	for _, p := range s.paddles {
		p.SetLengthScale(s.powerups.PaddleScale(p.Owner))

		frame := in.Player(p.Owner)
		up, down := frame.Has(core.ActionUp), frame.Has(core.ActionDown)
		if s.powerups.Inverted(p.Owner) {
			up, down = down, up
		}
		switch {
		case up && !down:
			p.Move(-1)
		case down && !up:
			p.Move(1)
		}

		if p.Axis == core.AxisVertical {
			p.ClampTo(s.court.Y, s.court.Bottom())
		} else {
			p.ClampTo(s.court.X, s.court.Right())
		}
	}
}

// updateBall handles motion, bounces, pickups, and scoring.
func (s *Session) updateBall() {
	s.ball.Move(s.powerups.SpeedScale())
	r := s.ball.Radius

	// In two-paddle modes the top and bottom walls reflect. In
	// four-player mode every wall is a goal.
	if s.mode != match.ModeFour {
		if s.ball.Y-r <= s.court.Y && s.ball.VY < 0 {
			s.ball.Y = s.court.Y + r
			s.ball.VY = -s.ball.VY
		}
		if s.ball.Y+r >= s.court.Bottom() && s.ball.VY > 0 {
			s.ball.Y = s.court.Bottom() - r
			s.ball.VY = -s.ball.VY
		}
	}

	for _, p := range s.paddles {
		if !core.CircleRectCollide(s.ball.X, s.ball.Y, r, p.Rect()) {
			continue
		}
		if !s.movingToward(p) {
			continue
		}

		s.ball.VX, s.ball.VY = core.ReflectOffPaddle(
			s.ball.X, s.ball.Y, s.ball.VX, s.ball.VY,
			p.Rect(), p.Axis, s.cfg.Physics.SpeedUpFactor)
		s.ball.ClampSpeed(s.cfg.Physics.MaxBallSpeed)
		s.ball.X, s.ball.Y = core.RepositionOutside(s.ball.X, s.ball.Y, r, p.Rect(), p.Axis)

		s.lastTouched = p.Owner
		s.consecutiveHits++
		if s.consecutiveHits >= s.cfg.Gameplay.StallHits {
			angle := (s.rng.Float64()*2 - 1) * s.cfg.Gameplay.PerturbAngle
			s.ball.VX, s.ball.VY = core.Rotate(s.ball.VX, s.ball.VY, angle)
			s.consecutiveHits = 0
		}
		break
	}

	// A pickup belongs to whoever drove the ball into it.
	if s.lastTouched != core.PlayerNone {
		if collected := s.powerups.CheckBallCollision(&s.ball, s.tickCount); collected >= 0 {
			s.applyPowerUp(collected, s.lastTouched)
		}
	}

	s.checkScoring()
}

// movingToward reports whether the ball is heading into the paddle's
// wall, filtering out re-contacts on the way back out.
func (s *Session) movingToward(p *Paddle) bool {
	if p.Axis == core.AxisVertical {
		if p.Rect().CenterX() < s.court.CenterX() {
			return s.ball.VX < 0
		}
		return s.ball.VX > 0
	}
	if p.Rect().CenterY() < s.court.CenterY() {
		return s.ball.VY < 0
	}
	return s.ball.VY > 0
}

// applyPowerUp activates an effect for the collector. Beneficial
// effects land on the collector, hostile ones on everyone else.
func (s *Session) applyPowerUp(t PowerUpType, collector core.PlayerID) {
	switch t {
	case PowerGiant:
		s.powerups.AddEffect(PowerGiant, collector, s.tickCount)
	case PowerFast:
		s.powerups.AddEffect(PowerFast, core.PlayerNone, s.tickCount)
	case PowerMini, PowerInvert:
		for i := range s.players {
			id := core.PlayerID(i + 1)
			if id != collector {
				s.powerups.AddEffect(t, id, s.tickCount)
			}
		}
	}
}

// checkScoring detects the ball leaving the court and credits a point.
func (s *Session) checkScoring() {
	r := s.ball.Radius
	conceder := core.PlayerNone

	switch {
	case s.ball.X+r < s.court.X:
		conceder = core.Player1
	case s.ball.X-r > s.court.Right():
		conceder = core.Player2
	case s.mode == match.ModeFour && s.ball.Y+r < s.court.Y:
		conceder = core.Player3
	case s.mode == match.ModeFour && s.ball.Y-r > s.court.Bottom():
		conceder = core.Player4
	}
	if conceder == core.PlayerNone {
		return
	}

	scorer := s.scorerAgainst(conceder)
	s.scores[scorer]++

	if s.scores[scorer] >= s.cfg.Gameplay.WinScore {
		s.phase = PhaseGameOver
		s.winner = scorer
		return
	}
	s.startServe(conceder)
}

// scorerAgainst resolves who gets the point when conceder's wall is
// breached. Two-paddle modes credit the opponent. Four-player mode
// credits the last toucher, or the opposite wall's owner when the ball
// exits untouched or off the conceder's own paddle.
func (s *Session) scorerAgainst(conceder core.PlayerID) core.PlayerID {
	if s.mode != match.ModeFour {
		if conceder == core.Player1 {
			return core.Player2
		}
		return core.Player1
	}

	if s.lastTouched != core.PlayerNone && s.lastTouched != conceder {
		return s.lastTouched
	}
	switch conceder {
	case core.Player1:
		return core.Player2
	case core.Player2:
		return core.Player1
	case core.Player3:
		return core.Player4
	default:
		return core.Player3
	}
}

// SimulateOutcome decides the match without playing it, used when a
// render surface never materializes. Scores are drawn uniformly with
// ties re-rolled, matching the pacing of a real bracket.
func (s *Session) SimulateOutcome(seed int64) match.Result {
	rng := NewSimpleRNG(seed)
	winScore := s.cfg.Gameplay.WinScore
	if winScore <= 0 {
		winScore = 5
	}

	n := len(s.players)
	drawn := make([]int, n)
	ok := false
	for attempt := 0; attempt < 32 && !ok; attempt++ {
		for i := range drawn {
			drawn[i] = rng.Intn(winScore + 1)
		}
		ok = uniqueTop(drawn)
	}
	if !ok {
		// Force a decided outcome rather than loop forever.
		w := rng.Intn(n)
		for i := range drawn {
			drawn[i] = rng.Intn(winScore)
		}
		drawn[w] = winScore
	}

	for i, score := range drawn {
		s.scores[core.PlayerID(i+1)] = score
	}
	s.winner = core.PlayerID(topIndex(drawn) + 1)
	s.phase = PhaseGameOver
	s.simulated = true
	return s.Result()
}

// uniqueTop reports whether the max element appears exactly once.
func uniqueTop(scores []int) bool {
	best, count := -1, 0
	for _, v := range scores {
		switch {
		case v > best:
			best, count = v, 1
		case v == best:
			count++
		}
	}
	return count == 1
}

// topIndex returns the index of the first maximum element.
func topIndex(scores []int) int {
	best, idx := -1, 0
	for i, v := range scores {
		if v > best {
			best, idx = v, i
		}
	}
	return idx
}

// PaddleFor returns the paddle owned by the given player, or nil.
func (s *Session) PaddleFor(id core.PlayerID) *Paddle {
	for _, p := range s.paddles {
		if p.Owner == id {
			return p
		}
	}
	return nil
}

// Ball returns a copy of the current ball state.
func (s *Session) Ball() Ball { return s.ball }

// Court returns the playfield rectangle.
func (s *Session) Court() core.Rect { return s.court }

// Score returns a player's current score.
func (s *Session) Score(id core.PlayerID) int {
	return s.scores[id]
}

// Winner returns the winning participant once the game is over.
func (s *Session) Winner() (match.Player, bool) {
	if s.phase != PhaseGameOver || s.winner == core.PlayerNone {
		return match.Player{}, false
	}
	return s.players[int(s.winner)-1], true
}

// Result builds the persistable outcome of a finished session.
// The round tag is left empty; tournaments stamp their own.
func (s *Session) Result() match.Result {
	usernames := make([]string, len(s.players))
	scores := make([]int, len(s.players))
	for i, p := range s.players {
		usernames[i] = p.Username
		scores[i] = s.scores[core.PlayerID(i+1)]
	}
	winner := ""
	if w, ok := s.Winner(); ok {
		winner = w.Username
	}
	res := match.NewResult(s.mode, match.RoundNone, usernames, scores, winner)
	res.Simulated = s.simulated
	return res
}

// State returns the current game state.
func (s *Session) State() core.GameState {
	return core.GameState{
		GameOver: s.phase == PhaseGameOver,
		Paused:   s.paused,
		Winner:   s.winner,
	}
}
