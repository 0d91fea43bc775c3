package pong

import "pong-arena/internal/core"

// Snapshot captures the complete simulation state in primitive fields.
// Floats are scaled to integers so snapshots hash and compare stably.
type Snapshot struct {
	Tick     int
	BallX    int // Position scaled by 1000
	BallY    int
	BallVX   int // Velocity scaled by 1000
	BallVY   int
	Paddles  []int // Axis positions in court order, scaled by 1000
	Scores   []int // Scores in court order
	Phase    int
	Winner   int
	Serving  bool
	LastHit  int
}

// Snapshot returns the current simulation state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:    s.tickCount,
		BallX:   int(s.ball.X * 1000),
		BallY:   int(s.ball.Y * 1000),
		BallVX:  int(s.ball.VX * 1000),
		BallVY:  int(s.ball.VY * 1000),
		Phase:   int(s.phase),
		Winner:  int(s.winner),
		Serving: s.serving,
		LastHit: int(s.lastTouched),
	}
	for _, p := range s.paddles {
		snap.Paddles = append(snap.Paddles, int(p.Pos*1000))
	}
	for i := range s.players {
		snap.Scores = append(snap.Scores, s.scores[core.PlayerID(i+1)])
	}
	return snap
}

// Hash folds the snapshot into a single value (FNV-1a). Two sessions
// stepped identically from the same seed produce equal hashes.
func (sn Snapshot) Hash() uint64 {
	const (
		offset = 14695981039346656037
		prime  = 1099511628211
	)
	h := uint64(offset)
	mix := func(v int) {
		u := uint64(v) //#nosec G115 -- hashing, wraparound is fine
		for i := 0; i < 8; i++ {
			h ^= u & 0xff
			h *= prime
			u >>= 8
		}
	}

	mix(sn.Tick)
	mix(sn.BallX)
	mix(sn.BallY)
	mix(sn.BallVX)
	mix(sn.BallVY)
	for _, p := range sn.Paddles {
		mix(p)
	}
	for _, s := range sn.Scores {
		mix(s)
	}
	mix(sn.Phase)
	mix(sn.Winner)
	if sn.Serving {
		mix(1)
	}
	mix(sn.LastHit)
	return h
}
