// Package match defines the shared vocabulary of the arena: who plays,
// in which mode, and what a finished match produced. Every other layer
// (game sessions, tournaments, the save queue, storage, the API) speaks
// in these types.
package match

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Mode identifies how a match is played.
type Mode string

const (
	Mode1v1  Mode = "1v1"  // Two human players on one keyboard
	ModeVsAI Mode = "ai"   // One human against the CPU paddle
	ModeFour Mode = "four" // One paddle per wall, four players
)

// PlayerCount returns how many paddles the mode fields.
func (m Mode) PlayerCount() int {
	if m == ModeFour {
		return 4
	}
	return 2
}

// Valid reports whether the mode is one of the known modes.
func (m Mode) Valid() bool {
	switch m {
	case Mode1v1, ModeVsAI, ModeFour:
		return true
	}
	return false
}

// Round tags where in a tournament bracket a match was played.
// Empty for standalone matches.
type Round string

const (
	RoundNone       Round = ""
	RoundSemifinal1 Round = "semifinal_1"
	RoundSemifinal2 Round = "semifinal_2"
	RoundFinal      Round = "final"
)

// Player is a participant identity. CPU players carry IsCPU so result
// records can distinguish them from humans with the same name.
type Player struct {
	ID       string
	Username string
	IsCPU    bool
}

// NewPlayer creates a player with a fresh unique ID.
func NewPlayer(username string) Player {
	return Player{ID: uuid.NewString(), Username: username}
}

// NewCPUPlayer creates a CPU-controlled participant.
func NewCPUPlayer(username string) Player {
	return Player{ID: uuid.NewString(), Username: username, IsCPU: true}
}

// Result records the outcome of one finished match. Usernames and
// Scores are parallel slices in court order.
type Result struct {
	ID        string
	Mode      Mode
	Round     Round
	Usernames []string
	Scores    []int
	Winner    string // Username of the winner
	Simulated bool   // Outcome produced without playing the match out
	PlayedAt  time.Time
	Duration  time.Duration
}

// NewResult creates a result with a fresh ID and the current timestamp.
func NewResult(mode Mode, round Round, usernames []string, scores []int, winner string) Result {
	return Result{
		ID:        uuid.NewString(),
		Mode:      mode,
		Round:     round,
		Usernames: usernames,
		Scores:    scores,
		Winner:    winner,
		PlayedAt:  time.Now(),
	}
}

// Validate checks that the result is well-formed enough to persist.
// A rejected result is a caller bug, not a transient failure, so
// callers should drop it rather than retry.
func (r Result) Validate() error {
	if !r.Mode.Valid() {
		return fmt.Errorf("match: unknown mode %q", r.Mode)
	}
	if len(r.Usernames) != len(r.Scores) {
		return fmt.Errorf("match: %d usernames but %d scores", len(r.Usernames), len(r.Scores))
	}
	if len(r.Usernames) < 2 {
		return fmt.Errorf("match: need at least 2 participants, got %d", len(r.Usernames))
	}
	for i, name := range r.Usernames {
		if name == "" {
			return fmt.Errorf("match: participant %d has no username", i)
		}
	}
	for i, s := range r.Scores {
		if s < 0 {
			return fmt.Errorf("match: negative score %d for %s", s, r.Usernames[i])
		}
	}

	best, bestIdx, tied := -1, -1, false
	for i, s := range r.Scores {
		switch {
		case s > best:
			best, bestIdx, tied = s, i, false
		case s == best:
			tied = true
		}
	}
	if tied {
		return fmt.Errorf("match: tied top score %d, no winner", best)
	}
	if r.Winner != r.Usernames[bestIdx] {
		return fmt.Errorf("match: winner %q does not hold the top score (%s does)", r.Winner, r.Usernames[bestIdx])
	}
	return nil
}
