// Package tournament runs four-player single-elimination brackets:
// two semifinals feeding a final. The orchestrator paces the matches
// with an intermission between rounds and refuses to start a match
// while the previous result is still being saved.
package tournament

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pong-arena/internal/match"
)

// ErrBracketCorrupt is returned when a finalist cannot be resolved
// from the semifinal results. The bracket is aborted rather than
// guessed at; an unearned spot in a final is worse than no final.
var ErrBracketCorrupt = errors.New("tournament: bracket corrupt")

// Stage is the bracket's progression state.
type Stage int

const (
	StageRegistration Stage = iota
	StageSemifinal1
	StageSemifinal2
	StageFinal
	StageComplete
	StageAborted
)

// String returns a human-readable name for the stage.
func (s Stage) String() string {
	switch s {
	case StageRegistration:
		return "registration"
	case StageSemifinal1:
		return "semifinal_1"
	case StageSemifinal2:
		return "semifinal_2"
	case StageFinal:
		return "final"
	case StageComplete:
		return "complete"
	case StageAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Slot is one match in the bracket.
type Slot struct {
	Round   match.Round
	Players [2]match.Player
	Result  *match.Result
}

// Played reports whether the slot has a recorded result.
func (s *Slot) Played() bool { return s.Result != nil }

// winner resolves the slot's winning player from its result.
func (s *Slot) winner() (match.Player, error) {
	if s.Result == nil {
		return match.Player{}, fmt.Errorf("%w: %s not played", ErrBracketCorrupt, s.Round)
	}
	for _, p := range s.Players {
		if p.Username == s.Result.Winner {
			return p, nil
		}
	}
	return match.Player{}, fmt.Errorf("%w: winner %q of %s is not a participant",
		ErrBracketCorrupt, s.Result.Winner, s.Round)
}

// Bracket is a four-player single-elimination tree. Seeding is by
// roster order: the first two players meet in semifinal 1, the last
// two in semifinal 2.
type Bracket struct {
	ID        string
	Players   [4]match.Player
	Semi1     Slot
	Semi2     Slot
	Final     Slot
	Stage     Stage
	CreatedAt time.Time
}

// NewBracket seeds a bracket from a roster of four.
func NewBracket(players [4]match.Player) (*Bracket, error) {
	seen := make(map[string]bool, 4)
	for i, p := range players {
		if p.Username == "" {
			return nil, fmt.Errorf("tournament: player %d has no username", i+1)
		}
		if seen[p.Username] {
			return nil, fmt.Errorf("tournament: duplicate username %q", p.Username)
		}
		seen[p.Username] = true
	}

	return &Bracket{
		ID:        uuid.NewString(),
		Players:   players,
		Semi1:     Slot{Round: match.RoundSemifinal1, Players: [2]match.Player{players[0], players[1]}},
		Semi2:     Slot{Round: match.RoundSemifinal2, Players: [2]match.Player{players[2], players[3]}},
		Final:     Slot{Round: match.RoundFinal},
		Stage:     StageRegistration,
		CreatedAt: time.Now(),
	}, nil
}

// NextSlot returns the slot that should be played next. Reaching the
// final resolves both finalists; a missing finalist aborts the
// bracket with ErrBracketCorrupt.
func (b *Bracket) NextSlot() (*Slot, error) {
	switch {
	case b.Stage == StageAborted:
		return nil, fmt.Errorf("tournament: bracket aborted")
	case b.Stage == StageComplete:
		return nil, fmt.Errorf("tournament: bracket already complete")
	case !b.Semi1.Played():
		b.Stage = StageSemifinal1
		return &b.Semi1, nil
	case !b.Semi2.Played():
		b.Stage = StageSemifinal2
		return &b.Semi2, nil
	case !b.Final.Played():
		w1, err := b.Semi1.winner()
		if err != nil {
			b.Stage = StageAborted
			return nil, err
		}
		w2, err := b.Semi2.winner()
		if err != nil {
			b.Stage = StageAborted
			return nil, err
		}
		b.Final.Players = [2]match.Player{w1, w2}
		b.Stage = StageFinal
		return &b.Final, nil
	default:
		b.Stage = StageComplete
		return nil, fmt.Errorf("tournament: bracket already complete")
	}
}

// RecordResult attaches a result to its round's slot. The round must
// be the one currently in play: a final result cannot arrive before
// both semifinals are done.
func (b *Bracket) RecordResult(res match.Result) error {
	if b.Stage == StageAborted {
		return fmt.Errorf("tournament: bracket aborted")
	}

	var slot *Slot
	switch res.Round {
	case match.RoundSemifinal1:
		slot = &b.Semi1
	case match.RoundSemifinal2:
		slot = &b.Semi2
	case match.RoundFinal:
		if !b.Semi1.Played() || !b.Semi2.Played() {
			return fmt.Errorf("tournament: final result before both semifinals finished")
		}
		slot = &b.Final
	default:
		return fmt.Errorf("tournament: result carries unknown round %q", res.Round)
	}

	if slot.Played() {
		return fmt.Errorf("tournament: %s already has a result", slot.Round)
	}
	if err := res.Validate(); err != nil {
		return fmt.Errorf("tournament: invalid result for %s: %w", slot.Round, err)
	}
	for _, name := range []string{slot.Players[0].Username, slot.Players[1].Username} {
		if name != res.Usernames[0] && name != res.Usernames[1] {
			return fmt.Errorf("tournament: result for %s names %v, expected %s vs %s",
				slot.Round, res.Usernames, slot.Players[0].Username, slot.Players[1].Username)
		}
	}

	r := res
	slot.Result = &r
	if slot == &b.Final {
		b.Stage = StageComplete
	}
	return nil
}

// Champion returns the tournament winner once the final is played.
func (b *Bracket) Champion() (match.Player, bool) {
	if b.Stage != StageComplete || !b.Final.Played() {
		return match.Player{}, false
	}
	w, err := b.Final.winner()
	if err != nil {
		return match.Player{}, false
	}
	return w, true
}

// Results returns all recorded results in play order.
func (b *Bracket) Results() []match.Result {
	out := make([]match.Result, 0, 3)
	for _, s := range []*Slot{&b.Semi1, &b.Semi2, &b.Final} {
		if s.Played() {
			out = append(out, *s.Result)
		}
	}
	return out
}

// Abort marks the bracket as dead. Recorded results stay readable.
func (b *Bracket) Abort() {
	b.Stage = StageAborted
}
