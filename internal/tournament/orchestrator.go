package tournament

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"pong-arena/internal/config"
	"pong-arena/internal/game/pong"
	"pong-arena/internal/match"
	"pong-arena/internal/savequeue"
)

// Gate errors returned by StartNextMatch while the bracket itself is
// healthy but the next match cannot begin yet.
var (
	ErrIntermission = errors.New("tournament: intermission in progress")
	ErrSavePending  = errors.New("tournament: previous result still saving")
	ErrComplete     = errors.New("tournament: bracket complete")
)

// DefaultIntermission is the pause between bracket matches.
const DefaultIntermission = 3 * time.Second

// Orchestrator advances a bracket one match at a time. Two gates pace
// it: an intermission timer between matches, and a save gate that
// holds the next match until the previous result's save has resolved
// (saved, or abandoned after its retries). Time is passed in by the
// caller so the gates are testable without sleeping.
type Orchestrator struct {
	cfg    config.PongConfig
	queue  *savequeue.Queue
	logger *log.Logger

	mu                sync.Mutex
	bracket           *Bracket
	current           *Slot
	session           *pong.Session
	intermission      time.Duration
	intermissionUntil time.Time
	savePending       bool
}

// New creates an orchestrator for a seeded roster.
func New(players [4]match.Player, cfg config.PongConfig, queue *savequeue.Queue, logger *log.Logger) (*Orchestrator, error) {
	bracket, err := NewBracket(players)
	if err != nil {
		return nil, err
	}
	return Resume(bracket, cfg, queue, logger)
}

// Resume creates an orchestrator over a previously persisted bracket,
// picking up at whatever slot is still unplayed. A corrupt stored
// bracket is not repaired here; it surfaces from StartNextMatch.
func Resume(bracket *Bracket, cfg config.PongConfig, queue *savequeue.Queue, logger *log.Logger) (*Orchestrator, error) {
	if bracket == nil {
		return nil, errors.New("tournament: no bracket to resume")
	}
	if bracket.Stage == StageAborted || bracket.Stage == StageComplete {
		return nil, fmt.Errorf("tournament: bracket %s already %s", bracket.ID, bracket.Stage)
	}
	if logger == nil {
		logger = log.Default()
	}
	// intermissionUntil stays zero: the gate arms when a match
	// completes, so the first match starts without a countdown.
	return &Orchestrator{
		cfg:          cfg,
		queue:        queue,
		logger:       logger,
		bracket:      bracket,
		intermission: DefaultIntermission,
	}, nil
}

// SetIntermission overrides the pause between matches.
func (o *Orchestrator) SetIntermission(d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.intermission = d
}

// Bracket returns the underlying bracket for display and persistence.
func (o *Orchestrator) Bracket() *Bracket {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.bracket
}

// Stage returns the bracket's current stage.
func (o *Orchestrator) Stage() Stage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.bracket.Stage
}

// Session returns the match session currently in play, if any.
func (o *Orchestrator) Session() *pong.Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session
}

// StartNextMatch creates the session for the next bracket slot. It
// returns ErrIntermission or ErrSavePending while a gate holds, and
// ErrBracketCorrupt (aborting the bracket) if a finalist is missing.
func (o *Orchestrator) StartNextMatch(now time.Time) (*pong.Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.bracket.Stage == StageComplete {
		return nil, ErrComplete
	}
	if o.session != nil && o.session.Phase() != pong.PhaseGameOver {
		return nil, fmt.Errorf("tournament: a match is already in play")
	}
	if o.savePending {
		return nil, ErrSavePending
	}
	if now.Before(o.intermissionUntil) {
		return nil, ErrIntermission
	}

	slot, err := o.bracket.NextSlot()
	if err != nil {
		if errors.Is(err, ErrBracketCorrupt) {
			o.logger.Error("aborting tournament", "bracket", o.bracket.ID, "err", err)
		}
		return nil, err
	}

	session, err := pong.NewSession(match.Mode1v1, slot.Players[:], o.cfg)
	if err != nil {
		return nil, err
	}
	if err := session.Begin(); err != nil {
		return nil, err
	}

	o.current = slot
	o.session = session
	o.logger.Info("bracket match starting", "bracket", o.bracket.ID,
		"round", slot.Round, "p1", slot.Players[0].Username, "p2", slot.Players[1].Username)
	return session, nil
}

// CompleteMatch records the current session's outcome, queues the save,
// and arms the intermission. The save gate stays closed until the
// queue resolves the result one way or the other.
func (o *Orchestrator) CompleteMatch(now time.Time) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session == nil || o.current == nil {
		return fmt.Errorf("tournament: no match in play")
	}
	if o.session.Phase() != pong.PhaseGameOver {
		return fmt.Errorf("tournament: match not finished")
	}

	res := o.session.Result()
	res.Round = o.current.Round
	if err := o.bracket.RecordResult(res); err != nil {
		return err
	}

	o.session = nil
	o.current = nil
	o.intermissionUntil = now.Add(o.intermission)

	if o.queue == nil {
		return nil
	}
	o.savePending = true

	err := o.queue.Enqueue(res, func(saved match.Result, saveErr error) {
		o.mu.Lock()
		o.savePending = false
		o.mu.Unlock()
		if saveErr != nil {
			o.logger.Error("bracket result not saved", "round", saved.Round, "err", saveErr)
		}
	})
	if err != nil {
		// The result was rejected outright; nothing is in flight.
		o.savePending = false
		return err
	}
	return nil
}

// SavePending reports whether the save gate is holding.
func (o *Orchestrator) SavePending() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.savePending
}

// IntermissionRemaining returns how long the intermission gate holds
// from the given instant.
func (o *Orchestrator) IntermissionRemaining(now time.Time) time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()
	if now.After(o.intermissionUntil) {
		return 0
	}
	return o.intermissionUntil.Sub(now)
}

// Champion returns the tournament winner once the final is recorded.
func (o *Orchestrator) Champion() (match.Player, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.bracket.Champion()
}

// Abort kills the bracket and drops any queued saves for it.
func (o *Orchestrator) Abort() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.bracket.Abort()
	o.session = nil
	o.current = nil
	o.savePending = false
	if o.queue != nil {
		o.queue.Clear()
	}
}
