package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"pong-arena/internal/config"
	"pong-arena/internal/core"
	"pong-arena/internal/match"
	"pong-arena/internal/savequeue"
	"pong-arena/internal/storage"
	"pong-arena/internal/tournament"
)

var (
	bracketTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	bracketWinnerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	bracketDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// TournamentModel runs a four-player bracket: two semifinals, an
// intermission between rounds, and a final. Between matches it shows
// the bracket with the countdown and the save status; the next match
// starts automatically once both gates clear.
type TournamentModel struct {
	orch    *tournament.Orchestrator
	store   *storage.Store
	pongCfg config.PongConfig
	config  core.RuntimeConfig
	logger  *log.Logger

	keyMapper  *KeyMapper
	match      *MatchModel
	status     string
	finished   bool
	aborted    bool
	standalone bool

	quitting   bool
	backToMenu bool
}

// NewTournamentModel creates a tournament over the given seeded roster.
func NewTournamentModel(players [4]match.Player, pongCfg config.PongConfig, queue *savequeue.Queue, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) (TournamentModel, error) {
	if logger == nil {
		logger = log.Default()
	}

	orch, err := tournament.New(players, pongCfg, queue, logger)
	if err != nil {
		return TournamentModel{}, err
	}
	return newTournamentModel(orch, pongCfg, store, cfg, logger), nil
}

// ResumeTournamentModel continues a persisted bracket where it left
// off.
func ResumeTournamentModel(bracket *tournament.Bracket, pongCfg config.PongConfig, queue *savequeue.Queue, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) (TournamentModel, error) {
	if logger == nil {
		logger = log.Default()
	}

	orch, err := tournament.Resume(bracket, pongCfg, queue, logger)
	if err != nil {
		return TournamentModel{}, err
	}
	return newTournamentModel(orch, pongCfg, store, cfg, logger), nil
}

func newTournamentModel(orch *tournament.Orchestrator, pongCfg config.PongConfig, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) TournamentModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := TournamentModel{
		orch:      orch,
		store:     store,
		pongCfg:   pongCfg,
		config:    cfg,
		logger:    logger,
		keyMapper: NewKeyMapper(),
	}
	m.persist()
	return m
}

// Init starts the tick loop.
func (m TournamentModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages for the tournament.
func (m TournamentModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	if m.match != nil {
		return m.updateMatch(msg)
	}
	return m.updateBracket(msg)
}

// updateMatch forwards messages to the running round and completes it
// once decided.
func (m TournamentModel) updateMatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.match.Update(msg)
	if mm, ok := newModel.(MatchModel); ok {
		m.match = &mm
	}

	if m.match.IsQuitting() {
		m.orch.Abort()
		m.quitting = true
		return m, tea.Quit
	}

	if m.match.Finished() {
		if err := m.orch.CompleteMatch(time.Now()); err != nil {
			m.logger.Error("cannot record round", "err", err)
			m.status = "round result rejected: " + err.Error()
		}
		m.persist()
		m.match = nil

		if _, ok := m.orch.Champion(); ok {
			m.finished = true
		}
	}

	return m, cmd
}

// updateBracket handles the between-rounds view.
func (m TournamentModel) updateBracket(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.keyMapper.MapKeyToMenuAction(msg) {
		case MenuActionQuit:
			m.orch.Abort()
			m.quitting = true
			return m, tea.Quit
		case MenuActionBack:
			if !m.finished {
				m.orch.Abort()
				m.persist()
			}
			m.backToMenu = true
			if m.standalone {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
		return m, nil

	case TickMsg:
		if m.finished || m.aborted {
			return m, tickCmd(m.config.TickRate)
		}
		return m.tryStartNext()
	}

	return m, nil
}

// tryStartNext asks the orchestrator for the next round. The save and
// intermission gates surface here as status text until they clear.
func (m TournamentModel) tryStartNext() (tea.Model, tea.Cmd) {
	session, err := m.orch.StartNextMatch(time.Now())
	switch {
	case err == nil:
		mm := newManagedMatchModel(session, m.config, m.pongCfg.Gameplay.InitTimeoutTicks, m.logger)
		m.match = &mm
		m.status = ""
		return m, m.match.Init()

	case errors.Is(err, tournament.ErrSavePending):
		m.status = "saving previous result..."

	case errors.Is(err, tournament.ErrIntermission):
		remaining := m.orch.IntermissionRemaining(time.Now())
		m.status = fmt.Sprintf("next match in %ds", int(remaining.Seconds())+1)

	case errors.Is(err, tournament.ErrComplete):
		m.finished = true

	case errors.Is(err, tournament.ErrBracketCorrupt):
		m.logger.Error("tournament aborted", "err", err)
		m.persist()
		m.aborted = true
		m.status = "tournament aborted: bracket is corrupt"

	default:
		m.status = err.Error()
	}

	return m, tickCmd(m.config.TickRate)
}

// persist saves the bracket so an interrupted tournament can be found
// in history.
func (m *TournamentModel) persist() {
	if m.store == nil {
		return
	}
	if err := m.store.SaveTournament(m.orch.Bracket()); err != nil {
		m.logger.Error("cannot persist bracket", "err", err)
	}
}

// View renders the match in play or the bracket between rounds.
func (m TournamentModel) View() string {
	if m.quitting {
		return ""
	}
	if m.match != nil {
		return m.match.View()
	}

	b := m.orch.Bracket()
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(centerText(bracketTitleStyle.Render("T O U R N A M E N T"), m.config.ScreenW))
	sb.WriteString("\n\n")

	sb.WriteString(centerText(m.slotLine("Semifinal 1", &b.Semi1), m.config.ScreenW))
	sb.WriteString("\n")
	sb.WriteString(centerText(m.slotLine("Semifinal 2", &b.Semi2), m.config.ScreenW))
	sb.WriteString("\n")
	sb.WriteString(centerText(m.slotLine("Final      ", &b.Final), m.config.ScreenW))
	sb.WriteString("\n\n")

	switch {
	case m.finished:
		if champ, ok := m.orch.Champion(); ok {
			banner := fmt.Sprintf("CHAMPION: %s", champ.Username)
			sb.WriteString(centerText(bracketWinnerStyle.Render(banner), m.config.ScreenW))
			sb.WriteString("\n\n")
		}
		sb.WriteString(centerText(bracketDimStyle.Render("B: Back to menu  |  Q: Quit"), m.config.ScreenW))

	case m.aborted:
		sb.WriteString(centerText(m.status, m.config.ScreenW))
		sb.WriteString("\n\n")
		sb.WriteString(centerText(bracketDimStyle.Render("B: Back to menu  |  Q: Quit"), m.config.ScreenW))

	default:
		if m.status != "" {
			sb.WriteString(centerText(m.status, m.config.ScreenW))
			sb.WriteString("\n\n")
		}
		sb.WriteString(centerText(bracketDimStyle.Render("B: Abort and go back  |  Q: Quit"), m.config.ScreenW))
	}

	sb.WriteString("\n")
	return sb.String()
}

// slotLine formats one bracket slot for display.
func (m TournamentModel) slotLine(label string, slot *tournament.Slot) string {
	if slot.Players[0].Username == "" && slot.Players[1].Username == "" {
		return fmt.Sprintf("%s  %s", label, bracketDimStyle.Render("awaiting finalists"))
	}

	line := fmt.Sprintf("%s  %s vs %s", label, slot.Players[0].Username, slot.Players[1].Username)
	if slot.Played() {
		res := slot.Result
		line += fmt.Sprintf("  %d:%d  ", res.Scores[0], res.Scores[1])
		line += bracketWinnerStyle.Render(res.Winner)
		if res.Simulated {
			line += bracketDimStyle.Render(" (simulated)")
		}
	}
	return line
}

// BackToMenu returns true if the user asked to leave the tournament.
func (m TournamentModel) BackToMenu() bool { return m.backToMenu }

// IsQuitting returns true if the user asked to exit entirely.
func (m TournamentModel) IsQuitting() bool { return m.quitting }

// RunTournament runs a tournament to completion.
func RunTournament(players [4]match.Player, pongCfg config.PongConfig, queue *savequeue.Queue, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	model, err := NewTournamentModel(players, pongCfg, queue, store, cfg, logger)
	if err != nil {
		return err
	}
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}

// RunResumedTournament picks up a persisted bracket and runs the
// remaining rounds to completion.
func RunResumedTournament(bracket *tournament.Bracket, pongCfg config.PongConfig, queue *savequeue.Queue, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	model, err := ResumeTournamentModel(bracket, pongCfg, queue, store, cfg, logger)
	if err != nil {
		return err
	}
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
