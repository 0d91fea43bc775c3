package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"pong-arena/internal/config"
	"pong-arena/internal/core"
	"pong-arena/internal/match"
	"pong-arena/internal/registry"
	"pong-arena/internal/savequeue"
	"pong-arena/internal/storage"
)

type appState int

const (
	appStateMenu appState = iota
	appStateRoster
	appStateMatch
	appStateTournament
	appStateHistory
)

// AppModel manages the full arena flow: menu -> roster -> match (or
// tournament, or history) -> menu. It is the top-level model for both
// local play and SSH sessions.
type AppModel struct {
	store    *storage.Store
	queue    *savequeue.Queue
	pongCfg  config.PongConfig
	config   core.RuntimeConfig
	username string
	logger   *log.Logger

	state      appState
	menu       MenuModel
	roster     *RosterModel
	pending    *MenuItem
	match      *MatchModel
	tournament *TournamentModel
	history    *HistoryModel
	quitting   bool
}

// NewAppModel creates the arena flow model. The username seeds the
// first roster field; SSH sessions pass the connecting user.
func NewAppModel(store *storage.Store, queue *savequeue.Queue, pongCfg config.PongConfig, cfg core.RuntimeConfig, username string, logger *log.Logger) AppModel {
	if username == "" {
		username = "player1"
	}
	if logger == nil {
		logger = log.Default()
	}

	return AppModel{
		store:    store,
		queue:    queue,
		pongCfg:  pongCfg,
		config:   cfg,
		username: username,
		logger:   logger,
		menu:     NewMenuModel(cfg),
	}
}

// Init initializes the app.
func (m AppModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.state {
	case appStateRoster:
		return m.updateRoster(msg)
	case appStateMatch:
		return m.updateMatch(msg)
	case appStateTournament:
		return m.updateTournament(msg)
	case appStateHistory:
		return m.updateHistory(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles the mode picker.
func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}
	m.menu.ClearSelection()
	m.config = m.menu.Config()

	if selected.Kind == MenuKindHistory {
		history := NewHistoryModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.history = &history
		m.state = appStateHistory
		return m, m.history.Init()
	}

	roster := m.rosterFor(selected)
	m.roster = &roster
	m.pending = selected
	m.state = appStateRoster
	return m, m.roster.Init()
}

// rosterFor builds the name entry form for the selected entry.
func (m AppModel) rosterFor(item *MenuItem) RosterModel {
	switch {
	case item.Kind == MenuKindTournament:
		return NewRosterModel("Tournament Roster",
			[]string{"Seed 1", "Seed 2", "Seed 3", "Seed 4"},
			[]string{m.username, "player2", "player3", "player4"},
			m.config.ScreenW, m.config.ScreenH)

	case item.Mode == match.ModeVsAI:
		return NewRosterModel(item.Title,
			[]string{"Player (W/S)"},
			[]string{m.username},
			m.config.ScreenW, m.config.ScreenH)

	case item.Mode == match.ModeFour:
		return NewRosterModel(item.Title,
			[]string{"Left (W/S)", "Right (Arrows)", "Top (A/D)", "Bottom (J/L)"},
			[]string{m.username, "player2", "player3", "player4"},
			m.config.ScreenW, m.config.ScreenH)

	default:
		return NewRosterModel(item.Title,
			[]string{"Left (W/S)", "Right (Arrows)"},
			[]string{m.username, "player2"},
			m.config.ScreenW, m.config.ScreenH)
	}
}

// updateRoster handles name entry and launches the selected mode.
func (m AppModel) updateRoster(msg tea.Msg) (tea.Model, tea.Cmd) {
	newRoster, cmd := m.roster.Update(msg)
	if rosterModel, ok := newRoster.(RosterModel); ok {
		m.roster = &rosterModel
	}

	if m.roster.Cancelled() {
		return m.backToMenu()
	}
	if !m.roster.Done() {
		return m, cmd
	}

	names := m.roster.Usernames()
	item := m.pending
	m.roster = nil
	m.pending = nil

	if item.Kind == MenuKindTournament {
		return m.startTournament(names)
	}
	return m.startMatch(item, names)
}

// startMatch builds a session for the picked mode and roster.
func (m AppModel) startMatch(item *MenuItem, names []string) (tea.Model, tea.Cmd) {
	players := make([]match.Player, 0, item.Mode.PlayerCount())
	for _, name := range names {
		players = append(players, match.NewPlayer(name))
	}
	if item.Mode == match.ModeVsAI {
		players = append(players, match.NewCPUPlayer("CPU"))
	}

	game, err := registry.Create(item.GameID, players, m.pongCfg)
	if err != nil {
		m.logger.Error("cannot create session", "mode", item.GameID, "err", err)
		return m.backToMenu()
	}

	mm := NewMatchModel(game, m.queue, m.config, m.pongCfg.Gameplay.InitTimeoutTicks, m.logger)
	m.match = &mm
	m.state = appStateMatch
	return m, m.match.Init()
}

// startTournament seeds a bracket from the entered roster.
func (m AppModel) startTournament(names []string) (tea.Model, tea.Cmd) {
	var players [4]match.Player
	for i, name := range names {
		players[i] = match.NewPlayer(name)
	}

	tm, err := NewTournamentModel(players, m.pongCfg, m.queue, m.store, m.config, m.logger)
	if err != nil {
		m.logger.Error("cannot start tournament", "err", err)
		return m.backToMenu()
	}

	m.tournament = &tm
	m.state = appStateTournament
	return m, m.tournament.Init()
}

// updateMatch handles a running match.
func (m AppModel) updateMatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.match.Update(msg)
	if matchModel, ok := newModel.(MatchModel); ok {
		m.match = &matchModel
	}

	if m.match.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.match.BackToMenu() {
		m.match = nil
		return m.backToMenu()
	}

	return m, cmd
}

// updateTournament handles a running tournament.
func (m AppModel) updateTournament(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.tournament.Update(msg)
	if tournamentModel, ok := newModel.(TournamentModel); ok {
		m.tournament = &tournamentModel
	}

	if m.tournament.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.tournament.BackToMenu() {
		m.tournament = nil
		return m.backToMenu()
	}

	return m, cmd
}

// updateHistory handles the history screen.
func (m AppModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.history.Update(msg)
	if historyModel, ok := newModel.(HistoryModel); ok {
		m.history = &historyModel
	}

	if m.history.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.history.IsGoingBack() {
		m.history = nil
		return m.backToMenu()
	}

	return m, cmd
}

// backToMenu resets to a fresh menu at the current screen size.
func (m AppModel) backToMenu() (tea.Model, tea.Cmd) {
	m.state = appStateMenu
	m.roster = nil
	m.pending = nil
	m.menu = NewMenuModel(m.config)
	return m, m.menu.Init()
}

// View renders the active screen.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case appStateRoster:
		return m.roster.View()
	case appStateMatch:
		return m.match.View()
	case appStateTournament:
		return m.tournament.View()
	case appStateHistory:
		return m.history.View()
	default:
		return m.menu.View()
	}
}

// RunApp starts the interactive arena flow.
func RunApp(store *storage.Store, queue *savequeue.Queue, pongCfg config.PongConfig, cfg core.RuntimeConfig, username string, logger *log.Logger) error {
	model := NewAppModel(store, queue, pongCfg, cfg, username, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
