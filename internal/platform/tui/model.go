package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"pong-arena/internal/core"
	"pong-arena/internal/registry"
	"pong-arena/internal/savequeue"
)

// MatchModel is the Bubble Tea model driving one match session.
// It feeds keyboard input into the simulation at a fixed tick rate,
// retries court construction until the terminal reports a usable size,
// and hands the decided result to the save queue.
type MatchModel struct {
	game      registry.Game
	screen    *core.Screen
	config    core.RuntimeConfig
	queue     *savequeue.Queue
	logger    *log.Logger
	keyMapper *KeyMapper
	frame     core.MultiInputFrame
	state     core.GameState

	// initTimeout bounds how many ticks the session may wait for a
	// playable surface before the outcome is simulated instead.
	initTimeout int
	initTicks   int
	ready       bool

	// managed sessions belong to a tournament: the orchestrator owns
	// result delivery and restarts, not this model.
	managed bool

	// standalone models run their own program, so leaving the match
	// means quitting it.
	standalone bool

	saved      bool
	saving     bool
	saveNote   string
	quitting   bool
	backToMenu bool
}

// NewMatchModel creates a model for a standalone match. The queue may
// be nil, in which case results are discarded.
func NewMatchModel(game registry.Game, queue *savequeue.Queue, cfg core.RuntimeConfig, initTimeoutTicks int, logger *log.Logger) MatchModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = log.Default()
	}

	return MatchModel{
		game:        game,
		screen:      core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:      cfg,
		queue:       queue,
		logger:      logger,
		keyMapper:   NewKeyMapper(),
		frame:       core.NewMultiInputFrame(),
		initTimeout: initTimeoutTicks,
	}
}

// newManagedMatchModel creates a model for a tournament round. The
// caller completes the match and persists its result.
func newManagedMatchModel(game registry.Game, cfg core.RuntimeConfig, initTimeoutTicks int, logger *log.Logger) MatchModel {
	m := NewMatchModel(game, nil, cfg, initTimeoutTicks, logger)
	m.managed = true
	return m
}

// Init starts the session and the tick loop.
func (m MatchModel) Init() tea.Cmd {
	//nolint:errcheck // Begin only fails mid-match, and the model is fresh
	m.game.Begin()
	return tickCmd(m.config.TickRate)
}

// Update handles messages and advances the model.
func (m MatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m MatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keyMapper.MapKeyToMultiFrame(msg, &m.frame) {
		m.quitting = true
		return m, tea.Quit
	}

	// Back to menu once the match is over or paused
	action := m.keyMapper.MapKeyToMenuAction(msg)
	if action == MenuActionBack && (m.state.GameOver || m.state.Paused) {
		m.backToMenu = true
		if m.standalone {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// handleResize processes window resize events. A deferred session
// retries court construction here; a live one restarts on the new
// surface.
func (m MatchModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if !m.ready {
		m.tryReset()
	} else if !m.state.GameOver {
		m.tryReset()
	}

	return m, nil
}

// tryReset attempts to build the court for the current surface.
func (m *MatchModel) tryReset() {
	if err := m.game.Reset(m.config); err != nil {
		return
	}
	m.ready = true
	m.state = m.game.State()
}

// handleTick processes simulation ticks.
func (m MatchModel) handleTick() (tea.Model, tea.Cmd) {
	if !m.ready {
		m.initTicks++
		m.tryReset()
		if !m.ready && m.initTimeout > 0 && m.initTicks >= m.initTimeout {
			// The terminal never produced a playable surface. Decide the
			// match by simulation so brackets and history stay complete.
			res := m.game.SimulateOutcome(time.Now().UnixNano())
			m.logger.Warn("render surface timed out, match simulated", "id", res.ID, "winner", res.Winner)
			m.ready = true
			m.state = m.game.State()
			m.submit()
		}
		return m, tickCmd(m.config.TickRate)
	}

	// Restart after game over (standalone matches only)
	if !m.managed && m.state.GameOver && m.frame.Player(core.Player1).Has(core.ActionRestart) {
		m.config.Seed = time.Now().UnixNano()
		m.frame.Clear()
		m.saved = false
		m.saveNote = ""
		if err := m.game.Begin(); err == nil {
			m.tryReset()
		}
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.frame)
	m.state = result.State

	if m.state.GameOver && !m.saved {
		m.submit()
	}
	if m.saving && m.queue != nil && !m.queue.Busy() && m.queue.Len() == 0 {
		m.saving = false
		m.saveNote = "saved"
	}

	m.frame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// submit hands the decided result to the save queue. Managed sessions
// skip this: the tournament orchestrator persists their results.
func (m *MatchModel) submit() {
	m.saved = true
	if m.managed || m.queue == nil {
		return
	}

	if err := m.queue.Enqueue(m.game.Result(), nil); err != nil {
		m.logger.Error("result not queued", "err", err)
		m.saveNote = "save failed"
		return
	}
	m.saving = true
	m.saveNote = "saving..."
}

// View renders the current frame.
func (m MatchModel) View() string {
	if m.quitting {
		return ""
	}
	if m.screen.Width() <= 0 || m.screen.Height() <= 0 {
		return "Preparing court..."
	}

	m.game.Render(m.screen)
	if m.saveNote != "" {
		note := "[" + m.saveNote + "]"
		m.screen.DrawText(m.screen.Width()-len(note)-1, 0, note)
	}
	return RenderScreen(m.screen)
}

// Finished reports whether the match has been decided.
func (m MatchModel) Finished() bool {
	return m.state.GameOver
}

// BackToMenu returns true if the user asked to leave the match.
func (m MatchModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if the user asked to exit entirely.
func (m MatchModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the runtime config, possibly updated by resizes.
func (m MatchModel) Config() core.RuntimeConfig {
	return m.config
}

// RunMatch runs a standalone match to completion.
func RunMatch(game registry.Game, queue *savequeue.Queue, cfg core.RuntimeConfig, initTimeoutTicks int, logger *log.Logger) error {
	model := NewMatchModel(game, queue, cfg, initTimeoutTicks, logger)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
