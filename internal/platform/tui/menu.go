package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"pong-arena/internal/core"
	"pong-arena/internal/match"
	"pong-arena/internal/registry"
)

// MenuKind distinguishes what a menu entry launches.
type MenuKind int

const (
	MenuKindGame MenuKind = iota
	MenuKindTournament
	MenuKindHistory
)

// MenuItem represents a selectable entry in the main menu.
type MenuItem struct {
	Kind   MenuKind
	GameID string
	Title  string
	Mode   match.Mode
}

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	quitting  bool
	selected  *MenuItem
}

// NewMenuModel creates the main menu from the registered modes plus the
// tournament and history screens.
func NewMenuModel(cfg core.RuntimeConfig) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games)+2)

	for _, g := range games {
		items = append(items, MenuItem{
			Kind:   MenuKindGame,
			GameID: g.ID,
			Title:  g.Title,
			Mode:   g.Mode,
		})
	}
	items = append(items,
		MenuItem{Kind: MenuKindTournament, Title: "Tournament (4 players)"},
		MenuItem{Kind: MenuKindHistory, Title: "Match History"},
	)

	return MenuModel{
		items:     items,
		cursor:    0,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
		}
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "  P O N G   A R E N A  "
	b.WriteString("\n")
	b.WriteString(centerText(title, m.width))
	b.WriteString("\n\n")

	subtitle := "Select a mode"
	b.WriteString(centerText(subtitle, m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		label := item.Title
		if item.Kind == MenuKindGame && item.Mode.PlayerCount() > 2 {
			label = fmt.Sprintf("%s (%d players)", item.Title, item.Mode.PlayerCount())
		}

		b.WriteString(centerText(cursor+label, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the chosen item, or nil if none yet.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// ClearSelection forgets the current choice so the menu can be reused.
func (m *MenuModel) ClearSelection() {
	m.selected = nil
}

// IsQuitting returns true if the user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the runtime config, possibly updated by resizes.
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}
