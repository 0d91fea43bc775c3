package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	rosterTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	rosterLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	rosterHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// RosterModel collects player names before a match or tournament.
// Empty fields fall back to their placeholder defaults.
type RosterModel struct {
	title     string
	labels    []string
	inputs    []textinput.Model
	focus     int
	width     int
	height    int
	done      bool
	cancelled bool
}

// NewRosterModel creates a name entry form. labels and defaults must
// have the same length, one per seat.
func NewRosterModel(title string, labels, defaults []string, width, height int) RosterModel {
	inputs := make([]textinput.Model, len(labels))
	for i := range labels {
		ti := textinput.New()
		ti.Placeholder = defaults[i]
		ti.CharLimit = 16
		ti.Width = 20
		if i == 0 {
			ti.Focus()
		}
		inputs[i] = ti
	}

	return RosterModel{
		title:  title,
		labels: labels,
		inputs: inputs,
		width:  width,
		height: height,
	}
}

// Init initializes the form.
func (m RosterModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the form.
func (m RosterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, nil

		case "enter":
			if m.focus == len(m.inputs)-1 {
				m.done = true
				return m, nil
			}
			return m.setFocus(m.focus + 1)

		case "tab", "down":
			return m.setFocus((m.focus + 1) % len(m.inputs))

		case "shift+tab", "up":
			return m.setFocus((m.focus - 1 + len(m.inputs)) % len(m.inputs))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// setFocus moves keyboard focus to the given field.
func (m RosterModel) setFocus(i int) (tea.Model, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m, m.inputs[m.focus].Focus()
}

// View renders the form.
func (m RosterModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(rosterTitleStyle.Render(m.title), m.width))
	b.WriteString("\n\n")

	for i, input := range m.inputs {
		line := rosterLabelStyle.Render(m.labels[i]+": ") + input.View()
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	hint := "Enter: Next/Confirm  |  Tab: Switch field  |  Esc: Back"
	b.WriteString(centerText(rosterHintStyle.Render(hint), m.width))
	b.WriteString("\n")

	return b.String()
}

// Done reports whether all names were confirmed.
func (m RosterModel) Done() bool { return m.done }

// Cancelled reports whether the user backed out.
func (m RosterModel) Cancelled() bool { return m.cancelled }

// Usernames returns the entered names, falling back to the placeholder
// default for empty fields.
func (m RosterModel) Usernames() []string {
	names := make([]string, len(m.inputs))
	for i, input := range m.inputs {
		name := strings.TrimSpace(input.Value())
		if name == "" {
			name = input.Placeholder
		}
		names[i] = name
	}
	return names
}
