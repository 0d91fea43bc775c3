package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"pong-arena/internal/core"
)

// KeyMapper translates Bubble Tea key messages to game actions.
// Up to four players share one keyboard: P1 on W/S, P2 on the arrow
// keys, P3 on A/D, and P4 on J/L. This centralizes key bindings and
// makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to a player action.
// Returns the owning player, the action (may be ActionNone), and
// whether it's a quit request. Global actions are attributed to P1.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (player core.PlayerID, action core.Action, isQuit bool) {
	key := msg.String()

	// Global keys
	switch key {
	case "ctrl+c", "q":
		return core.Player1, core.ActionQuit, true
	case "p":
		return core.Player1, core.ActionPause, false
	case "r":
		return core.Player1, core.ActionRestart, false
	case "enter":
		return core.Player1, core.ActionConfirm, false
	case "b", "esc":
		return core.Player1, core.ActionBack, false
	}

	// Paddle movement, one cluster per player
	switch key {
	case "w":
		return core.Player1, core.ActionUp, false
	case "s":
		return core.Player1, core.ActionDown, false
	case "up":
		return core.Player2, core.ActionUp, false
	case "down":
		return core.Player2, core.ActionDown, false
	case "a":
		return core.Player3, core.ActionUp, false
	case "d":
		return core.Player3, core.ActionDown, false
	case "j":
		return core.Player4, core.ActionUp, false
	case "l":
		return core.Player4, core.ActionDown, false
	}

	return core.PlayerNone, core.ActionNone, false
}

// MapKeyToMultiFrame updates a multi-player input frame based on a key
// message. Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToMultiFrame(msg tea.KeyMsg, frame *core.MultiInputFrame) bool {
	player, action, isQuit := km.MapKey(msg)
	if player != core.PlayerNone && action != core.ActionNone {
		frame.Set(player, action)
	}
	return isQuit
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	}

	return MenuActionNone
}
