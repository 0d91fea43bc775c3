package pong

import (
	"pong-arena/internal/config"
	"pong-arena/internal/match"
	"pong-arena/internal/registry"
)

var _ registry.Game = (*Session)(nil)

func init() {
	registerMode("pong", "Pong", match.Mode1v1)
	registerMode("pong_ai", "Pong vs CPU", match.ModeVsAI)
	registerMode("pong_four", "Pong Royale", match.ModeFour)
}

func registerMode(id, title string, mode match.Mode) {
	registry.Register(registry.GameInfo{ID: id, Title: title, Mode: mode},
		func(players []match.Player, cfg config.PongConfig) (registry.Game, error) {
			return NewSession(mode, players, cfg)
		})
}
