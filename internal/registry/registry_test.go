package registry_test

import (
	"testing"

	"pong-arena/internal/config"
	"pong-arena/internal/match"
	"pong-arena/internal/registry"

	_ "pong-arena/internal/game/pong"
)

func TestRegisteredModes(t *testing.T) {
	for _, id := range []string{"pong", "pong_ai", "pong_four"} {
		if !registry.Exists(id) {
			t.Errorf("mode %q not registered", id)
		}
	}
	if registry.Exists("tetris") {
		t.Error("unregistered mode reported as existing")
	}

	games := registry.List()
	if len(games) < 3 {
		t.Fatalf("got %d registered modes, expected at least 3", len(games))
	}
	for i := 1; i < len(games); i++ {
		if games[i-1].ID >= games[i].ID {
			t.Errorf("list not sorted: %q before %q", games[i-1].ID, games[i].ID)
		}
	}

	info, ok := registry.Info("pong_ai")
	if !ok || info.Mode != match.ModeVsAI {
		t.Errorf("Info(pong_ai) = %+v ok=%v", info, ok)
	}
}

func TestCreateValidatesRoster(t *testing.T) {
	cfg := config.DefaultPongConfig()

	g, err := registry.Create("pong", []match.Player{
		match.NewPlayer("alice"), match.NewPlayer("bob"),
	}, cfg)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.ID() != "pong" || g.Title() == "" {
		t.Errorf("created game = %q %q", g.ID(), g.Title())
	}

	if _, err := registry.Create("pong", []match.Player{match.NewPlayer("solo")}, cfg); err == nil {
		t.Error("short roster should be rejected")
	}
	if _, err := registry.Create("nope", nil, cfg); err == nil {
		t.Error("unknown mode should be rejected")
	}
}
