package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"pong-arena/internal/match"
	"pong-arena/internal/platform/tui"
)

var (
	flagTournamentPlayers string
	flagTournamentResume  bool
)

var tournamentCmd = &cobra.Command{
	Use:   "tournament",
	Short: "Run a four-player tournament",
	Long: `Run a single-elimination bracket for four players: two semifinals
and a final, with an intermission between matches. Seeding is by
roster order: the first two names meet in semifinal 1, the last two in
semifinal 2. Every round's result is saved before the next one starts.

An interrupted bracket is kept in the database; --resume picks up the
most recent unfinished one at its next unplayed round.

Examples:
  pong tournament --players alice,bob,carol,dave
  pong tournament --players alice,bob,carol,dave --difficulty hard
  pong tournament --resume`,
	Run: runTournament,
}

func init() {
	tournamentCmd.Flags().StringVar(&flagTournamentPlayers, "players", "", "Comma-separated names of the four seeds")
	tournamentCmd.Flags().BoolVar(&flagTournamentResume, "resume", false, "Continue the most recent unfinished tournament")
	tournamentCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	tournamentCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runTournament(_ *cobra.Command, _ []string) {
	if flagTournamentResume {
		resumeTournament()
		return
	}

	var names []string
	for _, name := range strings.Split(flagTournamentPlayers, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	for len(names) < 4 {
		names = append(names, fmt.Sprintf("player%d", len(names)+1))
	}
	if len(names) > 4 {
		fmt.Fprintf(os.Stderr, "Error: a tournament takes exactly 4 players, got %d\n", len(names))
		os.Exit(1)
	}

	var players [4]match.Player
	for i, name := range names {
		players[i] = match.NewPlayer(name)
	}

	pongCfg := loadGameConfig()
	cfg := runtimeConfig()
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "pong"})

	store := openStore(logger)
	queue := buildQueue(store, logger)

	runErr := tui.RunTournament(players, pongCfg, queue, store, cfg, logger)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running tournament: %v\n", runErr)
		os.Exit(1)
	}
}

func resumeTournament() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "pong"})

	store := openStore(logger)
	if store == nil {
		fmt.Fprintln(os.Stderr, "Error: --resume needs the match database")
		os.Exit(1)
	}

	bracket, err := store.LatestUnfinishedTournament()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading bracket: %v\n", err)
		store.Close()
		os.Exit(1)
	}
	if bracket == nil {
		fmt.Fprintln(os.Stderr, "No unfinished tournament to resume")
		store.Close()
		os.Exit(1)
	}

	pongCfg := loadGameConfig()
	cfg := runtimeConfig()
	queue := buildQueue(store, logger)

	runErr := tui.RunResumedTournament(bracket, pongCfg, queue, store, cfg, logger)

	store.Close()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running tournament: %v\n", runErr)
		os.Exit(1)
	}
}
