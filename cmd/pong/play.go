package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pong-arena/internal/api"
	"pong-arena/internal/config"
	"pong-arena/internal/core"
	"pong-arena/internal/match"
	"pong-arena/internal/platform/tui"
	"pong-arena/internal/registry"
	"pong-arena/internal/savequeue"
	"pong-arena/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagPlayers    string
)

var playCmd = &cobra.Command{
	Use:   "play <mode>",
	Short: "Play a match",
	Long: `Start a match in the specified mode.

Controls:
  W/S        - Left paddle (Player 1)
  Up/Down    - Right paddle (Player 2)
  A/D        - Top paddle (Player 3, four-player mode)
  J/L        - Bottom paddle (Player 4, four-player mode)
  P          - Pause
  R          - Restart (after the match ends)
  Q/Ctrl+C   - Quit

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  pong play pong
  pong play pong_ai --difficulty hard
  pong play pong_four --players alice,bob,carol,dave
  pong play pong --config ./my-pong.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagPlayers, "players", "", "Comma-separated player names, in court order")
}

func runPlay(cmd *cobra.Command, args []string) {
	modeID := args[0]

	info, ok := registry.Info(modeID)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", modeID)
		fmt.Fprintln(os.Stderr, "Run 'pong list' to see available modes.")
		os.Exit(1)
	}

	pongCfg := loadGameConfig()
	players, err := rosterFromFlag(info.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	game, err := registry.Create(modeID, players, pongCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating session: %v\n", err)
		os.Exit(1)
	}

	cfg := runtimeConfig()
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "pong"})

	store := openStore(logger)
	queue := buildQueue(store, logger)

	runErr := tui.RunMatch(game, queue, cfg, pongCfg.Gameplay.InitTimeoutTicks, logger)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running match: %v\n", runErr)
		os.Exit(1)
	}
}

// loadGameConfig loads the pong config and applies the difficulty
// preset flag.
func loadGameConfig() config.PongConfig {
	cfg, err := config.LoadPong(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		cfg = config.DefaultPongConfig()
	}
	config.ApplyPongPreset(&cfg, config.DifficultyPreset(flagDifficulty))
	return cfg
}

// rosterFromFlag builds the player list for a mode from --players,
// filling missing seats with defaults. CPU modes always get a CPU in
// the last seat.
func rosterFromFlag(mode match.Mode) ([]match.Player, error) {
	humans := mode.PlayerCount()
	if mode == match.ModeVsAI {
		humans = 1
	}

	var names []string
	if flagPlayers != "" {
		for _, name := range strings.Split(flagPlayers, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			names = append(names, name)
		}
	}
	if len(names) > humans {
		return nil, fmt.Errorf("mode %s takes %d player name(s), got %d", mode, humans, len(names))
	}
	for len(names) < humans {
		names = append(names, fmt.Sprintf("player%d", len(names)+1))
	}

	players := make([]match.Player, 0, mode.PlayerCount())
	for _, name := range names {
		players = append(players, match.NewPlayer(name))
	}
	if mode == match.ModeVsAI {
		players = append(players, match.NewCPUPlayer("CPU"))
	}
	return players, nil
}

// runtimeConfig builds the runtime config from the terminal size and
// global flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	fps := flagFPS
	if fps <= 0 {
		fps = 60
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: fps,
		Seed:     seed,
	}
}

// openStore opens the match database; a failure degrades to no local
// persistence rather than refusing to play.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open match database", "err", err)
		return nil
	}
	return store
}

// buildQueue wires the save queue to the remote API when PONG_API_ADDR
// is set, otherwise to the local database.
func buildQueue(store *storage.Store, logger *log.Logger) *savequeue.Queue {
	var submitter match.Submitter
	if client := api.ClientFromEnv(); client != nil {
		submitter = client
		logger.Info("submitting results to remote API", "addr", os.Getenv(api.EnvAPIAddr))
	} else if store != nil {
		submitter = store
	} else {
		return nil
	}
	return savequeue.New(submitter, savequeue.DefaultOptions(), logger)
}
