// pong is a terminal Pong arena: local matches, four-player battles,
// CPU opponents, tournaments, and a shared match history.
//
// Usage:
//
//	pong list                - List available modes
//	pong play <mode>         - Play a match directly
//	pong menu                - Interactive menu (modes, tournament, history)
//	pong tournament          - Run a four-player bracket
//	pong history             - Show recent matches and the leaderboard
//	pong serve               - Start SSH server for remote play
//	pong api                 - Serve the match history HTTP API
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: ~/.pong-arena/arena.db)
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	// Import the game package to register its modes
	_ "pong-arena/internal/game/pong"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	//nolint:errcheck // A missing .env file is fine
	godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pong",
	Short: "Pong Arena - classic paddle duels in your terminal",
	Long: `Pong Arena is a terminal Pong platform: 1v1 duels, matches against
a CPU opponent, four-player battles, and four-player tournaments.
Every decided match lands in a shared history with a leaderboard.

Available commands:
  list        - Show all available modes
  play        - Play a specific mode directly
  menu        - Interactive menu with roster entry
  tournament  - Run a four-player single-elimination bracket
  history     - View recent matches and the leaderboard
  serve       - Start SSH server for remote play
  api         - Serve the match history HTTP API

Examples:
  pong list
  pong play pong_ai
  pong menu
  pong tournament --players alice,bob,carol,dave
  pong serve --ssh :2222
  pong history --board

Set PONG_API_ADDR to submit results to a remote history API instead of
the local database.`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.pong-arena/arena.db", "Path to match database")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(tournamentCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
}
