package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pong-arena/internal/storage"
)

var (
	flagHistoryLimit  int
	flagHistoryPlayer string
	flagHistoryBoard  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent matches and the leaderboard",
	Long: `Display recent match results, newest first.

Examples:
  pong history
  pong history --player alice
  pong history --board
  pong history --limit 50`,
	Run: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Maximum rows to show")
	historyCmd.Flags().StringVar(&flagHistoryPlayer, "player", "", "Only matches involving this player")
	historyCmd.Flags().BoolVar(&flagHistoryBoard, "board", false, "Show the leaderboard instead of matches")
}

func runHistory(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening match database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagHistoryBoard {
		printLeaderboard(store)
		return
	}
	printMatches(store)
}

func printMatches(store *storage.Store) {
	var (
		records []storage.MatchRecord
		err     error
	)
	if flagHistoryPlayer != "" {
		records, err = store.PlayerHistory(flagHistoryPlayer, flagHistoryLimit)
	} else {
		records, err = store.RecentMatches(flagHistoryLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving matches: %v\n", err)
		os.Exit(1)
	}

	if flagHistoryPlayer != "" {
		fmt.Printf("Match History - %s\n", flagHistoryPlayer)
	} else {
		fmt.Println("Match History")
	}
	fmt.Println()

	if len(records) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Play 'pong play pong' to record the first one!")
		return
	}

	// Print header
	fmt.Printf("  %-17s  %-6s  %-28s  %-10s  %s\n", "Played", "Mode", "Players", "Score", "Winner")
	fmt.Printf("  %-17s  %-6s  %-28s  %-10s  %s\n", "------", "----", "-------", "-----", "------")

	for _, rec := range records {
		res := rec.Result
		winner := res.Winner
		if res.Simulated {
			winner += " (sim)"
		}

		scores := make([]string, len(res.Scores))
		for i, s := range res.Scores {
			scores[i] = fmt.Sprintf("%d", s)
		}

		fmt.Printf("  %-17s  %-6s  %-28s  %-10s  %s\n",
			res.PlayedAt.Format("2006-01-02 15:04"),
			res.Mode,
			strings.Join(res.Usernames, ", "),
			strings.Join(scores, ":"),
			winner,
		)
	}
}

func printLeaderboard(store *storage.Store) {
	board, err := store.Leaderboard(flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving leaderboard: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Leaderboard")
	fmt.Println()

	if len(board) == 0 {
		fmt.Println("No wins recorded yet.")
		return
	}

	fmt.Printf("  %-4s  %-20s  %s\n", "Rank", "Player", "Wins")
	fmt.Printf("  %-4s  %-20s  %s\n", "----", "------", "----")

	for i, entry := range board {
		fmt.Printf("  %-4d  %-20s  %d\n", i+1, entry.Username, entry.Wins)
	}
}
