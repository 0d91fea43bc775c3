package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pong-arena/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available modes",
	Long:  `Shows a list of all match modes registered in the arena.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	modes := registry.List()

	if len(modes) == 0 {
		fmt.Println("No modes available.")
		return
	}

	fmt.Println("Available modes:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, m := range modes {
		if len(m.ID) > maxIDLen {
			maxIDLen = len(m.ID)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %-18s  %s\n", maxIDLen, "ID", "Title", "Players")
	fmt.Printf("  %-*s  %-18s  %s\n", maxIDLen, "--", "-----", "-------")

	// Print modes
	for _, m := range modes {
		fmt.Printf("  %-*s  %-18s  %d\n", maxIDLen, m.ID, m.Title, m.Mode.PlayerCount())
	}

	fmt.Println()
	fmt.Println("Run 'pong play <id>' to start a match.")
}
