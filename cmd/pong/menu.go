package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"pong-arena/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive menu",
	Long: `Start the interactive menu: pick a mode, enter player names, and
play. The menu also reaches tournaments and the match history.`,
	Run: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	menuCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runMenu(_ *cobra.Command, _ []string) {
	pongCfg := loadGameConfig()
	cfg := runtimeConfig()
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "pong"})

	store := openStore(logger)
	queue := buildQueue(store, logger)

	runErr := tui.RunApp(store, queue, pongCfg, cfg, os.Getenv("USER"), logger)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
