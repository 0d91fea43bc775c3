package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"pong-arena/internal/api"
	"pong-arena/internal/storage"
)

var flagAPIAddr string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Serve the match history HTTP API",
	Long: `Serve the match history over HTTP, backed by the local database.

Clients with PONG_API_ADDR pointing at this server submit their
results here instead of writing locally, giving a group of machines a
shared history.

Routes:
  POST /api/matches      - Record a match result
  GET  /api/matches      - List recent matches (?limit=, ?player=)
  GET  /api/matches/:id  - Fetch one match
  GET  /api/leaderboard  - Win counts per player

Examples:
  pong api
  pong api --addr :9000 --db ./arena.db`,
	Run: runAPI,
}

func init() {
	apiCmd.Flags().StringVar(&flagAPIAddr, "addr", ":8090", "Listen address (host:port)")
}

func runAPI(_ *cobra.Command, _ []string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "arena-api",
	})

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening match database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	server := api.NewServer(store, logger)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := server.Listen(flagAPIAddr); err != nil {
			logger.Error("server error", "err", err)
			done <- syscall.SIGTERM
		}
	}()

	<-done
	logger.Info("shutting down...")
	if err := server.Shutdown(); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}
