// Package api exposes match history over HTTP and provides the client
// used to submit results to a remote history service. The TUI can
// persist matches either straight to its local database or through
// this API when an address is configured.
package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/charmbracelet/log"

	"pong-arena/internal/match"
	"pong-arena/internal/storage"
)

// MatchPayload is the wire form of a match result.
type MatchPayload struct {
	ID           string    `json:"id,omitempty"`
	Mode         string    `json:"mode"`
	Round        string    `json:"round,omitempty"`
	Usernames    []string  `json:"usernames"`
	Scores       []int     `json:"scores"`
	Winner       string    `json:"winner"`
	Simulated    bool      `json:"simulated,omitempty"`
	DurationSecs int       `json:"duration_secs,omitempty"`
	PlayedAt     time.Time `json:"played_at,omitempty"`
}

// toResult converts the payload to the domain type, minting identity
// for clients that do not supply it.
func (p MatchPayload) toResult() match.Result {
	res := match.NewResult(match.Mode(p.Mode), match.Round(p.Round), p.Usernames, p.Scores, p.Winner)
	if p.ID != "" {
		res.ID = p.ID
	}
	if !p.PlayedAt.IsZero() {
		res.PlayedAt = p.PlayedAt
	}
	res.Simulated = p.Simulated
	res.Duration = time.Duration(p.DurationSecs) * time.Second
	return res
}

// payloadFrom converts a domain result to its wire form.
func payloadFrom(res match.Result) MatchPayload {
	return MatchPayload{
		ID:           res.ID,
		Mode:         string(res.Mode),
		Round:        string(res.Round),
		Usernames:    res.Usernames,
		Scores:       res.Scores,
		Winner:       res.Winner,
		Simulated:    res.Simulated,
		DurationSecs: int(res.Duration.Seconds()),
		PlayedAt:     res.PlayedAt,
	}
}

// Server serves the match history API backed by the local store.
type Server struct {
	app    *fiber.App
	store  *storage.Store
	logger *log.Logger
}

// NewServer builds the API server and its routes.
func NewServer(store *storage.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	app := fiber.New(fiber.Config{
		AppName:               "pong-arena history",
		DisableStartupMessage: true,
	})

	s := &Server{app: app, store: store, logger: logger}

	api := app.Group("/api")
	api.Post("/matches", s.createMatch)
	api.Get("/matches", s.listMatches)
	api.Get("/matches/:id", s.getMatch)
	api.Get("/leaderboard", s.leaderboard)
	return s
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen blocks serving the API on addr.
func (s *Server) Listen(addr string) error {
	s.logger.Info("history API listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) createMatch(c *fiber.Ctx) error {
	var payload MatchPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body"})
	}

	res := payload.toResult()
	if err := res.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if _, err := s.store.SaveMatch(c.Context(), res); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "match already recorded"})
		}
		s.logger.Error("cannot save match", "id", res.ID, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "storage failure"})
	}

	return c.Status(fiber.StatusCreated).JSON(payloadFrom(res))
}

func (s *Server) listMatches(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	player := c.Query("player")

	var (
		records []storage.MatchRecord
		err     error
	)
	if player != "" {
		records, err = s.store.PlayerHistory(player, limit)
	} else {
		records, err = s.store.RecentMatches(limit)
	}
	if err != nil {
		s.logger.Error("cannot list matches", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "storage failure"})
	}

	payloads := make([]MatchPayload, 0, len(records))
	for _, rec := range records {
		payloads = append(payloads, payloadFrom(rec.Result))
	}
	return c.JSON(payloads)
}

func (s *Server) getMatch(c *fiber.Ctx) error {
	rec, err := s.store.MatchByID(c.Params("id"))
	if err != nil {
		s.logger.Error("cannot load match", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "storage failure"})
	}
	if rec == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "match not found"})
	}
	return c.JSON(payloadFrom(rec.Result))
}

func (s *Server) leaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	board, err := s.store.Leaderboard(limit)
	if err != nil {
		s.logger.Error("cannot load leaderboard", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "storage failure"})
	}
	return c.JSON(board)
}
