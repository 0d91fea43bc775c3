// Package storage provides SQLite-based persistence for match history
// and tournament brackets. Uses the pure-Go modernc.org/sqlite driver
// to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"pong-arena/internal/match"
	"pong-arena/internal/tournament"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// MatchRecord is a stored match result with its database identity.
type MatchRecord struct {
	ID        int64
	Result    match.Result
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			mode TEXT NOT NULL,
			round TEXT NOT NULL DEFAULT '',
			usernames TEXT NOT NULL,
			scores TEXT NOT NULL,
			winner TEXT NOT NULL,
			simulated INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			played_at DATETIME NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_winner ON matches(winner);
		CREATE INDEX IF NOT EXISTS idx_matches_recent ON matches(created_at DESC);

		CREATE TABLE IF NOT EXISTS tournaments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tournament_id TEXT NOT NULL UNIQUE,
			stage TEXT NOT NULL,
			bracket TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMatch persists a match result. Returns the row ID.
func (s *Store) SaveMatch(ctx context.Context, res match.Result) (int64, error) {
	usernames, err := json.Marshal(res.Usernames)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot encode usernames: %w", err)
	}
	scores, err := json.Marshal(res.Scores)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot encode scores: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO matches
		 (match_id, mode, round, usernames, scores, winner, simulated, duration_secs, played_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, string(res.Mode), string(res.Round),
		string(usernames), string(scores), res.Winner,
		boolToInt(res.Simulated), int(res.Duration.Seconds()), res.PlayedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// SubmitResult implements match.Submitter, letting the save queue
// write straight to the local database. A nil store (open failure
// stored into an interface) reports an error instead of panicking the
// queue worker.
func (s *Store) SubmitResult(ctx context.Context, res match.Result) error {
	if s == nil {
		return fmt.Errorf("storage: no database open")
	}
	_, err := s.SaveMatch(ctx, res)
	return err
}

var _ match.Submitter = (*Store)(nil)

// MatchByID retrieves a single match, or nil if it does not exist.
func (s *Store) MatchByID(matchID string) (*MatchRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, match_id, mode, round, usernames, scores, winner, simulated, duration_secs, played_at, created_at
		 FROM matches WHERE match_id = ?`, matchID)

	rec, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}
	return rec, nil
}

// RecentMatches retrieves the most recently recorded matches.
func (s *Store) RecentMatches(limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, match_id, mode, round, usernames, scores, winner, simulated, duration_secs, played_at, created_at
		 FROM matches ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	return collectMatches(rows)
}

// PlayerHistory retrieves matches a username took part in.
func (s *Store) PlayerHistory(username string, limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	// Usernames are stored as a JSON array; match the quoted element.
	needle := fmt.Sprintf("%%%q%%", username)
	rows, err := s.db.Query(
		`SELECT id, match_id, mode, round, usernames, scores, winner, simulated, duration_secs, played_at, created_at
		 FROM matches WHERE usernames LIKE ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		needle, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player history: %w", err)
	}
	defer rows.Close()

	return collectMatches(rows)
}

// LeaderEntry is one row of the win leaderboard.
type LeaderEntry struct {
	Username string
	Wins     int
}

// Leaderboard returns usernames ranked by number of wins.
func (s *Store) Leaderboard(limit int) ([]LeaderEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT winner, COUNT(*) AS wins FROM matches
		 WHERE winner != '' GROUP BY winner ORDER BY wins DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderEntry
	for rows.Next() {
		var e LeaderEntry
		if err := rows.Scan(&e.Username, &e.Wins); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// SaveTournament upserts a bracket snapshot so an interrupted
// tournament can be inspected or resumed later.
func (s *Store) SaveTournament(b *tournament.Bracket) error {
	blob, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("storage: cannot encode bracket: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO tournaments (tournament_id, stage, bracket)
		 VALUES (?, ?, ?)
		 ON CONFLICT(tournament_id) DO UPDATE SET
		   stage = excluded.stage,
		   bracket = excluded.bracket,
		   updated_at = CURRENT_TIMESTAMP`,
		b.ID, b.Stage.String(), string(blob),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save tournament: %w", err)
	}
	return nil
}

// LoadTournament retrieves a bracket snapshot by ID, or nil if absent.
func (s *Store) LoadTournament(tournamentID string) (*tournament.Bracket, error) {
	var blob string
	err := s.db.QueryRow(
		`SELECT bracket FROM tournaments WHERE tournament_id = ?`, tournamentID,
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query tournament: %w", err)
	}

	var b tournament.Bracket
	if err := json.Unmarshal([]byte(blob), &b); err != nil {
		return nil, fmt.Errorf("storage: cannot decode bracket: %w", err)
	}
	return &b, nil
}

// LatestUnfinishedTournament returns the most recent bracket that has
// not completed or aborted, or nil if none exists.
func (s *Store) LatestUnfinishedTournament() (*tournament.Bracket, error) {
	var blob string
	err := s.db.QueryRow(
		`SELECT bracket FROM tournaments
		 WHERE stage NOT IN ('complete', 'aborted')
		 ORDER BY updated_at DESC LIMIT 1`,
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query tournaments: %w", err)
	}

	var b tournament.Bracket
	if err := json.Unmarshal([]byte(blob), &b); err != nil {
		return nil, fmt.Errorf("storage: cannot decode bracket: %w", err)
	}
	return &b, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanMatch decodes one matches row.
func scanMatch(row rowScanner) (*MatchRecord, error) {
	var rec MatchRecord
	var mode, round, usernames, scores string
	var simulated, durationSecs int
	var playedAt, createdAt any

	if err := row.Scan(&rec.ID, &rec.Result.ID, &mode, &round, &usernames, &scores,
		&rec.Result.Winner, &simulated, &durationSecs, &playedAt, &createdAt); err != nil {
		return nil, err
	}

	rec.Result.Mode = match.Mode(mode)
	rec.Result.Round = match.Round(round)
	rec.Result.Simulated = simulated != 0
	rec.Result.Duration = time.Duration(durationSecs) * time.Second
	if err := json.Unmarshal([]byte(usernames), &rec.Result.Usernames); err != nil {
		return nil, fmt.Errorf("cannot decode usernames: %w", err)
	}
	if err := json.Unmarshal([]byte(scores), &rec.Result.Scores); err != nil {
		return nil, fmt.Errorf("cannot decode scores: %w", err)
	}
	rec.Result.PlayedAt = parseTime(playedAt)
	rec.CreatedAt = parseTime(createdAt)
	return &rec, nil
}

// collectMatches drains a matches query.
func collectMatches(rows *sql.Rows) ([]MatchRecord, error) {
	var records []MatchRecord
	for rows.Next() {
		rec, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// parseTime handles the driver returning either time.Time or string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{
			"2006-01-02 15:04:05.999999999-07:00",
			"2006-01-02 15:04:05",
			time.RFC3339Nano,
			time.RFC3339,
		} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
