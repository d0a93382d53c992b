// Package events persists an append-only log of LLM request events in
// SQLite. The log is observability data, not pipeline state: failure to
// write an event never fails the request that produced it.
package events

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// LLMRequestEvent captures the data for a single LLM request.
type LLMRequestEvent struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// Totals aggregates the event log for reporting.
type Totals struct {
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
}

// Repo provides append access to LLM request events.
type Repo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, ev LLMRequestEvent) error
}

// Log is a SQLite-backed event log.
type Log struct {
	db *sql.DB
}

// Open creates a Log backed by the SQLite database at dsn, applying
// recommended pragmas and creating the events table if needed.
func Open(dsn string) (*Log, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create events table: %w", err)
	}

	return &Log{db: db}, nil
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS llm_request_events (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp     TEXT NOT NULL,
	provider      TEXT NOT NULL,
	model         TEXT NOT NULL,
	purpose       TEXT NOT NULL,
	input_tokens  INTEGER NOT NULL DEFAULT 0,
	output_tokens INTEGER NOT NULL DEFAULT 0,
	latency_ms    INTEGER NOT NULL DEFAULT 0,
	success       INTEGER NOT NULL DEFAULT 0,
	error_message TEXT NOT NULL DEFAULT ''
)`

// AppendLLMRequest records one event.
func (l *Log) AppendLLMRequest(ctx context.Context, ev LLMRequestEvent) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO llm_request_events
			(timestamp, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		ev.Provider, ev.Model, ev.Purpose,
		ev.InputTokens, ev.OutputTokens, ev.LatencyMs,
		boolToInt(ev.Success), ev.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("append llm request event: %w", err)
	}
	return nil
}

// Totals returns aggregate counters over the whole log.
func (l *Log) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := l.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(input_tokens), 0),
		       COALESCE(SUM(output_tokens), 0)
		FROM llm_request_events`).
		Scan(&t.Requests, &t.Failures, &t.InputTokens, &t.OutputTokens)
	if err != nil {
		return Totals{}, fmt.Errorf("query event totals: %w", err)
	}
	return t, nil
}

// Close closes the database connection.
func (l *Log) Close() error {
	return l.db.Close()
}

// applyPragmas configures SQLite for single-writer pipeline use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// NopRepo discards all events. Used when the event log is disabled.
type NopRepo struct{}

func (NopRepo) AppendLLMRequest(context.Context, LLMRequestEvent) error { return nil }

// DefaultLogPath resolves the event log path in priority order:
// 1. MATHBANK_EVENTS_DB environment variable
// 2. $XDG_DATA_HOME/mathbank/events.db
// 3. ~/.local/share/mathbank/events.db
func DefaultLogPath() (string, error) {
	if p := os.Getenv("MATHBANK_EVENTS_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "mathbank", "events.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
