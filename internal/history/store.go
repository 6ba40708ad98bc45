// Package history records executed examples in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Run is one recorded execution of an example.
type Run struct {
	ID         string        `json:"id" yaml:"id"`
	Pattern    string        `json:"pattern" yaml:"pattern"`
	Language   string        `json:"language" yaml:"language"`
	Variant    string        `json:"variant,omitempty" yaml:"variant,omitempty"`
	Command    string        `json:"command" yaml:"command"`
	ExitCode   int           `json:"exit_code" yaml:"exit_code"`
	SpawnError string        `json:"spawn_error,omitempty" yaml:"spawn_error,omitempty"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
	StartedAt  time.Time     `json:"started_at" yaml:"started_at"`
}

// Success reports whether the run started and exited with status 0.
func (r *Run) Success() bool {
	return r.SpawnError == "" && r.ExitCode == 0
}

// Filter narrows Recent queries. Zero values mean "any".
type Filter struct {
	Pattern  string
	Language string
	Limit    int
}

// Stat aggregates runs of one pattern/language pair.
type Stat struct {
	Pattern  string
	Language string
	Runs     int
	Failures int
	LastRun  time.Time
}

// Store manages the SQLite run history database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (and creates if needed) the history database at dbPath.
// ":memory:" opens a private in-memory database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := execWithRetry(db, schemaSQL, 5, 10*time.Millisecond); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// execWithRetry executes a statement with exponential backoff on lock errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores run. Missing ID and StartedAt are filled in and written back.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.StartedAt = run.StartedAt.UTC()

	query := `INSERT INTO runs
		(id, pattern, language, variant, command, exit_code, spawn_error, duration_ms, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.Pattern,
		run.Language,
		run.Variant,
		run.Command,
		run.ExitCode,
		run.SpawnError,
		run.Duration.Milliseconds(),
		run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns matching runs, most recent first.
func (s *Store) Recent(ctx context.Context, filter Filter) ([]*Run, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Pattern != "" {
		where = append(where, "pattern = ?")
		args = append(args, filter.Pattern)
	}
	if filter.Language != "" {
		where = append(where, "language = ?")
		args = append(args, filter.Language)
	}

	query := `SELECT id, pattern, language, variant, command, exit_code, spawn_error, duration_ms, started_at FROM runs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY started_at DESC, rowid DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var durationMS int64
		if err := rows.Scan(
			&run.ID,
			&run.Pattern,
			&run.Language,
			&run.Variant,
			&run.Command,
			&run.ExitCode,
			&run.SpawnError,
			&durationMS,
			&run.StartedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Stats aggregates run counts per pattern/language, ordered by pattern then language.
func (s *Store) Stats(ctx context.Context) ([]Stat, error) {
	query := `SELECT pattern, language, COUNT(*),
			SUM(CASE WHEN exit_code != 0 OR spawn_error != '' THEN 1 ELSE 0 END),
			MAX(started_at)
		FROM runs
		GROUP BY pattern, language
		ORDER BY pattern, language`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var stats []Stat
	for rows.Next() {
		var st Stat
		var lastRun string
		if err := rows.Scan(&st.Pattern, &st.Language, &st.Runs, &st.Failures, &lastRun); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		st.LastRun = parseSQLiteTime(lastRun)
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats: %w", err)
	}
	return stats, nil
}

// parseSQLiteTime parses the text form SQLite returns for aggregated
// timestamps, which loses the column's declared type.
func parseSQLiteTime(value string) time.Time {
	layouts := []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02T15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04:05.999999999",
		time.RFC3339Nano,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
