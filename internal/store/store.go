package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed persistence layer. It holds the catalog of
// problems, finished-session summaries, and the LLM request event log.
type Store struct {
	db *sql.DB

	Problems  *ProblemRepo
	Summaries *SummaryRepo
	Events    *LLMEventRepo
}

// Open opens (creating if necessary) the SQLite database at path and
// initializes the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	// WAL mode for concurrent readers alongside the writer.
	dsn := path + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	s.Problems = &ProblemRepo{db: db}
	s.Summaries = &SummaryRepo{db: db}
	s.Events = &LLMEventRepo{db: db}

	return s, nil
}

func (s *Store) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;

	CREATE TABLE IF NOT EXISTS problems (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		statement TEXT NOT NULL,
		test_cases_json TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT 'catalog',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_problems_difficulty ON problems(difficulty);

	CREATE TABLE IF NOT EXISTS session_summaries (
		session_id TEXT PRIMARY KEY,
		problem_id TEXT NOT NULL,
		skill_level TEXT NOT NULL,
		phase TEXT NOT NULL,
		hints_used INTEGER NOT NULL,
		editor_unlocked INTEGER NOT NULL,
		verdict TEXT,
		recommended_level TEXT,
		feedback TEXT,
		created_at INTEGER NOT NULL,
		finished_at INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_summaries_problem ON session_summaries(problem_id);

	CREATE TABLE IF NOT EXISTS llm_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL,
		output_tokens INTEGER NOT NULL,
		latency_ms INTEGER NOT NULL,
		success INTEGER NOT NULL,
		error_message TEXT,
		request_body TEXT,
		response_body TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_llm_events_purpose ON llm_events(purpose);
	CREATE INDEX IF NOT EXISTS idx_llm_events_created ON llm_events(created_at);
	`
	_, err := s.db.Exec(query)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
