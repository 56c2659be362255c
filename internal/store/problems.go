package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aman-dalan/AI-Hackathon/internal/problem"
)

// ProblemRepo persists the problem catalog.
type ProblemRepo struct {
	db *sql.DB
}

// Upsert inserts or replaces a problem by id.
func (r *ProblemRepo) Upsert(ctx context.Context, p problem.Problem) error {
	if p.ID == "" {
		return errors.New("problem id is required")
	}

	cases, err := json.Marshal(p.TestCases)
	if err != nil {
		return fmt.Errorf("marshal test cases: %w", err)
	}

	now := time.Now().Unix()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO problems (id, title, difficulty, statement, test_cases_json, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			difficulty = excluded.difficulty,
			statement = excluded.statement,
			test_cases_json = excluded.test_cases_json,
			source = excluded.source,
			updated_at = excluded.updated_at`,
		p.ID, p.Title, string(p.Difficulty), p.Statement, string(cases), p.Source, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert problem %s: %w", p.ID, err)
	}
	return nil
}

// Get returns a problem by id, or ErrNotFound.
func (r *ProblemRepo) Get(ctx context.Context, id string) (*problem.Problem, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, difficulty, statement, test_cases_json, source
		FROM problems WHERE id = ?`, id)

	p, err := scanProblem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns all problems ordered by title. An empty difficulty matches all.
func (r *ProblemRepo) List(ctx context.Context, difficulty problem.Difficulty) ([]problem.Problem, error) {
	query := `SELECT id, title, difficulty, statement, test_cases_json, source FROM problems`
	args := []any{}
	if difficulty != "" {
		query += ` WHERE difficulty = ?`
		args = append(args, string(difficulty))
	}
	query += ` ORDER BY title`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list problems: %w", err)
	}
	defer rows.Close()

	var out []problem.Problem
	for rows.Next() {
		p, err := scanProblem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Count returns the number of stored problems.
func (r *ProblemRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM problems`).Scan(&n)
	return n, err
}

// Seed inserts the built-in fallback problems if the table is empty.
func (r *ProblemRepo) Seed(ctx context.Context) (int, error) {
	n, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	seeded := 0
	for _, p := range problem.FallbackProblems() {
		if err := r.Upsert(ctx, p); err != nil {
			return seeded, err
		}
		seeded++
	}
	return seeded, nil
}

func scanProblem(row rowScanner) (*problem.Problem, error) {
	var p problem.Problem
	var difficulty, casesJSON string

	err := row.Scan(&p.ID, &p.Title, &difficulty, &p.Statement, &casesJSON, &p.Source)
	if err != nil {
		return nil, err
	}

	p.Difficulty = problem.Difficulty(difficulty)
	if err := json.Unmarshal([]byte(casesJSON), &p.TestCases); err != nil {
		return nil, fmt.Errorf("unmarshal test cases for %s: %w", p.ID, err)
	}
	return &p, nil
}
