package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// NewSQLXSQLiteDB opens the SQLite database, verifies the connection and
// bootstraps the schema. SQLite serializes writers, so a single connection
// avoids spurious SQLITE_BUSY under concurrent submissions.
func NewSQLXSQLiteDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := bootstrap(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// bootstrap creates the three survey tables when absent. Submissions only
// ever append; there are no migrations beyond this.
func bootstrap(ctx context.Context, db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS responses (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL,
			role TEXT NOT NULL,
			respondent_name TEXT NOT NULL,
			team_key TEXT,
			team_size INTEGER,
			budget REAL
		);`,
		`CREATE TABLE IF NOT EXISTS ratings (
			id TEXT PRIMARY KEY,
			response_id TEXT NOT NULL REFERENCES responses(id),
			role TEXT NOT NULL,
			category TEXT NOT NULL,
			question TEXT NOT NULL,
			rating INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS open_answers (
			id TEXT PRIMARY KEY,
			response_id TEXT NOT NULL REFERENCES responses(id),
			question TEXT NOT NULL,
			answer TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_response ON ratings(response_id);`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_role_category ON ratings(role, category);`,
		`CREATE INDEX IF NOT EXISTS idx_open_answers_response ON open_answers(response_id);`,
		`CREATE INDEX IF NOT EXISTS idx_responses_team ON responses(team_key);`,
		`CREATE INDEX IF NOT EXISTS idx_responses_created_at ON responses(created_at DESC);`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to bootstrap survey schema: %w", err)
		}
	}
	return nil
}
