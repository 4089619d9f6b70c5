package database

import (
	"database/sql"
	"fmt"

	"github.com/adyen/storefront-e2e/internal/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id UUID PRIMARY KEY,
	base_url VARCHAR(2048) NOT NULL,
	browser VARCHAR(50) NOT NULL,
	started_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	finished_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS test_results (
	id UUID PRIMARY KEY,
	run_id UUID NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	name VARCHAR(512) NOT NULL,
	status VARCHAR(50) NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	started_at TIMESTAMP NOT NULL,
	finished_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS test_steps (
	result_id UUID NOT NULL REFERENCES test_results(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	title TEXT NOT NULL,
	at TIMESTAMP NOT NULL,
	PRIMARY KEY (result_id, position)
);

CREATE TABLE IF NOT EXISTS attachments (
	result_id UUID NOT NULL REFERENCES test_results(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	name VARCHAR(255) NOT NULL,
	path TEXT NOT NULL,
	mime_type VARCHAR(255) NOT NULL,
	PRIMARY KEY (result_id, position)
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_test_results_run_id ON test_results(run_id);
CREATE INDEX IF NOT EXISTS idx_test_results_status ON test_results(status);
`

// RunMigrations creates the report tables on the package connection
func RunMigrations() error {
	if DB == nil {
		return fmt.Errorf("database connection not initialized")
	}
	if err := Migrate(DB); err != nil {
		return err
	}
	logger.Default().Info("Database migrations completed successfully")
	return nil
}

// Migrate creates the report tables on db
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create report tables: %w", err)
	}
	return nil
}
