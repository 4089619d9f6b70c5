package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/adyen/storefront-e2e/internal/database"
	"github.com/adyen/storefront-e2e/internal/models"
)

// RunRepository stores run reports in PostgreSQL
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a run repository on the package database connection
func NewRunRepository() *RunRepository {
	return &RunRepository{
		db: database.DB,
	}
}

// NewRunRepositoryWithDB creates a run repository with a specific database connection
func NewRunRepositoryWithDB(db *sql.DB) *RunRepository {
	return &RunRepository{
		db: db,
	}
}

// CreateRun inserts a new run
func (r *RunRepository) CreateRun(run *models.Run) error {
	query := `
		INSERT INTO runs (id, base_url, browser, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(query, run.ID, run.BaseURL, run.Browser, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// FinishRun stores the run's finish time
func (r *RunRepository) FinishRun(run *models.Run) error {
	result, err := r.db.Exec(`UPDATE runs SET finished_at = $1 WHERE id = $2`, run.FinishedAt, run.ID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRunNotFound
	}
	return nil
}

// SaveResult upserts a test result and replaces its steps and attachments
func (r *RunRepository) SaveResult(result *models.TestResult) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	upsert := `
		INSERT INTO test_results (id, run_id, name, status, error, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status, error = EXCLUDED.error, finished_at = EXCLUDED.finished_at
	`
	_, err = tx.Exec(upsert, result.ID, result.RunID, result.Name, result.Status, result.Error,
		result.StartedAt, result.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM test_steps WHERE result_id = $1`, result.ID); err != nil {
		return fmt.Errorf("failed to clear steps: %w", err)
	}
	for i, step := range result.Steps {
		_, err := tx.Exec(`INSERT INTO test_steps (result_id, position, title, at) VALUES ($1, $2, $3, $4)`,
			result.ID, i, step.Title, step.At)
		if err != nil {
			return fmt.Errorf("failed to save step: %w", err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM attachments WHERE result_id = $1`, result.ID); err != nil {
		return fmt.Errorf("failed to clear attachments: %w", err)
	}
	for i, a := range result.Attachments {
		_, err := tx.Exec(`INSERT INTO attachments (result_id, position, name, path, mime_type) VALUES ($1, $2, $3, $4, $5)`,
			result.ID, i, a.Name, a.Path, a.MimeType)
		if err != nil {
			return fmt.Errorf("failed to save attachment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit result: %w", err)
	}
	return nil
}

// GetRun loads a run with its results, steps and attachments
func (r *RunRepository) GetRun(id string) (*models.Run, error) {
	run := &models.Run{}
	var finished sql.NullTime
	err := r.db.QueryRow(`SELECT id, base_url, browser, started_at, finished_at FROM runs WHERE id = $1`, id).
		Scan(&run.ID, &run.BaseURL, &run.Browser, &run.StartedAt, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	run.FinishedAt = timePtr(finished)

	results, err := r.results(id)
	if err != nil {
		return nil, err
	}
	run.Results = results
	return run, nil
}

func (r *RunRepository) results(runID string) ([]*models.TestResult, error) {
	rows, err := r.db.Query(`
		SELECT id, run_id, name, status, error, started_at, finished_at
		FROM test_results
		WHERE run_id = $1
		ORDER BY started_at, name
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}
	defer rows.Close()

	var results []*models.TestResult
	byID := map[string]*models.TestResult{}
	for rows.Next() {
		res := &models.TestResult{}
		var finished sql.NullTime
		if err := rows.Scan(&res.ID, &res.RunID, &res.Name, &res.Status, &res.Error, &res.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		res.FinishedAt = timePtr(finished)
		results = append(results, res)
		byID[res.ID] = res
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}

	if err := r.loadSteps(runID, byID); err != nil {
		return nil, err
	}
	if err := r.loadAttachments(runID, byID); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *RunRepository) loadSteps(runID string, byID map[string]*models.TestResult) error {
	rows, err := r.db.Query(`
		SELECT s.result_id, s.title, s.at
		FROM test_steps s JOIN test_results t ON t.id = s.result_id
		WHERE t.run_id = $1
		ORDER BY s.result_id, s.position
	`, runID)
	if err != nil {
		return fmt.Errorf("failed to get steps: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var resultID string
		var step models.Step
		if err := rows.Scan(&resultID, &step.Title, &step.At); err != nil {
			return fmt.Errorf("failed to scan step: %w", err)
		}
		if res, ok := byID[resultID]; ok {
			res.Steps = append(res.Steps, step)
		}
	}
	return rows.Err()
}

func (r *RunRepository) loadAttachments(runID string, byID map[string]*models.TestResult) error {
	rows, err := r.db.Query(`
		SELECT a.result_id, a.name, a.path, a.mime_type
		FROM attachments a JOIN test_results t ON t.id = a.result_id
		WHERE t.run_id = $1
		ORDER BY a.result_id, a.position
	`, runID)
	if err != nil {
		return fmt.Errorf("failed to get attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var resultID string
		var a models.Attachment
		if err := rows.Scan(&resultID, &a.Name, &a.Path, &a.MimeType); err != nil {
			return fmt.Errorf("failed to scan attachment: %w", err)
		}
		if res, ok := byID[resultID]; ok {
			res.Attachments = append(res.Attachments, a)
		}
	}
	return rows.Err()
}

// ListRuns returns the most recent runs first, with result counts
func (r *RunRepository) ListRuns(limit int) ([]models.RunSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.db.Query(`
		SELECT r.id, r.base_url, r.browser, r.started_at, r.finished_at,
		       COUNT(t.id) FILTER (WHERE t.status = 'passed'),
		       COUNT(t.id) FILTER (WHERE t.status = 'failed'),
		       COUNT(t.id) FILTER (WHERE t.status = 'skipped'),
		       COUNT(t.id) FILTER (WHERE t.status = 'running')
		FROM runs r LEFT JOIN test_results t ON t.run_id = r.id
		GROUP BY r.id
		ORDER BY r.started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var summaries []models.RunSummary
	for rows.Next() {
		var s models.RunSummary
		var finished sql.NullTime
		err := rows.Scan(&s.ID, &s.BaseURL, &s.Browser, &s.StartedAt, &finished,
			&s.Counts.Passed, &s.Counts.Failed, &s.Counts.Skipped, &s.Counts.Running)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		s.FinishedAt = timePtr(finished)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return summaries, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
