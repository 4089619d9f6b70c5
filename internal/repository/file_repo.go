package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/adyen/storefront-e2e/internal/models"
)

// FileRunRepository stores each run as one JSON document under a directory
type FileRunRepository struct {
	dir string
	mu  sync.Mutex
}

// NewFileRunRepository creates a file-backed run repository rooted at dir
func NewFileRunRepository(dir string) (*FileRunRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &FileRunRepository{dir: dir}, nil
}

// Dir returns the directory the reports live in
func (r *FileRunRepository) Dir() string {
	return r.dir
}

func (r *FileRunRepository) path(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("%w: %q", ErrRunNotFound, id)
	}
	return filepath.Join(r.dir, id+".json"), nil
}

// CreateRun writes a new run document
func (r *FileRunRepository) CreateRun(run *models.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	path, err := r.path(run.ID)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("failed to create run: %s already exists", run.ID)
	}
	return r.write(path, run)
}

// FinishRun stores the run's finish time
func (r *FileRunRepository) FinishRun(run *models.Run) error {
	return r.update(run.ID, func(stored *models.Run) {
		stored.FinishedAt = run.FinishedAt
	})
}

// SaveResult inserts or replaces a result in its run's document
func (r *FileRunRepository) SaveResult(result *models.TestResult) error {
	return r.update(result.RunID, func(stored *models.Run) {
		for i, existing := range stored.Results {
			if existing.ID == result.ID {
				stored.Results[i] = result
				return
			}
		}
		stored.Results = append(stored.Results, result)
	})
}

// GetRun reads a run document
func (r *FileRunRepository) GetRun(id string) (*models.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	path, err := r.path(id)
	if err != nil {
		return nil, err
	}
	return r.read(path)
}

// ListRuns returns the most recent runs first, with result counts
func (r *FileRunRepository) ListRuns(limit int) ([]models.RunSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	var summaries []models.RunSummary
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		run, err := r.read(filepath.Join(r.dir, e.Name()))
		if err != nil {
			return nil, err
		}
		summary := models.RunSummary{Run: *run, Counts: run.Counts()}
		summary.Results = nil
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].StartedAt.After(summaries[j].StartedAt)
	})
	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

func (r *FileRunRepository) update(id string, apply func(*models.Run)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	path, err := r.path(id)
	if err != nil {
		return err
	}
	run, err := r.read(path)
	if err != nil {
		return err
	}
	apply(run)
	return r.write(path, run)
}

func (r *FileRunRepository) read(path string) (*models.Run, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read run: %w", err)
	}

	run := &models.Run{}
	if err := json.Unmarshal(data, run); err != nil {
		return nil, fmt.Errorf("failed to decode run %s: %w", filepath.Base(path), err)
	}
	return run, nil
}

// write replaces the document atomically so readers never see a partial file
func (r *FileRunRepository) write(path string, run *models.Run) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, ".run-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write run: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write run: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write run: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write run: %w", err)
	}
	return nil
}
