package repository

import "github.com/adyen/storefront-e2e/internal/models"

// NopRunRepository discards reports. It backs REPORT_SINK=none.
type NopRunRepository struct{}

func (NopRunRepository) CreateRun(*models.Run) error         { return nil }
func (NopRunRepository) FinishRun(*models.Run) error         { return nil }
func (NopRunRepository) SaveResult(*models.TestResult) error { return nil }

func (NopRunRepository) GetRun(string) (*models.Run, error) {
	return nil, ErrRunNotFound
}

func (NopRunRepository) ListRuns(int) ([]models.RunSummary, error) {
	return nil, nil
}
