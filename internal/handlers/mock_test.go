package handlers

import (
	"github.com/adyen/storefront-e2e/internal/models"
)

// MockReportService is a mock implementation of ReportService for testing
type MockReportService struct {
	GetRunFunc   func(string) (*models.Run, error)
	ListRunsFunc func(int) ([]models.RunSummary, error)
}

func (m *MockReportService) StartRun(baseURL, browser string) (*models.Run, error) {
	return models.NewRun(baseURL, browser)
}

func (m *MockReportService) FinishRun(run *models.Run) error { return nil }

func (m *MockReportService) StartTest(run *models.Run, name string) (*models.TestResult, error) {
	return models.NewTestResult(run.ID, name)
}

func (m *MockReportService) Step(result *models.TestResult, title string) {}

func (m *MockReportService) Attach(result *models.TestResult, name, path string) error { return nil }

func (m *MockReportService) FinishTest(result *models.TestResult, status models.ResultStatus, reason string) error {
	return nil
}

func (m *MockReportService) GetRun(id string) (*models.Run, error) {
	if m.GetRunFunc != nil {
		return m.GetRunFunc(id)
	}
	return &models.Run{ID: id}, nil
}

func (m *MockReportService) ListRuns(limit int) ([]models.RunSummary, error) {
	if m.ListRunsFunc != nil {
		return m.ListRunsFunc(limit)
	}
	return nil, nil
}
