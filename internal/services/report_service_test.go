package services

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adyen/storefront-e2e/internal/config"
	"github.com/adyen/storefront-e2e/internal/logger"
	"github.com/adyen/storefront-e2e/internal/models"
)

// MockRunRepository is a mock implementation of RunRepository for testing
type MockRunRepository struct {
	CreateRunFunc  func(*models.Run) error
	FinishRunFunc  func(*models.Run) error
	SaveResultFunc func(*models.TestResult) error
	GetRunFunc     func(string) (*models.Run, error)
	ListRunsFunc   func(int) ([]models.RunSummary, error)
}

func (m *MockRunRepository) CreateRun(run *models.Run) error {
	if m.CreateRunFunc != nil {
		return m.CreateRunFunc(run)
	}
	return nil
}

func (m *MockRunRepository) FinishRun(run *models.Run) error {
	if m.FinishRunFunc != nil {
		return m.FinishRunFunc(run)
	}
	return nil
}

func (m *MockRunRepository) SaveResult(result *models.TestResult) error {
	if m.SaveResultFunc != nil {
		return m.SaveResultFunc(result)
	}
	return nil
}

func (m *MockRunRepository) GetRun(id string) (*models.Run, error) {
	if m.GetRunFunc != nil {
		return m.GetRunFunc(id)
	}
	return &models.Run{ID: id}, nil
}

func (m *MockRunRepository) ListRuns(limit int) ([]models.RunSummary, error) {
	if m.ListRunsFunc != nil {
		return m.ListRunsFunc(limit)
	}
	return nil, nil
}

func newTestLogger() (*logger.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logger.New(config.LoggerConfig{Level: "debug"}, &buf), &buf
}

func TestReportService_StartRun(t *testing.T) {
	tests := []struct {
		name      string
		baseURL   string
		mockError error
		wantErr   error
	}{
		{
			name:    "successful run creation",
			baseURL: "https://www.saucedemo.com",
		},
		{
			name:    "missing base url",
			baseURL: "",
			wantErr: models.ErrInvalidBaseURL,
		},
		{
			name:      "repository error",
			baseURL:   "https://www.saucedemo.com",
			mockError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created *models.Run
			mockRepo := &MockRunRepository{
				CreateRunFunc: func(run *models.Run) error {
					created = run
					return tt.mockError
				},
			}
			log, _ := newTestLogger()
			service := NewReportService(mockRepo, log)

			run, err := service.StartRun(tt.baseURL, "chromium")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("StartRun() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if tt.mockError != nil {
				if !errors.Is(err, tt.mockError) {
					t.Errorf("StartRun() error = %v, want %v", err, tt.mockError)
				}
				return
			}
			if err != nil {
				t.Fatalf("StartRun() unexpected error = %v", err)
			}
			if created != run {
				t.Error("Expected the returned run to be persisted")
			}
			if run.Browser != "chromium" {
				t.Errorf("Expected browser chromium, got %s", run.Browser)
			}
		})
	}
}

func TestReportService_TestLifecycle(t *testing.T) {
	var saved []models.ResultStatus
	mockRepo := &MockRunRepository{
		SaveResultFunc: func(result *models.TestResult) error {
			saved = append(saved, result.Status)
			return nil
		},
	}
	log, buf := newTestLogger()
	service := NewReportService(mockRepo, log)

	run, _ := models.NewRun("https://www.saucedemo.com", "chromium")
	result, err := service.StartTest(run, "TestAddToCart")
	if err != nil {
		t.Fatalf("StartTest() unexpected error = %v", err)
	}
	if len(run.Results) != 1 {
		t.Errorf("Expected result to be added to the run")
	}

	service.Step(result, "Add item to cart")
	if len(result.Steps) != 1 {
		t.Errorf("Expected 1 step, got %d", len(result.Steps))
	}

	if err := service.FinishTest(result, models.StatusFailed, "badge shows 0"); err != nil {
		t.Fatalf("FinishTest() unexpected error = %v", err)
	}

	// late steps are logged only
	service.Step(result, "Closing page")
	if len(result.Steps) != 1 {
		t.Errorf("Expected steps to stay at 1, got %d", len(result.Steps))
	}

	want := []models.ResultStatus{models.StatusRunning, models.StatusFailed}
	if len(saved) != len(want) || saved[0] != want[0] || saved[1] != want[1] {
		t.Errorf("Saved statuses = %v, want %v", saved, want)
	}

	out := buf.String()
	for _, s := range []string{"Add item to cart", "FAIL", "badge shows 0", "test=TestAddToCart"} {
		if !strings.Contains(out, s) {
			t.Errorf("Expected log output to contain %q, got:\n%s", s, out)
		}
	}
}

func TestReportService_FinishTest(t *testing.T) {
	tests := []struct {
		name      string
		status    models.ResultStatus
		mockError error
		wantErr   bool
	}{
		{name: "passed", status: models.StatusPassed},
		{name: "skipped", status: models.StatusSkipped},
		{name: "failed", status: models.StatusFailed},
		{name: "back to running", status: models.StatusRunning, wantErr: true},
		{name: "unknown status", status: "flaky", wantErr: true},
		{name: "repository error", status: models.StatusPassed, mockError: errors.New("disk full"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockRunRepository{
				SaveResultFunc: func(*models.TestResult) error { return tt.mockError },
			}
			log, _ := newTestLogger()
			service := NewReportService(mockRepo, log)
			result, _ := models.NewTestResult("run-1", "TestSort")

			err := service.FinishTest(result, tt.status, "reason")
			if (err != nil) != tt.wantErr {
				t.Errorf("FinishTest() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReportService_FinishTest_Twice(t *testing.T) {
	log, _ := newTestLogger()
	service := NewReportService(&MockRunRepository{}, log)
	result, _ := models.NewTestResult("run-1", "TestSort")

	if err := service.FinishTest(result, models.StatusPassed, ""); err != nil {
		t.Fatal(err)
	}
	err := service.FinishTest(result, models.StatusFailed, "late")
	if !errors.Is(err, models.ErrInvalidStatusTransition) {
		t.Errorf("Expected %v, got %v", models.ErrInvalidStatusTransition, err)
	}
}

func TestReportService_Attach(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "TestCheckout_2026-10-19_10-00-00.png")
	// PNG signature followed by the start of an IHDR chunk
	data := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	if err := os.WriteFile(png, data, 0o644); err != nil {
		t.Fatal(err)
	}

	log, _ := newTestLogger()
	service := NewReportService(&MockRunRepository{}, log)
	result, _ := models.NewTestResult("run-1", "TestCheckout")

	if err := service.Attach(result, "screenshot", png); err != nil {
		t.Fatalf("Attach() unexpected error = %v", err)
	}
	if len(result.Attachments) != 1 {
		t.Fatalf("Expected 1 attachment, got %d", len(result.Attachments))
	}
	if got := result.Attachments[0].MimeType; got != "image/png" {
		t.Errorf("Expected image/png, got %s", got)
	}

	if err := service.Attach(result, "missing", filepath.Join(dir, "nope.png")); err == nil {
		t.Error("Expected error for a missing file")
	}
}

func TestReportService_FinishRun(t *testing.T) {
	finished := false
	mockRepo := &MockRunRepository{
		FinishRunFunc: func(run *models.Run) error {
			finished = run.IsFinished()
			return nil
		},
	}
	log, _ := newTestLogger()
	service := NewReportService(mockRepo, log)
	run, _ := models.NewRun("https://www.saucedemo.com", "chromium")

	if err := service.FinishRun(run); err != nil {
		t.Fatalf("FinishRun() unexpected error = %v", err)
	}
	if !finished {
		t.Error("Expected the repository to receive a finished run")
	}
	if err := service.FinishRun(run); !errors.Is(err, models.ErrRunAlreadyFinished) {
		t.Errorf("Expected %v, got %v", models.ErrRunAlreadyFinished, err)
	}
}

func TestReportService_Queries(t *testing.T) {
	mockRepo := &MockRunRepository{
		GetRunFunc: func(id string) (*models.Run, error) {
			return nil, errors.New("run not found")
		},
		ListRunsFunc: func(limit int) ([]models.RunSummary, error) {
			if limit != 10 {
				t.Errorf("Expected limit 10, got %d", limit)
			}
			return []models.RunSummary{{Run: models.Run{ID: "a"}}}, nil
		},
	}
	log, _ := newTestLogger()
	service := NewReportService(mockRepo, log)

	if _, err := service.GetRun("a"); err == nil {
		t.Error("Expected error from GetRun")
	}
	runs, err := service.ListRuns(10)
	if err != nil || len(runs) != 1 {
		t.Errorf("ListRuns() = %v, %v", runs, err)
	}
}
