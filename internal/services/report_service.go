package services

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"github.com/adyen/storefront-e2e/internal/logger"
	"github.com/adyen/storefront-e2e/internal/models"
)

// RunRepository defines the interface for run report persistence
type RunRepository interface {
	CreateRun(run *models.Run) error
	FinishRun(run *models.Run) error
	SaveResult(result *models.TestResult) error
	GetRun(id string) (*models.Run, error)
	ListRuns(limit int) ([]models.RunSummary, error)
}

// ReportService records runs, test outcomes, steps and attachments
type ReportService interface {
	StartRun(baseURL, browser string) (*models.Run, error)
	FinishRun(run *models.Run) error
	StartTest(run *models.Run, name string) (*models.TestResult, error)
	Step(result *models.TestResult, title string)
	Attach(result *models.TestResult, name, path string) error
	FinishTest(result *models.TestResult, status models.ResultStatus, reason string) error
	GetRun(id string) (*models.Run, error)
	ListRuns(limit int) ([]models.RunSummary, error)
}

// ReportServiceImpl implements ReportService
type ReportServiceImpl struct {
	runRepo RunRepository
	log     *logger.Logger
}

// NewReportService creates a new report service
func NewReportService(runRepo RunRepository, log *logger.Logger) ReportService {
	if log == nil {
		log = logger.Default()
	}
	return &ReportServiceImpl{
		runRepo: runRepo,
		log:     log,
	}
}

// StartRun creates and persists a new run
func (s *ReportServiceImpl) StartRun(baseURL, browser string) (*models.Run, error) {
	run, err := models.NewRun(baseURL, browser)
	if err != nil {
		return nil, fmt.Errorf("invalid run: %w", err)
	}

	if err := s.runRepo.CreateRun(run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	s.log.WithField("run", run.ID).Infof("Started run against %s (%s)", baseURL, browser)
	return run, nil
}

// FinishRun stamps and persists the end of a run
func (s *ReportServiceImpl) FinishRun(run *models.Run) error {
	if err := run.Finish(); err != nil {
		return err
	}
	if err := s.runRepo.FinishRun(run); err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	c := run.Counts()
	s.log.WithField("run", run.ID).Infof("Finished run: %d passed, %d failed, %d skipped", c.Passed, c.Failed, c.Skipped)
	return nil
}

// StartTest creates a running result and attaches it to the run
func (s *ReportServiceImpl) StartTest(run *models.Run, name string) (*models.TestResult, error) {
	result, err := models.NewTestResult(run.ID, name)
	if err != nil {
		return nil, fmt.Errorf("invalid result: %w", err)
	}

	if err := s.runRepo.SaveResult(result); err != nil {
		return nil, fmt.Errorf("failed to save result: %w", err)
	}

	run.Results = append(run.Results, result)
	return result, nil
}

// Step narrates a step. Steps after the outcome are logged but not recorded.
func (s *ReportServiceImpl) Step(result *models.TestResult, title string) {
	s.log.Step(result.Name, title)
	if err := result.AddStep(title); err != nil {
		s.log.WithField("test", result.Name).Debug(err.Error())
	}
}

// Attach records a file produced by the test, detecting its MIME type
func (s *ReportServiceImpl) Attach(result *models.TestResult, name, path string) error {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("failed to read attachment %s: %w", path, err)
	}

	result.Attach(models.Attachment{Name: name, Path: path, MimeType: mtype.String()})
	s.log.WithField("test", result.Name).Infof("Attached %s (%s)", path, mtype.String())
	return nil
}

// FinishTest moves a result to its outcome and persists it
func (s *ReportServiceImpl) FinishTest(result *models.TestResult, status models.ResultStatus, reason string) error {
	// Use domain methods to transition state
	var err error
	switch status {
	case models.StatusPassed:
		err = result.Pass()
	case models.StatusFailed:
		err = result.Fail(reason)
	case models.StatusSkipped:
		err = result.Skip(reason)
	default:
		return fmt.Errorf("invalid result status: %s", status)
	}
	if err != nil {
		return err
	}

	if err := s.runRepo.SaveResult(result); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	switch status {
	case models.StatusPassed:
		s.log.Passed(result.Name)
	case models.StatusFailed:
		s.log.Failed(result.Name, reason)
	case models.StatusSkipped:
		s.log.Skipped(result.Name, reason)
	}
	return nil
}

// GetRun retrieves a run with its results
func (s *ReportServiceImpl) GetRun(id string) (*models.Run, error) {
	run, err := s.runRepo.GetRun(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns retrieves the most recent runs
func (s *ReportServiceImpl) ListRuns(limit int) ([]models.RunSummary, error) {
	runs, err := s.runRepo.ListRuns(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
