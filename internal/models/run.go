package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ResultStatus represents the outcome of a single test
type ResultStatus string

// Result statuses
const (
	StatusRunning ResultStatus = "running"
	StatusPassed  ResultStatus = "passed"
	StatusFailed  ResultStatus = "failed"
	StatusSkipped ResultStatus = "skipped"
)

// Domain errors
var (
	ErrInvalidBaseURL          = errors.New("run base URL cannot be empty")
	ErrInvalidTestName         = errors.New("test name cannot be empty")
	ErrInvalidStatusTransition = errors.New("invalid result status transition")
	ErrRunAlreadyFinished      = errors.New("run is already finished")
	ErrResultFinished          = errors.New("result is already finished")
)

// Run is one invocation of the scenario suite against a storefront
type Run struct {
	ID         string        `json:"id"`
	BaseURL    string        `json:"base_url"`
	Browser    string        `json:"browser"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`
	Results    []*TestResult `json:"results,omitempty"`
}

// Step is one narrated action inside a test
type Step struct {
	Title string    `json:"title"`
	At    time.Time `json:"at"`
}

// Attachment is a file produced by a test, such as a failure screenshot
type Attachment struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	MimeType string `json:"mime_type"`
}

// TestResult records the outcome of a single test within a run
type TestResult struct {
	ID          string       `json:"id"`
	RunID       string       `json:"run_id"`
	Name        string       `json:"name"`
	Status      ResultStatus `json:"status"`
	Error       string       `json:"error,omitempty"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  *time.Time   `json:"finished_at,omitempty"`
	Steps       []Step       `json:"steps,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// NewRun creates a run that has just started
func NewRun(baseURL, browser string) (*Run, error) {
	if baseURL == "" {
		return nil, ErrInvalidBaseURL
	}
	return &Run{
		ID:        uuid.New().String(),
		BaseURL:   baseURL,
		Browser:   browser,
		StartedAt: time.Now(),
	}, nil
}

// Finish stamps the end of the run
func (r *Run) Finish() error {
	if r.FinishedAt != nil {
		return ErrRunAlreadyFinished
	}
	now := time.Now()
	r.FinishedAt = &now
	return nil
}

// IsFinished returns true once Finish was called
func (r *Run) IsFinished() bool {
	return r.FinishedAt != nil
}

// Counts tallies the results of the run by status
func (r *Run) Counts() Counts {
	var c Counts
	for _, res := range r.Results {
		c.add(res.Status)
	}
	return c
}

// Counts is a tally of results by status
type Counts struct {
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Running int `json:"running"`
}

func (c *Counts) add(s ResultStatus) {
	switch s {
	case StatusPassed:
		c.Passed++
	case StatusFailed:
		c.Failed++
	case StatusSkipped:
		c.Skipped++
	case StatusRunning:
		c.Running++
	}
}

// Total returns the number of results counted
func (c Counts) Total() int {
	return c.Passed + c.Failed + c.Skipped + c.Running
}

// RunSummary is a run without its results, for listings
type RunSummary struct {
	Run
	Counts Counts `json:"counts"`
}

// NewTestResult creates a running result for the named test
func NewTestResult(runID, name string) (*TestResult, error) {
	if name == "" {
		return nil, ErrInvalidTestName
	}
	return &TestResult{
		ID:        uuid.New().String(),
		RunID:     runID,
		Name:      name,
		Status:    StatusRunning,
		StartedAt: time.Now(),
	}, nil
}

// AddStep appends a narrated step
func (t *TestResult) AddStep(title string) error {
	if t.Status != StatusRunning {
		return fmt.Errorf("%w: cannot add step to %s result", ErrResultFinished, t.Status)
	}
	t.Steps = append(t.Steps, Step{Title: title, At: time.Now()})
	return nil
}

// Attach records a file produced by the test. Attachments are accepted after
// the outcome is known, since failure screenshots are taken during teardown.
func (t *TestResult) Attach(a Attachment) {
	t.Attachments = append(t.Attachments, a)
}

// Pass marks the result as passed
func (t *TestResult) Pass() error {
	return t.finish(StatusPassed, "")
}

// Fail marks the result as failed with a reason
func (t *TestResult) Fail(reason string) error {
	return t.finish(StatusFailed, reason)
}

// Skip marks the result as skipped with a reason
func (t *TestResult) Skip(reason string) error {
	return t.finish(StatusSkipped, reason)
}

func (t *TestResult) finish(status ResultStatus, reason string) error {
	if t.Status != StatusRunning {
		return fmt.Errorf("%w: cannot move %s result to %s", ErrInvalidStatusTransition, t.Status, status)
	}
	now := time.Now()
	t.Status = status
	t.Error = reason
	t.FinishedAt = &now
	return nil
}

// IsFinished returns true if the result has an outcome
func (t *TestResult) IsFinished() bool {
	return t.Status != StatusRunning
}

// Duration returns how long the test ran, or zero while it is still running
func (t *TestResult) Duration() time.Duration {
	if t.FinishedAt == nil {
		return 0
	}
	return t.FinishedAt.Sub(t.StartedAt)
}
