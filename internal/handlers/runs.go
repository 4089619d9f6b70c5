package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/adyen/storefront-e2e/internal/logger"
	"github.com/adyen/storefront-e2e/internal/models"
	"github.com/adyen/storefront-e2e/internal/services"
)

// DefaultRunsLimit is how many runs the listing shows without a limit parameter
const DefaultRunsLimit = 20

// RunsHandler renders the list of recent runs
type RunsHandler struct {
	template      *template.Template
	reportService services.ReportService
}

// RunsData represents the data for the runs template
type RunsData struct {
	Runs []RunRow
}

// RunRow is one line of the runs listing
type RunRow struct {
	models.RunSummary
	Duration string
	Status   string
}

// NewRunsHandler creates a new runs handler
func NewRunsHandler(templatePath string, reportService services.ReportService) (*RunsHandler, error) {
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	return &RunsHandler{
		template:      tmpl,
		reportService: reportService,
	}, nil
}

// ServeHTTP handles the GET / request
func (h *RunsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	limit := DefaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := h.reportService.ListRuns(limit)
	if err != nil {
		logger.Default().Errorf("Error listing runs: %v", err)
		http.Error(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}

	data := RunsData{Runs: make([]RunRow, 0, len(runs))}
	for _, run := range runs {
		data.Runs = append(data.Runs, newRunRow(run))
	}

	if err := h.template.Execute(w, data); err != nil {
		logger.Default().Errorf("Error rendering template: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
}

func newRunRow(run models.RunSummary) RunRow {
	row := RunRow{RunSummary: run, Duration: "-", Status: runStatus(run)}
	if run.FinishedAt != nil {
		row.Duration = run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
	}
	return row
}

// runStatus summarizes a run: failed wins over running, running over passed
func runStatus(run models.RunSummary) string {
	switch {
	case run.Counts.Failed > 0:
		return "failed"
	case run.FinishedAt == nil:
		return "running"
	case run.Counts.Total() == 0:
		return "empty"
	default:
		return "passed"
	}
}
