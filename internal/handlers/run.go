package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adyen/storefront-e2e/internal/logger"
	"github.com/adyen/storefront-e2e/internal/repository"
	"github.com/adyen/storefront-e2e/internal/services"
)

// RunHandler serves a single run with its results as JSON
type RunHandler struct {
	reportService services.ReportService
}

// NewRunHandler creates a new run handler
func NewRunHandler(reportService services.ReportService) *RunHandler {
	return &RunHandler{
		reportService: reportService,
	}
}

// ServeHTTP handles the GET /runs/{id} request
func (h *RunHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		sendErrorResponse(w, "Missing run id", http.StatusBadRequest)
		return
	}

	run, err := h.reportService.GetRun(id)
	if errors.Is(err, repository.ErrRunNotFound) {
		sendErrorResponse(w, "Run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Default().Errorf("Error getting run %s: %v", id, err)
		sendErrorResponse(w, "Failed to get run", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(run); err != nil {
		logger.Default().Errorf("Error encoding response: %v", err)
	}
}
