package cli

import (
	"fmt"

	"github.com/adyen/storefront-e2e/internal/config"
	"github.com/adyen/storefront-e2e/internal/database"
	"github.com/adyen/storefront-e2e/internal/repository"
	"github.com/adyen/storefront-e2e/internal/services"
)

// ReportSink is an opened run repository plus whatever must be released with it
type ReportSink struct {
	Repository services.RunRepository
	close      func() error
}

// Close releases the sink's resources
func (s *ReportSink) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenReportSink opens the repository selected by cfg.Sink. The postgres
// sink connects and migrates before returning.
func OpenReportSink(cfg *config.ReportConfig) (*ReportSink, error) {
	switch cfg.Sink {
	case config.ReportSinkNone:
		return &ReportSink{Repository: repository.NopRunRepository{}}, nil
	case config.ReportSinkFile:
		repo, err := repository.NewFileRunRepository(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return &ReportSink{Repository: repo}, nil
	case config.ReportSinkPostgres:
		if cfg.Postgres == nil {
			return nil, fmt.Errorf("postgres report sink is not configured")
		}
		db, err := database.Open(*cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to report database: %w", err)
		}
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
		return &ReportSink{Repository: repository.NewRunRepositoryWithDB(db), close: db.Close}, nil
	default:
		return nil, fmt.Errorf("unsupported report sink: %s", cfg.Sink)
	}
}
