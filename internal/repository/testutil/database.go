package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/adyen/storefront-e2e/internal/config"
	"github.com/adyen/storefront-e2e/internal/database"
)

// ReportSchema is a throwaway Postgres schema migrated with the report tables
type ReportSchema struct {
	DB   *sql.DB
	Name string
}

var localDefaults = map[string]string{
	"POSTGRES_USER":     "postgres",
	"POSTGRES_PASSWORD": "postgres",
	"POSTGRES_DB":       "postgres",
	"POSTGRES_HOSTNAME": "localhost",
}

// NewReportSchema creates a uniquely named schema, migrates it, and drops it
// when the test finishes. POSTGRES_* variables override the local defaults.
func NewReportSchema(t *testing.T) *ReportSchema {
	t.Helper()

	cfg, err := config.LoadPostgresConfig(func(key string) string {
		if value := os.Getenv(key); value != "" {
			return value
		}
		return localDefaults[key]
	})
	if err != nil {
		t.Fatalf("Failed to load postgres config: %v", err)
	}

	admin, err := database.Open(*cfg)
	if err != nil {
		t.Fatalf("Failed to connect to postgres: %v", err)
	}

	name := "report_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if _, err := admin.Exec(fmt.Sprintf("CREATE SCHEMA %s", name)); err != nil {
		admin.Close()
		t.Fatalf("Failed to create schema %s: %v", name, err)
	}
	t.Cleanup(func() {
		if _, err := admin.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", name)); err != nil {
			t.Logf("Warning: Failed to drop schema %s: %v", name, err)
		}
		admin.Close()
	})

	scoped := *cfg
	scoped.SearchPath = name
	db, err := database.Open(scoped)
	if err != nil {
		t.Fatalf("Failed to connect to schema %s: %v", name, err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate schema %s: %v", name, err)
	}

	return &ReportSchema{DB: db, Name: name}
}
