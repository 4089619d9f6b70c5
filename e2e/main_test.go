//go:build e2e

package e2e

import (
	"fmt"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	internalcli "github.com/adyen/storefront-e2e/internal/cli"
	"github.com/adyen/storefront-e2e/internal/config"
	"github.com/adyen/storefront-e2e/internal/fixture"
	"github.com/adyen/storefront-e2e/internal/locator"
	"github.com/adyen/storefront-e2e/internal/logger"
	"github.com/adyen/storefront-e2e/internal/services"
)

var suite *fixture.Suite

// TestMain launches the browser once for all scenarios and records the run
// (browsers installed via: go run ./cmd/storefront-e2e install)
func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	if err := godotenv.Load("../.env"); err != nil {
		logger.Default().Warn("Warning: .env file not found, using environment variables")
	}

	e2eConfig, err := config.LoadE2EConfig(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid e2e configuration: %v\n", err)
		return 1
	}

	reportConfig, err := config.LoadReportConfig(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid report configuration: %v\n", err)
		return 1
	}
	sink, err := internalcli.OpenReportSink(reportConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer sink.Close()

	suite, err = fixture.Launch(e2eConfig,
		fixture.WithReports(services.NewReportService(sink.Repository, logger.Default())),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer func() {
		if err := suite.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close suite: %v\n", err)
		}
	}()

	return m.Run()
}

func requireVisible(t testing.TB, el locator.Element) {
	t.Helper()
	visible, err := el.IsVisible()
	require.NoError(t, err)
	require.True(t, visible, "%s is not visible", el.Selector())
}
