package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/playwright-community/playwright-go"
	"github.com/urfave/cli/v2"

	internalcli "github.com/adyen/storefront-e2e/internal/cli"
	"github.com/adyen/storefront-e2e/internal/config"
	"github.com/adyen/storefront-e2e/internal/database"
	"github.com/adyen/storefront-e2e/internal/fixture"
	"github.com/adyen/storefront-e2e/internal/handlers"
	"github.com/adyen/storefront-e2e/internal/logger"
	"github.com/adyen/storefront-e2e/internal/models"
	"github.com/adyen/storefront-e2e/internal/services"
)

var version = "0.1.0"

// openReports opens the configured report sink and the service on top of it
func openReports() (services.ReportService, *internalcli.ReportSink, error) {
	reportConfig, err := config.LoadReportConfig(os.Getenv)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid report configuration: %w", err)
	}
	sink, err := internalcli.OpenReportSink(reportConfig)
	if err != nil {
		return nil, nil, err
	}
	return services.NewReportService(sink.Repository, logger.Default()), sink, nil
}

// buildServerDependencies creates all dependencies needed for the report viewer
func buildServerDependencies(reportService services.ReportService) (internalcli.ServerDependencies, error) {
	var deps internalcli.ServerDependencies

	deps.ServerConfig = config.LoadServerConfig(os.Getenv)

	deps.ScreenshotDir = os.Getenv("SCREENSHOT_DIR")
	if deps.ScreenshotDir == "" {
		deps.ScreenshotDir = config.DefaultScreenshotDir
	}

	runsHandler, err := handlers.NewRunsHandler("templates/runs.html", reportService)
	if err != nil {
		return deps, fmt.Errorf("failed to create runs handler: %w", err)
	}
	deps.RunsHandler = runsHandler
	deps.RunHandler = handlers.NewRunHandler(reportService)

	return deps, nil
}

// ServeCommand returns the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the run report viewer",
		Action: func(c *cli.Context) error {
			reportService, sink, err := openReports()
			if err != nil {
				return err
			}
			defer sink.Close()

			deps, err := buildServerDependencies(reportService)
			if err != nil {
				return err
			}

			return internalcli.RunServe(deps)
		},
	}
}

// LoginCommand returns the login command
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in once and cache the session for later runs",
		Action: func(c *cli.Context) error {
			e2eConfig, err := config.LoadE2EConfig(os.Getenv)
			if err != nil {
				return fmt.Errorf("invalid e2e configuration: %w", err)
			}

			suite, err := fixture.Launch(e2eConfig, fixture.KeepAuthState())
			if err != nil {
				return err
			}
			defer suite.Close()

			created, err := suite.WarmAuth()
			if err != nil {
				return err
			}
			if created {
				logger.Default().Infof("Cached session for %s in %s", e2eConfig.Username, e2eConfig.AuthStatePath)
			} else {
				logger.Default().Infof("Session already cached in %s", e2eConfig.AuthStatePath)
			}
			return nil
		},
	}
}

// CleanCommand returns the clean command
func CleanCommand() *cli.Command {
	return &cli.Command{
		Name:  "clean",
		Usage: "Remove the cached session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "path",
				Usage:   "session state file",
				Value:   config.DefaultAuthStatePath,
				EnvVars: []string{"AUTH_STATE_PATH"},
			},
		},
		Action: func(c *cli.Context) error {
			path := c.String("path")
			if err := fixture.NewAuthCache(path).Remove(); err != nil {
				return err
			}
			logger.Default().Infof("Removed %s", path)
			return nil
		},
	}
}

// RunsCommand returns the runs command
func RunsCommand() *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "List recent test runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "number of runs to show",
				Value: 10,
			},
		},
		Action: func(c *cli.Context) error {
			reportService, sink, err := openReports()
			if err != nil {
				return err
			}
			defer sink.Close()

			runs, err := reportService.ListRuns(c.Int("limit"))
			if err != nil {
				return err
			}
			printRuns(runs)
			return nil
		},
	}
}

func printRuns(runs []models.RunSummary) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tBROWSER\tPASSED\tFAILED\tSKIPPED\tBASE URL")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Browser,
			green(run.Counts.Passed),
			red(run.Counts.Failed),
			yellow(run.Counts.Skipped),
			run.BaseURL,
		)
	}
	w.Flush()
}

// MigrateCommand returns the migrate command
func MigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create the report tables in PostgreSQL",
		Action: func(c *cli.Context) error {
			if err := database.Connect(); err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close()
			logger.Default().Infof("Connected to database successfully")

			if err := database.RunMigrations(); err != nil {
				return fmt.Errorf("failed to run database migrations: %w", err)
			}
			return nil
		},
	}
}

// InstallCommand returns the install command
func InstallCommand() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Install the playwright driver and browsers",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "browser",
				Usage:   "browser to install (chromium, firefox, webkit)",
				Value:   cli.NewStringSlice(config.BrowserChromium),
				EnvVars: []string{"BROWSER"},
			},
		},
		Action: func(c *cli.Context) error {
			browsers := c.StringSlice("browser")
			if err := playwright.Install(&playwright.RunOptions{Browsers: browsers}); err != nil {
				return fmt.Errorf("failed to install playwright: %w", err)
			}
			logger.Default().Infof("Installed playwright with %v", browsers)
			return nil
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Default().Warn("Warning: .env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "storefront-e2e",
		Usage:   "Storefront end-to-end suite tooling",
		Version: version,
		Commands: []*cli.Command{
			LoginCommand(),
			CleanCommand(),
			RunsCommand(),
			MigrateCommand(),
			InstallCommand(),
			ServeCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Default().Fatal(err)
	}
}
