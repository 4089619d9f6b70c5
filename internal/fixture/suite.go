// Package fixture builds the browser and session graph the e2e scenarios run
// on: one playwright driver and browser per run, fresh or authenticated
// contexts per test, and ready-to-use page objects with teardown registered
// on the test.
package fixture

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/adyen/storefront-e2e/internal/config"
	"github.com/adyen/storefront-e2e/internal/locator"
	"github.com/adyen/storefront-e2e/internal/logger"
	"github.com/adyen/storefront-e2e/internal/models"
	"github.com/adyen/storefront-e2e/internal/pages"
	"github.com/adyen/storefront-e2e/internal/repository"
	"github.com/adyen/storefront-e2e/internal/services"
)

// ErrLoginFailed is returned when the configured account cannot log in
var ErrLoginFailed = errors.New("login failed")

// SuiteOption configures a Suite
type SuiteOption func(*Suite)

// WithReports records runs and test outcomes through reports
func WithReports(reports services.ReportService) SuiteOption {
	return func(s *Suite) {
		s.reports = reports
	}
}

// WithLogger sets the logger used for suite-level messages
func WithLogger(log *logger.Logger) SuiteOption {
	return func(s *Suite) {
		if log != nil {
			s.log = log
		}
	}
}

// KeepAuthState leaves the cached session on disk when the suite closes
func KeepAuthState() SuiteOption {
	return func(s *Suite) {
		s.keepAuth = true
	}
}

// Suite owns the playwright driver, the shared browser and the run report
type Suite struct {
	cfg      *config.E2EConfig
	log      *logger.Logger
	reports  services.ReportService
	auth     *AuthCache
	keepAuth bool

	run     *models.Run
	pw      *playwright.Playwright
	browser playwright.Browser

	closeOnce sync.Once
	closeErr  error
}

// Launch starts playwright, launches the configured browser and opens a run
func Launch(cfg *config.E2EConfig, opts ...SuiteOption) (*Suite, error) {
	s := &Suite{
		cfg:  cfg,
		log:  logger.Default(),
		auth: NewAuthCache(cfg.AuthStatePath),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reports == nil {
		s.reports = services.NewReportService(repository.NopRunRepository{}, s.log)
	}

	if err := os.MkdirAll(cfg.ScreenshotDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := browserType(pw, cfg.Browser).Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		SlowMo:   playwright.Float(float64(cfg.SlowMo.Milliseconds())),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch %s: %w", cfg.Browser, err)
	}

	run, err := s.reports.StartRun(cfg.BaseURL, cfg.Browser)
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, err
	}

	s.pw = pw
	s.browser = browser
	s.run = run
	return s, nil
}

func browserType(pw *playwright.Playwright, name string) playwright.BrowserType {
	switch name {
	case config.BrowserFirefox:
		return pw.Firefox
	case config.BrowserWebKit:
		return pw.WebKit
	default:
		return pw.Chromium
	}
}

// Config returns the configuration the suite was launched with
func (s *Suite) Config() *config.E2EConfig { return s.cfg }

// Run returns the report run this suite records into
func (s *Suite) Run() *models.Run { return s.run }

// Browser returns the shared browser
func (s *Suite) Browser() playwright.Browser { return s.browser }

// Auth returns the authenticated-session cache
func (s *Suite) Auth() *AuthCache { return s.auth }

// WarmAuth logs in once and stores the session in the auth cache. It reports
// whether a new session was created.
func (s *Suite) WarmAuth() (bool, error) {
	ctx, created, err := ensureLoggedIn(s.auth, func(path string) (playwright.BrowserContext, error) {
		return s.authenticate(path, nil)
	})
	if err != nil || !created {
		return created, err
	}
	return true, ctx.Close()
}

// Close finishes the run, empties the auth cache, closes the browser and
// stops playwright. It is safe to call more than once.
func (s *Suite) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if !s.keepAuth {
			if err := s.auth.Remove(); err != nil {
				errs = append(errs, err)
			}
		}
		if err := s.reports.FinishRun(s.run); err != nil {
			errs = append(errs, err)
		}
		if err := s.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
		if err := s.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}

// newContext opens an isolated browser context, optionally seeded with a
// storage-state file.
func (s *Suite) newContext(statePath *string) (playwright.BrowserContext, error) {
	ctx, err := s.browser.NewContext(playwright.BrowserNewContextOptions{
		StorageStatePath: statePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	ctx.SetDefaultTimeout(float64(s.cfg.Timeout.Milliseconds()))
	return ctx, nil
}

// authenticate logs in through a fresh context, writes its storage state to
// path and returns the still-open context.
func (s *Suite) authenticate(path string, narrator pages.Narrator) (playwright.BrowserContext, error) {
	ctx, err := s.newContext(nil)
	if err != nil {
		return nil, err
	}

	if err := s.login(ctx, narrator); err != nil {
		ctx.Close()
		return nil, err
	}

	if _, err := ctx.StorageState(path); err != nil {
		ctx.Close()
		return nil, fmt.Errorf("failed to save session state: %w", err)
	}
	return ctx, nil
}

// ensureLoggedIn fills cache through login when it is empty. It returns the
// context login opened, or nil when the cache was already filled. That
// context is closed if the session it wrote cannot be stored.
func ensureLoggedIn(cache *AuthCache, login func(path string) (playwright.BrowserContext, error)) (playwright.BrowserContext, bool, error) {
	var ctx playwright.BrowserContext
	created, err := cache.Ensure(func(path string) error {
		c, err := login(path)
		ctx = c
		return err
	})
	if err != nil {
		if ctx != nil {
			ctx.Close()
		}
		return nil, false, err
	}
	return ctx, created, nil
}

func (s *Suite) login(ctx playwright.BrowserContext, narrator pages.Narrator) error {
	page, err := ctx.NewPage()
	if err != nil {
		return fmt.Errorf("failed to open login page: %w", err)
	}
	defer page.Close()

	if _, err := page.Goto(s.cfg.URL(pages.LoginPath)); err != nil {
		return fmt.Errorf("failed to navigate to login page: %w", err)
	}

	login := pages.NewLoginPage(s.locatorPage(page), s.pageOptions(narrator)...)
	if err := login.PerformLogin(s.cfg.Username, s.cfg.Password); err != nil {
		return err
	}

	ok, err := login.HasLoggedIn()
	if err != nil {
		return err
	}
	if !ok {
		msg, _, _ := login.ErrorMessage()
		return fmt.Errorf("%w for %s: %s", ErrLoginFailed, s.cfg.Username, msg)
	}
	return nil
}

func (s *Suite) locatorPage(page playwright.Page) *locator.PlaywrightPage {
	return locator.FromPage(page, locator.WithActionTimeout(s.cfg.Timeout))
}

func (s *Suite) pageOptions(narrator pages.Narrator) []pages.Option {
	return []pages.Option{pages.WithNarrator(narrator), pages.WithTimeout(s.cfg.Timeout)}
}
