package fixture

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/adyen/storefront-e2e/internal/locator"
	"github.com/adyen/storefront-e2e/internal/models"
	"github.com/adyen/storefront-e2e/internal/pages"
)

// T is the per-test scope. It wraps the running test, records its outcome,
// steps and attachments in the run report, and owns every context and page
// it hands out. Teardown is registered on the test, so it runs in reverse
// order of creation once the test returns.
type T struct {
	testing.TB
	suite  *Suite
	result *models.TestResult

	mu       sync.Mutex
	reason   string
	captured bool
	authCtx  playwright.BrowserContext
	pages    map[string]playwright.Page
}

// pageHandle is what teardown needs from a page
type pageHandle interface {
	Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error)
	Close(options ...playwright.PageCloseOptions) error
}

// Begin opens the report entry for t and returns its scope
func (s *Suite) Begin(t testing.TB) *T {
	t.Helper()

	result, err := s.reports.StartTest(s.run, t.Name())
	if err != nil {
		t.Fatalf("failed to start test report: %v", err)
	}

	ft := &T{TB: t, suite: s, result: result}
	t.Cleanup(ft.finish)
	return ft
}

// Suite returns the suite this scope belongs to
func (t *T) Suite() *Suite { return t.suite }

// Result returns the report entry of the test
func (t *T) Result() *models.TestResult { return t.result }

// Step narrates a step into the run report
func (t *T) Step(title string) {
	t.suite.reports.Step(t.result, title)
}

// Errorf records the first failure message for the report and fails the test
func (t *T) Errorf(format string, args ...any) {
	t.TB.Helper()
	t.note(fmt.Sprintf(format, args...))
	t.TB.Errorf(format, args...)
}

// Error records the first failure message for the report and fails the test
func (t *T) Error(args ...any) {
	t.TB.Helper()
	t.note(fmt.Sprint(args...))
	t.TB.Error(args...)
}

// Fatalf records the first failure message for the report and stops the test
func (t *T) Fatalf(format string, args ...any) {
	t.TB.Helper()
	t.note(fmt.Sprintf(format, args...))
	t.TB.Fatalf(format, args...)
}

// Fatal records the first failure message for the report and stops the test
func (t *T) Fatal(args ...any) {
	t.TB.Helper()
	t.note(fmt.Sprint(args...))
	t.TB.Fatal(args...)
}

// Skipf records the skip reason for the report and skips the test
func (t *T) Skipf(format string, args ...any) {
	t.TB.Helper()
	t.note(fmt.Sprintf(format, args...))
	t.TB.Skipf(format, args...)
}

// Skip records the skip reason for the report and skips the test
func (t *T) Skip(args ...any) {
	t.TB.Helper()
	t.note(fmt.Sprint(args...))
	t.TB.Skip(args...)
}

func (t *T) note(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.reason == "" {
		t.reason = strings.TrimSpace(msg)
	}
}

func (t *T) finish() {
	t.mu.Lock()
	reason := t.reason
	t.mu.Unlock()

	status, reason := outcome(t.TB.Failed(), t.TB.Skipped(), reason)
	if err := t.suite.reports.FinishTest(t.result, status, reason); err != nil {
		t.TB.Logf("failed to record test outcome: %v", err)
	}
}

// outcome maps the state of a finished test onto a report status
func outcome(failed, skipped bool, reason string) (models.ResultStatus, string) {
	switch {
	case failed:
		if reason == "" {
			reason = "test failed"
		}
		return models.StatusFailed, reason
	case skipped:
		return models.StatusSkipped, reason
	default:
		return models.StatusPassed, ""
	}
}

// Context returns a fresh, unauthenticated browser context closed at teardown
func (t *T) Context() playwright.BrowserContext {
	t.TB.Helper()

	ctx, err := t.suite.newContext(nil)
	if err != nil {
		t.Fatalf("%v", err)
	}
	t.TB.Cleanup(func() { t.closeContext(ctx) })
	return ctx
}

// AuthenticatedContext returns a context that is already logged in. The first
// test of a run performs the login and fills the auth cache; later tests load
// the cached session. The context is shared by every page of this test.
func (t *T) AuthenticatedContext() playwright.BrowserContext {
	t.TB.Helper()

	if t.authCtx != nil {
		return t.authCtx
	}

	ctx, created, err := ensureLoggedIn(t.suite.auth, func(path string) (playwright.BrowserContext, error) {
		t.Step("Logging in and caching session")
		return t.suite.authenticate(path, t)
	})
	if err != nil {
		t.Fatalf("failed to authenticate: %v", err)
	}

	if !created {
		path, err := t.suite.auth.StatePath()
		if err != nil {
			t.Fatalf("failed to load cached session: %v", err)
		}
		t.Step("Loading cached session")
		if ctx, err = t.suite.newContext(playwright.String(path)); err != nil {
			t.Fatalf("%v", err)
		}
	}

	t.TB.Cleanup(func() { t.closeContext(ctx) })
	t.authCtx = ctx
	return ctx
}

func (t *T) closeContext(ctx playwright.BrowserContext) {
	if err := ctx.Close(); err != nil {
		t.TB.Logf("failed to close browser context: %v", err)
	}
}

// OpenPage opens a page in ctx and navigates to path, waiting until the DOM
// is loaded and the URL matches. On failure a screenshot is taken and
// attached before the page is closed.
func (t *T) OpenPage(ctx playwright.BrowserContext, path string) playwright.Page {
	t.TB.Helper()

	page, err := ctx.NewPage()
	if err != nil {
		t.Fatalf("failed to open page: %v", err)
	}
	t.own(page)

	t.Navigate(page, path)
	return page
}

// Navigate moves page to path and waits for it to load
func (t *T) Navigate(page playwright.Page, path string) {
	t.TB.Helper()

	t.Step("Navigating to " + path)
	if _, err := page.Goto(t.suite.cfg.URL(path)); err != nil {
		t.Fatalf("failed to navigate to %s: %v", path, err)
	}
	if err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateDomcontentloaded,
	}); err != nil {
		t.Fatalf("%s did not load: %v", path, err)
	}
	if err := t.ExpectPath(page, path); err != nil {
		t.Fatalf("%v", err)
	}
}

// ExpectPath waits until the page URL ends in path
func (t *T) ExpectPath(page playwright.Page, path string) error {
	pattern := regexp.MustCompile(".*" + regexp.QuoteMeta(path))
	assertions := playwright.NewPlaywrightAssertions(float64(t.suite.cfg.Timeout.Milliseconds()))
	if err := assertions.Page(page).ToHaveURL(pattern); err != nil {
		return fmt.Errorf("expected url matching %s: %w", path, err)
	}
	return nil
}

// own closes page at teardown
func (t *T) own(page pageHandle) {
	t.TB.Cleanup(func() { t.releasePage(page) })
}

// releasePage closes page. The first page released from a failed test is
// captured first; teardown runs in reverse, so that is the page opened last.
func (t *T) releasePage(page pageHandle) {
	if t.TB.Failed() && t.claimCapture() {
		t.screenshot(page)
	}
	if err := page.Close(); err != nil {
		t.TB.Logf("failed to close page: %v", err)
	}
}

func (t *T) claimCapture() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.captured {
		return false
	}
	t.captured = true
	return true
}

func (t *T) screenshot(page pageHandle) {
	path := ScreenshotPath(t.suite.cfg.ScreenshotDir, t.TB.Name(), time.Now())
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path: playwright.String(path),
	}); err != nil {
		t.TB.Logf("failed to capture screenshot: %v", err)
		return
	}
	if err := t.suite.reports.Attach(t.result, "screenshot", path); err != nil {
		t.TB.Logf("failed to attach screenshot: %v", err)
	}
}

// Locator wraps page for page objects, bounded by the configured timeout
func (t *T) Locator(page playwright.Page) *locator.PlaywrightPage {
	return t.suite.locatorPage(page)
}

// PageOptions returns the options every page object of this test is built with
func (t *T) PageOptions() []pages.Option {
	return t.suite.pageOptions(t)
}
