package pages

import (
	"fmt"

	"github.com/adyen/storefront-e2e/internal/locator"
)

// SessionCookie is set by the storefront once a login succeeds.
const SessionCookie = "session-username"

// LoginPage is the storefront's landing page.
type LoginPage struct {
	base
	usernameField  locator.Element
	passwordField  locator.Element
	loginButton    locator.Element
	errorMessage   locator.Element
	errorOrSuccess locator.Element
}

// NewLoginPage builds a LoginPage over page.
func NewLoginPage(page locator.Page, opts ...Option) *LoginPage {
	return &LoginPage{
		base:          newBase(page, opts),
		usernameField: page.Locator(`[data-test="username"]`),
		passwordField: page.Locator(`[data-test="password"]`),
		loginButton:   page.Locator(`[data-test="login-button"]`),
		errorMessage:  page.Locator(`[data-test="error"]`),
		// whichever shows first ends a login attempt
		errorOrSuccess: page.Locator(`[data-test="logout-sidebar-link"],[data-test="error"]`),
	}
}

func (p *LoginPage) UsernameField() locator.Element { return p.usernameField }
func (p *LoginPage) PasswordField() locator.Element { return p.passwordField }
func (p *LoginPage) LoginButton() locator.Element   { return p.loginButton }

func (p *LoginPage) SetUsername(username string) error {
	p.step("Setting username")
	if err := p.usernameField.Fill(username); err != nil {
		return fmt.Errorf("failed to set username: %w", err)
	}
	return nil
}

func (p *LoginPage) SetPassword(password string) error {
	p.step("Setting password")
	if err := p.passwordField.Fill(password); err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}
	return nil
}

func (p *LoginPage) ClickLogin() error {
	p.step("Clicking login button")
	if err := p.loginButton.Click(); err != nil {
		return fmt.Errorf("failed to click login: %w", err)
	}
	return nil
}

// PerformLogin submits the form and waits until either the logged-in sidebar
// link or the error banner is visible. It does not tell the two apart; use
// HasLoggedIn or ErrorMessage for that.
func (p *LoginPage) PerformLogin(username, password string) error {
	p.step("Performing login")
	if err := p.SetUsername(username); err != nil {
		return err
	}
	if err := p.SetPassword(password); err != nil {
		return err
	}
	if err := p.ClickLogin(); err != nil {
		return err
	}
	if err := p.errorOrSuccess.WaitVisible(p.timeout); err != nil {
		return fmt.Errorf("login did not settle: %w", err)
	}
	return nil
}

// ErrorMessage returns the login error banner text, if one is shown.
func (p *LoginPage) ErrorMessage() (string, bool, error) {
	p.step("Getting error message")
	return optionalText(p.errorMessage)
}

// HasLoggedIn reports whether the session cookie is present.
func (p *LoginPage) HasLoggedIn() (bool, error) {
	p.step("Verifying login")
	cookies, err := p.page.Cookies()
	if err != nil {
		return false, err
	}
	return IsLoggedIn(cookies), nil
}

// IsLoggedIn reports whether cookies carry a storefront session.
func IsLoggedIn(cookies []locator.Cookie) bool {
	return locator.HasCookie(cookies, SessionCookie)
}
