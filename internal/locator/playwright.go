package locator

import (
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// DefaultActionTimeout bounds playwright's auto-waiting for a single action.
const DefaultActionTimeout = 5 * time.Second

// Option configures a PlaywrightPage
type Option func(*PlaywrightPage)

// WithActionTimeout sets how long actions auto-wait for their target
func WithActionTimeout(d time.Duration) Option {
	return func(p *PlaywrightPage) {
		if d > 0 {
			p.actionTimeout = d
		}
	}
}

// PlaywrightPage adapts a playwright.Page to Page
type PlaywrightPage struct {
	page          playwright.Page
	actionTimeout time.Duration
}

// FromPage wraps a live playwright page
func FromPage(page playwright.Page, opts ...Option) *PlaywrightPage {
	p := &PlaywrightPage{page: page, actionTimeout: DefaultActionTimeout}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Locator binds a selector against the page
func (p *PlaywrightPage) Locator(selector string) Element {
	return &playwrightElement{
		loc:      p.page.Locator(selector),
		selector: selector,
		timeout:  p.actionTimeout,
	}
}

// Cookies returns the cookies of the page's browser context
func (p *PlaywrightPage) Cookies() ([]Cookie, error) {
	cookies, err := p.page.Context().Cookies()
	if err != nil {
		return nil, fmt.Errorf("failed to read cookies: %w", err)
	}
	out := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, Cookie{Name: c.Name, Value: c.Value, Domain: c.Domain, Path: c.Path})
	}
	return out, nil
}

type playwrightElement struct {
	loc      playwright.Locator
	selector string
	timeout  time.Duration
}

func (e *playwrightElement) ms() *float64 {
	return playwright.Float(float64(e.timeout.Milliseconds()))
}

func (e *playwrightElement) child(loc playwright.Locator, selector string) Element {
	return &playwrightElement{loc: loc, selector: selector, timeout: e.timeout}
}

func (e *playwrightElement) Selector() string {
	return e.selector
}

func (e *playwrightElement) Locator(selector string) Element {
	return e.child(e.loc.Locator(selector), e.selector+" >> "+selector)
}

func (e *playwrightElement) First() Element {
	return e.child(e.loc.First(), e.selector+" >> nth=0")
}

func (e *playwrightElement) All() ([]Element, error) {
	locs, err := e.loc.All()
	if err != nil {
		return nil, actionError("resolve", e.selector, err)
	}
	out := make([]Element, len(locs))
	for i, loc := range locs {
		out[i] = e.child(loc, fmt.Sprintf("%s >> nth=%d", e.selector, i))
	}
	return out, nil
}

func (e *playwrightElement) Count() (int, error) {
	n, err := e.loc.Count()
	if err != nil {
		return 0, actionError("count", e.selector, err)
	}
	return n, nil
}

func (e *playwrightElement) IsVisible() (bool, error) {
	visible, err := e.loc.IsVisible()
	if err != nil {
		return false, actionError("check visibility of", e.selector, err)
	}
	return visible, nil
}

func (e *playwrightElement) TextContent() (string, error) {
	text, err := e.loc.TextContent(playwright.LocatorTextContentOptions{Timeout: e.ms()})
	return text, actionError("read text of", e.selector, err)
}

func (e *playwrightElement) InnerText() (string, error) {
	text, err := e.loc.InnerText(playwright.LocatorInnerTextOptions{Timeout: e.ms()})
	return text, actionError("read inner text of", e.selector, err)
}

func (e *playwrightElement) Attribute(name string) (string, error) {
	value, err := e.loc.GetAttribute(name, playwright.LocatorGetAttributeOptions{Timeout: e.ms()})
	return value, actionError("read attribute "+name+" of", e.selector, err)
}

func (e *playwrightElement) InputValue() (string, error) {
	value, err := e.loc.InputValue(playwright.LocatorInputValueOptions{Timeout: e.ms()})
	return value, actionError("read value of", e.selector, err)
}

func (e *playwrightElement) Click() error {
	return actionError("click", e.selector, e.loc.Click(playwright.LocatorClickOptions{Timeout: e.ms()}))
}

func (e *playwrightElement) Fill(value string) error {
	return actionError("fill", e.selector, e.loc.Fill(value, playwright.LocatorFillOptions{Timeout: e.ms()}))
}

func (e *playwrightElement) SelectOption(value string) error {
	_, err := e.loc.SelectOption(
		playwright.SelectOptionValues{Values: &[]string{value}},
		playwright.LocatorSelectOptionOptions{Timeout: e.ms()},
	)
	return actionError("select option "+value+" in", e.selector, err)
}

func (e *playwrightElement) WaitVisible(timeout time.Duration) error {
	err := e.loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %s visible after %s: %v", ErrTimeout, e.selector, timeout, err)
	}
	return fmt.Errorf("wait for %s: %w", e.selector, err)
}

func (e *playwrightElement) ExpectText(want string, timeout time.Duration) error {
	assertions := playwright.NewPlaywrightAssertions(float64(timeout.Milliseconds()))
	if err := assertions.Locator(e.loc).ToHaveText(want); err != nil {
		return fmt.Errorf("expected %s to have text %q: %w", e.selector, want, err)
	}
	return nil
}

// actionError maps playwright's auto-wait timeouts onto ErrNotActionable.
func actionError(action, selector string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%s %s: %w: %v", action, selector, ErrNotActionable, err)
	}
	return fmt.Errorf("%s %s: %w", action, selector, err)
}
