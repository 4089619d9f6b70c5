package pages

import (
	"errors"
	"fmt"

	"github.com/adyen/storefront-e2e/internal/locator"
)

// ErrOrderNotComplete is returned when the confirmation page does not show
// what a completed order shows.
var ErrOrderNotComplete = errors.New("order completion not confirmed")

// Confirmation copy shown after a successful order.
const (
	CompleteHeaderText = "Thank you for your order!"
	CompleteBodyText   = "Your order has been dispatched, and will arrive just as fast as the pony can get there!"
)

// CheckoutCompletePage is the order confirmation.
type CheckoutCompletePage struct {
	base
	backHomeButton locator.Element
	completeHeader locator.Element
	completeText   locator.Element
}

// NewCheckoutCompletePage builds a CheckoutCompletePage over page.
func NewCheckoutCompletePage(page locator.Page, opts ...Option) *CheckoutCompletePage {
	return &CheckoutCompletePage{
		base:           newBase(page, opts),
		backHomeButton: page.Locator("#back-to-products"),
		completeHeader: page.Locator(`[data-test="complete-header"]`),
		completeText:   page.Locator(`[data-test="complete-text"]`),
	}
}

func (p *CheckoutCompletePage) ClickBackHome() error {
	p.step("Clicking back home button")
	if err := p.backHomeButton.Click(); err != nil {
		return fmt.Errorf("failed to click back home: %w", err)
	}
	return nil
}

// VerifyOrderCompletion checks header, body copy and back-home button in
// order and reports the first expectation that does not hold.
func (p *CheckoutCompletePage) VerifyOrderCompletion() error {
	p.step("Verifying order completion")
	checks := []struct {
		title string
		run   func() error
	}{
		{"Verifying complete header is visible", func() error { return p.completeHeader.WaitVisible(p.timeout) }},
		{"Verifying complete header text", func() error { return p.completeHeader.ExpectText(CompleteHeaderText, p.timeout) }},
		{"Verifying complete text is visible", func() error { return p.completeText.WaitVisible(p.timeout) }},
		{"Verifying complete text text", func() error { return p.completeText.ExpectText(CompleteBodyText, p.timeout) }},
		{"Verifying back home button is visible", func() error { return p.backHomeButton.WaitVisible(p.timeout) }},
	}
	for _, c := range checks {
		p.step(c.title)
		if err := c.run(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrOrderNotComplete, c.title, err)
		}
	}
	return nil
}
