package pages

import (
	"fmt"

	"github.com/adyen/storefront-e2e/internal/locator"
)

// CheckoutFinalizePage is the checkout overview with the order totals.
type CheckoutFinalizePage struct {
	base
	cartItems     locator.Element
	finishButton  locator.Element
	cancelButton  locator.Element
	subtotalLabel locator.Element
	taxLabel      locator.Element
	totalLabel    locator.Element
}

// NewCheckoutFinalizePage builds a CheckoutFinalizePage over page.
func NewCheckoutFinalizePage(page locator.Page, opts ...Option) *CheckoutFinalizePage {
	return &CheckoutFinalizePage{
		base:          newBase(page, opts),
		cartItems:     page.Locator(`[data-test="inventory-item"]`),
		finishButton:  page.Locator(`[data-test="finish"]`),
		cancelButton:  page.Locator(`[data-test="cancel"]`),
		subtotalLabel: page.Locator(`[data-test="subtotal-label"]`),
		taxLabel:      page.Locator(`[data-test="tax-label"]`),
		totalLabel:    page.Locator(`[data-test="total-label"]`),
	}
}

func (p *CheckoutFinalizePage) SubTotalLabel() locator.Element { return p.subtotalLabel }
func (p *CheckoutFinalizePage) TaxLabel() locator.Element      { return p.taxLabel }
func (p *CheckoutFinalizePage) TotalLabel() locator.Element    { return p.totalLabel }
func (p *CheckoutFinalizePage) FinishButton() locator.Element  { return p.finishButton }

func (p *CheckoutFinalizePage) CartItems() ([]*CartItem, error) {
	p.step("Getting cart items")
	return cartItems(p.cartItems, p.narrator)
}

func (p *CheckoutFinalizePage) SubTotal() (float64, error) {
	p.step("Getting sub total price")
	return readPrice(p.subtotalLabel, "subtotal")
}

func (p *CheckoutFinalizePage) Tax() (float64, error) {
	p.step("Getting tax")
	return readPrice(p.taxLabel, "tax")
}

func (p *CheckoutFinalizePage) Total() (float64, error) {
	p.step("Getting total")
	return readPrice(p.totalLabel, "total")
}

// Totals reads all three amounts.
func (p *CheckoutFinalizePage) Totals() (Totals, error) {
	var t Totals
	var err error
	if t.Subtotal, err = p.SubTotal(); err != nil {
		return Totals{}, err
	}
	if t.Tax, err = p.Tax(); err != nil {
		return Totals{}, err
	}
	if t.Total, err = p.Total(); err != nil {
		return Totals{}, err
	}
	return t, nil
}

func (p *CheckoutFinalizePage) ClickFinish() error {
	p.step("Clicking finish button")
	if err := p.finishButton.Click(); err != nil {
		return fmt.Errorf("failed to click finish: %w", err)
	}
	return nil
}

func (p *CheckoutFinalizePage) ClickCancel() error {
	p.step("Clicking cancel button")
	if err := p.cancelButton.Click(); err != nil {
		return fmt.Errorf("failed to click cancel: %w", err)
	}
	return nil
}

func readPrice(el locator.Element, what string) (float64, error) {
	text, err := el.InnerText()
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", what, err)
	}
	return ParsePrice(text)
}
