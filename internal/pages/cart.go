package pages

import (
	"fmt"

	"github.com/adyen/storefront-e2e/internal/locator"
)

// CartPage shows the cart contents.
type CartPage struct {
	base
	cartItems              locator.Element
	checkoutButton         locator.Element
	continueShoppingButton locator.Element
}

// NewCartPage builds a CartPage over page.
func NewCartPage(page locator.Page, opts ...Option) *CartPage {
	return &CartPage{
		base:                   newBase(page, opts),
		cartItems:              page.Locator(`[data-test="inventory-item"]`),
		checkoutButton:         page.Locator(`[data-test="checkout"]`),
		continueShoppingButton: page.Locator(`[data-test="continue-shopping"]`),
	}
}

func (p *CartPage) CheckoutButton() locator.Element         { return p.checkoutButton }
func (p *CartPage) ContinueShoppingButton() locator.Element { return p.continueShoppingButton }

// CartItems returns a snapshot of the rows currently in the cart.
func (p *CartPage) CartItems() ([]*CartItem, error) {
	p.step("Getting cart items")
	return cartItems(p.cartItems, p.narrator)
}

func (p *CartPage) ClickCheckout() error {
	p.step("Clicking checkout button")
	if err := p.checkoutButton.Click(); err != nil {
		return fmt.Errorf("failed to click checkout: %w", err)
	}
	return nil
}

func (p *CartPage) ClickContinueShopping() error {
	p.step("Clicking continue shopping button")
	if err := p.continueShoppingButton.Click(); err != nil {
		return fmt.Errorf("failed to click continue shopping: %w", err)
	}
	return nil
}
