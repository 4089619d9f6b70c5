package pages

import (
	"fmt"

	"github.com/adyen/storefront-e2e/internal/locator"
)

// NavBar is the header shared by every page after login.
type NavBar struct {
	base
	shoppingCartLink  locator.Element
	shoppingCartBadge locator.Element
	burgerMenu        locator.Element
}

// NewNavBar builds a NavBar over page.
func NewNavBar(page locator.Page, opts ...Option) *NavBar {
	return &NavBar{
		base:              newBase(page, opts),
		shoppingCartLink:  page.Locator(`[data-test="shopping-cart-link"]`),
		shoppingCartBadge: page.Locator(`[data-test="shopping-cart-badge"]`),
		burgerMenu:        page.Locator("#react-burger-menu-btn"),
	}
}

func (n *NavBar) ClickBurgerMenu() error {
	n.step("Clicking burger menu")
	if err := n.burgerMenu.Click(); err != nil {
		return fmt.Errorf("failed to open menu: %w", err)
	}
	return nil
}

func (n *NavBar) ClickShoppingCartLink() error {
	n.step("Clicking shopping cart link")
	if err := n.shoppingCartLink.Click(); err != nil {
		return fmt.Errorf("failed to open cart: %w", err)
	}
	return nil
}

// ItemCount is the number on the cart badge, or 0 when no badge is shown.
func (n *NavBar) ItemCount() (int, error) {
	n.step("Getting item count")
	text, shown, err := optionalText(n.shoppingCartBadge)
	if err != nil || !shown {
		return 0, err
	}
	return ParseQuantity(text)
}
