package fixture

import (
	"github.com/playwright-community/playwright-go"

	"github.com/adyen/storefront-e2e/internal/pages"
)

// LoginPage opens the login page in a fresh context
func (t *T) LoginPage() (*pages.LoginPage, playwright.Page) {
	t.TB.Helper()
	page := t.OpenPage(t.Context(), pages.LoginPath)
	return pages.NewLoginPage(t.Locator(page), t.PageOptions()...), page
}

// HomePage logs in through the login form of a fresh context and returns the
// page it lands on.
func (t *T) HomePage() playwright.Page {
	t.TB.Helper()

	login, page := t.LoginPage()
	cfg := t.suite.cfg
	if err := login.PerformLogin(cfg.Username, cfg.Password); err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	ok, err := login.HasLoggedIn()
	if err != nil {
		t.Fatalf("%v", err)
	}
	if !ok {
		t.Fatalf("%v for %s", ErrLoginFailed, cfg.Username)
	}
	return page
}

// InventoryPage opens the inventory page in the authenticated context. Later
// calls in the same test return the same page.
func (t *T) InventoryPage() (*pages.InventoryPage, playwright.Page) {
	t.TB.Helper()
	page := t.fixturePage("inventory", func() playwright.Page {
		return t.OpenPage(t.AuthenticatedContext(), pages.InventoryPath)
	})
	return pages.NewInventoryPage(t.Locator(page), t.PageOptions()...), page
}

// CartPage opens the cart page in the authenticated context. Later calls in
// the same test return the same page.
func (t *T) CartPage() (*pages.CartPage, playwright.Page) {
	t.TB.Helper()
	page := t.fixturePage("cart", func() playwright.Page {
		return t.OpenPage(t.AuthenticatedContext(), pages.CartPath)
	})
	return pages.NewCartPage(t.Locator(page), t.PageOptions()...), page
}

// CheckoutInfoPage opens the cart page, then moves the same page on to the
// checkout information step.
func (t *T) CheckoutInfoPage() (*pages.CheckoutInfoPage, playwright.Page) {
	t.TB.Helper()
	_, page := t.CartPage()
	t.Navigate(page, pages.CheckoutInfoPath)
	return pages.NewCheckoutInfoPage(t.Locator(page), t.PageOptions()...), page
}

// CheckoutFinalizePage opens the checkout overview in the authenticated context
func (t *T) CheckoutFinalizePage() (*pages.CheckoutFinalizePage, playwright.Page) {
	t.TB.Helper()
	page := t.OpenPage(t.AuthenticatedContext(), pages.CheckoutFinalizePath)
	return pages.NewCheckoutFinalizePage(t.Locator(page), t.PageOptions()...), page
}

func (t *T) fixturePage(name string, open func() playwright.Page) playwright.Page {
	if page, ok := t.pages[name]; ok {
		return page
	}
	page := open()
	if t.pages == nil {
		t.pages = make(map[string]playwright.Page)
	}
	t.pages[name] = page
	return page
}

// InventoryItems puts every inventory item in the cart and returns their
// records. The items are taken out of the cart again at teardown, before the
// inventory page is closed.
func (t *T) InventoryItems() []pages.Item {
	t.TB.Helper()

	inventory, _ := t.InventoryPage()
	t.Step("Adding all items to cart")

	items, err := inventory.InventoryItems()
	if err != nil {
		t.Fatalf("failed to list inventory: %v", err)
	}

	records := make([]pages.Item, 0, len(items))
	for _, item := range items {
		inCart, err := item.InCart()
		if err != nil {
			t.Fatalf("%v", err)
		}
		if !inCart {
			if err := item.AddToCart(); err != nil {
				t.Fatalf("%v", err)
			}
		}
		record, err := item.Serialize()
		if err != nil {
			t.Fatalf("%v", err)
		}
		records = append(records, record)
	}

	t.TB.Cleanup(func() {
		for _, item := range items {
			inCart, err := item.InCart()
			if err != nil || !inCart {
				continue
			}
			if err := item.RemoveFromCart(); err != nil {
				t.TB.Logf("failed to empty cart: %v", err)
			}
		}
	})
	return records
}
