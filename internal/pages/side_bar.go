package pages

import (
	"fmt"

	"github.com/adyen/storefront-e2e/internal/locator"
)

// SideBar is the burger menu. It must be opened through the NavBar first.
type SideBar struct {
	base
	logoutLink    locator.Element
	inventoryLink locator.Element
	aboutLink     locator.Element
}

// NewSideBar builds a SideBar over page.
func NewSideBar(page locator.Page, opts ...Option) *SideBar {
	return &SideBar{
		base:          newBase(page, opts),
		logoutLink:    page.Locator("#logout_sidebar_link"),
		inventoryLink: page.Locator("#inventory_sidebar_link"),
		aboutLink:     page.Locator("#about_sidebar_link"),
	}
}

func (s *SideBar) Logout() error {
	s.step("Clicking on the logout button")
	return click(s.logoutLink, "logout")
}

func (s *SideBar) ClickAllItems() error {
	s.step("Clicking on all items")
	return click(s.inventoryLink, "all items")
}

func (s *SideBar) ClickAbout() error {
	s.step("Clicking on about")
	return click(s.aboutLink, "about")
}

func click(el locator.Element, what string) error {
	if err := el.Click(); err != nil {
		return fmt.Errorf("failed to click %s: %w", what, err)
	}
	return nil
}
