// Package pages models the storefront's pages as page objects.
//
// Page objects are non-owning views over a locator.Page. Constructors only
// compose selectors; every getter and action queries the live DOM. Lists of
// item entities are snapshots taken at call time and are not refreshed:
// callers must fetch the list again after any action that changes it.
package pages

import (
	"time"

	"github.com/adyen/storefront-e2e/internal/locator"
)

// Storefront paths. These are part of the contract with the application under test.
const (
	LoginPath            = "/"
	InventoryPath        = "/inventory.html"
	CartPath             = "/cart.html"
	CheckoutInfoPath     = "/checkout-step-one.html"
	CheckoutFinalizePath = "/checkout-step-two.html"
	CheckoutCompletePath = "/checkout-complete.html"
)

// DefaultTimeout bounds the explicit waits page objects perform.
const DefaultTimeout = 10 * time.Second

// Narrator receives step-level narration from page objects.
type Narrator interface {
	Step(title string)
}

type nopNarrator struct{}

func (nopNarrator) Step(string) {}

// Option configures a page object.
type Option func(*base)

// WithNarrator routes step narration to n.
func WithNarrator(n Narrator) Option {
	return func(b *base) {
		if n != nil {
			b.narrator = n
		}
	}
}

// WithTimeout sets the timeout of the page object's explicit waits.
func WithTimeout(d time.Duration) Option {
	return func(b *base) {
		if d > 0 {
			b.timeout = d
		}
	}
}

type base struct {
	page     locator.Page
	narrator Narrator
	timeout  time.Duration
}

func newBase(page locator.Page, opts []Option) base {
	b := base{page: page, narrator: nopNarrator{}, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *base) step(title string) {
	b.narrator.Step(title)
}

// optionalText returns the text of el, or ok=false when el is not visible.
func optionalText(el locator.Element) (string, bool, error) {
	visible, err := el.IsVisible()
	if err != nil {
		return "", false, err
	}
	if !visible {
		return "", false, nil
	}
	text, err := el.TextContent()
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}
