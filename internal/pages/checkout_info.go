package pages

import (
	"fmt"

	"github.com/adyen/storefront-e2e/internal/locator"
)

// CheckoutInfoPage is the first checkout step, collecting the buyer's details.
type CheckoutInfoPage struct {
	base
	firstName      locator.Element
	lastName       locator.Element
	postalCode     locator.Element
	continueButton locator.Element
	errorMessage   locator.Element
	infoContainer  locator.Element
}

// NewCheckoutInfoPage builds a CheckoutInfoPage over page.
func NewCheckoutInfoPage(page locator.Page, opts ...Option) *CheckoutInfoPage {
	return &CheckoutInfoPage{
		base:           newBase(page, opts),
		firstName:      page.Locator(`[data-test="firstName"]`),
		lastName:       page.Locator(`[data-test="lastName"]`),
		postalCode:     page.Locator(`[data-test="postalCode"]`),
		continueButton: page.Locator(`[data-test="continue"]`),
		errorMessage:   page.Locator(".error-message-container"),
		infoContainer:  page.Locator(`[data-test="checkout-info-container"]`),
	}
}

func (p *CheckoutInfoPage) InfoContainer() locator.Element  { return p.infoContainer }
func (p *CheckoutInfoPage) ContinueButton() locator.Element { return p.continueButton }

func (p *CheckoutInfoPage) SetFirstName(v string) error {
	p.step("Setting first name")
	return fill(p.firstName, "first name", v)
}

func (p *CheckoutInfoPage) SetLastName(v string) error {
	p.step("Setting last name")
	return fill(p.lastName, "last name", v)
}

func (p *CheckoutInfoPage) SetPostalCode(v string) error {
	p.step("Setting zip code")
	return fill(p.postalCode, "postal code", v)
}

// FirstName reads the live value of the first name input.
func (p *CheckoutInfoPage) FirstName() (string, error) {
	p.step("Getting first name")
	return p.firstName.InputValue()
}

func (p *CheckoutInfoPage) LastName() (string, error) {
	p.step("Getting last name")
	return p.lastName.InputValue()
}

func (p *CheckoutInfoPage) PostalCode() (string, error) {
	p.step("Getting zip code")
	return p.postalCode.InputValue()
}

// Fill sets all three fields. Empty values are still written, which clears
// the field.
func (p *CheckoutInfoPage) Fill(firstName, lastName, postalCode string) error {
	if err := p.SetFirstName(firstName); err != nil {
		return err
	}
	if err := p.SetLastName(lastName); err != nil {
		return err
	}
	return p.SetPostalCode(postalCode)
}

func (p *CheckoutInfoPage) ClickContinue() error {
	p.step("Clicking continue button")
	if err := p.continueButton.Click(); err != nil {
		return fmt.Errorf("failed to click continue: %w", err)
	}
	return nil
}

// ErrorMessage returns the validation banner text, if one is shown.
func (p *CheckoutInfoPage) ErrorMessage() (string, bool, error) {
	p.step("Getting error message")
	return optionalText(p.errorMessage)
}

func fill(el locator.Element, field, value string) error {
	if err := el.Fill(value); err != nil {
		return fmt.Errorf("failed to set %s: %w", field, err)
	}
	return nil
}
