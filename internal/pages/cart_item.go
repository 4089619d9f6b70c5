package pages

import (
	"errors"
	"fmt"

	"github.com/adyen/storefront-e2e/internal/locator"
)

// CartItem is one row of the cart or checkout overview list.
type CartItem struct {
	row          locator.Element
	name         locator.Element
	price        locator.Element
	quantity     locator.Element
	removeButton locator.Element
	narrator     Narrator
}

func newCartItem(row locator.Element, n Narrator) *CartItem {
	return &CartItem{
		row:          row,
		name:         row.Locator(`[data-test="inventory-item-name"]`),
		price:        row.Locator(`[data-test="inventory-item-price"]`),
		quantity:     row.Locator(`[data-test="item-quantity"]`),
		removeButton: row.Locator(`[data-test^="remove-"]`),
		narrator:     n,
	}
}

// ClickRemove removes the item from the cart.
func (c *CartItem) ClickRemove() error {
	c.narrator.Step("Remove item from cart")
	if err := c.removeButton.Click(); err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}

// IsVisible reports whether the row and its name, price and quantity are all
// visible. A missing or hidden node yields false; any other failure is
// returned.
func (c *CartItem) IsVisible() (bool, error) {
	for _, el := range []locator.Element{c.row, c.name, c.price, c.quantity} {
		visible, err := el.IsVisible()
		if errors.Is(err, locator.ErrNotActionable) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if !visible {
			return false, nil
		}
	}
	return true, nil
}

func (c *CartItem) Name() (string, error) {
	name, err := c.name.InnerText()
	if err != nil {
		return "", fmt.Errorf("failed to read cart item name: %w", err)
	}
	return name, nil
}

func (c *CartItem) Price() (float64, error) {
	text, err := c.price.InnerText()
	if err != nil {
		return 0, fmt.Errorf("failed to read cart item price: %w", err)
	}
	return ParsePrice(text)
}

func (c *CartItem) Quantity() (int, error) {
	text, err := c.quantity.InnerText()
	if err != nil {
		return 0, fmt.Errorf("failed to read cart item quantity: %w", err)
	}
	return ParseQuantity(text)
}

// TotalPrice is price times quantity.
func (c *CartItem) TotalPrice() (float64, error) {
	price, err := c.Price()
	if err != nil {
		return 0, err
	}
	qty, err := c.Quantity()
	if err != nil {
		return 0, err
	}
	return price * float64(qty), nil
}

// Serialize reads name, price and quantity.
func (c *CartItem) Serialize() (Item, error) {
	name, err := c.Name()
	if err != nil {
		return Item{}, err
	}
	price, err := c.Price()
	if err != nil {
		return Item{}, err
	}
	qty, err := c.Quantity()
	if err != nil {
		return Item{}, err
	}
	return Item{Name: name, Price: price, Quantity: qty}, nil
}

func cartItems(list locator.Element, n Narrator) ([]*CartItem, error) {
	rows, err := list.All()
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	items := make([]*CartItem, len(rows))
	for i, row := range rows {
		items[i] = newCartItem(row, n)
	}
	return items, nil
}
