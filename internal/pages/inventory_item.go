package pages

import (
	"fmt"

	"github.com/adyen/storefront-e2e/internal/locator"
)

// InventoryItem is one product row of the inventory page.
type InventoryItem struct {
	row          locator.Element
	name         locator.Element
	price        locator.Element
	description  locator.Element
	image        locator.Element
	addButton    locator.Element
	removeButton locator.Element
	narrator     Narrator
}

func newInventoryItem(row locator.Element, n Narrator) *InventoryItem {
	return &InventoryItem{
		row:          row,
		name:         row.Locator(`[data-test="inventory-item-name"]`),
		price:        row.Locator(`[data-test="inventory-item-price"]`),
		description:  row.Locator(`[data-test="inventory-item-description"]`),
		image:        row.Locator("img.inventory_item_img"),
		addButton:    row.Locator(`[data-test^="add-to-cart"]`),
		removeButton: row.Locator(`[data-test^="remove-"]`),
		narrator:     n,
	}
}

func (i *InventoryItem) Row() locator.Element         { return i.row }
func (i *InventoryItem) Name() locator.Element        { return i.name }
func (i *InventoryItem) Price() locator.Element       { return i.price }
func (i *InventoryItem) Description() locator.Element { return i.description }
func (i *InventoryItem) Image() locator.Element       { return i.image }

// AddToCart clicks the item's add button.
func (i *InventoryItem) AddToCart() error {
	i.narrator.Step("Add item to cart")
	if err := i.addButton.Click(); err != nil {
		return fmt.Errorf("failed to add item to cart: %w", err)
	}
	return nil
}

// RemoveFromCart clicks the item's remove button.
func (i *InventoryItem) RemoveFromCart() error {
	i.narrator.Step("Remove item from cart")
	if err := i.removeButton.Click(); err != nil {
		return fmt.Errorf("failed to remove item from cart: %w", err)
	}
	return nil
}

// InCart reports whether the remove button is shown, which the storefront
// does only for items in the cart.
func (i *InventoryItem) InCart() (bool, error) {
	return i.removeButton.IsVisible()
}

// Serialize reads name, price, description and image source.
func (i *InventoryItem) Serialize() (Item, error) {
	name, err := i.name.InnerText()
	if err != nil {
		return Item{}, fmt.Errorf("failed to read item name: %w", err)
	}
	priceText, err := i.price.InnerText()
	if err != nil {
		return Item{}, fmt.Errorf("failed to read price of %q: %w", name, err)
	}
	price, err := ParsePrice(priceText)
	if err != nil {
		return Item{}, err
	}
	description, err := i.description.InnerText()
	if err != nil {
		return Item{}, fmt.Errorf("failed to read description of %q: %w", name, err)
	}
	image, err := i.image.Attribute("src")
	if err != nil {
		return Item{}, fmt.Errorf("failed to read image of %q: %w", name, err)
	}
	return Item{Name: name, Price: price, Description: description, Image: image}, nil
}
