package pages

import (
	"errors"
	"fmt"
	"slices"

	"github.com/adyen/storefront-e2e/internal/locator"
)

// ErrUnknownSortOption is returned when the sort select does not offer a key.
var ErrUnknownSortOption = errors.New("sort option not offered")

// InventoryPage lists the products.
type InventoryPage struct {
	base
	inventoryList locator.Element
	sortBy        locator.Element
}

// NewInventoryPage builds an InventoryPage over page.
func NewInventoryPage(page locator.Page, opts ...Option) *InventoryPage {
	return &InventoryPage{
		base:          newBase(page, opts),
		inventoryList: page.Locator(`[data-test="inventory-item"]`),
		sortBy:        page.Locator(`[data-test="product-sort-container"]`),
	}
}

func (p *InventoryPage) SortSelect() locator.Element { return p.sortBy }

// InventoryItems returns a snapshot of the rows currently shown.
func (p *InventoryPage) InventoryItems() ([]*InventoryItem, error) {
	p.step("Getting inventory items")
	rows, err := p.inventoryList.All()
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	items := make([]*InventoryItem, len(rows))
	for i, row := range rows {
		items[i] = newInventoryItem(row, p.narrator)
	}
	return items, nil
}

// SortOptions returns the values the sort select offers.
func (p *InventoryPage) SortOptions() ([]SortKey, error) {
	options, err := p.sortBy.Locator("option").All()
	if err != nil {
		return nil, fmt.Errorf("failed to list sort options: %w", err)
	}
	keys := make([]SortKey, 0, len(options))
	for _, opt := range options {
		value, err := opt.Attribute("value")
		if err != nil {
			return nil, fmt.Errorf("failed to read sort option: %w", err)
		}
		keys = append(keys, SortKey(value))
	}
	return keys, nil
}

// SetSortBy selects key after checking the select offers it.
func (p *InventoryPage) SetSortBy(key SortKey) error {
	p.step("Setting sort by " + string(key))
	offered, err := p.SortOptions()
	if err != nil {
		return err
	}
	if !slices.Contains(offered, key) {
		return fmt.Errorf("%w: %q not in %v", ErrUnknownSortOption, key, offered)
	}
	if err := p.sortBy.SelectOption(string(key)); err != nil {
		return fmt.Errorf("failed to select sort option %q: %w", key, err)
	}
	return nil
}

// SerializeAll serializes every row currently shown.
func (p *InventoryPage) SerializeAll() ([]Item, error) {
	items, err := p.InventoryItems()
	if err != nil {
		return nil, err
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		rec, err := it.Serialize()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
