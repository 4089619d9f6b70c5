package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryPage_InventoryItems(t *testing.T) {
	s := loggedInStorefront(t)
	inventory := NewInventoryPage(s.page())

	items, err := inventory.InventoryItems()
	require.NoError(t, err)
	require.Len(t, items, len(catalog))

	for _, it := range items {
		for _, el := range []interface{ IsVisible() (bool, error) }{it.Name(), it.Price(), it.Description(), it.Image()} {
			visible, err := el.IsVisible()
			require.NoError(t, err)
			assert.True(t, visible)
		}
	}

	first, err := items[0].Serialize()
	require.NoError(t, err)
	assert.Equal(t, Item{
		Name:        "Sauce Labs Backpack",
		Price:       29.99,
		Description: "carry.allTheThings() with the sleek, streamlined Sly Pack.",
		Image:       "/static/media/sauce-backpack-1200x1500.jpg",
	}, first)
}

func TestInventoryPage_AddAndRemove(t *testing.T) {
	// GIVEN a logged in user on the inventory page with an empty cart
	s := loggedInStorefront(t)
	inventory := NewInventoryPage(s.page())
	navbar := NewNavBar(s.page())

	items, err := inventory.InventoryItems()
	require.NoError(t, err)
	count, err := navbar.ItemCount()
	require.NoError(t, err)
	require.Equal(t, 0, count)

	// WHEN every item is added, THEN the badge follows
	for i, it := range items {
		require.NoError(t, it.AddToCart())
		inCart, err := it.InCart()
		require.NoError(t, err)
		assert.True(t, inCart)

		count, err := navbar.ItemCount()
		require.NoError(t, err)
		assert.Equal(t, i+1, count)
	}

	// WHEN every item is removed, THEN the badge counts down and disappears
	for i, it := range items {
		require.NoError(t, it.RemoveFromCart())
		count, err := navbar.ItemCount()
		require.NoError(t, err)
		assert.Equal(t, len(items)-i-1, count)
	}

	badge, err := s.page().Locator(`[data-test="shopping-cart-badge"]`).IsVisible()
	require.NoError(t, err)
	assert.False(t, badge)
}

func TestInventoryItem_AddTwice(t *testing.T) {
	s := loggedInStorefront(t)
	items, err := NewInventoryPage(s.page()).InventoryItems()
	require.NoError(t, err)

	require.NoError(t, items[0].AddToCart())
	// the add button is gone once the item is in the cart
	assert.Error(t, items[0].AddToCart())
}

func TestInventoryPage_SetSortBy(t *testing.T) {
	s := loggedInStorefront(t)
	inventory := NewInventoryPage(s.page())

	offered, err := inventory.SortOptions()
	require.NoError(t, err)
	assert.Equal(t, SortKeys, offered)

	unsorted, err := inventory.SerializeAll()
	require.NoError(t, err)

	for _, key := range SortKeys {
		t.Run(string(key), func(t *testing.T) {
			require.NoError(t, inventory.SetSortBy(key))
			got, err := inventory.SerializeAll()
			require.NoError(t, err)
			assert.Equal(t, SortItems(unsorted, key), got)

			// selecting the same key again leaves the order as it is
			require.NoError(t, inventory.SetSortBy(key))
			again, err := inventory.SerializeAll()
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestInventoryPage_SetSortBy_Unknown(t *testing.T) {
	s := loggedInStorefront(t)
	inventory := NewInventoryPage(s.page())

	err := inventory.SetSortBy(SortKey("price-desc"))
	require.ErrorIs(t, err, ErrUnknownSortOption)

	value, err := inventory.SortSelect().InputValue()
	require.NoError(t, err)
	assert.Equal(t, string(SortNameAsc), value)
}

func TestInventoryPage_SnapshotIsPositional(t *testing.T) {
	s := loggedInStorefront(t)
	inventory := NewInventoryPage(s.page())

	items, err := inventory.InventoryItems()
	require.NoError(t, err)
	before, err := items[0].Serialize()
	require.NoError(t, err)

	require.NoError(t, inventory.SetSortBy(SortNameDesc))

	// the stale handle re-resolves by position and now reads another row
	after, err := items[0].Serialize()
	require.NoError(t, err)
	assert.NotEqual(t, before.Name, after.Name)
	assert.Equal(t, "Test.allTheThings() T-Shirt (Red)", after.Name)
}
