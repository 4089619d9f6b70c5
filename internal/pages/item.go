package pages

import (
	"sort"
)

// Item is the plain record an item entity serializes to.
type Item struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
	Quantity    int     `json:"quantity,omitempty"`
}

// SortKey is a value of the inventory sort select.
type SortKey string

// Sort keys offered by the inventory page
const (
	SortNameAsc   SortKey = "az"
	SortNameDesc  SortKey = "za"
	SortPriceAsc  SortKey = "lohi"
	SortPriceDesc SortKey = "hilo"
)

// SortKeys lists every known sort key.
var SortKeys = []SortKey{SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc}

// SortItems returns a sorted copy of items, ordered the way the inventory page
// orders them for key. Equal keys keep their input order.
func SortItems(items []Item, key SortKey) []Item {
	out := append([]Item(nil), items...)
	var less func(a, b Item) bool
	switch key {
	case SortNameAsc:
		less = func(a, b Item) bool { return a.Name < b.Name }
	case SortNameDesc:
		less = func(a, b Item) bool { return a.Name > b.Name }
	case SortPriceAsc:
		less = func(a, b Item) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b Item) bool { return a.Price > b.Price }
	default:
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// ByName indexes items by name.
func ByName(items []Item) map[string]Item {
	m := make(map[string]Item, len(items))
	for _, it := range items {
		m[it.Name] = it
	}
	return m
}
