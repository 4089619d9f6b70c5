package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func names(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func TestSortItems(t *testing.T) {
	items := []Item{
		{Name: "b", Price: 2},
		{Name: "a", Price: 3},
		{Name: "d", Price: 1},
		{Name: "c", Price: 2},
	}

	tests := []struct {
		key  SortKey
		want []string
	}{
		{key: SortNameAsc, want: []string{"a", "b", "c", "d"}},
		{key: SortNameDesc, want: []string{"d", "c", "b", "a"}},
		// b and c tie on price and keep their input order
		{key: SortPriceAsc, want: []string{"d", "b", "c", "a"}},
		{key: SortPriceDesc, want: []string{"a", "b", "c", "d"}},
		{key: SortKey("bogus"), want: []string{"b", "a", "d", "c"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			assert.Equal(t, tt.want, names(SortItems(items, tt.key)))
		})
	}

	assert.Equal(t, []string{"b", "a", "d", "c"}, names(items), "input must not be reordered")
}

func TestByName(t *testing.T) {
	m := ByName([]Item{{Name: "a", Price: 1}, {Name: "b", Price: 2}})
	assert.Len(t, m, 2)
	assert.Equal(t, 2.0, m["b"].Price)
}
