package pages

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParsePrice drops every character that is not a digit or a dot and parses
// the rest as a decimal, so "$29.99" and "Item total: $29.99" both give 29.99.
func ParsePrice(text string) (float64, error) {
	digits := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, text)
	price, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", text, err)
	}
	return price, nil
}

// ParseQuantity parses a displayed item quantity.
func ParseQuantity(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q: %w", text, err)
	}
	return n, nil
}

// TaxRate is the storefront's flat sales tax.
const TaxRate = 0.08

// Totals are the amounts shown on the checkout overview.
type Totals struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// ExpectedTotals computes subtotal, tax rounded to cents and total for a set
// of item prices. Arithmetic is done in cents.
func ExpectedTotals(prices []float64) Totals {
	var subtotal int64
	for _, p := range prices {
		subtotal += int64(math.Round(p * 100))
	}
	tax := int64(math.Round(float64(subtotal) * TaxRate))
	return Totals{
		Subtotal: float64(subtotal) / 100,
		Tax:      float64(tax) / 100,
		Total:    float64(subtotal+tax) / 100,
	}
}
