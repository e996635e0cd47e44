package checkout

import "Storefront/internal/cart"

const (
	FreeShippingOverCents = 10000
	FlatShippingCents     = 1500
	TaxRatePercent        = 8
)

type Summary struct {
	ItemCount     int   `json:"item_count"`
	SubtotalCents int64 `json:"subtotal_cents"`
	ShippingCents int64 `json:"shipping_cents"`
	TaxCents      int64 `json:"tax_cents"`
	TotalCents    int64 `json:"total_cents"`
}

// Summarize prices a cart. Shipping is free strictly above the threshold and
// nothing is charged for an empty cart.
func Summarize(lines []cart.LineItem) Summary {
	s := Summary{
		ItemCount:     cart.ItemCount(lines),
		SubtotalCents: cart.TotalCents(lines),
	}
	if s.ItemCount == 0 {
		return s
	}

	if s.SubtotalCents <= FreeShippingOverCents {
		s.ShippingCents = FlatShippingCents
	}
	s.TaxCents = TaxCents(s.SubtotalCents)
	s.TotalCents = s.SubtotalCents + s.ShippingCents + s.TaxCents
	return s
}

// TaxCents is the sales tax on subtotal, rounded half-up to the cent.
func TaxCents(subtotal int64) int64 {
	return (subtotal*TaxRatePercent + 50) / 100
}
