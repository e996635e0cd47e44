package catalog

import (
	"slices"
	"sort"
	"strings"
)

type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
)

// DefaultMaxPriceCents is the upper end of the storefront price slider.
const DefaultMaxPriceCents = 500_00

// ParseSortKey maps unknown or empty input to SortFeatured.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortNewest, SortPriceLow, SortPriceHigh, SortRating:
		return k
	default:
		return SortFeatured
	}
}

// Filter bounds are inclusive. MaxPriceCents applies only when HasMaxPrice is
// set; an empty Categories set matches every category.
type Filter struct {
	Search        string
	MinPriceCents int64
	MaxPriceCents int64
	HasMaxPrice   bool
	Categories    []string
}

func DefaultFilter() Filter {
	return Filter{MaxPriceCents: DefaultMaxPriceCents, HasMaxPrice: true}
}

// WithMaxPrice returns f with an inclusive upper bound of cents.
func (f Filter) WithMaxPrice(cents int64) Filter {
	f.MaxPriceCents = cents
	f.HasMaxPrice = true
	return f
}

func (f Filter) matchSearch(p Product, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Category), term)
}

func (f Filter) matchPrice(p Product) bool {
	if p.PriceCents < f.MinPriceCents {
		return false
	}
	return !f.HasMaxPrice || p.PriceCents <= f.MaxPriceCents
}

func (f Filter) matchCategory(p Product) bool {
	return len(f.Categories) == 0 || slices.Contains(f.Categories, p.Category)
}

// Apply returns the products matching f, ordered by key. The input is not
// modified and ties keep their catalog order.
func Apply(products []Product, f Filter, key SortKey) []Product {
	out := make([]Product, 0, len(products))
	term := strings.ToLower(f.Search)
	for _, p := range products {
		if f.matchSearch(p, term) && f.matchPrice(p) && f.matchCategory(p) {
			out = append(out, p)
		}
	}

	switch key {
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].IsNew && !out[j].IsNew })
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].PriceCents < out[j].PriceCents })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].PriceCents > out[j].PriceCents })
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}

	return out
}
