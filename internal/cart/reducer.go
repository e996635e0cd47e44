package cart

import (
	"slices"

	"Storefront/internal/catalog"
)

// The functions below never modify their input slices; each returns a fresh
// slice and whether anything changed.

// MaxQuantity caps a single line so counts and totals stay well inside int64.
const MaxQuantity = 999

func clampQuantity(q int) int {
	return min(MaxQuantity, max(1, q))
}

// AddLine merges into the line with the same (product, color, size) key or
// appends a new line with an id from newID.
func AddLine(lines []LineItem, p catalog.Product, color, size string, qty int, newID func() string) []LineItem {
	qty = clampQuantity(qty)
	key := Key{ProductID: p.ID, Color: color, Size: size}

	out := slices.Clone(lines)
	for i := range out {
		if out[i].Key() == key {
			out[i].Quantity = clampQuantity(out[i].Quantity + qty)
			return out
		}
	}

	return append(out, LineItem{
		LineID:        newID(),
		Product:       p,
		SelectedColor: color,
		SelectedSize:  size,
		Quantity:      qty,
	})
}

func RemoveLine(lines []LineItem, lineID string) ([]LineItem, bool) {
	i := slices.IndexFunc(lines, func(l LineItem) bool { return l.LineID == lineID })
	if i < 0 {
		return slices.Clone(lines), false
	}
	return slices.Delete(slices.Clone(lines), i, i+1), true
}

// SetQuantity sets the matching line to qty clamped to [1, MaxQuantity].
func SetQuantity(lines []LineItem, lineID string, qty int) ([]LineItem, bool) {
	out := slices.Clone(lines)
	for i := range out {
		if out[i].LineID == lineID {
			q := clampQuantity(qty)
			changed := out[i].Quantity != q
			out[i].Quantity = q
			return out, changed
		}
	}
	return out, false
}

// RemoveOrdered takes the quantities in ordered off the matching lines. A line
// whose remainder drops below 1 is removed; lines not in ordered are kept.
func RemoveOrdered(lines, ordered []LineItem) ([]LineItem, bool) {
	taken := make(map[string]int, len(ordered))
	for _, l := range ordered {
		taken[l.LineID] += l.Quantity
	}

	out := make([]LineItem, 0, len(lines))
	changed := false
	for _, l := range lines {
		n, ok := taken[l.LineID]
		if !ok {
			out = append(out, l)
			continue
		}
		changed = true
		if rest := l.Quantity - n; rest >= 1 {
			l.Quantity = rest
			out = append(out, l)
		}
	}
	return out, changed
}

func AddWishlist(ids []string, productID string) ([]string, bool) {
	if slices.Contains(ids, productID) {
		return slices.Clone(ids), false
	}
	return append(slices.Clone(ids), productID), true
}

func RemoveWishlist(ids []string, productID string) ([]string, bool) {
	out := slices.DeleteFunc(slices.Clone(ids), func(id string) bool { return id == productID })
	return out, len(out) != len(ids)
}

func ItemCount(lines []LineItem) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

func TotalCents(lines []LineItem) int64 {
	var total int64
	for _, l := range lines {
		total += l.SubtotalCents()
	}
	return total
}
