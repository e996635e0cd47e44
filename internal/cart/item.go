package cart

import "Storefront/internal/catalog"

// LineItem is one cart row. Product is a snapshot taken when the line was
// first added; later catalog changes do not reprice it.
type LineItem struct {
	LineID        string          `json:"line_id"`
	Product       catalog.Product `json:"product"`
	SelectedColor string          `json:"selected_color"`
	SelectedSize  string          `json:"selected_size"`
	Quantity      int             `json:"quantity"`
}

// Key identifies the variant a line stands for. The cart holds at most one
// line per key.
type Key struct {
	ProductID string
	Color     string
	Size      string
}

func (l LineItem) Key() Key {
	return Key{ProductID: l.Product.ID, Color: l.SelectedColor, Size: l.SelectedSize}
}

func (l LineItem) SubtotalCents() int64 {
	return l.Product.PriceCents * int64(l.Quantity)
}

// Snapshot is a read-only copy of a container's state with its derived values.
type Snapshot struct {
	Lines         []LineItem `json:"lines"`
	Wishlist      []string   `json:"wishlist"`
	ItemCount     int        `json:"item_count"`
	WishlistCount int        `json:"wishlist_count"`
	TotalCents    int64      `json:"total_cents"`
}
