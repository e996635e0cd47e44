package checkout

import (
	"context"
	"errors"
	"time"

	"Storefront/internal/cart"
)

var ErrOrderExists = errors.New("order already exists")

const StatusPlaced = "PLACED"

type OrderLine struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	Color          string `json:"color"`
	Size           string `json:"size"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

type Order struct {
	ID            string        `json:"id"`
	SessionID     string        `json:"-"`
	Customer      Customer      `json:"customer"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Lines         []OrderLine   `json:"lines"`
	Summary       Summary       `json:"summary"`
	Status        string        `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}

func orderLines(lines []cart.LineItem) []OrderLine {
	out := make([]OrderLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, OrderLine{
			ProductID:      l.Product.ID,
			Name:           l.Product.Name,
			Color:          l.SelectedColor,
			Size:           l.SelectedSize,
			Quantity:       l.Quantity,
			UnitPriceCents: l.Product.PriceCents,
		})
	}
	return out
}

type OrderStore interface {
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, bool, error)
	Ping(ctx context.Context) error
}
