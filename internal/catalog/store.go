package catalog

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("product not found")

// Store is a read-only catalog source. List preserves catalog order.
type Store interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
	Categories(ctx context.Context) ([]Category, error)
	Ping(ctx context.Context) error
}
