package catalog

import (
	"context"
	"slices"
)

// MemStore serves a fixed catalog. It is never written after construction,
// so reads need no locking.
type MemStore struct {
	products   []Product
	byID       map[string]int
	categories []Category
}

func NewMemStore(products []Product, categories []Category) *MemStore {
	s := &MemStore{
		products:   slices.Clone(products),
		byID:       make(map[string]int, len(products)),
		categories: slices.Clone(categories),
	}
	for i, p := range s.products {
		s.byID[p.ID] = i
	}
	return s
}

func NewStore() *MemStore {
	return NewMemStore(SampleProducts(), SampleCategories())
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	return slices.Clone(s.products), nil
}

func (s *MemStore) Get(ctx context.Context, id string) (Product, error) {
	i, ok := s.byID[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return s.products[i], nil
}

func (s *MemStore) Categories(ctx context.Context) ([]Category, error) {
	return slices.Clone(s.categories), nil
}
