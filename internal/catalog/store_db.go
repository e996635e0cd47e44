package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"Storefront/pkg/pgdb"
)

const productColumns = "id, name, price_cents, original_price_cents, category, rating, reviews, " +
	"in_stock, is_new, is_sale, description, colors, sizes, image, gallery"

type PostgresStore struct {
	db pgdb.DB
}

func NewPostgresStore(db pgdb.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return pgdb.WithTimeout(ctx, pgdb.PingTimeout, s.db.Ping)
}

func (s *PostgresStore) List(ctx context.Context) ([]Product, error) {
	var out []Product

	err := pgdb.WithTimeout(ctx, pgdb.QueryTimeout, func(ctx context.Context) error {
		rows, err := s.db.Query(ctx, "SELECT "+productColumns+" FROM products ORDER BY position ASC, id ASC")
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Product, 0, 16)
		for rows.Next() {
			p, err := scanProduct(rows)
			if err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Product, error) {
	var p Product

	err := pgdb.WithTimeout(ctx, pgdb.QueryTimeout, func(ctx context.Context) error {
		var err error
		p, err = scanProduct(s.db.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id))
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) Categories(ctx context.Context) ([]Category, error) {
	var out []Category

	err := pgdb.WithTimeout(ctx, pgdb.QueryTimeout, func(ctx context.Context) error {
		rows, err := s.db.Query(ctx, `
			SELECT c.name, c.slug, count(p.id)
			FROM categories c
			LEFT JOIN products p ON p.category = c.name
			GROUP BY c.name, c.slug, c.position
			ORDER BY c.position ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var c Category
			if err := rows.Scan(&c.Name, &c.Slug, &c.Count); err != nil {
				return err
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Name, &p.PriceCents, &p.OriginalPriceCents, &p.Category, &p.Rating, &p.Reviews,
		&p.InStock, &p.IsNew, &p.IsSale, &p.Description, &p.Colors, &p.Sizes, &p.Image, &p.Gallery,
	)
	return p, err
}
