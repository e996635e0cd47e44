package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"Storefront/pkg/pgdb"
)

// TxDB is a pgdb.DB that can also open transactions.
type TxDB interface {
	pgdb.DB
	Begin(ctx context.Context) (pgx.Tx, error)
}

type PostgresStore struct {
	db TxDB
}

func NewPostgresStore(db TxDB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return pgdb.WithTimeout(ctx, pgdb.PingTimeout, s.db.Ping)
}

const (
	insertOrderSQL = `INSERT INTO orders (id, session_id, customer, payment_method, status, ` +
		`subtotal_cents, shipping_cents, tax_cents, total_cents, created_at) ` +
		`VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	insertItemSQL = `INSERT INTO order_items (order_id, line_no, product_id, name, color, size, qty, unit_price_cents) ` +
		`VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	selectOrderSQL = `SELECT id, session_id, customer, payment_method, status, ` +
		`subtotal_cents, shipping_cents, tax_cents, total_cents, created_at FROM orders WHERE id = $1`
	selectItemsSQL = `SELECT product_id, name, color, size, qty, unit_price_cents ` +
		`FROM order_items WHERE order_id = $1 ORDER BY line_no ASC`
)

func (s *PostgresStore) Create(ctx context.Context, o Order) error {
	customer, err := json.Marshal(o.Customer)
	if err != nil {
		return fmt.Errorf("encode customer: %w", err)
	}

	return pgdb.WithTimeout(ctx, pgdb.QueryTimeout, func(ctx context.Context) error {
		tx, err := s.db.Begin(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(ctx) }()

		_, err = tx.Exec(ctx, insertOrderSQL,
			o.ID, o.SessionID, customer, string(o.PaymentMethod), o.Status,
			o.Summary.SubtotalCents, o.Summary.ShippingCents, o.Summary.TaxCents, o.Summary.TotalCents,
			o.CreatedAt,
		)
		if pgdb.IsUniqueViolation(err) {
			return ErrOrderExists
		}
		if err != nil {
			return err
		}

		for i, l := range o.Lines {
			if _, err := tx.Exec(ctx, insertItemSQL,
				o.ID, i, l.ProductID, l.Name, l.Color, l.Size, l.Quantity, l.UnitPriceCents,
			); err != nil {
				return err
			}
		}

		return tx.Commit(ctx)
	})
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Order, bool, error) {
	var (
		o        Order
		customer []byte
		method   string
		found    = true
	)

	err := pgdb.WithTimeout(ctx, pgdb.QueryTimeout, func(ctx context.Context) error {
		err := s.db.QueryRow(ctx, selectOrderSQL, id).Scan(
			&o.ID, &o.SessionID, &customer, &method, &o.Status,
			&o.Summary.SubtotalCents, &o.Summary.ShippingCents, &o.Summary.TaxCents, &o.Summary.TotalCents,
			&o.CreatedAt,
		)
		if errors.Is(err, pgx.ErrNoRows) {
			found = false
			return nil
		}
		if err != nil {
			return err
		}

		rows, err := s.db.Query(ctx, selectItemsSQL, id)
		if err != nil {
			return err
		}
		defer rows.Close()

		o.Lines = make([]OrderLine, 0, 8)
		for rows.Next() {
			var l OrderLine
			if err := rows.Scan(&l.ProductID, &l.Name, &l.Color, &l.Size, &l.Quantity, &l.UnitPriceCents); err != nil {
				return err
			}
			o.Lines = append(o.Lines, l)
			o.Summary.ItemCount += l.Quantity
		}
		return rows.Err()
	})
	if err != nil || !found {
		return Order{}, false, err
	}

	if err := json.Unmarshal(customer, &o.Customer); err != nil {
		return Order{}, false, fmt.Errorf("decode customer: %w", err)
	}
	o.PaymentMethod = PaymentMethod(method)
	return o, true, nil
}
