package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderFixture(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresStore(mock), mock
}

func sampleOrder() Order {
	return Order{
		ID:            "o_1",
		SessionID:     "s_1",
		Customer:      Customer{FirstName: "Ada", Email: "ada@example.com"},
		PaymentMethod: PaymentCOD,
		Lines: []OrderLine{
			{ProductID: "1", Name: "Dress", Color: "Blue", Size: "M", Quantity: 2, UnitPriceCents: 8999},
		},
		Summary:   Summary{ItemCount: 2, SubtotalCents: 17998, TaxCents: 1440, TotalCents: 19438},
		Status:    StatusPlaced,
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestPostgresStore_CreateInsertsOrderAndItems(t *testing.T) {
	s, mock := newOrderFixture(t)
	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(o.ID, o.SessionID, pgxmock.AnyArg(), "cod", StatusPlaced,
			int64(17998), int64(0), int64(1440), int64(19438), o.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(o.ID, 0, "1", "Dress", "Blue", "M", 2, int64(8999)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, s.Create(context.Background(), o))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateDuplicate(t *testing.T) {
	s, mock := newOrderFixture(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := s.Create(context.Background(), sampleOrder())
	assert.ErrorIs(t, err, ErrOrderExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetFound(t *testing.T) {
	s, mock := newOrderFixture(t)
	want := sampleOrder()

	mock.ExpectQuery("SELECT id, session_id, customer").
		WithArgs("o_1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "session_id", "customer", "payment_method", "status",
			"subtotal_cents", "shipping_cents", "tax_cents", "total_cents", "created_at",
		}).AddRow("o_1", "s_1", []byte(`{"first_name":"Ada","email":"ada@example.com"}`), "cod", StatusPlaced,
			int64(17998), int64(0), int64(1440), int64(19438), want.CreatedAt))
	mock.ExpectQuery("SELECT product_id, name, color, size, qty, unit_price_cents FROM order_items").
		WithArgs("o_1").
		WillReturnRows(pgxmock.NewRows([]string{"product_id", "name", "color", "size", "qty", "unit_price_cents"}).
			AddRow("1", "Dress", "Blue", "M", 2, int64(8999)))

	got, ok, err := s.Get(context.Background(), "o_1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetMissing(t *testing.T) {
	s, mock := newOrderFixture(t)

	mock.ExpectQuery("SELECT id, session_id, customer").
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	_, ok, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}
