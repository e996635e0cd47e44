package account

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserFixture(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	s := NewPostgresStore(mock)
	s.cost = bcrypt.MinCost
	return s, mock
}

var userColumns = []string{"id", "name", "email", "pass_hash", "role", "created_at"}

func TestPostgresStore_Create(t *testing.T) {
	s, mock := newUserFixture(t)
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO users").
		WithArgs("u_1", "Ada", "ada@example.com", pgxmock.AnyArg(), RoleCustomer, at).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.Create(context.Background(), User{ID: "u_1", Name: "Ada", Email: " ADA@example.com", Role: RoleCustomer, CreatedAt: at}, "password1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateDuplicate(t *testing.T) {
	s, mock := newUserFixture(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := s.Create(context.Background(), User{ID: "u_1", Email: "a@b.co"}, "password1")
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestPostgresStore_Verify(t *testing.T) {
	s, mock := newUserFixture(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)
	at := time.Now().UTC()

	for i := 0; i < 2; i++ {
		mock.ExpectQuery("SELECT id, name, email, pass_hash, role, created_at FROM users WHERE email =").
			WithArgs("a@b.co").
			WillReturnRows(pgxmock.NewRows(userColumns).AddRow("u_1", "A", "a@b.co", hash, RoleCustomer, at))
	}

	u, err := s.Verify(context.Background(), "A@B.co", "password1")
	require.NoError(t, err)
	assert.Equal(t, "u_1", u.ID)

	_, err = s.Verify(context.Background(), "a@b.co", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_VerifyUnknownEmail(t *testing.T) {
	s, mock := newUserFixture(t)

	mock.ExpectQuery("FROM users WHERE email =").
		WithArgs("x@b.co").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.Verify(context.Background(), "x@b.co", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPostgresStore_GetMissing(t *testing.T) {
	s, mock := newUserFixture(t)

	mock.ExpectQuery("FROM users WHERE id =").
		WithArgs("u_404").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.Get(context.Background(), "u_404")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
