package account

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"Storefront/pkg/pgdb"
)

type PostgresStore struct {
	db   pgdb.DB
	cost int
}

func NewPostgresStore(db pgdb.DB) *PostgresStore {
	return &PostgresStore{db: db, cost: bcrypt.DefaultCost}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return pgdb.WithTimeout(ctx, pgdb.PingTimeout, s.db.Ping)
}

func (s *PostgresStore) Create(ctx context.Context, u User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return err
	}

	return pgdb.WithTimeout(ctx, pgdb.QueryTimeout, func(ctx context.Context) error {
		_, err := s.db.Exec(ctx,
			`INSERT INTO users (id, name, email, pass_hash, role, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
			u.ID, u.Name, normalizeEmail(u.Email), hash, u.Role, u.CreatedAt,
		)
		if pgdb.IsUniqueViolation(err) {
			return ErrEmailExists
		}
		return err
	})
}

const selectUserSQL = `SELECT id, name, email, pass_hash, role, created_at FROM users WHERE `

func (s *PostgresStore) scanOne(ctx context.Context, where string, arg any) (User, error) {
	var u User
	err := pgdb.WithTimeout(ctx, pgdb.QueryTimeout, func(ctx context.Context) error {
		return s.db.QueryRow(ctx, selectUserSQL+where, arg).
			Scan(&u.ID, &u.Name, &u.Email, &u.Hash, &u.Role, &u.CreatedAt)
	})
	return u, err
}

func (s *PostgresStore) Verify(ctx context.Context, email, password string) (User, error) {
	u, err := s.scanOne(ctx, "email = $1", normalizeEmail(email))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword(u.Hash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (User, error) {
	u, err := s.scanOne(ctx, "id = $1", id)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}
