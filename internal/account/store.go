package account

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

const RoleCustomer = "customer"

type User struct {
	ID        string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Hash      []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type UserStore interface {
	Create(ctx context.Context, u User, password string) error
	Verify(ctx context.Context, email, password string) (User, error)
	Get(ctx context.Context, id string) (User, error)
	Ping(ctx context.Context) error
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
