package account_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Storefront/internal/account"
)

func TestTokenMaker_RoundTrip(t *testing.T) {
	tm := account.NewTokenMaker("k")
	tok, err := tm.New(account.User{ID: "u_1", Email: "a@b.co", Role: account.RoleCustomer}, time.Minute)
	require.NoError(t, err)

	c, err := tm.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u_1", c.UserID)
	assert.Equal(t, "a@b.co", c.Email)
}

func TestTokenMaker_Rejects(t *testing.T) {
	tm := account.NewTokenMaker("k")

	expired, err := tm.New(account.User{ID: "u_1"}, -time.Minute)
	require.NoError(t, err)
	_, err = tm.Parse(expired)
	assert.ErrorIs(t, err, account.ErrInvalidToken)

	foreign, err := account.NewTokenMaker("other").New(account.User{ID: "u_1"}, time.Minute)
	require.NoError(t, err)
	_, err = tm.Parse(foreign)
	assert.ErrorIs(t, err, account.ErrInvalidToken)
}
