package cart_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"Storefront/internal/cart"
	"Storefront/internal/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSessions_IsolatedPerSession(t *testing.T) {
	ctx := context.Background()
	s := cart.NewSessions(storage.NewMemStore(), "", time.Hour)

	a := s.Get(ctx, "a")
	b := s.Get(ctx, "b")
	a.AddToWishlist(ctx, "1")

	assert.Same(t, a, s.Get(ctx, "a"))
	assert.True(t, a.IsInWishlist("1"))
	assert.False(t, b.IsInWishlist("1"))
	assert.Equal(t, 2, s.Len())
}

func TestSessions_EvictedSessionRehydrates(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	s := cart.NewSessions(store, "storefront", time.Millisecond)

	s.Get(ctx, "a").AddToWishlist(ctx, "2")
	time.Sleep(5 * time.Millisecond)

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 0, s.Len())
	assert.True(t, s.Get(ctx, "a").IsInWishlist("2"))

	_, ok, err := store.Load(ctx, "storefront:a:wishlist")
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestSessions_ZeroTTLNeverEvicts(t *testing.T) {
	ctx := context.Background()
	s := cart.NewSessions(storage.NewMemStore(), "", 0)
	s.Get(ctx, "a")

	assert.Equal(t, 0, s.Sweep())
	assert.Equal(t, 1, s.Len())
}

func TestSessions_RunStopsWithContext(t *testing.T) {
	s := cart.NewSessions(storage.NewMemStore(), "", time.Millisecond)
	s.Get(context.Background(), "a")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
