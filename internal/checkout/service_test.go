package checkout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Storefront/internal/cart"
	"Storefront/internal/catalog"
	"Storefront/internal/checkout"
	"Storefront/internal/storage"
)

type capturePublisher struct {
	events []checkout.OrderPlaced
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, e checkout.OrderPlaced) error {
	p.events = append(p.events, e)
	return p.err
}

func (p *capturePublisher) Close() error { return nil }

type orderCounter struct{ n int }

func (c *orderCounter) OrderPlaced() { c.n++ }

type failingOrders struct{ *checkout.MemStore }

func (failingOrders) Create(context.Context, checkout.Order) error { return errors.New("db down") }

// blockingOrders holds Create until release is closed.
type blockingOrders struct {
	*checkout.MemStore
	entered chan struct{}
	release chan struct{}
}

func (b blockingOrders) Create(ctx context.Context, o checkout.Order) error {
	close(b.entered)
	<-b.release
	return b.MemStore.Create(ctx, o)
}

func validCustomer() checkout.Customer {
	return checkout.Customer{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ADA@example.com ",
		Phone:     "555-0100",
		Address:   "1 Analytical Way",
		City:      "London",
		ZipCode:   "10001",
	}
}

func filledCart(t *testing.T) *cart.Container {
	t.Helper()
	ctx := context.Background()
	c := cart.Open(ctx, storage.NewMemStore(), cart.KeysFor("test", "s1"))
	p, err := catalog.NewStore().Get(ctx, "1")
	require.NoError(t, err)
	c.AddToCart(ctx, p, "Blue", "M", 2)
	return c
}

func TestService_PlaceCOD(t *testing.T) {
	ctx := context.Background()
	orders := checkout.NewMemStore()
	pub := &capturePublisher{}
	rec := &orderCounter{}
	svc := checkout.NewService(orders, pub, rec, nil)
	c := filledCart(t)

	o, err := svc.Place(ctx, "s1", c, validCustomer(), "cod")
	require.NoError(t, err)

	assert.Regexp(t, `^o_`, o.ID)
	assert.Equal(t, checkout.StatusPlaced, o.Status)
	assert.Equal(t, checkout.PaymentCOD, o.PaymentMethod)
	assert.Equal(t, "ada@example.com", o.Customer.Email)
	assert.Equal(t, checkout.DefaultCountry, o.Customer.Country)
	require.Len(t, o.Lines, 1)
	assert.Equal(t, 2, o.Lines[0].Quantity)
	assert.Equal(t, int64(17998), o.Summary.SubtotalCents)
	assert.Equal(t, int64(0), o.Summary.ShippingCents)

	assert.Equal(t, 0, c.CartItemCount())
	assert.Equal(t, 1, rec.n)
	require.Len(t, pub.events, 1)
	assert.Equal(t, o.ID, pub.events[0].OrderID)

	got, ok, err := svc.OrderFor(ctx, "s1", o.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, o.ID, got.ID)

	_, ok, err = svc.OrderFor(ctx, "someone-else", o.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_PlaceRejections(t *testing.T) {
	ctx := context.Background()
	svc := checkout.NewService(checkout.NewMemStore(), nil, nil, nil)

	_, err := svc.Place(ctx, "s1", filledCart(t), validCustomer(), "stripe")
	assert.ErrorIs(t, err, checkout.ErrPaymentUnavailable)

	_, err = svc.Place(ctx, "s1", filledCart(t), validCustomer(), "bitcoin")
	assert.ErrorIs(t, err, checkout.ErrUnknownPayment)

	bad := validCustomer()
	bad.Email = "nope"
	bad.City = ""
	_, err = svc.Place(ctx, "s1", filledCart(t), bad, "cod")
	ve, ok := checkout.IsValidation(err)
	require.True(t, ok, "got %v", err)
	assert.Contains(t, ve.Fields(), "email")
	assert.Contains(t, ve.Fields(), "city")

	empty := cart.Open(ctx, storage.NewMemStore(), cart.KeysFor("test", "empty"))
	_, err = svc.Place(ctx, "s1", empty, validCustomer(), "cod")
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
}

func TestService_PublishFailureDoesNotFailCheckout(t *testing.T) {
	svc := checkout.NewService(checkout.NewMemStore(), &capturePublisher{err: errors.New("broker down")}, nil, nil)

	_, err := svc.Place(context.Background(), "s1", filledCart(t), validCustomer(), "cod")
	assert.NoError(t, err)
}

func TestService_StoreFailureKeepsCart(t *testing.T) {
	svc := checkout.NewService(failingOrders{checkout.NewMemStore()}, nil, nil, nil)
	c := filledCart(t)

	_, err := svc.Place(context.Background(), "s1", c, validCustomer(), "cod")
	require.Error(t, err)
	assert.Equal(t, 2, c.CartItemCount())
}

func TestService_LineAddedDuringPlaceStaysInCart(t *testing.T) {
	ctx := context.Background()
	orders := blockingOrders{
		MemStore: checkout.NewMemStore(),
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	svc := checkout.NewService(orders, nil, nil, nil)
	c := filledCart(t)

	type result struct {
		o   checkout.Order
		err error
	}
	done := make(chan result, 1)
	go func() {
		o, err := svc.Place(ctx, "s1", c, validCustomer(), "cod")
		done <- result{o, err}
	}()

	<-orders.entered
	p, err := catalog.NewStore().Get(ctx, "2")
	require.NoError(t, err)
	c.AddToCart(ctx, p, "Black", "L", 1)
	close(orders.release)

	res := <-done
	require.NoError(t, res.err)
	require.Len(t, res.o.Lines, 1)
	assert.Equal(t, "1", res.o.Lines[0].ProductID)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "2", lines[0].Product.ID)
	assert.Equal(t, 1, c.CartItemCount())
}
