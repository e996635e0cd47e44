// Package cart owns a shopper's cart and wishlist. A Container applies the
// pure reducers from reducer.go and writes every change back to storage.
package cart

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"Storefront/internal/catalog"
	"Storefront/internal/storage"
)

const (
	collectionCart     = "cart"
	collectionWishlist = "wishlist"

	OpAddToCart          = "add_to_cart"
	OpRemoveFromCart     = "remove_from_cart"
	OpUpdateQuantity     = "update_quantity"
	OpClearCart          = "clear_cart"
	OpAddToWishlist      = "add_to_wishlist"
	OpRemoveFromWishlist = "remove_from_wishlist"
	OpMoveToCart         = "move_to_cart"
	OpCheckout           = "checkout"
)

// Keys names the two storage blobs a container reads and writes.
type Keys struct {
	Cart     string
	Wishlist string
}

// KeysFor scopes a session's blobs under namespace, e.g.
// "storefront:<session>:cart".
func KeysFor(namespace, session string) Keys {
	prefix := namespace + ":" + session + ":"
	return Keys{Cart: prefix + collectionCart, Wishlist: prefix + collectionWishlist}
}

// Recorder receives mutation and persistence-failure counts.
// kit.StateMetrics implements it.
type Recorder interface {
	Mutation(op string)
	PersistFailed(collection string)
}

type nopRecorder struct{}

func (nopRecorder) Mutation(string)      {}
func (nopRecorder) PersistFailed(string) {}

type Option func(*Container)

func WithLogger(log *zap.Logger) Option {
	return func(c *Container) {
		if log != nil {
			c.log = log
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(c *Container) {
		if r != nil {
			c.rec = r
		}
	}
}

// WithIDGenerator replaces the line id generator.
func WithIDGenerator(fn func() string) Option {
	return func(c *Container) {
		if fn != nil {
			c.newID = fn
		}
	}
}

func newLineID() string { return "l_" + uuid.NewString() }

type Container struct {
	store storage.Store
	keys  Keys
	log   *zap.Logger
	rec   Recorder
	newID func() string

	mu       sync.Mutex
	lines    []LineItem
	wishlist []string
	lastErr  error

	obsMu     sync.Mutex
	observers map[int]func(Snapshot)
	nextObs   int
}

// Open hydrates a container from store. Missing, unreadable or malformed
// blobs start that collection empty.
func Open(ctx context.Context, store storage.Store, keys Keys, opts ...Option) *Container {
	c := &Container{
		store:     store,
		keys:      keys,
		log:       zap.NewNop(),
		rec:       nopRecorder{},
		newID:     newLineID,
		observers: map[int]func(Snapshot){},
	}
	for _, opt := range opts {
		opt(c)
	}

	if raw, ok := c.load(ctx, keys.Cart); ok {
		lines, err := decodeLines(raw)
		if err != nil {
			c.log.Debug("discarding malformed cart", zap.String("key", keys.Cart), zap.Error(err))
		} else {
			c.lines = lines
		}
	}
	if raw, ok := c.load(ctx, keys.Wishlist); ok {
		ids, err := decodeWishlist(raw)
		if err != nil {
			c.log.Debug("discarding malformed wishlist", zap.String("key", keys.Wishlist), zap.Error(err))
		} else {
			c.wishlist = ids
		}
	}

	return c
}

func (c *Container) load(ctx context.Context, key string) ([]byte, bool) {
	raw, ok, err := c.store.Load(ctx, key)
	if err != nil {
		c.log.Warn("load session state failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return raw, ok
}

func (c *Container) AddToCart(ctx context.Context, p catalog.Product, color, size string, qty int) {
	c.mutateCart(ctx, OpAddToCart, func(lines []LineItem) ([]LineItem, bool) {
		return AddLine(lines, p, color, size, qty, c.newID), true
	})
}

func (c *Container) RemoveFromCart(ctx context.Context, lineID string) {
	c.mutateCart(ctx, OpRemoveFromCart, func(lines []LineItem) ([]LineItem, bool) {
		return RemoveLine(lines, lineID)
	})
}

func (c *Container) UpdateQuantity(ctx context.Context, lineID string, qty int) {
	c.mutateCart(ctx, OpUpdateQuantity, func(lines []LineItem) ([]LineItem, bool) {
		return SetQuantity(lines, lineID, qty)
	})
}

func (c *Container) ClearCart(ctx context.Context) {
	c.mutateCart(ctx, OpClearCart, func(lines []LineItem) ([]LineItem, bool) {
		return []LineItem{}, len(lines) > 0
	})
}

// RemoveOrdered drops the lines of a placed order under the container lock.
// Lines added after ordered was read, and units added to an ordered line
// since, stay in the cart.
func (c *Container) RemoveOrdered(ctx context.Context, ordered []LineItem) {
	c.mutateCart(ctx, OpCheckout, func(lines []LineItem) ([]LineItem, bool) {
		return RemoveOrdered(lines, ordered)
	})
}

func (c *Container) AddToWishlist(ctx context.Context, productID string) {
	c.mutateWishlist(ctx, OpAddToWishlist, func(ids []string) ([]string, bool) {
		return AddWishlist(ids, productID)
	})
}

func (c *Container) RemoveFromWishlist(ctx context.Context, productID string) {
	c.mutateWishlist(ctx, OpRemoveFromWishlist, func(ids []string) ([]string, bool) {
		return RemoveWishlist(ids, productID)
	})
}

// MoveToCart adds one unit of p and drops it from the wishlist.
func (c *Container) MoveToCart(ctx context.Context, p catalog.Product, color, size string) {
	c.mu.Lock()
	c.lines = AddLine(c.lines, p, color, size, 1, c.newID)
	var removed bool
	c.wishlist, removed = RemoveWishlist(c.wishlist, p.ID)
	c.persistLocked(ctx, collectionCart)
	if removed {
		c.persistLocked(ctx, collectionWishlist)
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.rec.Mutation(OpMoveToCart)
	c.notify(snap)
}

func (c *Container) IsInWishlist(productID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Contains(c.wishlist, productID)
}

func (c *Container) CartItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ItemCount(c.lines)
}

func (c *Container) WishlistCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.wishlist)
}

func (c *Container) CartTotalCents() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return TotalCents(c.lines)
}

func (c *Container) Lines() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneLines(c.lines)
}

func (c *Container) Wishlist() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.wishlist...)
}

func (c *Container) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// LastPersistError returns the error of the most recent failed write, or nil
// once a later write of the same container succeeds.
func (c *Container) LastPersistError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Subscribe registers fn to be called with a fresh snapshot after every
// mutation that changed state. Calls happen on the mutating goroutine after
// the container lock is released.
func (c *Container) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.obsMu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	c.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.obsMu.Lock()
			delete(c.observers, id)
			c.obsMu.Unlock()
		})
	}
}

func (c *Container) mutateCart(ctx context.Context, op string, fn func([]LineItem) ([]LineItem, bool)) {
	c.mu.Lock()
	next, changed := fn(c.lines)
	c.lines = next
	c.persistLocked(ctx, collectionCart)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.rec.Mutation(op)
	if changed {
		c.notify(snap)
	}
}

func (c *Container) mutateWishlist(ctx context.Context, op string, fn func([]string) ([]string, bool)) {
	c.mu.Lock()
	next, changed := fn(c.wishlist)
	c.wishlist = next
	c.persistLocked(ctx, collectionWishlist)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.rec.Mutation(op)
	if changed {
		c.notify(snap)
	}
}

func (c *Container) persistLocked(ctx context.Context, collection string) {
	var (
		key string
		raw []byte
		err error
	)
	switch collection {
	case collectionCart:
		key = c.keys.Cart
		raw, err = encodeLines(c.lines)
	default:
		key = c.keys.Wishlist
		raw, err = encodeWishlist(c.wishlist)
	}
	if err == nil {
		err = c.store.Save(ctx, key, raw)
	}
	if err != nil {
		c.lastErr = fmt.Errorf("persist %s: %w", collection, err)
		c.rec.PersistFailed(collection)
		c.log.Warn("persist session state failed", zap.String("key", key), zap.Error(err))
		return
	}
	c.lastErr = nil
}

func (c *Container) snapshotLocked() Snapshot {
	return Snapshot{
		Lines:         cloneLines(c.lines),
		Wishlist:      append([]string{}, c.wishlist...),
		ItemCount:     ItemCount(c.lines),
		WishlistCount: len(c.wishlist),
		TotalCents:    TotalCents(c.lines),
	}
}

func (c *Container) notify(s Snapshot) {
	c.obsMu.Lock()
	fns := make([]func(Snapshot), 0, len(c.observers))
	for id := 0; id < c.nextObs; id++ {
		if fn, ok := c.observers[id]; ok {
			fns = append(fns, fn)
		}
	}
	c.obsMu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

// cloneLines copies the line slice and each product's variant slices so
// callers cannot reach back into container state.
func cloneLines(lines []LineItem) []LineItem {
	out := make([]LineItem, len(lines))
	for i, l := range lines {
		l.Product.Colors = slices.Clone(l.Product.Colors)
		l.Product.Sizes = slices.Clone(l.Product.Sizes)
		l.Product.Gallery = slices.Clone(l.Product.Gallery)
		out[i] = l
	}
	return out
}
