package cart

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Storefront/internal/catalog"
	"Storefront/internal/session"
	"Storefront/pkg/kit"
)

type Server struct {
	Sessions *Sessions
	Catalog  catalog.Store
	Log      *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

// Register adds the cart, wishlist and summary routes to r. They expect a
// session id in the request context.
func (s *Server) Register(r chi.Router) {
	r.Get("/cart", s.getCart)
	r.Delete("/cart", s.clearCart)
	r.Post("/cart/items", s.addItem)
	r.Patch("/cart/items/{lineID}", s.updateItem)
	r.Delete("/cart/items/{lineID}", s.removeItem)

	r.Get("/wishlist", s.getWishlist)
	r.Get("/wishlist/{productID}", s.inWishlist)
	r.Put("/wishlist/{productID}", s.addWishlist)
	r.Delete("/wishlist/{productID}", s.removeWishlist)
	r.Post("/wishlist/{productID}/move-to-cart", s.moveToCart)

	r.Get("/session/summary", s.summary)
}

func (s *Server) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// container resolves the caller's container, writing a 401 when the request
// carries no session.
func (s *Server) container(w http.ResponseWriter, r *http.Request) (*Container, bool) {
	sid, ok := session.FromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return nil, false
	}
	return s.Sessions.Get(r.Context(), sid), true
}

// product looks id up in the catalog, writing 404/500 on failure.
func (s *Server) product(w http.ResponseWriter, r *http.Request, id string) (catalog.Product, bool) {
	p, err := s.Catalog.Get(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"id": id})
		return catalog.Product{}, false
	}
	if err != nil {
		s.log().Error("catalog lookup failed", zap.Error(err), zap.String("product_id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return catalog.Product{}, false
	}
	return p, true
}

type cartResp struct {
	Lines      []LineItem `json:"lines"`
	ItemCount  int        `json:"item_count"`
	TotalCents int64      `json:"total_cents"`
}

func cartView(snap Snapshot) cartResp {
	return cartResp{Lines: snap.Lines, ItemCount: snap.ItemCount, TotalCents: snap.TotalCents}
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	c, ok := s.container(w, r)
	if !ok {
		return
	}
	kit.WriteJSON(w, http.StatusOK, cartView(c.Snapshot()))
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	c, ok := s.container(w, r)
	if !ok {
		return
	}
	c.ClearCart(r.Context())
	kit.WriteJSON(w, http.StatusOK, cartView(c.Snapshot()))
}

type addItemReq struct {
	ProductID string `json:"product_id"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  *int   `json:"quantity"`
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	if req.ProductID == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "product_id required", nil)
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if qty < 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "quantity must not be negative", nil)
		return
	}
	if qty > MaxQuantity {
		kit.WriteError(w, r, http.StatusBadRequest, "quantity too large", map[string]any{"max": MaxQuantity})
		return
	}

	c, ok := s.container(w, r)
	if !ok {
		return
	}
	p, ok := s.product(w, r, req.ProductID)
	if !ok {
		return
	}

	color := req.Color
	if color == "" {
		color = p.DefaultColor()
	}
	size := req.Size
	if size == "" {
		size = p.DefaultSize()
	}

	c.AddToCart(r.Context(), p, color, size, qty)
	kit.WriteJSON(w, http.StatusOK, cartView(c.Snapshot()))
}

type updateItemReq struct {
	Quantity *int `json:"quantity"`
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	if req.Quantity == nil {
		kit.WriteError(w, r, http.StatusBadRequest, "quantity required", nil)
		return
	}
	if *req.Quantity > MaxQuantity {
		kit.WriteError(w, r, http.StatusBadRequest, "quantity too large", map[string]any{"max": MaxQuantity})
		return
	}

	c, ok := s.container(w, r)
	if !ok {
		return
	}
	c.UpdateQuantity(r.Context(), chi.URLParam(r, "lineID"), *req.Quantity)
	kit.WriteJSON(w, http.StatusOK, cartView(c.Snapshot()))
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	c, ok := s.container(w, r)
	if !ok {
		return
	}
	c.RemoveFromCart(r.Context(), chi.URLParam(r, "lineID"))
	kit.WriteJSON(w, http.StatusOK, cartView(c.Snapshot()))
}

type wishlistResp struct {
	ProductIDs []string          `json:"product_ids"`
	Products   []catalog.Product `json:"products"`
	Count      int               `json:"count"`
}

func (s *Server) getWishlist(w http.ResponseWriter, r *http.Request) {
	c, ok := s.container(w, r)
	if !ok {
		return
	}

	ids := c.Wishlist()
	resp := wishlistResp{
		ProductIDs: ids,
		Products:   make([]catalog.Product, 0, len(ids)),
		Count:      len(ids),
	}
	for _, id := range ids {
		p, err := s.Catalog.Get(r.Context(), id)
		if err != nil {
			if !errors.Is(err, catalog.ErrNotFound) {
				s.log().Warn("resolve wishlist product failed", zap.Error(err), zap.String("product_id", id))
			}
			continue
		}
		resp.Products = append(resp.Products, p)
	}
	kit.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) inWishlist(w http.ResponseWriter, r *http.Request) {
	c, ok := s.container(w, r)
	if !ok {
		return
	}
	kit.WriteJSON(w, http.StatusOK, map[string]bool{
		"in_wishlist": c.IsInWishlist(chi.URLParam(r, "productID")),
	})
}

func (s *Server) addWishlist(w http.ResponseWriter, r *http.Request) {
	c, ok := s.container(w, r)
	if !ok {
		return
	}
	p, ok := s.product(w, r, chi.URLParam(r, "productID"))
	if !ok {
		return
	}
	c.AddToWishlist(r.Context(), p.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeWishlist(w http.ResponseWriter, r *http.Request) {
	c, ok := s.container(w, r)
	if !ok {
		return
	}
	c.RemoveFromWishlist(r.Context(), chi.URLParam(r, "productID"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) moveToCart(w http.ResponseWriter, r *http.Request) {
	c, ok := s.container(w, r)
	if !ok {
		return
	}
	p, ok := s.product(w, r, chi.URLParam(r, "productID"))
	if !ok {
		return
	}
	c.MoveToCart(r.Context(), p, p.DefaultColor(), p.DefaultSize())
	kit.WriteJSON(w, http.StatusOK, cartView(c.Snapshot()))
}

type summaryResp struct {
	CartItemCount  int   `json:"cart_item_count"`
	WishlistCount  int   `json:"wishlist_count"`
	CartTotalCents int64 `json:"cart_total_cents"`
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	c, ok := s.container(w, r)
	if !ok {
		return
	}
	snap := c.Snapshot()
	kit.WriteJSON(w, http.StatusOK, summaryResp{
		CartItemCount:  snap.ItemCount,
		WishlistCount:  snap.WishlistCount,
		CartTotalCents: snap.TotalCents,
	})
}
