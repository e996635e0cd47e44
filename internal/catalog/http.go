package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Storefront/pkg/kit"
)

type Server struct {
	Store Store
	Log   *zap.Logger
}

type listResp struct {
	Products []productView `json:"products"`
	Shown    int           `json:"shown"`
	Total    int           `json:"total"`
}

type productView struct {
	Product
	DiscountPercent int `json:"discount_percent,omitempty"`
}

func view(p Product) productView {
	return productView{Product: p, DiscountPercent: p.DiscountPercent()}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Store.Ping(ctx); err != nil {
			s.log().Warn("readyz failed", zap.Error(err))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	s.Register(r)

	return r
}

func (s *Server) Register(r chi.Router) {
	r.Get("/products", s.list)
	r.Get("/products/{id}", s.get)
	r.Get("/categories", s.categories)
}

func (s *Server) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	f, key, err := ParseQuery(r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad query", map[string]any{"cause": err.Error()})
		return
	}

	all, err := s.Store.List(r.Context())
	if err != nil {
		s.log().Error("list products failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	shown := Apply(all, f, key)
	resp := listResp{
		Products: make([]productView, 0, len(shown)),
		Shown:    len(shown),
		Total:    len(all),
	}
	for _, p := range shown {
		resp.Products = append(resp.Products, view(p))
	}
	kit.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := s.Store.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	if err != nil {
		s.log().Error("get product failed", zap.Error(err), zap.String("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, view(p))
}

func (s *Server) categories(w http.ResponseWriter, r *http.Request) {
	cs, err := s.Store.Categories(r.Context())
	if err != nil {
		s.log().Error("list categories failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if cs == nil {
		cs = []Category{}
	}
	kit.WriteJSON(w, http.StatusOK, cs)
}

// ParseQuery reads q, min_price, max_price (decimal currency units), repeated
// category and sort from the request. Missing bounds fall back to the slider
// defaults.
func ParseQuery(r *http.Request) (Filter, SortKey, error) {
	q := r.URL.Query()
	f := DefaultFilter()
	f.Search = strings.TrimSpace(q.Get("q"))

	if v := q.Get("min_price"); v != "" {
		c, err := ParsePriceCents(v)
		if err != nil {
			return Filter{}, "", err
		}
		f.MinPriceCents = c
	}
	if v := q.Get("max_price"); v != "" {
		c, err := ParsePriceCents(v)
		if err != nil {
			return Filter{}, "", err
		}
		f = f.WithMaxPrice(c)
	}
	if f.HasMaxPrice && f.MinPriceCents > f.MaxPriceCents {
		return Filter{}, "", errors.New("min_price above max_price")
	}

	for _, c := range q["category"] {
		if c = strings.TrimSpace(c); c != "" {
			f.Categories = append(f.Categories, c)
		}
	}

	return f, ParseSortKey(q.Get("sort")), nil
}

// MaxQueryPrice is the largest price, in currency units, a query may name.
const MaxQueryPrice = 1_000_000

var (
	errBadPrice      = errors.New("price must be a non-negative number")
	errPriceTooLarge = fmt.Errorf("price must not exceed %d", MaxQueryPrice)
)

// ParsePriceCents converts "89.99" to 8999.
func ParsePriceCents(s string) (int64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, errBadPrice
	}
	if v > MaxQueryPrice {
		return 0, errPriceTooLarge
	}
	return int64(math.Round(v * 100)), nil
}
